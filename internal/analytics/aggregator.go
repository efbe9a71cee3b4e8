// Package analytics summarizes enriched reviews per product and language.
package analytics

import (
	"math"
	"sort"

	"github.com/Veraticus/polyreview/internal/model"
)

// Aggregator computes read-only summaries over a set of enriched reviews.
type Aggregator struct {
	rows []model.EnrichedReview
}

// New creates an aggregator over rows. The slice is not copied.
func New(rows []model.EnrichedReview) *Aggregator {
	return &Aggregator{rows: rows}
}

// Rows returns the reviews in view.
func (a *Aggregator) Rows() []model.EnrichedReview {
	return a.rows
}

// Len returns the number of reviews in view.
func (a *Aggregator) Len() int {
	return len(a.rows)
}

// PositivityByProduct returns the share of POSITIVE reviews per product as a
// percentage rounded to one decimal, highest first. Ties keep the order in
// which products first appear.
func (a *Aggregator) PositivityByProduct() []model.ProductStats {
	type tally struct{ positive, total int }

	var order []int
	tallies := make(map[int]*tally)
	for _, r := range a.rows {
		t, ok := tallies[r.ProductID]
		if !ok {
			t = &tally{}
			tallies[r.ProductID] = t
			order = append(order, r.ProductID)
		}
		t.total++
		if r.IsPositive() {
			t.positive++
		}
	}

	stats := make([]model.ProductStats, 0, len(order))
	for _, id := range order {
		t := tallies[id]
		stats = append(stats, model.ProductStats{
			ProductID:      id,
			PositivityRate: percent(t.positive, t.total),
			ReviewCount:    t.total,
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].PositivityRate > stats[j].PositivityRate
	})
	return stats
}

// Winner returns the product with the highest positivity rate.
func (a *Aggregator) Winner() (model.ProductStats, bool) {
	stats := a.PositivityByProduct()
	if len(stats) == 0 {
		return model.ProductStats{}, false
	}
	return stats[0], true
}

// LanguageDistribution counts reviews per detected language, most common
// first. Ties keep the order of first appearance.
func (a *Aggregator) LanguageDistribution() []model.LanguageCount {
	var counts []model.LanguageCount
	index := make(map[string]int)
	for _, r := range a.rows {
		i, ok := index[r.OriginalLang]
		if !ok {
			i = len(counts)
			index[r.OriginalLang] = i
			counts = append(counts, model.LanguageCount{
				Language: r.OriginalLang,
				Name:     DisplayName(r.OriginalLang),
			})
		}
		counts[i].Count++
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// Languages returns the distinct detected languages in order of first appearance.
func (a *Aggregator) Languages() []string {
	var langs []string
	seen := make(map[string]bool)
	for _, r := range a.rows {
		if !seen[r.OriginalLang] {
			seen[r.OriginalLang] = true
			langs = append(langs, r.OriginalLang)
		}
	}
	return langs
}

// Summary returns totals over the reviews in view.
func (a *Aggregator) Summary() model.Summary {
	s := model.Summary{Total: len(a.rows)}
	for _, r := range a.rows {
		switch r.SentimentLabel {
		case model.SentimentPositive:
			s.Positive++
		case model.SentimentNegative:
			s.Negative++
		}
	}
	s.PositivityRate = percent(s.Positive, s.Total)
	return s
}

// Filter returns an aggregator over the reviews detected in one of languages.
// An empty selection yields an empty view.
func (a *Aggregator) Filter(languages []string) *Aggregator {
	keep := make(map[string]bool, len(languages))
	for _, l := range languages {
		keep[l] = true
	}

	var rows []model.EnrichedReview
	for _, r := range a.rows {
		if keep[r.OriginalLang] {
			rows = append(rows, r)
		}
	}
	return New(rows)
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*100*10) / 10
}
