package testutil

import "github.com/Veraticus/polyreview/internal/model"

// Header is the column order of a freshly enriched table.
func Header() []string {
	return append(append([]string{}, model.InputColumns...), model.ResultColumns...)
}

// EnrichedReview builds a processed review. The text doubles as its own translation.
func EnrichedReview(id string, product int, lang string, label model.SentimentLabel) model.EnrichedReview {
	return model.EnrichedReview{
		Review: model.Review{ID: id, ProductID: product, Label: 5, Text: "text " + id},
		Enrichment: model.Enrichment{
			OriginalLang:   lang,
			LangConf:       0.99,
			TranslatedText: "text " + id,
			SentimentLabel: label,
			SentimentScore: 0.9,
		},
	}
}

// EnrichedReviews returns five rows over three products and three languages.
// Product 102 leads at 100% positive, then 101 at 50% and 103 at 0%.
func EnrichedReviews() []model.EnrichedReview {
	return []model.EnrichedReview{
		EnrichedReview("en_1", 101, "en", model.SentimentPositive),
		EnrichedReview("en_2", 101, "en", model.SentimentNegative),
		EnrichedReview("de_1", 102, "de", model.SentimentPositive),
		EnrichedReview("es_1", 102, "es", model.SentimentPositive),
		EnrichedReview("es_2", 103, "es", model.SentimentNegative),
	}
}
