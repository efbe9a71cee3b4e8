// Package report renders aggregate review statistics for the terminal and for export.
package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Veraticus/polyreview/internal/analytics"
	"github.com/Veraticus/polyreview/internal/cli"
	"github.com/Veraticus/polyreview/internal/model"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Format selects the report encoding.
type Format string

// Supported formats.
const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
)

// Formats lists every supported format.
var Formats = []Format{FormatTable, FormatJSON, FormatYAML, FormatCSV}

// ErrUnknownFormat is returned for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown report format")

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want one of table, json, yaml, csv)", ErrUnknownFormat, s)
}

// Report is the serializable aggregate view.
type Report struct {
	Winner    *model.ProductStats   `json:"winner,omitempty" yaml:"winner,omitempty"`
	Source    string                `json:"source,omitempty" yaml:"source,omitempty"`
	Languages []string              `json:"languages,omitempty" yaml:"languages,omitempty"`
	Products  []model.ProductStats  `json:"products" yaml:"products"`
	Breakdown []model.LanguageCount `json:"language_distribution" yaml:"language_distribution"`
	Summary   model.Summary         `json:"summary" yaml:"summary"`
}

// Build collects the report from an aggregator. languages records the
// filter that produced the view, if any.
func Build(a *analytics.Aggregator, source string, languages []string) Report {
	r := Report{
		Source:    source,
		Languages: languages,
		Products:  a.PositivityByProduct(),
		Breakdown: a.LanguageDistribution(),
		Summary:   a.Summary(),
	}
	if w, ok := a.Winner(); ok {
		r.Winner = &w
	}
	return r
}

// WinnerLine announces the best product.
func WinnerLine(w model.ProductStats) string {
	return fmt.Sprintf("WINNER: Product %d with %s%% positive feedback", w.ProductID, FormatRate(w.PositivityRate))
}

// FormatRate renders a one-decimal percentage without trailing zeros.
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}

// Render writes r to w in the given format.
func Render(w io.Writer, r Report, format Format) error {
	switch format {
	case FormatTable, "":
		return renderTable(w, r)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case FormatCSV:
		return renderCSV(w, r)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func renderCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"product_id", "positivity_rate", "review_count"}); err != nil {
		return err
	}
	for _, p := range r.Products {
		if err := cw.Write([]string{
			strconv.Itoa(p.ProductID),
			FormatRate(p.PositivityRate),
			strconv.Itoa(p.ReviewCount),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func renderTable(w io.Writer, r Report) error {
	var b strings.Builder

	b.WriteString(cli.FormatTitle("Multilingual Review Report"))
	b.WriteString("\n")
	if r.Source != "" {
		b.WriteString(cli.SubtleStyle.Render("Source: "+r.Source) + "\n")
	}
	if len(r.Languages) > 0 {
		b.WriteString(cli.SubtleStyle.Render("Languages: "+strings.Join(r.Languages, ", ")) + "\n")
	}
	b.WriteString("\n")

	if r.Summary.Total == 0 {
		b.WriteString(cli.FormatWarning("No reviews match the current selection."))
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	summary := fmt.Sprintf("Total reviews: %d\nPositive: %d\nNegative: %d\nPositivity: %s%%",
		r.Summary.Total, r.Summary.Positive, r.Summary.Negative, FormatRate(r.Summary.PositivityRate))
	b.WriteString(cli.RenderBox(cli.ChartIcon+" Summary", summary))
	b.WriteString("\n\n")

	b.WriteString(cli.BoldStyle.Render("Positivity by product"))
	b.WriteString("\n")
	b.WriteString(productTable(r.Products))
	b.WriteString("\n")

	b.WriteString(cli.BoldStyle.Render("Language distribution"))
	b.WriteString("\n")
	b.WriteString(languageTable(r.Breakdown, r.Summary.Total))
	b.WriteString("\n")

	if r.Winner != nil {
		b.WriteString(cli.FormatWinner(WinnerLine(*r.Winner)))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func productTable(products []model.ProductStats) string {
	rows := [][]string{{"Product", "Positive %", "Reviews", ""}}
	for _, p := range products {
		rows = append(rows, []string{
			strconv.Itoa(p.ProductID),
			FormatRate(p.PositivityRate),
			strconv.Itoa(p.ReviewCount),
			Bar(p.PositivityRate, 100, 20),
		})
	}
	return renderRows(rows)
}

func languageTable(counts []model.LanguageCount, total int) string {
	rows := [][]string{{"Language", "Name", "Reviews", ""}}
	for _, c := range counts {
		rows = append(rows, []string{
			c.Language,
			c.Name,
			strconv.Itoa(c.Count),
			Bar(float64(c.Count), float64(total), 20),
		})
	}
	return renderRows(rows)
}

func renderRows(rows [][]string) string {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows))
	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			style := cli.TableCellStyle.Width(widths[i] + 2)
			if r == 0 {
				style = style.Bold(true).Foreground(cli.MutedColor)
			}
			cells[i] = style.Render(cell)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

// Bar draws a horizontal bar of value relative to maxValue.
func Bar(value, maxValue float64, width int) string {
	if maxValue <= 0 || width <= 0 {
		return ""
	}
	filled := int(value / maxValue * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return cli.BarStyle.Render(strings.Repeat("█", filled)) +
		cli.SubtleStyle.Render(strings.Repeat("░", width-filled))
}
