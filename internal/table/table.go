// Package table reads and writes review tables as CSV files.
package table

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/Veraticus/polyreview/internal/common"
	"github.com/Veraticus/polyreview/internal/model"
)

// Hints shown to the operator when a table is missing.
const (
	HintGenerateData = "run `polyreview generate-data` first"
	HintRunPipeline  = "run `polyreview run` first"
)

// Dataset is a loaded input table.
type Dataset struct {
	Header  []string
	Reviews []model.Review
}

// OutputHeader returns the input header followed by the enrichment columns.
// Enrichment columns already present in the input are moved to the end.
func (d *Dataset) OutputHeader() []string {
	header := make([]string, 0, len(d.Header)+len(model.ResultColumns))
	for _, col := range d.Header {
		if !slices.Contains(model.ResultColumns, col) {
			header = append(header, col)
		}
	}
	return append(header, model.ResultColumns...)
}

// CSVSource loads reviews from a CSV file.
type CSVSource struct {
	Path string
	Hint string
}

// Load implements pipeline.Source.
func (s CSVSource) Load(_ context.Context) (*Dataset, error) {
	return LoadReviews(s.Path, s.Hint)
}

// CSVSink writes enriched reviews to a CSV file.
type CSVSink struct {
	Path string
}

// Save implements pipeline.Sink.
func (s CSVSink) Save(_ context.Context, header []string, rows []model.EnrichedReview) error {
	return WriteEnriched(s.Path, header, rows)
}

// LoadReviews reads an input table. The text and product_id columns are
// required; every other column is carried through in Review.Extra.
func LoadReviews(path, hint string) (*Dataset, error) {
	header, records, err := readAll(path, hint)
	if err != nil {
		return nil, err
	}

	idx := indexOf(header)
	for _, col := range []string{model.ColumnProductID, model.ColumnText} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s: missing column %q", common.ErrInvalidTable, path, col)
		}
	}

	reviews := make([]model.Review, 0, len(records))
	for line, record := range records {
		review, raw := parseReview(header, idx, record)
		warnRaw(path, line+2, review, raw)
		reviews = append(reviews, review)
	}

	return &Dataset{Header: header, Reviews: reviews}, nil
}

// LoadEnriched reads a table written by WriteEnriched.
func LoadEnriched(path string) ([]string, []model.EnrichedReview, error) {
	header, records, err := readAll(path, HintRunPipeline)
	if err != nil {
		return nil, nil, err
	}

	idx := indexOf(header)
	for _, col := range append([]string{model.ColumnProductID, model.ColumnText}, model.ResultColumns...) {
		if _, ok := idx[col]; !ok {
			return nil, nil, fmt.Errorf("%w: %s: missing column %q", common.ErrInvalidTable, path, col)
		}
	}

	rows := make([]model.EnrichedReview, 0, len(records))
	for line, record := range records {
		review, raw := parseReview(header, idx, record)
		warnRaw(path, line+2, review, raw)
		enrichment, err := parseEnrichment(idx, record)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s row %d: %v", common.ErrInvalidTable, path, line+2, err)
		}
		for _, col := range model.ResultColumns {
			delete(review.Extra, col)
		}
		rows = append(rows, model.EnrichedReview{Review: review, Enrichment: enrichment})
	}

	return header, rows, nil
}

// WriteEnriched writes rows under header. The file is written to a temporary
// sibling first and renamed into place.
func WriteEnriched(path string, header []string, rows []model.EnrichedReview) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := Write(tmp, header, rows); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move table into place: %w", err)
	}
	return nil
}

// Write encodes rows as CSV under header.
func Write(w io.Writer, header []string, rows []model.EnrichedReview) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(header))
	for _, row := range rows {
		for i, col := range header {
			record[i] = row.Value(col)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %s: %w", row.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func readAll(path, hint string) ([]string, [][]string, error) {
	f, err := os.Open(path) //nolint:gosec // operator-supplied path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, common.MissingInputError(path, hint)
		}
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("%w: %s is empty", common.ErrInvalidTable, path)
		}
		return nil, nil, fmt.Errorf("%w: %s: %v", common.ErrInvalidTable, path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", common.ErrInvalidTable, path, err)
	}
	return header, records, nil
}

func indexOf(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		if _, seen := idx[col]; !seen {
			idx[col] = i
		}
	}
	return idx
}

func cell(record []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

// parseReview never rejects a row. A product_id or label cell that is not an
// integer is kept verbatim in Extra under its own column name, and the names
// of those columns are returned.
func parseReview(header []string, idx map[string]int, record []string) (model.Review, []string) {
	review := model.Review{
		ID:   cell(record, idx, model.ColumnID),
		Text: cell(record, idx, model.ColumnText),
	}

	var raw []string
	keepRaw := func(col string) int {
		value := cell(record, idx, col)
		n, err := parseInt(value)
		if err != nil {
			if review.Extra == nil {
				review.Extra = make(map[string]string)
			}
			review.Extra[col] = value
			raw = append(raw, col)
		}
		return n
	}
	review.ProductID = keepRaw(model.ColumnProductID)
	review.Label = keepRaw(model.ColumnLabel)

	for i, col := range header {
		if slices.Contains(model.InputColumns, col) {
			continue
		}
		if review.Extra == nil {
			review.Extra = make(map[string]string)
		}
		if i < len(record) {
			review.Extra[col] = record[i]
		} else {
			review.Extra[col] = ""
		}
	}
	return review, raw
}

func warnRaw(path string, row int, review model.Review, columns []string) {
	for _, col := range columns {
		slog.Warn("Keeping non-integer cell as text",
			"path", path,
			"row", row,
			"id", review.ID,
			"column", col,
			"value", review.Extra[col])
	}
}

func parseEnrichment(idx map[string]int, record []string) (model.Enrichment, error) {
	langConf, err := parseFloat(cell(record, idx, model.ColumnLangConf))
	if err != nil {
		return model.Enrichment{}, fmt.Errorf("lang_conf: %w", err)
	}
	score, err := parseFloat(cell(record, idx, model.ColumnSentimentScore))
	if err != nil {
		return model.Enrichment{}, fmt.Errorf("sentiment_score: %w", err)
	}
	return model.Enrichment{
		OriginalLang:   cell(record, idx, model.ColumnOriginalLang),
		LangConf:       langConf,
		TranslatedText: cell(record, idx, model.ColumnTranslatedText),
		SentimentLabel: model.SentimentLabel(cell(record, idx, model.ColumnSentimentLabel)),
		SentimentScore: score,
	}, nil
}

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i, nil
	}
	// Tables exported by spreadsheet tools sometimes carry "101.0".
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int(f), nil
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
