package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/Veraticus/polyreview/internal/model"
)

// SaveReviews stores the enriched rows of a run in a single transaction,
// keeping their order.
func (s *SQLiteStorage) SaveReviews(ctx context.Context, runID string, rows []model.EnrichedReview) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(runID, "runID"); err != nil {
		return err
	}
	if err := validateRows(rows); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO reviews (
				run_id, position, review_id, product_id, label, text, extra,
				original_lang, lang_conf, translated_text, sentiment_label, sentiment_score
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for i, row := range rows {
			extra, err := encodeExtra(row.Extra)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx,
				runID, i, row.ID, row.ProductID, row.Label, row.Text, extra,
				row.OriginalLang, row.LangConf, row.TranslatedText,
				string(row.SentimentLabel), row.SentimentScore,
			); err != nil {
				return fmt.Errorf("failed to save review %s: %w", row.ID, err)
			}
		}
		return nil
	})
}

// GetRunReviews returns the rows of a run in their original order. When
// languages is non-empty only rows detected in one of them are returned.
func (s *SQLiteStorage) GetRunReviews(ctx context.Context, runID string, languages []string) ([]model.EnrichedReview, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(runID, "runID"); err != nil {
		return nil, err
	}

	builder := sq.Select(
		"review_id", "product_id", "label", "text", "extra",
		"original_lang", "lang_conf", "translated_text", "sentiment_label", "sentiment_score",
	).
		From("reviews").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("position")
	if len(languages) > 0 {
		builder = builder.Where(sq.Eq{"original_lang": languages})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.EnrichedReview
	for rows.Next() {
		var (
			r     model.EnrichedReview
			extra string
			label string
		)
		if err := rows.Scan(&r.ID, &r.ProductID, &r.Label, &r.Text, &extra,
			&r.OriginalLang, &r.LangConf, &r.TranslatedText, &label, &r.SentimentScore); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		r.SentimentLabel = model.SentimentLabel(label)
		if r.Extra, err = decodeExtra(extra); err != nil {
			return nil, fmt.Errorf("review %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reviews: %w", err)
	}
	return out, nil
}

func encodeExtra(extra map[string]string) (string, error) {
	if len(extra) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(extra)
	if err != nil {
		return "", fmt.Errorf("failed to encode extra columns: %w", err)
	}
	return string(b), nil
}

func decodeExtra(s string) (map[string]string, error) {
	if s == "" || s == "{}" {
		return nil, nil //nolint:nilnil // no extra columns
	}
	var extra map[string]string
	if err := json.Unmarshal([]byte(s), &extra); err != nil {
		return nil, fmt.Errorf("failed to decode extra columns: %w", err)
	}
	return extra, nil
}
