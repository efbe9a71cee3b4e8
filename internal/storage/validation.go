// Package storage keeps the history of pipeline runs in SQLite.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/polyreview/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidRow   = errors.New("invalid enriched review")
	ErrInvalidLimit = errors.New("limit must be positive")
)

// Lookup errors.
var (
	ErrRunNotFound  = errors.New("run not found")
	ErrAmbiguousRun = errors.New("run ID prefix matches more than one run")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateRows(rows []model.EnrichedReview) error {
	if rows == nil {
		return fmt.Errorf("%w: rows", ErrNilParameter)
	}
	for i, row := range rows {
		if row.OriginalLang == "" {
			return fmt.Errorf("row at index %d: %w: missing original_lang", i, ErrInvalidRow)
		}
		if row.SentimentLabel == "" {
			return fmt.Errorf("row at index %d: %w: missing sentiment_label", i, ErrInvalidRow)
		}
	}
	return nil
}
