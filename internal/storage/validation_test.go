package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/polyreview/internal/model"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid", input: "run-1", wantErr: false},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: " \t\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.input, "param")
			if (err != nil) != tt.wantErr {
				t.Errorf("validateString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrEmptyString) {
				t.Errorf("validateString() error = %v, want %v", err, ErrEmptyString)
			}
		})
	}
}

func TestValidateRows(t *testing.T) {
	tests := []struct {
		name    string
		wantErr error
		rows    []model.EnrichedReview
	}{
		{name: "nil slice", rows: nil, wantErr: ErrNilParameter},
		{name: "empty slice", rows: []model.EnrichedReview{}, wantErr: nil},
		{
			name:    "missing language",
			rows:    []model.EnrichedReview{{Enrichment: model.Enrichment{SentimentLabel: model.SentimentPositive}}},
			wantErr: ErrInvalidRow,
		},
		{
			name:    "missing label",
			rows:    []model.EnrichedReview{{Enrichment: model.Enrichment{OriginalLang: "en"}}},
			wantErr: ErrInvalidRow,
		},
		{
			name:    "failure record is valid",
			rows:    []model.EnrichedReview{{Enrichment: model.FailedEnrichment("x")}},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRows(tt.rows)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateRows() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
