package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/polyreview/internal/common"
	"github.com/Veraticus/polyreview/internal/model"
	"github.com/Veraticus/polyreview/internal/table"
)

// Source loads the review table to process.
type Source interface {
	Load(ctx context.Context) (*table.Dataset, error)
}

// Sink persists the enriched table.
type Sink interface {
	Save(ctx context.Context, header []string, rows []model.EnrichedReview) error
}

// Result is the outcome of a batch run.
type Result struct {
	Header []string
	Rows   []model.EnrichedReview
	Stats  Stats
}

// Run loads every review from source, enriches it and writes the augmented
// table to sink. Nothing is written if ctx is canceled mid-batch.
func (p *Pipeline) Run(ctx context.Context, source Source, sink Sink) (Result, error) {
	dataset, err := source.Load(ctx)
	if err != nil {
		if errors.Is(err, common.ErrInputNotFound) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("failed to load reviews: %w", err)
	}

	p.logger.Info("Processing reviews", "count", len(dataset.Reviews), "workers", p.workers)

	rows, stats, err := p.Process(ctx, dataset.Reviews)
	if err != nil {
		return Result{}, err
	}

	header := dataset.OutputHeader()
	if err := sink.Save(ctx, header, rows); err != nil {
		return Result{}, fmt.Errorf("failed to save enriched reviews: %w", err)
	}

	p.logger.Info("Processing complete",
		"total", stats.Total,
		"failed", stats.Failed,
		"translated", stats.Translated,
		"duration", stats.Duration)

	return Result{Header: header, Rows: rows, Stats: stats}, nil
}
