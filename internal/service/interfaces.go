// Package service defines the interfaces shared between commands and their backends.
package service

import (
	"context"

	"github.com/Veraticus/polyreview/internal/model"
)

// Storage defines the contract for the run history store.
type Storage interface {
	// Run operations
	CreateRun(ctx context.Context, inputPath, outputPath string, header []string) (*model.Run, error)
	FinishRun(ctx context.Context, runID string, total, failed int) error
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)
	GetRun(ctx context.Context, id string) (*model.Run, error)
	LatestRun(ctx context.Context) (*model.Run, error)

	// Review operations
	SaveReviews(ctx context.Context, runID string, rows []model.EnrichedReview) error
	GetRunReviews(ctx context.Context, runID string, languages []string) ([]model.EnrichedReview, error)

	// Maintenance
	Migrate(ctx context.Context) error
	Close() error
}
