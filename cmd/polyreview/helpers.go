package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/polyreview/internal/common"
	"github.com/Veraticus/polyreview/internal/config"
	"github.com/Veraticus/polyreview/internal/model"
	"github.com/Veraticus/polyreview/internal/service"
	"github.com/Veraticus/polyreview/internal/storage"
	"github.com/Veraticus/polyreview/internal/table"
	"github.com/spf13/viper"
)

// latestRun selects the most recent finished run for --run.
const latestRun = "latest"

// loadConfig reads the typed configuration from the global viper instance.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// initStorage opens the history database and brings its schema up to date.
func initStorage(ctx context.Context, cfg config.Config) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// reviewSet is a set of enriched rows plus a label describing where they came from.
type reviewSet struct {
	source string
	rows   []model.EnrichedReview
}

// loadReviewSet reads enriched rows from the history database when runRef is
// set, and from the output table otherwise. languages narrows history reads
// in the query; table reads return every row.
func loadReviewSet(ctx context.Context, cfg config.Config, input, runRef string, languages []string) (reviewSet, error) {
	if runRef != "" {
		return loadRunReviews(ctx, cfg, runRef, languages)
	}

	path := cfg.Data.Output
	if input != "" {
		path = config.ExpandPath(input)
	}

	_, rows, err := table.LoadEnriched(path)
	if err != nil {
		return reviewSet{}, err
	}
	if len(rows) == 0 {
		return reviewSet{}, common.NewUserError(fmt.Sprintf("%s contains no reviews", path), common.ErrNoReviews)
	}

	return reviewSet{source: path, rows: rows}, nil
}

func loadRunReviews(ctx context.Context, cfg config.Config, runRef string, languages []string) (reviewSet, error) {
	store, err := initStorage(ctx, cfg)
	if err != nil {
		return reviewSet{}, err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	var run *model.Run
	if strings.EqualFold(runRef, latestRun) {
		run, err = store.LatestRun(ctx)
	} else {
		run, err = store.GetRun(ctx, runRef)
	}
	if err != nil {
		if storage.IsNotFound(err) {
			return reviewSet{}, common.NewUserError(
				fmt.Sprintf("no run matching %q (run `polyreview history` to list runs)", runRef), err)
		}
		return reviewSet{}, fmt.Errorf("failed to find run: %w", err)
	}

	rows, err := store.GetRunReviews(ctx, run.ID, languages)
	if err != nil {
		return reviewSet{}, fmt.Errorf("failed to load reviews for run %s: %w", run.ID, err)
	}
	if len(rows) == 0 && len(languages) == 0 {
		return reviewSet{}, common.NewUserError(fmt.Sprintf("run %s has no stored reviews", shortID(run.ID)), common.ErrNoReviews)
	}

	return reviewSet{source: "run " + shortID(run.ID), rows: rows}, nil
}

// shortID abbreviates a run ID for display. GetRun accepts the prefix back.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
