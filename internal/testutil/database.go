// Package testutil provides shared fixtures for tests that need a history database.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/polyreview/internal/model"
	"github.com/Veraticus/polyreview/internal/service"
	"github.com/Veraticus/polyreview/internal/storage"
)

// TestDB is a migrated history database that closes itself when the test ends.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB opens and migrates a database at path. Use storage.MemoryPath
// for a throwaway in-memory database.
func SetupTestDB(t *testing.T, path string) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// SeedRun stores rows as one finished run and returns it.
func (db *TestDB) SeedRun(inputPath, outputPath string, rows []model.EnrichedReview) *model.Run {
	db.t.Helper()
	ctx := context.Background()

	run, err := db.Storage.CreateRun(ctx, inputPath, outputPath, Header())
	if err != nil {
		db.t.Fatalf("failed to create run: %v", err)
	}
	if err := db.Storage.SaveReviews(ctx, run.ID, rows); err != nil {
		db.t.Fatalf("failed to save reviews: %v", err)
	}

	failed := 0
	for _, r := range rows {
		if r.Failed() {
			failed++
		}
	}
	if err := db.Storage.FinishRun(ctx, run.ID, len(rows), failed); err != nil {
		db.t.Fatalf("failed to finish run: %v", err)
	}
	return run
}
