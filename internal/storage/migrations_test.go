package storage

import (
	"context"
	"testing"
)

func TestMigrate_SetsSchemaVersion(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	var version int
	if err := store.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("Failed to read schema version: %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("user_version = %d, want %d", version, ExpectedSchemaVersion)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	for _, name := range []string{"idx_runs_started_at", "idx_reviews_lang"} {
		var count int
		err := store.db.QueryRow(`
			SELECT COUNT(*) FROM sqlite_master
			WHERE type='index' AND name=?
		`, name).Scan(&count)
		if err != nil {
			t.Fatalf("Failed to check index: %v", err)
		}
		if count != 1 {
			t.Errorf("index %s was not created", name)
		}
	}
}

func TestMigrate_NilContext(t *testing.T) {
	store, err := NewSQLiteStorage(MemoryPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer func() { _ = store.Close() }()

	//nolint:staticcheck // nil context is what is being tested
	if err := store.Migrate(nil); err != ErrNilContext {
		t.Errorf("Migrate(nil) error = %v, want %v", err, ErrNilContext)
	}
}
