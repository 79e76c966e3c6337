package storage

import (
	"context"
	"testing"
)

func TestMigrate_Idempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	// Second run must be a no-op.
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}

	var version int
	if err := store.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("failed to read version: %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("schema version = %d, want %d", version, ExpectedSchemaVersion)
	}
}

func TestMigrate_CreatesOwnerIndexes(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	for _, name := range []string{"idx_incomes_owner", "idx_assets_owner", "idx_liabilities_owner", "idx_credit_cards_owner"} {
		var count int
		err := store.db.QueryRow(`
			SELECT COUNT(*) FROM sqlite_master
			WHERE type='index' AND name=?
		`, name).Scan(&count)
		if err != nil {
			t.Fatalf("Failed to check index %s: %v", name, err)
		}
		if count != 1 {
			t.Errorf("index %s was not created", name)
		}
	}
}
