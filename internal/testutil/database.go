// Package testutil provides shared fixtures and fakes for the advise test suites.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/the-spice-must-advise/internal/service"
	"github.com/Veraticus/the-spice-must-advise/internal/storage"
)

// TestDB is an in-memory SQLite store seeded for a test.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates a migrated in-memory database seeded with fixture.
// The database is closed when the test ends.
//
// Example:
//
//	db := testutil.SetupTestDB(t, testutil.NewFixture("alice").WithBasicScenario())
func SetupTestDB(t *testing.T, fixture *Fixture) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})

	db := &TestDB{Storage: store, t: t}
	if fixture != nil {
		db.Seed(fixture)
	}
	return db
}

// Seed saves every record in fixture or fails the test.
func (db *TestDB) Seed(fixture *Fixture) {
	db.t.Helper()
	ctx := context.Background()

	for i := range fixture.Incomes {
		if err := db.Storage.SaveIncome(ctx, &fixture.Incomes[i]); err != nil {
			db.t.Fatalf("failed to seed income: %v", err)
		}
	}
	for i := range fixture.Assets {
		if err := db.Storage.SaveAsset(ctx, &fixture.Assets[i]); err != nil {
			db.t.Fatalf("failed to seed asset: %v", err)
		}
	}
	for i := range fixture.Liabilities {
		if err := db.Storage.SaveLiability(ctx, &fixture.Liabilities[i]); err != nil {
			db.t.Fatalf("failed to seed liability: %v", err)
		}
	}
	for i := range fixture.CreditCards {
		if err := db.Storage.SaveCreditCard(ctx, &fixture.CreditCards[i]); err != nil {
			db.t.Fatalf("failed to seed credit card: %v", err)
		}
	}
}
