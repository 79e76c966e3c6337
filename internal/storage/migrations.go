package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Financial record tables",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS incomes (
					id TEXT PRIMARY KEY,
					owner TEXT NOT NULL DEFAULT '',
					source TEXT NOT NULL,
					category TEXT NOT NULL DEFAULT '',
					amount REAL NOT NULL,
					frequency TEXT NOT NULL,
					received_at DATETIME,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE TABLE IF NOT EXISTS assets (
					id TEXT PRIMARY KEY,
					owner TEXT NOT NULL DEFAULT '',
					name TEXT NOT NULL,
					category TEXT NOT NULL,
					current_value REAL NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE TABLE IF NOT EXISTS liabilities (
					id TEXT PRIMARY KEY,
					owner TEXT NOT NULL DEFAULT '',
					name TEXT NOT NULL,
					type TEXT NOT NULL,
					outstanding_amount REAL NOT NULL,
					interest_rate REAL NOT NULL DEFAULT 0,
					monthly_payment REAL NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE TABLE IF NOT EXISTS credit_cards (
					id TEXT PRIMARY KEY,
					owner TEXT NOT NULL DEFAULT '',
					card_name TEXT NOT NULL,
					issuer TEXT NOT NULL DEFAULT '',
					credit_limit REAL NOT NULL,
					outstanding_balance REAL NOT NULL,
					interest_rate REAL NOT NULL DEFAULT 0,
					minimum_payment REAL NOT NULL DEFAULT 0,
					due_date DATETIME,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Owner scope indexes",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE INDEX IF NOT EXISTS idx_incomes_owner ON incomes(owner)`,
				`CREATE INDEX IF NOT EXISTS idx_assets_owner ON assets(owner)`,
				`CREATE INDEX IF NOT EXISTS idx_liabilities_owner ON liabilities(owner)`,
				`CREATE INDEX IF NOT EXISTS idx_credit_cards_owner ON credit_cards(owner)`,
			)
		},
	},
}

func execAll(tx *sql.Tx, queries ...string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// Migrate brings the schema up to ExpectedSchemaVersion.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
