package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/the-spice-must-advise/internal/model"
)

// scopeClause returns the WHERE fragment and args selecting a scope.
func scopeClause(scope model.Scope) (string, []any) {
	if scope.Owner == "" {
		return "", nil
	}
	return " WHERE owner = ?", []any{scope.Owner}
}

// prepareIdentity fills generated fields before an insert.
func prepareIdentity(id *string, createdAt *time.Time) {
	if *id == "" {
		*id = uuid.New().String()
	}
	if createdAt.IsZero() {
		*createdAt = time.Now().UTC()
	}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// SaveIncome inserts or replaces an income record.
func (s *SQLiteStorage) SaveIncome(ctx context.Context, income *model.Income) error {
	if err := validateRecord(ctx, income, income == nil, "income"); err != nil {
		return err
	}
	prepareIdentity(&income.ID, &income.CreatedAt)

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO incomes (id, owner, source, category, amount, frequency, received_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		income.ID, income.Owner, income.Source, income.Category, income.Amount,
		string(income.Frequency), nullTime(income.ReceivedAt), income.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save income: %w", err)
	}
	return nil
}

// SaveAsset inserts or replaces an asset record.
func (s *SQLiteStorage) SaveAsset(ctx context.Context, asset *model.Asset) error {
	if err := validateRecord(ctx, asset, asset == nil, "asset"); err != nil {
		return err
	}
	prepareIdentity(&asset.ID, &asset.CreatedAt)

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO assets (id, owner, name, category, current_value, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		asset.ID, asset.Owner, asset.Name, string(asset.Category), asset.CurrentValue, asset.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save asset: %w", err)
	}
	return nil
}

// SaveLiability inserts or replaces a liability record.
func (s *SQLiteStorage) SaveLiability(ctx context.Context, liability *model.Liability) error {
	if err := validateRecord(ctx, liability, liability == nil, "liability"); err != nil {
		return err
	}
	prepareIdentity(&liability.ID, &liability.CreatedAt)

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO liabilities (id, owner, name, type, outstanding_amount, interest_rate, monthly_payment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		liability.ID, liability.Owner, liability.Name, string(liability.Type), liability.OutstandingAmount,
		liability.InterestRate, liability.MonthlyPayment, liability.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save liability: %w", err)
	}
	return nil
}

// SaveCreditCard inserts or replaces a credit card record.
func (s *SQLiteStorage) SaveCreditCard(ctx context.Context, card *model.CreditCard) error {
	if err := validateRecord(ctx, card, card == nil, "credit card"); err != nil {
		return err
	}
	prepareIdentity(&card.ID, &card.CreatedAt)

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO credit_cards (id, owner, card_name, issuer, credit_limit, outstanding_balance,
			interest_rate, minimum_payment, due_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		card.ID, card.Owner, card.CardName, card.Issuer, card.CreditLimit, card.OutstandingBalance,
		card.InterestRate, card.MinimumPayment, nullTime(card.DueDate), card.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save credit card: %w", err)
	}
	return nil
}

// DeleteOwnerRecords removes every record belonging to owner in a single transaction.
func (s *SQLiteStorage) DeleteOwnerRecords(ctx context.Context, owner string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"incomes", "assets", "liabilities", "credit_cards"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE owner = ?", owner); err != nil {
			return fmt.Errorf("failed to delete %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// ListIncomes returns every income in scope ordered by creation.
func (s *SQLiteStorage) ListIncomes(ctx context.Context, scope model.Scope) ([]model.Income, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	where, args := scopeClause(scope)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, source, category, amount, frequency, received_at, created_at
		FROM incomes`+where+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query incomes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var incomes []model.Income
	for rows.Next() {
		var (
			income     model.Income
			frequency  string
			receivedAt sql.NullTime
		)
		if err := rows.Scan(&income.ID, &income.Owner, &income.Source, &income.Category, &income.Amount,
			&frequency, &receivedAt, &income.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		income.Frequency = model.Frequency(frequency)
		income.ReceivedAt = receivedAt.Time
		incomes = append(incomes, income)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate incomes: %w", err)
	}
	return incomes, nil
}

// ListAssets returns every asset in scope ordered by creation.
func (s *SQLiteStorage) ListAssets(ctx context.Context, scope model.Scope) ([]model.Asset, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	where, args := scopeClause(scope)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, name, category, current_value, created_at
		FROM assets`+where+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var assets []model.Asset
	for rows.Next() {
		var (
			asset    model.Asset
			category string
		)
		if err := rows.Scan(&asset.ID, &asset.Owner, &asset.Name, &category, &asset.CurrentValue, &asset.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		asset.Category = model.AssetCategory(category)
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assets: %w", err)
	}
	return assets, nil
}

// ListLiabilities returns every liability in scope ordered by creation.
func (s *SQLiteStorage) ListLiabilities(ctx context.Context, scope model.Scope) ([]model.Liability, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	where, args := scopeClause(scope)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, name, type, outstanding_amount, interest_rate, monthly_payment, created_at
		FROM liabilities`+where+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query liabilities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var liabilities []model.Liability
	for rows.Next() {
		var (
			liability model.Liability
			kind      string
		)
		if err := rows.Scan(&liability.ID, &liability.Owner, &liability.Name, &kind, &liability.OutstandingAmount,
			&liability.InterestRate, &liability.MonthlyPayment, &liability.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan liability: %w", err)
		}
		liability.Type = model.LiabilityType(kind)
		liabilities = append(liabilities, liability)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate liabilities: %w", err)
	}
	return liabilities, nil
}

// ListCreditCards returns every credit card in scope ordered by creation.
func (s *SQLiteStorage) ListCreditCards(ctx context.Context, scope model.Scope) ([]model.CreditCard, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	where, args := scopeClause(scope)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner, card_name, issuer, credit_limit, outstanding_balance, interest_rate,
			minimum_payment, due_date, created_at
		FROM credit_cards`+where+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query credit cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cards []model.CreditCard
	for rows.Next() {
		var (
			card    model.CreditCard
			dueDate sql.NullTime
		)
		if err := rows.Scan(&card.ID, &card.Owner, &card.CardName, &card.Issuer, &card.CreditLimit,
			&card.OutstandingBalance, &card.InterestRate, &card.MinimumPayment, &dueDate, &card.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan credit card: %w", err)
		}
		card.DueDate = dueDate.Time
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate credit cards: %w", err)
	}
	return cards, nil
}
