// Package service defines the interfaces shared between application components.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/the-spice-must-advise/internal/model"
)

// RecordStore is the read side of the financial record store.
// Each query returns the complete ordered collection for the scope.
type RecordStore interface {
	ListIncomes(ctx context.Context, scope model.Scope) ([]model.Income, error)
	ListAssets(ctx context.Context, scope model.Scope) ([]model.Asset, error)
	ListLiabilities(ctx context.Context, scope model.Scope) ([]model.Liability, error)
	ListCreditCards(ctx context.Context, scope model.Scope) ([]model.CreditCard, error)
}

// RecordWriter persists records. Used by importers, never by the recommendation core.
type RecordWriter interface {
	SaveIncome(ctx context.Context, income *model.Income) error
	SaveAsset(ctx context.Context, asset *model.Asset) error
	SaveLiability(ctx context.Context, liability *model.Liability) error
	SaveCreditCard(ctx context.Context, card *model.CreditCard) error
	DeleteOwnerRecords(ctx context.Context, owner string) error
}

// Storage combines the record store with its lifecycle operations.
type Storage interface {
	RecordStore
	RecordWriter

	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
