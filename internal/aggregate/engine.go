package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/the-spice-must-advise/internal/common"
	"github.com/Veraticus/the-spice-must-advise/internal/model"
	"github.com/Veraticus/the-spice-must-advise/internal/service"
)

// Engine reads an owner's records and derives snapshots from them.
type Engine struct {
	store  service.RecordStore
	logger *slog.Logger
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the wall clock used for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an aggregation engine over store.
func NewEngine(store service.RecordStore, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		logger: common.LoggerOrDefault(logger),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Aggregate reads the four record collections concurrently and computes a snapshot.
// Any read failure cancels the remaining reads and is returned as a *common.DataError.
func (e *Engine) Aggregate(ctx context.Context, scope model.Scope) (*Snapshot, error) {
	if e.store == nil {
		return nil, &common.DataError{Err: fmt.Errorf("no record store configured")}
	}

	start := time.Now()
	var records Records

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		incomes, err := e.store.ListIncomes(gctx, scope)
		if err != nil {
			return &common.DataError{Collection: "incomes", Err: err}
		}
		records.Incomes = incomes
		return nil
	})
	g.Go(func() error {
		assets, err := e.store.ListAssets(gctx, scope)
		if err != nil {
			return &common.DataError{Collection: "assets", Err: err}
		}
		records.Assets = assets
		return nil
	})
	g.Go(func() error {
		liabilities, err := e.store.ListLiabilities(gctx, scope)
		if err != nil {
			return &common.DataError{Collection: "liabilities", Err: err}
		}
		records.Liabilities = liabilities
		return nil
	})
	g.Go(func() error {
		cards, err := e.store.ListCreditCards(gctx, scope)
		if err != nil {
			return &common.DataError{Collection: "credit_cards", Err: err}
		}
		records.CreditCards = cards
		return nil
	})

	if err := g.Wait(); err != nil {
		e.logger.Error("failed to read financial records", "scope", scope.String(), "error", err)
		return nil, err
	}

	snap, err := Compute(records, scope, e.now())
	if err != nil {
		e.logger.Error("financial records failed validation", "scope", scope.String(), "error", err)
		return nil, err
	}

	e.logger.Debug("aggregated financial snapshot",
		"scope", scope.String(),
		"incomes", snap.Counts.Incomes,
		"assets", snap.Counts.Assets,
		"liabilities", snap.Counts.Liabilities,
		"credit_cards", snap.Counts.CreditCards,
		"elapsed", time.Since(start))

	return snap, nil
}
