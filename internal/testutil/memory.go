package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/Veraticus/the-spice-must-advise/internal/model"
)

// MemoryStore is a service.RecordStore backed by a Fixture.
// Err* fields force the matching List call to fail.
type MemoryStore struct {
	fixture *Fixture

	ErrIncomes     error
	ErrAssets      error
	ErrLiabilities error
	ErrCreditCards error

	mu    sync.Mutex
	calls atomic.Int64
}

// NewMemoryStore wraps fixture; a nil fixture behaves as an empty store.
func NewMemoryStore(fixture *Fixture) *MemoryStore {
	if fixture == nil {
		fixture = &Fixture{}
	}
	return &MemoryStore{fixture: fixture}
}

// Calls returns the number of List calls served.
func (m *MemoryStore) Calls() int {
	return int(m.calls.Load())
}

// Update mutates the backing fixture under the store lock.
func (m *MemoryStore) Update(fn func(f *Fixture)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.fixture)
}

func (m *MemoryStore) ListIncomes(ctx context.Context, _ model.Scope) ([]model.Income, error) {
	m.calls.Add(1)
	if err := firstErr(ctx, m.ErrIncomes); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Income(nil), m.fixture.Incomes...), nil
}

func (m *MemoryStore) ListAssets(ctx context.Context, _ model.Scope) ([]model.Asset, error) {
	m.calls.Add(1)
	if err := firstErr(ctx, m.ErrAssets); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Asset(nil), m.fixture.Assets...), nil
}

func (m *MemoryStore) ListLiabilities(ctx context.Context, _ model.Scope) ([]model.Liability, error) {
	m.calls.Add(1)
	if err := firstErr(ctx, m.ErrLiabilities); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Liability(nil), m.fixture.Liabilities...), nil
}

func (m *MemoryStore) ListCreditCards(ctx context.Context, _ model.Scope) ([]model.CreditCard, error) {
	m.calls.Add(1)
	if err := firstErr(ctx, m.ErrCreditCards); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.CreditCard(nil), m.fixture.CreditCards...), nil
}

func firstErr(ctx context.Context, err error) error {
	if err != nil {
		return err
	}
	return ctx.Err()
}
