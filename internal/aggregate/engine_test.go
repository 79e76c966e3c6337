package aggregate_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-spice-must-advise/internal/advice"
	"github.com/Veraticus/the-spice-must-advise/internal/aggregate"
	"github.com/Veraticus/the-spice-must-advise/internal/common"
	"github.com/Veraticus/the-spice-must-advise/internal/model"
	"github.com/Veraticus/the-spice-must-advise/internal/testutil"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newEngine(store *testutil.MemoryStore) *aggregate.Engine {
	return aggregate.NewEngine(store, nil, aggregate.WithClock(func() time.Time { return fixedNow }))
}

func TestEngine_BasicScenario(t *testing.T) {
	store := testutil.NewMemoryStore(testutil.NewFixture("alice").WithBasicScenario())
	snap, err := newEngine(store).Aggregate(context.Background(), model.Scope{Owner: "alice"})
	require.NoError(t, err)

	assert.InDelta(t, 25000.0, snap.TotalAssets, 0.001)
	assert.InDelta(t, 15000.0, snap.TotalLiabilities, 0.001)
	assert.InDelta(t, 2500.0, snap.TotalCreditCardDebt, 0.001)
	assert.InDelta(t, 10000.0, snap.TotalCreditLimit, 0.001)
	assert.InDelta(t, 7500.0, snap.NetWorth, 0.001)
	assert.InDelta(t, 5000.0, snap.MonthlyIncome, 0.001)
	assert.InDelta(t, 25.0, snap.CreditUtilization, 0.001)
	assert.InDelta(t, 3.5, snap.DebtToIncomeRatio, 0.001)
	assert.InDelta(t, 400.0, snap.MonthlyDebtPayments, 0.001)
	assert.InDelta(t, 25000.0, snap.LiquidAssets, 0.001)
	assert.Equal(t, fixedNow, snap.GeneratedAt)
	assert.Equal(t, "alice", snap.Scope.Owner)
	assert.Equal(t, aggregate.RecordCounts{Incomes: 1, Assets: 1, Liabilities: 1, CreditCards: 1}, snap.Counts)

	require.Len(t, snap.CreditCards, 1)
	assert.InDelta(t, 25.0, snap.CreditCards[0].UtilizationRate, 0.001)

	assert.True(t, snap.HasInsight(aggregate.InsightPositiveNetWorth))
	assert.True(t, snap.HasInsight(aggregate.InsightHighInterestDebt))
	assert.False(t, snap.HasInsight(aggregate.InsightHighCreditUtilization))
	assert.False(t, snap.HasInsight(aggregate.InsightNoRecurringIncome))
}

func TestEngine_EmptyCollections(t *testing.T) {
	snap, err := newEngine(testutil.NewMemoryStore(nil)).Aggregate(context.Background(), model.Scope{})
	require.NoError(t, err)

	assert.Zero(t, snap.TotalAssets)
	assert.Zero(t, snap.NetWorth)
	assert.Zero(t, snap.MonthlyIncome)
	assert.Zero(t, snap.DebtToIncomeRatio)
	assert.Zero(t, snap.CreditUtilization)
	assert.Empty(t, snap.AssetBreakdown)
	assert.Empty(t, snap.CreditCards)
	assert.True(t, snap.HasInsight(aggregate.InsightNoRecurringIncome))
}

func TestEngine_ZeroLimitCard(t *testing.T) {
	fixture := testutil.NewFixture("bob").
		WithIncome("Employer", 3000, model.FrequencyMonthly).
		WithCreditCard("Store Card", 0, 0, 0)

	snap, err := newEngine(testutil.NewMemoryStore(fixture)).Aggregate(context.Background(), model.Scope{Owner: "bob"})
	require.NoError(t, err)

	assert.Zero(t, snap.CreditUtilization)
	require.Len(t, snap.CreditCards, 1)
	assert.Zero(t, snap.CreditCards[0].UtilizationRate)
	assert.False(t, math.IsNaN(snap.CreditUtilization))
}

func TestEngine_NoIncomeKeepsRatioAtZero(t *testing.T) {
	fixture := testutil.NewFixture("carol").
		WithLiability("Loan", model.LiabilityPersonalLoan, 8000, 11, 200)

	snap, err := newEngine(testutil.NewMemoryStore(fixture)).Aggregate(context.Background(), model.Scope{Owner: "carol"})
	require.NoError(t, err)

	assert.Zero(t, snap.DebtToIncomeRatio)
	assert.InDelta(t, -8000.0, snap.NetWorth, 0.001)
	assert.True(t, snap.HasInsight(aggregate.InsightNegativeNetWorth))
	assert.True(t, snap.HasInsight(aggregate.InsightNoRecurringIncome))
}

func TestEngine_Idempotent(t *testing.T) {
	store := testutil.NewMemoryStore(testutil.NewFixture("alice").
		WithBasicScenario().
		WithAsset("Brokerage", model.AssetInvestment, 12000).
		WithIncome("Bonus", 6000, model.FrequencyYearly))
	engine := newEngine(store)

	first, err := engine.Aggregate(context.Background(), model.Scope{Owner: "alice"})
	require.NoError(t, err)
	second, err := engine.Aggregate(context.Background(), model.Scope{Owner: "alice"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEngine_SameNamedCardsOrderIndependent(t *testing.T) {
	forward := testutil.NewFixture("alice").
		WithCreditCard("Rewards", 5000, 1200, 19.9).
		WithCreditCard("Rewards", 8000, 300, 24.9)
	reversed := testutil.NewFixture("alice").
		WithCreditCard("Rewards", 8000, 300, 24.9).
		WithCreditCard("Rewards", 5000, 1200, 19.9)

	a, err := newEngine(testutil.NewMemoryStore(forward)).Aggregate(context.Background(), model.Scope{Owner: "alice"})
	require.NoError(t, err)
	b, err := newEngine(testutil.NewMemoryStore(reversed)).Aggregate(context.Background(), model.Scope{Owner: "alice"})
	require.NoError(t, err)

	require.Len(t, a.CreditCards, 2)
	assert.Equal(t, a.CreditCards, b.CreditCards)
	assert.InDelta(t, 5000.0, a.CreditCards[0].CreditLimit, 0.001)
	assert.Equal(t, advice.Fingerprint(a), advice.Fingerprint(b))
}

func TestEngine_StoreFailure(t *testing.T) {
	boom := errors.New("disk on fire")

	tests := []struct {
		name       string
		configure  func(*testutil.MemoryStore)
		collection string
	}{
		{"incomes", func(s *testutil.MemoryStore) { s.ErrIncomes = boom }, "incomes"},
		{"assets", func(s *testutil.MemoryStore) { s.ErrAssets = boom }, "assets"},
		{"liabilities", func(s *testutil.MemoryStore) { s.ErrLiabilities = boom }, "liabilities"},
		{"credit cards", func(s *testutil.MemoryStore) { s.ErrCreditCards = boom }, "credit_cards"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMemoryStore(testutil.NewFixture("alice").WithBasicScenario())
			tt.configure(store)

			snap, err := newEngine(store).Aggregate(context.Background(), model.Scope{Owner: "alice"})
			assert.Nil(t, snap)

			var dataErr *common.DataError
			require.ErrorAs(t, err, &dataErr)
			assert.Equal(t, tt.collection, dataErr.Collection)
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestEngine_MalformedRecord(t *testing.T) {
	fixture := testutil.NewFixture("alice").WithBasicScenario()
	fixture.Assets[0].CurrentValue = math.NaN()

	snap, err := newEngine(testutil.NewMemoryStore(fixture)).Aggregate(context.Background(), model.Scope{Owner: "alice"})
	assert.Nil(t, snap)

	var dataErr *common.DataError
	require.ErrorAs(t, err, &dataErr)
	assert.Equal(t, "assets", dataErr.Collection)
}

func TestEngine_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newEngine(testutil.NewMemoryStore(nil)).Aggregate(ctx, model.Scope{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_SQLiteStore(t *testing.T) {
	db := testutil.SetupTestDB(t, testutil.NewFixture("alice").WithBasicScenario())
	db.Seed(testutil.NewFixture("mallory").WithAsset("Yacht", model.AssetVehicle, 1e6))

	engine := aggregate.NewEngine(db.Storage, nil)
	snap, err := engine.Aggregate(context.Background(), model.Scope{Owner: "alice"})
	require.NoError(t, err)
	assert.InDelta(t, 7500.0, snap.NetWorth, 0.001)

	all, err := engine.Aggregate(context.Background(), model.Scope{})
	require.NoError(t, err)
	assert.InDelta(t, 1007500.0, all.NetWorth, 0.001)
}
