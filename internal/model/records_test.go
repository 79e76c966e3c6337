package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequency(t *testing.T) {
	tests := []struct {
		freq      Frequency
		valid     bool
		recurring bool
	}{
		{freq: FrequencyMonthly, valid: true, recurring: true},
		{freq: FrequencyBiWeekly, valid: true, recurring: true},
		{freq: FrequencyDaily, valid: true, recurring: true},
		{freq: FrequencyOneTime, valid: true, recurring: false},
		{freq: "fortnightly", valid: false, recurring: false},
		{freq: "", valid: false, recurring: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.freq), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.freq.Valid())
			assert.Equal(t, tt.recurring, tt.freq.Recurring())
		})
	}
}

func TestAssetCategoryLiquid(t *testing.T) {
	assert.True(t, AssetCash.Liquid())
	assert.True(t, AssetSavings.Liquid())
	assert.False(t, AssetInvestment.Liquid())
	assert.False(t, AssetRealEstate.Liquid())
	assert.False(t, AssetCategory("crypto").Valid())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		record  interface{ Validate() error }
		name    string
		wantErr string
	}{
		{
			name:   "valid income",
			record: &Income{Source: "Employer", Amount: 5000, Frequency: FrequencyMonthly},
		},
		{
			name:    "negative income",
			record:  &Income{Source: "Refund", Amount: -1, Frequency: FrequencyMonthly},
			wantErr: "must be non-negative",
		},
		{
			name:    "unknown frequency",
			record:  &Income{Source: "Gig", Amount: 1, Frequency: "hourly"},
			wantErr: "unknown frequency",
		},
		{
			name:    "NaN asset",
			record:  &Asset{Name: "House", Category: AssetRealEstate, CurrentValue: math.NaN()},
			wantErr: "not a finite number",
		},
		{
			name:    "unknown asset category",
			record:  &Asset{Name: "Art", Category: "paintings", CurrentValue: 10},
			wantErr: "unknown category",
		},
		{
			name:   "valid liability",
			record: &Liability{Name: "Car Loan", Type: LiabilityAutoLoan, OutstandingAmount: 15000, InterestRate: 6.5, MonthlyPayment: 350},
		},
		{
			name:    "infinite liability",
			record:  &Liability{Name: "Loan", Type: LiabilityOther, OutstandingAmount: math.Inf(1)},
			wantErr: "not a finite number",
		},
		{
			name:    "unknown liability type",
			record:  &Liability{Name: "Loan", Type: "payday"},
			wantErr: "unknown type",
		},
		{
			name:   "valid card with zero limit",
			record: &CreditCard{CardName: "Store Card"},
		},
		{
			name:    "negative card balance",
			record:  &CreditCard{CardName: "Visa", CreditLimit: 1000, OutstandingBalance: -5},
			wantErr: "must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCreditCardUtilizationRate(t *testing.T) {
	tests := []struct {
		name string
		card CreditCard
		want float64
	}{
		{name: "quarter used", card: CreditCard{CreditLimit: 10000, OutstandingBalance: 2500}, want: 25},
		{name: "zero limit", card: CreditCard{CreditLimit: 0, OutstandingBalance: 100}, want: 0},
		{name: "over limit", card: CreditCard{CreditLimit: 1000, OutstandingBalance: 1500}, want: 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.card.UtilizationRate(), 1e-9)
		})
	}
}

func TestParseRecommendationType(t *testing.T) {
	for _, want := range AllRecommendationTypes() {
		got, err := ParseRecommendationType(" " + string(want) + " ")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := ParseRecommendationType("DEBT")
	require.NoError(t, err)
	assert.Equal(t, RecommendationDebt, got)

	_, err = ParseRecommendationType("retirement")
	assert.Error(t, err)
}

func TestScopeString(t *testing.T) {
	assert.Equal(t, "all", Scope{}.String())
	assert.Equal(t, "alice", Scope{Owner: "alice"}.String())
}
