package testutil

import (
	"github.com/Veraticus/the-spice-must-advise/internal/model"
)

// Fixture is a builder for one owner's financial records.
type Fixture struct {
	Owner       string
	Incomes     []model.Income
	Assets      []model.Asset
	Liabilities []model.Liability
	CreditCards []model.CreditCard
}

// NewFixture starts an empty fixture for owner.
func NewFixture(owner string) *Fixture {
	return &Fixture{Owner: owner}
}

// WithIncome appends an income stream.
func (f *Fixture) WithIncome(source string, amount float64, frequency model.Frequency) *Fixture {
	f.Incomes = append(f.Incomes, model.Income{
		Owner:     f.Owner,
		Source:    source,
		Category:  "salary",
		Amount:    amount,
		Frequency: frequency,
	})
	return f
}

// WithAsset appends an asset.
func (f *Fixture) WithAsset(name string, category model.AssetCategory, value float64) *Fixture {
	f.Assets = append(f.Assets, model.Asset{
		Owner:        f.Owner,
		Name:         name,
		Category:     category,
		CurrentValue: value,
	})
	return f
}

// WithLiability appends a liability.
func (f *Fixture) WithLiability(name string, kind model.LiabilityType, amount, rate, payment float64) *Fixture {
	f.Liabilities = append(f.Liabilities, model.Liability{
		Owner:             f.Owner,
		Name:              name,
		Type:              kind,
		OutstandingAmount: amount,
		InterestRate:      rate,
		MonthlyPayment:    payment,
	})
	return f
}

// WithCreditCard appends a credit card.
func (f *Fixture) WithCreditCard(name string, limit, balance, rate float64) *Fixture {
	f.CreditCards = append(f.CreditCards, model.CreditCard{
		Owner:              f.Owner,
		CardName:           name,
		Issuer:             "Test Bank",
		CreditLimit:        limit,
		OutstandingBalance: balance,
		InterestRate:       rate,
		MinimumPayment:     balance * 0.02,
	})
	return f
}

// WithBasicScenario adds the reference household: 5000 monthly income, 25000 in
// savings, a 15000 auto loan and a card with 2500 of 10000 used.
func (f *Fixture) WithBasicScenario() *Fixture {
	return f.
		WithIncome("Employer", 5000, model.FrequencyMonthly).
		WithAsset("Savings", model.AssetSavings, 25000).
		WithLiability("Car loan", model.LiabilityAutoLoan, 15000, 6.5, 350).
		WithCreditCard("Everyday Card", 10000, 2500, 22.9)
}
