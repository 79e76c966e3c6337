package aggregate

import (
	"time"

	"github.com/Veraticus/the-spice-must-advise/internal/model"
)

// Snapshot is an immutable summary of an owner's finances at a point in time.
// Its content, excluding GeneratedAt, is what the advice cache fingerprints.
type Snapshot struct {
	GeneratedAt         time.Time        `json:"generated_at"`
	Scope               model.Scope      `json:"scope"`
	AssetBreakdown      []AssetEntry     `json:"asset_breakdown"`
	IncomeBreakdown     []IncomeEntry    `json:"income_breakdown"`
	LiabilityBreakdown  []LiabilityEntry `json:"liability_breakdown"`
	CreditCards         []CardDetail     `json:"credit_cards"`
	Insights            []Insight        `json:"insights"`
	Counts              RecordCounts     `json:"record_counts"`
	TotalAssets         float64          `json:"total_assets"`
	TotalLiabilities    float64          `json:"total_liabilities"`
	TotalCreditCardDebt float64          `json:"total_credit_card_debt"`
	TotalCreditLimit    float64          `json:"total_credit_limit"`
	NetWorth            float64          `json:"net_worth"`
	MonthlyIncome       float64          `json:"monthly_income"`
	OneTimeIncome       float64          `json:"one_time_income"`
	MonthlyDebtPayments float64          `json:"monthly_debt_payments"`
	DebtToIncomeRatio   float64          `json:"debt_to_income_ratio"`
	CreditUtilization   float64          `json:"credit_utilization"`
	LiquidAssets        float64          `json:"liquid_assets"`
}

// TotalDebt is liabilities plus credit card balances.
func (s *Snapshot) TotalDebt() float64 {
	return s.TotalLiabilities + s.TotalCreditCardDebt
}

// HasInsight reports whether an insight with tag was derived.
func (s *Snapshot) HasInsight(tag InsightTag) bool {
	for _, in := range s.Insights {
		if in.Tag == tag {
			return true
		}
	}
	return false
}

// RecordCounts reports how many records of each kind were aggregated.
type RecordCounts struct {
	Incomes     int `json:"incomes"`
	Assets      int `json:"assets"`
	Liabilities int `json:"liabilities"`
	CreditCards int `json:"credit_cards"`
}

// AssetEntry is one asset category subtotal.
type AssetEntry struct {
	Category model.AssetCategory `json:"category"`
	Count    int                 `json:"count"`
	Total    float64             `json:"total"`
	Share    float64             `json:"share"` // percent of total assets
}

// IncomeEntry is one income frequency subtotal.
// One-time income carries no monthly equivalent and is reported in OneTimeAmount.
type IncomeEntry struct {
	Frequency     model.Frequency `json:"frequency"`
	Count         int             `json:"count"`
	Amount        float64         `json:"amount"`
	MonthlyAmount float64         `json:"monthly_amount"`
	OneTimeAmount float64         `json:"one_time_amount"`
}

// LiabilityEntry is one liability type subtotal.
type LiabilityEntry struct {
	Type                model.LiabilityType `json:"type"`
	Count               int                 `json:"count"`
	Total               float64             `json:"total"`
	MonthlyPayment      float64             `json:"monthly_payment"`
	AverageInterestRate float64             `json:"average_interest_rate"` // weighted by balance
}

// CardDetail is the per-card view embedded in credit prompts.
type CardDetail struct {
	DueDate            time.Time `json:"due_date,omitempty"`
	Name               string    `json:"name"`
	Issuer             string    `json:"issuer,omitempty"`
	CreditLimit        float64   `json:"credit_limit"`
	OutstandingBalance float64   `json:"outstanding_balance"`
	UtilizationRate    float64   `json:"utilization_rate"`
	InterestRate       float64   `json:"interest_rate"`
	MinimumPayment     float64   `json:"minimum_payment"`
}
