package recommend

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-spice-must-advise/internal/aggregate"
	"github.com/Veraticus/the-spice-must-advise/internal/model"
)

// ErrorCode classifies a failed request for callers.
type ErrorCode string

const (
	// ErrorDataUnavailable means the financial records could not be read or were malformed.
	ErrorDataUnavailable ErrorCode = "data_unavailable"
	// ErrorInvalidPrompt means the prompt failed a hard validation rule.
	ErrorInvalidPrompt ErrorCode = "invalid_prompt"
	// ErrorModelUnavailable means the external advice model failed.
	ErrorModelUnavailable ErrorCode = "model_unavailable"
	// ErrorTimeout means the model did not answer within the configured timeout.
	ErrorTimeout ErrorCode = "timeout"
	// ErrorCanceled means the caller gave up before the request finished.
	ErrorCanceled ErrorCode = "canceled"
	// ErrorInvalidType means the recommendation type is unknown.
	ErrorInvalidType ErrorCode = "invalid_type"
	// ErrorInternal is anything else.
	ErrorInternal ErrorCode = "internal"
)

// UnavailableMessage is shown when data or the model fails.
const UnavailableMessage = "Unable to generate recommendations at this time"

// Response is the result of one recommendation request.
type Response struct {
	Data    *RecommendationData `json:"data,omitempty"`
	Error   ErrorCode           `json:"error,omitempty"`
	Message string              `json:"message,omitempty"`
	Success bool                `json:"success"`
}

// RecommendationData is the payload of a successful response.
type RecommendationData struct {
	GeneratedAt      time.Time                `json:"generated_at"`
	Metrics          any                      `json:"metrics"`
	Type             model.RecommendationType `json:"type"`
	Recommendations  string                   `json:"recommendations"`
	Model            string                   `json:"model"`
	Insights         []aggregate.Insight      `json:"insights,omitempty"`
	FinancialSummary FinancialSummary         `json:"financial_summary"`
	FromCache        bool                     `json:"from_cache"`
}

// FinancialSummary is the headline figures attached to every recommendation.
type FinancialSummary struct {
	TotalAssets         float64 `json:"total_assets"`
	TotalLiabilities    float64 `json:"total_liabilities"`
	TotalCreditCardDebt float64 `json:"total_credit_card_debt"`
	NetWorth            float64 `json:"net_worth"`
	MonthlyIncome       float64 `json:"monthly_income"`
	DebtToIncomeRatio   float64 `json:"debt_to_income_ratio"`
	CreditUtilization   float64 `json:"credit_utilization"`
}

// GeneralMetrics accompany general recommendations.
type GeneralMetrics struct {
	NetWorth          float64 `json:"net_worth"`
	TotalAssets       float64 `json:"total_assets"`
	TotalDebt         float64 `json:"total_debt"`
	MonthlyIncome     float64 `json:"monthly_income"`
	DebtToIncomeRatio float64 `json:"debt_to_income_ratio"`
	CreditUtilization float64 `json:"credit_utilization"`
	AssetCategories   int     `json:"asset_categories"`
}

// BudgetMetrics accompany budget recommendations.
type BudgetMetrics struct {
	IncomeBreakdown        []aggregate.IncomeEntry `json:"income_breakdown"`
	MonthlyIncome          float64                 `json:"monthly_income"`
	OneTimeIncome          float64                 `json:"one_time_income"`
	MonthlyDebtPayments    float64                 `json:"monthly_debt_payments"`
	RemainingAfterDebt     float64                 `json:"remaining_after_debt"`
	PaymentToIncomePercent float64                 `json:"payment_to_income_percent"`
	EmergencyFundMonths    float64                 `json:"emergency_fund_months"`
}

// InvestmentMetrics accompany investment recommendations.
type InvestmentMetrics struct {
	AssetBreakdown []aggregate.AssetEntry `json:"asset_breakdown"`
	TotalAssets    float64                `json:"total_assets"`
	LiquidAssets   float64                `json:"liquid_assets"`
	NetWorth       float64                `json:"net_worth"`
}

// DebtMetrics accompany debt recommendations.
type DebtMetrics struct {
	LiabilityBreakdown  []aggregate.LiabilityEntry `json:"liability_breakdown"`
	TotalLiabilities    float64                    `json:"total_liabilities"`
	TotalCreditCardDebt float64                    `json:"total_credit_card_debt"`
	TotalDebt           float64                    `json:"total_debt"`
	MonthlyDebtPayments float64                    `json:"monthly_debt_payments"`
	DebtToIncomeRatio   float64                    `json:"debt_to_income_ratio"`
}

// CreditMetrics accompany credit recommendations.
type CreditMetrics struct {
	Cards               []aggregate.CardDetail `json:"cards"`
	CreditUtilization   float64                `json:"credit_utilization"`
	TotalCreditLimit    float64                `json:"total_credit_limit"`
	TotalCreditCardDebt float64                `json:"total_credit_card_debt"`
	AvailableCredit     float64                `json:"available_credit"`
}

// SummaryResponse carries a snapshot without any model output.
type SummaryResponse struct {
	Data    *aggregate.Snapshot `json:"data,omitempty"`
	Error   ErrorCode           `json:"error,omitempty"`
	Message string              `json:"message,omitempty"`
	Success bool                `json:"success"`
}

// AllResponse combines the five typed recommendations.
// Success is true only when every type succeeded; each result carries its own flag.
type AllResponse struct {
	GeneratedAt time.Time                             `json:"generated_at"`
	Results     map[model.RecommendationType]Response `json:"results"`
	Succeeded   int                                   `json:"succeeded"`
	Failed      int                                   `json:"failed"`
	Success     bool                                  `json:"success"`
}

func summarize(s *aggregate.Snapshot) FinancialSummary {
	return FinancialSummary{
		TotalAssets:         s.TotalAssets,
		TotalLiabilities:    s.TotalLiabilities,
		TotalCreditCardDebt: s.TotalCreditCardDebt,
		NetWorth:            s.NetWorth,
		MonthlyIncome:       s.MonthlyIncome,
		DebtToIncomeRatio:   s.DebtToIncomeRatio,
		CreditUtilization:   s.CreditUtilization,
	}
}

// metricsFor builds the type-specific metrics block.
func metricsFor(t model.RecommendationType, s *aggregate.Snapshot) any {
	switch t {
	case model.RecommendationBudget:
		m := BudgetMetrics{
			IncomeBreakdown:     s.IncomeBreakdown,
			MonthlyIncome:       s.MonthlyIncome,
			OneTimeIncome:       s.OneTimeIncome,
			MonthlyDebtPayments: s.MonthlyDebtPayments,
			RemainingAfterDebt:  round2(s.MonthlyIncome - s.MonthlyDebtPayments),
		}
		if s.MonthlyIncome > 0 {
			m.PaymentToIncomePercent = round2(s.MonthlyDebtPayments / s.MonthlyIncome * 100)
			m.EmergencyFundMonths = round2(s.LiquidAssets / s.MonthlyIncome)
		}
		return m
	case model.RecommendationInvestment:
		return InvestmentMetrics{
			AssetBreakdown: s.AssetBreakdown,
			TotalAssets:    s.TotalAssets,
			LiquidAssets:   s.LiquidAssets,
			NetWorth:       s.NetWorth,
		}
	case model.RecommendationDebt:
		return DebtMetrics{
			LiabilityBreakdown:  s.LiabilityBreakdown,
			TotalLiabilities:    s.TotalLiabilities,
			TotalCreditCardDebt: s.TotalCreditCardDebt,
			TotalDebt:           round2(s.TotalDebt()),
			MonthlyDebtPayments: s.MonthlyDebtPayments,
			DebtToIncomeRatio:   s.DebtToIncomeRatio,
		}
	case model.RecommendationCredit:
		available := s.TotalCreditLimit - s.TotalCreditCardDebt
		if available < 0 {
			available = 0
		}
		return CreditMetrics{
			Cards:               s.CreditCards,
			CreditUtilization:   s.CreditUtilization,
			TotalCreditLimit:    s.TotalCreditLimit,
			TotalCreditCardDebt: s.TotalCreditCardDebt,
			AvailableCredit:     round2(available),
		}
	default:
		return GeneralMetrics{
			NetWorth:          s.NetWorth,
			TotalAssets:       s.TotalAssets,
			TotalDebt:         round2(s.TotalDebt()),
			MonthlyIncome:     s.MonthlyIncome,
			DebtToIncomeRatio: s.DebtToIncomeRatio,
			CreditUtilization: s.CreditUtilization,
			AssetCategories:   len(s.AssetBreakdown),
		}
	}
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
