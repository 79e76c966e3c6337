package aggregate

import "fmt"

// InsightTag identifies a derived observation.
type InsightTag string

// InsightLevel grades an observation for presentation.
type InsightLevel string

const (
	LevelPositive InsightLevel = "positive"
	LevelWarning  InsightLevel = "warning"
	LevelInfo     InsightLevel = "info"
)

const (
	InsightPositiveNetWorth      InsightTag = "positive_net_worth"
	InsightNegativeNetWorth      InsightTag = "negative_net_worth"
	InsightNoRecurringIncome     InsightTag = "no_recurring_income"
	InsightHighCreditUtilization InsightTag = "high_credit_utilization"
	InsightLowCreditUtilization  InsightTag = "low_credit_utilization"
	InsightHighDebtLoad          InsightTag = "high_debt_load"
	InsightHighPaymentBurden     InsightTag = "high_payment_burden"
	InsightThinEmergencyFund     InsightTag = "thin_emergency_fund"
	InsightStrongEmergencyFund   InsightTag = "strong_emergency_fund"
	InsightHighInterestDebt      InsightTag = "high_interest_debt"
	InsightDiversifiedAssets     InsightTag = "diversified_assets"
)

// Thresholds used by the insight rules.
const (
	highUtilizationPercent = 30.0
	lowUtilizationPercent  = 10.0
	highDebtToIncome       = 12.0 // a year of income
	highPaymentBurden      = 0.36
	thinEmergencyMonths    = 3.0
	strongEmergencyMonths  = 6.0
	highInterestPercent    = 20.0
	diversifiedCategories  = 3
)

// Insight is a tagged observation about a snapshot.
type Insight struct {
	Tag     InsightTag   `json:"tag"`
	Level   InsightLevel `json:"level"`
	Message string       `json:"message"`
}

func deriveInsights(s *Snapshot) []Insight {
	var out []Insight
	add := func(tag InsightTag, level InsightLevel, format string, args ...any) {
		out = append(out, Insight{Tag: tag, Level: level, Message: fmt.Sprintf(format, args...)})
	}

	switch {
	case s.NetWorth > 0:
		add(InsightPositiveNetWorth, LevelPositive, "Net worth is positive at %.2f", s.NetWorth)
	case s.NetWorth < 0:
		add(InsightNegativeNetWorth, LevelWarning, "Debts exceed assets by %.2f", -s.NetWorth)
	}

	if s.MonthlyIncome == 0 {
		add(InsightNoRecurringIncome, LevelWarning, "No recurring income is recorded")
	}

	if s.TotalCreditLimit > 0 {
		switch {
		case s.CreditUtilization > highUtilizationPercent:
			add(InsightHighCreditUtilization, LevelWarning,
				"Credit utilization of %.1f%% is above %.0f%%", s.CreditUtilization, highUtilizationPercent)
		case s.CreditUtilization <= lowUtilizationPercent:
			add(InsightLowCreditUtilization, LevelPositive,
				"Credit utilization of %.1f%% is at or below %.0f%%", s.CreditUtilization, lowUtilizationPercent)
		}
	}

	if s.DebtToIncomeRatio > highDebtToIncome {
		add(InsightHighDebtLoad, LevelWarning,
			"Total debt is %.1f times monthly income", s.DebtToIncomeRatio)
	}

	if s.MonthlyIncome > 0 {
		if burden := s.MonthlyDebtPayments / s.MonthlyIncome; burden > highPaymentBurden {
			add(InsightHighPaymentBurden, LevelWarning,
				"Debt payments take %.0f%% of monthly income", burden*100)
		}

		months := s.LiquidAssets / s.MonthlyIncome
		switch {
		case months < thinEmergencyMonths:
			add(InsightThinEmergencyFund, LevelWarning,
				"Liquid savings cover %.1f months of income", months)
		case months >= strongEmergencyMonths:
			add(InsightStrongEmergencyFund, LevelPositive,
				"Liquid savings cover %.1f months of income", months)
		}
	}

	if hasHighInterest(s) {
		add(InsightHighInterestDebt, LevelWarning,
			"At least one debt carries an interest rate of %.0f%% or more", highInterestPercent)
	}

	if len(s.AssetBreakdown) >= diversifiedCategories {
		add(InsightDiversifiedAssets, LevelInfo,
			"Assets are spread across %d categories", len(s.AssetBreakdown))
	}

	return out
}

func hasHighInterest(s *Snapshot) bool {
	for _, c := range s.CreditCards {
		if c.OutstandingBalance > 0 && c.InterestRate >= highInterestPercent {
			return true
		}
	}
	for _, l := range s.LiabilityBreakdown {
		if l.Total > 0 && l.AverageInterestRate >= highInterestPercent {
			return true
		}
	}
	return false
}
