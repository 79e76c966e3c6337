package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-spice-must-advise/internal/model"
)

var (
	monthsPerYear    = decimal.NewFromInt(12)
	monthsPerQuarter = decimal.NewFromInt(3)
	biWeeklyFactor   = decimal.RequireFromString("2.17")
	weeklyFactor     = decimal.RequireFromString("4.33")
	dailyFactor      = decimal.NewFromInt(30)
	hundred          = decimal.NewFromInt(100)
)

// MonthlyEquivalent converts an income amount to its monthly cadence.
// One-time income is not recurring and normalizes to zero.
func MonthlyEquivalent(amount decimal.Decimal, frequency model.Frequency) decimal.Decimal {
	switch frequency {
	case model.FrequencyMonthly:
		return amount
	case model.FrequencyYearly:
		return amount.Div(monthsPerYear)
	case model.FrequencyQuarterly:
		return amount.Div(monthsPerQuarter)
	case model.FrequencyBiWeekly:
		return amount.Mul(biWeeklyFactor)
	case model.FrequencyWeekly:
		return amount.Mul(weeklyFactor)
	case model.FrequencyDaily:
		return amount.Mul(dailyFactor)
	default:
		return decimal.Zero
	}
}

// percentOf returns part/whole*100, or zero when whole is not positive.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// ratio returns num/den, or zero when den is not positive.
func ratio(num, den decimal.Decimal) decimal.Decimal {
	if !den.IsPositive() {
		return decimal.Zero
	}
	return num.Div(den)
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func rate(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// clampNonNegative keeps a value within [0, ∞).
func clampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
