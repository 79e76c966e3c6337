package prompt

import (
	"fmt"
	"math"

	"github.com/Veraticus/the-spice-must-advise/internal/aggregate"
)

// Check reports figures that look wrong but do not prevent a prompt from being built.
func Check(snap *aggregate.Snapshot) []string {
	var warnings []string

	fields := []struct {
		name  string
		value float64
	}{
		{"total assets", snap.TotalAssets},
		{"total liabilities", snap.TotalLiabilities},
		{"credit card debt", snap.TotalCreditCardDebt},
		{"credit limit", snap.TotalCreditLimit},
		{"monthly income", snap.MonthlyIncome},
		{"net worth", snap.NetWorth},
		{"credit utilization", snap.CreditUtilization},
		{"debt-to-income ratio", snap.DebtToIncomeRatio},
	}

	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			warnings = append(warnings, fmt.Sprintf("%s is not a finite number", f.name))
			continue
		}
		// Net worth is the only figure allowed to go negative.
		if f.value < 0 && f.name != "net worth" {
			warnings = append(warnings, fmt.Sprintf("%s is negative (%.2f)", f.name, f.value))
		}
	}

	if snap.MonthlyIncome == 0 {
		warnings = append(warnings, "monthly income is zero; income-based guidance will be limited")
	}

	return warnings
}
