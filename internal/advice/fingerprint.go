package advice

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/the-spice-must-advise/internal/aggregate"
	"github.com/Veraticus/the-spice-must-advise/internal/model"
)

// Fingerprint hashes the content of a snapshot that influences advice.
// GeneratedAt, scope and insight text are excluded, so two snapshots of the
// same figures fingerprint identically regardless of when they were taken.
func Fingerprint(snap *aggregate.Snapshot) string {
	if snap == nil {
		return ""
	}

	var b strings.Builder
	num := func(name string, v float64) {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(v, 'f', 4, 64))
		b.WriteByte(';')
	}

	num("assets", snap.TotalAssets)
	num("liabilities", snap.TotalLiabilities)
	num("card_debt", snap.TotalCreditCardDebt)
	num("card_limit", snap.TotalCreditLimit)
	num("net_worth", snap.NetWorth)
	num("monthly_income", snap.MonthlyIncome)
	num("one_time_income", snap.OneTimeIncome)
	num("debt_payments", snap.MonthlyDebtPayments)
	num("dti", snap.DebtToIncomeRatio)
	num("utilization", snap.CreditUtilization)
	num("liquid", snap.LiquidAssets)

	// Breakdowns are already sorted by the aggregation engine.
	for _, e := range snap.AssetBreakdown {
		fmt.Fprintf(&b, "asset[%s]=%d;", e.Category, e.Count)
		num("total", e.Total)
	}
	for _, e := range snap.IncomeBreakdown {
		fmt.Fprintf(&b, "income[%s]=%d;", e.Frequency, e.Count)
		num("amount", e.Amount)
		num("monthly", e.MonthlyAmount)
	}
	for _, e := range snap.LiabilityBreakdown {
		fmt.Fprintf(&b, "liability[%s]=%d;", e.Type, e.Count)
		num("total", e.Total)
		num("payment", e.MonthlyPayment)
		num("rate", e.AverageInterestRate)
	}
	for _, c := range snap.CreditCards {
		fmt.Fprintf(&b, "card[%q|%q|%s];", c.Name, c.Issuer, c.DueDate.UTC().Format("2006-01-02"))
		num("limit", c.CreditLimit)
		num("balance", c.OutstandingBalance)
		num("rate", c.InterestRate)
		num("minimum", c.MinimumPayment)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Key is the cache key for a recommendation type and snapshot.
func Key(recType model.RecommendationType, snap *aggregate.Snapshot) string {
	return string(recType) + ":" + Fingerprint(snap)
}
