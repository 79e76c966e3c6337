package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/the-spice-must-advise/internal/advice"
	"github.com/Veraticus/the-spice-must-advise/internal/aggregate"
	"github.com/Veraticus/the-spice-must-advise/internal/model"
	"github.com/Veraticus/the-spice-must-advise/internal/recommend"
)

// RenderResponse formats a recommendation for the terminal.
func RenderResponse(resp recommend.Response) string {
	if !resp.Success {
		return RenderFailure(resp.Error, resp.Message)
	}

	data := resp.Data
	var b strings.Builder
	b.WriteString(FormatTitle(typeTitle(data.Type) + " Recommendations"))
	b.WriteString("\n")
	b.WriteString(RenderBox("Advice", strings.TrimSpace(data.Recommendations)))
	b.WriteString("\n\n")
	b.WriteString(renderFinancialSummary(data.FinancialSummary))
	if len(data.Insights) > 0 {
		b.WriteString("\n\n")
		b.WriteString(RenderInsights(data.Insights))
	}
	b.WriteString("\n\n")
	b.WriteString(renderFooter(data))
	return b.String()
}

// RenderFailure formats an error code and message.
func RenderFailure(code recommend.ErrorCode, message string) string {
	return FormatError(fmt.Sprintf("%s (%s)", message, code))
}

// RenderSummary formats a snapshot without advice.
func RenderSummary(snap *aggregate.Snapshot) string {
	var b strings.Builder
	b.WriteString(FormatTitle("Financial Summary for " + snap.Scope.String()))
	b.WriteString("\n")

	rows := []string{
		RenderRow("Total assets", money(snap.TotalAssets)),
		RenderRow("Liquid assets", money(snap.LiquidAssets)),
		RenderRow("Liabilities", money(snap.TotalLiabilities)),
		RenderRow("Credit card debt", money(snap.TotalCreditCardDebt)),
		RenderRow("Net worth", signedMoney(snap.NetWorth)),
		RenderRow("Monthly income", money(snap.MonthlyIncome)),
	}
	if snap.OneTimeIncome > 0 {
		rows = append(rows, RenderRow("One-time income", money(snap.OneTimeIncome)))
	}
	rows = append(rows,
		RenderRow("Monthly debt payments", money(snap.MonthlyDebtPayments)),
		RenderRow("Debt-to-income ratio", fmt.Sprintf("%.2f", snap.DebtToIncomeRatio)),
		RenderRow("Credit utilization", fmt.Sprintf("%.1f%%", snap.CreditUtilization)),
	)
	b.WriteString(RenderBox(ChartIcon+" Overview", strings.Join(rows, "\n")))

	if len(snap.AssetBreakdown) > 0 {
		lines := make([]string, 0, len(snap.AssetBreakdown))
		for _, a := range snap.AssetBreakdown {
			lines = append(lines, RenderRow(string(a.Category), fmt.Sprintf("%s (%.1f%%)", money(a.Total), a.Share)))
		}
		b.WriteString("\n")
		b.WriteString(RenderBox("Assets", strings.Join(lines, "\n")))
	}

	if len(snap.LiabilityBreakdown) > 0 {
		lines := make([]string, 0, len(snap.LiabilityBreakdown))
		for _, l := range snap.LiabilityBreakdown {
			lines = append(lines, RenderRow(string(l.Type),
				fmt.Sprintf("%s at %.2f%%, %s/mo", money(l.Total), l.AverageInterestRate, money(l.MonthlyPayment))))
		}
		b.WriteString("\n")
		b.WriteString(RenderBox("Liabilities", strings.Join(lines, "\n")))
	}

	if len(snap.CreditCards) > 0 {
		lines := make([]string, 0, len(snap.CreditCards))
		for _, c := range snap.CreditCards {
			lines = append(lines, RenderRow(c.Name,
				fmt.Sprintf("%s of %s (%.1f%%)", money(c.OutstandingBalance), money(c.CreditLimit), c.UtilizationRate)))
		}
		b.WriteString("\n")
		b.WriteString(RenderBox("Credit Cards", strings.Join(lines, "\n")))
	}

	if len(snap.Insights) > 0 {
		b.WriteString("\n\n")
		b.WriteString(RenderInsights(snap.Insights))
	}
	return b.String()
}

// RenderInsights lists derived insights with a level marker.
func RenderInsights(insights []aggregate.Insight) string {
	lines := make([]string, 0, len(insights)+1)
	lines = append(lines, BoldStyle.Render("Insights"))
	for _, in := range insights {
		switch in.Level {
		case aggregate.LevelPositive:
			lines = append(lines, SuccessStyle.Render(UpIcon+" "+in.Message))
		case aggregate.LevelWarning:
			lines = append(lines, WarningStyle.Render(DownIcon+" "+in.Message))
		default:
			lines = append(lines, InfoStyle.Render("• "+in.Message))
		}
	}
	return strings.Join(lines, "\n")
}

// RenderAll formats every result of a fan-out in a fixed type order.
func RenderAll(resp recommend.AllResponse) string {
	var b strings.Builder
	for _, t := range model.AllRecommendationTypes() {
		r, ok := resp.Results[t]
		if !ok {
			continue
		}
		b.WriteString(RenderResponse(r))
		b.WriteString("\n\n")
	}

	status := fmt.Sprintf("%d of %d recommendation types succeeded", resp.Succeeded, resp.Succeeded+resp.Failed)
	if resp.Success {
		b.WriteString(FormatSuccess(status))
	} else {
		b.WriteString(FormatWarning(status))
	}
	return b.String()
}

// RenderCacheStats formats advice cache statistics.
func RenderCacheStats(stats advice.Stats) string {
	hitRate := 0.0
	if total := stats.Hits + stats.Misses; total > 0 {
		hitRate = float64(stats.Hits) / float64(total) * 100
	}
	rows := []string{
		RenderRow("Entries", fmt.Sprintf("%d / %d", stats.TotalEntries, stats.MaxSize)),
		RenderRow("Valid", fmt.Sprintf("%d", stats.ValidEntries)),
		RenderRow("Expired", fmt.Sprintf("%d", stats.ExpiredEntries)),
		RenderRow("TTL", stats.DefaultTTL.String()),
		RenderRow("Hit rate", fmt.Sprintf("%.1f%% (%d hits, %d misses)", hitRate, stats.Hits, stats.Misses)),
	}
	return RenderBox(CacheIcon+" Advice Cache", strings.Join(rows, "\n"))
}

func renderFinancialSummary(s recommend.FinancialSummary) string {
	rows := []string{
		RenderRow("Net worth", signedMoney(s.NetWorth)),
		RenderRow("Monthly income", money(s.MonthlyIncome)),
		RenderRow("Total assets", money(s.TotalAssets)),
		RenderRow("Total debt", money(s.TotalLiabilities+s.TotalCreditCardDebt)),
		RenderRow("Debt-to-income ratio", fmt.Sprintf("%.2f", s.DebtToIncomeRatio)),
		RenderRow("Credit utilization", fmt.Sprintf("%.1f%%", s.CreditUtilization)),
	}
	return RenderBox(ChartIcon+" Financial Summary", strings.Join(rows, "\n"))
}

func renderFooter(data *recommend.RecommendationData) string {
	parts := []string{RobotIcon + " " + data.Model, data.GeneratedAt.Local().Format(time.RFC1123)}
	if data.FromCache {
		parts = append(parts, "cached")
	}
	return SubtleStyle.Render(strings.Join(parts, " · "))
}

func typeTitle(t model.RecommendationType) string {
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	whole := int64(v)
	cents := int64((v-float64(whole))*100 + 0.5)
	if cents == 100 {
		whole++
		cents = 0
	}

	digits := fmt.Sprintf("%d", whole)
	var grouped strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(r)
	}

	out := fmt.Sprintf("$%s.%02d", grouped.String(), cents)
	if neg {
		return "-" + out
	}
	return out
}

func signedMoney(v float64) string {
	if v < 0 {
		return ErrorStyle.Render(money(v))
	}
	return money(v)
}
