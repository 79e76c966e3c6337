package aggregate

import (
	"cmp"
	"slices"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-spice-must-advise/internal/common"
	"github.com/Veraticus/the-spice-must-advise/internal/model"
)

// Records holds the four collections read for one scope.
type Records struct {
	Incomes     []model.Income
	Assets      []model.Asset
	Liabilities []model.Liability
	CreditCards []model.CreditCard
}

// Validate applies every record's shape checks.
func (r *Records) Validate() error {
	for i := range r.Incomes {
		if err := r.Incomes[i].Validate(); err != nil {
			return &common.DataError{Collection: "incomes", Err: err}
		}
	}
	for i := range r.Assets {
		if err := r.Assets[i].Validate(); err != nil {
			return &common.DataError{Collection: "assets", Err: err}
		}
	}
	for i := range r.Liabilities {
		if err := r.Liabilities[i].Validate(); err != nil {
			return &common.DataError{Collection: "liabilities", Err: err}
		}
	}
	for i := range r.CreditCards {
		if err := r.CreditCards[i].Validate(); err != nil {
			return &common.DataError{Collection: "credit_cards", Err: err}
		}
	}
	return nil
}

// Compute derives a snapshot from already-loaded records.
func Compute(records Records, scope model.Scope, now time.Time) (*Snapshot, error) {
	if err := records.Validate(); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		GeneratedAt: now,
		Scope:       scope,
		Counts: RecordCounts{
			Incomes:     len(records.Incomes),
			Assets:      len(records.Assets),
			Liabilities: len(records.Liabilities),
			CreditCards: len(records.CreditCards),
		},
	}

	totalAssets, liquid := summarizeAssets(snap, records.Assets)
	monthlyIncome, oneTime := summarizeIncome(snap, records.Incomes)
	totalLiabilities, liabilityPayments := summarizeLiabilities(snap, records.Liabilities)
	cardDebt, cardLimit, cardPayments := summarizeCards(snap, records.CreditCards)

	totalDebt := totalLiabilities.Add(cardDebt)

	snap.TotalAssets = money(totalAssets)
	snap.LiquidAssets = money(liquid)
	snap.MonthlyIncome = money(monthlyIncome)
	snap.OneTimeIncome = money(oneTime)
	snap.TotalLiabilities = money(totalLiabilities)
	snap.TotalCreditCardDebt = money(cardDebt)
	snap.TotalCreditLimit = money(cardLimit)
	snap.MonthlyDebtPayments = money(liabilityPayments.Add(cardPayments))
	snap.NetWorth = money(totalAssets.Sub(totalDebt))
	snap.DebtToIncomeRatio = rate(ratio(totalDebt, monthlyIncome))
	snap.CreditUtilization = rate(clampNonNegative(percentOf(cardDebt, cardLimit)))
	snap.Insights = deriveInsights(snap)

	return snap, nil
}

func summarizeAssets(snap *Snapshot, assets []model.Asset) (total, liquid decimal.Decimal) {
	type bucket struct {
		total decimal.Decimal
		count int
	}
	buckets := make(map[model.AssetCategory]*bucket)

	for _, a := range assets {
		v := decimal.NewFromFloat(a.CurrentValue)
		total = total.Add(v)
		if a.Category.Liquid() {
			liquid = liquid.Add(v)
		}
		b, ok := buckets[a.Category]
		if !ok {
			b = &bucket{}
			buckets[a.Category] = b
		}
		b.total = b.total.Add(v)
		b.count++
	}

	for category, b := range buckets {
		snap.AssetBreakdown = append(snap.AssetBreakdown, AssetEntry{
			Category: category,
			Count:    b.count,
			Total:    money(b.total),
			Share:    rate(percentOf(b.total, total)),
		})
	}
	sort.Slice(snap.AssetBreakdown, func(i, j int) bool {
		return snap.AssetBreakdown[i].Category < snap.AssetBreakdown[j].Category
	})

	return total, liquid
}

func summarizeIncome(snap *Snapshot, incomes []model.Income) (monthly, oneTime decimal.Decimal) {
	type bucket struct {
		amount  decimal.Decimal
		monthly decimal.Decimal
		count   int
	}
	buckets := make(map[model.Frequency]*bucket)

	for _, in := range incomes {
		amount := decimal.NewFromFloat(in.Amount)
		b, ok := buckets[in.Frequency]
		if !ok {
			b = &bucket{}
			buckets[in.Frequency] = b
		}
		b.count++
		b.amount = b.amount.Add(amount)

		if in.Frequency.Recurring() {
			eq := MonthlyEquivalent(amount, in.Frequency)
			monthly = monthly.Add(eq)
			b.monthly = b.monthly.Add(eq)
		} else {
			oneTime = oneTime.Add(amount)
		}
	}

	for frequency, b := range buckets {
		entry := IncomeEntry{
			Frequency:     frequency,
			Count:         b.count,
			Amount:        money(b.amount),
			MonthlyAmount: money(b.monthly),
		}
		if !frequency.Recurring() {
			entry.OneTimeAmount = money(b.amount)
		}
		snap.IncomeBreakdown = append(snap.IncomeBreakdown, entry)
	}
	sort.Slice(snap.IncomeBreakdown, func(i, j int) bool {
		return snap.IncomeBreakdown[i].Frequency < snap.IncomeBreakdown[j].Frequency
	})

	return monthly, oneTime
}

func summarizeLiabilities(snap *Snapshot, liabilities []model.Liability) (total, payments decimal.Decimal) {
	type bucket struct {
		total        decimal.Decimal
		payments     decimal.Decimal
		weightedRate decimal.Decimal
		count        int
	}
	buckets := make(map[model.LiabilityType]*bucket)

	for _, l := range liabilities {
		amount := decimal.NewFromFloat(l.OutstandingAmount)
		payment := decimal.NewFromFloat(l.MonthlyPayment)
		total = total.Add(amount)
		payments = payments.Add(payment)

		b, ok := buckets[l.Type]
		if !ok {
			b = &bucket{}
			buckets[l.Type] = b
		}
		b.count++
		b.total = b.total.Add(amount)
		b.payments = b.payments.Add(payment)
		b.weightedRate = b.weightedRate.Add(amount.Mul(decimal.NewFromFloat(l.InterestRate)))
	}

	for kind, b := range buckets {
		snap.LiabilityBreakdown = append(snap.LiabilityBreakdown, LiabilityEntry{
			Type:                kind,
			Count:               b.count,
			Total:               money(b.total),
			MonthlyPayment:      money(b.payments),
			AverageInterestRate: rate(ratio(b.weightedRate, b.total)),
		})
	}
	sort.Slice(snap.LiabilityBreakdown, func(i, j int) bool {
		return snap.LiabilityBreakdown[i].Type < snap.LiabilityBreakdown[j].Type
	})

	return total, payments
}

func summarizeCards(snap *Snapshot, cards []model.CreditCard) (debt, limit, payments decimal.Decimal) {
	for _, c := range cards {
		balance := decimal.NewFromFloat(c.OutstandingBalance)
		cardLimit := decimal.NewFromFloat(c.CreditLimit)
		debt = debt.Add(balance)
		limit = limit.Add(cardLimit)
		payments = payments.Add(decimal.NewFromFloat(c.MinimumPayment))

		snap.CreditCards = append(snap.CreditCards, CardDetail{
			Name:               c.CardName,
			Issuer:             c.Issuer,
			CreditLimit:        money(cardLimit),
			OutstandingBalance: money(balance),
			UtilizationRate:    rate(percentOf(balance, cardLimit)),
			InterestRate:       c.InterestRate,
			MinimumPayment:     c.MinimumPayment,
			DueDate:            c.DueDate,
		})
	}
	slices.SortFunc(snap.CreditCards, compareCards)

	return debt, limit, payments
}

// compareCards orders cards on every field so that same-named cards land in
// the same order whatever order the store returned them in.
func compareCards(a, b CardDetail) int {
	return cmp.Or(
		cmp.Compare(a.Name, b.Name),
		cmp.Compare(a.Issuer, b.Issuer),
		a.DueDate.Compare(b.DueDate),
		cmp.Compare(a.CreditLimit, b.CreditLimit),
		cmp.Compare(a.OutstandingBalance, b.OutstandingBalance),
		cmp.Compare(a.InterestRate, b.InterestRate),
		cmp.Compare(a.MinimumPayment, b.MinimumPayment),
	)
}
