package accounting

import (
	"sort"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SessionTotals holds the per-session financial aggregates derived from
// already-loaded records. Pure arithmetic, no I/O.
type SessionTotals struct {
	TotalIncome        decimal.Decimal
	TotalSales         decimal.Decimal
	TotalCommissions   decimal.Decimal
	NetSales           decimal.Decimal
	TotalOtherExpenses decimal.Decimal
	TheoreticalBalance decimal.Decimal
}

// CalculateSessionTotals computes the expected state of the till from the
// session's opening balances and line items:
//
//	totalIncome        = openingCash + openingDigital + sum(income entries)
//	netSales           = sum(sales) - session.TotalCommissions
//	theoreticalBalance = totalIncome + netSales - sum(expense entries)
//
// The commission figure is the session's pre-aggregated field, not the sum of
// individual sale commissions; ReconcileCommissions exposes any drift between
// the two.
func CalculateSessionTotals(session domain.CashSession, sales []domain.Sale, entries []domain.SessionEntry) SessionTotals {
	t := SessionTotals{
		TotalIncome:      session.OpeningCash.Add(session.OpeningDigital),
		TotalCommissions: session.TotalCommissions,
	}

	for _, e := range entries {
		switch e.Type {
		case domain.EntryIncome:
			t.TotalIncome = t.TotalIncome.Add(e.Amount)
		case domain.EntryExpense:
			t.TotalOtherExpenses = t.TotalOtherExpenses.Add(e.Amount)
		}
	}

	for _, s := range sales {
		t.TotalSales = t.TotalSales.Add(s.Amount)
	}

	t.NetSales = t.TotalSales.Sub(t.TotalCommissions)
	t.TheoreticalBalance = t.TotalIncome.Add(t.NetSales).Sub(t.TotalOtherExpenses)
	return t
}

// CalculateDifference returns the reconciliation difference between the
// operator's physical count and the theoretical balance. Positive is a
// surplus, negative a shortage, zero means the till balanced.
func CalculateDifference(physicalCash, physicalDigital, theoreticalBalance decimal.Decimal) decimal.Decimal {
	return physicalCash.Add(physicalDigital).Sub(theoreticalBalance)
}

// SumSaleCommissions adds up each sale's own commission field.
func SumSaleCommissions(sales []domain.Sale) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range sales {
		sum = sum.Add(s.Commission)
	}
	return sum
}

// ReconcileCommissions returns the delta between the session's aggregate
// commission field and the sum of its individual sale commissions. A non-zero
// delta means the aggregate went stale; callers decide what to do with it.
func ReconcileCommissions(session domain.CashSession, sales []domain.Sale) decimal.Decimal {
	return session.TotalCommissions.Sub(SumSaleCommissions(sales))
}

// CalculateMonthlyStats aggregates a set of cash audits into monthly
// profitability figures. Sales totals come from each audit's precomputed
// TotalSales; commissions are summed from each archived sale's own commission
// field. Expenses are walked entry by entry and split into operating expenses
// versus withdrawals, with by-category and by-provider breakdowns.
//
// The function is a pure function of its input: re-running it over the same
// audit set yields identical totals.
func CalculateMonthlyStats(audits []domain.CashAudit) domain.MonthlySummary {
	summary := domain.MonthlySummary{
		ByCategory: make(map[domain.ExpenseCategory]decimal.Decimal),
		ByProvider: make(map[string]decimal.Decimal),
		Expenses:   []domain.MonthlyExpense{},
		AuditCount: len(audits),
	}

	for _, audit := range audits {
		summary.TotalSales = summary.TotalSales.Add(audit.TotalSales)
		summary.TotalCommissions = summary.TotalCommissions.Add(SumSaleCommissions(audit.Payload.Sales))

		for _, e := range audit.Payload.Entries {
			if e.Type != domain.EntryExpense {
				continue
			}

			summary.TotalExpenses = summary.TotalExpenses.Add(e.Amount)
			if e.Category.IsOperating() {
				summary.TotalOperatingExpenses = summary.TotalOperatingExpenses.Add(e.Amount)
			} else {
				summary.TotalWithdrawals = summary.TotalWithdrawals.Add(e.Amount)
			}

			summary.ByCategory[e.Category] = summary.ByCategory[e.Category].Add(e.Amount)

			providerName := e.ProviderName
			if providerName == "" {
				providerName = domain.NoProviderLabel
			}
			summary.ByProvider[providerName] = summary.ByProvider[providerName].Add(e.Amount)

			summary.Expenses = append(summary.Expenses, domain.MonthlyExpense{
				AuditID:      audit.AuditID,
				AuditDate:    audit.AuditDate,
				Description:  e.Description,
				Amount:       e.Amount,
				Category:     e.Category,
				ProviderName: providerName,
			})
		}
	}

	// Reverse-chronological display order; audit ID breaks date ties so the
	// ordering is stable across runs.
	sort.SliceStable(summary.Expenses, func(i, j int) bool {
		if !summary.Expenses[i].AuditDate.Equal(summary.Expenses[j].AuditDate) {
			return summary.Expenses[i].AuditDate.After(summary.Expenses[j].AuditDate)
		}
		return summary.Expenses[i].AuditID > summary.Expenses[j].AuditID
	})

	summary.OperatingProfit = summary.TotalSales.Sub(summary.TotalCommissions).Sub(summary.TotalOperatingExpenses)
	summary.NetProfit = summary.TotalSales.Sub(summary.TotalCommissions).Sub(summary.TotalExpenses)
	return summary
}

// CalculateWastageSummary totals wastage losses over already-loaded records.
func CalculateWastageSummary(records []domain.WastageRecord) domain.WastageSummary {
	summary := domain.WastageSummary{
		ByProduct:   make(map[string]decimal.Decimal),
		RecordCount: len(records),
	}
	for _, r := range records {
		loss := r.TotalLoss()
		summary.TotalLoss = summary.TotalLoss.Add(loss)
		summary.ByProduct[r.ProductName] = summary.ByProduct[r.ProductName].Add(loss)
	}
	return summary
}

// IsMaterialPriceChange reports whether the absolute difference between old
// and new exceeds the 0.01 materiality threshold for price history archival.
func IsMaterialPriceChange(oldValue, newValue decimal.Decimal) bool {
	return newValue.Sub(oldValue).Abs().GreaterThan(domain.MaterialPriceChange)
}

// SuggestedPrice derives the suggested sale price from cost and margin
// percentage: cost * (1 + marginPct/100).
func SuggestedPrice(cost, marginPct decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	return cost.Mul(hundred.Add(marginPct)).Div(hundred)
}

// CommissionFor computes a sale's commission from the organization's settings
// for the given payment method.
func CommissionFor(settings domain.OrganizationSettings, method domain.PaymentMethod, amount decimal.Decimal) decimal.Decimal {
	var pct float64
	switch method {
	case domain.PaymentQR:
		pct = settings.CommissionQRPct
	case domain.PaymentDebit:
		pct = settings.CommissionDebitPct
	case domain.PaymentCredit:
		pct = settings.CommissionCreditPct
	default:
		return decimal.Zero
	}
	if pct == 0 {
		return decimal.Zero
	}
	return amount.Mul(decimal.NewFromFloat(pct)).Div(decimal.NewFromInt(100))
}
