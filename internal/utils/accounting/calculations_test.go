package accounting_test

import (
	"testing"
	"time"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
	"github.com/commerceos/commerceos_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	dec, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return dec
}

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCalculateSessionTotals_BasicDay(t *testing.T) {
	// openingCash=1000, one cash sale of 500 without commission, one business
	// expense of 200: theoretical balance must be 1300.
	session := domain.CashSession{
		OpeningCash:      d("1000"),
		OpeningDigital:   d("0"),
		TotalCommissions: d("0"),
	}
	sales := []domain.Sale{
		{Amount: d("500"), Method: domain.PaymentCash},
	}
	entries := []domain.SessionEntry{
		{Type: domain.EntryExpense, Amount: d("200"), Category: domain.CategoryBusiness},
	}

	totals := accounting.CalculateSessionTotals(session, sales, entries)

	assert.True(t, totals.TotalIncome.Equal(d("1000")), "totalIncome = %s", totals.TotalIncome)
	assert.True(t, totals.TotalSales.Equal(d("500")))
	assert.True(t, totals.NetSales.Equal(d("500")))
	assert.True(t, totals.TotalOtherExpenses.Equal(d("200")))
	assert.True(t, totals.TheoreticalBalance.Equal(d("1300")), "theoreticalBalance = %s", totals.TheoreticalBalance)

	diff := accounting.CalculateDifference(d("1300"), d("0"), totals.TheoreticalBalance)
	assert.True(t, diff.IsZero(), "difference = %s", diff)
}

func TestCalculateSessionTotals_IncomeAndCommissions(t *testing.T) {
	session := domain.CashSession{
		OpeningCash:      d("500"),
		OpeningDigital:   d("250.50"),
		TotalCommissions: d("35"),
	}
	sales := []domain.Sale{
		{Amount: d("1000"), Method: domain.PaymentQR, Commission: d("20")},
		{Amount: d("750"), Method: domain.PaymentCredit, Commission: d("15")},
	}
	entries := []domain.SessionEntry{
		{Type: domain.EntryIncome, Amount: d("100")},
		{Type: domain.EntryIncome, Amount: d("49.50")},
		{Type: domain.EntryExpense, Amount: d("300"), Category: domain.CategoryPurchases},
	}

	totals := accounting.CalculateSessionTotals(session, sales, entries)

	// 500 + 250.50 + 100 + 49.50 = 900
	assert.True(t, totals.TotalIncome.Equal(d("900")))
	assert.True(t, totals.TotalSales.Equal(d("1750")))
	// netSales uses the session aggregate, not the per-sale sum
	assert.True(t, totals.NetSales.Equal(d("1715")))
	// 900 + 1715 - 300
	assert.True(t, totals.TheoreticalBalance.Equal(d("2315")))
}

func TestCalculateDifference_SignConvention(t *testing.T) {
	theoretical := d("1300")

	surplus := accounting.CalculateDifference(d("1350"), d("0"), theoretical)
	assert.True(t, surplus.Equal(d("50")), "surplus must be positive")

	shortage := accounting.CalculateDifference(d("1200"), d("50"), theoretical)
	assert.True(t, shortage.Equal(d("-50")), "shortage must be negative")

	balanced := accounting.CalculateDifference(d("1000"), d("300"), theoretical)
	assert.True(t, balanced.IsZero())
}

func TestReconcileCommissions_DetectsStaleAggregate(t *testing.T) {
	session := domain.CashSession{TotalCommissions: d("50")}
	sales := []domain.Sale{
		{Commission: d("20")},
		{Commission: d("25")},
	}

	delta := accounting.ReconcileCommissions(session, sales)
	assert.True(t, delta.Equal(d("5")), "aggregate exceeds per-sale sum by 5")

	session.TotalCommissions = d("45")
	assert.True(t, accounting.ReconcileCommissions(session, sales).IsZero())
}

func TestCalculateMonthlyStats_TwoAudits(t *testing.T) {
	// Two audits with totalSales 1000 and 2000, sale commissions summing 50 and
	// 100, one Personal expense of 300 on the first audit.
	audits := []domain.CashAudit{
		{
			AuditID:    "audit-1",
			AuditDate:  day("2025-03-05"),
			TotalSales: d("1000"),
			Payload: domain.SessionSnapshot{
				Sales: []domain.Sale{
					{Amount: d("600"), Commission: d("30")},
					{Amount: d("400"), Commission: d("20")},
				},
				Entries: []domain.SessionEntry{
					{Type: domain.EntryExpense, Description: "Retiro dueño", Amount: d("300"), Category: domain.CategoryPersonal},
				},
			},
		},
		{
			AuditID:    "audit-2",
			AuditDate:  day("2025-03-12"),
			TotalSales: d("2000"),
			Payload: domain.SessionSnapshot{
				Sales: []domain.Sale{
					{Amount: d("2000"), Commission: d("100")},
				},
			},
		},
	}

	stats := accounting.CalculateMonthlyStats(audits)

	assert.True(t, stats.TotalSales.Equal(d("3000")))
	assert.True(t, stats.TotalCommissions.Equal(d("150")))
	assert.True(t, stats.TotalExpenses.Equal(d("300")))
	assert.True(t, stats.TotalOperatingExpenses.IsZero())
	assert.True(t, stats.TotalWithdrawals.Equal(d("300")))
	assert.True(t, stats.OperatingProfit.Equal(d("2850")))
	assert.True(t, stats.NetProfit.Equal(d("2550")))
	assert.Equal(t, 2, stats.AuditCount)

	require.Len(t, stats.Expenses, 1)
	assert.Equal(t, "audit-1", stats.Expenses[0].AuditID)
	assert.Equal(t, domain.NoProviderLabel, stats.Expenses[0].ProviderName)
	assert.True(t, stats.ByCategory[domain.CategoryPersonal].Equal(d("300")))
	assert.True(t, stats.ByProvider[domain.NoProviderLabel].Equal(d("300")))
}

func TestCalculateMonthlyStats_OperatingVsNetProfit(t *testing.T) {
	withdrawal := domain.SessionEntry{Type: domain.EntryExpense, Amount: d("100"), Category: domain.CategoryPersonal}
	operating := domain.SessionEntry{Type: domain.EntryExpense, Amount: d("100"), Category: domain.CategoryBusiness}

	base := domain.CashAudit{
		AuditID:    "a",
		AuditDate:  day("2025-01-10"),
		TotalSales: d("1000"),
	}

	// With a withdrawal present, operatingProfit must exceed netProfit.
	withWithdrawal := base
	withWithdrawal.Payload = domain.SessionSnapshot{Entries: []domain.SessionEntry{withdrawal, operating}}
	stats := accounting.CalculateMonthlyStats([]domain.CashAudit{withWithdrawal})
	assert.True(t, stats.OperatingProfit.GreaterThan(stats.NetProfit))

	// Without withdrawals the two figures coincide.
	onlyOperating := base
	onlyOperating.Payload = domain.SessionSnapshot{Entries: []domain.SessionEntry{operating}}
	stats = accounting.CalculateMonthlyStats([]domain.CashAudit{onlyOperating})
	assert.True(t, stats.OperatingProfit.Equal(stats.NetProfit))
}

func TestCalculateMonthlyStats_ExpenseOrderingAndProviders(t *testing.T) {
	providerA := "Distribuidora Norte"
	audits := []domain.CashAudit{
		{
			AuditID:   "old",
			AuditDate: day("2025-02-01"),
			Payload: domain.SessionSnapshot{
				Entries: []domain.SessionEntry{
					{Type: domain.EntryExpense, Description: "flete", Amount: d("80"), Category: domain.CategoryPurchases, ProviderName: providerA},
				},
			},
		},
		{
			AuditID:   "new",
			AuditDate: day("2025-02-20"),
			Payload: domain.SessionSnapshot{
				Entries: []domain.SessionEntry{
					{Type: domain.EntryExpense, Description: "limpieza", Amount: d("40"), Category: domain.CategoryOther},
					{Type: domain.EntryIncome, Description: "no cuenta", Amount: d("999")},
				},
			},
		},
	}

	stats := accounting.CalculateMonthlyStats(audits)

	require.Len(t, stats.Expenses, 2)
	assert.Equal(t, "new", stats.Expenses[0].AuditID, "newest expense first")
	assert.Equal(t, "old", stats.Expenses[1].AuditID)
	assert.True(t, stats.ByProvider[providerA].Equal(d("80")))
	assert.True(t, stats.ByProvider[domain.NoProviderLabel].Equal(d("40")))
	assert.True(t, stats.TotalExpenses.Equal(d("120")), "income entries are excluded")
}

func TestCalculateMonthlyStats_Idempotent(t *testing.T) {
	audits := []domain.CashAudit{
		{
			AuditID:    "x",
			AuditDate:  day("2025-04-01"),
			TotalSales: d("123.45"),
			Payload: domain.SessionSnapshot{
				Sales:   []domain.Sale{{Amount: d("123.45"), Commission: d("1.23")}},
				Entries: []domain.SessionEntry{{Type: domain.EntryExpense, Amount: d("10"), Category: domain.CategoryInvestments}},
			},
		},
	}

	first := accounting.CalculateMonthlyStats(audits)
	second := accounting.CalculateMonthlyStats(audits)

	assert.True(t, first.TotalSales.Equal(second.TotalSales))
	assert.True(t, first.TotalCommissions.Equal(second.TotalCommissions))
	assert.True(t, first.OperatingProfit.Equal(second.OperatingProfit))
	assert.True(t, first.NetProfit.Equal(second.NetProfit))
	assert.Equal(t, len(first.Expenses), len(second.Expenses))
}

func TestIsMaterialPriceChange_Threshold(t *testing.T) {
	assert.False(t, accounting.IsMaterialPriceChange(d("10"), d("10")))
	assert.False(t, accounting.IsMaterialPriceChange(d("10"), d("10.01")), "exactly 0.01 is not material")
	assert.True(t, accounting.IsMaterialPriceChange(d("10"), d("10.011")))
	assert.True(t, accounting.IsMaterialPriceChange(d("10"), d("9.98")), "decreases count too")
}

func TestSuggestedPrice(t *testing.T) {
	assert.True(t, accounting.SuggestedPrice(d("100"), d("30")).Equal(d("130")))
	assert.True(t, accounting.SuggestedPrice(d("80"), d("0")).Equal(d("80")))
}

func TestCommissionFor(t *testing.T) {
	settings := domain.OrganizationSettings{
		CommissionQRPct:     2,
		CommissionDebitPct:  1.5,
		CommissionCreditPct: 5,
	}

	assert.True(t, accounting.CommissionFor(settings, domain.PaymentQR, d("1000")).Equal(d("20")))
	assert.True(t, accounting.CommissionFor(settings, domain.PaymentDebit, d("1000")).Equal(d("15")))
	assert.True(t, accounting.CommissionFor(settings, domain.PaymentCredit, d("1000")).Equal(d("50")))
	assert.True(t, accounting.CommissionFor(settings, domain.PaymentCash, d("1000")).IsZero())
	assert.True(t, accounting.CommissionFor(settings, domain.PaymentTransfer, d("1000")).IsZero())
}

func TestCalculateWastageSummary(t *testing.T) {
	records := []domain.WastageRecord{
		{ProductName: "Pan", Quantity: d("3"), UnitCost: d("1.50")},
		{ProductName: "Pan", Quantity: d("2"), UnitCost: d("1.50")},
		{ProductName: "Leche", Quantity: d("1"), UnitCost: d("4")},
	}

	summary := accounting.CalculateWastageSummary(records)

	assert.True(t, summary.TotalLoss.Equal(d("11.50")))
	assert.True(t, summary.ByProduct["Pan"].Equal(d("7.50")))
	assert.True(t, summary.ByProduct["Leche"].Equal(d("4")))
	assert.Equal(t, 3, summary.RecordCount)
}
