package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyExpense is one expense entry surfaced in the monthly statistics flat
// list, tagged with the audit it came from.
type MonthlyExpense struct {
	AuditID      string          `json:"auditID"`
	AuditDate    time.Time       `json:"auditDate"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	Category     ExpenseCategory `json:"category"`
	ProviderName string          `json:"providerName"`
}

// MonthlySummary aggregates a range of cash audits into profitability figures.
//
// TotalCommissions is summed from each archived sale's own commission field,
// which is a different source than the per-session aggregate; the two can
// diverge if the session aggregate was stale when the day closed.
type MonthlySummary struct {
	TotalSales             decimal.Decimal                     `json:"totalSales"`
	TotalCommissions       decimal.Decimal                     `json:"totalCommissions"`
	TotalExpenses          decimal.Decimal                     `json:"totalExpenses"`
	TotalOperatingExpenses decimal.Decimal                     `json:"totalOperatingExpenses"`
	TotalWithdrawals       decimal.Decimal                     `json:"totalWithdrawals"`
	OperatingProfit        decimal.Decimal                     `json:"operatingProfit"`
	NetProfit              decimal.Decimal                     `json:"netProfit"`
	ByCategory             map[ExpenseCategory]decimal.Decimal `json:"byCategory"`
	ByProvider             map[string]decimal.Decimal          `json:"byProvider"`
	Expenses               []MonthlyExpense                    `json:"expenses"` // reverse-chronological
	AuditCount             int                                 `json:"auditCount"`
}

// WastageSummary aggregates wastage records over a date range.
type WastageSummary struct {
	TotalLoss   decimal.Decimal            `json:"totalLoss"`
	ByProduct   map[string]decimal.Decimal `json:"byProduct"`
	RecordCount int                        `json:"recordCount"`
}
