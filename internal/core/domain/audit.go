package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionSnapshot is the full payload frozen into a CashAudit when a session
// closes: the session row, its line items, the operator's physical counts and
// the computed totals.
type SessionSnapshot struct {
	Session         CashSession     `json:"session"`
	Sales           []Sale          `json:"sales"`
	Entries         []SessionEntry  `json:"entries"`
	PhysicalCash    decimal.Decimal `json:"physicalCash"`
	PhysicalDigital decimal.Decimal `json:"physicalDigital"`

	TotalIncome        decimal.Decimal `json:"totalIncome"`
	TotalSales         decimal.Decimal `json:"totalSales"`
	TotalCommissions   decimal.Decimal `json:"totalCommissions"`
	NetSales           decimal.Decimal `json:"netSales"`
	TotalOtherExpenses decimal.Decimal `json:"totalOtherExpenses"`
	TheoreticalBalance decimal.Decimal `json:"theoreticalBalance"`
}

// CashAudit is the immutable archival record created when a cash session is
// closed. Only its report URL (after regeneration) and its date/notes (via
// explicit edit) are ever patched.
type CashAudit struct {
	AuditID        string          `json:"auditID"`
	OrganizationID string          `json:"organizationID"`
	AuditDate      time.Time       `json:"auditDate"` // calendar day, stored as DATE
	Payload        SessionSnapshot `json:"payload"`
	TotalSales     decimal.Decimal `json:"totalSales"`
	// Difference = (physical cash + physical digital) - theoretical balance.
	// Positive is a surplus, negative a shortage.
	Difference decimal.Decimal `json:"difference"`
	ReportURL  *string         `json:"reportURL"`
	Notes      string          `json:"notes"`
	CreatedAt  time.Time       `json:"createdAt"`
	CreatedBy  string          `json:"createdBy"`
}
