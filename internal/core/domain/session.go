package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionStatus is the lifecycle state of a cash session.
type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

// CashSession is the mutable working record of one organization's one business
// day of cash-register activity. At most one session may be OPEN per
// organization at a time.
type CashSession struct {
	SessionID      string          `json:"sessionID"`
	OrganizationID string          `json:"organizationID"`
	SessionDate    time.Time       `json:"sessionDate"` // calendar day, stored as DATE
	Status         SessionStatus   `json:"status"`
	OpeningCash    decimal.Decimal `json:"openingCash"`
	OpeningDigital decimal.Decimal `json:"openingDigital"`
	// TotalCommissions is the operator-maintained aggregate commission figure
	// for the session. It feeds the theoretical balance and is deliberately
	// NOT recomputed from individual sale commissions; see
	// accounting.ReconcileCommissions.
	TotalCommissions decimal.Decimal `json:"totalCommissions"`
	Notes            string          `json:"notes"`
	ReportURL        *string         `json:"reportURL"`
	// Version is an optimistic concurrency stamp. Patches carry the version
	// they read; a mismatch on write means a concurrent writer won.
	Version int64 `json:"version"`
	AuditFields
}
