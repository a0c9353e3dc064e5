package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommitmentStatus is the lifecycle state of a payment commitment.
// PENDING -> PAID is the only transition and PAID is terminal.
type CommitmentStatus string

const (
	CommitmentPending CommitmentStatus = "PENDING"
	CommitmentPaid    CommitmentStatus = "PAID"
)

// Commitment is a scheduled outbound payment obligation, optionally linked to
// a provider. Marking it paid may also post an expense against the
// organization's open cash session.
type Commitment struct {
	CommitmentID   string           `json:"commitmentID"`
	OrganizationID string           `json:"organizationID"`
	Description    string           `json:"description"`
	Amount         decimal.Decimal  `json:"amount"`
	DueDate        time.Time        `json:"dueDate"`
	ProviderID     *string          `json:"providerID"`
	Status         CommitmentStatus `json:"status"`
	PaidAt         *time.Time       `json:"paidAt"`
	AuditFields
}
