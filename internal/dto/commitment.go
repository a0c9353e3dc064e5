package dto

import (
	"time"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCommitmentRequest defines data for scheduling a payment commitment.
type CreateCommitmentRequest struct {
	Description string          `json:"description" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	DueDate     string          `json:"dueDate" binding:"required,datetime=2006-01-02"`
	ProviderID  *string         `json:"providerID"`
}

// UpdateCommitmentRequest defines the mutable commitment fields. Only PENDING
// commitments can be edited.
type UpdateCommitmentRequest struct {
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	DueDate     *string          `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
	ProviderID  *string          `json:"providerID"`
}

// MarkPaidRequest defines options for the PENDING -> PAID transition. With
// UseCash set, an expense for the commitment amount is posted against the
// organization's open session in the same transaction.
type MarkPaidRequest struct {
	UseCash bool `json:"useCash"`
}

// CommitmentResponse defines data returned for a commitment.
type CommitmentResponse struct {
	CommitmentID string                  `json:"commitmentID"`
	Description  string                  `json:"description"`
	Amount       decimal.Decimal         `json:"amount"`
	DueDate      string                  `json:"dueDate"`
	ProviderID   *string                 `json:"providerID,omitempty"`
	Status       domain.CommitmentStatus `json:"status"`
	PaidAt       *time.Time              `json:"paidAt,omitempty"`
	CreatedAt    time.Time               `json:"createdAt"`
}

// ToCommitmentResponse converts domain.Commitment to DTO.
func ToCommitmentResponse(c *domain.Commitment) CommitmentResponse {
	return CommitmentResponse{
		CommitmentID: c.CommitmentID,
		Description:  c.Description,
		Amount:       c.Amount,
		DueDate:      c.DueDate.Format("2006-01-02"),
		ProviderID:   c.ProviderID,
		Status:       c.Status,
		PaidAt:       c.PaidAt,
		CreatedAt:    c.CreatedAt,
	}
}

// ListCommitmentsResponse wraps a list of commitments.
type ListCommitmentsResponse struct {
	Commitments []CommitmentResponse `json:"commitments"`
}

// ToListCommitmentsResponse converts a slice of domain.Commitment to DTO.
func ToListCommitmentsResponse(commitments []domain.Commitment) ListCommitmentsResponse {
	list := make([]CommitmentResponse, len(commitments))
	for i, c := range commitments {
		list[i] = ToCommitmentResponse(&c)
	}
	return ListCommitmentsResponse{Commitments: list}
}
