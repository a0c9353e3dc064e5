package repositories

import (
	"context"
	"time"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
)

// CommitmentReader defines read operations for payment commitments.
type CommitmentReader interface {
	FindCommitmentByID(ctx context.Context, organizationID, commitmentID string) (*domain.Commitment, error)
	ListCommitments(ctx context.Context, organizationID string, status *domain.CommitmentStatus) ([]domain.Commitment, error)
}

// CommitmentWriter defines write operations for payment commitments.
type CommitmentWriter interface {
	SaveCommitment(ctx context.Context, commitment domain.Commitment) error
	UpdateCommitment(ctx context.Context, commitment domain.Commitment) error
	DeleteCommitment(ctx context.Context, organizationID, commitmentID string) error

	// MarkCommitmentPaid flips a PENDING commitment to PAID. When expense is
	// non-nil it is inserted first and both writes commit atomically; on any
	// failure the commitment stays PENDING. A commitment that is already PAID
	// yields apperrors.ErrValidation.
	MarkCommitmentPaid(ctx context.Context, organizationID, commitmentID string, paidAt time.Time, paidBy string, expense *domain.SessionEntry) error
}

// CommitmentRepositoryFacade combines all commitment repository interfaces.
type CommitmentRepositoryFacade interface {
	CommitmentReader
	CommitmentWriter
}
