package services

import (
	"context"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
	"github.com/commerceos/commerceos_backend/internal/dto"
)

// ProviderSvcFacade is the provider contact service interface.
type ProviderSvcFacade interface {
	CreateProvider(ctx context.Context, userID, organizationID string, req dto.CreateProviderRequest) (*domain.Provider, error)
	GetProvider(ctx context.Context, userID, organizationID, providerID string) (*domain.Provider, error)
	ListProviders(ctx context.Context, userID, organizationID string, includeInactive bool) ([]domain.Provider, error)
	UpdateProvider(ctx context.Context, userID, organizationID, providerID string, req dto.UpdateProviderRequest) (*domain.Provider, error)

	// DeleteProvider soft-deletes: the provider stays referenceable from
	// historical expenses and commitments.
	DeleteProvider(ctx context.Context, userID, organizationID, providerID string) error
}

// CommitmentSvcFacade is the payment commitment service interface.
type CommitmentSvcFacade interface {
	CreateCommitment(ctx context.Context, userID, organizationID string, req dto.CreateCommitmentRequest) (*domain.Commitment, error)
	GetCommitment(ctx context.Context, userID, organizationID, commitmentID string) (*domain.Commitment, error)
	ListCommitments(ctx context.Context, userID, organizationID string, status *domain.CommitmentStatus) ([]domain.Commitment, error)
	UpdateCommitment(ctx context.Context, userID, organizationID, commitmentID string, req dto.UpdateCommitmentRequest) (*domain.Commitment, error)
	DeleteCommitment(ctx context.Context, userID, organizationID, commitmentID string) error

	// MarkPaid performs the one-shot PENDING -> PAID transition. With
	// req.UseCash the expense posting and the status flip commit in the same
	// transaction; if the expense cannot be posted the commitment stays
	// PENDING and the error is surfaced as retryable.
	MarkPaid(ctx context.Context, userID, organizationID, commitmentID string, req dto.MarkPaidRequest) (*domain.Commitment, error)
}

// WastageSvcFacade is the loss log service interface.
type WastageSvcFacade interface {
	CreateWastage(ctx context.Context, userID, organizationID string, req dto.CreateWastageRequest) (*domain.WastageRecord, error)
	ListWastage(ctx context.Context, userID, organizationID, from, to string) ([]domain.WastageRecord, error)
	DeleteWastage(ctx context.Context, userID, organizationID, wastageID string) error
}

// ReportingSvcFacade is the monthly statistics service interface.
type ReportingSvcFacade interface {
	// MonthlyStats aggregates the organization's audits within [from, to]
	// (calendar dates, inclusive) into profitability figures.
	MonthlyStats(ctx context.Context, userID, organizationID, from, to string) (*domain.MonthlySummary, error)

	// WastageStats totals losses over the same kind of range.
	WastageStats(ctx context.Context, userID, organizationID, from, to string) (*domain.WastageSummary, error)
}
