package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/commerceos/commerceos_backend/internal/apperrors"
	"github.com/commerceos/commerceos_backend/internal/core/domain"
	portsrepo "github.com/commerceos/commerceos_backend/internal/core/ports/repositories"
	portssvc "github.com/commerceos/commerceos_backend/internal/core/ports/services"
	"github.com/commerceos/commerceos_backend/internal/dto"
	"github.com/google/uuid"
)

// CommitmentService handles business logic for scheduled payment commitments.
type CommitmentService struct {
	BaseService
	commitmentRepo portsrepo.CommitmentRepositoryFacade
	sessionRepo    portsrepo.SessionReader
	providerRepo   portsrepo.ProviderReader
}

// NewCommitmentService creates a new CommitmentService.
func NewCommitmentService(
	authorizer portssvc.OrganizationAuthorizerSvc,
	cr portsrepo.CommitmentRepositoryFacade,
	sr portsrepo.SessionReader,
	pr portsrepo.ProviderReader,
) portssvc.CommitmentSvcFacade {
	return &CommitmentService{
		BaseService:    BaseService{OrganizationAuthorizer: authorizer},
		commitmentRepo: cr,
		sessionRepo:    sr,
		providerRepo:   pr,
	}
}

var _ portssvc.CommitmentSvcFacade = (*CommitmentService)(nil)

// CreateCommitment schedules a payment obligation.
func (s *CommitmentService) CreateCommitment(ctx context.Context, userID, organizationID string, req dto.CreateCommitmentRequest) (*domain.Commitment, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	dueDate, err := parseDate("dueDate", req.DueDate)
	if err != nil {
		return nil, err
	}
	if req.ProviderID != nil {
		if _, err := s.providerRepo.FindProviderByID(ctx, organizationID, *req.ProviderID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: provider not found", apperrors.ErrValidation)
			}
			return nil, fmt.Errorf("failed to resolve provider: %w", err)
		}
	}

	now := time.Now()
	commitment := domain.Commitment{
		CommitmentID:   uuid.NewString(),
		OrganizationID: organizationID,
		Description:    req.Description,
		Amount:         req.Amount,
		DueDate:        dueDate,
		ProviderID:     req.ProviderID,
		Status:         domain.CommitmentPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.commitmentRepo.SaveCommitment(ctx, commitment); err != nil {
		s.LogError(ctx, err, "Failed to save commitment", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to create commitment: %w", err)
	}
	return &commitment, nil
}

// GetCommitment retrieves a commitment by ID.
func (s *CommitmentService) GetCommitment(ctx context.Context, userID, organizationID, commitmentID string) (*domain.Commitment, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.commitmentRepo.FindCommitmentByID(ctx, organizationID, commitmentID)
}

// ListCommitments returns commitments, optionally filtered by status.
func (s *CommitmentService) ListCommitments(ctx context.Context, userID, organizationID string, status *domain.CommitmentStatus) ([]domain.Commitment, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.commitmentRepo.ListCommitments(ctx, organizationID, status)
}

// UpdateCommitment edits a PENDING commitment; PAID ones are immutable.
func (s *CommitmentService) UpdateCommitment(ctx context.Context, userID, organizationID, commitmentID string, req dto.UpdateCommitmentRequest) (*domain.Commitment, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	commitment, err := s.commitmentRepo.FindCommitmentByID(ctx, organizationID, commitmentID)
	if err != nil {
		return nil, err
	}
	if commitment.Status != domain.CommitmentPending {
		return nil, fmt.Errorf("%w: paid commitments cannot be edited", apperrors.ErrValidation)
	}

	if req.Description != nil {
		commitment.Description = *req.Description
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
		}
		commitment.Amount = *req.Amount
	}
	if req.DueDate != nil {
		dueDate, err := parseDate("dueDate", *req.DueDate)
		if err != nil {
			return nil, err
		}
		commitment.DueDate = dueDate
	}
	if req.ProviderID != nil {
		if _, err := s.providerRepo.FindProviderByID(ctx, organizationID, *req.ProviderID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: provider not found", apperrors.ErrValidation)
			}
			return nil, fmt.Errorf("failed to resolve provider: %w", err)
		}
		commitment.ProviderID = req.ProviderID
	}
	commitment.LastUpdatedAt = time.Now()
	commitment.LastUpdatedBy = userID

	if err := s.commitmentRepo.UpdateCommitment(ctx, *commitment); err != nil {
		s.LogError(ctx, err, "Failed to update commitment", slog.String("commitment_id", commitmentID))
		return nil, fmt.Errorf("failed to update commitment: %w", err)
	}
	return commitment, nil
}

// DeleteCommitment removes a commitment.
func (s *CommitmentService) DeleteCommitment(ctx context.Context, userID, organizationID, commitmentID string) error {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return err
	}
	return s.commitmentRepo.DeleteCommitment(ctx, organizationID, commitmentID)
}

// MarkPaid flips a PENDING commitment to PAID. With req.UseCash an expense
// for the commitment amount is posted against the organization's OPEN session
// and both writes commit in one transaction; if the expense cannot be posted
// the commitment stays PENDING so the operator can retry.
func (s *CommitmentService) MarkPaid(ctx context.Context, userID, organizationID, commitmentID string, req dto.MarkPaidRequest) (*domain.Commitment, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	commitment, err := s.commitmentRepo.FindCommitmentByID(ctx, organizationID, commitmentID)
	if err != nil {
		return nil, err
	}
	if commitment.Status != domain.CommitmentPending {
		return nil, fmt.Errorf("%w: commitment is already paid", apperrors.ErrValidation)
	}

	now := time.Now()
	var expense *domain.SessionEntry
	if req.UseCash {
		session, err := s.sessionRepo.FindOpenSession(ctx, organizationID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: paying from cash requires an open session", apperrors.ErrSessionClosed)
			}
			return nil, err
		}

		providerName := ""
		if commitment.ProviderID != nil {
			provider, err := s.providerRepo.FindProviderByID(ctx, organizationID, *commitment.ProviderID)
			if err == nil {
				providerName = provider.Name
			}
		}

		expense = &domain.SessionEntry{
			EntryID:        uuid.NewString(),
			SessionID:      session.SessionID,
			OrganizationID: organizationID,
			Type:           domain.EntryExpense,
			Description:    fmt.Sprintf("Pago compromiso: %s", commitment.Description),
			Amount:         commitment.Amount,
			Category:       domain.CategoryBusiness,
			ProviderID:     commitment.ProviderID,
			ProviderName:   providerName,
			RecordedAt:     now,
			CreatedBy:      userID,
		}
	}

	if err := s.commitmentRepo.MarkCommitmentPaid(ctx, organizationID, commitmentID, now, userID, expense); err != nil {
		s.LogError(ctx, err, "Failed to mark commitment paid", slog.String("commitment_id", commitmentID), slog.Bool("use_cash", req.UseCash))
		return nil, err
	}

	s.LogInfo(ctx, "Commitment paid", slog.String("commitment_id", commitmentID), slog.Bool("use_cash", req.UseCash))
	return s.commitmentRepo.FindCommitmentByID(ctx, organizationID, commitmentID)
}
