package services

import (
	"context"
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

// WastageService handles the append-only loss log.
type WastageService struct {
	BaseService
	wastageRepo portsrepo.WastageRepositoryFacade
}

// NewWastageService creates a new WastageService.
func NewWastageService(authorizer portssvc.OrganizationAuthorizerSvc, wr portsrepo.WastageRepositoryFacade) portssvc.WastageSvcFacade {
	return &WastageService{
		BaseService: BaseService{OrganizationAuthorizer: authorizer},
		wastageRepo: wr,
	}
}

var _ portssvc.WastageSvcFacade = (*WastageService)(nil)

// CreateWastage records a loss. The product reference is optional: free-text
// names cover items that never made it into the catalog.
func (s *WastageService) CreateWastage(ctx context.Context, userID, organizationID string, req dto.CreateWastageRequest) (*domain.WastageRecord, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}
	if !req.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must be positive", apperrors.ErrValidation)
	}
	if req.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: unit cost must not be negative", apperrors.ErrValidation)
	}
	lossDate, err := parseDate("lossDate", req.LossDate)
	if err != nil {
		return nil, err
	}

	record := domain.WastageRecord{
		WastageID:      uuid.NewString(),
		OrganizationID: organizationID,
		ProductID:      req.ProductID,
		ProductName:    req.ProductName,
		Quantity:       req.Quantity,
		UnitCost:       req.UnitCost,
		Reason:         req.Reason,
		LossDate:       lossDate,
		CreatedAt:      time.Now(),
		CreatedBy:      userID,
	}

	if err := s.wastageRepo.SaveWastage(ctx, record); err != nil {
		s.LogError(ctx, err, "Failed to save wastage record", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to record wastage: %w", err)
	}
	return &record, nil
}

// ListWastage returns loss records in [from, to], newest first.
func (s *WastageService) ListWastage(ctx context.Context, userID, organizationID, from, to string) ([]domain.WastageRecord, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	fromT, toT, err := parseDateRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.wastageRepo.ListWastage(ctx, organizationID, fromT, toT)
}

// DeleteWastage removes a loss record.
func (s *WastageService) DeleteWastage(ctx context.Context, userID, organizationID, wastageID string) error {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return err
	}
	return s.wastageRepo.DeleteWastage(ctx, organizationID, wastageID)
}
