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
	"github.com/commerceos/commerceos_backend/internal/utils/accounting"
	"github.com/google/uuid"
)

// SupplyService handles business logic for the supply catalog. Supplies track
// cost only, so their price history archives cost moves without sale prices.
type SupplyService struct {
	BaseService
	supplyRepo portsrepo.SupplyRepositoryFacade
}

// NewSupplyService creates a new SupplyService.
func NewSupplyService(authorizer portssvc.OrganizationAuthorizerSvc, sr portsrepo.SupplyRepositoryFacade) portssvc.SupplySvcFacade {
	return &SupplyService{
		BaseService: BaseService{OrganizationAuthorizer: authorizer},
		supplyRepo:  sr,
	}
}

var _ portssvc.SupplySvcFacade = (*SupplyService)(nil)

// CreateSupply creates a supply item.
func (s *SupplyService) CreateSupply(ctx context.Context, userID, organizationID string, req dto.CreateSupplyRequest) (*domain.Supply, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}
	if req.Cost.IsNegative() {
		return nil, fmt.Errorf("%w: cost must not be negative", apperrors.ErrValidation)
	}

	now := time.Now()
	supply := domain.Supply{
		SupplyID:       uuid.NewString(),
		OrganizationID: organizationID,
		Name:           req.Name,
		Cost:           req.Cost,
		Stock:          req.Stock,
		MinStock:       req.MinStock,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.supplyRepo.SaveSupply(ctx, supply); err != nil {
		s.LogError(ctx, err, "Failed to save supply", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to create supply: %w", err)
	}
	return &supply, nil
}

// GetSupply retrieves a supply item by ID.
func (s *SupplyService) GetSupply(ctx context.Context, userID, organizationID, supplyID string) (*domain.Supply, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.supplyRepo.FindSupplyByID(ctx, organizationID, supplyID)
}

// ListSupplies returns all supply items for the organization.
func (s *SupplyService) ListSupplies(ctx context.Context, userID, organizationID string) ([]domain.Supply, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.supplyRepo.ListSupplies(ctx, organizationID)
}

// UpdateSupply applies the patch; a material cost move is archived into the
// price history log first.
func (s *SupplyService) UpdateSupply(ctx context.Context, userID, organizationID, supplyID string, req dto.UpdateSupplyRequest) (*domain.Supply, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	supply, err := s.supplyRepo.FindSupplyByID(ctx, organizationID, supplyID)
	if err != nil {
		return nil, err
	}

	oldCost := supply.Cost
	if req.Name != nil {
		supply.Name = *req.Name
	}
	if req.Cost != nil {
		if req.Cost.IsNegative() {
			return nil, fmt.Errorf("%w: cost must not be negative", apperrors.ErrValidation)
		}
		supply.Cost = *req.Cost
	}
	if req.Stock != nil {
		supply.Stock = *req.Stock
	}
	if req.MinStock != nil {
		supply.MinStock = *req.MinStock
	}

	now := time.Now()
	if accounting.IsMaterialPriceChange(oldCost, supply.Cost) {
		history := domain.HistoricalPrice{
			HistoryID:      uuid.NewString(),
			OrganizationID: organizationID,
			ItemID:         supply.SupplyID,
			ItemKind:       domain.PriceItemSupply,
			OldCost:        oldCost,
			NewCost:        supply.Cost,
			RecordedAt:     now,
			RecordedBy:     userID,
		}
		if err := s.supplyRepo.SaveHistoricalPrice(ctx, history); err != nil {
			s.LogError(ctx, err, "Failed to archive supply price history", slog.String("supply_id", supplyID))
			return nil, fmt.Errorf("failed to archive price history: %w", err)
		}
		supply.LastCost = &oldCost
	}

	supply.LastUpdatedAt = now
	supply.LastUpdatedBy = userID
	if err := s.supplyRepo.UpdateSupply(ctx, *supply); err != nil {
		s.LogError(ctx, err, "Failed to update supply", slog.String("supply_id", supplyID))
		return nil, fmt.Errorf("failed to update supply: %w", err)
	}
	return supply, nil
}

// DeleteSupply removes a supply item.
func (s *SupplyService) DeleteSupply(ctx context.Context, userID, organizationID, supplyID string) error {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return err
	}
	return s.supplyRepo.DeleteSupply(ctx, organizationID, supplyID)
}

// ListPriceHistory returns the supply's archived cost changes, newest first.
func (s *SupplyService) ListPriceHistory(ctx context.Context, userID, organizationID, supplyID string) ([]domain.HistoricalPrice, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.supplyRepo.ListHistoricalPrices(ctx, organizationID, supplyID)
}
