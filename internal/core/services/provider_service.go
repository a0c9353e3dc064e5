package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
	portsrepo "github.com/commerceos/commerceos_backend/internal/core/ports/repositories"
	portssvc "github.com/commerceos/commerceos_backend/internal/core/ports/services"
	"github.com/commerceos/commerceos_backend/internal/dto"
	"github.com/google/uuid"
)

// ProviderService handles business logic for provider contacts.
type ProviderService struct {
	BaseService
	providerRepo portsrepo.ProviderRepositoryFacade
}

// NewProviderService creates a new ProviderService.
func NewProviderService(authorizer portssvc.OrganizationAuthorizerSvc, pr portsrepo.ProviderRepositoryFacade) portssvc.ProviderSvcFacade {
	return &ProviderService{
		BaseService:  BaseService{OrganizationAuthorizer: authorizer},
		providerRepo: pr,
	}
}

var _ portssvc.ProviderSvcFacade = (*ProviderService)(nil)

// CreateProvider creates a provider contact.
func (s *ProviderService) CreateProvider(ctx context.Context, userID, organizationID string, req dto.CreateProviderRequest) (*domain.Provider, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	now := time.Now()
	provider := domain.Provider{
		ProviderID:     uuid.NewString(),
		OrganizationID: organizationID,
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		Notes:          req.Notes,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.providerRepo.SaveProvider(ctx, provider); err != nil {
		s.LogError(ctx, err, "Failed to save provider", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}
	return &provider, nil
}

// GetProvider retrieves a provider by ID, active or not.
func (s *ProviderService) GetProvider(ctx context.Context, userID, organizationID, providerID string) (*domain.Provider, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.providerRepo.FindProviderByID(ctx, organizationID, providerID)
}

// ListProviders returns the organization's providers; soft-deleted ones only
// when includeInactive is set.
func (s *ProviderService) ListProviders(ctx context.Context, userID, organizationID string, includeInactive bool) ([]domain.Provider, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.providerRepo.ListProviders(ctx, organizationID, includeInactive)
}

// UpdateProvider applies contact changes.
func (s *ProviderService) UpdateProvider(ctx context.Context, userID, organizationID, providerID string, req dto.UpdateProviderRequest) (*domain.Provider, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	provider, err := s.providerRepo.FindProviderByID(ctx, organizationID, providerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		provider.Name = *req.Name
	}
	if req.Phone != nil {
		provider.Phone = *req.Phone
	}
	if req.Email != nil {
		provider.Email = *req.Email
	}
	if req.Notes != nil {
		provider.Notes = *req.Notes
	}
	provider.LastUpdatedAt = time.Now()
	provider.LastUpdatedBy = userID

	if err := s.providerRepo.UpdateProvider(ctx, *provider); err != nil {
		s.LogError(ctx, err, "Failed to update provider", slog.String("provider_id", providerID))
		return nil, fmt.Errorf("failed to update provider: %w", err)
	}
	return provider, nil
}

// DeleteProvider soft-deletes the provider. Historical expenses and
// commitments keep their references and resolved names.
func (s *ProviderService) DeleteProvider(ctx context.Context, userID, organizationID, providerID string) error {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return err
	}
	if err := s.providerRepo.DeactivateProvider(ctx, organizationID, providerID, userID); err != nil {
		s.LogError(ctx, err, "Failed to deactivate provider", slog.String("provider_id", providerID))
		return err
	}
	s.LogInfo(ctx, "Provider deactivated", slog.String("provider_id", providerID))
	return nil
}
