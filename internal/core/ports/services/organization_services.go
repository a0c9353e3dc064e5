package services

import (
	"context"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
	"github.com/commerceos/commerceos_backend/internal/dto"
)

// OrganizationAuthorizerSvc is the narrow authorization interface other
// services embed to verify membership before touching tenant data.
type OrganizationAuthorizerSvc interface {
	// AuthorizeUserAction checks that userID holds requiredRole (or higher) in
	// the organization; returns apperrors.ErrForbidden otherwise.
	AuthorizeUserAction(ctx context.Context, userID, organizationID string, requiredRole domain.UserOrganizationRole) error
}

// OrganizationSvcFacade is the full organization service interface.
type OrganizationSvcFacade interface {
	OrganizationAuthorizerSvc

	CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, creatorUserID string) (*domain.Organization, error)
	FindOrganizationByID(ctx context.Context, userID, organizationID string) (*domain.Organization, error)
	ListUserOrganizations(ctx context.Context, userID string) ([]domain.Organization, error)
	UpdateOrganization(ctx context.Context, userID, organizationID string, req dto.UpdateOrganizationRequest) (*domain.Organization, error)
	AddUserToOrganization(ctx context.Context, addingUserID, targetUserID, organizationID string, role domain.UserOrganizationRole) error

	// ResolveActiveOrganization resolves the caller's tenant: the pinned
	// preference when it points at a live membership, else the first
	// membership, else apperrors.ErrNoOrganization.
	ResolveActiveOrganization(ctx context.Context, userID string) (*domain.Organization, error)

	// SwitchActiveOrganization persists the pinned tenant preference.
	SwitchActiveOrganization(ctx context.Context, userID, organizationID string) error

	// UploadLogo stores the organization's logo in blob storage under a
	// randomized name and persists the public URL.
	UploadLogo(ctx context.Context, userID, organizationID string, req dto.UploadLogoRequest) (string, error)
}
