package repositories

import (
	"context"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
)

// OrganizationReader defines read operations for organization data.
type OrganizationReader interface {
	// FindOrganizationByID retrieves a specific organization by its ID.
	FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error)

	// ListOrganizationsByUserID retrieves all active organizations a user
	// belongs to, ordered by membership join time then ID (the fallback order
	// for tenant resolution).
	ListOrganizationsByUserID(ctx context.Context, userID string) ([]domain.Organization, error)
}

// OrganizationWriter defines write operations for organization data.
type OrganizationWriter interface {
	// SaveOrganizationBundle persists a new organization, its creator's ADMIN
	// membership and the baseline cash session in one transaction.
	SaveOrganizationBundle(ctx context.Context, org domain.Organization, membership domain.UserOrganization, session domain.CashSession) error

	// UpdateOrganization persists name/settings/logo changes.
	UpdateOrganization(ctx context.Context, org domain.Organization) error
}

// OrganizationMembershipManager defines operations for managing memberships.
type OrganizationMembershipManager interface {
	// AddUserToOrganization adds a user to an organization with a specific role.
	AddUserToOrganization(ctx context.Context, membership domain.UserOrganization) error

	// FindUserOrganizationRole retrieves the role of a user in an organization.
	FindUserOrganizationRole(ctx context.Context, userID, organizationID string) (*domain.UserOrganization, error)
}

// OrganizationRepositoryFacade combines all organization repository interfaces.
type OrganizationRepositoryFacade interface {
	OrganizationReader
	OrganizationWriter
	OrganizationMembershipManager
}
