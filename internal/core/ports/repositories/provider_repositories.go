package repositories

import (
	"context"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
)

// ProviderReader defines read operations for provider contacts.
type ProviderReader interface {
	FindProviderByID(ctx context.Context, organizationID, providerID string) (*domain.Provider, error)

	// ListProviders returns the organization's providers; inactive
	// (soft-deleted) ones only when includeInactive is set.
	ListProviders(ctx context.Context, organizationID string, includeInactive bool) ([]domain.Provider, error)
}

// ProviderWriter defines write operations for provider contacts. Deletion is
// a soft delete: the row stays, IsActive flips to false.
type ProviderWriter interface {
	SaveProvider(ctx context.Context, provider domain.Provider) error
	UpdateProvider(ctx context.Context, provider domain.Provider) error
	DeactivateProvider(ctx context.Context, organizationID, providerID, updatedBy string) error
}

// ProviderRepositoryFacade combines all provider repository interfaces.
type ProviderRepositoryFacade interface {
	ProviderReader
	ProviderWriter
}
