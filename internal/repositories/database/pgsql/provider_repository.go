package pgsql

import (
	"context"
	"errors"

	"github.com/commerceos/commerceos_backend/internal/apperrors"
	"github.com/commerceos/commerceos_backend/internal/core/domain"
	portsrepo "github.com/commerceos/commerceos_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxProviderRepository struct {
	BaseRepository
}

// newPgxProviderRepository creates a new repository for provider contacts.
func newPgxProviderRepository(pool *pgxpool.Pool) portsrepo.ProviderRepositoryFacade {
	return &PgxProviderRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ProviderRepositoryFacade = (*PgxProviderRepository)(nil)

var FULL_PROVIDER_SELECT_QUERY = `
SELECT
	p.provider_id, p.organization_id, p.name, p.phone, p.email, p.notes, p.is_active,
	p.created_at, p.created_by, p.last_updated_at, p.last_updated_by
FROM providers p
`

func (r *PgxProviderRepository) getProviders(ctx context.Context, filterQuery string, args ...any) ([]domain.Provider, error) {
	query := FULL_PROVIDER_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query providers", err)
	}
	defer rows.Close()
	providers, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Provider])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Provider{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect provider rows", err)
	}
	return providers, nil
}

func (r *PgxProviderRepository) FindProviderByID(ctx context.Context, organizationID, providerID string) (*domain.Provider, error) {
	providers, err := r.getProviders(ctx, `WHERE p.organization_id = $1 AND p.provider_id = $2`, organizationID, providerID)
	if err != nil {
		return nil, err
	}
	if len(providers) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &providers[0], nil
}

func (r *PgxProviderRepository) ListProviders(ctx context.Context, organizationID string, includeInactive bool) ([]domain.Provider, error) {
	if includeInactive {
		return r.getProviders(ctx, `WHERE p.organization_id = $1 ORDER BY p.name;`, organizationID)
	}
	return r.getProviders(ctx, `WHERE p.organization_id = $1 AND p.is_active = true ORDER BY p.name;`, organizationID)
}

func (r *PgxProviderRepository) SaveProvider(ctx context.Context, provider domain.Provider) error {
	query := `
		INSERT INTO providers (
			provider_id, organization_id, name, phone, email, notes, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		provider.ProviderID,
		provider.OrganizationID,
		provider.Name,
		provider.Phone,
		provider.Email,
		provider.Notes,
		provider.IsActive,
		provider.CreatedAt,
		provider.CreatedBy,
		provider.LastUpdatedAt,
		provider.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewConflictError("provider ID " + provider.ProviderID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save provider "+provider.ProviderID, err)
	}
	return nil
}

func (r *PgxProviderRepository) UpdateProvider(ctx context.Context, provider domain.Provider) error {
	query := `
		UPDATE providers
		SET name = $1, phone = $2, email = $3, notes = $4,
			last_updated_at = $5, last_updated_by = $6
		WHERE organization_id = $7 AND provider_id = $8;
	`
	result, err := r.Pool.Exec(ctx, query,
		provider.Name,
		provider.Phone,
		provider.Email,
		provider.Notes,
		provider.LastUpdatedAt,
		provider.LastUpdatedBy,
		provider.OrganizationID,
		provider.ProviderID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update provider "+provider.ProviderID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("provider " + provider.ProviderID + " not found")
	}
	return nil
}

// DeactivateProvider soft-deletes: the row stays for historical references.
func (r *PgxProviderRepository) DeactivateProvider(ctx context.Context, organizationID, providerID, updatedBy string) error {
	query := `
		UPDATE providers
		SET is_active = false, last_updated_at = NOW(), last_updated_by = $1
		WHERE organization_id = $2 AND provider_id = $3;
	`
	result, err := r.Pool.Exec(ctx, query, updatedBy, organizationID, providerID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate provider "+providerID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("provider " + providerID + " not found")
	}
	return nil
}
