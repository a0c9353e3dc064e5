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

type PgxSupplyRepository struct {
	pgxPriceHistoryRepository
}

// newPgxSupplyRepository creates a new repository for the supply catalog.
func newPgxSupplyRepository(pool *pgxpool.Pool) portsrepo.SupplyRepositoryFacade {
	return &PgxSupplyRepository{
		pgxPriceHistoryRepository: newPgxPriceHistoryRepository(pool),
	}
}

var _ portsrepo.SupplyRepositoryFacade = (*PgxSupplyRepository)(nil)

var FULL_SUPPLY_SELECT_QUERY = `
SELECT
	s.supply_id, s.organization_id, s.name, s.cost, s.stock, s.min_stock, s.last_cost,
	s.created_at, s.created_by, s.last_updated_at, s.last_updated_by
FROM supplies s
`

func (r *PgxSupplyRepository) getSupplies(ctx context.Context, filterQuery string, args ...any) ([]domain.Supply, error) {
	query := FULL_SUPPLY_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query supplies", err)
	}
	defer rows.Close()
	supplies, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Supply])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Supply{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect supply rows", err)
	}
	return supplies, nil
}

func (r *PgxSupplyRepository) FindSupplyByID(ctx context.Context, organizationID, supplyID string) (*domain.Supply, error) {
	supplies, err := r.getSupplies(ctx, `WHERE s.organization_id = $1 AND s.supply_id = $2`, organizationID, supplyID)
	if err != nil {
		return nil, err
	}
	if len(supplies) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &supplies[0], nil
}

func (r *PgxSupplyRepository) ListSupplies(ctx context.Context, organizationID string) ([]domain.Supply, error) {
	return r.getSupplies(ctx, `WHERE s.organization_id = $1 ORDER BY s.name;`, organizationID)
}

func (r *PgxSupplyRepository) SaveSupply(ctx context.Context, supply domain.Supply) error {
	query := `
		INSERT INTO supplies (
			supply_id, organization_id, name, cost, stock, min_stock, last_cost,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		supply.SupplyID,
		supply.OrganizationID,
		supply.Name,
		supply.Cost,
		supply.Stock,
		supply.MinStock,
		supply.LastCost,
		supply.CreatedAt,
		supply.CreatedBy,
		supply.LastUpdatedAt,
		supply.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewConflictError("supply ID " + supply.SupplyID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save supply "+supply.SupplyID, err)
	}
	return nil
}

func (r *PgxSupplyRepository) UpdateSupply(ctx context.Context, supply domain.Supply) error {
	query := `
		UPDATE supplies
		SET name = $1, cost = $2, stock = $3, min_stock = $4, last_cost = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE organization_id = $8 AND supply_id = $9;
	`
	result, err := r.Pool.Exec(ctx, query,
		supply.Name,
		supply.Cost,
		supply.Stock,
		supply.MinStock,
		supply.LastCost,
		supply.LastUpdatedAt,
		supply.LastUpdatedBy,
		supply.OrganizationID,
		supply.SupplyID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update supply "+supply.SupplyID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("supply " + supply.SupplyID + " not found")
	}
	return nil
}

func (r *PgxSupplyRepository) DeleteSupply(ctx context.Context, organizationID, supplyID string) error {
	result, err := r.Pool.Exec(ctx, `DELETE FROM supplies WHERE organization_id = $1 AND supply_id = $2;`, organizationID, supplyID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete supply "+supplyID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("supply " + supplyID + " not found")
	}
	return nil
}
