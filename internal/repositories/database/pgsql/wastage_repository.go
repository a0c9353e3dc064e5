package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/commerceos/commerceos_backend/internal/apperrors"
	"github.com/commerceos/commerceos_backend/internal/core/domain"
	portsrepo "github.com/commerceos/commerceos_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxWastageRepository struct {
	BaseRepository
}

// newPgxWastageRepository creates a new repository for the loss log.
func newPgxWastageRepository(pool *pgxpool.Pool) portsrepo.WastageRepositoryFacade {
	return &PgxWastageRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.WastageRepositoryFacade = (*PgxWastageRepository)(nil)

func (r *PgxWastageRepository) ListWastage(ctx context.Context, organizationID string, from, to time.Time) ([]domain.WastageRecord, error) {
	query := `
		SELECT wastage_id, organization_id, product_id, product_name, quantity,
			unit_cost, reason, loss_date, created_at, created_by
		FROM wastage_records
		WHERE organization_id = $1 AND loss_date >= $2 AND loss_date <= $3
		ORDER BY loss_date DESC, wastage_id DESC;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID, from, to)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query wastage records", err)
	}
	defer rows.Close()
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.WastageRecord])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.WastageRecord{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect wastage rows", err)
	}
	return records, nil
}

func (r *PgxWastageRepository) SaveWastage(ctx context.Context, record domain.WastageRecord) error {
	query := `
		INSERT INTO wastage_records (
			wastage_id, organization_id, product_id, product_name, quantity,
			unit_cost, reason, loss_date, created_at, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		record.WastageID,
		record.OrganizationID,
		record.ProductID,
		record.ProductName,
		record.Quantity,
		record.UnitCost,
		record.Reason,
		record.LossDate,
		record.CreatedAt,
		record.CreatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return apperrors.NewConflictError("wastage ID " + record.WastageID + " already exists")
			case "23503":
				return apperrors.NewValidationFailedError("product does not exist")
			}
		}
		return apperrors.NewAppError(500, "failed to save wastage record "+record.WastageID, err)
	}
	return nil
}

func (r *PgxWastageRepository) DeleteWastage(ctx context.Context, organizationID, wastageID string) error {
	result, err := r.Pool.Exec(ctx, `DELETE FROM wastage_records WHERE organization_id = $1 AND wastage_id = $2;`, organizationID, wastageID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete wastage record "+wastageID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("wastage record " + wastageID + " not found")
	}
	return nil
}
