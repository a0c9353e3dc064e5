package pgsql

import (
	"context"
	"errors"

	"github.com/commerceos/commerceos_backend/internal/apperrors"
	"github.com/commerceos/commerceos_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxPriceHistoryRepository is the shared append-only price change log,
// embedded by the product and supply repositories.
type pgxPriceHistoryRepository struct {
	BaseRepository
}

func newPgxPriceHistoryRepository(pool *pgxpool.Pool) pgxPriceHistoryRepository {
	return pgxPriceHistoryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

func (r *pgxPriceHistoryRepository) SaveHistoricalPrice(ctx context.Context, row domain.HistoricalPrice) error {
	query := `
		INSERT INTO historical_prices (
			history_id, organization_id, item_id, item_kind,
			old_cost, new_cost, old_price, new_price, recorded_at, recorded_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		row.HistoryID,
		row.OrganizationID,
		row.ItemID,
		row.ItemKind,
		row.OldCost,
		row.NewCost,
		row.OldPrice,
		row.NewPrice,
		row.RecordedAt,
		row.RecordedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save price history "+row.HistoryID, err)
	}
	return nil
}

func (r *pgxPriceHistoryRepository) ListHistoricalPrices(ctx context.Context, organizationID, itemID string) ([]domain.HistoricalPrice, error) {
	query := `
		SELECT history_id, organization_id, item_id, item_kind,
			old_cost, new_cost, old_price, new_price, recorded_at, recorded_by
		FROM historical_prices
		WHERE organization_id = $1 AND item_id = $2
		ORDER BY recorded_at DESC, history_id DESC;
	`
	rows, err := r.Pool.Query(ctx, query, organizationID, itemID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query price history", err)
	}
	defer rows.Close()
	history, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.HistoricalPrice])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.HistoricalPrice{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect price history rows", err)
	}
	return history, nil
}
