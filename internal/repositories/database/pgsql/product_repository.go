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

type PgxProductRepository struct {
	pgxPriceHistoryRepository
}

// newPgxProductRepository creates a new repository for the product catalog.
func newPgxProductRepository(pool *pgxpool.Pool) portsrepo.ProductRepositoryFacade {
	return &PgxProductRepository{
		pgxPriceHistoryRepository: newPgxPriceHistoryRepository(pool),
	}
}

var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

var FULL_PRODUCT_SELECT_QUERY = `
SELECT
	p.product_id, p.organization_id, p.name, p.category, p.cost, p.margin_pct,
	p.suggested_price, p.final_price, p.stock, p.min_stock, p.last_cost, p.last_price,
	p.created_at, p.created_by, p.last_updated_at, p.last_updated_by
FROM products p
`

func (r *PgxProductRepository) getProducts(ctx context.Context, filterQuery string, args ...any) ([]domain.Product, error) {
	query := FULL_PRODUCT_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query products", err)
	}
	defer rows.Close()
	products, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Product])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Product{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect product rows", err)
	}
	return products, nil
}

func (r *PgxProductRepository) FindProductByID(ctx context.Context, organizationID, productID string) (*domain.Product, error) {
	products, err := r.getProducts(ctx, `WHERE p.organization_id = $1 AND p.product_id = $2`, organizationID, productID)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &products[0], nil
}

// ListProducts keyset-paginates newest first on (created_at, product_id).
func (r *PgxProductRepository) ListProducts(ctx context.Context, organizationID string, limit int, cursorCreatedAt *time.Time, cursorID string) ([]domain.Product, error) {
	if cursorCreatedAt == nil {
		filter := `
			WHERE p.organization_id = $1
			ORDER BY p.created_at DESC, p.product_id DESC
			LIMIT $2;
		`
		return r.getProducts(ctx, filter, organizationID, limit)
	}
	filter := `
		WHERE p.organization_id = $1 AND (p.created_at, p.product_id) < ($2, $3)
		ORDER BY p.created_at DESC, p.product_id DESC
		LIMIT $4;
	`
	return r.getProducts(ctx, filter, organizationID, *cursorCreatedAt, cursorID, limit)
}

func (r *PgxProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	query := `
		INSERT INTO products (
			product_id, organization_id, name, category, cost, margin_pct,
			suggested_price, final_price, stock, min_stock, last_cost, last_price,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.Pool.Exec(ctx, query,
		product.ProductID,
		product.OrganizationID,
		product.Name,
		product.Category,
		product.Cost,
		product.MarginPct,
		product.SuggestedPrice,
		product.FinalPrice,
		product.Stock,
		product.MinStock,
		product.LastCost,
		product.LastPrice,
		product.CreatedAt,
		product.CreatedBy,
		product.LastUpdatedAt,
		product.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewConflictError("product ID " + product.ProductID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save product "+product.ProductID, err)
	}
	return nil
}

func (r *PgxProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	query := `
		UPDATE products
		SET name = $1, category = $2, cost = $3, margin_pct = $4,
			suggested_price = $5, final_price = $6, stock = $7, min_stock = $8,
			last_cost = $9, last_price = $10, last_updated_at = $11, last_updated_by = $12
		WHERE organization_id = $13 AND product_id = $14;
	`
	result, err := r.Pool.Exec(ctx, query,
		product.Name,
		product.Category,
		product.Cost,
		product.MarginPct,
		product.SuggestedPrice,
		product.FinalPrice,
		product.Stock,
		product.MinStock,
		product.LastCost,
		product.LastPrice,
		product.LastUpdatedAt,
		product.LastUpdatedBy,
		product.OrganizationID,
		product.ProductID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update product "+product.ProductID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("product " + product.ProductID + " not found")
	}
	return nil
}

func (r *PgxProductRepository) DeleteProduct(ctx context.Context, organizationID, productID string) error {
	result, err := r.Pool.Exec(ctx, `DELETE FROM products WHERE organization_id = $1 AND product_id = $2;`, organizationID, productID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete product "+productID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("product " + productID + " not found")
	}
	return nil
}
