package repositories

import (
	"context"
	"time"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
)

// ProductReader defines read operations for the product catalog.
type ProductReader interface {
	FindProductByID(ctx context.Context, organizationID, productID string) (*domain.Product, error)

	// ListProducts returns up to limit products created at or before the
	// cursor position, newest first, plus the next cursor row if more exist.
	ListProducts(ctx context.Context, organizationID string, limit int, cursorCreatedAt *time.Time, cursorID string) ([]domain.Product, error)
}

// ProductWriter defines write operations for the product catalog.
type ProductWriter interface {
	SaveProduct(ctx context.Context, product domain.Product) error
	UpdateProduct(ctx context.Context, product domain.Product) error
	DeleteProduct(ctx context.Context, organizationID, productID string) error
}

// SupplyReader defines read operations for the supply catalog.
type SupplyReader interface {
	FindSupplyByID(ctx context.Context, organizationID, supplyID string) (*domain.Supply, error)
	ListSupplies(ctx context.Context, organizationID string) ([]domain.Supply, error)
}

// SupplyWriter defines write operations for the supply catalog.
type SupplyWriter interface {
	SaveSupply(ctx context.Context, supply domain.Supply) error
	UpdateSupply(ctx context.Context, supply domain.Supply) error
	DeleteSupply(ctx context.Context, organizationID, supplyID string) error
}

// PriceHistoryRepository defines the append-only price change log.
type PriceHistoryRepository interface {
	SaveHistoricalPrice(ctx context.Context, row domain.HistoricalPrice) error
	ListHistoricalPrices(ctx context.Context, organizationID, itemID string) ([]domain.HistoricalPrice, error)
}

// ProductRepositoryFacade combines product and price history interfaces.
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
	PriceHistoryRepository
}

// SupplyRepositoryFacade combines supply and price history interfaces.
type SupplyRepositoryFacade interface {
	SupplyReader
	SupplyWriter
	PriceHistoryRepository
}
