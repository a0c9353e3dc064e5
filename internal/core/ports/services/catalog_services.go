package services

import (
	"context"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
	"github.com/commerceos/commerceos_backend/internal/dto"
)

// ProductSvcFacade is the product catalog service interface.
type ProductSvcFacade interface {
	CreateProduct(ctx context.Context, userID, organizationID string, req dto.CreateProductRequest) (*domain.Product, error)
	GetProduct(ctx context.Context, userID, organizationID, productID string) (*domain.Product, error)

	// ListProducts returns a page of products plus the cursor for the next
	// page (empty when exhausted).
	ListProducts(ctx context.Context, userID, organizationID string, limit int, pageToken string) ([]domain.Product, string, error)

	// UpdateProduct applies the patch; a cost or final price change beyond the
	// materiality threshold archives the previous values as a HistoricalPrice
	// row before the update lands.
	UpdateProduct(ctx context.Context, userID, organizationID, productID string, req dto.UpdateProductRequest) (*domain.Product, error)

	DeleteProduct(ctx context.Context, userID, organizationID, productID string) error
	ListPriceHistory(ctx context.Context, userID, organizationID, productID string) ([]domain.HistoricalPrice, error)
}

// SupplySvcFacade is the supply catalog service interface.
type SupplySvcFacade interface {
	CreateSupply(ctx context.Context, userID, organizationID string, req dto.CreateSupplyRequest) (*domain.Supply, error)
	GetSupply(ctx context.Context, userID, organizationID, supplyID string) (*domain.Supply, error)
	ListSupplies(ctx context.Context, userID, organizationID string) ([]domain.Supply, error)
	UpdateSupply(ctx context.Context, userID, organizationID, supplyID string, req dto.UpdateSupplyRequest) (*domain.Supply, error)
	DeleteSupply(ctx context.Context, userID, organizationID, supplyID string) error
	ListPriceHistory(ctx context.Context, userID, organizationID, supplyID string) ([]domain.HistoricalPrice, error)
}
