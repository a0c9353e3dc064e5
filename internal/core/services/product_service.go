package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/commerceos/commerceos_backend/internal/apperrors"
	"github.com/commerceos/commerceos_backend/internal/core/domain"
	portsrepo "github.com/commerceos/commerceos_backend/internal/core/ports/repositories"
	portssvc "github.com/commerceos/commerceos_backend/internal/core/ports/services"
	"github.com/commerceos/commerceos_backend/internal/dto"
	"github.com/commerceos/commerceos_backend/internal/utils/accounting"
	"github.com/commerceos/commerceos_backend/internal/utils/pagination"
	"github.com/google/uuid"
)

const defaultProductPageSize = 50

// ProductService handles business logic for the product catalog and its
// price history.
type ProductService struct {
	BaseService
	productRepo portsrepo.ProductRepositoryFacade
}

// NewProductService creates a new ProductService.
func NewProductService(authorizer portssvc.OrganizationAuthorizerSvc, pr portsrepo.ProductRepositoryFacade) portssvc.ProductSvcFacade {
	return &ProductService{
		BaseService: BaseService{OrganizationAuthorizer: authorizer},
		productRepo: pr,
	}
}

var _ portssvc.ProductSvcFacade = (*ProductService)(nil)

// CreateProduct creates a catalog product. The suggested price is derived from
// cost and margin; the final price defaults to the suggestion when omitted.
func (s *ProductService) CreateProduct(ctx context.Context, userID, organizationID string, req dto.CreateProductRequest) (*domain.Product, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}
	if req.Cost.IsNegative() {
		return nil, fmt.Errorf("%w: cost must not be negative", apperrors.ErrValidation)
	}

	now := time.Now()
	suggested := accounting.SuggestedPrice(req.Cost, req.MarginPct)
	finalPrice := req.FinalPrice
	if finalPrice.IsZero() {
		finalPrice = suggested
	}

	product := domain.Product{
		ProductID:      uuid.NewString(),
		OrganizationID: organizationID,
		Name:           req.Name,
		Category:       req.Category,
		Cost:           req.Cost,
		MarginPct:      req.MarginPct,
		SuggestedPrice: suggested,
		FinalPrice:     finalPrice,
		Stock:          req.Stock,
		MinStock:       req.MinStock,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.productRepo.SaveProduct(ctx, product); err != nil {
		s.LogError(ctx, err, "Failed to save product", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

// GetProduct retrieves a product by ID.
func (s *ProductService) GetProduct(ctx context.Context, userID, organizationID, productID string) (*domain.Product, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.productRepo.FindProductByID(ctx, organizationID, productID)
}

// ListProducts returns a page of products, newest first, plus the token for
// the next page.
func (s *ProductService) ListProducts(ctx context.Context, userID, organizationID string, limit int, pageToken string) ([]domain.Product, string, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, "", err
	}
	if limit <= 0 {
		limit = defaultProductPageSize
	}

	var cursorCreatedAt *time.Time
	var cursorID string
	if pageToken != "" {
		createdAt, id, err := pagination.DecodeCursor(pageToken)
		if err != nil {
			return nil, "", fmt.Errorf("%w: invalid page token", apperrors.ErrValidation)
		}
		cursorCreatedAt = &createdAt
		cursorID = id
	}

	// Fetch one extra row to know whether another page exists.
	products, err := s.productRepo.ListProducts(ctx, organizationID, limit+1, cursorCreatedAt, cursorID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list products: %w", err)
	}

	nextToken := ""
	if len(products) > limit {
		products = products[:limit]
		last := products[limit-1]
		nextToken = pagination.EncodeCursor(last.CreatedAt, last.ProductID)
	}
	return products, nextToken, nil
}

// UpdateProduct applies the patch. A cost or final price move beyond the
// materiality threshold archives the previous values into the price history
// log and rolls them into LastCost/LastPrice before the update lands.
func (s *ProductService) UpdateProduct(ctx context.Context, userID, organizationID, productID string, req dto.UpdateProductRequest) (*domain.Product, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindProductByID(ctx, organizationID, productID)
	if err != nil {
		return nil, err
	}

	oldCost := product.Cost
	oldPrice := product.FinalPrice

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Cost != nil {
		if req.Cost.IsNegative() {
			return nil, fmt.Errorf("%w: cost must not be negative", apperrors.ErrValidation)
		}
		product.Cost = *req.Cost
	}
	if req.MarginPct != nil {
		product.MarginPct = *req.MarginPct
	}
	if req.FinalPrice != nil {
		product.FinalPrice = *req.FinalPrice
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.MinStock != nil {
		product.MinStock = *req.MinStock
	}
	product.SuggestedPrice = accounting.SuggestedPrice(product.Cost, product.MarginPct)

	now := time.Now()
	costChanged := accounting.IsMaterialPriceChange(oldCost, product.Cost)
	priceChanged := accounting.IsMaterialPriceChange(oldPrice, product.FinalPrice)
	if costChanged || priceChanged {
		history := domain.HistoricalPrice{
			HistoryID:      uuid.NewString(),
			OrganizationID: organizationID,
			ItemID:         product.ProductID,
			ItemKind:       domain.PriceItemProduct,
			OldCost:        oldCost,
			NewCost:        product.Cost,
			OldPrice:       &oldPrice,
			NewPrice:       &product.FinalPrice,
			RecordedAt:     now,
			RecordedBy:     userID,
		}
		if err := s.productRepo.SaveHistoricalPrice(ctx, history); err != nil {
			s.LogError(ctx, err, "Failed to archive price history", slog.String("product_id", productID))
			return nil, fmt.Errorf("failed to archive price history: %w", err)
		}
		if costChanged {
			product.LastCost = &oldCost
		}
		if priceChanged {
			product.LastPrice = &oldPrice
		}
	}

	product.LastUpdatedAt = now
	product.LastUpdatedBy = userID
	if err := s.productRepo.UpdateProduct(ctx, *product); err != nil {
		s.LogError(ctx, err, "Failed to update product", slog.String("product_id", productID))
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeleteProduct removes a product from the catalog.
func (s *ProductService) DeleteProduct(ctx context.Context, userID, organizationID, productID string) error {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleMember); err != nil {
		return err
	}
	return s.productRepo.DeleteProduct(ctx, organizationID, productID)
}

// ListPriceHistory returns the product's archived price changes, newest first.
func (s *ProductService) ListPriceHistory(ctx context.Context, userID, organizationID, productID string) ([]domain.HistoricalPrice, error) {
	if err := s.AuthorizeUser(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.productRepo.ListHistoricalPrices(ctx, organizationID, productID)
}
