package dto

import (
	"time"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProductRequest defines data for creating a catalog product.
type CreateProductRequest struct {
	Name       string          `json:"name" binding:"required,notblank"`
	Category   string          `json:"category"`
	Cost       decimal.Decimal `json:"cost" binding:"required"`
	MarginPct  decimal.Decimal `json:"marginPct"`
	FinalPrice decimal.Decimal `json:"finalPrice"`
	Stock      decimal.Decimal `json:"stock"`
	MinStock   decimal.Decimal `json:"minStock"`
}

// UpdateProductRequest defines the mutable product fields; nil fields are left
// untouched.
type UpdateProductRequest struct {
	Name       *string          `json:"name"`
	Category   *string          `json:"category"`
	Cost       *decimal.Decimal `json:"cost"`
	MarginPct  *decimal.Decimal `json:"marginPct"`
	FinalPrice *decimal.Decimal `json:"finalPrice"`
	Stock      *decimal.Decimal `json:"stock"`
	MinStock   *decimal.Decimal `json:"minStock"`
}

// ProductResponse defines data returned for a product.
type ProductResponse struct {
	ProductID      string           `json:"productID"`
	Name           string           `json:"name"`
	Category       string           `json:"category"`
	Cost           decimal.Decimal  `json:"cost"`
	MarginPct      decimal.Decimal  `json:"marginPct"`
	SuggestedPrice decimal.Decimal  `json:"suggestedPrice"`
	FinalPrice     decimal.Decimal  `json:"finalPrice"`
	Stock          decimal.Decimal  `json:"stock"`
	MinStock       decimal.Decimal  `json:"minStock"`
	LowStock       bool             `json:"lowStock"`
	LastCost       *decimal.Decimal `json:"lastCost,omitempty"`
	LastPrice      *decimal.Decimal `json:"lastPrice,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// ToProductResponse converts domain.Product to DTO.
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ProductID:      p.ProductID,
		Name:           p.Name,
		Category:       p.Category,
		Cost:           p.Cost,
		MarginPct:      p.MarginPct,
		SuggestedPrice: p.SuggestedPrice,
		FinalPrice:     p.FinalPrice,
		Stock:          p.Stock,
		MinStock:       p.MinStock,
		LowStock:       p.Stock.LessThan(p.MinStock),
		LastCost:       p.LastCost,
		LastPrice:      p.LastPrice,
		CreatedAt:      p.CreatedAt,
	}
}

// ListProductsResponse wraps a product page with its pagination cursor.
type ListProductsResponse struct {
	Products      []ProductResponse `json:"products"`
	NextPageToken string            `json:"nextPageToken,omitempty"`
}

// ToListProductsResponse converts a product page to DTO.
func ToListProductsResponse(products []domain.Product, nextPageToken string) ListProductsResponse {
	list := make([]ProductResponse, len(products))
	for i, p := range products {
		list[i] = ToProductResponse(&p)
	}
	return ListProductsResponse{Products: list, NextPageToken: nextPageToken}
}

// HistoricalPriceResponse defines data returned for a price history row.
type HistoricalPriceResponse struct {
	HistoryID  string               `json:"historyID"`
	ItemID     string               `json:"itemID"`
	ItemKind   domain.PriceItemKind `json:"itemKind"`
	OldCost    decimal.Decimal      `json:"oldCost"`
	NewCost    decimal.Decimal      `json:"newCost"`
	OldPrice   *decimal.Decimal     `json:"oldPrice,omitempty"`
	NewPrice   *decimal.Decimal     `json:"newPrice,omitempty"`
	RecordedAt time.Time            `json:"recordedAt"`
}

// ToListHistoricalPricesResponse converts history rows to DTO.
func ToListHistoricalPricesResponse(rows []domain.HistoricalPrice) []HistoricalPriceResponse {
	list := make([]HistoricalPriceResponse, len(rows))
	for i, h := range rows {
		list[i] = HistoricalPriceResponse{
			HistoryID:  h.HistoryID,
			ItemID:     h.ItemID,
			ItemKind:   h.ItemKind,
			OldCost:    h.OldCost,
			NewCost:    h.NewCost,
			OldPrice:   h.OldPrice,
			NewPrice:   h.NewPrice,
			RecordedAt: h.RecordedAt,
		}
	}
	return list
}

// CreateSupplyRequest defines data for creating a supply item.
type CreateSupplyRequest struct {
	Name     string          `json:"name" binding:"required,notblank"`
	Cost     decimal.Decimal `json:"cost" binding:"required"`
	Stock    decimal.Decimal `json:"stock"`
	MinStock decimal.Decimal `json:"minStock"`
}

// UpdateSupplyRequest defines the mutable supply fields.
type UpdateSupplyRequest struct {
	Name     *string          `json:"name"`
	Cost     *decimal.Decimal `json:"cost"`
	Stock    *decimal.Decimal `json:"stock"`
	MinStock *decimal.Decimal `json:"minStock"`
}

// SupplyResponse defines data returned for a supply item.
type SupplyResponse struct {
	SupplyID  string           `json:"supplyID"`
	Name      string           `json:"name"`
	Cost      decimal.Decimal  `json:"cost"`
	Stock     decimal.Decimal  `json:"stock"`
	MinStock  decimal.Decimal  `json:"minStock"`
	LowStock  bool             `json:"lowStock"`
	LastCost  *decimal.Decimal `json:"lastCost,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// ToSupplyResponse converts domain.Supply to DTO.
func ToSupplyResponse(s *domain.Supply) SupplyResponse {
	return SupplyResponse{
		SupplyID:  s.SupplyID,
		Name:      s.Name,
		Cost:      s.Cost,
		Stock:     s.Stock,
		MinStock:  s.MinStock,
		LowStock:  s.Stock.LessThan(s.MinStock),
		LastCost:  s.LastCost,
		CreatedAt: s.CreatedAt,
	}
}

// ListSuppliesResponse wraps a list of supplies.
type ListSuppliesResponse struct {
	Supplies []SupplyResponse `json:"supplies"`
}

// ToListSuppliesResponse converts a slice of domain.Supply to DTO.
func ToListSuppliesResponse(supplies []domain.Supply) ListSuppliesResponse {
	list := make([]SupplyResponse, len(supplies))
	for i, s := range supplies {
		list[i] = ToSupplyResponse(&s)
	}
	return ListSuppliesResponse{Supplies: list}
}
