package dto

import (
	"time"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateWastageRequest defines data for recording a loss.
type CreateWastageRequest struct {
	ProductID   *string         `json:"productID"`
	ProductName string          `json:"productName" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost    decimal.Decimal `json:"unitCost" binding:"required"`
	Reason      string          `json:"reason"`
	LossDate    string          `json:"lossDate" binding:"required,datetime=2006-01-02"`
}

// WastageResponse defines data returned for a wastage record.
type WastageResponse struct {
	WastageID   string          `json:"wastageID"`
	ProductID   *string         `json:"productID,omitempty"`
	ProductName string          `json:"productName"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unitCost"`
	TotalLoss   decimal.Decimal `json:"totalLoss"`
	Reason      string          `json:"reason"`
	LossDate    string          `json:"lossDate"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ToWastageResponse converts domain.WastageRecord to DTO.
func ToWastageResponse(w *domain.WastageRecord) WastageResponse {
	return WastageResponse{
		WastageID:   w.WastageID,
		ProductID:   w.ProductID,
		ProductName: w.ProductName,
		Quantity:    w.Quantity,
		UnitCost:    w.UnitCost,
		TotalLoss:   w.TotalLoss(),
		Reason:      w.Reason,
		LossDate:    w.LossDate.Format("2006-01-02"),
		CreatedAt:   w.CreatedAt,
	}
}

// ListWastageResponse wraps a list of wastage records.
type ListWastageResponse struct {
	Records []WastageResponse `json:"records"`
}

// ToListWastageResponse converts a slice of domain.WastageRecord to DTO.
func ToListWastageResponse(records []domain.WastageRecord) ListWastageResponse {
	list := make([]WastageResponse, len(records))
	for i, w := range records {
		list[i] = ToWastageResponse(&w)
	}
	return ListWastageResponse{Records: list}
}
