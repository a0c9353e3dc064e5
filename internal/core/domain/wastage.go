package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WastageRecord is an append-only loss-tracking entry.
type WastageRecord struct {
	WastageID      string          `json:"wastageID"`
	OrganizationID string          `json:"organizationID"`
	ProductID      *string         `json:"productID"`
	ProductName    string          `json:"productName"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitCost       decimal.Decimal `json:"unitCost"`
	Reason         string          `json:"reason"`
	LossDate       time.Time       `json:"lossDate"`
	CreatedAt      time.Time       `json:"createdAt"`
	CreatedBy      string          `json:"createdBy"`
}

// TotalLoss returns quantity times unit cost.
func (w WastageRecord) TotalLoss() decimal.Decimal {
	return w.Quantity.Mul(w.UnitCost)
}
