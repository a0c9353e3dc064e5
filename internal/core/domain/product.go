package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a tenant-scoped catalog item sold to customers.
type Product struct {
	ProductID      string          `json:"productID"`
	OrganizationID string          `json:"organizationID"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Cost           decimal.Decimal `json:"cost"`
	MarginPct      decimal.Decimal `json:"marginPct"`
	// SuggestedPrice = Cost * (1 + MarginPct/100), recomputed on every
	// cost/margin change. FinalPrice is what the operator actually charges.
	SuggestedPrice decimal.Decimal  `json:"suggestedPrice"`
	FinalPrice     decimal.Decimal  `json:"finalPrice"`
	Stock          decimal.Decimal  `json:"stock"`
	MinStock       decimal.Decimal  `json:"minStock"`
	LastCost       *decimal.Decimal `json:"lastCost"`  // Previous cost before the latest material change
	LastPrice      *decimal.Decimal `json:"lastPrice"` // Previous final price before the latest material change
	AuditFields
}

// Supply is a tenant-scoped consumable (bags, napkins, cleaning...) tracked
// like a product but never sold directly.
type Supply struct {
	SupplyID       string           `json:"supplyID"`
	OrganizationID string           `json:"organizationID"`
	Name           string           `json:"name"`
	Cost           decimal.Decimal  `json:"cost"`
	Stock          decimal.Decimal  `json:"stock"`
	MinStock       decimal.Decimal  `json:"minStock"`
	LastCost       *decimal.Decimal `json:"lastCost"`
	AuditFields
}

// PriceItemKind distinguishes which catalog the price history row belongs to.
type PriceItemKind string

const (
	PriceItemProduct PriceItemKind = "PRODUCT"
	PriceItemSupply  PriceItemKind = "SUPPLY"
)

// HistoricalPrice is an append-only log row, created whenever a product or
// supply cost/price changes by more than 0.01 absolute.
type HistoricalPrice struct {
	HistoryID      string           `json:"historyID"`
	OrganizationID string           `json:"organizationID"`
	ItemID         string           `json:"itemID"`
	ItemKind       PriceItemKind    `json:"itemKind"`
	OldCost        decimal.Decimal  `json:"oldCost"`
	NewCost        decimal.Decimal  `json:"newCost"`
	OldPrice       *decimal.Decimal `json:"oldPrice"`
	NewPrice       *decimal.Decimal `json:"newPrice"`
	RecordedAt     time.Time        `json:"recordedAt"`
	RecordedBy     string           `json:"recordedBy"`
}

// MaterialPriceChange is the absolute delta above which a cost/price change is
// archived into the history log.
var MaterialPriceChange = decimal.NewFromFloat(0.01)
