package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType tags a session line item as money in or money out.
type EntryType string

const (
	EntryIncome  EntryType = "INCOME"
	EntryExpense EntryType = "EXPENSE"
)

// ExpenseCategory is the fixed classification of expense entries.
type ExpenseCategory string

const (
	CategoryBusiness    ExpenseCategory = "Negocio"
	CategoryPurchases   ExpenseCategory = "Compras/Fletes"
	CategoryPersonal    ExpenseCategory = "Personal"
	CategoryInvestments ExpenseCategory = "Inversiones"
	CategoryOther       ExpenseCategory = "Otros"
)

// IsValid reports whether c is a known expense category.
func (c ExpenseCategory) IsValid() bool {
	switch c {
	case CategoryBusiness, CategoryPurchases, CategoryPersonal, CategoryInvestments, CategoryOther:
		return true
	}
	return false
}

// IsOperating reports whether expenses in this category count toward operating
// profit. Everything else is treated as an owner withdrawal.
func (c ExpenseCategory) IsOperating() bool {
	switch c {
	case CategoryBusiness, CategoryPurchases, CategoryInvestments:
		return true
	}
	return false
}

// NoProviderLabel is the by-provider breakdown bucket for expenses without a
// provider reference.
const NoProviderLabel = "Sin proveedor"

// SessionEntry is an income or expense line item recorded against a cash
// session. Category and provider fields are only meaningful for expenses.
type SessionEntry struct {
	EntryID        string          `json:"entryID"`
	SessionID      string          `json:"sessionID"`
	OrganizationID string          `json:"organizationID"`
	Type           EntryType       `json:"type"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Category       ExpenseCategory `json:"category,omitempty"`
	ProviderID     *string         `json:"providerID,omitempty"`
	ProviderName   string          `json:"providerName,omitempty"`
	RecordedAt     time.Time       `json:"recordedAt"`
	CreatedBy      string          `json:"createdBy"`
}
