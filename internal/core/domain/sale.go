package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod identifies how a sale was collected. QR, debit and credit
// sales may carry a commission fee.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "EFECTIVO"
	PaymentTransfer PaymentMethod = "TRANSFERENCIA"
	PaymentQR       PaymentMethod = "QR"
	PaymentDebit    PaymentMethod = "DEBITO"
	PaymentCredit   PaymentMethod = "CREDITO"
)

// Label returns the human readable label used in reports.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCash:
		return "Efectivo"
	case PaymentTransfer:
		return "Transferencia"
	case PaymentQR:
		return "QR"
	case PaymentDebit:
		return "Débito"
	case PaymentCredit:
		return "Crédito"
	}
	return string(m)
}

// IsValid reports whether m is a known payment method.
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentQR, PaymentDebit, PaymentCredit:
		return true
	}
	return false
}

// Sale is a single sale line item recorded against a cash session.
type Sale struct {
	SaleID         string          `json:"saleID"`
	SessionID      string          `json:"sessionID"`
	OrganizationID string          `json:"organizationID"`
	Amount         decimal.Decimal `json:"amount"`
	Method         PaymentMethod   `json:"method"`
	// Commission is this sale's own fee, derived from the organization's
	// commission percentage for the payment method at recording time.
	Commission  decimal.Decimal `json:"commission"`
	Description string          `json:"description"`
	IsCredit    bool            `json:"isCredit"` // Sold on customer credit (fiado)
	SoldAt      time.Time       `json:"soldAt"`
	CreatedBy   string          `json:"createdBy"`
}
