package dto

import (
	"time"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
	"github.com/commerceos/commerceos_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// OpenSessionRequest defines data for opening the day's cash session.
type OpenSessionRequest struct {
	SessionDate    string          `json:"sessionDate" binding:"omitempty,datetime=2006-01-02"`
	OpeningCash    decimal.Decimal `json:"openingCash"`
	OpeningDigital decimal.Decimal `json:"openingDigital"`
}

// PatchSessionRequest is a field-level patch; nil fields are left untouched.
// Version must match the stored row or the patch is rejected as a conflict.
type PatchSessionRequest struct {
	OpeningCash      *decimal.Decimal `json:"openingCash"`
	OpeningDigital   *decimal.Decimal `json:"openingDigital"`
	TotalCommissions *decimal.Decimal `json:"totalCommissions"`
	Notes            *string          `json:"notes"`
	Version          int64            `json:"version" binding:"required"`
}

// AddSaleRequest defines data for recording a sale against the open session.
type AddSaleRequest struct {
	Amount      decimal.Decimal      `json:"amount" binding:"required"`
	Method      domain.PaymentMethod `json:"method" binding:"required"`
	Description string               `json:"description"`
	IsCredit    bool                 `json:"isCredit"`
}

// AddEntryRequest defines data for recording an income or expense line item.
type AddEntryRequest struct {
	Type        domain.EntryType       `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	Description string                 `json:"description" binding:"required"`
	Amount      decimal.Decimal        `json:"amount" binding:"required"`
	Category    domain.ExpenseCategory `json:"category"`
	ProviderID  *string                `json:"providerID"`
}

// CloseSessionRequest carries the operator's physical count.
type CloseSessionRequest struct {
	PhysicalCash    decimal.Decimal `json:"physicalCash"`
	PhysicalDigital decimal.Decimal `json:"physicalDigital"`
	Notes           string          `json:"notes"`
}

// SessionTotalsResponse mirrors accounting.SessionTotals.
type SessionTotalsResponse struct {
	TotalIncome        decimal.Decimal `json:"totalIncome"`
	TotalSales         decimal.Decimal `json:"totalSales"`
	TotalCommissions   decimal.Decimal `json:"totalCommissions"`
	NetSales           decimal.Decimal `json:"netSales"`
	TotalOtherExpenses decimal.Decimal `json:"totalOtherExpenses"`
	TheoreticalBalance decimal.Decimal `json:"theoreticalBalance"`
}

// ToSessionTotalsResponse converts accounting.SessionTotals to DTO.
func ToSessionTotalsResponse(t accounting.SessionTotals) SessionTotalsResponse {
	return SessionTotalsResponse{
		TotalIncome:        t.TotalIncome,
		TotalSales:         t.TotalSales,
		TotalCommissions:   t.TotalCommissions,
		NetSales:           t.NetSales,
		TotalOtherExpenses: t.TotalOtherExpenses,
		TheoreticalBalance: t.TheoreticalBalance,
	}
}

// SessionResponse is the full state of a cash session with its line items and
// derived totals.
type SessionResponse struct {
	SessionID        string                `json:"sessionID"`
	OrganizationID   string                `json:"organizationID"`
	SessionDate      string                `json:"sessionDate"`
	Status           domain.SessionStatus  `json:"status"`
	OpeningCash      decimal.Decimal       `json:"openingCash"`
	OpeningDigital   decimal.Decimal       `json:"openingDigital"`
	TotalCommissions decimal.Decimal       `json:"totalCommissions"`
	Notes            string                `json:"notes"`
	ReportURL        *string               `json:"reportURL,omitempty"`
	Version          int64                 `json:"version"`
	Sales            []domain.Sale         `json:"sales"`
	Entries          []domain.SessionEntry `json:"entries"`
	Totals           SessionTotalsResponse `json:"totals"`
	CreatedAt        time.Time             `json:"createdAt"`
}

// ToSessionResponse converts a session with its line items to DTO, computing
// the derived totals on the way out.
func ToSessionResponse(s *domain.CashSession, sales []domain.Sale, entries []domain.SessionEntry) SessionResponse {
	if sales == nil {
		sales = []domain.Sale{}
	}
	if entries == nil {
		entries = []domain.SessionEntry{}
	}
	return SessionResponse{
		SessionID:        s.SessionID,
		OrganizationID:   s.OrganizationID,
		SessionDate:      s.SessionDate.Format("2006-01-02"),
		Status:           s.Status,
		OpeningCash:      s.OpeningCash,
		OpeningDigital:   s.OpeningDigital,
		TotalCommissions: s.TotalCommissions,
		Notes:            s.Notes,
		ReportURL:        s.ReportURL,
		Version:          s.Version,
		Sales:            sales,
		Entries:          entries,
		Totals:           ToSessionTotalsResponse(accounting.CalculateSessionTotals(*s, sales, entries)),
		CreatedAt:        s.CreatedAt,
	}
}
