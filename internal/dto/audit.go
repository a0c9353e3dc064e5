package dto

import (
	"time"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AuditResponse defines data returned for a cash audit.
type AuditResponse struct {
	AuditID        string                 `json:"auditID"`
	OrganizationID string                 `json:"organizationID"`
	AuditDate      string                 `json:"auditDate"`
	TotalSales     decimal.Decimal        `json:"totalSales"`
	Difference     decimal.Decimal        `json:"difference"`
	ReportURL      *string                `json:"reportURL,omitempty"`
	Notes          string                 `json:"notes"`
	Payload        domain.SessionSnapshot `json:"payload"`
	CreatedAt      time.Time              `json:"createdAt"`
}

// ToAuditResponse converts domain.CashAudit to DTO.
func ToAuditResponse(a *domain.CashAudit) AuditResponse {
	return AuditResponse{
		AuditID:        a.AuditID,
		OrganizationID: a.OrganizationID,
		AuditDate:      a.AuditDate.Format("2006-01-02"),
		TotalSales:     a.TotalSales,
		Difference:     a.Difference,
		ReportURL:      a.ReportURL,
		Notes:          a.Notes,
		Payload:        a.Payload,
		CreatedAt:      a.CreatedAt,
	}
}

// ListAuditsResponse wraps a list of audits without their full payloads.
type ListAuditsResponse struct {
	Audits []AuditSummaryResponse `json:"audits"`
}

// AuditSummaryResponse is the lightweight list row for an audit.
type AuditSummaryResponse struct {
	AuditID    string          `json:"auditID"`
	AuditDate  string          `json:"auditDate"`
	TotalSales decimal.Decimal `json:"totalSales"`
	Difference decimal.Decimal `json:"difference"`
	ReportURL  *string         `json:"reportURL,omitempty"`
	Notes      string          `json:"notes"`
}

// ToListAuditsResponse converts a slice of domain.CashAudit to DTO.
func ToListAuditsResponse(audits []domain.CashAudit) ListAuditsResponse {
	list := make([]AuditSummaryResponse, len(audits))
	for i, a := range audits {
		list[i] = AuditSummaryResponse{
			AuditID:    a.AuditID,
			AuditDate:  a.AuditDate.Format("2006-01-02"),
			TotalSales: a.TotalSales,
			Difference: a.Difference,
			ReportURL:  a.ReportURL,
			Notes:      a.Notes,
		}
	}
	return ListAuditsResponse{Audits: list}
}

// UpdateAuditRequest defines the only mutable audit fields: date and notes.
type UpdateAuditRequest struct {
	AuditDate *string `json:"auditDate" binding:"omitempty,datetime=2006-01-02"`
	Notes     *string `json:"notes"`
}
