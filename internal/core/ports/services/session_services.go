package services

import (
	"context"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
	"github.com/commerceos/commerceos_backend/internal/dto"
)

// SessionSvcFacade is the cash session service interface. Every method takes
// the caller's user ID and the explicit organization ID; nothing is read from
// ambient state.
type SessionSvcFacade interface {
	// OpenSession opens the day's session. An organization can only have one
	// OPEN session; a second open attempt yields apperrors.ErrDuplicate.
	OpenSession(ctx context.Context, userID, organizationID string, req dto.OpenSessionRequest) (*domain.CashSession, error)

	// GetCurrentSession returns the OPEN session with its line items.
	GetCurrentSession(ctx context.Context, userID, organizationID string) (*domain.CashSession, []domain.Sale, []domain.SessionEntry, error)

	GetSession(ctx context.Context, userID, organizationID, sessionID string) (*domain.CashSession, []domain.Sale, []domain.SessionEntry, error)

	// AddSale records a sale against the OPEN session, deriving the commission
	// from the organization's settings for the payment method.
	AddSale(ctx context.Context, userID, organizationID string, req dto.AddSaleRequest) (*domain.Sale, error)

	// AddEntry records an income or expense line item against the OPEN session.
	AddEntry(ctx context.Context, userID, organizationID string, req dto.AddEntryRequest) (*domain.SessionEntry, error)

	DeleteSale(ctx context.Context, userID, organizationID, sessionID, saleID string) error
	DeleteEntry(ctx context.Context, userID, organizationID, sessionID, entryID string) error

	// PatchSession applies a field-level patch guarded by the request's
	// optimistic version stamp.
	PatchSession(ctx context.Context, userID, organizationID, sessionID string, req dto.PatchSessionRequest) (*domain.CashSession, error)

	// CloseSession finalizes the day: computes totals and the reconciliation
	// difference from the operator's physical count, archives the CashAudit,
	// marks the session CLOSED, and best-effort generates the spreadsheet
	// report (a failed export leaves the audit without a report URL).
	CloseSession(ctx context.Context, userID, organizationID string, req dto.CloseSessionRequest) (*domain.CashAudit, error)
}

// AuditSvcFacade is the cash audit service interface.
type AuditSvcFacade interface {
	GetAudit(ctx context.Context, userID, organizationID, auditID string) (*domain.CashAudit, error)
	ListAudits(ctx context.Context, userID, organizationID string, from, to string) ([]domain.CashAudit, error)
	UpdateAudit(ctx context.Context, userID, organizationID, auditID string, req dto.UpdateAuditRequest) (*domain.CashAudit, error)
	DeleteAudit(ctx context.Context, userID, organizationID, auditID string) error

	// RegenerateReport rebuilds the audit's spreadsheet, re-uploads it and
	// patches the stored report URL.
	RegenerateReport(ctx context.Context, userID, organizationID, auditID string) (string, error)

	// RenderReport returns the spreadsheet bytes for direct download.
	RenderReport(ctx context.Context, userID, organizationID, auditID string) ([]byte, string, error)
}
