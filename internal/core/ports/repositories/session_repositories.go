package repositories

import (
	"context"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SessionReader defines read operations for cash sessions and their line items.
type SessionReader interface {
	// FindOpenSession retrieves the organization's OPEN session, if any.
	FindOpenSession(ctx context.Context, organizationID string) (*domain.CashSession, error)

	// FindSessionByID retrieves a session scoped to the organization.
	FindSessionByID(ctx context.Context, organizationID, sessionID string) (*domain.CashSession, error)

	ListSales(ctx context.Context, sessionID string) ([]domain.Sale, error)
	ListEntries(ctx context.Context, sessionID string) ([]domain.SessionEntry, error)
}

// SessionPatch is a field-level session update; nil fields are left untouched.
type SessionPatch struct {
	OpeningCash      *decimal.Decimal
	OpeningDigital   *decimal.Decimal
	TotalCommissions *decimal.Decimal
	Notes            *string
}

// SessionWriter defines write operations for cash sessions.
type SessionWriter interface {
	SaveSession(ctx context.Context, session domain.CashSession) error

	// PatchSession applies a field-level patch guarded by the optimistic
	// version stamp; a stale version yields apperrors.ErrConflict.
	PatchSession(ctx context.Context, organizationID, sessionID string, patch SessionPatch, version int64) (*domain.CashSession, error)

	AddSale(ctx context.Context, sale domain.Sale) error
	AddEntry(ctx context.Context, entry domain.SessionEntry) error
	DeleteSale(ctx context.Context, organizationID, sessionID, saleID string) error
	DeleteEntry(ctx context.Context, organizationID, sessionID, entryID string) error

	// CloseSession marks the session CLOSED and archives the audit snapshot in
	// one transaction.
	CloseSession(ctx context.Context, session domain.CashSession, audit domain.CashAudit) error
}

// SessionRepositoryFacade combines all session repository interfaces.
type SessionRepositoryFacade interface {
	SessionReader
	SessionWriter
}
