package repositories

import (
	"context"
	"time"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
)

// AuditReader defines read operations for cash audits.
type AuditReader interface {
	FindAuditByID(ctx context.Context, organizationID, auditID string) (*domain.CashAudit, error)

	// ListAuditsByDateRange retrieves audits whose date falls within
	// [from, to], both calendar instants inclusive, newest first.
	ListAuditsByDateRange(ctx context.Context, organizationID string, from, to time.Time) ([]domain.CashAudit, error)
}

// AuditWriter defines the narrow mutation surface of the otherwise immutable
// audit archive.
type AuditWriter interface {
	UpdateAuditReportURL(ctx context.Context, organizationID, auditID, reportURL string) error
	UpdateAuditMeta(ctx context.Context, organizationID, auditID string, auditDate *time.Time, notes *string) error
	DeleteAudit(ctx context.Context, organizationID, auditID string) error
}

// AuditRepositoryFacade combines all audit repository interfaces.
type AuditRepositoryFacade interface {
	AuditReader
	AuditWriter
}
