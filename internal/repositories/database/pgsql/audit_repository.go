package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/commerceos/commerceos_backend/internal/apperrors"
	"github.com/commerceos/commerceos_backend/internal/core/domain"
	portsrepo "github.com/commerceos/commerceos_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for archived cash audits.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

var FULL_AUDIT_SELECT_QUERY = `
SELECT
	a.audit_id, a.organization_id, a.audit_date, a.payload, a.total_sales,
	a.difference, a.report_url, a.notes, a.created_at, a.created_by
FROM cash_audits a
`

func (r *PgxAuditRepository) getAudits(ctx context.Context, filterQuery string, args ...any) ([]domain.CashAudit, error) {
	query := FULL_AUDIT_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query audits", err)
	}
	defer rows.Close()
	audits, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.CashAudit])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.CashAudit{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect audit rows", err)
	}
	return audits, nil
}

func (r *PgxAuditRepository) FindAuditByID(ctx context.Context, organizationID, auditID string) (*domain.CashAudit, error) {
	audits, err := r.getAudits(ctx, `WHERE a.organization_id = $1 AND a.audit_id = $2`, organizationID, auditID)
	if err != nil {
		return nil, err
	}
	if len(audits) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &audits[0], nil
}

// ListAuditsByDateRange returns audits whose date falls in [from, to],
// newest first with audit ID as the tiebreaker.
func (r *PgxAuditRepository) ListAuditsByDateRange(ctx context.Context, organizationID string, from, to time.Time) ([]domain.CashAudit, error) {
	filter := `
		WHERE a.organization_id = $1 AND a.audit_date >= $2 AND a.audit_date <= $3
		ORDER BY a.audit_date DESC, a.audit_id DESC;
	`
	return r.getAudits(ctx, filter, organizationID, from, to)
}

func (r *PgxAuditRepository) UpdateAuditReportURL(ctx context.Context, organizationID, auditID, reportURL string) error {
	query := `UPDATE cash_audits SET report_url = $1 WHERE organization_id = $2 AND audit_id = $3;`
	result, err := r.Pool.Exec(ctx, query, reportURL, organizationID, auditID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update report URL for audit "+auditID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("audit " + auditID + " not found")
	}
	return nil
}

func (r *PgxAuditRepository) UpdateAuditMeta(ctx context.Context, organizationID, auditID string, auditDate *time.Time, notes *string) error {
	query := `
		UPDATE cash_audits
		SET audit_date = COALESCE($1, audit_date), notes = COALESCE($2, notes)
		WHERE organization_id = $3 AND audit_id = $4;
	`
	result, err := r.Pool.Exec(ctx, query, auditDate, notes, organizationID, auditID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update audit "+auditID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("audit " + auditID + " not found")
	}
	return nil
}

func (r *PgxAuditRepository) DeleteAudit(ctx context.Context, organizationID, auditID string) error {
	result, err := r.Pool.Exec(ctx, `DELETE FROM cash_audits WHERE organization_id = $1 AND audit_id = $2;`, organizationID, auditID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete audit "+auditID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("audit " + auditID + " not found")
	}
	return nil
}
