package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/commerceos/commerceos_backend/internal/apperrors"
	"github.com/commerceos/commerceos_backend/internal/core/domain"
	portsrepo "github.com/commerceos/commerceos_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxSessionRepository struct {
	BaseRepository
}

// newPgxSessionRepository creates a new repository for cash session data.
func newPgxSessionRepository(pool *pgxpool.Pool) portsrepo.SessionRepositoryFacade {
	return &PgxSessionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.SessionRepositoryFacade = (*PgxSessionRepository)(nil)

var FULL_SESSION_SELECT_QUERY = `
SELECT
	s.session_id, s.organization_id, s.session_date, s.status,
	s.opening_cash, s.opening_digital, s.total_commissions, s.notes,
	s.report_url, s.version,
	s.created_at, s.created_by, s.last_updated_at, s.last_updated_by
FROM cash_sessions s
`

func (r *PgxSessionRepository) getSessions(ctx context.Context, filterQuery string, args ...any) ([]domain.CashSession, error) {
	query := FULL_SESSION_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query sessions", err)
	}
	defer rows.Close()
	sessions, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.CashSession])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.CashSession{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect session rows", err)
	}
	return sessions, nil
}

func (r *PgxSessionRepository) FindOpenSession(ctx context.Context, organizationID string) (*domain.CashSession, error) {
	sessions, err := r.getSessions(ctx, `WHERE s.organization_id = $1 AND s.status = 'OPEN'`, organizationID)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &sessions[0], nil
}

func (r *PgxSessionRepository) FindSessionByID(ctx context.Context, organizationID, sessionID string) (*domain.CashSession, error) {
	sessions, err := r.getSessions(ctx, `WHERE s.organization_id = $1 AND s.session_id = $2`, organizationID, sessionID)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &sessions[0], nil
}

func (r *PgxSessionRepository) ListSales(ctx context.Context, sessionID string) ([]domain.Sale, error) {
	query := `
		SELECT sale_id, session_id, organization_id, amount, method, commission,
			description, is_credit, sold_at, created_by
		FROM sales
		WHERE session_id = $1
		ORDER BY sold_at, sale_id;
	`
	rows, err := r.Pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query sales", err)
	}
	defer rows.Close()
	sales, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Sale])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect sale rows", err)
	}
	return sales, nil
}

func (r *PgxSessionRepository) ListEntries(ctx context.Context, sessionID string) ([]domain.SessionEntry, error) {
	query := `
		SELECT entry_id, session_id, organization_id, type, description, amount,
			category, provider_id, provider_name, recorded_at, created_by
		FROM session_entries
		WHERE session_id = $1
		ORDER BY recorded_at, entry_id;
	`
	rows, err := r.Pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query session entries", err)
	}
	defer rows.Close()
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.SessionEntry])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect session entry rows", err)
	}
	return entries, nil
}

// SaveSession inserts the session. The partial unique index on OPEN sessions
// per organization surfaces a double-open as ErrDuplicate.
func (r *PgxSessionRepository) SaveSession(ctx context.Context, session domain.CashSession) error {
	query := `
		INSERT INTO cash_sessions (
			session_id, organization_id, session_date, status, opening_cash, opening_digital,
			total_commissions, notes, report_url, version,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		session.SessionID,
		session.OrganizationID,
		session.SessionDate,
		session.Status,
		session.OpeningCash,
		session.OpeningDigital,
		session.TotalCommissions,
		session.Notes,
		session.ReportURL,
		session.Version,
		session.CreatedAt,
		session.CreatedBy,
		session.LastUpdatedAt,
		session.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewConflictError("an open session already exists for organization " + session.OrganizationID)
		}
		return apperrors.NewAppError(500, "failed to save session "+session.SessionID, err)
	}
	return nil
}

// PatchSession applies the non-nil patch fields and bumps the version, but
// only when the caller's version matches the stored row. A zero-row update on
// an existing session means a concurrent writer won.
func (r *PgxSessionRepository) PatchSession(ctx context.Context, organizationID, sessionID string, patch portsrepo.SessionPatch, version int64) (*domain.CashSession, error) {
	query := `
		UPDATE cash_sessions
		SET opening_cash = COALESCE($1, opening_cash),
			opening_digital = COALESCE($2, opening_digital),
			total_commissions = COALESCE($3, total_commissions),
			notes = COALESCE($4, notes),
			version = version + 1,
			last_updated_at = NOW()
		WHERE organization_id = $5 AND session_id = $6 AND status = 'OPEN' AND version = $7
		RETURNING session_id, organization_id, session_date, status,
			opening_cash, opening_digital, total_commissions, notes,
			report_url, version,
			created_at, created_by, last_updated_at, last_updated_by;
	`
	rows, err := r.Pool.Query(ctx, query,
		patch.OpeningCash,
		patch.OpeningDigital,
		patch.TotalCommissions,
		patch.Notes,
		organizationID,
		sessionID,
		version,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to patch session "+sessionID, err)
	}
	session, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[domain.CashSession])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish a missing/closed session from a lost version race.
			current, findErr := r.FindSessionByID(ctx, organizationID, sessionID)
			if findErr != nil {
				return nil, findErr
			}
			if current.Status != domain.SessionOpen {
				return nil, apperrors.ErrSessionClosed
			}
			return nil, fmt.Errorf("%w: session version %d is stale, current is %d", apperrors.ErrConflict, version, current.Version)
		}
		return nil, apperrors.NewAppError(500, "failed to collect patched session "+sessionID, err)
	}
	return &session, nil
}

// AddSale inserts the sale and rolls its commission into the session's
// aggregate in one transaction, bumping the session version.
func (r *PgxSessionRepository) AddSale(ctx context.Context, sale domain.Sale) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	saleQuery := `
		INSERT INTO sales (
			sale_id, session_id, organization_id, amount, method, commission,
			description, is_credit, sold_at, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, saleQuery,
		sale.SaleID,
		sale.SessionID,
		sale.OrganizationID,
		sale.Amount,
		sale.Method,
		sale.Commission,
		sale.Description,
		sale.IsCredit,
		sale.SoldAt,
		sale.CreatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperrors.NewValidationFailedError("session does not exist")
		}
		return apperrors.NewAppError(500, "failed to save sale "+sale.SaleID, err)
	}

	sessionQuery := `
		UPDATE cash_sessions
		SET total_commissions = total_commissions + $1, version = version + 1, last_updated_at = NOW()
		WHERE session_id = $2 AND status = 'OPEN';
	`
	result, err := tx.Exec(ctx, sessionQuery, sale.Commission, sale.SessionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update session commission aggregate", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrSessionClosed
	}

	return r.Commit(ctx, tx)
}

func (r *PgxSessionRepository) AddEntry(ctx context.Context, entry domain.SessionEntry) error {
	query := `
		INSERT INTO session_entries (
			entry_id, session_id, organization_id, type, description, amount,
			category, provider_id, provider_name, recorded_at, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		entry.EntryID,
		entry.SessionID,
		entry.OrganizationID,
		entry.Type,
		entry.Description,
		entry.Amount,
		nullableCategory(entry.Category),
		entry.ProviderID,
		entry.ProviderName,
		entry.RecordedAt,
		entry.CreatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperrors.NewValidationFailedError("session or provider does not exist")
		}
		return apperrors.NewAppError(500, "failed to save entry "+entry.EntryID, err)
	}
	return nil
}

// nullableCategory maps the empty category (income entries) to NULL.
func nullableCategory(c domain.ExpenseCategory) *domain.ExpenseCategory {
	if c == "" {
		return nil
	}
	return &c
}

// DeleteSale removes the sale and backs its commission out of the session
// aggregate in one transaction.
func (r *PgxSessionRepository) DeleteSale(ctx context.Context, organizationID, sessionID, saleID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	deleteQuery := `
		DELETE FROM sales
		WHERE organization_id = $1 AND session_id = $2 AND sale_id = $3
		RETURNING commission;
	`
	var commission decimal.Decimal
	if err := tx.QueryRow(ctx, deleteQuery, organizationID, sessionID, saleID).Scan(&commission); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError("sale " + saleID + " not found")
		}
		return apperrors.NewAppError(500, "failed to delete sale "+saleID, err)
	}

	sessionQuery := `
		UPDATE cash_sessions
		SET total_commissions = total_commissions - $1, version = version + 1, last_updated_at = NOW()
		WHERE session_id = $2 AND status = 'OPEN';
	`
	result, err := tx.Exec(ctx, sessionQuery, commission, sessionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update session commission aggregate", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrSessionClosed
	}

	return r.Commit(ctx, tx)
}

func (r *PgxSessionRepository) DeleteEntry(ctx context.Context, organizationID, sessionID, entryID string) error {
	query := `DELETE FROM session_entries WHERE organization_id = $1 AND session_id = $2 AND entry_id = $3;`
	result, err := r.Pool.Exec(ctx, query, organizationID, sessionID, entryID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete entry "+entryID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("entry " + entryID + " not found")
	}
	return nil
}

// CloseSession flips the session to CLOSED and archives the audit snapshot in
// a single transaction; a session that is no longer OPEN aborts the close.
func (r *PgxSessionRepository) CloseSession(ctx context.Context, session domain.CashSession, audit domain.CashAudit) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	closeQuery := `
		UPDATE cash_sessions
		SET status = 'CLOSED', notes = $1, version = version + 1, last_updated_at = $2, last_updated_by = $3
		WHERE organization_id = $4 AND session_id = $5 AND status = 'OPEN';
	`
	result, err := tx.Exec(ctx, closeQuery,
		session.Notes,
		session.LastUpdatedAt,
		session.LastUpdatedBy,
		session.OrganizationID,
		session.SessionID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to close session "+session.SessionID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrSessionClosed
	}

	auditQuery := `
		INSERT INTO cash_audits (
			audit_id, organization_id, audit_date, payload, total_sales, difference,
			report_url, notes, created_at, created_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err = tx.Exec(ctx, auditQuery,
		audit.AuditID,
		audit.OrganizationID,
		audit.AuditDate,
		audit.Payload,
		audit.TotalSales,
		audit.Difference,
		audit.ReportURL,
		audit.Notes,
		audit.CreatedAt,
		audit.CreatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to archive audit "+audit.AuditID, err)
	}

	return r.Commit(ctx, tx)
}
