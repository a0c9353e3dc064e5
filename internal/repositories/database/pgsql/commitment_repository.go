package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/commerceos/commerceos_backend/internal/apperrors"
	"github.com/commerceos/commerceos_backend/internal/core/domain"
	portsrepo "github.com/commerceos/commerceos_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCommitmentRepository struct {
	BaseRepository
}

// newPgxCommitmentRepository creates a new repository for payment commitments.
func newPgxCommitmentRepository(pool *pgxpool.Pool) portsrepo.CommitmentRepositoryFacade {
	return &PgxCommitmentRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CommitmentRepositoryFacade = (*PgxCommitmentRepository)(nil)

var FULL_COMMITMENT_SELECT_QUERY = `
SELECT
	c.commitment_id, c.organization_id, c.description, c.amount, c.due_date,
	c.provider_id, c.status, c.paid_at,
	c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
FROM commitments c
`

func (r *PgxCommitmentRepository) getCommitments(ctx context.Context, filterQuery string, args ...any) ([]domain.Commitment, error) {
	query := FULL_COMMITMENT_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query commitments", err)
	}
	defer rows.Close()
	commitments, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Commitment])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Commitment{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect commitment rows", err)
	}
	return commitments, nil
}

func (r *PgxCommitmentRepository) FindCommitmentByID(ctx context.Context, organizationID, commitmentID string) (*domain.Commitment, error) {
	commitments, err := r.getCommitments(ctx, `WHERE c.organization_id = $1 AND c.commitment_id = $2`, organizationID, commitmentID)
	if err != nil {
		return nil, err
	}
	if len(commitments) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &commitments[0], nil
}

// ListCommitments returns commitments soonest due first, optionally filtered
// by status.
func (r *PgxCommitmentRepository) ListCommitments(ctx context.Context, organizationID string, status *domain.CommitmentStatus) ([]domain.Commitment, error) {
	if status == nil {
		return r.getCommitments(ctx, `WHERE c.organization_id = $1 ORDER BY c.due_date, c.commitment_id;`, organizationID)
	}
	return r.getCommitments(ctx, `WHERE c.organization_id = $1 AND c.status = $2 ORDER BY c.due_date, c.commitment_id;`, organizationID, *status)
}

func (r *PgxCommitmentRepository) SaveCommitment(ctx context.Context, commitment domain.Commitment) error {
	query := `
		INSERT INTO commitments (
			commitment_id, organization_id, description, amount, due_date,
			provider_id, status, paid_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		commitment.CommitmentID,
		commitment.OrganizationID,
		commitment.Description,
		commitment.Amount,
		commitment.DueDate,
		commitment.ProviderID,
		commitment.Status,
		commitment.PaidAt,
		commitment.CreatedAt,
		commitment.CreatedBy,
		commitment.LastUpdatedAt,
		commitment.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return apperrors.NewConflictError("commitment ID " + commitment.CommitmentID + " already exists")
			case "23503":
				return apperrors.NewValidationFailedError("provider does not exist")
			}
		}
		return apperrors.NewAppError(500, "failed to save commitment "+commitment.CommitmentID, err)
	}
	return nil
}

func (r *PgxCommitmentRepository) UpdateCommitment(ctx context.Context, commitment domain.Commitment) error {
	query := `
		UPDATE commitments
		SET description = $1, amount = $2, due_date = $3, provider_id = $4,
			last_updated_at = $5, last_updated_by = $6
		WHERE organization_id = $7 AND commitment_id = $8;
	`
	result, err := r.Pool.Exec(ctx, query,
		commitment.Description,
		commitment.Amount,
		commitment.DueDate,
		commitment.ProviderID,
		commitment.LastUpdatedAt,
		commitment.LastUpdatedBy,
		commitment.OrganizationID,
		commitment.CommitmentID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperrors.NewValidationFailedError("provider does not exist")
		}
		return apperrors.NewAppError(500, "failed to update commitment "+commitment.CommitmentID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("commitment " + commitment.CommitmentID + " not found")
	}
	return nil
}

func (r *PgxCommitmentRepository) DeleteCommitment(ctx context.Context, organizationID, commitmentID string) error {
	result, err := r.Pool.Exec(ctx, `DELETE FROM commitments WHERE organization_id = $1 AND commitment_id = $2;`, organizationID, commitmentID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete commitment "+commitmentID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("commitment " + commitmentID + " not found")
	}
	return nil
}

// MarkCommitmentPaid posts the optional cash expense and flips the commitment
// to PAID in one transaction. The status = 'PENDING' guard makes the flip a
// one-shot: a commitment paid by a concurrent caller updates zero rows and the
// expense insert rolls back with it.
func (r *PgxCommitmentRepository) MarkCommitmentPaid(ctx context.Context, organizationID, commitmentID string, paidAt time.Time, paidBy string, expense *domain.SessionEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if expense != nil {
		entryQuery := `
			INSERT INTO session_entries (
				entry_id, session_id, organization_id, type, description, amount,
				category, provider_id, provider_name, recorded_at, created_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
		`
		_, err = tx.Exec(ctx, entryQuery,
			expense.EntryID,
			expense.SessionID,
			expense.OrganizationID,
			expense.Type,
			expense.Description,
			expense.Amount,
			nullableCategory(expense.Category),
			expense.ProviderID,
			expense.ProviderName,
			expense.RecordedAt,
			expense.CreatedBy,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return apperrors.NewValidationFailedError("session does not exist")
			}
			return apperrors.NewAppError(500, "failed to save payment expense "+expense.EntryID, err)
		}
	}

	payQuery := `
		UPDATE commitments
		SET status = $1, paid_at = $2, last_updated_at = $3, last_updated_by = $4
		WHERE organization_id = $5 AND commitment_id = $6 AND status = $7;
	`
	result, err := tx.Exec(ctx, payQuery,
		domain.CommitmentPaid,
		paidAt,
		paidAt,
		paidBy,
		organizationID,
		commitmentID,
		domain.CommitmentPending,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark commitment "+commitmentID+" paid", err)
	}
	if result.RowsAffected() == 0 {
		current, findErr := r.FindCommitmentByID(ctx, organizationID, commitmentID)
		if findErr != nil {
			return findErr
		}
		if current.Status == domain.CommitmentPaid {
			return apperrors.NewValidationFailedError("commitment " + commitmentID + " is already paid")
		}
		return apperrors.NewNotFoundError("commitment " + commitmentID + " not found")
	}

	return r.Commit(ctx, tx)
}
