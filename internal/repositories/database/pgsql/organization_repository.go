package pgsql

import (
	"context"
	"errors"

	"github.com/commerceos/commerceos_backend/internal/apperrors"
	"github.com/commerceos/commerceos_backend/internal/core/domain"
	portsrepo "github.com/commerceos/commerceos_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxOrganizationRepository struct {
	BaseRepository
}

// newPgxOrganizationRepository creates a new repository for organization data.
func newPgxOrganizationRepository(pool *pgxpool.Pool) portsrepo.OrganizationRepositoryFacade {
	return &PgxOrganizationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.OrganizationRepositoryFacade = (*PgxOrganizationRepository)(nil)

var FULL_ORGANIZATION_SELECT_QUERY = `
SELECT
	o.organization_id, o.name, o.logo_url, o.is_active, o.settings,
	o.created_at, o.created_by, o.last_updated_at, o.last_updated_by
FROM organizations o
`

func (r *PgxOrganizationRepository) getOrganizations(ctx context.Context, filterQuery string, args ...any) ([]domain.Organization, error) {
	query := FULL_ORGANIZATION_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query organizations", err)
	}
	defer rows.Close()
	orgs, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Organization])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Organization{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect organization rows", err)
	}
	return orgs, nil
}

func (r *PgxOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	orgs, err := r.getOrganizations(ctx, `WHERE o.organization_id = $1`, organizationID)
	if err != nil {
		return nil, err
	}
	if len(orgs) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &orgs[0], nil
}

// ListOrganizationsByUserID orders by membership join time then ID, the
// fallback order tenant resolution relies on.
func (r *PgxOrganizationRepository) ListOrganizationsByUserID(ctx context.Context, userID string) ([]domain.Organization, error) {
	filter := `
		JOIN user_organizations uo ON o.organization_id = uo.organization_id
		WHERE uo.user_id = $1 AND o.is_active = true
		ORDER BY uo.joined_at, o.organization_id;
	`
	return r.getOrganizations(ctx, filter, userID)
}

// SaveOrganizationBundle persists the organization, the creator's ADMIN
// membership and the baseline cash session in a single transaction.
func (r *PgxOrganizationRepository) SaveOrganizationBundle(ctx context.Context, org domain.Organization, membership domain.UserOrganization, session domain.CashSession) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	orgQuery := `
		INSERT INTO organizations (
			organization_id, name, logo_url, is_active, settings,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, orgQuery,
		org.OrganizationID,
		org.Name,
		org.LogoURL,
		org.IsActive,
		org.Settings,
		org.CreatedAt,
		org.CreatedBy,
		org.LastUpdatedAt,
		org.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewConflictError("organization ID " + org.OrganizationID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save organization "+org.OrganizationID, err)
	}

	membershipQuery := `
		INSERT INTO user_organizations (user_id, organization_id, role, joined_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err = tx.Exec(ctx, membershipQuery,
		membership.UserID,
		membership.OrganizationID,
		membership.Role,
		membership.JoinedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save creator membership for "+org.OrganizationID, err)
	}

	sessionQuery := `
		INSERT INTO cash_sessions (
			session_id, organization_id, session_date, status, opening_cash, opening_digital,
			total_commissions, notes, report_url, version,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, sessionQuery,
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
		return apperrors.NewAppError(500, "failed to save baseline session for "+org.OrganizationID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxOrganizationRepository) UpdateOrganization(ctx context.Context, org domain.Organization) error {
	query := `
		UPDATE organizations
		SET name = $1, logo_url = $2, settings = $3, last_updated_at = $4, last_updated_by = $5
		WHERE organization_id = $6;
	`
	result, err := r.Pool.Exec(ctx, query,
		org.Name,
		org.LogoURL,
		org.Settings,
		org.LastUpdatedAt,
		org.LastUpdatedBy,
		org.OrganizationID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update organization "+org.OrganizationID, err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("organization " + org.OrganizationID + " not found")
	}
	return nil
}

func (r *PgxOrganizationRepository) AddUserToOrganization(ctx context.Context, membership domain.UserOrganization) error {
	query := `
		INSERT INTO user_organizations (user_id, organization_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, organization_id) DO UPDATE SET role = EXCLUDED.role;
	`
	_, err := r.Pool.Exec(ctx, query,
		membership.UserID,
		membership.OrganizationID,
		membership.Role,
		membership.JoinedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperrors.NewValidationFailedError("user or organization does not exist")
		}
		return apperrors.NewAppError(500, "failed to add user "+membership.UserID+" to organization "+membership.OrganizationID, err)
	}
	return nil
}

func (r *PgxOrganizationRepository) FindUserOrganizationRole(ctx context.Context, userID, organizationID string) (*domain.UserOrganization, error) {
	query := `
		SELECT uo.user_id, u.name AS user_name, uo.organization_id, uo.role, uo.joined_at
		FROM user_organizations uo
		JOIN users u ON uo.user_id = u.user_id
		WHERE uo.user_id = $1 AND uo.organization_id = $2;
	`
	var uo domain.UserOrganization
	err := r.Pool.QueryRow(ctx, query, userID, organizationID).Scan(
		&uo.UserID,
		&uo.UserName,
		&uo.OrganizationID,
		&uo.Role,
		&uo.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("membership not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find membership of user "+userID+" in organization "+organizationID, err)
	}
	return &uo, nil
}
