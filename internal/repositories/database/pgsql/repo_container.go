package pgsql

import (
	portsrepo "github.com/commerceos/commerceos_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgx-backed repository over the shared
// connection pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		UserRepo:         newPgxUserRepository(dbPool),
		OrganizationRepo: newPgxOrganizationRepository(dbPool),
		SessionRepo:      newPgxSessionRepository(dbPool),
		AuditRepo:        newPgxAuditRepository(dbPool),
		ProductRepo:      newPgxProductRepository(dbPool),
		SupplyRepo:       newPgxSupplyRepository(dbPool),
		ProviderRepo:     newPgxProviderRepository(dbPool),
		CommitmentRepo:   newPgxCommitmentRepository(dbPool),
		WastageRepo:      newPgxWastageRepository(dbPool),
	}
}
