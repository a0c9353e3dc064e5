package services

import (
	portsrepo "github.com/commerceos/commerceos_backend/internal/core/ports/repositories"
	portssvc "github.com/commerceos/commerceos_backend/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos *portsrepo.RepositoryProvider, logosStore, reportsStore portssvc.BlobStore) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Organization service first: it is the membership authorizer every other
	// tenant-scoped service depends on.
	container.Organization = NewOrganizationService(repos.OrganizationRepo, repos.UserRepo, logosStore)
	authorizer := portssvc.OrganizationAuthorizerSvc(container.Organization)

	exporter := NewReportExportService(reportsStore)

	container.User = NewUserService(repos.UserRepo)
	container.Session = NewSessionService(authorizer, repos.SessionRepo, repos.AuditRepo, repos.OrganizationRepo, repos.ProviderRepo, exporter)
	container.Audit = NewAuditService(authorizer, repos.AuditRepo, repos.OrganizationRepo, exporter)
	container.Product = NewProductService(authorizer, repos.ProductRepo)
	container.Supply = NewSupplyService(authorizer, repos.SupplyRepo)
	container.Provider = NewProviderService(authorizer, repos.ProviderRepo)
	container.Commitment = NewCommitmentService(authorizer, repos.CommitmentRepo, repos.SessionRepo, repos.ProviderRepo)
	container.Wastage = NewWastageService(authorizer, repos.WastageRepo)
	container.Reporting = NewReportingService(authorizer, repos.AuditRepo, repos.WastageRepo)

	return container
}
