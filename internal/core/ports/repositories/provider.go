package repositories

// RepositoryProvider holds instances of all the data repositories, wired once
// at startup and handed to the service layer.
type RepositoryProvider struct {
	UserRepo         UserRepositoryFacade
	OrganizationRepo OrganizationRepositoryFacade
	SessionRepo      SessionRepositoryFacade
	AuditRepo        AuditRepositoryFacade
	ProductRepo      ProductRepositoryFacade
	SupplyRepo       SupplyRepositoryFacade
	ProviderRepo     ProviderRepositoryFacade
	CommitmentRepo   CommitmentRepositoryFacade
	WastageRepo      WastageRepositoryFacade
}
