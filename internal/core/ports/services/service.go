package services

// ServiceContainer holds instances of all the application services. This is
// the main entry point for accessing service functionality and is what gets
// handed to the handlers.
type ServiceContainer struct {
	User         UserSvcFacade
	Organization OrganizationSvcFacade
	Session      SessionSvcFacade
	Audit        AuditSvcFacade
	Product      ProductSvcFacade
	Supply       SupplySvcFacade
	Provider     ProviderSvcFacade
	Commitment   CommitmentSvcFacade
	Wastage      WastageSvcFacade
	Reporting    ReportingSvcFacade
}
