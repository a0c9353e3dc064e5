package domain

// Provider is a tenant-scoped supplier contact. Providers are soft-deleted:
// IsActive=false keeps historical references (expenses, commitments) intact.
type Provider struct {
	ProviderID     string `json:"providerID"`
	OrganizationID string `json:"organizationID"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Notes          string `json:"notes"`
	IsActive       bool   `json:"isActive"`
	AuditFields
}
