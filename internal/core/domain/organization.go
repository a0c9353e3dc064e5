package domain

import "time"

// Organization represents an isolated tenant: every catalog and transactional
// record is partitioned by its OrganizationID.
type Organization struct {
	OrganizationID string               `json:"organizationID"`
	Name           string               `json:"name"`
	LogoURL        *string              `json:"logoURL"`
	IsActive       bool                 `json:"isActive"`
	Settings       OrganizationSettings `json:"settings"`
	AuditFields
}

// UserOrganizationRole defines the possible roles a user can have within an organization.
type UserOrganizationRole string

const (
	RoleAdmin    UserOrganizationRole = "ADMIN"
	RoleMember   UserOrganizationRole = "MEMBER"
	RoleReadOnly UserOrganizationRole = "READONLY"
)

// UserOrganization represents the membership of a User in an Organization.
type UserOrganization struct {
	UserID         string               `json:"userID"`
	UserName       string               `json:"userName"`
	OrganizationID string               `json:"organizationID"`
	Role           UserOrganizationRole `json:"role"`
	JoinedAt       time.Time            `json:"joinedAt"`
}

// SettingsVersion is the current OrganizationSettings schema version. Stored
// alongside the settings so older rows can be migrated explicitly instead of
// merged ad hoc at read time.
const SettingsVersion = 1

// OrganizationSettings is the typed per-tenant configuration.
type OrganizationSettings struct {
	Version int `json:"version"`
	// Commission percentages applied to sales per payment method, e.g. 2.5
	// means 2.5% of the sale amount.
	CommissionQRPct     float64 `json:"commissionQRPct"`
	CommissionDebitPct  float64 `json:"commissionDebitPct"`
	CommissionCreditPct float64 `json:"commissionCreditPct"`
	CurrencySymbol      string  `json:"currencySymbol"`
	ReportPrefix        string  `json:"reportPrefix"`
}

// DefaultSettings returns the settings applied to a freshly created organization.
func DefaultSettings() OrganizationSettings {
	return OrganizationSettings{
		Version:             SettingsVersion,
		CommissionQRPct:     0,
		CommissionDebitPct:  0,
		CommissionCreditPct: 0,
		CurrencySymbol:      "$",
		ReportPrefix:        "arqueo",
	}
}

// Merge overlays s onto the defaults, filling zero-valued display fields and
// stamping the current schema version. Numeric commission rates are taken as-is
// (zero is a valid rate).
func (s OrganizationSettings) Merge() OrganizationSettings {
	merged := s
	defaults := DefaultSettings()
	if merged.CurrencySymbol == "" {
		merged.CurrencySymbol = defaults.CurrencySymbol
	}
	if merged.ReportPrefix == "" {
		merged.ReportPrefix = defaults.ReportPrefix
	}
	merged.Version = SettingsVersion
	return merged
}
