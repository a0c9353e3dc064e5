package dto

import (
	"time"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
)

// CreateOrganizationRequest defines data for creating a new organization.
type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required,notblank"`
}

// UpdateOrganizationRequest defines the mutable organization fields.
type UpdateOrganizationRequest struct {
	Name     *string          `json:"name"`
	Settings *SettingsRequest `json:"settings"`
}

// SettingsRequest is the typed settings payload.
type SettingsRequest struct {
	CommissionQRPct     float64 `json:"commissionQRPct" binding:"gte=0,lte=100"`
	CommissionDebitPct  float64 `json:"commissionDebitPct" binding:"gte=0,lte=100"`
	CommissionCreditPct float64 `json:"commissionCreditPct" binding:"gte=0,lte=100"`
	CurrencySymbol      string  `json:"currencySymbol"`
	ReportPrefix        string  `json:"reportPrefix"`
}

// ToDomainSettings converts the request into merged organization settings.
func (r SettingsRequest) ToDomainSettings() domain.OrganizationSettings {
	return domain.OrganizationSettings{
		CommissionQRPct:     r.CommissionQRPct,
		CommissionDebitPct:  r.CommissionDebitPct,
		CommissionCreditPct: r.CommissionCreditPct,
		CurrencySymbol:      r.CurrencySymbol,
		ReportPrefix:        r.ReportPrefix,
	}.Merge()
}

// OrganizationResponse defines data returned for an organization.
type OrganizationResponse struct {
	OrganizationID string                      `json:"organizationID"`
	Name           string                      `json:"name"`
	LogoURL        *string                     `json:"logoURL,omitempty"`
	IsActive       bool                        `json:"isActive"`
	Settings       domain.OrganizationSettings `json:"settings"`
	CreatedAt      time.Time                   `json:"createdAt"`
	CreatedBy      string                      `json:"createdBy"`
}

// ToOrganizationResponse converts domain.Organization to DTO.
func ToOrganizationResponse(o *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		OrganizationID: o.OrganizationID,
		Name:           o.Name,
		LogoURL:        o.LogoURL,
		IsActive:       o.IsActive,
		Settings:       o.Settings,
		CreatedAt:      o.CreatedAt,
		CreatedBy:      o.CreatedBy,
	}
}

// ListOrganizationsResponse wraps a list of organizations.
type ListOrganizationsResponse struct {
	Organizations []OrganizationResponse `json:"organizations"`
}

// ToListOrganizationsResponse converts a slice of domain.Organization to DTO.
func ToListOrganizationsResponse(orgs []domain.Organization) ListOrganizationsResponse {
	list := make([]OrganizationResponse, len(orgs))
	for i, o := range orgs {
		list[i] = ToOrganizationResponse(&o)
	}
	return ListOrganizationsResponse{Organizations: list}
}

// AddUserToOrganizationRequest defines data for adding a member.
type AddUserToOrganizationRequest struct {
	UserID string                      `json:"userID" binding:"required"`
	Role   domain.UserOrganizationRole `json:"role" binding:"required,oneof=ADMIN MEMBER READONLY"`
}

// UploadLogoRequest carries a base64 encoded logo image.
type UploadLogoRequest struct {
	FileName string `json:"fileName" binding:"required"`
	Data     string `json:"data" binding:"required"` // base64
}

// UploadLogoResponse returns the public URL of the stored logo.
type UploadLogoResponse struct {
	LogoURL string `json:"logoURL"`
}
