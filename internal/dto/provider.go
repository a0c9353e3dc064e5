package dto

import (
	"time"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
)

// CreateProviderRequest defines data for creating a provider contact.
type CreateProviderRequest struct {
	Name  string `json:"name" binding:"required,notblank"`
	Phone string `json:"phone"`
	Email string `json:"email" binding:"omitempty,email"`
	Notes string `json:"notes"`
}

// UpdateProviderRequest defines the mutable provider fields.
type UpdateProviderRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email" binding:"omitempty,email"`
	Notes *string `json:"notes"`
}

// ProviderResponse defines data returned for a provider.
type ProviderResponse struct {
	ProviderID string    `json:"providerID"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Notes      string    `json:"notes"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToProviderResponse converts domain.Provider to DTO.
func ToProviderResponse(p *domain.Provider) ProviderResponse {
	return ProviderResponse{
		ProviderID: p.ProviderID,
		Name:       p.Name,
		Phone:      p.Phone,
		Email:      p.Email,
		Notes:      p.Notes,
		IsActive:   p.IsActive,
		CreatedAt:  p.CreatedAt,
	}
}

// ListProvidersResponse wraps a list of providers.
type ListProvidersResponse struct {
	Providers []ProviderResponse `json:"providers"`
}

// ToListProvidersResponse converts a slice of domain.Provider to DTO.
func ToListProvidersResponse(providers []domain.Provider) ListProvidersResponse {
	list := make([]ProviderResponse, len(providers))
	for i, p := range providers {
		list[i] = ToProviderResponse(&p)
	}
	return ListProvidersResponse{Providers: list}
}
