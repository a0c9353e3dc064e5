package domain

// User represents an authenticated account holder.
type User struct {
	UserID       string  `json:"userID"`
	Username     string  `json:"username"`
	Name         string  `json:"name"`
	PasswordHash string  `json:"-"`
	GoogleID     *string `json:"-"` // Set when the account was linked via Google OAuth
	// DefaultOrganizationID is the user's pinned tenant preference. Resolution
	// falls back to the first membership when this is unset or stale.
	DefaultOrganizationID *string `json:"defaultOrganizationID"`
	RefreshTokenHash      *string `json:"-"`
	AuditFields
}
