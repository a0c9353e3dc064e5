package dto

import (
	"time"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
)

// LoginRequest defines the credentials for password login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the access token; the refresh token travels in an
// http-only cookie.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// RegisterRequest defines the data for creating a new user account.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

// UserResponse defines data returned for a user.
type UserResponse struct {
	UserID                string    `json:"userID"`
	Username              string    `json:"username"`
	Name                  string    `json:"name"`
	DefaultOrganizationID *string   `json:"defaultOrganizationID,omitempty"`
	CreatedAt             time.Time `json:"createdAt"`
}

// ToUserResponse converts domain.User to DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:                u.UserID,
		Username:              u.Username,
		Name:                  u.Name,
		DefaultOrganizationID: u.DefaultOrganizationID,
		CreatedAt:             u.CreatedAt,
	}
}

// UpdateUserRequest defines the mutable user fields.
type UpdateUserRequest struct {
	Name *string `json:"name"`
}

// ListUsersResponse wraps a list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToListUsersResponse converts a slice of domain.User to DTO.
func ToListUsersResponse(users []domain.User) ListUsersResponse {
	list := make([]UserResponse, len(users))
	for i, u := range users {
		list[i] = ToUserResponse(&u)
	}
	return ListUsersResponse{Users: list}
}
