package repositories

import (
	"context"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
)

// UserReader defines read operations for user data.
type UserReader interface {
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	FindUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// UserWriter defines write operations for user data.
type UserWriter interface {
	SaveUser(ctx context.Context, user domain.User) error
	UpdateUser(ctx context.Context, user domain.User) error
	DeleteUser(ctx context.Context, userID string) error

	// UpdateDefaultOrganization persists the user's pinned tenant preference.
	UpdateDefaultOrganization(ctx context.Context, userID string, organizationID *string) error

	// UpdateRefreshTokenHash stores the hash of the user's current refresh
	// token; nil clears it (logout).
	UpdateRefreshTokenHash(ctx context.Context, userID string, hash *string) error
}

// UserRepositoryFacade combines all user repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
