package services

import (
	"context"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
	"github.com/commerceos/commerceos_backend/internal/dto"
)

// UserSvcFacade is the full user service interface.
type UserSvcFacade interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, updatedBy string) (*domain.User, error)
	DeleteUser(ctx context.Context, userID string) error

	// FindOrCreateGoogleUser links or creates an account for a Google
	// identity, returning the local user.
	FindOrCreateGoogleUser(ctx context.Context, googleID, email, name string) (*domain.User, error)

	// StoreRefreshToken hashes and persists the user's refresh token;
	// ValidateRefreshToken compares a presented token against the stored
	// hash; ClearRefreshToken logs the user out.
	StoreRefreshToken(ctx context.Context, userID, refreshToken string) error
	ValidateRefreshToken(ctx context.Context, userID, refreshToken string) error
	ClearRefreshToken(ctx context.Context, userID string) error
}
