package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"time"

	"github.com/commerceos/commerceos_backend/internal/apperrors"
	"github.com/commerceos/commerceos_backend/internal/core/domain"
	portsrepo "github.com/commerceos/commerceos_backend/internal/core/ports/repositories"
	portssvc "github.com/commerceos/commerceos_backend/internal/core/ports/services"
	"github.com/commerceos/commerceos_backend/internal/dto"
	"github.com/commerceos/commerceos_backend/internal/utils"
	"github.com/google/uuid"
)

// OrganizationService handles business logic for organizations, memberships
// and tenant resolution.
type OrganizationService struct {
	BaseService
	orgRepo  portsrepo.OrganizationRepositoryFacade
	userRepo portsrepo.UserRepositoryFacade
	logos    portssvc.BlobStore
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(or portsrepo.OrganizationRepositoryFacade, ur portsrepo.UserRepositoryFacade, logos portssvc.BlobStore) portssvc.OrganizationSvcFacade {
	return &OrganizationService{
		orgRepo:  or,
		userRepo: ur,
		logos:    logos,
	}
}

var _ portssvc.OrganizationSvcFacade = (*OrganizationService)(nil)

// AuthorizeUserAction checks that userID holds at least requiredRole in the
// organization. READONLY < MEMBER < ADMIN.
func (s *OrganizationService) AuthorizeUserAction(ctx context.Context, userID, organizationID string, requiredRole domain.UserOrganizationRole) error {
	membership, err := s.orgRepo.FindUserOrganizationRole(ctx, userID, organizationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: user is not a member of this organization", apperrors.ErrForbidden)
		}
		return fmt.Errorf("failed to check organization membership: %w", err)
	}
	if roleRank(membership.Role) < roleRank(requiredRole) {
		return fmt.Errorf("%w: requires %s role", apperrors.ErrForbidden, requiredRole)
	}
	return nil
}

func roleRank(role domain.UserOrganizationRole) int {
	switch role {
	case domain.RoleAdmin:
		return 3
	case domain.RoleMember:
		return 2
	case domain.RoleReadOnly:
		return 1
	}
	return 0
}

// CreateOrganization creates the organization, the creator's ADMIN membership
// and the baseline OPEN cash session in one repository transaction. The new
// organization becomes the creator's pinned tenant when they had none.
func (s *OrganizationService) CreateOrganization(ctx context.Context, req dto.CreateOrganizationRequest, creatorUserID string) (*domain.Organization, error) {
	now := time.Now()
	org := domain.Organization{
		OrganizationID: uuid.NewString(),
		Name:           req.Name,
		IsActive:       true,
		Settings:       domain.DefaultSettings(),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	membership := domain.UserOrganization{
		UserID:         creatorUserID,
		OrganizationID: org.OrganizationID,
		Role:           domain.RoleAdmin,
		JoinedAt:       now,
	}
	session := domain.CashSession{
		SessionID:      uuid.NewString(),
		OrganizationID: org.OrganizationID,
		SessionDate:    now.Truncate(24 * time.Hour),
		Status:         domain.SessionOpen,
		Version:        1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.orgRepo.SaveOrganizationBundle(ctx, org, membership, session); err != nil {
		s.LogError(ctx, err, "Failed to save organization bundle", slog.String("organization_name", req.Name))
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	// Pin the new tenant for users that had none yet; losing this update is
	// harmless since resolution falls back to the first membership.
	creator, err := s.userRepo.FindUserByID(ctx, creatorUserID)
	if err == nil && creator.DefaultOrganizationID == nil {
		if err := s.userRepo.UpdateDefaultOrganization(ctx, creatorUserID, &org.OrganizationID); err != nil {
			s.LogError(ctx, err, "Failed to pin default organization for creator", slog.String("user_id", creatorUserID))
		}
	}

	s.LogInfo(ctx, "Organization created", slog.String("organization_id", org.OrganizationID), slog.String("creator_user_id", creatorUserID))
	return &org, nil
}

// FindOrganizationByID returns the organization after a membership check.
func (s *OrganizationService) FindOrganizationByID(ctx context.Context, userID, organizationID string) (*domain.Organization, error) {
	if err := s.AuthorizeUserAction(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	org.Settings = org.Settings.Merge()
	return org, nil
}

// ListUserOrganizations returns the caller's organizations in membership order.
func (s *OrganizationService) ListUserOrganizations(ctx context.Context, userID string) ([]domain.Organization, error) {
	orgs, err := s.orgRepo.ListOrganizationsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	for i := range orgs {
		orgs[i].Settings = orgs[i].Settings.Merge()
	}
	return orgs, nil
}

// UpdateOrganization applies name/settings changes; ADMIN only.
func (s *OrganizationService) UpdateOrganization(ctx context.Context, userID, organizationID string, req dto.UpdateOrganizationRequest) (*domain.Organization, error) {
	if err := s.AuthorizeUserAction(ctx, userID, organizationID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.Settings != nil {
		org.Settings = req.Settings.ToDomainSettings()
	} else {
		org.Settings = org.Settings.Merge()
	}
	org.LastUpdatedAt = time.Now()
	org.LastUpdatedBy = userID

	if err := s.orgRepo.UpdateOrganization(ctx, *org); err != nil {
		s.LogError(ctx, err, "Failed to update organization", slog.String("organization_id", organizationID))
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}
	return org, nil
}

// AddUserToOrganization adds targetUserID with role; the caller must be ADMIN.
func (s *OrganizationService) AddUserToOrganization(ctx context.Context, addingUserID, targetUserID, organizationID string, role domain.UserOrganizationRole) error {
	if err := s.AuthorizeUserAction(ctx, addingUserID, organizationID, domain.RoleAdmin); err != nil {
		return err
	}

	if _, err := s.userRepo.FindUserByID(ctx, targetUserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: target user not found", apperrors.ErrValidation)
		}
		return fmt.Errorf("failed to look up target user: %w", err)
	}

	membership := domain.UserOrganization{
		UserID:         targetUserID,
		OrganizationID: organizationID,
		Role:           role,
		JoinedAt:       time.Now(),
	}
	if err := s.orgRepo.AddUserToOrganization(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to add user to organization",
			slog.String("target_user_id", targetUserID), slog.String("organization_id", organizationID))
		return err
	}

	s.LogInfo(ctx, "User added to organization",
		slog.String("target_user_id", targetUserID),
		slog.String("organization_id", organizationID),
		slog.String("role", string(role)))
	return nil
}

// ResolveActiveOrganization resolves the caller's tenant. The pinned
// preference wins when it still points at a live membership; otherwise the
// first membership is used; a user with no memberships gets ErrNoOrganization.
func (s *OrganizationService) ResolveActiveOrganization(ctx context.Context, userID string) (*domain.Organization, error) {
	orgs, err := s.orgRepo.ListOrganizationsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	if len(orgs) == 0 {
		return nil, apperrors.ErrNoOrganization
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if user.DefaultOrganizationID != nil {
		for i := range orgs {
			if orgs[i].OrganizationID == *user.DefaultOrganizationID {
				orgs[i].Settings = orgs[i].Settings.Merge()
				return &orgs[i], nil
			}
		}
		s.LogDebug(ctx, "Pinned organization is stale, falling back to first membership",
			slog.String("user_id", userID), slog.String("pinned_organization_id", *user.DefaultOrganizationID))
	}

	orgs[0].Settings = orgs[0].Settings.Merge()
	return &orgs[0], nil
}

// SwitchActiveOrganization pins organizationID as the caller's tenant
// preference after verifying membership.
func (s *OrganizationService) SwitchActiveOrganization(ctx context.Context, userID, organizationID string) error {
	if err := s.AuthorizeUserAction(ctx, userID, organizationID, domain.RoleReadOnly); err != nil {
		return err
	}
	if err := s.userRepo.UpdateDefaultOrganization(ctx, userID, &organizationID); err != nil {
		s.LogError(ctx, err, "Failed to switch active organization", slog.String("user_id", userID))
		return fmt.Errorf("failed to switch active organization: %w", err)
	}
	return nil
}

// UploadLogo decodes the payload, stores it under a randomized object name and
// persists the public URL on the organization.
func (s *OrganizationService) UploadLogo(ctx context.Context, userID, organizationID string, req dto.UploadLogoRequest) (string, error) {
	if err := s.AuthorizeUserAction(ctx, userID, organizationID, domain.RoleAdmin); err != nil {
		return "", err
	}

	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return "", fmt.Errorf("%w: logo data is not valid base64", apperrors.ErrValidation)
	}

	ext := filepath.Ext(req.FileName)
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	random, err := utils.GenerateSecureRandomString(8)
	if err != nil {
		return "", fmt.Errorf("failed to generate object name: %w", err)
	}
	objectName := fmt.Sprintf("logos/%s/%s%s", organizationID, random, ext)

	url, err := s.logos.Upload(ctx, objectName, contentType, data)
	if err != nil {
		s.LogError(ctx, err, "Failed to upload logo", slog.String("organization_id", organizationID))
		return "", fmt.Errorf("failed to upload logo: %w", err)
	}

	org, err := s.orgRepo.FindOrganizationByID(ctx, organizationID)
	if err != nil {
		return "", err
	}
	org.LogoURL = &url
	org.LastUpdatedAt = time.Now()
	org.LastUpdatedBy = userID
	if err := s.orgRepo.UpdateOrganization(ctx, *org); err != nil {
		s.LogError(ctx, err, "Failed to persist logo URL", slog.String("organization_id", organizationID))
		return "", fmt.Errorf("failed to persist logo URL: %w", err)
	}

	s.LogInfo(ctx, "Organization logo updated", slog.String("organization_id", organizationID))
	return url, nil
}
