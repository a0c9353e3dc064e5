package services_test

import (
	"context"
	"testing"

	"github.com/commerceos/commerceos_backend/internal/apperrors"
	"github.com/commerceos/commerceos_backend/internal/core/domain"
	"github.com/commerceos/commerceos_backend/internal/core/services"
	"github.com/commerceos/commerceos_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock OrganizationRepository ---
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindOrganizationByID(ctx context.Context, organizationID string) (*domain.Organization, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) ListOrganizationsByUserID(ctx context.Context, userID string) ([]domain.Organization, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) SaveOrganizationBundle(ctx context.Context, org domain.Organization, membership domain.UserOrganization, session domain.CashSession) error {
	args := m.Called(ctx, org, membership, session)
	return args.Error(0)
}

func (m *MockOrganizationRepository) UpdateOrganization(ctx context.Context, org domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) AddUserToOrganization(ctx context.Context, membership domain.UserOrganization) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockOrganizationRepository) FindUserOrganizationRole(ctx context.Context, userID, organizationID string) (*domain.UserOrganization, error) {
	args := m.Called(ctx, userID, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserOrganization), args.Error(1)
}

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateDefaultOrganization(ctx context.Context, userID string, organizationID *string) error {
	args := m.Called(ctx, userID, organizationID)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshTokenHash(ctx context.Context, userID string, hash *string) error {
	args := m.Called(ctx, userID, hash)
	return args.Error(0)
}

// --- Mock BlobStore ---
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, objectName, contentType, data)
	return args.String(0), args.Error(1)
}

// allowAllAuthorizer grants every action; used by tests that are not about
// authorization.
type allowAllAuthorizer struct{}

func (allowAllAuthorizer) AuthorizeUserAction(ctx context.Context, userID, organizationID string, requiredRole domain.UserOrganizationRole) error {
	return nil
}

// --- Test Suite ---
type OrganizationServiceTestSuite struct {
	suite.Suite
	mockOrgRepo  *MockOrganizationRepository
	mockUserRepo *MockUserRepository
	mockLogos    *MockBlobStore
	service      *services.OrganizationService
}

func (suite *OrganizationServiceTestSuite) SetupTest() {
	suite.mockOrgRepo = new(MockOrganizationRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockLogos = new(MockBlobStore)
	suite.service = services.NewOrganizationService(suite.mockOrgRepo, suite.mockUserRepo, suite.mockLogos).(*services.OrganizationService)
}

func (suite *OrganizationServiceTestSuite) TestCreateOrganization_SavesBundleAtomically() {
	ctx := context.Background()
	creatorID := uuid.NewString()
	req := dto.CreateOrganizationRequest{Name: "Kiosco Centro"}

	suite.mockOrgRepo.On("SaveOrganizationBundle", ctx,
		mock.MatchedBy(func(o domain.Organization) bool {
			return o.Name == req.Name && o.IsActive && o.Settings.Version == domain.SettingsVersion && o.CreatedBy == creatorID
		}),
		mock.MatchedBy(func(m domain.UserOrganization) bool {
			return m.UserID == creatorID && m.Role == domain.RoleAdmin
		}),
		mock.MatchedBy(func(s domain.CashSession) bool {
			return s.Status == domain.SessionOpen && s.Version == 1
		}),
	).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, creatorID).Return(&domain.User{UserID: creatorID}, nil).Once()
	suite.mockUserRepo.On("UpdateDefaultOrganization", ctx, creatorID, mock.Anything).Return(nil).Once()

	org, err := suite.service.CreateOrganization(ctx, req, creatorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(org)
	suite.Equal("arqueo", org.Settings.ReportPrefix)
	suite.Equal("$", org.Settings.CurrencySymbol)
	suite.mockOrgRepo.AssertExpectations(suite.T())
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *OrganizationServiceTestSuite) TestCreateOrganization_KeepsExistingPin() {
	ctx := context.Background()
	creatorID := uuid.NewString()
	existingOrg := uuid.NewString()

	suite.mockOrgRepo.On("SaveOrganizationBundle", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, creatorID).Return(&domain.User{UserID: creatorID, DefaultOrganizationID: &existingOrg}, nil).Once()

	_, err := suite.service.CreateOrganization(ctx, dto.CreateOrganizationRequest{Name: "Second"}, creatorID)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateDefaultOrganization", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OrganizationServiceTestSuite) TestResolveActiveOrganization_PinnedWins() {
	ctx := context.Background()
	userID := uuid.NewString()
	first := domain.Organization{OrganizationID: uuid.NewString(), Name: "First"}
	pinned := domain.Organization{OrganizationID: uuid.NewString(), Name: "Pinned"}

	suite.mockOrgRepo.On("ListOrganizationsByUserID", ctx, userID).Return([]domain.Organization{first, pinned}, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(&domain.User{UserID: userID, DefaultOrganizationID: &pinned.OrganizationID}, nil).Once()

	org, err := suite.service.ResolveActiveOrganization(ctx, userID)

	suite.Require().NoError(err)
	suite.Equal(pinned.OrganizationID, org.OrganizationID)
}

func (suite *OrganizationServiceTestSuite) TestResolveActiveOrganization_StalePinFallsBackToFirst() {
	ctx := context.Background()
	userID := uuid.NewString()
	stale := uuid.NewString()
	first := domain.Organization{OrganizationID: uuid.NewString(), Name: "First"}

	suite.mockOrgRepo.On("ListOrganizationsByUserID", ctx, userID).Return([]domain.Organization{first}, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(&domain.User{UserID: userID, DefaultOrganizationID: &stale}, nil).Once()

	org, err := suite.service.ResolveActiveOrganization(ctx, userID)

	suite.Require().NoError(err)
	suite.Equal(first.OrganizationID, org.OrganizationID)
}

func (suite *OrganizationServiceTestSuite) TestResolveActiveOrganization_NoMemberships() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockOrgRepo.On("ListOrganizationsByUserID", ctx, userID).Return([]domain.Organization{}, nil).Once()

	org, err := suite.service.ResolveActiveOrganization(ctx, userID)

	suite.Require().Error(err)
	suite.Nil(org)
	suite.ErrorIs(err, apperrors.ErrNoOrganization)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "FindUserByID", mock.Anything, mock.Anything)
}

func (suite *OrganizationServiceTestSuite) TestAuthorizeUserAction_RoleRanking() {
	ctx := context.Background()
	userID := uuid.NewString()
	orgID := uuid.NewString()

	suite.mockOrgRepo.On("FindUserOrganizationRole", ctx, userID, orgID).
		Return(&domain.UserOrganization{UserID: userID, OrganizationID: orgID, Role: domain.RoleMember}, nil)

	suite.NoError(suite.service.AuthorizeUserAction(ctx, userID, orgID, domain.RoleReadOnly))
	suite.NoError(suite.service.AuthorizeUserAction(ctx, userID, orgID, domain.RoleMember))
	suite.ErrorIs(suite.service.AuthorizeUserAction(ctx, userID, orgID, domain.RoleAdmin), apperrors.ErrForbidden)
}

func (suite *OrganizationServiceTestSuite) TestAuthorizeUserAction_NonMemberIsForbidden() {
	ctx := context.Background()
	userID := uuid.NewString()
	orgID := uuid.NewString()

	suite.mockOrgRepo.On("FindUserOrganizationRole", ctx, userID, orgID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.AuthorizeUserAction(ctx, userID, orgID, domain.RoleReadOnly)

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *OrganizationServiceTestSuite) TestUpdateOrganization_MergesSettings() {
	ctx := context.Background()
	userID := uuid.NewString()
	orgID := uuid.NewString()

	suite.mockOrgRepo.On("FindUserOrganizationRole", ctx, userID, orgID).
		Return(&domain.UserOrganization{Role: domain.RoleAdmin}, nil).Once()
	suite.mockOrgRepo.On("FindOrganizationByID", ctx, orgID).
		Return(&domain.Organization{OrganizationID: orgID, Name: "Old"}, nil).Once()
	suite.mockOrgRepo.On("UpdateOrganization", ctx, mock.MatchedBy(func(o domain.Organization) bool {
		return o.Settings.CommissionQRPct == 2.5 && o.Settings.CurrencySymbol == "$" && o.Settings.Version == domain.SettingsVersion
	})).Return(nil).Once()

	org, err := suite.service.UpdateOrganization(ctx, userID, orgID, dto.UpdateOrganizationRequest{
		Settings: &dto.SettingsRequest{CommissionQRPct: 2.5},
	})

	suite.Require().NoError(err)
	suite.Equal(2.5, org.Settings.CommissionQRPct)
	suite.Equal("arqueo", org.Settings.ReportPrefix)
	suite.mockOrgRepo.AssertExpectations(suite.T())
}

func TestOrganizationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrganizationServiceTestSuite))
}
