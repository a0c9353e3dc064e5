package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/commerceos/commerceos_backend/internal/apperrors"
	"github.com/commerceos/commerceos_backend/internal/core/domain"
	portssvc "github.com/commerceos/commerceos_backend/internal/core/ports/services"
	"github.com/commerceos/commerceos_backend/internal/core/services"
	"github.com/commerceos/commerceos_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CommitmentRepository ---
type MockCommitmentRepository struct {
	mock.Mock
}

func (m *MockCommitmentRepository) FindCommitmentByID(ctx context.Context, organizationID, commitmentID string) (*domain.Commitment, error) {
	args := m.Called(ctx, organizationID, commitmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Commitment), args.Error(1)
}

func (m *MockCommitmentRepository) ListCommitments(ctx context.Context, organizationID string, status *domain.CommitmentStatus) ([]domain.Commitment, error) {
	args := m.Called(ctx, organizationID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Commitment), args.Error(1)
}

func (m *MockCommitmentRepository) SaveCommitment(ctx context.Context, commitment domain.Commitment) error {
	args := m.Called(ctx, commitment)
	return args.Error(0)
}

func (m *MockCommitmentRepository) UpdateCommitment(ctx context.Context, commitment domain.Commitment) error {
	args := m.Called(ctx, commitment)
	return args.Error(0)
}

func (m *MockCommitmentRepository) DeleteCommitment(ctx context.Context, organizationID, commitmentID string) error {
	args := m.Called(ctx, organizationID, commitmentID)
	return args.Error(0)
}

func (m *MockCommitmentRepository) MarkCommitmentPaid(ctx context.Context, organizationID, commitmentID string, paidAt time.Time, paidBy string, expense *domain.SessionEntry) error {
	args := m.Called(ctx, organizationID, commitmentID, paidAt, paidBy, expense)
	return args.Error(0)
}

// --- Test Suite ---
type CommitmentServiceTestSuite struct {
	suite.Suite
	mockCommitmentRepo *MockCommitmentRepository
	mockSessionRepo    *MockSessionRepository
	mockProviderRepo   *MockProviderRepository
	service            portssvc.CommitmentSvcFacade
	orgID              string
	userID             string
}

func (suite *CommitmentServiceTestSuite) SetupTest() {
	suite.mockCommitmentRepo = new(MockCommitmentRepository)
	suite.mockSessionRepo = new(MockSessionRepository)
	suite.mockProviderRepo = new(MockProviderRepository)
	suite.service = services.NewCommitmentService(
		allowAllAuthorizer{},
		suite.mockCommitmentRepo,
		suite.mockSessionRepo,
		suite.mockProviderRepo,
	)
	suite.orgID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *CommitmentServiceTestSuite) pendingCommitment() *domain.Commitment {
	return &domain.Commitment{
		CommitmentID:   uuid.NewString(),
		OrganizationID: suite.orgID,
		Description:    "Factura harina",
		Amount:         decimal.NewFromInt(1500),
		DueDate:        time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Status:         domain.CommitmentPending,
	}
}

func (suite *CommitmentServiceTestSuite) TestMarkPaid_WithoutCash() {
	ctx := context.Background()
	commitment := suite.pendingCommitment()
	paid := *commitment
	paid.Status = domain.CommitmentPaid

	suite.mockCommitmentRepo.On("FindCommitmentByID", ctx, suite.orgID, commitment.CommitmentID).
		Return(commitment, nil).Once()
	suite.mockCommitmentRepo.On("MarkCommitmentPaid", ctx, suite.orgID, commitment.CommitmentID,
		mock.AnythingOfType("time.Time"), suite.userID, (*domain.SessionEntry)(nil)).Return(nil).Once()
	suite.mockCommitmentRepo.On("FindCommitmentByID", ctx, suite.orgID, commitment.CommitmentID).
		Return(&paid, nil).Once()

	result, err := suite.service.MarkPaid(ctx, suite.userID, suite.orgID, commitment.CommitmentID, dto.MarkPaidRequest{})

	suite.Require().NoError(err)
	suite.Equal(domain.CommitmentPaid, result.Status)
	suite.mockSessionRepo.AssertNotCalled(suite.T(), "FindOpenSession", mock.Anything, mock.Anything)
}

func (suite *CommitmentServiceTestSuite) TestMarkPaid_WithCashPostsExpenseAtomically() {
	ctx := context.Background()
	commitment := suite.pendingCommitment()
	providerID := uuid.NewString()
	commitment.ProviderID = &providerID
	paid := *commitment
	paid.Status = domain.CommitmentPaid
	session := &domain.CashSession{SessionID: uuid.NewString(), OrganizationID: suite.orgID, Status: domain.SessionOpen}

	suite.mockCommitmentRepo.On("FindCommitmentByID", ctx, suite.orgID, commitment.CommitmentID).
		Return(commitment, nil).Once()
	suite.mockSessionRepo.On("FindOpenSession", ctx, suite.orgID).Return(session, nil).Once()
	suite.mockProviderRepo.On("FindProviderByID", ctx, suite.orgID, providerID).
		Return(&domain.Provider{ProviderID: providerID, Name: "Molinos Río"}, nil).Once()
	suite.mockCommitmentRepo.On("MarkCommitmentPaid", ctx, suite.orgID, commitment.CommitmentID,
		mock.AnythingOfType("time.Time"), suite.userID,
		mock.MatchedBy(func(e *domain.SessionEntry) bool {
			return e != nil &&
				e.SessionID == session.SessionID &&
				e.Type == domain.EntryExpense &&
				e.Amount.Equal(commitment.Amount) &&
				e.Category == domain.CategoryBusiness &&
				e.ProviderName == "Molinos Río"
		})).Return(nil).Once()
	suite.mockCommitmentRepo.On("FindCommitmentByID", ctx, suite.orgID, commitment.CommitmentID).
		Return(&paid, nil).Once()

	result, err := suite.service.MarkPaid(ctx, suite.userID, suite.orgID, commitment.CommitmentID, dto.MarkPaidRequest{UseCash: true})

	suite.Require().NoError(err)
	suite.Equal(domain.CommitmentPaid, result.Status)
	suite.mockCommitmentRepo.AssertExpectations(suite.T())
}

func (suite *CommitmentServiceTestSuite) TestMarkPaid_WithCashNoOpenSession() {
	ctx := context.Background()
	commitment := suite.pendingCommitment()

	suite.mockCommitmentRepo.On("FindCommitmentByID", ctx, suite.orgID, commitment.CommitmentID).
		Return(commitment, nil).Once()
	suite.mockSessionRepo.On("FindOpenSession", ctx, suite.orgID).Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.MarkPaid(ctx, suite.userID, suite.orgID, commitment.CommitmentID, dto.MarkPaidRequest{UseCash: true})

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrSessionClosed)
	suite.mockCommitmentRepo.AssertNotCalled(suite.T(), "MarkCommitmentPaid",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CommitmentServiceTestSuite) TestMarkPaid_AlreadyPaid() {
	ctx := context.Background()
	commitment := suite.pendingCommitment()
	commitment.Status = domain.CommitmentPaid

	suite.mockCommitmentRepo.On("FindCommitmentByID", ctx, suite.orgID, commitment.CommitmentID).
		Return(commitment, nil).Once()

	result, err := suite.service.MarkPaid(ctx, suite.userID, suite.orgID, commitment.CommitmentID, dto.MarkPaidRequest{})

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *CommitmentServiceTestSuite) TestMarkPaid_RepoFailureLeavesPending() {
	ctx := context.Background()
	commitment := suite.pendingCommitment()
	session := &domain.CashSession{SessionID: uuid.NewString(), OrganizationID: suite.orgID, Status: domain.SessionOpen}

	suite.mockCommitmentRepo.On("FindCommitmentByID", ctx, suite.orgID, commitment.CommitmentID).
		Return(commitment, nil).Once()
	suite.mockSessionRepo.On("FindOpenSession", ctx, suite.orgID).Return(session, nil).Once()
	suite.mockCommitmentRepo.On("MarkCommitmentPaid", ctx, suite.orgID, commitment.CommitmentID,
		mock.AnythingOfType("time.Time"), suite.userID, mock.Anything).Return(assert.AnError).Once()

	result, err := suite.service.MarkPaid(ctx, suite.userID, suite.orgID, commitment.CommitmentID, dto.MarkPaidRequest{UseCash: true})

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *CommitmentServiceTestSuite) TestUpdateCommitment_PaidIsImmutable() {
	ctx := context.Background()
	commitment := suite.pendingCommitment()
	commitment.Status = domain.CommitmentPaid
	newDesc := "otra cosa"

	suite.mockCommitmentRepo.On("FindCommitmentByID", ctx, suite.orgID, commitment.CommitmentID).
		Return(commitment, nil).Once()

	result, err := suite.service.UpdateCommitment(ctx, suite.userID, suite.orgID, commitment.CommitmentID,
		dto.UpdateCommitmentRequest{Description: &newDesc})

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCommitmentRepo.AssertNotCalled(suite.T(), "UpdateCommitment", mock.Anything, mock.Anything)
}

func TestCommitmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CommitmentServiceTestSuite))
}
