package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/commerceos/commerceos_backend/internal/apperrors"
	"github.com/commerceos/commerceos_backend/internal/core/domain"
	portsrepo "github.com/commerceos/commerceos_backend/internal/core/ports/repositories"
	portssvc "github.com/commerceos/commerceos_backend/internal/core/ports/services"
	"github.com/commerceos/commerceos_backend/internal/core/services"
	"github.com/commerceos/commerceos_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock SessionRepository ---
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) FindOpenSession(ctx context.Context, organizationID string) (*domain.CashSession, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashSession), args.Error(1)
}

func (m *MockSessionRepository) FindSessionByID(ctx context.Context, organizationID, sessionID string) (*domain.CashSession, error) {
	args := m.Called(ctx, organizationID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashSession), args.Error(1)
}

func (m *MockSessionRepository) ListSales(ctx context.Context, sessionID string) ([]domain.Sale, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Sale), args.Error(1)
}

func (m *MockSessionRepository) ListEntries(ctx context.Context, sessionID string) ([]domain.SessionEntry, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SessionEntry), args.Error(1)
}

func (m *MockSessionRepository) SaveSession(ctx context.Context, session domain.CashSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) PatchSession(ctx context.Context, organizationID, sessionID string, patch portsrepo.SessionPatch, version int64) (*domain.CashSession, error) {
	args := m.Called(ctx, organizationID, sessionID, patch, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashSession), args.Error(1)
}

func (m *MockSessionRepository) AddSale(ctx context.Context, sale domain.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSessionRepository) AddEntry(ctx context.Context, entry domain.SessionEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteSale(ctx context.Context, organizationID, sessionID, saleID string) error {
	args := m.Called(ctx, organizationID, sessionID, saleID)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteEntry(ctx context.Context, organizationID, sessionID, entryID string) error {
	args := m.Called(ctx, organizationID, sessionID, entryID)
	return args.Error(0)
}

func (m *MockSessionRepository) CloseSession(ctx context.Context, session domain.CashSession, audit domain.CashAudit) error {
	args := m.Called(ctx, session, audit)
	return args.Error(0)
}

// --- Mock AuditRepository ---
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) FindAuditByID(ctx context.Context, organizationID, auditID string) (*domain.CashAudit, error) {
	args := m.Called(ctx, organizationID, auditID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashAudit), args.Error(1)
}

func (m *MockAuditRepository) ListAuditsByDateRange(ctx context.Context, organizationID string, from, to time.Time) ([]domain.CashAudit, error) {
	args := m.Called(ctx, organizationID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashAudit), args.Error(1)
}

func (m *MockAuditRepository) UpdateAuditReportURL(ctx context.Context, organizationID, auditID, reportURL string) error {
	args := m.Called(ctx, organizationID, auditID, reportURL)
	return args.Error(0)
}

func (m *MockAuditRepository) UpdateAuditMeta(ctx context.Context, organizationID, auditID string, auditDate *time.Time, notes *string) error {
	args := m.Called(ctx, organizationID, auditID, auditDate, notes)
	return args.Error(0)
}

func (m *MockAuditRepository) DeleteAudit(ctx context.Context, organizationID, auditID string) error {
	args := m.Called(ctx, organizationID, auditID)
	return args.Error(0)
}

// --- Mock ProviderRepository ---
type MockProviderRepository struct {
	mock.Mock
}

func (m *MockProviderRepository) FindProviderByID(ctx context.Context, organizationID, providerID string) (*domain.Provider, error) {
	args := m.Called(ctx, organizationID, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Provider), args.Error(1)
}

func (m *MockProviderRepository) ListProviders(ctx context.Context, organizationID string, includeInactive bool) ([]domain.Provider, error) {
	args := m.Called(ctx, organizationID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Provider), args.Error(1)
}

func (m *MockProviderRepository) SaveProvider(ctx context.Context, provider domain.Provider) error {
	args := m.Called(ctx, provider)
	return args.Error(0)
}

func (m *MockProviderRepository) UpdateProvider(ctx context.Context, provider domain.Provider) error {
	args := m.Called(ctx, provider)
	return args.Error(0)
}

func (m *MockProviderRepository) DeactivateProvider(ctx context.Context, organizationID, providerID, updatedBy string) error {
	args := m.Called(ctx, organizationID, providerID, updatedBy)
	return args.Error(0)
}

// --- Test Suite ---
type SessionServiceTestSuite struct {
	suite.Suite
	mockSessionRepo  *MockSessionRepository
	mockAuditRepo    *MockAuditRepository
	mockOrgRepo      *MockOrganizationRepository
	mockProviderRepo *MockProviderRepository
	mockReports      *MockBlobStore
	service          portssvc.SessionSvcFacade
	orgID            string
	userID           string
}

func (suite *SessionServiceTestSuite) SetupTest() {
	suite.mockSessionRepo = new(MockSessionRepository)
	suite.mockAuditRepo = new(MockAuditRepository)
	suite.mockOrgRepo = new(MockOrganizationRepository)
	suite.mockProviderRepo = new(MockProviderRepository)
	suite.mockReports = new(MockBlobStore)
	suite.service = services.NewSessionService(
		allowAllAuthorizer{},
		suite.mockSessionRepo,
		suite.mockAuditRepo,
		suite.mockOrgRepo,
		suite.mockProviderRepo,
		services.NewReportExportService(suite.mockReports),
	)
	suite.orgID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *SessionServiceTestSuite) openSession() *domain.CashSession {
	return &domain.CashSession{
		SessionID:      uuid.NewString(),
		OrganizationID: suite.orgID,
		SessionDate:    time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Status:         domain.SessionOpen,
		OpeningCash:    decimal.NewFromInt(1000),
		OpeningDigital: decimal.NewFromInt(0),
		Version:        3,
	}
}

func (suite *SessionServiceTestSuite) TestOpenSession_SecondOpenIsDuplicate() {
	ctx := context.Background()

	suite.mockSessionRepo.On("SaveSession", ctx, mock.AnythingOfType("domain.CashSession")).
		Return(apperrors.ErrDuplicate).Once()

	session, err := suite.service.OpenSession(ctx, suite.userID, suite.orgID, dto.OpenSessionRequest{})

	suite.Require().Error(err)
	suite.Nil(session)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *SessionServiceTestSuite) TestAddSale_DerivesCommissionFromSettings() {
	ctx := context.Background()
	session := suite.openSession()

	suite.mockSessionRepo.On("FindOpenSession", ctx, suite.orgID).Return(session, nil).Once()
	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.orgID).Return(&domain.Organization{
		OrganizationID: suite.orgID,
		Settings:       domain.OrganizationSettings{CommissionQRPct: 2},
	}, nil).Once()
	suite.mockSessionRepo.On("AddSale", ctx, mock.MatchedBy(func(s domain.Sale) bool {
		return s.SessionID == session.SessionID &&
			s.Commission.Equal(decimal.NewFromInt(10)) &&
			s.Method == domain.PaymentQR
	})).Return(nil).Once()

	sale, err := suite.service.AddSale(ctx, suite.userID, suite.orgID, dto.AddSaleRequest{
		Amount: decimal.NewFromInt(500),
		Method: domain.PaymentQR,
	})

	suite.Require().NoError(err)
	suite.True(sale.Commission.Equal(decimal.NewFromInt(10)))
	suite.mockSessionRepo.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestAddSale_CashCarriesNoCommission() {
	ctx := context.Background()
	session := suite.openSession()

	suite.mockSessionRepo.On("FindOpenSession", ctx, suite.orgID).Return(session, nil).Once()
	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.orgID).Return(&domain.Organization{
		OrganizationID: suite.orgID,
		Settings:       domain.OrganizationSettings{CommissionQRPct: 2, CommissionCreditPct: 5},
	}, nil).Once()
	suite.mockSessionRepo.On("AddSale", ctx, mock.MatchedBy(func(s domain.Sale) bool {
		return s.Commission.IsZero()
	})).Return(nil).Once()

	_, err := suite.service.AddSale(ctx, suite.userID, suite.orgID, dto.AddSaleRequest{
		Amount: decimal.NewFromInt(500),
		Method: domain.PaymentCash,
	})

	suite.Require().NoError(err)
}

func (suite *SessionServiceTestSuite) TestAddSale_NoOpenSession() {
	ctx := context.Background()

	suite.mockSessionRepo.On("FindOpenSession", ctx, suite.orgID).Return(nil, apperrors.ErrNotFound).Once()

	sale, err := suite.service.AddSale(ctx, suite.userID, suite.orgID, dto.AddSaleRequest{
		Amount: decimal.NewFromInt(100),
		Method: domain.PaymentCash,
	})

	suite.Require().Error(err)
	suite.Nil(sale)
	suite.ErrorIs(err, apperrors.ErrSessionClosed)
}

func (suite *SessionServiceTestSuite) TestAddSale_UnknownMethod() {
	ctx := context.Background()

	sale, err := suite.service.AddSale(ctx, suite.userID, suite.orgID, dto.AddSaleRequest{
		Amount: decimal.NewFromInt(100),
		Method: "BITCOIN",
	})

	suite.Require().Error(err)
	suite.Nil(sale)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockSessionRepo.AssertNotCalled(suite.T(), "FindOpenSession", mock.Anything, mock.Anything)
}

func (suite *SessionServiceTestSuite) TestAddEntry_ResolvesProviderName() {
	ctx := context.Background()
	session := suite.openSession()
	providerID := uuid.NewString()

	suite.mockSessionRepo.On("FindOpenSession", ctx, suite.orgID).Return(session, nil).Once()
	suite.mockProviderRepo.On("FindProviderByID", ctx, suite.orgID, providerID).
		Return(&domain.Provider{ProviderID: providerID, Name: "Distribuidora Sur"}, nil).Once()
	suite.mockSessionRepo.On("AddEntry", ctx, mock.MatchedBy(func(e domain.SessionEntry) bool {
		return e.ProviderName == "Distribuidora Sur" && e.Category == domain.CategoryPurchases
	})).Return(nil).Once()

	entry, err := suite.service.AddEntry(ctx, suite.userID, suite.orgID, dto.AddEntryRequest{
		Type:        domain.EntryExpense,
		Description: "Mercadería",
		Amount:      decimal.NewFromInt(200),
		Category:    domain.CategoryPurchases,
		ProviderID:  &providerID,
	})

	suite.Require().NoError(err)
	suite.Equal("Distribuidora Sur", entry.ProviderName)
}

func (suite *SessionServiceTestSuite) TestAddEntry_RejectsUnknownExpenseCategory() {
	ctx := context.Background()

	entry, err := suite.service.AddEntry(ctx, suite.userID, suite.orgID, dto.AddEntryRequest{
		Type:        domain.EntryExpense,
		Description: "algo",
		Amount:      decimal.NewFromInt(50),
		Category:    "Varios",
	})

	suite.Require().Error(err)
	suite.Nil(entry)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *SessionServiceTestSuite) TestPatchSession_StaleVersionConflicts() {
	ctx := context.Background()
	session := suite.openSession()

	suite.mockSessionRepo.On("FindSessionByID", ctx, suite.orgID, session.SessionID).Return(session, nil).Once()
	suite.mockSessionRepo.On("PatchSession", ctx, suite.orgID, session.SessionID, mock.Anything, int64(2)).
		Return(nil, apperrors.ErrConflict).Once()

	notes := "ajuste"
	patched, err := suite.service.PatchSession(ctx, suite.userID, suite.orgID, session.SessionID, dto.PatchSessionRequest{
		Notes:   &notes,
		Version: 2,
	})

	suite.Require().Error(err)
	suite.Nil(patched)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *SessionServiceTestSuite) TestPatchSession_ClosedSessionRejected() {
	ctx := context.Background()
	session := suite.openSession()
	session.Status = domain.SessionClosed

	suite.mockSessionRepo.On("FindSessionByID", ctx, suite.orgID, session.SessionID).Return(session, nil).Once()

	_, err := suite.service.PatchSession(ctx, suite.userID, suite.orgID, session.SessionID, dto.PatchSessionRequest{Version: 3})

	suite.ErrorIs(err, apperrors.ErrSessionClosed)
	suite.mockSessionRepo.AssertNotCalled(suite.T(), "PatchSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SessionServiceTestSuite) TestCloseSession_ComputesTotalsAndDifference() {
	ctx := context.Background()
	session := suite.openSession()
	sales := []domain.Sale{
		{SaleID: uuid.NewString(), Amount: decimal.NewFromInt(300), Method: domain.PaymentCash},
		{SaleID: uuid.NewString(), Amount: decimal.NewFromInt(200), Method: domain.PaymentQR, Commission: decimal.NewFromInt(4)},
	}
	entries := []domain.SessionEntry{
		{EntryID: uuid.NewString(), Type: domain.EntryIncome, Amount: decimal.NewFromInt(500)},
		{EntryID: uuid.NewString(), Type: domain.EntryExpense, Amount: decimal.NewFromInt(200), Category: domain.CategoryBusiness},
	}

	suite.mockSessionRepo.On("FindOpenSession", ctx, suite.orgID).Return(session, nil).Once()
	suite.mockSessionRepo.On("ListSales", ctx, session.SessionID).Return(sales, nil).Once()
	suite.mockSessionRepo.On("ListEntries", ctx, session.SessionID).Return(entries, nil).Once()

	// opening 1000 + income 500 + sales 500 - expenses 200 = 1800
	suite.mockSessionRepo.On("CloseSession", ctx,
		mock.MatchedBy(func(s domain.CashSession) bool { return s.Status == domain.SessionClosed }),
		mock.MatchedBy(func(a domain.CashAudit) bool {
			return a.TotalSales.Equal(decimal.NewFromInt(500)) &&
				a.Difference.IsZero() &&
				a.Payload.TheoreticalBalance.Equal(decimal.NewFromInt(1800)) &&
				len(a.Payload.Sales) == 2 && len(a.Payload.Entries) == 2
		}),
	).Return(nil).Once()

	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.orgID).
		Return(&domain.Organization{OrganizationID: suite.orgID, Settings: domain.DefaultSettings()}, nil).Once()
	suite.mockReports.On("Upload", ctx, mock.AnythingOfType("string"), mock.AnythingOfType("string"), mock.AnythingOfType("[]uint8")).
		Return("https://storage.example.com/report.xlsx", nil).Once()
	suite.mockAuditRepo.On("UpdateAuditReportURL", ctx, suite.orgID, mock.AnythingOfType("string"), "https://storage.example.com/report.xlsx").
		Return(nil).Once()

	audit, err := suite.service.CloseSession(ctx, suite.userID, suite.orgID, dto.CloseSessionRequest{
		PhysicalCash:    decimal.NewFromInt(1800),
		PhysicalDigital: decimal.Zero,
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(audit)
	suite.Require().NotNil(audit.ReportURL)
	suite.Equal("https://storage.example.com/report.xlsx", *audit.ReportURL)
	suite.mockSessionRepo.AssertExpectations(suite.T())
	suite.mockReports.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestCloseSession_ExportFailureStillCloses() {
	ctx := context.Background()
	session := suite.openSession()

	suite.mockSessionRepo.On("FindOpenSession", ctx, suite.orgID).Return(session, nil).Once()
	suite.mockSessionRepo.On("ListSales", ctx, session.SessionID).Return([]domain.Sale{}, nil).Once()
	suite.mockSessionRepo.On("ListEntries", ctx, session.SessionID).Return([]domain.SessionEntry{}, nil).Once()
	suite.mockSessionRepo.On("CloseSession", ctx, mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockOrgRepo.On("FindOrganizationByID", ctx, suite.orgID).
		Return(&domain.Organization{OrganizationID: suite.orgID, Settings: domain.DefaultSettings()}, nil).Once()
	suite.mockReports.On("Upload", ctx, mock.Anything, mock.Anything, mock.Anything).
		Return("", assert.AnError).Once()

	audit, err := suite.service.CloseSession(ctx, suite.userID, suite.orgID, dto.CloseSessionRequest{
		PhysicalCash:    decimal.NewFromInt(1000),
		PhysicalDigital: decimal.Zero,
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(audit)
	suite.Nil(audit.ReportURL)
	suite.mockAuditRepo.AssertNotCalled(suite.T(), "UpdateAuditReportURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceTestSuite))
}
