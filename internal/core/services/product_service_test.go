package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/commerceos/commerceos_backend/internal/core/domain"
	portssvc "github.com/commerceos/commerceos_backend/internal/core/ports/services"
	"github.com/commerceos/commerceos_backend/internal/core/services"
	"github.com/commerceos/commerceos_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ProductRepository ---
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindProductByID(ctx context.Context, organizationID, productID string) (*domain.Product, error) {
	args := m.Called(ctx, organizationID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) ListProducts(ctx context.Context, organizationID string, limit int, cursorCreatedAt *time.Time, cursorID string) ([]domain.Product, error) {
	args := m.Called(ctx, organizationID, limit, cursorCreatedAt, cursorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteProduct(ctx context.Context, organizationID, productID string) error {
	args := m.Called(ctx, organizationID, productID)
	return args.Error(0)
}

func (m *MockProductRepository) SaveHistoricalPrice(ctx context.Context, row domain.HistoricalPrice) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockProductRepository) ListHistoricalPrices(ctx context.Context, organizationID, itemID string) ([]domain.HistoricalPrice, error) {
	args := m.Called(ctx, organizationID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HistoricalPrice), args.Error(1)
}

// --- Test Suite ---
type ProductServiceTestSuite struct {
	suite.Suite
	mockRepo *MockProductRepository
	service  portssvc.ProductSvcFacade
	orgID    string
	userID   string
}

func (suite *ProductServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockProductRepository)
	suite.service = services.NewProductService(allowAllAuthorizer{}, suite.mockRepo)
	suite.orgID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *ProductServiceTestSuite) storedProduct() *domain.Product {
	return &domain.Product{
		ProductID:      uuid.NewString(),
		OrganizationID: suite.orgID,
		Name:           "Pan flauta",
		Cost:           decimal.NewFromInt(100),
		MarginPct:      decimal.NewFromInt(50),
		SuggestedPrice: decimal.NewFromInt(150),
		FinalPrice:     decimal.NewFromInt(150),
		AuditFields: domain.AuditFields{
			CreatedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		},
	}
}

func (suite *ProductServiceTestSuite) TestCreateProduct_DerivesSuggestedAndFinalPrice() {
	ctx := context.Background()

	suite.mockRepo.On("SaveProduct", ctx, mock.MatchedBy(func(p domain.Product) bool {
		return p.SuggestedPrice.Equal(decimal.NewFromInt(130)) && p.FinalPrice.Equal(decimal.NewFromInt(130))
	})).Return(nil).Once()

	product, err := suite.service.CreateProduct(ctx, suite.userID, suite.orgID, dto.CreateProductRequest{
		Name:      "Factura",
		Cost:      decimal.NewFromInt(100),
		MarginPct: decimal.NewFromInt(30),
	})

	suite.Require().NoError(err)
	suite.True(product.SuggestedPrice.Equal(decimal.NewFromInt(130)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ProductServiceTestSuite) TestUpdateProduct_MaterialCostChangeArchivesHistory() {
	ctx := context.Background()
	product := suite.storedProduct()
	newCost := decimal.NewFromInt(120)

	suite.mockRepo.On("FindProductByID", ctx, suite.orgID, product.ProductID).Return(product, nil).Once()
	suite.mockRepo.On("SaveHistoricalPrice", ctx, mock.MatchedBy(func(h domain.HistoricalPrice) bool {
		return h.ItemID == product.ProductID &&
			h.ItemKind == domain.PriceItemProduct &&
			h.OldCost.Equal(decimal.NewFromInt(100)) &&
			h.NewCost.Equal(newCost) &&
			h.RecordedBy == suite.userID
	})).Return(nil).Once()
	suite.mockRepo.On("UpdateProduct", ctx, mock.MatchedBy(func(p domain.Product) bool {
		// suggested price recomputed: 120 * 1.5 = 180, last cost rolled over
		return p.SuggestedPrice.Equal(decimal.NewFromInt(180)) &&
			p.LastCost != nil && p.LastCost.Equal(decimal.NewFromInt(100))
	})).Return(nil).Once()

	updated, err := suite.service.UpdateProduct(ctx, suite.userID, suite.orgID, product.ProductID,
		dto.UpdateProductRequest{Cost: &newCost})

	suite.Require().NoError(err)
	suite.Require().NotNil(updated.LastCost)
	suite.True(updated.LastCost.Equal(decimal.NewFromInt(100)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ProductServiceTestSuite) TestUpdateProduct_ExactThresholdIsNotMaterial() {
	ctx := context.Background()
	product := suite.storedProduct()
	newCost := decimal.RequireFromString("100.01")

	suite.mockRepo.On("FindProductByID", ctx, suite.orgID, product.ProductID).Return(product, nil).Once()
	suite.mockRepo.On("UpdateProduct", ctx, mock.AnythingOfType("domain.Product")).Return(nil).Once()

	updated, err := suite.service.UpdateProduct(ctx, suite.userID, suite.orgID, product.ProductID,
		dto.UpdateProductRequest{Cost: &newCost})

	suite.Require().NoError(err)
	suite.Nil(updated.LastCost)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveHistoricalPrice", mock.Anything, mock.Anything)
}

func (suite *ProductServiceTestSuite) TestUpdateProduct_NameOnlyChangeSkipsHistory() {
	ctx := context.Background()
	product := suite.storedProduct()
	newName := "Pan francés"

	suite.mockRepo.On("FindProductByID", ctx, suite.orgID, product.ProductID).Return(product, nil).Once()
	suite.mockRepo.On("UpdateProduct", ctx, mock.MatchedBy(func(p domain.Product) bool {
		return p.Name == newName
	})).Return(nil).Once()

	_, err := suite.service.UpdateProduct(ctx, suite.userID, suite.orgID, product.ProductID,
		dto.UpdateProductRequest{Name: &newName})

	suite.Require().NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveHistoricalPrice", mock.Anything, mock.Anything)
}

func (suite *ProductServiceTestSuite) TestListProducts_PaginatesWithCursor() {
	ctx := context.Background()
	products := make([]domain.Product, 3)
	for i := range products {
		products[i] = *suite.storedProduct()
	}

	// limit 2 fetches 3 rows; the extra row signals another page
	suite.mockRepo.On("ListProducts", ctx, suite.orgID, 3, (*time.Time)(nil), "").
		Return(products, nil).Once()

	page, nextToken, err := suite.service.ListProducts(ctx, suite.userID, suite.orgID, 2, "")

	suite.Require().NoError(err)
	suite.Len(page, 2)
	suite.NotEmpty(nextToken)
}

func (suite *ProductServiceTestSuite) TestListProducts_LastPageHasNoToken() {
	ctx := context.Background()
	products := []domain.Product{*suite.storedProduct()}

	suite.mockRepo.On("ListProducts", ctx, suite.orgID, 3, (*time.Time)(nil), "").
		Return(products, nil).Once()

	page, nextToken, err := suite.service.ListProducts(ctx, suite.userID, suite.orgID, 2, "")

	suite.Require().NoError(err)
	suite.Len(page, 1)
	suite.Empty(nextToken)
}

func TestProductServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}
