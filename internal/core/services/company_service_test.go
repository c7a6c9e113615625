package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/openbooks/openbooks-backend/internal/apperrors"
	"github.com/openbooks/openbooks-backend/internal/core/domain"
	portsrepo "github.com/openbooks/openbooks-backend/internal/core/ports/repositories"
	portssvc "github.com/openbooks/openbooks-backend/internal/core/ports/services"
	"github.com/openbooks/openbooks-backend/internal/core/services"
	"github.com/openbooks/openbooks-backend/internal/dto"
)

// --- Mock CompanyRepository ---
type MockCompanyRepository struct {
	mock.Mock
}

var _ portsrepo.CompanyRepositoryFacade = (*MockCompanyRepository)(nil)

func (m *MockCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) ListCompaniesByUserID(ctx context.Context, userID string) ([]domain.Company, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

func (m *MockCompanyRepository) SaveCompany(ctx context.Context, company domain.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) UpdateCompanySettings(ctx context.Context, companyID string, settings domain.CompanySettings, userID string) error {
	args := m.Called(ctx, companyID, settings, userID)
	return args.Error(0)
}

func (m *MockCompanyRepository) AddUserToCompany(ctx context.Context, membership domain.UserCompany) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockCompanyRepository) FindUserCompanyRole(ctx context.Context, userID, companyID string) (*domain.UserCompany, error) {
	args := m.Called(ctx, userID, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserCompany), args.Error(1)
}

// --- Mock CurrencyReader ---
type MockCurrencyReader struct {
	mock.Mock
}

var _ portsrepo.CurrencyReader = (*MockCurrencyReader)(nil)

func (m *MockCurrencyReader) FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyReader) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

// --- Test Suite Setup ---
type CompanyServiceTestSuite struct {
	suite.Suite
	mockCompanyRepo  *MockCompanyRepository
	mockCurrencyRepo *MockCurrencyReader
	service          portssvc.CompanySvcFacade
	companyID        string
	userID           string
}

func (suite *CompanyServiceTestSuite) SetupTest() {
	suite.mockCompanyRepo = new(MockCompanyRepository)
	suite.mockCurrencyRepo = new(MockCurrencyReader)
	suite.service = services.NewCompanyService(suite.mockCompanyRepo, suite.mockCurrencyRepo)
	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *CompanyServiceTestSuite) membership(role domain.UserCompanyRole) *domain.UserCompany {
	return &domain.UserCompany{
		UserID:    suite.userID,
		CompanyID: suite.companyID,
		Role:      role,
		JoinedAt:  time.Now(),
	}
}

// --- CreateCompany ---

func (suite *CompanyServiceTestSuite) TestCreateCompany_Success() {
	ctx := context.Background()
	req := dto.CreateCompanyRequest{Name: "Acme Corp", BaseCurrencyCode: "USD"}

	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()
	suite.mockCompanyRepo.On("SaveCompany", ctx, mock.AnythingOfType("domain.Company")).Return(nil).Once()
	suite.mockCompanyRepo.On("AddUserToCompany", ctx, mock.MatchedBy(func(m domain.UserCompany) bool {
		return m.UserID == suite.userID && m.Role == domain.RoleAdmin
	})).Return(nil).Once()

	company, err := suite.service.CreateCompany(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(company)
	suite.Equal("Acme Corp", company.Name)
	suite.Equal("USD", company.Settings.BaseCurrencyCode)
	suite.Equal(domain.ApprovalStrict, company.Settings.ApprovalMode)
	suite.True(company.IsActive)
	suite.Equal(suite.userID, company.CreatedBy)

	suite.mockCompanyRepo.AssertExpectations(suite.T())
	suite.mockCurrencyRepo.AssertExpectations(suite.T())
}

func (suite *CompanyServiceTestSuite) TestCreateCompany_UnknownCurrency() {
	ctx := context.Background()
	req := dto.CreateCompanyRequest{Name: "Acme Corp", BaseCurrencyCode: "XXX"}

	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "XXX").Return(nil, apperrors.ErrNotFound).Once()

	company, err := suite.service.CreateCompany(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(company)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCompanyRepo.AssertNotCalled(suite.T(), "SaveCompany", mock.Anything, mock.Anything)
}

func (suite *CompanyServiceTestSuite) TestCreateCompany_UnknownApprovalMode() {
	ctx := context.Background()
	req := dto.CreateCompanyRequest{Name: "Acme Corp", BaseCurrencyCode: "USD", ApprovalMode: domain.ApprovalMode("LENIENT")}

	suite.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&domain.Currency{CurrencyCode: "USD"}, nil).Once()

	company, err := suite.service.CreateCompany(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(company)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- AuthorizeUserAction ---

func (suite *CompanyServiceTestSuite) TestAuthorizeUserAction_AdminSatisfiesMember() {
	ctx := context.Background()

	suite.mockCompanyRepo.On("FindUserCompanyRole", ctx, suite.userID, suite.companyID).
		Return(suite.membership(domain.RoleAdmin), nil).Once()

	err := suite.service.AuthorizeUserAction(ctx, suite.userID, suite.companyID, domain.RoleMember)

	suite.NoError(err)
}

func (suite *CompanyServiceTestSuite) TestAuthorizeUserAction_ReadOnlyLacksMember() {
	ctx := context.Background()

	suite.mockCompanyRepo.On("FindUserCompanyRole", ctx, suite.userID, suite.companyID).
		Return(suite.membership(domain.RoleReadOnly), nil).Once()

	err := suite.service.AuthorizeUserAction(ctx, suite.userID, suite.companyID, domain.RoleMember)

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *CompanyServiceTestSuite) TestAuthorizeUserAction_RemovedIsForbidden() {
	ctx := context.Background()

	suite.mockCompanyRepo.On("FindUserCompanyRole", ctx, suite.userID, suite.companyID).
		Return(suite.membership(domain.RoleRemoved), nil).Once()

	err := suite.service.AuthorizeUserAction(ctx, suite.userID, suite.companyID, domain.RoleReadOnly)

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *CompanyServiceTestSuite) TestAuthorizeUserAction_NonMemberGetsNotFound() {
	ctx := context.Background()

	suite.mockCompanyRepo.On("FindUserCompanyRole", ctx, suite.userID, suite.companyID).
		Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.AuthorizeUserAction(ctx, suite.userID, suite.companyID, domain.RoleReadOnly)

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- UpdateSettings ---

func (suite *CompanyServiceTestSuite) TestUpdateSettings_Success() {
	ctx := context.Background()
	flexible := domain.ApprovalFlexible
	allowEdit := true
	req := dto.UpdateCompanySettingsRequest{ApprovalMode: &flexible, AllowLockedEdit: &allowEdit}
	company := &domain.Company{
		CompanyID: suite.companyID,
		Name:      "Acme Corp",
		Settings: domain.CompanySettings{
			BaseCurrencyCode: "USD",
			ApprovalMode:     domain.ApprovalStrict,
		},
	}

	suite.mockCompanyRepo.On("FindUserCompanyRole", ctx, suite.userID, suite.companyID).
		Return(suite.membership(domain.RoleAdmin), nil).Once()
	suite.mockCompanyRepo.On("FindCompanyByID", ctx, suite.companyID).Return(company, nil).Once()
	suite.mockCompanyRepo.On("UpdateCompanySettings", ctx, suite.companyID, mock.MatchedBy(func(s domain.CompanySettings) bool {
		return s.ApprovalMode == domain.ApprovalFlexible && s.AllowLockedEdit && s.BaseCurrencyCode == "USD"
	}), suite.userID).Return(nil).Once()

	updated, err := suite.service.UpdateSettings(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.ApprovalFlexible, updated.Settings.ApprovalMode)
	suite.True(updated.Settings.AllowLockedEdit)
	suite.mockCompanyRepo.AssertExpectations(suite.T())
}

func (suite *CompanyServiceTestSuite) TestUpdateSettings_MemberForbidden() {
	ctx := context.Background()
	flexible := domain.ApprovalFlexible
	req := dto.UpdateCompanySettingsRequest{ApprovalMode: &flexible}

	suite.mockCompanyRepo.On("FindUserCompanyRole", ctx, suite.userID, suite.companyID).
		Return(suite.membership(domain.RoleMember), nil).Once()

	updated, err := suite.service.UpdateSettings(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(updated)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockCompanyRepo.AssertNotCalled(suite.T(), "UpdateCompanySettings", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- AddUserToCompany ---

func (suite *CompanyServiceTestSuite) TestAddUserToCompany_UnknownRole() {
	ctx := context.Background()
	req := dto.AddUserToCompanyRequest{UserID: uuid.NewString(), Role: domain.UserCompanyRole("OWNER")}

	suite.mockCompanyRepo.On("FindUserCompanyRole", ctx, suite.userID, suite.companyID).
		Return(suite.membership(domain.RoleAdmin), nil).Once()

	err := suite.service.AddUserToCompany(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCompanyRepo.AssertNotCalled(suite.T(), "AddUserToCompany", mock.Anything, mock.Anything)
}

// --- GetSettings ---

func (suite *CompanyServiceTestSuite) TestGetSettings_Success() {
	ctx := context.Background()
	company := &domain.Company{
		CompanyID: suite.companyID,
		Settings: domain.CompanySettings{
			BaseCurrencyCode: "EUR",
			ApprovalMode:     domain.ApprovalFlexible,
		},
	}

	suite.mockCompanyRepo.On("FindCompanyByID", ctx, suite.companyID).Return(company, nil).Once()

	settings, err := suite.service.GetSettings(ctx, suite.companyID)

	suite.Require().NoError(err)
	suite.Equal("EUR", settings.BaseCurrencyCode)
	suite.Equal(domain.ApprovalFlexible, settings.ApprovalMode)
}

func TestCompanyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CompanyServiceTestSuite))
}
