package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/openbooks/openbooks-backend/internal/apperrors"
	"github.com/openbooks/openbooks-backend/internal/core/domain"
	portsrepo "github.com/openbooks/openbooks-backend/internal/core/ports/repositories"
	portssvc "github.com/openbooks/openbooks-backend/internal/core/ports/services"
	"github.com/openbooks/openbooks-backend/internal/core/services"
	"github.com/openbooks/openbooks-backend/internal/core/vouchertypes"
	"github.com/openbooks/openbooks-backend/internal/dto"
	"github.com/openbooks/openbooks-backend/internal/utils/money"
)

// --- Mock VoucherRepository ---
type MockVoucherRepository struct {
	mock.Mock
}

// Ensure MockVoucherRepository implements portsrepo.VoucherRepositoryFacade
var _ portsrepo.VoucherRepositoryFacade = (*MockVoucherRepository)(nil)

func (m *MockVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.Voucher) error {
	args := m.Called(ctx, voucher)
	return args.Error(0)
}

func (m *MockVoucherRepository) UpdateVoucher(ctx context.Context, voucher domain.Voucher) error {
	args := m.Called(ctx, voucher)
	return args.Error(0)
}

func (m *MockVoucherRepository) SaveReversal(ctx context.Context, reversal domain.Voucher, originalVoucherID string) error {
	args := m.Called(ctx, reversal, originalVoucherID)
	return args.Error(0)
}

func (m *MockVoucherRepository) DeleteVoucher(ctx context.Context, voucherID string) error {
	args := m.Called(ctx, voucherID)
	return args.Error(0)
}

func (m *MockVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) ListVouchersByCompany(ctx context.Context, companyID string, limit int, nextToken *string, status *domain.VoucherStatus) ([]domain.Voucher, *string, error) {
	args := m.Called(ctx, companyID, limit, nextToken, status)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Voucher), returnedNextToken, args.Error(2)
}

func (m *MockVoucherRepository) NextVoucherNo(ctx context.Context, companyID string, voucherType domain.VoucherType) (string, error) {
	args := m.Called(ctx, companyID, voucherType)
	return args.String(0), args.Error(1)
}

// --- Mock LedgerReader ---
type MockLedgerReader struct {
	mock.Mock
}

var _ portsrepo.LedgerReader = (*MockLedgerReader)(nil)

func (m *MockLedgerReader) FindEntriesByVoucherID(ctx context.Context, voucherID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerReader) ListEntriesByAccount(ctx context.Context, companyID string, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, companyID, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.LedgerEntry), returnedNextToken, args.Error(2)
}

func (m *MockLedgerReader) HasEntriesForVoucher(ctx context.Context, voucherID string) (bool, error) {
	args := m.Called(ctx, voucherID)
	return args.Bool(0), args.Error(1)
}

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, companyID string, accountID string, userID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByCode(ctx context.Context, companyID string, code string, userID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, code, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string, userID string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyID, accountIDs, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, companyID string, userID string, params dto.ListAccountsParams) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, companyID string, accountID string, userID string) error {
	args := m.Called(ctx, companyID, accountID, userID)
	return args.Error(0)
}

// --- Mock CompanyService ---
type MockCompanyService struct {
	mock.Mock
}

var _ portssvc.CompanySvcFacade = (*MockCompanyService)(nil)

func (m *MockCompanyService) GetCompanyByID(ctx context.Context, companyID string, userID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyService) ListCompanies(ctx context.Context, userID string) ([]domain.Company, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

func (m *MockCompanyService) GetSettings(ctx context.Context, companyID string) (*domain.CompanySettings, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanySettings), args.Error(1)
}

func (m *MockCompanyService) CreateCompany(ctx context.Context, req dto.CreateCompanyRequest, creatorUserID string) (*domain.Company, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyService) UpdateSettings(ctx context.Context, companyID string, req dto.UpdateCompanySettingsRequest, userID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockCompanyService) AddUserToCompany(ctx context.Context, companyID string, req dto.AddUserToCompanyRequest, addingUserID string) error {
	args := m.Called(ctx, companyID, req, addingUserID)
	return args.Error(0)
}

func (m *MockCompanyService) AuthorizeUserAction(ctx context.Context, userID, companyID string, requiredRole domain.UserCompanyRole) error {
	args := m.Called(ctx, userID, companyID, requiredRole)
	return args.Error(0)
}

// --- Mock ExchangeRateService ---
type MockExchangeRateService struct {
	mock.Mock
}

var _ portssvc.ExchangeRateReaderSvc = (*MockExchangeRateService)(nil)

func (m *MockExchangeRateService) GetExchangeRate(ctx context.Context, companyID string, fromCode, toCode string) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, companyID, fromCode, toCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateService) GetRateForDate(ctx context.Context, companyID string, fromCode, toCode string, date time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, companyID, fromCode, toCode, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

// --- Test Suite Setup ---
type VoucherServiceTestSuite struct {
	suite.Suite
	mockVoucherRepo *MockVoucherRepository
	mockLedgerRepo  *MockLedgerReader
	mockAccountSvc  *MockAccountService
	mockCompanySvc  *MockCompanyService
	mockRateSvc     *MockExchangeRateService
	service         portssvc.VoucherSvcFacade
	cashAccount     domain.Account
	revenueAccount  domain.Account
	companyID       string
	userID          string
	strictSettings  domain.CompanySettings
}

func (suite *VoucherServiceTestSuite) SetupTest() {
	suite.mockVoucherRepo = new(MockVoucherRepository)
	suite.mockLedgerRepo = new(MockLedgerReader)
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockCompanySvc = new(MockCompanyService)
	suite.mockRateSvc = new(MockExchangeRateService)
	suite.service = services.NewVoucherService(
		suite.mockVoucherRepo,
		suite.mockLedgerRepo,
		suite.mockAccountSvc,
		suite.mockCompanySvc,
		suite.mockRateSvc,
		vouchertypes.NewRegistry(money.Default()),
		money.Default(),
	)

	suite.companyID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.strictSettings = domain.CompanySettings{
		BaseCurrencyCode: "USD",
		ApprovalMode:     domain.ApprovalStrict,
	}

	suite.cashAccount = domain.Account{
		AccountID:      uuid.NewString(),
		CompanyID:      suite.companyID,
		Code:           "1000",
		Classification: domain.Asset,
		Nature:         domain.NatureDebit,
		CurrencyPolicy: domain.CurrencyInherit,
		IsActive:       true,
	}
	suite.revenueAccount = domain.Account{
		AccountID:      uuid.NewString(),
		CompanyID:      suite.companyID,
		Code:           "4000",
		Classification: domain.Revenue,
		Nature:         domain.NatureCredit,
		CurrencyPolicy: domain.CurrencyInherit,
		IsActive:       true,
	}
}

func (suite *VoucherServiceTestSuite) balancedRequest() dto.CreateVoucherRequest {
	return dto.CreateVoucherRequest{
		Type:        domain.TypeJournalEntry,
		Date:        "2025-03-10",
		Description: "Service revenue for March",
		Lines: []dto.CreateVoucherLineRequest{
			{AccountID: suite.cashAccount.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: suite.revenueAccount.AccountID, Credit: decimal.NewFromInt(100)},
		},
	}
}

func (suite *VoucherServiceTestSuite) expectAccounts() {
	accountsMap := map[string]domain.Account{
		suite.cashAccount.AccountID:    suite.cashAccount,
		suite.revenueAccount.AccountID: suite.revenueAccount,
	}
	suite.mockAccountSvc.On("GetAccountsByIDs", mock.Anything, suite.companyID,
		[]string{suite.cashAccount.AccountID, suite.revenueAccount.AccountID}, suite.userID).
		Return(accountsMap, nil).Once()
}

// --- Test Cases ---

func (suite *VoucherServiceTestSuite) TestCreateVoucher_Success() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockCompanySvc.On("GetSettings", ctx, suite.companyID).Return(&suite.strictSettings, nil).Once()
	suite.expectAccounts()
	suite.mockVoucherRepo.On("NextVoucherNo", ctx, suite.companyID, domain.TypeJournalEntry).Return("JV-000001", nil).Once()
	suite.mockVoucherRepo.On("SaveVoucher", ctx, mock.AnythingOfType("domain.Voucher")).Return(nil).Once()

	voucher, err := suite.service.CreateVoucher(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(voucher)
	suite.Equal(domain.StatusDraft, voucher.Status)
	suite.Equal("JV-000001", voucher.VoucherNo)
	suite.Equal("USD", voucher.CurrencyCode)
	suite.True(voucher.TotalDebit.Equal(decimal.NewFromInt(100)))
	suite.True(voucher.TotalCredit.Equal(decimal.NewFromInt(100)))
	suite.Len(voucher.Lines, 2)
	suite.Equal(suite.userID, voucher.CreatedBy)

	suite.mockCompanySvc.AssertExpectations(suite.T())
	suite.mockAccountSvc.AssertExpectations(suite.T())
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_FlexibleAutoApproves() {
	ctx := context.Background()
	req := suite.balancedRequest()
	flexible := domain.CompanySettings{BaseCurrencyCode: "USD", ApprovalMode: domain.ApprovalFlexible}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockCompanySvc.On("GetSettings", ctx, suite.companyID).Return(&flexible, nil).Once()
	suite.expectAccounts()
	suite.mockVoucherRepo.On("NextVoucherNo", ctx, suite.companyID, domain.TypeJournalEntry).Return("JV-000002", nil).Once()
	suite.mockVoucherRepo.On("SaveVoucher", ctx, mock.AnythingOfType("domain.Voucher")).Return(nil).Once()

	voucher, err := suite.service.CreateVoucher(ctx, suite.companyID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, voucher.Status)
	suite.Require().NotNil(voucher.ApprovedBy)
	suite.Equal(suite.userID, *voucher.ApprovedBy)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_Imbalanced() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Lines[1].Credit = decimal.NewFromInt(90)

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockCompanySvc.On("GetSettings", ctx, suite.companyID).Return(&suite.strictSettings, nil).Once()

	voucher, err := suite.service.CreateVoucher(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(voucher)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "SaveVoucher", mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_AuthorizationFail() {
	ctx := context.Background()
	req := suite.balancedRequest()

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(apperrors.ErrForbidden).Once()

	voucher, err := suite.service.CreateVoucher(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(voucher)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_PeriodLocked() {
	ctx := context.Background()
	req := suite.balancedRequest()
	lockDate := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	lockedSettings := domain.CompanySettings{
		BaseCurrencyCode: "USD",
		ApprovalMode:     domain.ApprovalStrict,
		PeriodLockDate:   &lockDate,
	}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockCompanySvc.On("GetSettings", ctx, suite.companyID).Return(&lockedSettings, nil).Once()

	voucher, err := suite.service.CreateVoucher(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(voucher)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "locked period")
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_InactiveAccount() {
	ctx := context.Background()
	req := suite.balancedRequest()

	inactive := suite.revenueAccount
	inactive.IsActive = false
	accountsMap := map[string]domain.Account{
		suite.cashAccount.AccountID: suite.cashAccount,
		inactive.AccountID:          inactive,
	}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockCompanySvc.On("GetSettings", ctx, suite.companyID).Return(&suite.strictSettings, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", mock.Anything, suite.companyID,
		[]string{suite.cashAccount.AccountID, inactive.AccountID}, suite.userID).
		Return(accountsMap, nil).Once()

	voucher, err := suite.service.CreateVoucher(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(voucher)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "inactive")
}

func (suite *VoucherServiceTestSuite) TestCreateVoucher_UnsupportedType() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Type = domain.VoucherType("PURCHASE_ORDER")

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockCompanySvc.On("GetSettings", ctx, suite.companyID).Return(&suite.strictSettings, nil).Once()

	voucher, err := suite.service.CreateVoucher(ctx, suite.companyID, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(voucher)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *VoucherServiceTestSuite) draftVoucher() *domain.Voucher {
	return &domain.Voucher{
		VoucherID: uuid.NewString(),
		CompanyID: suite.companyID,
		VoucherNo: "JV-000005",
		Type:      domain.TypeJournalEntry,
		Status:    domain.StatusDraft,
	}
}

func (suite *VoucherServiceTestSuite) TestApproveVoucher_Success() {
	ctx := context.Background()
	voucher := suite.draftVoucher()

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, mock.Anything).Return(nil)
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()
	suite.mockCompanySvc.On("GetSettings", ctx, suite.companyID).Return(&suite.strictSettings, nil).Once()
	suite.mockVoucherRepo.On("UpdateVoucher", ctx, mock.AnythingOfType("domain.Voucher")).Return(nil).Once()

	approved, err := suite.service.ApproveVoucher(ctx, suite.companyID, voucher.VoucherID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusApproved, approved.Status)
	suite.Require().NotNil(approved.ApprovedBy)
	suite.Equal(suite.userID, *approved.ApprovedBy)
	// The original value is untouched by the transition.
	suite.Equal(domain.StatusDraft, voucher.Status)
}

func (suite *VoucherServiceTestSuite) TestApproveVoucher_NotDraft() {
	ctx := context.Background()
	voucher := suite.draftVoucher()
	voucher.Status = domain.StatusLocked

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, mock.Anything).Return(nil)
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()
	suite.mockCompanySvc.On("GetSettings", ctx, suite.companyID).Return(&suite.strictSettings, nil).Once()

	approved, err := suite.service.ApproveVoucher(ctx, suite.companyID, voucher.VoucherID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(approved)
	var transitionErr *domain.InvalidTransitionError
	suite.ErrorAs(err, &transitionErr)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "UpdateVoucher", mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestApproveVoucher_PeriodLocked() {
	ctx := context.Background()
	voucher := suite.draftVoucher()
	voucher.Date = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	lockDate := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	lockedSettings := domain.CompanySettings{
		BaseCurrencyCode: "USD",
		ApprovalMode:     domain.ApprovalStrict,
		PeriodLockDate:   &lockDate,
	}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, mock.Anything).Return(nil)
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()
	suite.mockCompanySvc.On("GetSettings", ctx, suite.companyID).Return(&lockedSettings, nil).Once()

	approved, err := suite.service.ApproveVoucher(ctx, suite.companyID, voucher.VoucherID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(approved)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "UpdateVoucher", mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestRejectVoucher_RequiresReason() {
	ctx := context.Background()

	voucher, err := suite.service.RejectVoucher(ctx, suite.companyID, uuid.NewString(), suite.userID, "")

	suite.Require().Error(err)
	suite.Nil(voucher)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *VoucherServiceTestSuite) TestRejectVoucher_Success() {
	ctx := context.Background()
	voucher := suite.draftVoucher()

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, mock.Anything).Return(nil)
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()
	suite.mockVoucherRepo.On("UpdateVoucher", ctx, mock.AnythingOfType("domain.Voucher")).Return(nil).Once()

	rejected, err := suite.service.RejectVoucher(ctx, suite.companyID, voucher.VoucherID, suite.userID, "wrong period")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusRejected, rejected.Status)
	suite.Require().NotNil(rejected.RejectionReason)
	suite.Equal("wrong period", *rejected.RejectionReason)
}

func (suite *VoucherServiceTestSuite) TestLockVoucher_Success() {
	ctx := context.Background()
	voucher := suite.draftVoucher()
	voucher.Status = domain.StatusApproved

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, mock.Anything).Return(nil)
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()
	suite.mockVoucherRepo.On("UpdateVoucher", ctx, mock.AnythingOfType("domain.Voucher")).Return(nil).Once()

	locked, err := suite.service.LockVoucher(ctx, suite.companyID, voucher.VoucherID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusLocked, locked.Status)
	suite.Require().NotNil(locked.LockedBy)
	suite.Equal(suite.userID, *locked.LockedBy)
}

func (suite *VoucherServiceTestSuite) TestGetVoucherByID_WrongCompany() {
	ctx := context.Background()
	voucher := suite.draftVoucher()
	voucher.CompanyID = uuid.NewString() // belongs elsewhere

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()

	found, err := suite.service.GetVoucherByID(ctx, suite.companyID, voucher.VoucherID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(found)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *VoucherServiceTestSuite) TestDeleteVoucher_DraftSuccess() {
	ctx := context.Background()
	voucher := suite.draftVoucher()

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, mock.Anything).Return(nil)
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()
	suite.mockVoucherRepo.On("DeleteVoucher", ctx, voucher.VoucherID).Return(nil).Once()

	err := suite.service.DeleteVoucher(ctx, suite.companyID, voucher.VoucherID, suite.userID)

	suite.Require().NoError(err)
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *VoucherServiceTestSuite) TestDeleteVoucher_LockedStrictFails() {
	ctx := context.Background()
	voucher := suite.draftVoucher()
	voucher.Status = domain.StatusLocked

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, mock.Anything).Return(nil)
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()
	suite.mockCompanySvc.On("GetSettings", ctx, suite.companyID).Return(&suite.strictSettings, nil).Once()

	err := suite.service.DeleteVoucher(ctx, suite.companyID, voucher.VoucherID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "DeleteVoucher", mock.Anything, mock.Anything)
}

func (suite *VoucherServiceTestSuite) TestDeleteVoucher_LockedFlexibleUnpostedSucceeds() {
	ctx := context.Background()
	voucher := suite.draftVoucher()
	voucher.Status = domain.StatusLocked
	flexible := domain.CompanySettings{
		BaseCurrencyCode: "USD",
		ApprovalMode:     domain.ApprovalFlexible,
		AllowLockedEdit:  true,
	}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, mock.Anything).Return(nil)
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()
	suite.mockCompanySvc.On("GetSettings", ctx, suite.companyID).Return(&flexible, nil).Once()
	suite.mockLedgerRepo.On("HasEntriesForVoucher", ctx, voucher.VoucherID).Return(false, nil).Once()
	suite.mockVoucherRepo.On("DeleteVoucher", ctx, voucher.VoucherID).Return(nil).Once()

	err := suite.service.DeleteVoucher(ctx, suite.companyID, voucher.VoucherID, suite.userID)

	suite.Require().NoError(err)
}

func (suite *VoucherServiceTestSuite) TestDeleteVoucher_PostedFails() {
	ctx := context.Background()
	voucher := suite.draftVoucher()
	voucher.Status = domain.StatusLocked
	flexible := domain.CompanySettings{
		BaseCurrencyCode: "USD",
		ApprovalMode:     domain.ApprovalFlexible,
		AllowLockedEdit:  true,
	}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, mock.Anything).Return(nil)
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()
	suite.mockCompanySvc.On("GetSettings", ctx, suite.companyID).Return(&flexible, nil).Once()
	suite.mockLedgerRepo.On("HasEntriesForVoucher", ctx, voucher.VoucherID).Return(true, nil).Once()

	err := suite.service.DeleteVoucher(ctx, suite.companyID, voucher.VoucherID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *VoucherServiceTestSuite) TestListVouchers_PassesThrough() {
	ctx := context.Background()
	token := "next-page"
	vouchers := []domain.Voucher{*suite.draftVoucher()}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockVoucherRepo.On("ListVouchersByCompany", ctx, suite.companyID, 20, (*string)(nil), (*domain.VoucherStatus)(nil)).
		Return(vouchers, token, nil).Once()

	resp, err := suite.service.ListVouchers(ctx, suite.companyID, suite.userID, dto.ListVouchersParams{})

	suite.Require().NoError(err)
	suite.Len(resp.Vouchers, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(token, *resp.NextToken)
}

func TestVoucherServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VoucherServiceTestSuite))
}
