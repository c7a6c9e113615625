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
	"github.com/openbooks/openbooks-backend/internal/dto"
)

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) FindEntriesByVoucherID(ctx context.Context, voucherID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListEntriesByAccount(ctx context.Context, companyID string, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
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

func (m *MockLedgerRepository) HasEntriesForVoucher(ctx context.Context, voucherID string) (bool, error) {
	args := m.Called(ctx, voucherID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerRepository) PostEntries(ctx context.Context, voucher domain.Voucher, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal) error {
	args := m.Called(ctx, voucher, entries, balanceChanges)
	return args.Error(0)
}

// --- Test Suite Setup ---
type LedgerServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo  *MockLedgerRepository
	mockVoucherRepo *MockVoucherRepository
	mockAccountSvc  *MockAccountService
	mockCompanySvc  *MockCompanyService
	service         portssvc.LedgerSvcFacade
	cashAccount     domain.Account
	revenueAccount  domain.Account
	companyID       string
	userID          string
	strictSettings  domain.CompanySettings
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockVoucherRepo = new(MockVoucherRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockCompanySvc = new(MockCompanyService)
	suite.service = services.NewLedgerService(
		suite.mockLedgerRepo,
		suite.mockVoucherRepo,
		suite.mockAccountSvc,
		suite.mockCompanySvc,
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

// lockedVoucher builds a balanced two-line voucher in Locked status.
func (suite *LedgerServiceTestSuite) lockedVoucher() *domain.Voucher {
	one := decimal.NewFromInt(1)
	hundred := decimal.NewFromInt(100)
	lockedBy := suite.userID
	lockedAt := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	return &domain.Voucher{
		VoucherID:        uuid.NewString(),
		CompanyID:        suite.companyID,
		VoucherNo:        "JV-000010",
		Type:             domain.TypeJournalEntry,
		Date:             time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Description:      "Service revenue for March",
		CurrencyCode:     "USD",
		BaseCurrencyCode: "USD",
		ExchangeRate:     one,
		Lines: []domain.VoucherLine{
			{LineID: 1, AccountID: suite.cashAccount.AccountID, Side: domain.Debit, Amount: hundred, BaseAmount: hundred, CurrencyCode: "USD", BaseCurrencyCode: "USD", ExchangeRate: one},
			{LineID: 2, AccountID: suite.revenueAccount.AccountID, Side: domain.Credit, Amount: hundred, BaseAmount: hundred, CurrencyCode: "USD", BaseCurrencyCode: "USD", ExchangeRate: one},
		},
		TotalDebit:  hundred,
		TotalCredit: hundred,
		Status:      domain.StatusLocked,
		LockedBy:    &lockedBy,
		LockedAt:    &lockedAt,
	}
}

func (suite *LedgerServiceTestSuite) postedEntries(voucher *domain.Voucher) []domain.LedgerEntry {
	hundred := decimal.NewFromInt(100)
	one := decimal.NewFromInt(1)
	return []domain.LedgerEntry{
		{
			EntryID:      uuid.NewString(),
			CompanyID:    suite.companyID,
			VoucherID:    voucher.VoucherID,
			LineID:       1,
			AccountID:    suite.cashAccount.AccountID,
			DebitBase:    hundred,
			Amount:       hundred,
			LineCurrency: "USD",
			BaseCurrency: "USD",
			ExchangeRate: one,
			Date:         voucher.Date,
		},
		{
			EntryID:      uuid.NewString(),
			CompanyID:    suite.companyID,
			VoucherID:    voucher.VoucherID,
			LineID:       2,
			AccountID:    suite.revenueAccount.AccountID,
			CreditBase:   hundred,
			Amount:       hundred,
			LineCurrency: "USD",
			BaseCurrency: "USD",
			ExchangeRate: one,
			Date:         voucher.Date,
		},
	}
}

func (suite *LedgerServiceTestSuite) expectAccounts() {
	accountsMap := map[string]domain.Account{
		suite.cashAccount.AccountID:    suite.cashAccount,
		suite.revenueAccount.AccountID: suite.revenueAccount,
	}
	suite.mockAccountSvc.On("GetAccountsByIDs", mock.Anything, suite.companyID,
		[]string{suite.cashAccount.AccountID, suite.revenueAccount.AccountID}, suite.userID).
		Return(accountsMap, nil).Once()
}

// --- PostVoucher ---

func (suite *LedgerServiceTestSuite) TestPostVoucher_Success() {
	ctx := context.Background()
	voucher := suite.lockedVoucher()

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()
	suite.mockCompanySvc.On("GetSettings", ctx, suite.companyID).Return(&suite.strictSettings, nil).Once()
	suite.mockLedgerRepo.On("HasEntriesForVoucher", ctx, voucher.VoucherID).Return(false, nil).Once()
	suite.expectAccounts()
	suite.mockLedgerRepo.On("PostEntries", ctx,
		mock.AnythingOfType("domain.Voucher"),
		mock.AnythingOfType("[]domain.LedgerEntry"),
		mock.AnythingOfType("map[string]decimal.Decimal")).Return(nil).Once()

	entries, err := suite.service.PostVoucher(ctx, suite.companyID, voucher.VoucherID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().Len(entries, 2)
	suite.Equal(voucher.VoucherID, entries[0].VoucherID)
	suite.Equal(suite.cashAccount.AccountID, entries[0].AccountID)
	suite.True(entries[0].DebitBase.Equal(decimal.NewFromInt(100)))
	suite.True(entries[0].CreditBase.IsZero())
	suite.Equal(suite.revenueAccount.AccountID, entries[1].AccountID)
	suite.True(entries[1].CreditBase.Equal(decimal.NewFromInt(100)))
	suite.True(entries[1].DebitBase.IsZero())
	suite.True(entries[0].Date.Equal(voucher.Date))

	suite.mockLedgerRepo.AssertExpectations(suite.T())
	suite.mockVoucherRepo.AssertExpectations(suite.T())
	suite.mockCompanySvc.AssertExpectations(suite.T())
	suite.mockAccountSvc.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPostVoucher_FlexibleApprovedAutoLocks() {
	ctx := context.Background()
	voucher := suite.lockedVoucher()
	voucher.Status = domain.StatusApproved
	voucher.LockedBy = nil
	voucher.LockedAt = nil
	flexible := domain.CompanySettings{BaseCurrencyCode: "USD", ApprovalMode: domain.ApprovalFlexible}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()
	suite.mockCompanySvc.On("GetSettings", ctx, suite.companyID).Return(&flexible, nil).Once()
	suite.mockLedgerRepo.On("HasEntriesForVoucher", ctx, voucher.VoucherID).Return(false, nil).Once()
	suite.expectAccounts()
	// The voucher handed to the posting transaction carries the lock.
	suite.mockLedgerRepo.On("PostEntries", ctx,
		mock.MatchedBy(func(v domain.Voucher) bool { return v.Status == domain.StatusLocked }),
		mock.AnythingOfType("[]domain.LedgerEntry"),
		mock.AnythingOfType("map[string]decimal.Decimal")).Return(nil).Once()

	entries, err := suite.service.PostVoucher(ctx, suite.companyID, voucher.VoucherID, suite.userID)

	suite.Require().NoError(err)
	suite.Len(entries, 2)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPostVoucher_DraftConflict() {
	ctx := context.Background()
	voucher := suite.lockedVoucher()
	voucher.Status = domain.StatusDraft
	voucher.LockedBy = nil
	voucher.LockedAt = nil

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()
	suite.mockCompanySvc.On("GetSettings", ctx, suite.companyID).Return(&suite.strictSettings, nil).Once()

	entries, err := suite.service.PostVoucher(ctx, suite.companyID, voucher.VoucherID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entries)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "PostEntries", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPostVoucher_ApprovedStrictConflict() {
	ctx := context.Background()
	voucher := suite.lockedVoucher()
	voucher.Status = domain.StatusApproved
	voucher.LockedBy = nil
	voucher.LockedAt = nil

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()
	suite.mockCompanySvc.On("GetSettings", ctx, suite.companyID).Return(&suite.strictSettings, nil).Once()

	entries, err := suite.service.PostVoucher(ctx, suite.companyID, voucher.VoucherID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entries)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *LedgerServiceTestSuite) TestPostVoucher_AlreadyPosted() {
	ctx := context.Background()
	voucher := suite.lockedVoucher()

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()
	suite.mockCompanySvc.On("GetSettings", ctx, suite.companyID).Return(&suite.strictSettings, nil).Once()
	suite.mockLedgerRepo.On("HasEntriesForVoucher", ctx, voucher.VoucherID).Return(true, nil).Once()

	entries, err := suite.service.PostVoucher(ctx, suite.companyID, voucher.VoucherID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entries)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Contains(err.Error(), "already been posted")
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "PostEntries", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPostVoucher_WrongCompany() {
	ctx := context.Background()
	voucher := suite.lockedVoucher()
	voucher.CompanyID = uuid.NewString()

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()

	entries, err := suite.service.PostVoucher(ctx, suite.companyID, voucher.VoucherID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(entries)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- ReverseVoucher ---

func (suite *LedgerServiceTestSuite) TestReverseVoucher_Success() {
	ctx := context.Background()
	original := suite.lockedVoucher()
	entries := suite.postedEntries(original)

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, original.VoucherID).Return(original, nil).Once()
	suite.mockCompanySvc.On("GetSettings", ctx, suite.companyID).Return(&suite.strictSettings, nil).Once()
	suite.mockLedgerRepo.On("FindEntriesByVoucherID", ctx, original.VoucherID).Return(entries, nil).Once()
	suite.mockVoucherRepo.On("NextVoucherNo", ctx, suite.companyID, domain.TypeJournalEntry).Return("JV-000011", nil).Once()
	suite.mockVoucherRepo.On("SaveReversal", ctx, mock.AnythingOfType("domain.Voucher"), original.VoucherID).Return(nil).Once()

	reversal, err := suite.service.ReverseVoucher(ctx, suite.companyID, original.VoucherID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversal)
	suite.Equal(domain.StatusDraft, reversal.Status)
	suite.Equal("JV-000011", reversal.VoucherNo)
	suite.Require().NotNil(reversal.OriginalVoucherID)
	suite.Equal(original.VoucherID, *reversal.OriginalVoucherID)
	suite.Contains(reversal.Description, "Reversal of JV-000010")

	// Sides mirror the posted entries.
	suite.Require().Len(reversal.Lines, 2)
	suite.Equal(suite.cashAccount.AccountID, reversal.Lines[0].AccountID)
	suite.Equal(domain.Credit, reversal.Lines[0].Side)
	suite.Equal(suite.revenueAccount.AccountID, reversal.Lines[1].AccountID)
	suite.Equal(domain.Debit, reversal.Lines[1].Side)
	suite.True(reversal.TotalDebit.Equal(decimal.NewFromInt(100)))
	suite.True(reversal.TotalCredit.Equal(decimal.NewFromInt(100)))

	suite.mockVoucherRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestReverseVoucher_AlreadyReversed() {
	ctx := context.Background()
	original := suite.lockedVoucher()
	reversalID := uuid.NewString()
	original.ReversingVoucherID = &reversalID

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, original.VoucherID).Return(original, nil).Once()

	reversal, err := suite.service.ReverseVoucher(ctx, suite.companyID, original.VoucherID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(reversal)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Contains(err.Error(), "already been reversed")
}

func (suite *LedgerServiceTestSuite) TestReverseVoucher_OfReversalFails() {
	ctx := context.Background()
	voucher := suite.lockedVoucher()
	originalID := uuid.NewString()
	voucher.OriginalVoucherID = &originalID

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()

	reversal, err := suite.service.ReverseVoucher(ctx, suite.companyID, voucher.VoucherID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(reversal)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Contains(err.Error(), "already a reversal")
}

func (suite *LedgerServiceTestSuite) TestReverseVoucher_NotLocked() {
	ctx := context.Background()
	voucher := suite.lockedVoucher()
	voucher.Status = domain.StatusApproved

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()

	reversal, err := suite.service.ReverseVoucher(ctx, suite.companyID, voucher.VoucherID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(reversal)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *LedgerServiceTestSuite) TestReverseVoucher_NoPostedEntries() {
	ctx := context.Background()
	voucher := suite.lockedVoucher()

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()
	suite.mockCompanySvc.On("GetSettings", ctx, suite.companyID).Return(&suite.strictSettings, nil).Once()
	suite.mockLedgerRepo.On("FindEntriesByVoucherID", ctx, voucher.VoucherID).Return([]domain.LedgerEntry{}, nil).Once()

	reversal, err := suite.service.ReverseVoucher(ctx, suite.companyID, voucher.VoucherID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(reversal)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "SaveReversal", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestReverseVoucher_PeriodLocked() {
	ctx := context.Background()
	voucher := suite.lockedVoucher()
	lockDate := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	lockedSettings := domain.CompanySettings{
		BaseCurrencyCode: "USD",
		ApprovalMode:     domain.ApprovalStrict,
		PeriodLockDate:   &lockDate,
	}

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleMember).Return(nil).Once()
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()
	suite.mockCompanySvc.On("GetSettings", ctx, suite.companyID).Return(&lockedSettings, nil).Once()

	reversal, err := suite.service.ReverseVoucher(ctx, suite.companyID, voucher.VoucherID, suite.userID)

	suite.Require().Error(err)
	suite.Nil(reversal)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "SaveReversal", mock.Anything, mock.Anything, mock.Anything)
}

// --- Queries ---

func (suite *LedgerServiceTestSuite) TestGetEntriesByVoucher_Success() {
	ctx := context.Background()
	voucher := suite.lockedVoucher()
	entries := suite.postedEntries(voucher)

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, voucher.VoucherID).Return(voucher, nil).Once()
	suite.mockLedgerRepo.On("FindEntriesByVoucherID", ctx, voucher.VoucherID).Return(entries, nil).Once()

	got, err := suite.service.GetEntriesByVoucher(ctx, suite.companyID, voucher.VoucherID, suite.userID)

	suite.Require().NoError(err)
	suite.Len(got, 2)
}

func (suite *LedgerServiceTestSuite) TestListEntriesByAccount_DefaultLimit() {
	ctx := context.Background()
	voucher := suite.lockedVoucher()
	entries := suite.postedEntries(voucher)[:1]
	token := "next-page"

	suite.mockCompanySvc.On("AuthorizeUserAction", ctx, suite.userID, suite.companyID, domain.RoleReadOnly).Return(nil).Once()
	suite.mockLedgerRepo.On("ListEntriesByAccount", ctx, suite.companyID, suite.cashAccount.AccountID, 20, (*string)(nil)).
		Return(entries, token, nil).Once()

	resp, err := suite.service.ListEntriesByAccount(ctx, suite.companyID, suite.cashAccount.AccountID, suite.userID, dto.ListLedgerEntriesParams{})

	suite.Require().NoError(err)
	suite.Len(resp.Entries, 1)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(token, *resp.NextToken)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
