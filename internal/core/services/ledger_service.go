package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks/openbooks-backend/internal/apperrors"
	"github.com/openbooks/openbooks-backend/internal/core/domain"
	portsrepo "github.com/openbooks/openbooks-backend/internal/core/ports/repositories"
	portssvc "github.com/openbooks/openbooks-backend/internal/core/ports/services"
	"github.com/openbooks/openbooks-backend/internal/dto"
	"github.com/openbooks/openbooks-backend/internal/middleware"
	"github.com/openbooks/openbooks-backend/internal/utils/accounting"
)

// ledgerService is the posting and reversal engine. It is the only writer of
// ledger entries; everything it writes is immutable.
type ledgerService struct {
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	voucherRepo portsrepo.VoucherRepositoryFacade
	accountSvc  portssvc.AccountSvcFacade
	companySvc  portssvc.CompanySvcFacade
}

// NewLedgerService creates a new LedgerSvcFacade implementation.
func NewLedgerService(
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	voucherRepo portsrepo.VoucherRepositoryFacade,
	accountSvc portssvc.AccountSvcFacade,
	companySvc portssvc.CompanySvcFacade,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo:  ledgerRepo,
		voucherRepo: voucherRepo,
		accountSvc:  accountSvc,
		companySvc:  companySvc,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// PostVoucher converts a voucher into ledger entries, one per line, inside a
// single database transaction together with the voucher status update and the
// account balance deltas. Posting the same voucher twice fails with a
// conflict; nothing is duplicated.
func (s *ledgerService) PostVoucher(ctx context.Context, companyID string, voucherID string, userID string) ([]domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for PostVoucher", slog.String("user_id", userID), slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	voucher, err := s.fetchCompanyVoucher(ctx, companyID, voucherID)
	if err != nil {
		return nil, err
	}

	settings, err := s.companySvc.GetSettings(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company settings: %w", err)
	}

	// Strict companies post only Locked vouchers. Flexible companies may post
	// an Approved voucher; posting locks it in the same transaction.
	postVoucher := *voucher
	switch {
	case voucher.IsLocked():
	case voucher.IsApproved() && settings.ApprovalMode == domain.ApprovalFlexible:
		postVoucher, err = voucher.Lock(userID, time.Now().UTC())
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: voucher status is %s, expected LOCKED", apperrors.ErrConflict, voucher.Status)
	}

	posted, err := s.ledgerRepo.HasEntriesForVoucher(ctx, voucherID)
	if err != nil {
		logger.Error("Failed to check existing ledger entries", slog.String("error", err.Error()), slog.String("voucher_id", voucherID))
		return nil, fmt.Errorf("failed to check existing ledger entries: %w", err)
	}
	if posted {
		return nil, fmt.Errorf("%w: voucher %s has already been posted", apperrors.ErrConflict, voucherID)
	}

	entries := buildEntries(postVoucher, userID, time.Now().UTC())

	balanceChanges, err := s.balanceChangesFor(ctx, companyID, userID, entries)
	if err != nil {
		return nil, err
	}

	if err := s.ledgerRepo.PostEntries(ctx, postVoucher, entries, balanceChanges); err != nil {
		logger.Error("Failed to post ledger entries", slog.String("error", err.Error()), slog.String("voucher_id", voucherID))
		return nil, fmt.Errorf("failed to post ledger entries: %w", err)
	}

	logger.Info("Voucher posted successfully",
		slog.String("voucher_id", voucherID),
		slog.String("company_id", companyID),
		slog.Int("entry_count", len(entries)))
	return entries, nil
}

// ReverseVoucher creates a new Draft voucher whose lines mirror the original's
// persisted ledger entries with debit and credit swapped. The original is
// never mutated beyond recording the link to its reversal.
func (s *ledgerService) ReverseVoucher(ctx context.Context, companyID string, voucherID string, userID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for ReverseVoucher", slog.String("user_id", userID), slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	original, err := s.fetchCompanyVoucher(ctx, companyID, voucherID)
	if err != nil {
		return nil, err
	}

	if original.IsReversal() {
		return nil, fmt.Errorf("%w: cannot reverse a voucher that is already a reversal", apperrors.ErrConflict)
	}
	if original.ReversingVoucherID != nil {
		return nil, fmt.Errorf("%w: voucher %s has already been reversed by %s", apperrors.ErrConflict, voucherID, *original.ReversingVoucherID)
	}
	if !original.IsLocked() {
		return nil, fmt.Errorf("%w: voucher status is %s, expected LOCKED", apperrors.ErrConflict, original.Status)
	}

	// The reversal carries the original's date, so a closed period blocks it.
	settings, err := s.companySvc.GetSettings(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load company settings: %w", err)
	}
	if err := checkPeriodLock(settings, original.Date); err != nil {
		return nil, err
	}

	// The reversal mirrors what was actually posted, not what the voucher
	// claims: lines come from the persisted entries.
	originalEntries, err := s.ledgerRepo.FindEntriesByVoucherID(ctx, voucherID)
	if err != nil {
		logger.Error("Failed to fetch original ledger entries for reversal", slog.String("error", err.Error()), slog.String("voucher_id", voucherID))
		return nil, fmt.Errorf("failed to retrieve original ledger entries: %w", err)
	}
	if len(originalEntries) == 0 {
		return nil, fmt.Errorf("%w: voucher %s has no posted ledger entries to reverse", apperrors.ErrConflict, voucherID)
	}

	now := time.Now().UTC()
	newVoucherID := uuid.NewString()

	lines := make([]domain.VoucherLine, len(originalEntries))
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i, entry := range originalEntries {
		side := domain.Credit
		if entry.Side() == domain.Credit {
			side = domain.Debit
		}
		lines[i] = domain.VoucherLine{
			LineID:           i + 1,
			AccountID:        entry.AccountID,
			Side:             side,
			Amount:           entry.Amount,
			BaseAmount:       entry.BaseAmount(),
			CurrencyCode:     entry.LineCurrency,
			BaseCurrencyCode: entry.BaseCurrency,
			ExchangeRate:     entry.ExchangeRate,
			CostCenterID:     entry.CostCenterID,
		}
		if side == domain.Debit {
			totalDebit = totalDebit.Add(entry.BaseAmount())
		} else {
			totalCredit = totalCredit.Add(entry.BaseAmount())
		}
	}

	voucherNo, err := s.voucherRepo.NextVoucherNo(ctx, companyID, original.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate voucher number: %w", err)
	}

	originalID := original.VoucherID
	reversal := domain.Voucher{
		VoucherID:         newVoucherID,
		CompanyID:         companyID,
		VoucherNo:         voucherNo,
		Type:              original.Type,
		Date:              original.Date,
		Description:       fmt.Sprintf("Reversal of %s: %s", original.VoucherNo, original.Description),
		CurrencyCode:      original.CurrencyCode,
		BaseCurrencyCode:  original.BaseCurrencyCode,
		ExchangeRate:      original.ExchangeRate,
		Lines:             lines,
		TotalDebit:        totalDebit,
		TotalCredit:       totalCredit,
		Status:            domain.StatusDraft,
		OriginalVoucherID: &originalID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.voucherRepo.SaveReversal(ctx, reversal, originalID); err != nil {
		logger.Error("Failed to save reversal voucher", slog.String("error", err.Error()), slog.String("original_voucher_id", originalID))
		return nil, fmt.Errorf("failed to save reversal voucher: %w", err)
	}

	logger.Info("Reversal voucher created successfully",
		slog.String("reversal_voucher_id", newVoucherID),
		slog.String("original_voucher_id", originalID))
	return &reversal, nil
}

// GetEntriesByVoucher retrieves the entries posted for a voucher.
func (s *ledgerService) GetEntriesByVoucher(ctx context.Context, companyID string, voucherID string, userID string) ([]domain.LedgerEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	if _, err := s.fetchCompanyVoucher(ctx, companyID, voucherID); err != nil {
		return nil, err
	}

	entries, err := s.ledgerRepo.FindEntriesByVoucherID(ctx, voucherID)
	if err != nil {
		logger.Error("Failed to fetch ledger entries for voucher", slog.String("error", err.Error()), slog.String("voucher_id", voucherID))
		return nil, fmt.Errorf("failed to retrieve ledger entries: %w", err)
	}
	return entries, nil
}

// ListEntriesByAccount retrieves a paginated list of posted entries for an account.
func (s *ledgerService) ListEntriesByAccount(ctx context.Context, companyID string, accountID string, userID string, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for ListEntriesByAccount", "error", err)
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.ledgerRepo.ListEntriesByAccount(ctx, companyID, accountID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list ledger entries by account", "error", err)
		return nil, fmt.Errorf("failed to retrieve ledger entries: %w", err)
	}

	resp := &dto.ListLedgerEntriesResponse{
		Entries:   dto.ToLedgerEntryResponses(entries),
		NextToken: nextToken,
	}

	logger.Info("Ledger entries listed successfully", "count", len(entries))
	return resp, nil
}

// fetchCompanyVoucher loads a voucher and hides its existence from other companies.
func (s *ledgerService) fetchCompanyVoucher(ctx context.Context, companyID, voucherID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find voucher by ID", slog.String("error", err.Error()), slog.String("voucher_id", voucherID))
		}
		return nil, err
	}
	if voucher.CompanyID != companyID {
		logger.Warn("Voucher found but belongs to different company", slog.String("voucher_id", voucherID), slog.String("voucher_company", voucher.CompanyID), slog.String("requested_company", companyID))
		return nil, apperrors.ErrNotFound
	}
	return voucher, nil
}

// buildEntries derives one immutable ledger entry from each voucher line.
func buildEntries(voucher domain.Voucher, userID string, now time.Time) []domain.LedgerEntry {
	entries := make([]domain.LedgerEntry, len(voucher.Lines))
	for i, line := range voucher.Lines {
		entry := domain.LedgerEntry{
			EntryID:      uuid.NewString(),
			CompanyID:    voucher.CompanyID,
			VoucherID:    voucher.VoucherID,
			LineID:       line.LineID,
			AccountID:    line.AccountID,
			Amount:       line.Amount,
			LineCurrency: line.CurrencyCode,
			BaseCurrency: line.BaseCurrencyCode,
			ExchangeRate: line.ExchangeRate,
			CostCenterID: line.CostCenterID,
			Date:         voucher.Date,
			CreatedAt:    now,
			CreatedBy:    userID,
		}
		if line.IsDebit() {
			entry.DebitBase = line.BaseAmount
		} else {
			entry.CreditBase = line.BaseAmount
		}
		entries[i] = entry
	}
	return entries
}

// balanceChangesFor computes the per-account signed deltas the posting
// transaction applies to running balances.
func (s *ledgerService) balanceChangesFor(ctx context.Context, companyID, userID string, entries []domain.LedgerEntry) (map[string]decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accountIDs := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.AccountID]; !ok {
			seen[entry.AccountID] = struct{}{}
			accountIDs = append(accountIDs, entry.AccountID)
		}
	}

	accountsMap, err := s.accountSvc.GetAccountsByIDs(ctx, companyID, accountIDs, userID)
	if err != nil {
		logger.Error("Failed to fetch accounts for balance calculation", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	classifications := make(map[string]domain.AccountClassification, len(accountsMap))
	for id, acc := range accountsMap {
		classifications[id] = acc.Classification
	}

	changes, err := accounting.BalanceChanges(entries, classifications)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate balance changes: %w", err)
	}
	return changes, nil
}
