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
	"github.com/openbooks/openbooks-backend/internal/core/vouchertypes"
	"github.com/openbooks/openbooks-backend/internal/dto"
	"github.com/openbooks/openbooks-backend/internal/middleware"
	"github.com/openbooks/openbooks-backend/internal/utils/money"
)

const voucherDateLayout = "2006-01-02"

// voucherService provides the voucher lifecycle operations: create, approve,
// reject, lock, update and delete. Posting is the ledger service's job.
type voucherService struct {
	voucherRepo     portsrepo.VoucherRepositoryFacade
	ledgerRepo      portsrepo.LedgerReader
	accountSvc      portssvc.AccountSvcFacade
	companySvc      portssvc.CompanySvcFacade
	exchangeRateSvc portssvc.ExchangeRateReaderSvc
	registry        *vouchertypes.Registry
	precision       *money.Service
}

// NewVoucherService creates a new VoucherSvcFacade implementation.
func NewVoucherService(
	voucherRepo portsrepo.VoucherRepositoryFacade,
	ledgerRepo portsrepo.LedgerReader,
	accountSvc portssvc.AccountSvcFacade,
	companySvc portssvc.CompanySvcFacade,
	exchangeRateSvc portssvc.ExchangeRateReaderSvc,
	registry *vouchertypes.Registry,
	precision *money.Service,
) portssvc.VoucherSvcFacade {
	return &voucherService{
		voucherRepo:     voucherRepo,
		ledgerRepo:      ledgerRepo,
		accountSvc:      accountSvc,
		companySvc:      companySvc,
		exchangeRateSvc: exchangeRateSvc,
		registry:        registry,
		precision:       precision,
	}
}

var _ portssvc.VoucherSvcFacade = (*voucherService)(nil)

// CreateVoucher validates raw input through the type handler, builds the
// aggregate and persists it. Under a Flexible approval policy the voucher is
// approved in the same call.
func (s *voucherService) CreateVoucher(ctx context.Context, companyID string, req dto.CreateVoucherRequest, creatorUserID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, creatorUserID, companyID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for CreateVoucher", slog.String("user_id", creatorUserID), slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	settings, err := s.companySvc.GetSettings(ctx, companyID)
	if err != nil {
		logger.Error("Failed to load company settings", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to load company settings: %w", err)
	}

	handler, err := s.registry.Handler(req.Type)
	if err != nil {
		return nil, err
	}

	in := req.ToHandlerInput()
	if err := handler.Validate(in); err != nil {
		return nil, err
	}

	// Validate succeeded, so the date parses.
	voucherDate, err := time.Parse(voucherDateLayout, in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, in.Date)
	}

	if err := checkPeriodLock(settings, voucherDate); err != nil {
		return nil, err
	}

	currencyCode := in.CurrencyCode
	if currencyCode == "" {
		currencyCode = settings.BaseCurrencyCode
	}

	exchangeRate, err := s.resolveExchangeRate(ctx, companyID, currencyCode, settings.BaseCurrencyCode, voucherDate, req.ExchangeRate)
	if err != nil {
		return nil, err
	}

	lines, err := handler.CreateLines(in, settings.BaseCurrencyCode, exchangeRate)
	if err != nil {
		return nil, err
	}

	if err := s.validateLineAccounts(ctx, companyID, creatorUserID, settings, lines); err != nil {
		return nil, err
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, line := range lines {
		if line.IsDebit() {
			totalDebit = totalDebit.Add(line.BaseAmount)
		} else {
			totalCredit = totalCredit.Add(line.BaseAmount)
		}
	}

	voucherNo, err := s.voucherRepo.NextVoucherNo(ctx, companyID, req.Type)
	if err != nil {
		logger.Error("Failed to allocate voucher number", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to allocate voucher number: %w", err)
	}

	now := time.Now().UTC()
	voucher, err := domain.NewVoucher(domain.Voucher{
		VoucherID:        uuid.NewString(),
		CompanyID:        companyID,
		VoucherNo:        voucherNo,
		Type:             req.Type,
		Date:             voucherDate,
		Description:      in.Description,
		CurrencyCode:     currencyCode,
		BaseCurrencyCode: settings.BaseCurrencyCode,
		ExchangeRate:     exchangeRate,
		Lines:            lines,
		TotalDebit:       totalDebit,
		TotalCredit:      totalCredit,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}, s.precision)
	if err != nil {
		return nil, err
	}

	// Flexible companies skip the explicit approval step
	if settings.ApprovalMode == domain.ApprovalFlexible {
		voucher, err = voucher.Approve(creatorUserID, now)
		if err != nil {
			return nil, err
		}
	}

	if err := s.voucherRepo.SaveVoucher(ctx, voucher); err != nil {
		logger.Error("Failed to save voucher", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save voucher: %w", err)
	}

	logger.Info("Voucher created successfully",
		slog.String("voucher_id", voucher.VoucherID),
		slog.String("voucher_no", voucher.VoucherNo),
		slog.String("company_id", companyID),
		slog.String("status", string(voucher.Status)))
	return &voucher, nil
}

// resolveExchangeRate picks the voucher's conversion rate: one for same
// currency, the caller's explicit rate when given, otherwise the latest stored
// rate effective on or before the voucher date.
func (s *voucherService) resolveExchangeRate(ctx context.Context, companyID, currencyCode, baseCurrencyCode string, date time.Time, explicit *decimal.Decimal) (decimal.Decimal, error) {
	if currencyCode == baseCurrencyCode {
		return decimal.NewFromInt(1), nil
	}
	if explicit != nil {
		if !explicit.IsPositive() {
			return decimal.Zero, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
		}
		return *explicit, nil
	}
	rate, err := s.exchangeRateSvc.GetRateForDate(ctx, companyID, currencyCode, baseCurrencyCode, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("%w: no exchange rate available for %s/%s", apperrors.ErrValidation, currencyCode, baseCurrencyCode)
		}
		return decimal.Zero, fmt.Errorf("failed to resolve exchange rate: %w", err)
	}
	return rate.Rate, nil
}

// validateLineAccounts checks that every referenced account exists in the
// company, is active and accepts the line's currency.
func (s *voucherService) validateLineAccounts(ctx context.Context, companyID, userID string, settings *domain.CompanySettings, lines []domain.VoucherLine) error {
	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; !ok {
			seen[line.AccountID] = struct{}{}
			accountIDs = append(accountIDs, line.AccountID)
		}
	}

	accountsMap, err := s.accountSvc.GetAccountsByIDs(ctx, companyID, accountIDs, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}

	for _, line := range lines {
		acc, found := accountsMap[line.AccountID]
		if !found {
			return fmt.Errorf("%w: account %s not found", apperrors.ErrValidation, line.AccountID)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, line.AccountID)
		}
		effective := acc.EffectiveCurrency(settings.BaseCurrencyCode)
		if effective != line.CurrencyCode {
			return fmt.Errorf("%w: line %d: account %s requires currency %s, got %s", apperrors.ErrValidation, line.LineID, acc.Code, effective, line.CurrencyCode)
		}
	}
	return nil
}

// checkPeriodLock rejects vouchers dated in a closed accounting period.
func checkPeriodLock(settings *domain.CompanySettings, date time.Time) error {
	if settings.PeriodLockDate == nil {
		return nil
	}
	if !date.After(*settings.PeriodLockDate) {
		return fmt.Errorf("%w: voucher date %s falls in a locked period (closed through %s)",
			apperrors.ErrValidation, date.Format(voucherDateLayout), settings.PeriodLockDate.Format(voucherDateLayout))
	}
	return nil
}

// GetVoucherByID retrieves a voucher with its lines.
func (s *voucherService) GetVoucherByID(ctx context.Context, companyID string, voucherID string, requestingUserID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for GetVoucherByID", slog.String("user_id", requestingUserID), slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	voucher, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find voucher by ID", slog.String("error", err.Error()), slog.String("voucher_id", voucherID))
		}
		return nil, err
	}

	if voucher.CompanyID != companyID {
		logger.Warn("Voucher found but belongs to different company", slog.String("voucher_id", voucherID), slog.String("voucher_company", voucher.CompanyID), slog.String("requested_company", companyID))
		return nil, apperrors.ErrNotFound // Obscure existence
	}

	return voucher, nil
}

// ListVouchers retrieves a paginated list of vouchers for a company.
func (s *voucherService) ListVouchers(ctx context.Context, companyID string, userID string, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for ListVouchers", "error", err)
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	vouchers, nextToken, err := s.voucherRepo.ListVouchersByCompany(ctx, companyID, limit, params.NextToken, params.Status)
	if err != nil {
		logger.Error("Failed to list vouchers from repository", "error", err)
		return nil, fmt.Errorf("failed to retrieve vouchers: %w", err)
	}

	voucherResponses := make([]dto.VoucherResponse, len(vouchers))
	for i := range vouchers {
		voucherResponses[i] = dto.ToVoucherResponse(&vouchers[i])
	}

	resp := &dto.ListVouchersResponse{
		Vouchers:  voucherResponses,
		NextToken: nextToken,
	}

	logger.Info("Vouchers listed successfully", "count", len(vouchers))
	return resp, nil
}

// UpdateVoucher updates header fields of a Draft voucher. Companies running a
// Flexible policy with locked edits enabled may also update non-posted
// approved or locked vouchers.
func (s *voucherService) UpdateVoucher(ctx context.Context, companyID string, voucherID string, req dto.UpdateVoucherRequest, requestingUserID string) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleMember); err != nil {
		return nil, err
	}

	voucher, err := s.GetVoucherByID(ctx, companyID, voucherID, requestingUserID)
	if err != nil {
		return nil, err
	}

	if !voucher.IsDraft() {
		settings, err := s.companySvc.GetSettings(ctx, companyID)
		if err != nil {
			return nil, fmt.Errorf("failed to load company settings: %w", err)
		}
		if !allowsLockedEdit(settings) {
			return nil, fmt.Errorf("%w: cannot update voucher in status %s", apperrors.ErrConflict, voucher.Status)
		}
		posted, err := s.ledgerRepo.HasEntriesForVoucher(ctx, voucherID)
		if err != nil {
			return nil, fmt.Errorf("failed to check posted entries: %w", err)
		}
		if posted {
			return nil, fmt.Errorf("%w: voucher %s has posted ledger entries and cannot be edited", apperrors.ErrConflict, voucherID)
		}
	}

	updated := false
	if req.Date != nil {
		newDate, err := time.Parse(voucherDateLayout, *req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date %q", apperrors.ErrValidation, *req.Date)
		}
		settings, err := s.companySvc.GetSettings(ctx, companyID)
		if err != nil {
			return nil, fmt.Errorf("failed to load company settings: %w", err)
		}
		if err := checkPeriodLock(settings, newDate); err != nil {
			return nil, err
		}
		voucher.Date = newDate
		updated = true
	}
	if req.Description != nil {
		voucher.Description = *req.Description
		updated = true
	}

	if !updated {
		logger.Debug("No fields provided for voucher update", slog.String("voucher_id", voucherID))
		return voucher, nil
	}

	now := time.Now().UTC()
	voucher.LastUpdatedAt = now
	voucher.LastUpdatedBy = requestingUserID

	if err := s.voucherRepo.UpdateVoucher(ctx, *voucher); err != nil {
		logger.Error("Failed to save voucher update", slog.String("error", err.Error()), slog.String("voucher_id", voucherID))
		return nil, fmt.Errorf("failed to save voucher update: %w", err)
	}

	logger.Info("Voucher updated successfully", slog.String("voucher_id", voucherID))
	return voucher, nil
}

// ApproveVoucher transitions Draft -> Approved. Vouchers dated in a closed
// period cannot be approved even when they slipped in as drafts before the
// period was locked.
func (s *voucherService) ApproveVoucher(ctx context.Context, companyID string, voucherID string, approverUserID string) (*domain.Voucher, error) {
	return s.transition(ctx, companyID, voucherID, approverUserID, func(v domain.Voucher, now time.Time) (domain.Voucher, error) {
		settings, err := s.companySvc.GetSettings(ctx, companyID)
		if err != nil {
			return domain.Voucher{}, fmt.Errorf("failed to load company settings: %w", err)
		}
		if err := checkPeriodLock(settings, v.Date); err != nil {
			return domain.Voucher{}, err
		}
		return v.Approve(approverUserID, now)
	})
}

// RejectVoucher transitions Draft -> Rejected with a reason.
func (s *voucherService) RejectVoucher(ctx context.Context, companyID string, voucherID string, rejecterUserID string, reason string) (*domain.Voucher, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", apperrors.ErrValidation)
	}
	return s.transition(ctx, companyID, voucherID, rejecterUserID, func(v domain.Voucher, now time.Time) (domain.Voucher, error) {
		return v.Reject(rejecterUserID, now, reason)
	})
}

// LockVoucher transitions Approved -> Locked, making the voucher eligible for posting.
func (s *voucherService) LockVoucher(ctx context.Context, companyID string, voucherID string, lockerUserID string) (*domain.Voucher, error) {
	return s.transition(ctx, companyID, voucherID, lockerUserID, func(v domain.Voucher, now time.Time) (domain.Voucher, error) {
		return v.Lock(lockerUserID, now)
	})
}

// transition runs the shared fetch-transition-persist cycle for lifecycle
// operations. The aggregate enforces which transitions are legal.
func (s *voucherService) transition(ctx context.Context, companyID, voucherID, userID string, fn func(domain.Voucher, time.Time) (domain.Voucher, error)) (*domain.Voucher, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, userID, companyID, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for voucher transition", slog.String("user_id", userID), slog.String("company_id", companyID), slog.String("error", err.Error()))
		return nil, err
	}

	voucher, err := s.GetVoucherByID(ctx, companyID, voucherID, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	next, err := fn(*voucher, now)
	if err != nil {
		return nil, err
	}

	if err := s.voucherRepo.UpdateVoucher(ctx, next); err != nil {
		logger.Error("Failed to persist voucher transition", slog.String("error", err.Error()), slog.String("voucher_id", voucherID))
		return nil, fmt.Errorf("failed to persist voucher transition: %w", err)
	}

	logger.Info("Voucher transitioned successfully",
		slog.String("voucher_id", voucherID),
		slog.String("status", string(next.Status)))
	return &next, nil
}

// DeleteVoucher removes a voucher. Drafts and rejected vouchers can always be
// deleted; locked vouchers only under a Flexible policy with locked edits
// enabled, and never once posted.
func (s *voucherService) DeleteVoucher(ctx context.Context, companyID string, voucherID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.companySvc.AuthorizeUserAction(ctx, requestingUserID, companyID, domain.RoleMember); err != nil {
		return err
	}

	voucher, err := s.GetVoucherByID(ctx, companyID, voucherID, requestingUserID)
	if err != nil {
		return err
	}

	if !voucher.IsDraft() && !voucher.IsRejected() {
		settings, err := s.companySvc.GetSettings(ctx, companyID)
		if err != nil {
			return fmt.Errorf("failed to load company settings: %w", err)
		}
		if !allowsLockedEdit(settings) {
			return fmt.Errorf("%w: cannot delete voucher in status %s", apperrors.ErrConflict, voucher.Status)
		}
		posted, err := s.ledgerRepo.HasEntriesForVoucher(ctx, voucherID)
		if err != nil {
			return fmt.Errorf("failed to check posted entries: %w", err)
		}
		if posted {
			return fmt.Errorf("%w: voucher %s has posted ledger entries and cannot be deleted", apperrors.ErrConflict, voucherID)
		}
	}

	if err := s.voucherRepo.DeleteVoucher(ctx, voucherID); err != nil {
		logger.Error("Failed to delete voucher", slog.String("error", err.Error()), slog.String("voucher_id", voucherID))
		return fmt.Errorf("failed to delete voucher: %w", err)
	}

	logger.Info("Voucher deleted successfully", slog.String("voucher_id", voucherID))
	return nil
}

func allowsLockedEdit(settings *domain.CompanySettings) bool {
	return settings.ApprovalMode == domain.ApprovalFlexible && settings.AllowLockedEdit
}
