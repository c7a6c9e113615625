package repositories

import (
	"context"

	"github.com/openbooks/openbooks-backend/internal/core/domain"
)

// VoucherReader defines read operations for voucher data.
type VoucherReader interface {
	// FindVoucherByID retrieves a voucher with its lines by its unique identifier.
	FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error)

	// ListVouchersByCompany retrieves a paginated list of vouchers for a company
	// using token-based pagination. Lines are not populated.
	ListVouchersByCompany(ctx context.Context, companyID string, limit int, nextToken *string, status *domain.VoucherStatus) ([]domain.Voucher, *string, error)

	// NextVoucherNo returns the next sequential voucher number for a company and type.
	NextVoucherNo(ctx context.Context, companyID string, voucherType domain.VoucherType) (string, error)
}

// VoucherWriter defines write operations for voucher data.
type VoucherWriter interface {
	// SaveVoucher persists a voucher and its lines atomically.
	SaveVoucher(ctx context.Context, voucher domain.Voucher) error

	// UpdateVoucher persists the state of a voucher produced by an aggregate
	// transition (status, approval/lock audit fields). Lines are immutable
	// once the voucher exists and are not touched.
	UpdateVoucher(ctx context.Context, voucher domain.Voucher) error

	// SaveReversal persists a reversal voucher and links it to the original
	// voucher in a single database transaction.
	SaveReversal(ctx context.Context, reversal domain.Voucher, originalVoucherID string) error

	// DeleteVoucher removes a voucher and its lines. Only callable for
	// companies whose settings permit deleting (flexible mode with locked
	// edits enabled, or drafts).
	DeleteVoucher(ctx context.Context, voucherID string) error
}

// VoucherRepositoryFacade combines all voucher-related repository interfaces.
type VoucherRepositoryFacade interface {
	VoucherReader
	VoucherWriter
}

// VoucherRepositoryWithTx extends VoucherRepositoryFacade with transaction capabilities.
type VoucherRepositoryWithTx interface {
	VoucherRepositoryFacade
	TransactionManager
}
