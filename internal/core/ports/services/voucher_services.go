package services

import (
	"context"

	"github.com/openbooks/openbooks-backend/internal/core/domain"
	"github.com/openbooks/openbooks-backend/internal/dto"
)

// VoucherReaderSvc defines read operations for voucher data.
type VoucherReaderSvc interface {
	// GetVoucherByID retrieves a voucher with its lines.
	GetVoucherByID(ctx context.Context, companyID string, voucherID string, requestingUserID string) (*domain.Voucher, error)

	// ListVouchers retrieves a paginated list of vouchers in a company.
	ListVouchers(ctx context.Context, companyID string, userID string, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error)
}

// VoucherWriterSvc defines the voucher lifecycle operations.
type VoucherWriterSvc interface {
	// CreateVoucher validates raw input through the type handler, builds the
	// aggregate and persists it as a Draft. Under a Flexible approval policy
	// the draft is auto-approved in the same call.
	CreateVoucher(ctx context.Context, companyID string, req dto.CreateVoucherRequest, creatorUserID string) (*domain.Voucher, error)

	// UpdateVoucher updates header fields of a Draft voucher.
	UpdateVoucher(ctx context.Context, companyID string, voucherID string, req dto.UpdateVoucherRequest, requestingUserID string) (*domain.Voucher, error)

	// ApproveVoucher transitions Draft -> Approved.
	ApproveVoucher(ctx context.Context, companyID string, voucherID string, approverUserID string) (*domain.Voucher, error)

	// RejectVoucher transitions Draft -> Rejected with a reason.
	RejectVoucher(ctx context.Context, companyID string, voucherID string, rejecterUserID string, reason string) (*domain.Voucher, error)

	// LockVoucher transitions Approved -> Locked.
	LockVoucher(ctx context.Context, companyID string, voucherID string, lockerUserID string) (*domain.Voucher, error)

	// DeleteVoucher removes a voucher. Drafts and rejected vouchers can always
	// be deleted; locked vouchers only when the company policy allows it.
	DeleteVoucher(ctx context.Context, companyID string, voucherID string, requestingUserID string) error
}

// VoucherSvcFacade combines all voucher lifecycle interfaces.
type VoucherSvcFacade interface {
	VoucherReaderSvc
	VoucherWriterSvc
}
