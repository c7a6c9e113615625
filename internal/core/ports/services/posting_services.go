package services

import (
	"context"

	"github.com/openbooks/openbooks-backend/internal/core/domain"
	"github.com/openbooks/openbooks-backend/internal/dto"
)

// PostingSvc is the ledger posting engine: it converts a locked voucher into
// immutable ledger entries, atomically.
type PostingSvc interface {
	// PostVoucher writes one ledger entry per voucher line. The voucher must
	// be Locked, or Approved when the company runs a Flexible approval policy
	// (in which case posting locks it in the same transaction). Re-posting an
	// already-posted voucher fails with a conflict rather than duplicating.
	PostVoucher(ctx context.Context, companyID string, voucherID string, userID string) ([]domain.LedgerEntry, error)
}

// ReversalSvc is the reversal engine: it produces a corrective voucher from a
// posted voucher's actual ledger data.
type ReversalSvc interface {
	// ReverseVoucher creates a new Draft voucher whose lines mirror the
	// original's persisted ledger entries with debit and credit swapped.
	// The original voucher is never mutated.
	ReverseVoucher(ctx context.Context, companyID string, voucherID string, userID string) (*domain.Voucher, error)
}

// LedgerReaderSvc defines read operations over posted entries.
type LedgerReaderSvc interface {
	// GetEntriesByVoucher retrieves the entries posted for a voucher.
	GetEntriesByVoucher(ctx context.Context, companyID string, voucherID string, userID string) ([]domain.LedgerEntry, error)

	// ListEntriesByAccount retrieves a paginated list of entries for an account.
	ListEntriesByAccount(ctx context.Context, companyID string, accountID string, userID string, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error)
}

// LedgerSvcFacade combines posting, reversal and ledger read interfaces.
type LedgerSvcFacade interface {
	PostingSvc
	ReversalSvc
	LedgerReaderSvc
}
