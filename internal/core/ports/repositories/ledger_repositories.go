package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/openbooks/openbooks-backend/internal/core/domain"
)

// LedgerReader defines read operations over posted ledger entries.
type LedgerReader interface {
	// FindEntriesByVoucherID retrieves all ledger entries posted for a voucher,
	// ordered by line number.
	FindEntriesByVoucherID(ctx context.Context, voucherID string) ([]domain.LedgerEntry, error)

	// ListEntriesByAccount retrieves a paginated list of entries for an account
	// using token-based pagination.
	ListEntriesByAccount(ctx context.Context, companyID string, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// HasEntriesForVoucher reports whether the voucher has already been posted.
	HasEntriesForVoucher(ctx context.Context, voucherID string) (bool, error)
}

// LedgerWriter defines the posting engine's single write operation.
type LedgerWriter interface {
	// PostEntries writes every ledger entry, updates the voucher row to the
	// given post-transition state and applies account balance deltas inside
	// one database transaction. Either every line is written or none are; if
	// the transaction aborts the voucher's status is unchanged and no entries
	// exist. Entries are immutable once written - there is no update or
	// delete counterpart.
	PostEntries(ctx context.Context, voucher domain.Voucher, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal) error
}

// LedgerRepositoryFacade combines ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}

// LedgerRepositoryWithTx extends LedgerRepositoryFacade with transaction capabilities.
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	TransactionManager
}
