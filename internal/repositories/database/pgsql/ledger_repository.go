package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/openbooks/openbooks-backend/internal/apperrors"
	"github.com/openbooks/openbooks-backend/internal/core/domain"
	portsrepo "github.com/openbooks/openbooks-backend/internal/core/ports/repositories"
	"github.com/openbooks/openbooks-backend/internal/models"
	"github.com/openbooks/openbooks-backend/internal/utils/mapping"
	"github.com/openbooks/openbooks-backend/internal/utils/pagination"
)

type PgxLedgerRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxLedgerRepository creates a new repository for posted ledger entries.
func newPgxLedgerRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.LedgerRepositoryWithTx {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryWithTx
var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

const ledgerEntryColumns = `entry_id, company_id, voucher_id, line_no, account_id, debit_base, credit_base, amount, line_currency, base_currency, exchange_rate, cost_center_id, entry_date, created_at, created_by`

// scanLedgerEntryRow scans one ledgerEntryColumns row into a models.LedgerEntry.
func scanLedgerEntryRow(row pgx.Row) (models.LedgerEntry, error) {
	var m models.LedgerEntry
	var costCenterID sql.NullString
	err := row.Scan(
		&m.EntryID,
		&m.CompanyID,
		&m.VoucherID,
		&m.LineNo,
		&m.AccountID,
		&m.DebitBase,
		&m.CreditBase,
		&m.Amount,
		&m.LineCurrency,
		&m.BaseCurrency,
		&m.ExchangeRate,
		&costCenterID,
		&m.EntryDate,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	if costCenterID.Valid {
		m.CostCenterID = costCenterID.String
	}
	return m, nil
}

// PostEntries writes every ledger entry, updates the voucher row to the given
// post-transition state and applies account balance deltas inside one database
// transaction. Either every line is written or none are.
func (r *PgxLedgerRepository) PostEntries(ctx context.Context, voucher domain.Voucher, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelVoucher := mapping.ToModelVoucher(voucher)

	// 1. Persist the post-transition voucher state. Under the flexible policy
	// the voucher was locked as part of this call, so status and lock audit
	// fields may have changed.
	voucherQuery := `
		UPDATE vouchers
		SET status = $2,
		    locked_by = $3,
		    locked_at = $4,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE voucher_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, voucherQuery,
		modelVoucher.VoucherID,
		modelVoucher.Status,
		modelVoucher.LockedBy,
		modelVoucher.LockedAt,
		modelVoucher.LastUpdatedAt,
		modelVoucher.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update voucher "+modelVoucher.VoucherID+" during posting", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	// 2. Lock the affected accounts. Missing accounts abort the posting.
	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}
	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return fmt.Errorf("failed to lock accounts for posting: %w", err)
	}

	// 3. Apply the balance deltas.
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, voucher.LastUpdatedBy, voucher.LastUpdatedAt); err != nil {
		return fmt.Errorf("failed to update account balances: %w", err)
	}

	// 4. Insert the ledger entries as a batch.
	entryQuery := `
		INSERT INTO ledger_entries (` + ledgerEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	batch := &pgx.Batch{}
	for _, entry := range entries {
		modelEntry := mapping.ToModelLedgerEntry(entry)
		var costCenterID sql.NullString
		if modelEntry.CostCenterID != "" {
			costCenterID = sql.NullString{String: modelEntry.CostCenterID, Valid: true}
		}
		batch.Queue(entryQuery,
			modelEntry.EntryID,
			modelEntry.CompanyID,
			modelEntry.VoucherID,
			modelEntry.LineNo,
			modelEntry.AccountID,
			modelEntry.DebitBase,
			modelEntry.CreditBase,
			modelEntry.Amount,
			modelEntry.LineCurrency,
			modelEntry.BaseCurrency,
			modelEntry.ExchangeRate,
			costCenterID,
			modelEntry.EntryDate,
			modelEntry.CreatedAt,
			modelEntry.CreatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// UNIQUE(voucher_id, line_no) caught a concurrent posting of the same voucher.
			return fmt.Errorf("%w: voucher %s has already been posted", apperrors.ErrConflict, modelVoucher.VoucherID)
		}
		return apperrors.NewAppError(500, "failed to insert ledger entries for voucher "+modelVoucher.VoucherID, err)
	}

	return r.Commit(ctx, tx)
}

// HasEntriesForVoucher reports whether the voucher has already been posted.
func (r *PgxLedgerRepository) HasEntriesForVoucher(ctx context.Context, voucherID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM ledger_entries WHERE voucher_id = $1);`

	var exists bool
	if err := r.Pool.QueryRow(ctx, query, voucherID).Scan(&exists); err != nil {
		return false, apperrors.NewAppError(500, "failed to check ledger entries for voucher "+voucherID, err)
	}
	return exists, nil
}

// FindEntriesByVoucherID retrieves all ledger entries posted for a voucher,
// ordered by line number.
func (r *PgxLedgerRepository) FindEntriesByVoucherID(ctx context.Context, voucherID string) ([]domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE voucher_id = $1
		ORDER BY line_no;
	`
	rows, err := r.Pool.Query(ctx, query, voucherID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query ledger entries for voucher "+voucherID, err)
	}
	defer rows.Close()

	entries := []models.LedgerEntry{}
	for rows.Next() {
		m, err := scanLedgerEntryRow(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger entry row for voucher "+voucherID, err)
		}
		entries = append(entries, m)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger entry rows for voucher "+voucherID, err)
	}

	return mapping.ToDomainLedgerEntrySlice(entries), nil
}

// ListEntriesByAccount retrieves a paginated list of entries for an account
// using token-based pagination.
func (r *PgxLedgerRepository) ListEntriesByAccount(ctx context.Context, companyID string, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE account_id = $1 AND company_id = $2
	`
	// entry_date is the denormalized voucher date, so no join is needed.
	orderByClause := `ORDER BY entry_date DESC, created_at DESC`

	args := []interface{}{accountID, companyID}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		cursorClause := `AND (entry_date, created_at) < ($3, $4)`
		args = append(args, lastDate, lastCreatedAt)
		baseQuery += " " + cursorClause
	}

	query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger entries for account "+accountID, err)
	}
	defer rows.Close()

	entries := make([]models.LedgerEntry, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanLedgerEntryRow(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger entry row for account "+accountID, scanErr)
		}
		entries = append(entries, m)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating ledger entry rows for account "+accountID, err)
	}

	var nextTokenVal *string
	results := entries
	if len(entries) > limit {
		lastEntry := entries[limit-1] // Last item actually included in this page
		token := pagination.EncodeToken(lastEntry.EntryDate, lastEntry.CreatedAt)
		nextTokenVal = &token
		results = entries[:limit]
	}

	return mapping.ToDomainLedgerEntrySlice(results), nextTokenVal, nil
}
