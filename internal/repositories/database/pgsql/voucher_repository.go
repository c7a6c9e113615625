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

	"github.com/openbooks/openbooks-backend/internal/apperrors"
	"github.com/openbooks/openbooks-backend/internal/core/domain"
	portsrepo "github.com/openbooks/openbooks-backend/internal/core/ports/repositories"
	"github.com/openbooks/openbooks-backend/internal/models"
	"github.com/openbooks/openbooks-backend/internal/utils/mapping"
	"github.com/openbooks/openbooks-backend/internal/utils/pagination"
)

type PgxVoucherRepository struct {
	BaseRepository
}

// newPgxVoucherRepository creates a new repository for voucher and voucher line data.
func newPgxVoucherRepository(pool *pgxpool.Pool) portsrepo.VoucherRepositoryWithTx {
	return &PgxVoucherRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxVoucherRepository implements portsrepo.VoucherRepositoryWithTx
var _ portsrepo.VoucherRepositoryWithTx = (*PgxVoucherRepository)(nil)

const voucherColumns = `voucher_id, company_id, voucher_no, voucher_type, voucher_date, description, currency_code, base_currency_code, exchange_rate, total_debit, total_credit, status, original_voucher_id, reversing_voucher_id, approved_by, approved_at, rejected_by, rejection_reason, locked_by, locked_at, created_at, created_by, last_updated_at, last_updated_by`

const voucherLineColumns = `voucher_id, line_no, account_id, side, amount, base_amount, currency_code, base_currency_code, exchange_rate, notes, cost_center_id`

// voucherNoPrefixes maps each document type onto its voucher number prefix.
var voucherNoPrefixes = map[domain.VoucherType]string{
	domain.TypeJournalEntry:   "JV",
	domain.TypeOpeningBalance: "OB",
	domain.TypePayment:        "PV",
	domain.TypeReceipt:        "RV",
}

// scanVoucherRow scans one voucherColumns row into a models.Voucher.
func scanVoucherRow(row pgx.Row) (models.Voucher, error) {
	var m models.Voucher
	err := row.Scan(
		&m.VoucherID,
		&m.CompanyID,
		&m.VoucherNo,
		&m.Type,
		&m.VoucherDate,
		&m.Description,
		&m.CurrencyCode,
		&m.BaseCurrencyCode,
		&m.ExchangeRate,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.Status,
		&m.OriginalVoucherID,
		&m.ReversingVoucherID,
		&m.ApprovedBy,
		&m.ApprovedAt,
		&m.RejectedBy,
		&m.RejectionReason,
		&m.LockedBy,
		&m.LockedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// insertVoucherTx inserts the voucher header and all its lines using the given transaction.
func (r *PgxVoucherRepository) insertVoucherTx(ctx context.Context, tx pgx.Tx, voucher domain.Voucher) error {
	modelVoucher := mapping.ToModelVoucher(voucher)

	voucherQuery := `
		INSERT INTO vouchers (` + voucherColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24);
	`
	_, err := tx.Exec(ctx, voucherQuery,
		modelVoucher.VoucherID,
		modelVoucher.CompanyID,
		modelVoucher.VoucherNo,
		modelVoucher.Type,
		modelVoucher.VoucherDate,
		modelVoucher.Description,
		modelVoucher.CurrencyCode,
		modelVoucher.BaseCurrencyCode,
		modelVoucher.ExchangeRate,
		modelVoucher.TotalDebit,
		modelVoucher.TotalCredit,
		modelVoucher.Status,
		modelVoucher.OriginalVoucherID,
		modelVoucher.ReversingVoucherID,
		modelVoucher.ApprovedBy,
		modelVoucher.ApprovedAt,
		modelVoucher.RejectedBy,
		modelVoucher.RejectionReason,
		modelVoucher.LockedBy,
		modelVoucher.LockedAt,
		modelVoucher.CreatedAt,
		modelVoucher.CreatedBy,
		modelVoucher.LastUpdatedAt,
		modelVoucher.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: voucher %s already exists", apperrors.ErrDuplicate, modelVoucher.VoucherID)
		}
		return apperrors.NewAppError(500, "failed to insert voucher "+modelVoucher.VoucherID, err)
	}

	lineQuery := `
		INSERT INTO voucher_lines (` + voucherLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	batch := &pgx.Batch{}
	for _, line := range voucher.Lines {
		modelLine := mapping.ToModelVoucherLine(voucher.VoucherID, line)
		var costCenterID sql.NullString
		if modelLine.CostCenterID != "" {
			costCenterID = sql.NullString{String: modelLine.CostCenterID, Valid: true}
		}
		batch.Queue(lineQuery,
			modelLine.VoucherID,
			modelLine.LineNo,
			modelLine.AccountID,
			modelLine.Side,
			modelLine.Amount,
			modelLine.BaseAmount,
			modelLine.CurrencyCode,
			modelLine.BaseCurrencyCode,
			modelLine.ExchangeRate,
			modelLine.Notes,
			costCenterID,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert voucher lines for "+modelVoucher.VoucherID, err)
	}
	return nil
}

// SaveVoucher persists a voucher and its lines atomically.
func (r *PgxVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.Voucher) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertVoucherTx(ctx, tx, voucher); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SaveReversal persists a reversal voucher and links it to the original
// voucher in a single database transaction.
func (r *PgxVoucherRepository) SaveReversal(ctx context.Context, reversal domain.Voucher, originalVoucherID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.insertVoucherTx(ctx, tx, reversal); err != nil {
		return err
	}

	linkQuery := `
		UPDATE vouchers
		SET reversing_voucher_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE voucher_id = $1 AND reversing_voucher_id IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, linkQuery,
		originalVoucherID,
		reversal.VoucherID,
		reversal.CreatedAt,
		reversal.CreatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to link reversal to voucher "+originalVoucherID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Either the original vanished or a concurrent reversal won the race.
		return fmt.Errorf("%w: voucher %s has already been reversed", apperrors.ErrConflict, originalVoucherID)
	}

	return r.Commit(ctx, tx)
}

// FindVoucherByID retrieves a voucher with its lines by its unique identifier.
func (r *PgxVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE voucher_id = $1;`

	modelVoucher, err := scanVoucherRow(r.Pool.QueryRow(ctx, query, voucherID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find voucher by ID "+voucherID, err)
	}

	lines, err := r.findLinesByVoucherID(ctx, voucherID)
	if err != nil {
		return nil, err
	}

	domainVoucher := mapping.ToDomainVoucher(modelVoucher)
	domainVoucher.Lines = lines
	return &domainVoucher, nil
}

// findLinesByVoucherID loads all lines of a voucher in line number order.
func (r *PgxVoucherRepository) findLinesByVoucherID(ctx context.Context, voucherID string) ([]domain.VoucherLine, error) {
	query := `
		SELECT ` + voucherLineColumns + `
		FROM voucher_lines
		WHERE voucher_id = $1
		ORDER BY line_no;
	`
	rows, err := r.Pool.Query(ctx, query, voucherID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for voucher "+voucherID, err)
	}
	defer rows.Close()

	lines := []models.VoucherLine{}
	for rows.Next() {
		var l models.VoucherLine
		var notes sql.NullString
		var costCenterID sql.NullString
		err := rows.Scan(
			&l.VoucherID,
			&l.LineNo,
			&l.AccountID,
			&l.Side,
			&l.Amount,
			&l.BaseAmount,
			&l.CurrencyCode,
			&l.BaseCurrencyCode,
			&l.ExchangeRate,
			&notes,
			&costCenterID,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for voucher "+voucherID, err)
		}
		if notes.Valid {
			l.Notes = notes.String
		}
		if costCenterID.Valid {
			l.CostCenterID = costCenterID.String
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for voucher "+voucherID, err)
	}

	return mapping.ToDomainVoucherLineSlice(lines), nil
}

// ListVouchersByCompany retrieves a paginated list of vouchers for a company
// using token-based pagination. Lines are not populated.
func (r *PgxVoucherRepository) ListVouchersByCompany(ctx context.Context, companyID string, limit int, nextToken *string, status *domain.VoucherStatus) ([]domain.Voucher, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + voucherColumns + ` FROM vouchers`

	filterClause := `WHERE company_id = $1`
	args := []interface{}{companyID}

	if status != nil {
		args = append(args, *status)
		filterClause += ` AND status = $` + strconv.Itoa(len(args))
	}

	// Ordering must be stable; voucher_date DESC with created_at DESC tie-breaker.
	orderByClause := `ORDER BY voucher_date DESC, created_at DESC`

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		// Tuple comparison matches the ORDER BY exactly.
		cursorClause := fmt.Sprintf(`AND (voucher_date, created_at) < ($%d, $%d)`, len(args)+1, len(args)+2)
		args = append(args, lastDate, lastCreatedAt)
		filterClause += " " + cursorClause
	}

	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query vouchers for company "+companyID, err)
	}
	defer rows.Close()

	modelVouchers := make([]models.Voucher, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanVoucherRow(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan voucher row for company "+companyID, scanErr)
		}
		modelVouchers = append(modelVouchers, m)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating voucher rows for company "+companyID, err)
	}

	var nextTokenVal *string
	results := modelVouchers
	if len(modelVouchers) > limit {
		lastVoucher := modelVouchers[limit-1] // Last item actually included in this page
		newToken := pagination.EncodeToken(lastVoucher.VoucherDate, lastVoucher.CreatedAt)
		nextTokenVal = &newToken
		results = modelVouchers[:limit]
	}

	domainVouchers := make([]domain.Voucher, len(results))
	for i, m := range results {
		domainVouchers[i] = mapping.ToDomainVoucher(m)
	}

	return domainVouchers, nextTokenVal, nil
}

// NextVoucherNo returns the next sequential voucher number for a company and type.
// The sequence row is upserted atomically so concurrent callers never observe
// the same number.
func (r *PgxVoucherRepository) NextVoucherNo(ctx context.Context, companyID string, voucherType domain.VoucherType) (string, error) {
	prefix, ok := voucherNoPrefixes[voucherType]
	if !ok {
		return "", fmt.Errorf("%w: unknown voucher type %s", apperrors.ErrValidation, voucherType)
	}

	query := `
		INSERT INTO voucher_sequences (company_id, voucher_type, next_no)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, voucher_type)
		DO UPDATE SET next_no = voucher_sequences.next_no + 1
		RETURNING next_no;
	`

	var nextNo int64
	if err := r.Pool.QueryRow(ctx, query, companyID, voucherType).Scan(&nextNo); err != nil {
		return "", apperrors.NewAppError(500, "failed to advance voucher sequence for company "+companyID, err)
	}

	return fmt.Sprintf("%s-%06d", prefix, nextNo), nil
}

// UpdateVoucher persists the state of a voucher produced by an aggregate
// transition. Lines are immutable once the voucher exists and are not touched.
func (r *PgxVoucherRepository) UpdateVoucher(ctx context.Context, voucher domain.Voucher) error {
	modelVoucher := mapping.ToModelVoucher(voucher)

	query := `
		UPDATE vouchers
		SET voucher_date = $2,
		    description = $3,
		    status = $4,
		    approved_by = $5,
		    approved_at = $6,
		    rejected_by = $7,
		    rejection_reason = $8,
		    locked_by = $9,
		    locked_at = $10,
		    last_updated_at = $11,
		    last_updated_by = $12
		WHERE voucher_id = $1;
	`

	cmdTag, err := r.Pool.Exec(ctx, query,
		modelVoucher.VoucherID,
		modelVoucher.VoucherDate,
		modelVoucher.Description,
		modelVoucher.Status,
		modelVoucher.ApprovedBy,
		modelVoucher.ApprovedAt,
		modelVoucher.RejectedBy,
		modelVoucher.RejectionReason,
		modelVoucher.LockedBy,
		modelVoucher.LockedAt,
		modelVoucher.LastUpdatedAt,
		modelVoucher.LastUpdatedBy,
	)

	if err != nil {
		return apperrors.NewAppError(500, "failed to execute update voucher "+modelVoucher.VoucherID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// DeleteVoucher removes a voucher and its lines. The service layer has
// already verified the company policy permits deletion.
func (r *PgxVoucherRepository) DeleteVoucher(ctx context.Context, voucherID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM voucher_lines WHERE voucher_id = $1;`, voucherID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines for voucher "+voucherID, err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM vouchers WHERE voucher_id = $1;`, voucherID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete voucher "+voucherID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}
