package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks/openbooks-backend/internal/utils/money"
)

// VoucherStatus indicates the state of a voucher in its approval lifecycle.
//
// Draft --approve--> Approved --lock--> Locked
// Draft --reject--> Rejected
//
// Locked and Rejected are terminal; corrections to a Locked voucher happen via
// reversal, never by editing history.
type VoucherStatus string

const (
	StatusDraft    VoucherStatus = "DRAFT"
	StatusApproved VoucherStatus = "APPROVED"
	StatusLocked   VoucherStatus = "LOCKED"
	StatusRejected VoucherStatus = "REJECTED"
)

// VoucherType identifies which document handler produced a voucher.
type VoucherType string

const (
	TypeJournalEntry   VoucherType = "JOURNAL_ENTRY"
	TypeOpeningBalance VoucherType = "OPENING_BALANCE"
	TypePayment        VoucherType = "PAYMENT"
	TypeReceipt        VoucherType = "RECEIPT"
)

// Voucher is the aggregate root for a single balanced accounting document.
// Instances are never mutated in place: every transition returns a new value
// and leaves the receiver intact.
type Voucher struct {
	VoucherID        string          `json:"voucherID"`
	CompanyID        string          `json:"companyID"`
	VoucherNo        string          `json:"voucherNo"`
	Type             VoucherType     `json:"type"`
	Date             time.Time       `json:"date"`
	Description      string          `json:"description"`
	CurrencyCode     string          `json:"currencyCode"`
	BaseCurrencyCode string          `json:"baseCurrencyCode"`
	ExchangeRate     decimal.Decimal `json:"exchangeRate"`
	Lines            []VoucherLine   `json:"lines"`
	TotalDebit       decimal.Decimal `json:"totalDebit"`  // Base currency
	TotalCredit      decimal.Decimal `json:"totalCredit"` // Base currency
	Status           VoucherStatus   `json:"status"`

	// Reversal linkage: a reversal voucher points at the voucher it corrects,
	// and a reversed voucher points at its reversal.
	OriginalVoucherID  *string `json:"originalVoucherID,omitempty"`
	ReversingVoucherID *string `json:"reversingVoucherID,omitempty"`

	ApprovedBy      *string    `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	RejectedBy      *string    `json:"rejectedBy,omitempty"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`
	LockedBy        *string    `json:"lockedBy,omitempty"`
	LockedAt        *time.Time `json:"lockedAt,omitempty"`
	AuditFields
}

// NewVoucher validates the double-entry invariants and returns the voucher in
// Draft status. It fails fast with a typed error identifying the violated
// invariant:
//   - fewer than 2 lines
//   - debit/credit sums differ beyond the base currency epsilon
//   - supplied totals differ from the computed sums
//   - a line's currency pair differs from the voucher's
func NewVoucher(v Voucher, precision *money.Service) (Voucher, error) {
	if len(v.Lines) < 2 {
		return Voucher{}, ErrTooFewLines
	}

	debitSum := decimal.Zero
	creditSum := decimal.Zero
	for _, line := range v.Lines {
		if line.CurrencyCode != v.CurrencyCode || line.BaseCurrencyCode != v.BaseCurrencyCode {
			return Voucher{}, &CurrencyMismatchError{
				LineID:           line.LineID,
				LineCurrency:     line.CurrencyCode,
				LineBaseCurrency: line.BaseCurrencyCode,
				VoucherCurrency:  v.CurrencyCode,
				BaseCurrency:     v.BaseCurrencyCode,
			}
		}
		if line.IsDebit() {
			debitSum = debitSum.Add(line.BaseAmount)
		} else {
			creditSum = creditSum.Add(line.BaseAmount)
		}
	}

	if !precision.Equal(debitSum, creditSum, v.BaseCurrencyCode) {
		return Voucher{}, &ImbalanceError{TotalDebit: debitSum, TotalCredit: creditSum}
	}
	if !v.TotalDebit.Equal(debitSum) {
		return Voucher{}, &TotalMismatchError{Field: "totalDebit", Supplied: v.TotalDebit, Computed: debitSum}
	}
	if !v.TotalCredit.Equal(creditSum) {
		return Voucher{}, &TotalMismatchError{Field: "totalCredit", Supplied: v.TotalCredit, Computed: creditSum}
	}

	v.Status = StatusDraft
	v.Lines = cloneLines(v.Lines)
	return v, nil
}

// IsDraft reports whether the voucher is editable and awaiting approval.
func (v Voucher) IsDraft() bool { return v.Status == StatusDraft }

// IsApproved reports whether the voucher has been approved but not yet locked.
func (v Voucher) IsApproved() bool { return v.Status == StatusApproved }

// IsLocked reports whether the voucher is terminally immutable.
func (v Voucher) IsLocked() bool { return v.Status == StatusLocked }

// IsRejected reports whether the voucher was rejected.
func (v Voucher) IsRejected() bool { return v.Status == StatusRejected }

// IsReversal reports whether this voucher was produced by the reversal engine.
func (v Voucher) IsReversal() bool { return v.OriginalVoucherID != nil }

// IsBalanced recomputes the debit/credit sums and compares them within the base
// currency's epsilon.
func (v Voucher) IsBalanced(precision *money.Service) bool {
	debitSum := decimal.Zero
	creditSum := decimal.Zero
	for _, line := range v.Lines {
		if line.IsDebit() {
			debitSum = debitSum.Add(line.BaseAmount)
		} else {
			creditSum = creditSum.Add(line.BaseAmount)
		}
	}
	return precision.Equal(debitSum, creditSum, v.BaseCurrencyCode)
}

// Approve transitions Draft -> Approved and returns the new voucher value.
// The receiver is left unmodified.
func (v Voucher) Approve(approverID string, at time.Time) (Voucher, error) {
	if v.Status != StatusDraft {
		return Voucher{}, &InvalidTransitionError{Action: "approve", From: v.Status}
	}
	next := v.clone()
	next.Status = StatusApproved
	next.ApprovedBy = &approverID
	next.ApprovedAt = &at
	next.LastUpdatedAt = at
	next.LastUpdatedBy = approverID
	return next, nil
}

// Reject transitions Draft -> Rejected, recording who rejected and why.
func (v Voucher) Reject(rejecterID string, at time.Time, reason string) (Voucher, error) {
	if v.Status != StatusDraft {
		return Voucher{}, &InvalidTransitionError{Action: "reject", From: v.Status}
	}
	next := v.clone()
	next.Status = StatusRejected
	next.RejectedBy = &rejecterID
	next.RejectionReason = &reason
	next.LastUpdatedAt = at
	next.LastUpdatedBy = rejecterID
	return next, nil
}

// Lock transitions Approved -> Locked. Locked vouchers are immutable; the only
// correction path afterwards is a reversal voucher.
func (v Voucher) Lock(lockerID string, at time.Time) (Voucher, error) {
	if v.Status != StatusApproved {
		return Voucher{}, &InvalidTransitionError{Action: "lock", From: v.Status}
	}
	next := v.clone()
	next.Status = StatusLocked
	next.LockedBy = &lockerID
	next.LockedAt = &at
	next.LastUpdatedAt = at
	next.LastUpdatedBy = lockerID
	return next, nil
}

// ToJSON serializes the voucher including status and all lines. Together with
// VoucherFromJSON it forms the persistence boundary contract.
func (v Voucher) ToJSON() ([]byte, error) {
	return json.Marshal(v)
}

// VoucherFromJSON restores a voucher serialized with ToJSON.
func VoucherFromJSON(data []byte) (Voucher, error) {
	var v Voucher
	if err := json.Unmarshal(data, &v); err != nil {
		return Voucher{}, err
	}
	return v, nil
}

// clone deep-copies the voucher so transitions never share line storage or
// audit pointers with the receiver.
func (v Voucher) clone() Voucher {
	next := v
	next.Lines = cloneLines(v.Lines)
	next.OriginalVoucherID = cloneStringPtr(v.OriginalVoucherID)
	next.ReversingVoucherID = cloneStringPtr(v.ReversingVoucherID)
	next.ApprovedBy = cloneStringPtr(v.ApprovedBy)
	next.ApprovedAt = cloneTimePtr(v.ApprovedAt)
	next.RejectedBy = cloneStringPtr(v.RejectedBy)
	next.RejectionReason = cloneStringPtr(v.RejectionReason)
	next.LockedBy = cloneStringPtr(v.LockedBy)
	next.LockedAt = cloneTimePtr(v.LockedAt)
	return next
}

func cloneLines(lines []VoucherLine) []VoucherLine {
	out := make([]VoucherLine, len(lines))
	copy(out, lines)
	return out
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
