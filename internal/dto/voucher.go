package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks/openbooks-backend/internal/core/domain"
	"github.com/openbooks/openbooks-backend/internal/core/vouchertypes"
)

// CreateVoucherLineRequest is one raw debit/credit row. Exactly one of debit
// or credit must be positive; the type handler enforces this with line-indexed
// messages, so binding stays deliberately loose here.
type CreateVoucherLineRequest struct {
	AccountID    string          `json:"accountId"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Notes        string          `json:"notes,omitempty"`
	CostCenterID string          `json:"costCenterId,omitempty"`
}

// CreateVoucherRequest creates a new draft voucher of the given type.
type CreateVoucherRequest struct {
	Type         domain.VoucherType         `json:"type" binding:"required"`
	Date         string                     `json:"date"` // ISO-8601 date
	Description  string                     `json:"description"`
	Currency     string                     `json:"currency,omitempty"` // Defaults to company base currency
	ExchangeRate *decimal.Decimal           `json:"exchangeRate,omitempty"`
	Lines        []CreateVoucherLineRequest `json:"lines"`
}

// ToHandlerInput converts the request into the raw input the type handlers consume.
func (r CreateVoucherRequest) ToHandlerInput() vouchertypes.Input {
	lines := make([]vouchertypes.LineInput, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = vouchertypes.LineInput{
			AccountID:    l.AccountID,
			Debit:        l.Debit,
			Credit:       l.Credit,
			Notes:        l.Notes,
			CostCenterID: l.CostCenterID,
		}
	}
	return vouchertypes.Input{
		Date:         r.Date,
		Description:  r.Description,
		CurrencyCode: r.Currency,
		Lines:        lines,
	}
}

// RejectVoucherRequest carries the mandatory rejection reason.
type RejectVoucherRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// UpdateVoucherRequest updates header fields of a draft voucher.
type UpdateVoucherRequest struct {
	Date        *string `json:"date,omitempty"`
	Description *string `json:"description,omitempty"`
}

// VoucherLineResponse defines the data returned for a voucher line.
type VoucherLineResponse struct {
	LineID       int             `json:"lineID"`
	AccountID    string          `json:"accountID"`
	Side         string          `json:"side"`
	Amount       decimal.Decimal `json:"amount"`
	BaseAmount   decimal.Decimal `json:"baseAmount"`
	Currency     string          `json:"currency"`
	BaseCurrency string          `json:"baseCurrency"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	Notes        string          `json:"notes,omitempty"`
	CostCenterID string          `json:"costCenterID,omitempty"`
}

// VoucherResponse defines the data returned for a voucher.
type VoucherResponse struct {
	VoucherID        string                `json:"voucherID"`
	CompanyID        string                `json:"companyID"`
	VoucherNo        string                `json:"voucherNo"`
	Type             domain.VoucherType    `json:"type"`
	Date             time.Time             `json:"date"`
	Description      string                `json:"description"`
	Currency         string                `json:"currency"`
	BaseCurrency     string                `json:"baseCurrency"`
	ExchangeRate     decimal.Decimal       `json:"exchangeRate"`
	TotalDebit       decimal.Decimal       `json:"totalDebit"`
	TotalCredit      decimal.Decimal       `json:"totalCredit"`
	Status           domain.VoucherStatus  `json:"status"`
	OriginalVoucher  *string               `json:"originalVoucherID,omitempty"`
	ReversingVoucher *string               `json:"reversingVoucherID,omitempty"`
	Lines            []VoucherLineResponse `json:"lines,omitempty"`
	CreatedAt        time.Time             `json:"createdAt"`
	CreatedBy        string                `json:"createdBy"`
	ApprovedBy       *string               `json:"approvedBy,omitempty"`
	ApprovedAt       *time.Time            `json:"approvedAt,omitempty"`
	RejectedBy       *string               `json:"rejectedBy,omitempty"`
	RejectionReason  *string               `json:"rejectionReason,omitempty"`
	LockedBy         *string               `json:"lockedBy,omitempty"`
	LockedAt         *time.Time            `json:"lockedAt,omitempty"`
}

// ListVouchersParams holds query parameters for listing vouchers.
type ListVouchersParams struct {
	Limit     int                   `form:"limit"`
	NextToken *string               `form:"nextToken"`
	Status    *domain.VoucherStatus `form:"status"`
}

// ListVouchersResponse is a page of vouchers with a continuation token.
type ListVouchersResponse struct {
	Vouchers  []VoucherResponse `json:"vouchers"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToVoucherLineResponse converts a domain.VoucherLine to its response DTO.
func ToVoucherLineResponse(l domain.VoucherLine) VoucherLineResponse {
	return VoucherLineResponse{
		LineID:       l.LineID,
		AccountID:    l.AccountID,
		Side:         string(l.Side),
		Amount:       l.Amount,
		BaseAmount:   l.BaseAmount,
		Currency:     l.CurrencyCode,
		BaseCurrency: l.BaseCurrencyCode,
		ExchangeRate: l.ExchangeRate,
		Notes:        l.Notes,
		CostCenterID: l.CostCenterID,
	}
}

// ToVoucherResponse converts a domain.Voucher to its response DTO.
func ToVoucherResponse(v *domain.Voucher) VoucherResponse {
	resp := VoucherResponse{
		VoucherID:        v.VoucherID,
		CompanyID:        v.CompanyID,
		VoucherNo:        v.VoucherNo,
		Type:             v.Type,
		Date:             v.Date,
		Description:      v.Description,
		Currency:         v.CurrencyCode,
		BaseCurrency:     v.BaseCurrencyCode,
		ExchangeRate:     v.ExchangeRate,
		TotalDebit:       v.TotalDebit,
		TotalCredit:      v.TotalCredit,
		Status:           v.Status,
		OriginalVoucher:  v.OriginalVoucherID,
		ReversingVoucher: v.ReversingVoucherID,
		CreatedAt:        v.CreatedAt,
		CreatedBy:        v.CreatedBy,
		ApprovedBy:       v.ApprovedBy,
		ApprovedAt:       v.ApprovedAt,
		RejectedBy:       v.RejectedBy,
		RejectionReason:  v.RejectionReason,
		LockedBy:         v.LockedBy,
		LockedAt:         v.LockedAt,
	}
	if len(v.Lines) > 0 {
		resp.Lines = make([]VoucherLineResponse, len(v.Lines))
		for i, l := range v.Lines {
			resp.Lines[i] = ToVoucherLineResponse(l)
		}
	}
	return resp
}
