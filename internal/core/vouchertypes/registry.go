package vouchertypes

import (
	"fmt"

	"github.com/openbooks/openbooks-backend/internal/apperrors"
	"github.com/openbooks/openbooks-backend/internal/core/domain"
	"github.com/openbooks/openbooks-backend/internal/utils/money"
)

// Registry resolves a voucher type to its handler. Dispatch is a lookup
// table, not inheritance; unknown types fail with a validation error.
type Registry struct {
	handlers map[domain.VoucherType]Handler
}

// NewRegistry builds a registry with all supported document types wired
// against the given precision service.
func NewRegistry(precision *money.Service) *Registry {
	r := &Registry{handlers: make(map[domain.VoucherType]Handler)}
	r.Register(NewJournalEntryHandler(precision))
	r.Register(NewOpeningBalanceHandler(precision))
	r.Register(NewPaymentHandler(precision))
	r.Register(NewReceiptHandler(precision))
	return r
}

// Register adds a handler, replacing any previous handler for the same type.
func (r *Registry) Register(h Handler) {
	r.handlers[h.Type()] = h
}

// Handler returns the handler for a voucher type.
func (r *Registry) Handler(t domain.VoucherType) (Handler, error) {
	h, ok := r.handlers[t]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported voucher type %q", apperrors.ErrValidation, t)
	}
	return h, nil
}

// Types lists the registered voucher types.
func (r *Registry) Types() []domain.VoucherType {
	types := make([]domain.VoucherType, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	return types
}
