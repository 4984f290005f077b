package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAlreadyExists        = errors.New("already exists")
	ErrNotFound             = errors.New("not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrInvalidAddress       = errors.New("incomplete shipping address")
	ErrInvalidPaymentMethod = errors.New("invalid payment method selection")
	ErrPaymentInitiation    = errors.New("payment initiation failed")
	ErrTransitionNotAllowed = errors.New("order status transition not allowed")
)

// VoucherReason classifies why a promotional code could not be applied.
// Unknown codes deliberately map to the generic "invalid" reason so the API
// does not leak which codes exist.
type VoucherReason string

const (
	VoucherInvalid       VoucherReason = "invalid"
	VoucherNotYetActive  VoucherReason = "not_yet_active"
	VoucherExpired       VoucherReason = "expired"
	VoucherBelowMinimum  VoucherReason = "below_minimum"
	VoucherLimitReached  VoucherReason = "limit_reached"
	VoucherSaleNotActive VoucherReason = "sale_not_active"
)

// VoucherError is a non-fatal resolution failure: checkout proceeds without
// the discount, surfacing the reason to the user.
type VoucherError struct {
	Reason  VoucherReason
	Message string
}

func (e *VoucherError) Error() string {
	return e.Message
}

// AsVoucherError unwraps err into a *VoucherError if it is one.
func AsVoucherError(err error) (*VoucherError, bool) {
	var ve *VoucherError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// StockShortage names one line that cannot be fulfilled.
type StockShortage struct {
	ProductID string
	Name      string
	Requested int
	Available int
}

// StockError aggregates every short line of an all-or-nothing stock check.
// If any line is short no order is created.
type StockError struct {
	Shortages []StockShortage
}

func (e *StockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s (requested %d, available %d)", s.Name, s.Requested, s.Available))
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

// AsStockError unwraps err into a *StockError if it is one.
func AsStockError(err error) (*StockError, bool) {
	var se *StockError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
