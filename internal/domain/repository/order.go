package repository

import (
	"context"
	"time"

	"github.com/agrimart/checkout/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
//
// Create commits the whole checkout in one transaction: conditional stock
// decrements, conditional voucher-usage increment, then the order row and
// its items. A shortage or exhausted voucher aborts the transaction.
//
// UpdateStatusIf is the guarded compare-and-swap every status writer must
// use; it reports whether the row was actually moved.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByNumber(ctx context.Context, number string) (*model.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Order, error)
	UpdateStatusIf(ctx context.Context, number string, from, to model.OrderStatus) (bool, error)
	RequestCancellation(ctx context.Context, number string, from model.OrderStatus, reason, detail string) (bool, error)
	SelectStalePending(ctx context.Context, before time.Time, limit int) ([]model.Order, error)
}
