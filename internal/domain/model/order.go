package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes the persisted order lifecycle.
type OrderStatus string

const (
	OrderStatusPendingPayment      OrderStatus = "pending_payment"
	OrderStatusToPay               OrderStatus = "to_pay"
	OrderStatusPaid                OrderStatus = "paid"
	OrderStatusPaymentFailed       OrderStatus = "payment_failed"
	OrderStatusToShip              OrderStatus = "to_ship"
	OrderStatusToReceive           OrderStatus = "to_receive"
	OrderStatusCompleted           OrderStatus = "completed"
	OrderStatusPendingCancellation OrderStatus = "pending_cancellation"
	OrderStatusCancelled           OrderStatus = "cancelled"
	OrderStatusReturnRefund        OrderStatus = "return_refund"
)

// validNext enumerates permitted forward transitions. No entry points
// backwards: once an order leaves pending_payment it never returns there.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPendingPayment: {
		OrderStatusPaid:                true,
		OrderStatusPaymentFailed:       true,
		OrderStatusPendingCancellation: true,
	},
	OrderStatusToPay: {
		OrderStatusToShip:              true,
		OrderStatusPendingCancellation: true,
	},
	OrderStatusPaid: {
		OrderStatusToShip:              true,
		OrderStatusPendingCancellation: true,
	},
	OrderStatusToShip: {
		OrderStatusToReceive:           true,
		OrderStatusPendingCancellation: true,
		OrderStatusReturnRefund:        true,
	},
	OrderStatusToReceive: {
		OrderStatusCompleted:           true,
		OrderStatusPendingCancellation: true,
		OrderStatusReturnRefund:        true,
	},
	OrderStatusPendingCancellation: {
		OrderStatusCancelled: true,
	},
	OrderStatusPaymentFailed: {},
	OrderStatusCompleted:     {},
	OrderStatusCancelled:     {},
	OrderStatusReturnRefund:  {},
}

// CanTransition reports whether moving an order between the two statuses is
// permitted by the state machine.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// IsTerminal reports whether the status admits no further transitions.
func (s OrderStatus) IsTerminal() bool {
	return len(validNext[s]) == 0
}

// Resolved reports whether the payment sub-machine has settled: anything
// other than pending_payment is authoritative for reconciliation.
func (s OrderStatus) Resolved() bool {
	return s != OrderStatusPendingPayment
}

// Address is the shipping address snapshot frozen onto the order.
type Address struct {
	Recipient  string `json:"recipient"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
}

// OrderItem is a single purchased line. Free items granted by offers carry a
// zero unit price and the FreeItem flag.
type OrderItem struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	FreeItem  bool
}

// LineTotal returns unit price multiplied by quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is the frozen checkout snapshot. Priced fields never change after
// creation; only status and cancellation fields move, through guarded writes.
type Order struct {
	ID              int64
	Number          string
	UserID          int64
	Items           []OrderItem
	TotalAmount     decimal.Decimal
	ShippingFee     decimal.Decimal
	VoucherCode     string
	VoucherDiscount decimal.Decimal
	ShippingAddress Address
	PaymentMethod   PaymentMethod
	PaymentChannel  string
	Notes           string
	Status          OrderStatus
	CancelReason    string
	CancelDetail    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TotalUnits sums quantities across all lines.
func TotalUnits(items []OrderItem) int {
	var n int
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
