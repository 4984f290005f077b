package model

import "github.com/shopspring/decimal"

// PaymentMethod selects the payment channel for an order.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentHostedCheckout PaymentMethod = "hosted_checkout"
	PaymentBankTransfer   PaymentMethod = "bank_transfer"
)

// Hosted checkout sub-channels accepted by the gateway.
const (
	ChannelQRPH  = "qrph"
	ChannelGCash = "gcash"
	ChannelMaya  = "maya"
	ChannelCard  = "card"
)

// EntryStatus returns the initial order status implied by the method.
func (m PaymentMethod) EntryStatus() OrderStatus {
	if m == PaymentCashOnDelivery {
		return OrderStatusToPay
	}
	return OrderStatusPendingPayment
}

// RedirectStatus is the status query parameter carried back from the
// external payment page. It is a hint, never authoritative.
type RedirectStatus string

const (
	RedirectSuccess   RedirectStatus = "success"
	RedirectFailed    RedirectStatus = "failed"
	RedirectCancelled RedirectStatus = "cancelled"
)

// PaymentStatus is the gateway-reported state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// PaymentRequest is the initiation payload sent to the gateway function.
type PaymentRequest struct {
	Amount      decimal.Decimal
	Method      PaymentMethod
	Channel     string
	OrderNumber string
	Description string
	RedirectURL string
}

// PaymentSession is the gateway's answer to an initiation request. Exactly
// one of CheckoutURL or ClientKey is populated on success.
type PaymentSession struct {
	CheckoutURL string
	ClientKey   string
}

// Cart is the mutable pre-checkout state held per user.
type Cart struct {
	Items       []OrderItem
	VoucherCode string
}
