package dto

import "time"

// AddressPayload is the shipping address in requests and responses.
type AddressPayload struct {
	Recipient  string `json:"recipient"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
}

// SubmitOrderRequest places an order from the current cart contents.
type SubmitOrderRequest struct {
	Address        AddressPayload `json:"address" binding:"required"`
	PaymentMethod  string         `json:"payment_method" binding:"required"`
	PaymentChannel string         `json:"payment_channel"`
	Notes          string         `json:"notes"`
}

// SubmitOrderResponse reports the created order and, for hosted payment
// methods, the external checkout page.
type SubmitOrderResponse struct {
	Order        OrderResponse         `json:"order"`
	CheckoutURL  string                `json:"checkout_url,omitempty"`
	VoucherError *VoucherErrorResponse `json:"voucher_error,omitempty"`
}

// OrderResponse is the frozen order snapshot.
type OrderResponse struct {
	Number          string             `json:"number"`
	Status          string             `json:"status"`
	Items           []CartItemResponse `json:"items"`
	TotalAmount     string             `json:"total_amount"`
	ShippingFee     string             `json:"shipping_fee"`
	VoucherCode     string             `json:"voucher_code,omitempty"`
	VoucherDiscount string             `json:"voucher_discount,omitempty"`
	PaymentMethod   string             `json:"payment_method"`
	PaymentChannel  string             `json:"payment_channel,omitempty"`
	Address         AddressPayload     `json:"address"`
	Notes           string             `json:"notes,omitempty"`
	CancelReason    string             `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// CancelOrderRequest asks for a two-phase cancellation.
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
	Detail string `json:"detail"`
}

// StockShortageResponse names one line that could not be fulfilled.
type StockShortageResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// ErrorResponse is the generic error envelope.
type ErrorResponse struct {
	Error     string                  `json:"error"`
	Shortages []StockShortageResponse `json:"shortages,omitempty"`
}
