package dto

// PaymentReturnResponse settles a redirect from the external payment page.
type PaymentReturnResponse struct {
	OrderNumber string `json:"order_number"`
	Outcome     string `json:"outcome"`
}

// WebhookRequest is the gateway's payment notification payload.
type WebhookRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	Status  string `json:"status" binding:"required"`
}
