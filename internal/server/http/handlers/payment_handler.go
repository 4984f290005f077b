package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrimart/checkout/internal/domain/model"
	"github.com/agrimart/checkout/internal/server/http/dto"
)

// PaymentHandler settles payment outcomes arriving from outside: the user's
// redirect back from the payment page and the gateway's webhook.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// Return handles GET /api/user/payment/return. The redirect status is only a
// hint; the response outcome comes from reconciliation against stored state.
func (h *PaymentHandler) Return(c *gin.Context) {
	number := c.Query("order_id")
	if number == "" {
		c.Status(http.StatusBadRequest)
		return
	}
	redirect := model.RedirectStatus(c.Query("status"))

	outcome, err := h.facade.ReconcileReturn(c.Request.Context(), CurrentUserID(c), number, redirect)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PaymentReturnResponse{
		OrderNumber: number,
		Outcome:     string(outcome),
	})
}

// Webhook handles POST /api/payment/webhook. Re-delivery of an outcome that
// already landed answers 200, so the gateway stops retrying.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var req dto.WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	status := model.PaymentStatus(req.Status)
	switch status {
	case model.PaymentStatusPaid, model.PaymentStatusFailed, model.PaymentStatusPending:
	default:
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.ResolvePayment(c.Request.Context(), req.OrderID, status); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
