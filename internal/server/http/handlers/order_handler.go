package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/agrimart/checkout/internal/domain/errors"
	"github.com/agrimart/checkout/internal/domain/model"
	"github.com/agrimart/checkout/internal/server/http/dto"
	"github.com/agrimart/checkout/internal/usecase"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	orders OrderFacade
	cart   CartFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(orders OrderFacade, cart CartFacade) *OrderHandler {
	return &OrderHandler{orders: orders, cart: cart}
}

// Submit handles POST /api/user/orders. The order is placed from the current
// cart; the request only carries address, payment selection and notes.
func (h *OrderHandler) Submit(c *gin.Context) {
	userID := CurrentUserID(c)

	var req dto.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	state, err := h.cart.Cart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(state.Items) == 0 {
		respondError(c, domainErrors.ErrEmptyCart)
		return
	}

	result, err := h.orders.SubmitOrder(c.Request.Context(), userID, usecase.SubmitOrder{
		Items: state.Items,
		Address: model.Address{
			Recipient:  req.Address.Recipient,
			Phone:      req.Address.Phone,
			Street:     req.Address.Street,
			City:       req.Address.City,
			Province:   req.Address.Province,
			PostalCode: req.Address.PostalCode,
		},
		Method:      model.PaymentMethod(req.PaymentMethod),
		Channel:     req.PaymentChannel,
		VoucherCode: state.VoucherCode,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SubmitOrderResponse{
		Order:        toOrderResponse(*result.Order),
		CheckoutURL:  result.CheckoutURL,
		VoucherError: toVoucherError(result.VoucherFailure),
	})
}

// List handles GET /api/user/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orders.Orders(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/user/orders/:number.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orders.Order(c.Request.Context(), CurrentUserID(c), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Cancel handles POST /api/user/orders/:number/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	var req dto.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	err := h.orders.RequestCancellation(c.Request.Context(), CurrentUserID(c), c.Param("number"), req.Reason, req.Detail)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// ConfirmDelivery handles POST /api/user/orders/:number/received.
func (h *OrderHandler) ConfirmDelivery(c *gin.Context) {
	err := h.orders.ConfirmDelivery(c.Request.Context(), CurrentUserID(c), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// ApproveCancellation handles POST /api/internal/orders/:number/cancel/approve.
func (h *OrderHandler) ApproveCancellation(c *gin.Context) {
	if err := h.orders.ApproveCancellation(c.Request.Context(), c.Param("number")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
