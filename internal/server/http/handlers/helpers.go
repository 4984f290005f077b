package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/agrimart/checkout/internal/domain/errors"
	"github.com/agrimart/checkout/internal/domain/model"
	"github.com/agrimart/checkout/internal/server/http/dto"
	"github.com/agrimart/checkout/internal/server/http/middleware"
	"github.com/agrimart/checkout/internal/usecase"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// respondError maps domain errors onto HTTP statuses. Stock shortages carry
// the full per-line detail so the client can adjust the cart.
func respondError(c *gin.Context, err error) {
	if se, ok := domainErrors.AsStockError(err); ok {
		shortages := make([]dto.StockShortageResponse, 0, len(se.Shortages))
		for _, s := range se.Shortages {
			shortages = append(shortages, dto.StockShortageResponse{
				ProductID: s.ProductID,
				Name:      s.Name,
				Requested: s.Requested,
				Available: s.Available,
			})
		}
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: se.Error(), Shortages: shortages})
		return
	}
	if ve, ok := domainErrors.AsVoucherError(err); ok {
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: ve.Message})
		return
	}

	switch {
	case errors.Is(err, domainErrors.ErrEmptyCart),
		errors.Is(err, domainErrors.ErrInvalidQuantity),
		errors.Is(err, domainErrors.ErrInvalidAddress),
		errors.Is(err, domainErrors.ErrInvalidPaymentMethod):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrTransitionNotAllowed):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrPaymentInitiation):
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
	default:
		c.Status(http.StatusInternalServerError)
	}
}

func toItemResponses(items []model.OrderItem) []dto.CartItemResponse {
	result := make([]dto.CartItemResponse, 0, len(items))
	for _, it := range items {
		result = append(result, dto.CartItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal().StringFixed(2),
			FreeItem:  it.FreeItem,
		})
	}
	return result
}

func toVoucherError(ve *domainErrors.VoucherError) *dto.VoucherErrorResponse {
	if ve == nil {
		return nil
	}
	return &dto.VoucherErrorResponse{Reason: string(ve.Reason), Message: ve.Message}
}

func toCartResponse(state *usecase.CartState) dto.CartResponse {
	return dto.CartResponse{
		Items:           toItemResponses(state.Quote.Items),
		VoucherCode:     state.VoucherCode,
		VoucherError:    toVoucherError(state.VoucherFailure),
		Subtotal:        state.Quote.Subtotal.StringFixed(2),
		ShippingFee:     state.Quote.ShippingFee.StringFixed(2),
		FreeShipping:    state.Quote.FreeShipping,
		VoucherDiscount: state.Quote.VoucherDiscount.StringFixed(2),
		Total:           state.Quote.Total.StringFixed(2),
	}
}

func toAddressPayload(a model.Address) dto.AddressPayload {
	return dto.AddressPayload{
		Recipient:  a.Recipient,
		Phone:      a.Phone,
		Street:     a.Street,
		City:       a.City,
		Province:   a.Province,
		PostalCode: a.PostalCode,
	}
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		Number:         order.Number,
		Status:         string(order.Status),
		Items:          toItemResponses(order.Items),
		TotalAmount:    order.TotalAmount.StringFixed(2),
		ShippingFee:    order.ShippingFee.StringFixed(2),
		VoucherCode:    order.VoucherCode,
		PaymentMethod:  string(order.PaymentMethod),
		PaymentChannel: order.PaymentChannel,
		Address:        toAddressPayload(order.ShippingAddress),
		Notes:          order.Notes,
		CancelReason:   order.CancelReason,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
	if !order.VoucherDiscount.IsZero() {
		resp.VoucherDiscount = order.VoucherDiscount.StringFixed(2)
	}
	return resp
}
