package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrimart/checkout/internal/server/http/dto"
)

// CartHandler manages the per-user cart endpoints.
type CartHandler struct {
	facade CartFacade
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(facade CartFacade) *CartHandler {
	return &CartHandler{facade: facade}
}

// Get handles GET /api/user/cart.
func (h *CartHandler) Get(c *gin.Context) {
	state, err := h.facade.Cart(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(state))
}

// AddItem handles POST /api/user/cart/items.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	state, err := h.facade.AddCartItem(c.Request.Context(), CurrentUserID(c), req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(state))
}

// UpdateItem handles PATCH /api/user/cart/items/:id.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req dto.CartItemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	state, err := h.facade.UpdateCartItem(c.Request.Context(), CurrentUserID(c), c.Param("id"), req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(state))
}

// RemoveItem handles DELETE /api/user/cart/items/:id.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	state, err := h.facade.RemoveCartItem(c.Request.Context(), CurrentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(state))
}

// Clear handles DELETE /api/user/cart.
func (h *CartHandler) Clear(c *gin.Context) {
	state, err := h.facade.ClearCart(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(state))
}

// ApplyVoucher handles POST /api/user/cart/voucher.
func (h *CartHandler) ApplyVoucher(c *gin.Context) {
	var req dto.VoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	state, err := h.facade.ApplyVoucher(c.Request.Context(), CurrentUserID(c), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(state))
}
