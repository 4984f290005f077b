package dto

// CartItemRequest adds a catalog product to the cart.
type CartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// CartItemUpdateRequest sets an existing line's quantity.
type CartItemUpdateRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// VoucherRequest applies a promotional code to the cart.
type VoucherRequest struct {
	Code string `json:"code" binding:"required"`
}

// CartItemResponse is one quoted cart line.
type CartItemResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
	FreeItem  bool   `json:"free_item,omitempty"`
}

// VoucherErrorResponse explains why the applied code yields no discount.
type VoucherErrorResponse struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// CartResponse is the quoted cart returned after every cart operation.
type CartResponse struct {
	Items           []CartItemResponse    `json:"items"`
	VoucherCode     string                `json:"voucher_code,omitempty"`
	VoucherError    *VoucherErrorResponse `json:"voucher_error,omitempty"`
	Subtotal        string                `json:"subtotal"`
	ShippingFee     string                `json:"shipping_fee"`
	FreeShipping    bool                  `json:"free_shipping"`
	VoucherDiscount string                `json:"voucher_discount"`
	Total           string                `json:"total"`
}
