package model

// OfferRule grants automatic promotions once the cart reaches a total unit
// count. Rules are ordered by threshold; the highest matching rule applies.
type OfferRule struct {
	ID            int64
	MinUnits      int
	FreeShipping  bool
	FreeProductID string
	FreeQuantity  int
}

// Offer describes the promotions derived from cart composition. It is a
// description only; the cart itself is never mutated.
type Offer struct {
	FreeShipping bool
	FreeItems    []OrderItem
}
