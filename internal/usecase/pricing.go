package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/agrimart/checkout/internal/domain/model"
)

// Quote is the priced view of a cart: chargeable lines plus any offer-granted
// free lines, with the final amount already clamped at zero.
type Quote struct {
	Items           []model.OrderItem
	Subtotal        decimal.Decimal
	ShippingFee     decimal.Decimal
	FreeShipping    bool
	VoucherCode     string
	VoucherDiscount decimal.Decimal
	Total           decimal.Decimal
}

// ComputeQuote combines subtotal, effective shipping fee, offer effects and
// voucher discount into the final chargeable amount.
//
// The discount is clamped so the total never goes negative: a fixed-amount
// voucher larger than subtotal+shipping discounts everything, not more.
func ComputeQuote(items []model.OrderItem, offer model.Offer, voucher *model.VoucherApplication, baseShippingFee decimal.Decimal) Quote {
	q := Quote{FreeShipping: offer.FreeShipping}

	q.Items = make([]model.OrderItem, 0, len(items)+len(offer.FreeItems))
	q.Items = append(q.Items, items...)
	q.Items = append(q.Items, offer.FreeItems...)

	subtotal := decimal.Zero
	for _, it := range items {
		if it.FreeItem {
			continue
		}
		subtotal = subtotal.Add(it.LineTotal())
	}
	q.Subtotal = subtotal

	q.ShippingFee = baseShippingFee
	if offer.FreeShipping {
		q.ShippingFee = decimal.Zero
	}

	q.VoucherDiscount = decimal.Zero
	if voucher != nil {
		q.VoucherCode = voucher.Code
		q.VoucherDiscount = voucher.Discount
		if max := subtotal.Add(q.ShippingFee); q.VoucherDiscount.GreaterThan(max) {
			q.VoucherDiscount = max
		}
		if q.VoucherDiscount.IsNegative() {
			q.VoucherDiscount = decimal.Zero
		}
	}

	q.Total = subtotal.Add(q.ShippingFee).Sub(q.VoucherDiscount)
	return q
}
