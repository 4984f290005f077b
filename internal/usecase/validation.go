package usecase

import (
	"strings"

	domainErrors "github.com/agrimart/checkout/internal/domain/errors"
	"github.com/agrimart/checkout/internal/domain/model"
)

const maxVoucherCodeLength = 50

// SanitizeVoucherCode strips everything except letters, digits, '.' and '-',
// truncates to 50 characters and uppercases the result. Lookups only ever
// see sanitized codes.
func SanitizeVoucherCode(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		}
		if b.Len() >= maxVoucherCodeLength {
			break
		}
	}
	return strings.ToUpper(b.String())
}

// ValidateAddress rejects a shipping address with any missing field before
// any store call is made.
func ValidateAddress(a model.Address) error {
	fields := []string{a.Recipient, a.Phone, a.Street, a.City, a.Province, a.PostalCode}
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return domainErrors.ErrInvalidAddress
		}
	}
	return nil
}

var hostedChannels = map[string]bool{
	model.ChannelQRPH:  true,
	model.ChannelGCash: true,
	model.ChannelMaya:  true,
	model.ChannelCard:  true,
}

// ValidatePaymentSelection checks the method and its sub-method: hosted
// checkout needs a known wallet/card channel, bank transfer needs a bank
// code, cash on delivery needs nothing.
func ValidatePaymentSelection(method model.PaymentMethod, channel string) error {
	switch method {
	case model.PaymentCashOnDelivery:
		return nil
	case model.PaymentHostedCheckout:
		if !hostedChannels[channel] {
			return domainErrors.ErrInvalidPaymentMethod
		}
		return nil
	case model.PaymentBankTransfer:
		if strings.TrimSpace(channel) == "" {
			return domainErrors.ErrInvalidPaymentMethod
		}
		return nil
	default:
		return domainErrors.ErrInvalidPaymentMethod
	}
}

// ValidateItems ensures the cart lines are purchasable: non-empty cart,
// positive quantities, non-negative prices.
func ValidateItems(items []model.OrderItem) error {
	if len(items) == 0 {
		return domainErrors.ErrEmptyCart
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return domainErrors.ErrInvalidQuantity
		}
		if it.UnitPrice.IsNegative() {
			return domainErrors.ErrInvalidQuantity
		}
	}
	return nil
}
