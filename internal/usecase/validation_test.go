package usecase

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/agrimart/checkout/internal/domain/errors"
	"github.com/agrimart/checkout/internal/domain/model"
)

func TestSanitizeVoucherCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"harvest10", "HARVEST10"},
		{"  SALE-2026.A  ", "SALE-2026.A"},
		{"<script>alert(1)</script>", "SCRIPTALERT1SCRIPT"},
		{"'; DROP TABLE vouchers;--", "DROPTABLEVOUCHERS--"},
		{"", ""},
		{strings.Repeat("a", 80), strings.ToUpper(strings.Repeat("a", 50))},
	}
	for _, tc := range cases {
		if got := SanitizeVoucherCode(tc.in); got != tc.want {
			t.Errorf("SanitizeVoucherCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateAddress(t *testing.T) {
	full := model.Address{
		Recipient:  "Ana",
		Phone:      "0917",
		Street:     "1 Mango St",
		City:       "Davao",
		Province:   "Davao del Sur",
		PostalCode: "8000",
	}
	if err := ValidateAddress(full); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	missingCity := full
	missingCity.City = "   "
	if err := ValidateAddress(missingCity); err != domainErrors.ErrInvalidAddress {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
}

func TestValidatePaymentSelection(t *testing.T) {
	if err := ValidatePaymentSelection(model.PaymentCashOnDelivery, ""); err != nil {
		t.Fatalf("cod should need no channel: %v", err)
	}
	if err := ValidatePaymentSelection(model.PaymentHostedCheckout, model.ChannelGCash); err != nil {
		t.Fatalf("gcash should be accepted: %v", err)
	}
	if err := ValidatePaymentSelection(model.PaymentHostedCheckout, "bitcoin"); err != domainErrors.ErrInvalidPaymentMethod {
		t.Fatalf("expected ErrInvalidPaymentMethod, got %v", err)
	}
	if err := ValidatePaymentSelection(model.PaymentBankTransfer, "bpi"); err != nil {
		t.Fatalf("bank transfer with code should pass: %v", err)
	}
	if err := ValidatePaymentSelection(model.PaymentBankTransfer, " "); err != domainErrors.ErrInvalidPaymentMethod {
		t.Fatalf("expected ErrInvalidPaymentMethod, got %v", err)
	}
	if err := ValidatePaymentSelection("sack_of_rice", ""); err != domainErrors.ErrInvalidPaymentMethod {
		t.Fatalf("expected ErrInvalidPaymentMethod for unknown method, got %v", err)
	}
}

func TestValidateItems(t *testing.T) {
	if err := ValidateItems(nil); err != domainErrors.ErrEmptyCart {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	items := []model.OrderItem{{ProductID: "a", UnitPrice: decimal.NewFromInt(10), Quantity: 0}}
	if err := ValidateItems(items); err != domainErrors.ErrInvalidQuantity {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	items[0].Quantity = 1
	items[0].UnitPrice = decimal.NewFromInt(-5)
	if err := ValidateItems(items); err != domainErrors.ErrInvalidQuantity {
		t.Fatalf("expected ErrInvalidQuantity for negative price, got %v", err)
	}
	items[0].UnitPrice = decimal.NewFromInt(5)
	if err := ValidateItems(items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
