package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType distinguishes percentage vouchers from fixed-amount ones.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Voucher is an individually issued promotional code.
type Voucher struct {
	Code        string
	Type        DiscountType
	Value       decimal.Decimal
	MaxDiscount *decimal.Decimal
	MinPurchase decimal.Decimal
	UsageLimit  *int
	UsedCount   int
	ValidFrom   *time.Time
	ExpiresAt   *time.Time
	Active      bool
}

// Campaign is a time-boxed storewide sale. Campaign codes take priority over
// voucher codes when a code exists in both namespaces.
type Campaign struct {
	Code      string
	Percent   decimal.Decimal
	ValidFrom time.Time
	ValidTo   time.Time
	Active    bool
}

// VoucherApplication is the provisional result of resolving a code against
// the current subtotal. The usage counter is consumed only at order commit.
type VoucherApplication struct {
	Code     string
	Discount decimal.Decimal
	Campaign bool
}
