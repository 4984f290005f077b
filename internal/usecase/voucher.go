package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/agrimart/checkout/internal/domain/errors"
	"github.com/agrimart/checkout/internal/domain/model"
	"github.com/agrimart/checkout/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// VoucherResolver validates a promotional code against the campaign and
// voucher namespaces and computes the provisional discount. It is a pure
// function of (code, subtotal, now): it never writes, and the usage counter
// is consumed only at order commit.
type VoucherResolver struct {
	vouchers  repository.VoucherRepository
	campaigns repository.CampaignRepository
	now       func() time.Time
}

// NewVoucherResolver constructs VoucherResolver with a real clock.
func NewVoucherResolver(vouchers repository.VoucherRepository, campaigns repository.CampaignRepository) *VoucherResolver {
	return &VoucherResolver{vouchers: vouchers, campaigns: campaigns, now: time.Now}
}

// WithClock replaces the clock, for tests.
func (r *VoucherResolver) WithClock(now func() time.Time) *VoucherResolver {
	r.now = now
	return r
}

// Resolve sanitizes the code and returns the applicable discount. Campaign
// codes take priority over vouchers. Failures are *domainErrors.VoucherError
// with a distinct reason; unknown and inactive codes share the generic
// "invalid" reason on purpose.
func (r *VoucherResolver) Resolve(ctx context.Context, rawCode string, subtotal decimal.Decimal) (*model.VoucherApplication, error) {
	code := SanitizeVoucherCode(rawCode)
	if code == "" {
		return nil, &domainErrors.VoucherError{Reason: domainErrors.VoucherInvalid, Message: "invalid voucher"}
	}
	now := r.now()

	campaign, err := r.campaigns.GetByCode(ctx, code)
	switch {
	case err == nil:
		if !campaign.Active {
			return nil, &domainErrors.VoucherError{Reason: domainErrors.VoucherSaleNotActive, Message: "sale not active"}
		}
		if now.Before(campaign.ValidFrom) || now.After(campaign.ValidTo) {
			return nil, &domainErrors.VoucherError{Reason: domainErrors.VoucherSaleNotActive, Message: "sale not active"}
		}
		discount := subtotal.Mul(campaign.Percent).Div(hundred)
		return &model.VoucherApplication{Code: code, Discount: discount, Campaign: true}, nil
	case !errors.Is(err, domainErrors.ErrNotFound):
		return nil, fmt.Errorf("lookup campaign: %w", err)
	}

	voucher, err := r.vouchers.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, &domainErrors.VoucherError{Reason: domainErrors.VoucherInvalid, Message: "invalid voucher"}
		}
		return nil, fmt.Errorf("lookup voucher: %w", err)
	}

	if !voucher.Active {
		return nil, &domainErrors.VoucherError{Reason: domainErrors.VoucherInvalid, Message: "invalid voucher"}
	}
	if voucher.ValidFrom != nil && now.Before(*voucher.ValidFrom) {
		return nil, &domainErrors.VoucherError{Reason: domainErrors.VoucherNotYetActive, Message: "voucher is not yet valid"}
	}
	if voucher.ExpiresAt != nil && now.After(*voucher.ExpiresAt) {
		return nil, &domainErrors.VoucherError{Reason: domainErrors.VoucherExpired, Message: "voucher has expired"}
	}
	if subtotal.LessThan(voucher.MinPurchase) {
		return nil, &domainErrors.VoucherError{
			Reason:  domainErrors.VoucherBelowMinimum,
			Message: fmt.Sprintf("minimum purchase of %s not met", voucher.MinPurchase.StringFixed(2)),
		}
	}
	if voucher.UsageLimit != nil && voucher.UsedCount >= *voucher.UsageLimit {
		return nil, &domainErrors.VoucherError{Reason: domainErrors.VoucherLimitReached, Message: "voucher usage limit reached"}
	}

	discount := voucher.Value
	if voucher.Type == model.DiscountPercentage {
		discount = subtotal.Mul(voucher.Value).Div(hundred)
		if voucher.MaxDiscount != nil && discount.GreaterThan(*voucher.MaxDiscount) {
			discount = *voucher.MaxDiscount
		}
	}

	return &model.VoucherApplication{Code: code, Discount: discount}, nil
}
