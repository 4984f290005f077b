package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/agrimart/checkout/internal/domain/errors"
	"github.com/agrimart/checkout/internal/domain/model"
	testhelpers "github.com/agrimart/checkout/internal/test"
)

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func newResolver(vouchers map[string]*model.Voucher, campaigns map[string]*model.Campaign) *VoucherResolver {
	return NewVoucherResolver(
		&testhelpers.VoucherRepositoryStub{Vouchers: vouchers},
		&testhelpers.CampaignRepositoryStub{Campaigns: campaigns},
	).WithClock(func() time.Time { return testNow })
}

func expectVoucherReason(t *testing.T, err error, reason domainErrors.VoucherReason) {
	t.Helper()
	ve, ok := domainErrors.AsVoucherError(err)
	if !ok {
		t.Fatalf("expected VoucherError, got %v", err)
	}
	if ve.Reason != reason {
		t.Fatalf("expected reason %q, got %q (%s)", reason, ve.Reason, ve.Message)
	}
}

func TestResolveUnknownCode(t *testing.T) {
	r := newResolver(nil, nil)
	_, err := r.Resolve(context.Background(), "MYSTERY", decimal.NewFromInt(1000))
	expectVoucherReason(t, err, domainErrors.VoucherInvalid)
}

func TestResolveSanitizesBeforeLookup(t *testing.T) {
	vouchers := map[string]*model.Voucher{
		"HARVEST10": {Code: "HARVEST10", Type: model.DiscountFixed, Value: decimal.NewFromInt(50), Active: true},
	}
	r := newResolver(vouchers, nil)

	app, err := r.Resolve(context.Background(), "  harvest10!  ", decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.Code != "HARVEST10" || !app.Discount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unexpected application: %+v", app)
	}
}

func TestResolveCampaignTakesPriority(t *testing.T) {
	vouchers := map[string]*model.Voucher{
		"SALE99": {Code: "SALE99", Type: model.DiscountFixed, Value: decimal.NewFromInt(5), Active: true},
	}
	campaigns := map[string]*model.Campaign{
		"SALE99": {
			Code:      "SALE99",
			Percent:   decimal.NewFromInt(20),
			ValidFrom: testNow.Add(-time.Hour),
			ValidTo:   testNow.Add(time.Hour),
			Active:    true,
		},
	}
	r := newResolver(vouchers, campaigns)

	app, err := r.Resolve(context.Background(), "SALE99", decimal.NewFromInt(500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !app.Campaign {
		t.Fatal("expected campaign application")
	}
	if !app.Discount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected 20%% of 500 = 100, got %s", app.Discount)
	}
}

func TestResolveCampaignOutsideWindow(t *testing.T) {
	campaigns := map[string]*model.Campaign{
		"SALE99": {
			Code:      "SALE99",
			Percent:   decimal.NewFromInt(20),
			ValidFrom: testNow.Add(time.Hour),
			ValidTo:   testNow.Add(2 * time.Hour),
			Active:    true,
		},
	}
	r := newResolver(nil, campaigns)
	_, err := r.Resolve(context.Background(), "SALE99", decimal.NewFromInt(500))
	expectVoucherReason(t, err, domainErrors.VoucherSaleNotActive)
}

func TestResolveInactiveCampaign(t *testing.T) {
	campaigns := map[string]*model.Campaign{
		"SALE99": {
			Code:      "SALE99",
			Percent:   decimal.NewFromInt(10),
			ValidFrom: testNow.Add(-time.Hour),
			ValidTo:   testNow.Add(time.Hour),
			Active:    false,
		},
	}
	r := newResolver(nil, campaigns)
	_, err := r.Resolve(context.Background(), "SALE99", decimal.NewFromInt(1000))
	expectVoucherReason(t, err, domainErrors.VoucherSaleNotActive)
}

func TestResolveInactiveVoucher(t *testing.T) {
	vouchers := map[string]*model.Voucher{
		"OLD": {Code: "OLD", Type: model.DiscountFixed, Value: decimal.NewFromInt(10), Active: false},
	}
	r := newResolver(vouchers, nil)
	_, err := r.Resolve(context.Background(), "OLD", decimal.NewFromInt(500))
	expectVoucherReason(t, err, domainErrors.VoucherInvalid)
}

func TestResolveVoucherWindows(t *testing.T) {
	future := testNow.Add(time.Hour)
	past := testNow.Add(-time.Hour)

	vouchers := map[string]*model.Voucher{
		"SOON": {Code: "SOON", Type: model.DiscountFixed, Value: decimal.NewFromInt(10), Active: true, ValidFrom: &future},
		"GONE": {Code: "GONE", Type: model.DiscountFixed, Value: decimal.NewFromInt(10), Active: true, ExpiresAt: &past},
	}
	r := newResolver(vouchers, nil)

	_, err := r.Resolve(context.Background(), "SOON", decimal.NewFromInt(500))
	expectVoucherReason(t, err, domainErrors.VoucherNotYetActive)

	_, err = r.Resolve(context.Background(), "GONE", decimal.NewFromInt(500))
	expectVoucherReason(t, err, domainErrors.VoucherExpired)
}

func TestResolveBelowMinimum(t *testing.T) {
	vouchers := map[string]*model.Voucher{
		"BIG": {Code: "BIG", Type: model.DiscountFixed, Value: decimal.NewFromInt(100), Active: true, MinPurchase: decimal.NewFromInt(1000)},
	}
	r := newResolver(vouchers, nil)
	_, err := r.Resolve(context.Background(), "BIG", decimal.NewFromInt(999))
	expectVoucherReason(t, err, domainErrors.VoucherBelowMinimum)
}

func TestResolveLimitReached(t *testing.T) {
	limit := 3
	vouchers := map[string]*model.Voucher{
		"RARE": {Code: "RARE", Type: model.DiscountFixed, Value: decimal.NewFromInt(100), Active: true, UsageLimit: &limit, UsedCount: 3},
	}
	r := newResolver(vouchers, nil)
	_, err := r.Resolve(context.Background(), "RARE", decimal.NewFromInt(500))
	expectVoucherReason(t, err, domainErrors.VoucherLimitReached)
}

func TestResolvePercentageWithMinPurchase(t *testing.T) {
	vouchers := map[string]*model.Voucher{
		"WELCOME10": {Code: "WELCOME10", Type: model.DiscountPercentage, Value: decimal.NewFromInt(10), Active: true, MinPurchase: decimal.NewFromInt(500)},
	}
	r := newResolver(vouchers, nil)

	app, err := r.Resolve(context.Background(), "WELCOME10", decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !app.Discount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected discount 100, got %s", app.Discount)
	}

	_, err = r.Resolve(context.Background(), "WELCOME10", decimal.NewFromInt(400))
	expectVoucherReason(t, err, domainErrors.VoucherBelowMinimum)
}

func TestResolvePercentageCappedAtMax(t *testing.T) {
	maxDiscount := decimal.NewFromInt(150)
	vouchers := map[string]*model.Voucher{
		"PCT20": {Code: "PCT20", Type: model.DiscountPercentage, Value: decimal.NewFromInt(20), MaxDiscount: &maxDiscount, Active: true},
	}
	r := newResolver(vouchers, nil)

	app, err := r.Resolve(context.Background(), "PCT20", decimal.NewFromInt(2000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !app.Discount.Equal(maxDiscount) {
		t.Fatalf("expected discount capped at 150, got %s", app.Discount)
	}

	app, err = r.Resolve(context.Background(), "PCT20", decimal.NewFromInt(500))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !app.Discount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected 20%% of 500 = 100, got %s", app.Discount)
	}
}
