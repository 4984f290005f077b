package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/agrimart/checkout/internal/domain/errors"
	"github.com/agrimart/checkout/internal/domain/model"
	"github.com/agrimart/checkout/internal/domain/repository"
)

// PaymentInitiator starts an external payment for an order. It only ever
// initiates: confirmation arrives through the webhook or the reconciliation
// fallback, never from here.
type PaymentInitiator interface {
	Initiate(ctx context.Context, req model.PaymentRequest) (*model.PaymentSession, error)
}

// CheckoutConfig carries checkout-session parameters.
type CheckoutConfig struct {
	DefaultShippingFee decimal.Decimal
	PaymentReturnURL   string
}

// QuoteResult pairs a priced quote with a non-fatal voucher failure, if any.
// A failed voucher never blocks checkout; the discount is simply zero.
type QuoteResult struct {
	Quote          Quote
	VoucherFailure *domainErrors.VoucherError
}

// SubmitOrder is the checkout submission payload.
type SubmitOrder struct {
	Items       []model.OrderItem
	Address     model.Address
	Method      model.PaymentMethod
	Channel     string
	VoucherCode string
	Notes       string
}

// SubmitResult reports the persisted order and, for hosted methods, the
// external page the client must navigate to.
type SubmitResult struct {
	Order          *model.Order
	CheckoutURL    string
	VoucherFailure *domainErrors.VoucherError
}

// CheckoutUseCase orchestrates pricing, stock validation, order creation and
// payment dispatch, and owns every guarded status transition.
type CheckoutUseCase struct {
	resolver  *VoucherResolver
	offers    *OfferEngine
	stock     *StockValidator
	orders    repository.OrderRepository
	settings  repository.SettingRepository
	payments  PaymentInitiator
	cfg       CheckoutConfig
	now       func() time.Time
	newNumber func(time.Time) string
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(
	resolver *VoucherResolver,
	offers *OfferEngine,
	stock *StockValidator,
	orders repository.OrderRepository,
	settings repository.SettingRepository,
	payments PaymentInitiator,
	cfg CheckoutConfig,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		resolver:  resolver,
		offers:    offers,
		stock:     stock,
		orders:    orders,
		settings:  settings,
		payments:  payments,
		cfg:       cfg,
		now:       time.Now,
		newNumber: newOrderNumber,
	}
}

// newOrderNumber builds a date-prefixed, collision-resistant order number.
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// shippingFee reads the fee configuration store once per checkout session,
// falling back to the configured default when no value is stored.
func (u *CheckoutUseCase) shippingFee(ctx context.Context) (decimal.Decimal, error) {
	fee, err := u.settings.ShippingFee(ctx)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return u.cfg.DefaultShippingFee, nil
		}
		return decimal.Zero, fmt.Errorf("read shipping fee: %w", err)
	}
	return fee, nil
}

// Quote prices the cart: voucher resolution, automatic offers, shipping fee,
// final clamped total. Voucher failures are reported, not fatal.
func (u *CheckoutUseCase) Quote(ctx context.Context, items []model.OrderItem, voucherCode string) (*QuoteResult, error) {
	if err := ValidateItems(items); err != nil {
		return nil, err
	}

	result := &QuoteResult{}
	var application *model.VoucherApplication
	if strings.TrimSpace(voucherCode) != "" {
		subtotal := decimal.Zero
		for _, it := range items {
			if !it.FreeItem {
				subtotal = subtotal.Add(it.LineTotal())
			}
		}
		app, err := u.resolver.Resolve(ctx, voucherCode, subtotal)
		if err != nil {
			ve, ok := domainErrors.AsVoucherError(err)
			if !ok {
				return nil, err
			}
			result.VoucherFailure = ve
		} else {
			application = app
		}
	}

	offer, err := u.offers.Evaluate(ctx, items)
	if err != nil {
		return nil, err
	}

	fee, err := u.shippingFee(ctx)
	if err != nil {
		return nil, err
	}

	result.Quote = ComputeQuote(items, offer, application, fee)
	return result, nil
}

// Submit runs the whole checkout: input validation, pricing, all-or-nothing
// stock validation, transactional order creation and payment dispatch.
//
// Initiation failure for hosted methods moves the fresh order to
// payment_failed before the error is surfaced, so it never lingers
// ambiguously; retrying means a new order, never this one.
func (u *CheckoutUseCase) Submit(ctx context.Context, userID int64, input SubmitOrder) (*SubmitResult, error) {
	if err := ValidateItems(input.Items); err != nil {
		return nil, err
	}
	if err := ValidateAddress(input.Address); err != nil {
		return nil, err
	}
	if err := ValidatePaymentSelection(input.Method, input.Channel); err != nil {
		return nil, err
	}

	quoted, err := u.Quote(ctx, input.Items, input.VoucherCode)
	if err != nil {
		return nil, err
	}
	quote := quoted.Quote

	if err := u.stock.Validate(ctx, quote.Items); err != nil {
		return nil, err
	}

	now := u.now()
	order := &model.Order{
		Number:          u.newNumber(now),
		UserID:          userID,
		Items:           quote.Items,
		TotalAmount:     quote.Total,
		ShippingFee:     quote.ShippingFee,
		VoucherCode:     quote.VoucherCode,
		VoucherDiscount: quote.VoucherDiscount,
		ShippingAddress: input.Address,
		PaymentMethod:   input.Method,
		PaymentChannel:  input.Channel,
		Notes:           input.Notes,
		Status:          input.Method.EntryStatus(),
	}

	if err := u.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	result := &SubmitResult{Order: order, VoucherFailure: quoted.VoucherFailure}
	if input.Method == model.PaymentCashOnDelivery {
		return result, nil
	}

	session, err := u.payments.Initiate(ctx, model.PaymentRequest{
		Amount:      order.TotalAmount,
		Method:      input.Method,
		Channel:     input.Channel,
		OrderNumber: order.Number,
		Description: fmt.Sprintf("Order %s", order.Number),
		RedirectURL: u.cfg.PaymentReturnURL,
	})
	if err != nil || session.CheckoutURL == "" {
		// Client-key-only sessions need an SDK flow this service does not
		// support; both cases fail the payment, not the order history.
		if _, casErr := u.orders.UpdateStatusIf(ctx, order.Number, model.OrderStatusPendingPayment, model.OrderStatusPaymentFailed); casErr != nil {
			return nil, fmt.Errorf("mark payment failed: %w", casErr)
		}
		order.Status = model.OrderStatusPaymentFailed
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domainErrors.ErrPaymentInitiation, err)
		}
		return nil, domainErrors.ErrPaymentInitiation
	}

	result.CheckoutURL = session.CheckoutURL
	return result, nil
}

// ListByUser returns the user's orders, newest first.
func (u *CheckoutUseCase) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return u.orders.ListByUser(ctx, userID)
}

// GetForUser fetches one order, enforcing ownership.
func (u *CheckoutUseCase) GetForUser(ctx context.Context, userID int64, number string) (*model.Order, error) {
	order, err := u.orders.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}

// RequestCancellation is phase one of the two-phase cancel: the user asks,
// recording a reason; an external approver finalizes.
func (u *CheckoutUseCase) RequestCancellation(ctx context.Context, userID int64, number, reason, detail string) error {
	order, err := u.GetForUser(ctx, userID, number)
	if err != nil {
		return err
	}
	if !model.CanTransition(order.Status, model.OrderStatusPendingCancellation) {
		return domainErrors.ErrTransitionNotAllowed
	}
	moved, err := u.orders.RequestCancellation(ctx, number, order.Status, reason, detail)
	if err != nil {
		return err
	}
	if !moved {
		return domainErrors.ErrTransitionNotAllowed
	}
	return nil
}

// ApproveCancellation finalizes a pending cancellation.
func (u *CheckoutUseCase) ApproveCancellation(ctx context.Context, number string) error {
	moved, err := u.orders.UpdateStatusIf(ctx, number, model.OrderStatusPendingCancellation, model.OrderStatusCancelled)
	if err != nil {
		return err
	}
	if !moved {
		return domainErrors.ErrTransitionNotAllowed
	}
	return nil
}

// ConfirmDelivery records the user's delivery confirmation.
func (u *CheckoutUseCase) ConfirmDelivery(ctx context.Context, userID int64, number string) error {
	if _, err := u.GetForUser(ctx, userID, number); err != nil {
		return err
	}
	moved, err := u.orders.UpdateStatusIf(ctx, number, model.OrderStatusToReceive, model.OrderStatusCompleted)
	if err != nil {
		return err
	}
	if !moved {
		return domainErrors.ErrTransitionNotAllowed
	}
	return nil
}

// ResolvePayment applies an authoritative payment outcome (webhook or
// gateway poll) through the guarded transition out of pending_payment.
// Re-delivery of an already-applied outcome is idempotent.
func (u *CheckoutUseCase) ResolvePayment(ctx context.Context, number string, status model.PaymentStatus) error {
	var target model.OrderStatus
	switch status {
	case model.PaymentStatusPaid:
		target = model.OrderStatusPaid
	case model.PaymentStatusFailed:
		target = model.OrderStatusPaymentFailed
	default:
		return nil
	}

	moved, err := u.orders.UpdateStatusIf(ctx, number, model.OrderStatusPendingPayment, target)
	if err != nil {
		return err
	}
	if moved {
		return nil
	}

	order, err := u.orders.GetByNumber(ctx, number)
	if err != nil {
		return err
	}
	if order.Status == target {
		return nil
	}
	return domainErrors.ErrTransitionNotAllowed
}

// StalePending lists pending_payment orders untouched since the cutoff, for
// the background recovery sweep.
func (u *CheckoutUseCase) StalePending(ctx context.Context, before time.Time, limit int) ([]model.Order, error) {
	return u.orders.SelectStalePending(ctx, before, limit)
}
