package app

import (
	"context"
	"time"

	"github.com/agrimart/checkout/internal/domain/model"
	"github.com/agrimart/checkout/internal/reconcile"
	"github.com/agrimart/checkout/internal/usecase"
)

// PaymentStatusProvider reads the authoritative payment state from the
// external gateway.
type PaymentStatusProvider interface {
	Status(ctx context.Context, orderNumber string) (model.PaymentStatus, error)
}

// CheckoutFacade is the single application surface the HTTP handlers and the
// background sweeper talk to.
type CheckoutFacade struct {
	auth     *usecase.AuthUseCase
	cart     *usecase.CartUseCase
	checkout *usecase.CheckoutUseCase
	poller   *reconcile.Poller
	gateway  PaymentStatusProvider
	staleAge time.Duration
	now      func() time.Time
}

func NewCheckoutFacade(
	auth *usecase.AuthUseCase,
	cart *usecase.CartUseCase,
	checkout *usecase.CheckoutUseCase,
	poller *reconcile.Poller,
	gateway PaymentStatusProvider,
	staleAge time.Duration,
) *CheckoutFacade {
	return &CheckoutFacade{
		auth:     auth,
		cart:     cart,
		checkout: checkout,
		poller:   poller,
		gateway:  gateway,
		staleAge: staleAge,
		now:      time.Now,
	}
}

func (f *CheckoutFacade) Register(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password)
	return token, err
}

func (f *CheckoutFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *CheckoutFacade) ParseToken(token string) (int64, error) {
	return f.auth.ParseToken(token)
}

func (f *CheckoutFacade) Cart(ctx context.Context, userID int64) (*usecase.CartState, error) {
	return f.cart.Get(ctx, userID)
}

func (f *CheckoutFacade) AddCartItem(ctx context.Context, userID int64, productID string, quantity int) (*usecase.CartState, error) {
	return f.cart.AddItem(ctx, userID, productID, quantity)
}

func (f *CheckoutFacade) UpdateCartItem(ctx context.Context, userID int64, productID string, quantity int) (*usecase.CartState, error) {
	return f.cart.UpdateQuantity(ctx, userID, productID, quantity)
}

func (f *CheckoutFacade) RemoveCartItem(ctx context.Context, userID int64, productID string) (*usecase.CartState, error) {
	return f.cart.RemoveItem(ctx, userID, productID)
}

func (f *CheckoutFacade) ClearCart(ctx context.Context, userID int64) (*usecase.CartState, error) {
	return f.cart.Clear(ctx, userID)
}

func (f *CheckoutFacade) ApplyVoucher(ctx context.Context, userID int64, code string) (*usecase.CartState, error) {
	return f.cart.ApplyVoucher(ctx, userID, code)
}

// SubmitOrder runs the checkout and, on success, clears the submitted cart.
func (f *CheckoutFacade) SubmitOrder(ctx context.Context, userID int64, input usecase.SubmitOrder) (*usecase.SubmitResult, error) {
	result, err := f.checkout.Submit(ctx, userID, input)
	if err != nil {
		return nil, err
	}
	if _, err := f.cart.Clear(ctx, userID); err != nil {
		return nil, err
	}
	return result, nil
}

func (f *CheckoutFacade) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	return f.checkout.ListByUser(ctx, userID)
}

func (f *CheckoutFacade) Order(ctx context.Context, userID int64, number string) (*model.Order, error) {
	return f.checkout.GetForUser(ctx, userID, number)
}

func (f *CheckoutFacade) RequestCancellation(ctx context.Context, userID int64, number, reason, detail string) error {
	return f.checkout.RequestCancellation(ctx, userID, number, reason, detail)
}

func (f *CheckoutFacade) ApproveCancellation(ctx context.Context, number string) error {
	return f.checkout.ApproveCancellation(ctx, number)
}

func (f *CheckoutFacade) ConfirmDelivery(ctx context.Context, userID int64, number string) error {
	return f.checkout.ConfirmDelivery(ctx, userID, number)
}

// ReconcileReturn settles a payment redirect into a customer-facing outcome.
// The order must belong to the returning user; reconciliation writes statuses,
// so a stranger's order number is rejected before any polling starts.
func (f *CheckoutFacade) ReconcileReturn(ctx context.Context, userID int64, number string, redirect model.RedirectStatus) (reconcile.Outcome, error) {
	if _, err := f.checkout.GetForUser(ctx, userID, number); err != nil {
		return "", err
	}
	return f.poller.Reconcile(ctx, number, redirect)
}

// ResolvePayment applies a gateway-reported outcome. Used by the webhook
// handler and the stale payment sweeper.
func (f *CheckoutFacade) ResolvePayment(ctx context.Context, number string, status model.PaymentStatus) error {
	return f.checkout.ResolvePayment(ctx, number, status)
}

// PaymentStatus queries the gateway directly.
func (f *CheckoutFacade) PaymentStatus(ctx context.Context, number string) (model.PaymentStatus, error) {
	return f.gateway.Status(ctx, number)
}

// StalePayments lists pending_payment orders older than the configured age.
func (f *CheckoutFacade) StalePayments(ctx context.Context, limit int) ([]model.Order, error) {
	return f.checkout.StalePending(ctx, f.now().Add(-f.staleAge), limit)
}
