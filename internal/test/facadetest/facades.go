package facadetest

import (
	"context"

	"github.com/agrimart/checkout/internal/domain/model"
	"github.com/agrimart/checkout/internal/reconcile"
	"github.com/agrimart/checkout/internal/usecase"
)

// AuthFacadeStub simulates authentication facade interactions.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, string, string) (string, error)
	AuthenticateFn func(context.Context, string, string) (string, error)
	ParseFn        func(string) (int64, error)
}

// Register returns token for successful registration scenarios.
func (s AuthFacadeStub) Register(ctx context.Context, login, password string) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, login, password)
	}
	return "token", nil
}

// Authenticate returns token for successful authentication scenarios.
func (s AuthFacadeStub) Authenticate(ctx context.Context, login, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return "token", nil
}

// ParseToken returns stored identifier for authenticated user.
func (s AuthFacadeStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return 1, nil
}

// CartFacadeStub simulates cart interactions for HTTP layer tests.
type CartFacadeStub struct {
	CartFn    func(context.Context, int64) (*usecase.CartState, error)
	AddFn     func(context.Context, int64, string, int) (*usecase.CartState, error)
	UpdateFn  func(context.Context, int64, string, int) (*usecase.CartState, error)
	RemoveFn  func(context.Context, int64, string) (*usecase.CartState, error)
	ClearFn   func(context.Context, int64) (*usecase.CartState, error)
	VoucherFn func(context.Context, int64, string) (*usecase.CartState, error)
}

func (s CartFacadeStub) Cart(ctx context.Context, userID int64) (*usecase.CartState, error) {
	if s.CartFn != nil {
		return s.CartFn(ctx, userID)
	}
	return &usecase.CartState{}, nil
}

func (s CartFacadeStub) AddCartItem(ctx context.Context, userID int64, productID string, quantity int) (*usecase.CartState, error) {
	if s.AddFn != nil {
		return s.AddFn(ctx, userID, productID, quantity)
	}
	return &usecase.CartState{}, nil
}

func (s CartFacadeStub) UpdateCartItem(ctx context.Context, userID int64, productID string, quantity int) (*usecase.CartState, error) {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, userID, productID, quantity)
	}
	return &usecase.CartState{}, nil
}

func (s CartFacadeStub) RemoveCartItem(ctx context.Context, userID int64, productID string) (*usecase.CartState, error) {
	if s.RemoveFn != nil {
		return s.RemoveFn(ctx, userID, productID)
	}
	return &usecase.CartState{}, nil
}

func (s CartFacadeStub) ClearCart(ctx context.Context, userID int64) (*usecase.CartState, error) {
	if s.ClearFn != nil {
		return s.ClearFn(ctx, userID)
	}
	return &usecase.CartState{}, nil
}

func (s CartFacadeStub) ApplyVoucher(ctx context.Context, userID int64, code string) (*usecase.CartState, error) {
	if s.VoucherFn != nil {
		return s.VoucherFn(ctx, userID, code)
	}
	return &usecase.CartState{}, nil
}

// OrderFacadeStub simulates order interactions for HTTP layer tests.
type OrderFacadeStub struct {
	SubmitFn  func(context.Context, int64, usecase.SubmitOrder) (*usecase.SubmitResult, error)
	OrdersFn  func(context.Context, int64) ([]model.Order, error)
	OrderFn   func(context.Context, int64, string) (*model.Order, error)
	CancelFn  func(context.Context, int64, string, string, string) error
	ApproveFn func(context.Context, string) error
	ConfirmFn func(context.Context, int64, string) error
}

func (s OrderFacadeStub) SubmitOrder(ctx context.Context, userID int64, input usecase.SubmitOrder) (*usecase.SubmitResult, error) {
	if s.SubmitFn != nil {
		return s.SubmitFn(ctx, userID, input)
	}
	return &usecase.SubmitResult{Order: &model.Order{Number: "ORD-1", UserID: userID}}, nil
}

func (s OrderFacadeStub) Orders(ctx context.Context, userID int64) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID)
	}
	return nil, nil
}

func (s OrderFacadeStub) Order(ctx context.Context, userID int64, number string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, userID, number)
	}
	return &model.Order{Number: number, UserID: userID}, nil
}

func (s OrderFacadeStub) RequestCancellation(ctx context.Context, userID int64, number, reason, detail string) error {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, userID, number, reason, detail)
	}
	return nil
}

func (s OrderFacadeStub) ApproveCancellation(ctx context.Context, number string) error {
	if s.ApproveFn != nil {
		return s.ApproveFn(ctx, number)
	}
	return nil
}

func (s OrderFacadeStub) ConfirmDelivery(ctx context.Context, userID int64, number string) error {
	if s.ConfirmFn != nil {
		return s.ConfirmFn(ctx, userID, number)
	}
	return nil
}

// PaymentFacadeStub simulates payment settlement for HTTP layer tests.
type PaymentFacadeStub struct {
	ReconcileFn func(context.Context, int64, string, model.RedirectStatus) (reconcile.Outcome, error)
	ResolveFn   func(context.Context, string, model.PaymentStatus) error
}

func (s PaymentFacadeStub) ReconcileReturn(ctx context.Context, userID int64, number string, redirect model.RedirectStatus) (reconcile.Outcome, error) {
	if s.ReconcileFn != nil {
		return s.ReconcileFn(ctx, userID, number, redirect)
	}
	return reconcile.OutcomeSuccess, nil
}

func (s PaymentFacadeStub) ResolvePayment(ctx context.Context, number string, status model.PaymentStatus) error {
	if s.ResolveFn != nil {
		return s.ResolveFn(ctx, number, status)
	}
	return nil
}

// CheckoutFacadeStub aggregates facade pieces for HTTP layer tests.
type CheckoutFacadeStub struct {
	AuthFacadeStub
	CartFacadeStub
	OrderFacadeStub
	PaymentFacadeStub
}
