package handlers

import (
	"context"

	"github.com/agrimart/checkout/internal/domain/model"
	"github.com/agrimart/checkout/internal/reconcile"
	"github.com/agrimart/checkout/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (int64, error)
}

// CartFacade encapsulates cart operations exposed via HTTP.
type CartFacade interface {
	Cart(ctx context.Context, userID int64) (*usecase.CartState, error)
	AddCartItem(ctx context.Context, userID int64, productID string, quantity int) (*usecase.CartState, error)
	UpdateCartItem(ctx context.Context, userID int64, productID string, quantity int) (*usecase.CartState, error)
	RemoveCartItem(ctx context.Context, userID int64, productID string) (*usecase.CartState, error)
	ClearCart(ctx context.Context, userID int64) (*usecase.CartState, error)
	ApplyVoucher(ctx context.Context, userID int64, code string) (*usecase.CartState, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	SubmitOrder(ctx context.Context, userID int64, input usecase.SubmitOrder) (*usecase.SubmitResult, error)
	Orders(ctx context.Context, userID int64) ([]model.Order, error)
	Order(ctx context.Context, userID int64, number string) (*model.Order, error)
	RequestCancellation(ctx context.Context, userID int64, number, reason, detail string) error
	ApproveCancellation(ctx context.Context, number string) error
	ConfirmDelivery(ctx context.Context, userID int64, number string) error
}

// PaymentFacade settles payment redirects and webhook notifications.
type PaymentFacade interface {
	ReconcileReturn(ctx context.Context, userID int64, number string, redirect model.RedirectStatus) (reconcile.Outcome, error)
	ResolvePayment(ctx context.Context, number string, status model.PaymentStatus) error
}

// CheckoutFacade aggregates the full set of operations used across handlers.
type CheckoutFacade interface {
	AuthFacade
	CartFacade
	OrderFacade
	PaymentFacade
}
