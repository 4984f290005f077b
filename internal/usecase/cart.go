package usecase

import (
	"context"
	"sync"

	domainErrors "github.com/agrimart/checkout/internal/domain/errors"
	"github.com/agrimart/checkout/internal/domain/model"
	"github.com/agrimart/checkout/internal/domain/repository"
)

// CartQuoter prices a cart snapshot. Satisfied by CheckoutUseCase.
type CartQuoter interface {
	Quote(ctx context.Context, items []model.OrderItem, voucherCode string) (*QuoteResult, error)
}

// CartState is the quoted view returned after every cart mutation.
type CartState struct {
	Items          []model.OrderItem
	VoucherCode    string
	Quote          Quote
	VoucherFailure *domainErrors.VoucherError
}

// CartUseCase is an explicit per-user cart store with a defined mutation
// API. Every mutation funnels through quote recomputation, so callers always
// observe consistent totals.
type CartUseCase struct {
	mu       sync.Mutex
	carts    map[int64]*model.Cart
	quoter   CartQuoter
	products repository.ProductRepository
}

// NewCartUseCase constructs CartUseCase.
func NewCartUseCase(quoter CartQuoter, products repository.ProductRepository) *CartUseCase {
	return &CartUseCase{carts: make(map[int64]*model.Cart), quoter: quoter, products: products}
}

func (u *CartUseCase) snapshot(userID int64) ([]model.OrderItem, string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	cart, ok := u.carts[userID]
	if !ok {
		return nil, ""
	}
	items := make([]model.OrderItem, len(cart.Items))
	copy(items, cart.Items)
	return items, cart.VoucherCode
}

func (u *CartUseCase) state(ctx context.Context, userID int64) (*CartState, error) {
	items, code := u.snapshot(userID)
	st := &CartState{Items: items, VoucherCode: code}
	if len(items) == 0 {
		return st, nil
	}
	quoted, err := u.quoter.Quote(ctx, items, code)
	if err != nil {
		return nil, err
	}
	st.Quote = quoted.Quote
	st.VoucherFailure = quoted.VoucherFailure
	return st, nil
}

// Get returns the current cart with recomputed totals.
func (u *CartUseCase) Get(ctx context.Context, userID int64) (*CartState, error) {
	return u.state(ctx, userID)
}

// AddItem adds a catalog product to the cart, merging quantity into an
// existing line for the same product. Name and unit price are read from the
// catalog, never from the caller.
func (u *CartUseCase) AddItem(ctx context.Context, userID int64, productID string, quantity int) (*CartState, error) {
	if quantity <= 0 || productID == "" {
		return nil, domainErrors.ErrInvalidQuantity
	}

	products, err := u.products.GetByIDs(ctx, []string{productID})
	if err != nil {
		return nil, err
	}
	product, ok := products[productID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	item := model.OrderItem{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  quantity,
	}

	u.mu.Lock()
	cart, ok := u.carts[userID]
	if !ok {
		cart = &model.Cart{}
		u.carts[userID] = cart
	}
	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == item.ProductID {
			cart.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, item)
	}
	u.mu.Unlock()

	return u.state(ctx, userID)
}

// UpdateQuantity sets an existing line's quantity.
func (u *CartUseCase) UpdateQuantity(ctx context.Context, userID int64, productID string, quantity int) (*CartState, error) {
	if quantity <= 0 {
		return nil, domainErrors.ErrInvalidQuantity
	}

	u.mu.Lock()
	cart, ok := u.carts[userID]
	found := false
	if ok {
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				cart.Items[i].Quantity = quantity
				found = true
				break
			}
		}
	}
	u.mu.Unlock()

	if !found {
		return nil, domainErrors.ErrNotFound
	}
	return u.state(ctx, userID)
}

// RemoveItem deletes a line.
func (u *CartUseCase) RemoveItem(ctx context.Context, userID int64, productID string) (*CartState, error) {
	u.mu.Lock()
	cart, ok := u.carts[userID]
	found := false
	if ok {
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
				found = true
				break
			}
		}
	}
	u.mu.Unlock()

	if !found {
		return nil, domainErrors.ErrNotFound
	}
	return u.state(ctx, userID)
}

// Clear empties the cart and drops any applied voucher.
func (u *CartUseCase) Clear(ctx context.Context, userID int64) (*CartState, error) {
	u.mu.Lock()
	delete(u.carts, userID)
	u.mu.Unlock()
	return u.state(ctx, userID)
}

// ApplyVoucher records the (sanitized) code on the cart. The code is kept
// even when resolution fails, so the failure reason stays visible until the
// user removes or replaces it.
func (u *CartUseCase) ApplyVoucher(ctx context.Context, userID int64, code string) (*CartState, error) {
	sanitized := SanitizeVoucherCode(code)

	u.mu.Lock()
	cart, ok := u.carts[userID]
	if !ok {
		cart = &model.Cart{}
		u.carts[userID] = cart
	}
	cart.VoucherCode = sanitized
	u.mu.Unlock()

	return u.state(ctx, userID)
}
