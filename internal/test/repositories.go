package test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/agrimart/checkout/internal/domain/errors"
	"github.com/agrimart/checkout/internal/domain/model"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, login, passwordHash string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.Users[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	user := &model.User{ID: s.Next, Login: login, PasswordHash: passwordHash}
	s.Next++
	s.Users[login] = user
	s.ByID[user.ID] = user
	return user, nil
}

// GetByLogin fetches user by login or returns not found.
func (s *UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[login]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// StatusCall records one guarded status transition attempt.
type StatusCall struct {
	Number string
	From   model.OrderStatus
	To     model.OrderStatus
}

// OrderRepositoryStub keeps orders in-memory with overridable behaviour.
type OrderRepositoryStub struct {
	mu     sync.Mutex
	Orders map[string]*model.Order
	NextID int64

	CreateFn        func(context.Context, *model.Order) error
	GetByNumberFn   func(context.Context, string) (*model.Order, error)
	UpdateStatusFn  func(context.Context, string, model.OrderStatus, model.OrderStatus) (bool, error)
	StalePendingFn  func(context.Context, time.Time, int) ([]model.Order, error)
	StatusCalls     []StatusCall
	CancelledReason string
}

// NewOrderRepositoryStub constructs the stub with an empty store.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[string]*model.Order), NextID: 1}
}

// Create stores the order, assigning an identifier.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.Orders[order.Number]; exists {
		return domainErrors.ErrAlreadyExists
	}
	order.ID = s.NextID
	s.NextID++
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	stored := *order
	s.Orders[order.Number] = &stored
	return nil
}

// GetByNumber returns a copy of the stored order.
func (s *OrderRepositoryStub) GetByNumber(ctx context.Context, number string) (*model.Order, error) {
	if s.GetByNumberFn != nil {
		return s.GetByNumberFn(ctx, number)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[number]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

// ListByUser filters stored orders by owner.
func (s *OrderRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, order := range s.Orders {
		if order.UserID == userID {
			result = append(result, *order)
		}
	}
	return result, nil
}

// UpdateStatusIf performs the compare-and-swap against the in-memory store.
func (s *OrderRepositoryStub) UpdateStatusIf(ctx context.Context, number string, from, to model.OrderStatus) (bool, error) {
	s.mu.Lock()
	s.StatusCalls = append(s.StatusCalls, StatusCall{Number: number, From: from, To: to})
	s.mu.Unlock()
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, number, from, to)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[number]
	if !ok || order.Status != from {
		return false, nil
	}
	order.Status = to
	order.UpdatedAt = time.Now()
	return true, nil
}

// RequestCancellation performs the guarded move into pending_cancellation.
func (s *OrderRepositoryStub) RequestCancellation(ctx context.Context, number string, from model.OrderStatus, reason, detail string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[number]
	if !ok || order.Status != from {
		return false, nil
	}
	order.Status = model.OrderStatusPendingCancellation
	order.CancelReason = reason
	order.CancelDetail = detail
	s.CancelledReason = reason
	return true, nil
}

// SelectStalePending filters pending_payment orders older than the cutoff.
func (s *OrderRepositoryStub) SelectStalePending(ctx context.Context, before time.Time, limit int) ([]model.Order, error) {
	if s.StalePendingFn != nil {
		return s.StalePendingFn(ctx, before, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, order := range s.Orders {
		if order.Status == model.OrderStatusPendingPayment && order.UpdatedAt.Before(before) {
			result = append(result, *order)
			if len(result) == limit {
				break
			}
		}
	}
	return result, nil
}

// ProductRepositoryStub serves a fixed catalog.
type ProductRepositoryStub struct {
	Products map[string]model.Product
	Err      error
}

// GetByIDs returns matching catalog entries.
func (s *ProductRepositoryStub) GetByIDs(ctx context.Context, ids []string) (map[string]model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	result := make(map[string]model.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.Products[id]; ok {
			result[id] = p
		}
	}
	return result, nil
}

// VoucherRepositoryStub serves fixed vouchers.
type VoucherRepositoryStub struct {
	Vouchers map[string]*model.Voucher
	Err      error
}

// GetByCode returns a voucher or not found.
func (s *VoucherRepositoryStub) GetByCode(ctx context.Context, code string) (*model.Voucher, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if v, ok := s.Vouchers[code]; ok {
		return v, nil
	}
	return nil, domainErrors.ErrNotFound
}

// CampaignRepositoryStub serves fixed campaigns.
type CampaignRepositoryStub struct {
	Campaigns map[string]*model.Campaign
	Err       error
}

// GetByCode returns a campaign or not found.
func (s *CampaignRepositoryStub) GetByCode(ctx context.Context, code string) (*model.Campaign, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if c, ok := s.Campaigns[code]; ok {
		return c, nil
	}
	return nil, domainErrors.ErrNotFound
}

// OfferRuleRepositoryStub serves fixed offer rules.
type OfferRuleRepositoryStub struct {
	Rules []model.OfferRule
	Err   error
}

// List returns the configured rules.
func (s *OfferRuleRepositoryStub) List(ctx context.Context) ([]model.OfferRule, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Rules, nil
}

// SettingRepositoryStub serves the shipping fee setting.
type SettingRepositoryStub struct {
	Fee *decimal.Decimal
	Err error
}

// ShippingFee returns the stored fee or not found.
func (s *SettingRepositoryStub) ShippingFee(ctx context.Context) (decimal.Decimal, error) {
	if s.Err != nil {
		return decimal.Zero, s.Err
	}
	if s.Fee == nil {
		return decimal.Zero, domainErrors.ErrNotFound
	}
	return *s.Fee, nil
}
