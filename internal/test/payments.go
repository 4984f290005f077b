package test

import (
	"context"

	"github.com/agrimart/checkout/internal/domain/model"
)

// PaymentInitiatorStub simulates gateway payment initiation.
type PaymentInitiatorStub struct {
	InitiateFn func(context.Context, model.PaymentRequest) (*model.PaymentSession, error)
	Requests   []model.PaymentRequest
}

// Initiate records the request and returns the configured session.
func (s *PaymentInitiatorStub) Initiate(ctx context.Context, req model.PaymentRequest) (*model.PaymentSession, error) {
	s.Requests = append(s.Requests, req)
	if s.InitiateFn != nil {
		return s.InitiateFn(ctx, req)
	}
	return &model.PaymentSession{CheckoutURL: "https://pay.example/" + req.OrderNumber}, nil
}

// PaymentStatusStub simulates gateway status reads.
type PaymentStatusStub struct {
	StatusFn func(context.Context, string) (model.PaymentStatus, error)
	Queried  []string
}

// Status records the query and returns the configured status.
func (s *PaymentStatusStub) Status(ctx context.Context, number string) (model.PaymentStatus, error) {
	s.Queried = append(s.Queried, number)
	if s.StatusFn != nil {
		return s.StatusFn(ctx, number)
	}
	return model.PaymentStatusPending, nil
}
