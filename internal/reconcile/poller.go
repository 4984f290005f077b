package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agrimart/checkout/internal/domain/model"
)

// Outcome is the terminal UI state of a reconciliation run. Outcomes map
// 1:1 to order status; OutcomePending means finality is deferred to the
// next status check, never guessed as success.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeFailed    Outcome = "failed"
	OutcomePending   Outcome = "pending"
	OutcomeCancelled Outcome = "cancelled"
)

// OrderStatusStore is the slice of order persistence the poller needs: the
// authoritative read and the guarded compare-and-swap write.
type OrderStatusStore interface {
	GetByNumber(ctx context.Context, number string) (*model.Order, error)
	UpdateStatusIf(ctx context.Context, number string, from, to model.OrderStatus) (bool, error)
}

// Poller converges the client's redirect-observed view of a payment with
// the store's authoritative status. It races the gateway webhook; the only
// synchronization between the two writers is the conditional update.
type Poller struct {
	store       OrderStatusStore
	maxAttempts int
	delayUnit   time.Duration
	logger      *slog.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewPoller constructs a Poller with bounded retries.
func NewPoller(store OrderStatusStore, maxAttempts int, delayUnit time.Duration, logger *slog.Logger) *Poller {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Poller{
		store:       store,
		maxAttempts: maxAttempts,
		delayUnit:   delayUnit,
		logger:      logger,
		sleep:       sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// outcomeFor maps a settled order status to its UI outcome.
func outcomeFor(status model.OrderStatus) Outcome {
	switch status {
	case model.OrderStatusPaymentFailed:
		return OutcomeFailed
	case model.OrderStatusCancelled, model.OrderStatusPendingCancellation:
		return OutcomeCancelled
	case model.OrderStatusPendingPayment:
		return OutcomePending
	default:
		// paid, to_pay and every fulfillment state downstream of them.
		return OutcomeSuccess
	}
}

// Reconcile runs when the user returns from the external payment page
// carrying a redirect status. The store is the source of truth: an already
// resolved status is trusted immediately. A success redirect triggers
// bounded re-reads with increasing delay (attempt x unit), then exactly one
// guarded optimistic update; if that update affects no row a concurrent
// webhook won the race and the result is reported as pending, never as a
// false success.
func (p *Poller) Reconcile(ctx context.Context, number string, redirect model.RedirectStatus) (Outcome, error) {
	order, err := p.store.GetByNumber(ctx, number)
	if err != nil {
		return "", fmt.Errorf("read order: %w", err)
	}
	if order.Status.Resolved() {
		return outcomeFor(order.Status), nil
	}

	switch redirect {
	case model.RedirectFailed, model.RedirectCancelled:
		moved, err := p.store.UpdateStatusIf(ctx, number, model.OrderStatusPendingPayment, model.OrderStatusPaymentFailed)
		if err != nil {
			return "", fmt.Errorf("mark payment failed: %w", err)
		}
		if moved {
			if redirect == model.RedirectCancelled {
				return OutcomeCancelled, nil
			}
			return OutcomeFailed, nil
		}
		// A webhook resolved the order first; trust its write.
		order, err = p.store.GetByNumber(ctx, number)
		if err != nil {
			return "", fmt.Errorf("re-read order: %w", err)
		}
		return outcomeFor(order.Status), nil

	case model.RedirectSuccess:
		for attempt := 0; attempt < p.maxAttempts; attempt++ {
			if err := p.sleep(ctx, time.Duration(attempt)*p.delayUnit); err != nil {
				return "", err
			}
			order, err = p.store.GetByNumber(ctx, number)
			if err != nil {
				return "", fmt.Errorf("re-read order: %w", err)
			}
			if order.Status.Resolved() {
				return outcomeFor(order.Status), nil
			}
		}

		moved, err := p.store.UpdateStatusIf(ctx, number, model.OrderStatusPendingPayment, model.OrderStatusPaid)
		if err != nil {
			return "", fmt.Errorf("optimistic update: %w", err)
		}
		if moved {
			p.logger.Info("payment confirmed optimistically after retries exhausted", slog.String("order", number))
			return OutcomeSuccess, nil
		}
		// Lost the race against another writer. Surface "processing"
		// and let the next status check settle it.
		p.logger.Warn("optimistic update rejected, leaving order pending", slog.String("order", number))
		return OutcomePending, nil

	default:
		return OutcomePending, nil
	}
}
