package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/agrimart/checkout/internal/adapter/gateway"
	"github.com/agrimart/checkout/internal/domain/model"
)

// PaymentsFacade exposes the subset of application functionality required by the sweeper.
type PaymentsFacade interface {
	StalePayments(ctx context.Context, limit int) ([]model.Order, error)
	PaymentStatus(ctx context.Context, number string) (model.PaymentStatus, error)
	ResolvePayment(ctx context.Context, number string, status model.PaymentStatus) error
}

// Sweeper is the pull recovery path for payments whose webhook never arrived
// and whose user never returned: it periodically re-checks stale
// pending_payment orders against the gateway and resolves them through the
// same guarded transition the webhook uses.
type Sweeper struct {
	facade        PaymentsFacade
	sweepInterval time.Duration
	batchSize     int
	workers       int
	logger        *slog.Logger

	jobs   chan model.Order
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewSweeper constructs the stale payment sweeper worker pool.
func NewSweeper(facade PaymentsFacade, sweepInterval time.Duration, batchSize, workers int, logger *slog.Logger) *Sweeper {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Sweeper{
		facade:        facade,
		sweepInterval: sweepInterval,
		batchSize:     batchSize,
		workers:       workers,
		logger:        logger,
		jobs:          make(chan model.Order, batchSize*workers),
	}
}

// Start launches background sweeping.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(runCtx)
	}

	s.wg.Add(1)
	go s.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Sweeper) dispatch(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.jobs)
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.fetchAndDispatch(ctx)
		}
	}
}

func (s *Sweeper) fetchAndDispatch(ctx context.Context) {
	orders, err := s.facade.StalePayments(ctx, s.batchSize)
	if err != nil {
		s.logger.Error("fetch stale payments failed", slog.String("error", err.Error()))
		return
	}
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case s.jobs <- order:
		}
	}
}

func (s *Sweeper) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case order, ok := <-s.jobs:
			if !ok {
				return
			}
			s.handleOrder(ctx, order)
		}
	}
}

func (s *Sweeper) handleOrder(ctx context.Context, order model.Order) {
	status, err := s.facade.PaymentStatus(ctx, order.Number)
	if err != nil {
		switch e := err.(type) {
		case gateway.TooManyRequestsError:
			s.logger.Warn("gateway rate limited", slog.Duration("retry_after", e.RetryAfter))
			time.Sleep(e.RetryAfter)
		default:
			if errors.Is(err, gateway.ErrPaymentUnknown) {
				// The gateway never saw this payment; nothing to resolve.
				return
			}
			s.logger.Error("gateway status fetch failed", slog.String("order", order.Number), slog.String("error", err.Error()))
		}
		return
	}

	if status == model.PaymentStatusPending {
		return
	}

	if err := s.facade.ResolvePayment(ctx, order.Number, status); err != nil {
		s.logger.Error("resolve payment failed", slog.String("order", order.Number), slog.String("error", err.Error()))
		return
	}
	s.logger.Info("stale payment resolved", slog.String("order", order.Number), slog.String("status", string(status)))
}
