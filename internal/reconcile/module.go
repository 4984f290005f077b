package reconcile

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/agrimart/checkout/internal/config"
	"github.com/agrimart/checkout/internal/domain/repository"
)

// Module wires the reconciliation poller into the fx graph.
var Module = fx.Provide(newPoller)

type pollerParams struct {
	fx.In

	Orders repository.OrderRepository
	Config *config.Config
	Logger *slog.Logger
}

func newPoller(p pollerParams) *Poller {
	return NewPoller(p.Orders, p.Config.ReconcileMaxAttempts, p.Config.ReconcileDelayUnit, p.Logger)
}
