package di

import (
	"go.uber.org/fx"

	"github.com/agrimart/checkout/internal/adapter/gateway"
	"github.com/agrimart/checkout/internal/app"
	"github.com/agrimart/checkout/internal/config"
	"github.com/agrimart/checkout/internal/logger"
	"github.com/agrimart/checkout/internal/pkg/auth"
	"github.com/agrimart/checkout/internal/reconcile"
	"github.com/agrimart/checkout/internal/server/http/handlers"
	"github.com/agrimart/checkout/internal/server/http/router"
	"github.com/agrimart/checkout/internal/storage/postgres"
	"github.com/agrimart/checkout/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		gateway.Module,
		fx.Provide(func(client gateway.Client) usecase.PaymentInitiator { return client }),
		fx.Provide(func(client gateway.Client) app.PaymentStatusProvider { return client }),
		usecase.Module,
		reconcile.Module,
		fx.Provide(func(facade *app.CheckoutFacade) handlers.CheckoutFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
