package usecase

import (
	"go.uber.org/fx"

	"github.com/agrimart/checkout/internal/config"
	"github.com/agrimart/checkout/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	NewVoucherResolver,
	NewOfferEngine,
	NewStockValidator,
	newCheckoutUseCase,
	func(checkout *CheckoutUseCase, products repository.ProductRepository) *CartUseCase {
		return NewCartUseCase(checkout, products)
	},
)

type checkoutParams struct {
	fx.In

	Resolver *VoucherResolver
	Offers   *OfferEngine
	Stock    *StockValidator
	Orders   repository.OrderRepository
	Settings repository.SettingRepository
	Payments PaymentInitiator
	Config   *config.Config
}

func newCheckoutUseCase(p checkoutParams) *CheckoutUseCase {
	return NewCheckoutUseCase(p.Resolver, p.Offers, p.Stock, p.Orders, p.Settings, p.Payments, CheckoutConfig{
		DefaultShippingFee: p.Config.DefaultShippingFee,
		PaymentReturnURL:   p.Config.PaymentReturnURL,
	})
}
