package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/agrimart/checkout/internal/config"
	"github.com/agrimart/checkout/internal/server/http/handlers"
	"github.com/agrimart/checkout/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.CheckoutFacade, cfg *config.Config, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	cartHandler := handlers.NewCartHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade, facade)
	paymentHandler := handlers.NewPaymentHandler(facade)

	api := engine.Group("/api")
	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	userAuth := user.Group("")
	userAuth.Use(middleware.AuthRequired(facade))
	userAuth.GET("/cart", cartHandler.Get)
	userAuth.DELETE("/cart", cartHandler.Clear)
	userAuth.POST("/cart/items", cartHandler.AddItem)
	userAuth.PATCH("/cart/items/:id", cartHandler.UpdateItem)
	userAuth.DELETE("/cart/items/:id", cartHandler.RemoveItem)
	userAuth.POST("/cart/voucher", cartHandler.ApplyVoucher)
	userAuth.POST("/orders", orderHandler.Submit)
	userAuth.GET("/orders", orderHandler.List)
	userAuth.GET("/orders/:number", orderHandler.Get)
	userAuth.POST("/orders/:number/cancel", orderHandler.Cancel)
	userAuth.POST("/orders/:number/received", orderHandler.ConfirmDelivery)
	userAuth.GET("/payment/return", paymentHandler.Return)

	internal := api.Group("")
	internal.Use(middleware.InternalAuth(cfg.InternalToken))
	internal.POST("/payment/webhook", paymentHandler.Webhook)
	internal.POST("/internal/orders/:number/cancel/approve", orderHandler.ApproveCancellation)

	return engine
}
