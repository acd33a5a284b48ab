package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"shademy/internal/handler"
	"shademy/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	CheckoutHandler *handler.CheckoutHandler
	WebhookHandler  *handler.WebhookHandler
	InvoiceHandler  *handler.InvoiceHandler
	RedisClient     *redis.Client
	NewRelicApp     *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Checkout routes.
		checkout := v1.Group("/checkout")
		{
			checkout.POST("/redeem", deps.CheckoutHandler.RedeemCode)
			checkout.POST("/bookings", deps.CheckoutHandler.BookSession)
		}

		// Provider webhook.
		v1.POST("/webhooks/stripe", deps.WebhookHandler.HandleStripeEvent)

		// Invoice resolution for the success page.
		v1.POST("/invoices", deps.InvoiceHandler.ResolveInvoice)
	}

	return router
}
