package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"paygate/internal/handler"
	"paygate/internal/middleware"
	internalRedis "paygate/internal/redis"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	CustomerHandler      *handler.CustomerHandler
	PaymentStatusHandler *handler.PaymentStatusHandler
	PaymentHandler       *handler.PaymentHandler
	RedisClient          *redis.Client
	NewRelicApp          *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(internalRedis.NewIdempotencyStore(deps.RedisClient)))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		customers := v1.Group("/customers")
		{
			customers.POST("", deps.CustomerHandler.Create)
			customers.GET("", deps.CustomerHandler.List)
			customers.GET("/:id", deps.CustomerHandler.Get)
			customers.PATCH("/:id", deps.CustomerHandler.Update)
			customers.DELETE("/:id", deps.CustomerHandler.Delete)
		}

		statuses := v1.Group("/payment-statuses")
		{
			statuses.POST("", deps.PaymentStatusHandler.Create)
			statuses.GET("", deps.PaymentStatusHandler.List)
			statuses.GET("/:id", deps.PaymentStatusHandler.Get)
			statuses.PATCH("/:id", deps.PaymentStatusHandler.Update)
			statuses.DELETE("/:id", deps.PaymentStatusHandler.Delete)
		}

		payments := v1.Group("/payments")
		{
			payments.POST("", deps.PaymentHandler.Create)
			payments.GET("", deps.PaymentHandler.List)
			payments.GET("/:id", deps.PaymentHandler.Get)
			payments.POST("/:id/process", deps.PaymentHandler.Process)
			payments.POST("/:id/refund", deps.PaymentHandler.Refund)
			payments.GET("/:id/transactions", deps.PaymentHandler.Transactions)
		}
	}

	return router
}
