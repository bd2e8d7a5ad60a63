package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/devbada/hogumeter-sub001/internal/handler"
	"github.com/devbada/hogumeter-sub001/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	MeterHandler  *handler.MeterHandler
	TripHandler   *handler.TripHandler
	TariffHandler *handler.TariffHandler
	RedisClient   *redis.Client
	NewRelicApp   *newrelic.Application
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
		// Live meter routes.
		meters := v1.Group("/meter/:device_id")
		{
			meters.POST("/start", deps.MeterHandler.StartTrip)
			meters.POST("/fixes", deps.MeterHandler.IngestFix)
			meters.POST("/stop", deps.MeterHandler.StopTrip)
			meters.POST("/reset", deps.MeterHandler.ResetTrip)
			meters.POST("/prompt", deps.MeterHandler.ResolvePrompt)
			meters.GET("/live", deps.MeterHandler.Live)
		}

		// Trip history routes.
		trips := v1.Group("/trips")
		{
			trips.GET("", deps.TripHandler.List)
			trips.GET("/:id", deps.TripHandler.Get)
			trips.DELETE("/:id", deps.TripHandler.Delete)
		}

		// Tariff schedule routes.
		tariffs := v1.Group("/tariffs")
		{
			tariffs.GET("", deps.TariffHandler.List)
			tariffs.GET("/:code", deps.TariffHandler.Get)
			tariffs.PUT("/:code", deps.TariffHandler.Upsert)
			tariffs.PUT("/:code/legacy", deps.TariffHandler.UpsertLegacy)
			tariffs.DELETE("/:code", deps.TariffHandler.Delete)
		}
	}

	return router
}
