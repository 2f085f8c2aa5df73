package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"tripbook/internal/handler"
	"tripbook/internal/middleware"
	"tripbook/internal/service"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	AuthHandler    *handler.AuthHandler
	AccountHandler *handler.AccountHandler
	RouteHandler   *handler.RouteHandler
	TripHandler    *handler.TripHandler
	AuthService    *service.AuthService
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
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

	authorized := middleware.AuthMiddleware(deps.AuthService)

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Session routes.
		auth := v1.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
			auth.POST("/login", deps.AuthHandler.Login)
			auth.POST("/logout", deps.AuthHandler.Logout)
		}

		// Account routes (always the caller's own account).
		accounts := v1.Group("/accounts", authorized)
		{
			accounts.GET("/me", deps.AccountHandler.GetMe)
			accounts.POST("/me/topup", deps.AccountHandler.TopUp)
		}

		// Quote and route routes.
		v1.POST("/quotes", deps.RouteHandler.Quote)
		routes := v1.Group("/routes")
		{
			routes.POST("", deps.RouteHandler.CreateRoute)
			routes.GET("", deps.RouteHandler.GetAll)
			routes.GET("/:id", deps.RouteHandler.GetRoute)
		}

		// Trip routes. Creation and owner cancellation require a session;
		// the operator-side transition and the read endpoints do not.
		trips := v1.Group("/trips")
		{
			trips.POST("", authorized, deps.TripHandler.Create)
			trips.GET("", deps.TripHandler.GetAll)
			trips.GET("/:id", deps.TripHandler.GetTrip)
			trips.POST("/:id/status", deps.TripHandler.UpdateStatus)
			trips.POST("/:id/cancel", authorized, deps.TripHandler.Cancel)
		}
	}

	return router
}
