package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"delivery/internal/handler"
	"delivery/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	RestaurantHandler *handler.RestaurantHandler
	DriverHandler     *handler.DriverHandler
	OrderHandler      *handler.OrderHandler
	AdminHandler      *handler.AdminHandler
	RedisClient       redis.Cmdable // nil disables idempotency replay
	NewRelicApp       *newrelic.Application
	JWTSecret         string
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	if deps.RedisClient != nil {
		router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		restaurants := v1.Group("/restaurants")
		{
			restaurants.POST("", deps.RestaurantHandler.Register)
			restaurants.PUT("/:id/location", deps.RestaurantHandler.UpdateLocation)
		}

		drivers := v1.Group("/drivers")
		{
			drivers.POST("/register", deps.DriverHandler.Register)
			drivers.POST("/:id/location", deps.DriverHandler.UpdateLocation)
			drivers.POST("/:id/availability", deps.DriverHandler.SetAvailability)
		}

		orders := v1.Group("/orders")
		{
			orders.POST("", deps.OrderHandler.CreateOrder)
			orders.GET("/:id", deps.OrderHandler.GetOrder)
			orders.POST("/:id/confirm", deps.OrderHandler.ConfirmOrder)
		}

		admin := v1.Group("/admin", middleware.AdminAuth(deps.JWTSecret))
		{
			admin.POST("/orders/:id/assign", deps.AdminHandler.TriggerAssignment)
			admin.POST("/orders/:id/assign-driver", deps.AdminHandler.AssignDriver)
			admin.GET("/settings", deps.AdminHandler.GetSettings)
			admin.PUT("/settings/:key", deps.AdminHandler.UpdateSetting)
		}
	}

	return router
}
