package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"storefront/internal/auth"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
)

// Dependencies agrupa lo que necesitan los handlers del gateway
type Dependencies struct {
	Products handlers.ProductStore
	Orders   handlers.OrderStore
	Users    handlers.UserStore
	Settings handlers.SettingsStore

	Cache       *handlers.ResponseCache
	Issuer      *auth.TokenIssuer // nil desactiva la protección de administración
	Credentials auth.AdminCredentials
	RateLimiter *middleware.IPRateLimiter
	Ping        handlers.Pinger
	Log         zerolog.Logger
}

func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	products := handlers.NewProductHandler(deps.Products, deps.Cache, deps.Log)
	orders := handlers.NewOrderHandler(deps.Orders, deps.Cache, deps.Log)
	users := handlers.NewUserHandler(deps.Users, deps.Cache, deps.Log)
	settings := handlers.NewSettingsHandler(deps.Settings, deps.Cache, deps.Log)
	admin := handlers.NewAdminHandler(deps.Credentials, deps.Issuer, deps.Log)
	health := handlers.NewHealthHandler(deps.Ping)

	limit := func(c *gin.Context) { c.Next() }
	if deps.RateLimiter != nil {
		limit = deps.RateLimiter.Limit()
	}

	router.GET("/healthz", health.Health)

	api := router.Group("/api")
	api.Use(middleware.AdminSession(deps.Issuer))
	{
		api.GET("/products", products.ListProducts)
		api.POST("/products", products.PostProducts)

		api.GET("/orders", orders.ListOrders)
		api.POST("/orders", orders.PostOrders)

		api.GET("/users", users.ListUsers)
		api.POST("/users", limit, users.PostUsers)

		api.GET("/settings", settings.GetSettings)
		api.POST("/settings", settings.PostSettings)

		api.POST("/admin/session", limit, admin.CreateSession)
	}
}
