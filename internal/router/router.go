// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/railway-ticket-reservation/internal/config"
	"github.com/iliyamo/railway-ticket-reservation/internal/handler"
	"github.com/iliyamo/railway-ticket-reservation/internal/middleware"
)

// Deps bundles everything route registration needs.
type Deps struct {
	Trains  *handler.TrainHandler
	Wagons  *handler.WagonHandler
	Quotes  *handler.QuoteHandler
	Tickets *handler.TicketHandler
	Admin   *handler.AdminHandler

	JWTSecret    string
	AdminKeyHash string

	// Redis is optional; when nil the rate limiter and response cache
	// are skipped and requests pass straight through.
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
}

// Register mounts all routes on e.
//
// Three tiers share the /v1 prefix: public browsing endpoints behind
// the response cache and rate limiter, ticket endpoints behind JWT
// auth, and provisioning endpoints behind the admin key.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	public := e.Group("/v1")
	if d.Redis != nil {
		public.Use(middleware.NewTokenBucket(d.RateLimit, d.Redis))
		public.Use(middleware.NewRedisCache(d.Cache, d.Redis))
	}
	public.GET("/trains", d.Trains.List)
	public.GET("/trains/search", d.Trains.Search)
	public.GET("/trains/:id", d.Trains.Get)
	public.GET("/trains/:id/wagons", d.Trains.Wagons)
	public.GET("/trains/:id/wagons/type/:type", d.Trains.WagonsByType)
	public.GET("/wagons/:id/layout", d.Wagons.Layout)
	public.GET("/wagons/:id/available", d.Wagons.Available)
	public.POST("/quote", d.Quotes.Quote)
	public.GET("/discounts", d.Quotes.Discounts)

	tickets := e.Group("/v1/tickets", middleware.JWTAuth(d.JWTSecret))
	tickets.POST("", d.Tickets.Create)
	tickets.GET("", d.Tickets.List)
	tickets.GET("/:id", d.Tickets.Get)
	tickets.GET("/:id/receipt", d.Tickets.Receipt)
	tickets.DELETE("/:id", d.Tickets.Cancel)
	tickets.POST("/:id/pay", d.Tickets.Pay)

	admin := e.Group("/v1/admin", middleware.AdminKey(d.AdminKeyHash))
	admin.POST("/trains", d.Admin.CreateTrain)
	admin.POST("/wagons", d.Admin.CreateWagon)
}
