// Package router wires HTTP routes to their handlers and middleware.
package router

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/hotel-reservation/internal/config"
    "github.com/iliyamo/hotel-reservation/internal/handler"
    "github.com/iliyamo/hotel-reservation/internal/middleware"
)

// Handlers groups everything RegisterRoutes needs.
type Handlers struct {
    Pricing  *handler.PricingHandler
    Booking  *handler.BookingHandler
    Operator *handler.OperatorHandler
    Webhook  *handler.WebhookHandler
    Sweep    *handler.SweepHandler
}

// RegisterRoutes registers the full route table.
//
// Public routes carry the quote cache and rate limiter.  Guest routes
// require a valid access token with the GUEST or OPERATOR role; the
// operator group requires OPERATOR.  The webhook and sweep endpoints
// authenticate by signature and shared secret respectively, not JWT,
// because their callers are machines, not users.
func RegisterRoutes(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
    e.GET("/healthz", handler.Health)

    limiter := middleware.RateLimit(config.LoadRateLimitConfig(), rdb)
    cache := middleware.QuoteCache(config.LoadCacheConfig(), rdb)

    // Public pricing surface.
    e.GET("/v1/quotes", h.Pricing.GetQuote, limiter, cache)

    // Guest reservation surface.
    guest := e.Group("/v1")
    guest.Use(middleware.JWTAuth(jwtSecret))
    guest.Use(middleware.RequireRole("GUEST", "OPERATOR"))
    guest.POST("/bookings", h.Booking.CreateBooking, limiter)
    guest.GET("/bookings/:code", h.Booking.GetBooking)
    guest.DELETE("/bookings/:code", h.Booking.CancelBooking)

    // Operator surface.
    op := e.Group("/v1/operator")
    op.Use(middleware.JWTAuth(jwtSecret))
    op.Use(middleware.RequireRole("OPERATOR"))
    op.POST("/bookings/:code/check-in", h.Operator.CheckIn)
    op.POST("/bookings/:code/check-out", h.Operator.CheckOut)
    op.POST("/rate-plans/bulk", h.Operator.BulkUpdateRates)

    // Machine-to-machine surfaces.
    e.POST("/v1/webhooks/payment", h.Webhook.HandlePaymentEvent)
    e.POST("/v1/internal/sweep", h.Sweep.Run)
}
