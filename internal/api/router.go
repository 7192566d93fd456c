package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/panelbunker/tracking-api/internal/api/handler"
	"github.com/panelbunker/tracking-api/internal/api/middleware"
	"github.com/panelbunker/tracking-api/internal/core/ports"
)

// RouterOpts carries everything the router needs to wire the HTTP surface.
type RouterOpts struct {
	Trackings  ports.TrackingService
	Status     ports.StatusService
	AdminToken string

	// Limiter throttles the public lookup endpoint; nil disables it.
	Limiter      middleware.Limiter
	LookupLimit  int64
	LookupWindow time.Duration

	// ReadinessPings are the dependency checks for /health/ready.
	ReadinessPings map[string]handler.PingFunc

	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(opts RouterOpts) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("tracking"))

	trackingHandler := handler.NewTrackingHandler(opts.Trackings, opts.Status)
	admin := middleware.AdminToken(opts.AdminToken)

	// --- Public routes ---
	track := e.Group("/api/track")
	if opts.Limiter != nil {
		track.Use(middleware.RateLimit(opts.Limiter, opts.LookupLimit, opts.LookupWindow, opts.Logger))
	}
	track.GET("/:trackingId", trackingHandler.Lookup)

	e.GET("/api/trackings", trackingHandler.List)
	e.GET("/api/trackings/stats", trackingHandler.Stats)
	e.GET("/api/routes/estimate", trackingHandler.EstimateRoute)

	// --- Admin routes (shared-secret gate) ---
	e.POST("/api/trackings", trackingHandler.Create, admin)
	e.PATCH("/api/trackings/:trackingId/status", trackingHandler.UpdateStatus, admin)
	e.POST("/api/trackings/:trackingId/delay", trackingHandler.AddDelay, admin)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(opts.ReadinessPings)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
