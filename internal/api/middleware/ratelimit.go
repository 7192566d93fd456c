package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Limiter is the interface the middleware uses to count requests.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimit throttles requests per client IP. The limiter backend failing
// is not a reason to take the tracking page down, so errors fail open.
func RateLimit(limiter Limiter, limit int64, window time.Duration, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			allowed, count, err := limiter.Allow(c.Request().Context(), c.RealIP(), limit, window)
			if err != nil {
				log.Warn().Err(err).Str("ip", c.RealIP()).Msg("rate limit check failed, allowing request")
				return next(c)
			}
			if !allowed {
				log.Debug().Str("ip", c.RealIP()).Int64("count", count).Msg("rate limit exceeded")
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}
