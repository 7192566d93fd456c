package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// AdminToken gates write endpoints behind the single shared admin secret.
// The same 401 message covers a missing and a wrong token, so a caller
// cannot tell which case it hit. The comparison is constant time.
//
// A server with no token configured refuses every admin request with 500;
// there is no default secret to fall back to.
func AdminToken(adminToken string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if adminToken == "" {
				return echo.NewHTTPError(http.StatusInternalServerError, "server configuration error")
			}

			authHeader := c.Request().Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(adminToken)) != 1 {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			return next(c)
		}
	}
}
