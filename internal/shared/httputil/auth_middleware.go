package httputil

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"mesaYaReservas/internal/shared/auth"
)

// ClaimsContextKey is where RequireRoles stores the validated claims.
const ClaimsContextKey = "claims"

var authErrors = NewErrorMapper().
	WithMapping(auth.ErrMissingToken, http.StatusUnauthorized, "missing token").
	WithMapping(auth.ErrInvalidToken, http.StatusUnauthorized, "invalid token").
	WithMapping(auth.ErrForbidden, http.StatusForbidden, "forbidden").
	WithDefault(http.StatusUnauthorized, "unauthorized")

// RequireRoles rejects requests without a valid bearer token carrying one of
// roles. The token may also come from the "token" query parameter.
func RequireRoles(v auth.TokenValidator, roles []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := auth.ExtractToken(c.Request(), "token")
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			}
			claims, err := auth.Authorize(v, token, roles)
			if err != nil {
				info := authErrors.Map(err)
				if !errors.Is(err, auth.ErrForbidden) {
					slog.Debug("admin request rejected", slog.String("path", c.Path()), slog.Any("error", err))
				}
				return echo.NewHTTPError(info.Status, info.Message)
			}
			c.Set(ClaimsContextKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims stored by RequireRoles.
func ClaimsFrom(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(ClaimsContextKey).(*auth.Claims)
	return claims, ok
}
