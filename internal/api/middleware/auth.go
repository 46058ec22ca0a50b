package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// RoleResolver returns the current role for a principal id. Resolving on
// every request means a role change takes effect immediately instead of
// at token expiry.
type RoleResolver interface {
	ResolveRole(ctx context.Context, principalID string) (string, error)
}

// Auth validates the session JWT and injects the principal into context.
// Guarded handlers never run before the token checks pass. When resolver is
// non-nil the role is looked up per request and a lookup failure rejects the
// request rather than falling back to the token's role claim.
func Auth(jwtSecret string, resolver RoleResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			role, _ := claims["role"].(string)
			if resolver != nil {
				sub, _ := claims["sub"].(string)
				role, err = resolver.ResolveRole(c.Request().Context(), sub)
				if err != nil {
					return echo.NewHTTPError(http.StatusServiceUnavailable, "role resolution failed")
				}
			}

			c.Set("user_id", claims["sub"])
			c.Set("email", claims["email"])
			c.Set("role", role)

			return next(c)
		}
	}
}
