package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taishoku-agency/consultation-system/internal/core/ports"
)

// ctxPrincipal extracts the principal injected by the Auth middleware and
// performs a fast-fail check before any service call: both the user id and
// the role must be present (presence proves the middleware ran).
func ctxPrincipal(c echo.Context) (ports.Principal, error) {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if userID == "" || role == "" {
		return ports.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return ports.Principal{UserID: userID, Role: role}, nil
}
