package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func invokeRBAC(role string, allowed ...string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/v1/cases/c1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	handler := RBAC(allowed...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	_ = handler(c)
	return rec
}

func TestRBAC_AllowsMatchingRole(t *testing.T) {
	rec := invokeRBAC("admin", "admin")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_ForbidsOtherRoles(t *testing.T) {
	rec := invokeRBAC("user", "admin")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRBAC_ForbidsMissingRole(t *testing.T) {
	rec := invokeRBAC("", "admin")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
