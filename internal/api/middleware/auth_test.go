package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

type stubRoleResolver struct {
	role string
	err  error
}

func (r *stubRoleResolver) ResolveRole(context.Context, string) (string, error) {
	return r.role, r.err
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

func invoke(mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/cases", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return rec, c, handler(c)
}

func TestAuth_ValidToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":   "p1",
		"email": "alice@example.com",
		"role":  "user",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	rec, c, err := invoke(Auth(testSecret, nil), "Bearer "+token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if c.Get("user_id") != "p1" {
		t.Fatalf("expected user_id p1, got %v", c.Get("user_id"))
	}
	if c.Get("role") != "user" {
		t.Fatalf("expected role user, got %v", c.Get("role"))
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	_, _, err := invoke(Auth(testSecret, nil), "")
	assertStatus(t, err, http.StatusUnauthorized)
}

func TestAuth_MalformedHeader(t *testing.T) {
	_, _, err := invoke(Auth(testSecret, nil), "Token abc")
	assertStatus(t, err, http.StatusUnauthorized)
}

func TestAuth_WrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", jwt.MapClaims{
		"sub": "p1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	_, _, err := invoke(Auth(testSecret, nil), "Bearer "+token)
	assertStatus(t, err, http.StatusUnauthorized)
}

func TestAuth_ExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "p1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	_, _, err := invoke(Auth(testSecret, nil), "Bearer "+token)
	assertStatus(t, err, http.StatusUnauthorized)
}

func TestAuth_ResolverOverridesTokenRole(t *testing.T) {
	// A stale admin claim in the token must not survive a demotion.
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  "p1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	_, c, err := invoke(Auth(testSecret, &stubRoleResolver{role: "user"}), "Bearer "+token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Get("role") != "user" {
		t.Fatalf("expected resolved role user, got %v", c.Get("role"))
	}
}

func TestAuth_ResolverFailureRejectsRequest(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "p1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	resolver := &stubRoleResolver{err: errors.New("profile store down")}
	_, _, err := invoke(Auth(testSecret, resolver), "Bearer "+token)
	assertStatus(t, err, http.StatusServiceUnavailable)
}

func assertStatus(t *testing.T, err error, want int) {
	t.Helper()
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if httpErr.Code != want {
		t.Fatalf("expected status %d, got %d", want, httpErr.Code)
	}
}
