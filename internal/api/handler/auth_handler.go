package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taishoku-agency/consultation-system/internal/core/domain"
	"github.com/taishoku-agency/consultation-system/internal/core/ports"
)

// AuthHandler handles signup, login and profile endpoints.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signupRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	Password    string `json:"password"     validate:"required,min=8"`
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Phone       *string `json:"phone"`
}

type authResponse struct {
	Token   string          `json:"token,omitempty"`
	Profile *domain.Profile `json:"profile,omitempty"`
}

// Signup creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Signup details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, profile, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{Token: token, Profile: profile})
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, profile, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Token: token, Profile: profile})
}

// Me returns the caller's own profile.
//
// @Summary      Get own profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Profile
// @Failure      404  {object}  map[string]string
// @Router       /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	profile, err := h.authService.GetProfile(c.Request().Context(), p.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateMe updates the caller's own profile.
//
// @Summary      Update own profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.Profile
// @Failure      404   {object}  map[string]string
// @Router       /me [patch]
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	profile, err := h.authService.UpdateProfile(c.Request().Context(), p.UserID, ports.UpdateProfileInput{
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// ListProfiles returns all profiles. Admin only.
//
// @Summary      List all profiles
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Profile
// @Failure      403  {object}  map[string]string
// @Router       /v1/profiles [get]
func (h *AuthHandler) ListProfiles(c echo.Context) error {
	profiles, err := h.authService.ListProfiles(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profiles)
}
