package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taishoku-agency/consultation-system/internal/core/ports"
)

// CallHandler handles call session initiation and the call result log.
type CallHandler struct {
	service ports.CallService
}

func NewCallHandler(service ports.CallService) *CallHandler {
	return &CallHandler{service: service}
}

// Start handles POST /v1/cases/:id/call.
//
// @Summary      Start a call session for a case
// @Tags         calls
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Case id"
// @Success      200  {object}  callSessionResponse
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /v1/cases/{id}/call [post]
func (h *CallHandler) Start(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	session, err := h.service.StartCall(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, callSessionResponse{
		RoomName:    session.RoomName,
		AccessToken: session.AccessToken,
		LiveKitURL:  session.ServerURL,
	})
}

// ListResults handles GET /v1/cases/:id/results.
//
// @Summary      List call results for a case
// @Tags         calls
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Case id"
// @Success      200  {array}   callResultResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/cases/{id}/results [get]
func (h *CallHandler) ListResults(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	results, err := h.service.ListResults(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}

	resp := make([]callResultResponse, 0, len(results))
	for _, r := range results {
		resp = append(resp, toCallResultResponse(r))
	}
	return c.JSON(http.StatusOK, resp)
}

// RecordResult handles POST /v1/cases/:id/results. Admin only.
//
// @Summary      Record a call outcome for a case
// @Tags         calls
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true  "Case id"
// @Param        body  body      recordCallResultRequest  true  "Call outcome"
// @Success      201   {object}  callResultResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/cases/{id}/results [post]
func (h *CallHandler) RecordResult(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req recordCallResultRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	result, err := h.service.RecordResult(c.Request().Context(), p, c.Param("id"), ports.RecordCallResultInput{
		Summary: req.Summary,
		Outcome: req.Outcome,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCallResultResponse(result))
}
