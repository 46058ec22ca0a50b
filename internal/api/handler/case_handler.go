package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taishoku-agency/consultation-system/internal/core/ports"
)

// CaseHandler handles HTTP requests for case operations.
type CaseHandler struct {
	service ports.CaseService
}

func NewCaseHandler(service ports.CaseService) *CaseHandler {
	return &CaseHandler{service: service}
}

// List handles GET /v1/cases.
//
// @Summary      List visible cases
// @Tags         cases
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by case status"
// @Param        page    query     int     false  "Page number (1-based)"
// @Param        limit   query     int     false  "Rows per page (max 100)"
// @Success      200     {object}  listCasesResponse
// @Failure      401     {object}  map[string]string
// @Router       /v1/cases [get]
func (h *CaseHandler) List(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var input ports.ListCasesInput
	input.Status = c.QueryParam("status")
	if err := echo.QueryParamsBinder(c).
		Int("page", &input.Page).
		Int("limit", &input.Limit).
		BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}

	result, err := h.service.List(c.Request().Context(), p, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result))
}

// Get handles GET /v1/cases/:id.
//
// @Summary      Get a case by id
// @Tags         cases
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Case id"
// @Success      200  {object}  caseResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/cases/{id} [get]
func (h *CaseHandler) Get(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	detail, err := h.service.Get(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCaseResponse(*detail))
}

// Create handles POST /v1/cases.
//
// @Summary      Create a new case
// @Tags         cases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCaseRequest  true  "Case details"
// @Success      201   {object}  caseResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/cases [post]
func (h *CaseHandler) Create(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req createCaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	detail, err := h.service.Create(c.Request().Context(), p, toCreateInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCaseResponse(*detail))
}

// Update handles PATCH /v1/cases/:id.
//
// @Summary      Update a case
// @Tags         cases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Case id"
// @Param        body  body      updateCaseRequest  true  "Fields to change"
// @Success      200   {object}  caseResponse
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/cases/{id} [patch]
func (h *CaseHandler) Update(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req updateCaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	detail, err := h.service.Update(c.Request().Context(), p, c.Param("id"), toUpdateInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCaseResponse(*detail))
}

// Delete handles DELETE /v1/cases/:id. Admin only.
//
// @Summary      Delete a case permanently
// @Tags         cases
// @Security     BearerAuth
// @Param        id  path  string  true  "Case id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/cases/{id} [delete]
func (h *CaseHandler) Delete(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
