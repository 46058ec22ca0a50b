package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taishoku-agency/consultation-system/internal/core/ports"
)

// StatsHandler serves the admin dashboard statistics.
type StatsHandler struct {
	service ports.StatsService
}

func NewStatsHandler(service ports.StatsService) *StatsHandler {
	return &StatsHandler{service: service}
}

// Cases handles GET /v1/stats/cases. Admin only.
//
// @Summary      Case statistics
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  caseStatisticsResponse
// @Failure      403  {object}  map[string]string
// @Router       /v1/stats/cases [get]
func (h *StatsHandler) Cases(c echo.Context) error {
	stats, err := h.service.CaseStatistics(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, caseStatisticsResponse{
		Total:          stats.Total,
		ThisMonth:      stats.ThisMonth,
		StatusCounts:   stats.StatusCounts,
		CompletionRate: stats.CompletionRate,
	})
}
