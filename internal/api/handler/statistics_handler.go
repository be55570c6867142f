package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ansi-niger/decree-portal/internal/core/ports"
)

type StatisticsHandler struct {
	service ports.StatisticsService
}

func NewStatisticsHandler(service ports.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{service: service}
}

// Overview handles GET /api/statistiques.
//
// @Summary      Dashboard statistics
// @Tags         statistiques
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.StatisticsOverview
// @Router       /api/statistiques [get]
func (h *StatisticsHandler) Overview(c echo.Context) error {
	o, err := h.service.Overview(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, o)
}
