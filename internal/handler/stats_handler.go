package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"rental-backend/internal/middleware"
	"rental-backend/internal/service"
)

type StatsHandler struct {
	svc service.StatsService
}

func NewStatsHandler(svc service.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetStats)
}

func (h *StatsHandler) GetStats(c echo.Context) error {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	stats, err := h.svc.GetStats(c.Request().Context(), ident)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, stats)
}
