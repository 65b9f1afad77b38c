package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"rental-backend/internal/dto"
	"rental-backend/internal/middleware"
	"rental-backend/internal/service"
)

type FavoriteHandler struct {
	svc service.FavoriteService
}

func NewFavoriteHandler(svc service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{svc: svc}
}

func (h *FavoriteHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListFavorites)
	g.POST("", h.ToggleFavorite)
}

func (h *FavoriteHandler) ToggleFavorite(c echo.Context) error {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.FavoriteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.PropertyID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "property_id is required")
	}

	isFavorite, err := h.svc.ToggleFavorite(c.Request().Context(), ident, req.PropertyID)
	if err != nil {
		if errors.Is(err, service.ErrPropertyNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.FavoriteResponse{IsFavorite: isFavorite})
}

func (h *FavoriteHandler) ListFavorites(c echo.Context) error {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	properties, err := h.svc.ListFavorites(c.Request().Context(), ident)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, toPropertyResponses(properties))
}
