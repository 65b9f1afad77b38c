package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"rental-backend/internal/dto"
	"rental-backend/internal/middleware"
	"rental-backend/internal/models"
	"rental-backend/internal/repository"
	"rental-backend/internal/service"
)

type PropertyHandler struct {
	svc service.PropertyService
}

func NewPropertyHandler(svc service.PropertyService) *PropertyHandler {
	return &PropertyHandler{svc: svc}
}

// RegisterRoutes splits property endpoints between a public group (browse)
// and an authenticated one (manage).
func (h *PropertyHandler) RegisterRoutes(public, authed *echo.Group) {
	public.GET("", h.ListProperties)
	public.GET("/:id", h.GetProperty)

	authed.GET("/mine", h.ListOwnProperties)
	authed.POST("", h.CreateProperty)
	authed.PUT("/:id", h.UpdateProperty)
	authed.DELETE("/:id", h.DeleteProperty)
}

func (h *PropertyHandler) ListProperties(c echo.Context) error {
	filter := repository.PropertyFilter{
		Type:   models.PropertyType(c.QueryParam("type")),
		Status: models.PropertyStatus(c.QueryParam("status")),
	}
	if filter.Type != "" && !models.ValidPropertyType(filter.Type) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid property type")
	}
	if filter.Status != "" && !models.ValidPropertyStatus(filter.Status) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid property status")
	}

	var err error
	if filter.MinPrice, err = floatParam(c, "min_price"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid min_price")
	}
	if filter.MaxPrice, err = floatParam(c, "max_price"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid max_price")
	}
	if filter.MinBedrooms, err = intParam(c, "bedrooms"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid bedrooms")
	}
	if filter.MinBathrooms, err = intParam(c, "bathrooms"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid bathrooms")
	}

	properties, err := h.svc.ListProperties(c.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, toPropertyResponses(properties))
}

func (h *PropertyHandler) GetProperty(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid property id")
	}

	property, err := h.svc.GetProperty(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrPropertyNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToPropertyResponse(property))
}

func (h *PropertyHandler) ListOwnProperties(c echo.Context) error {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	properties, err := h.svc.ListOwnProperties(c.Request().Context(), ident)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, toPropertyResponses(properties))
}

func (h *PropertyHandler) CreateProperty(c echo.Context) error {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.PropertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	property, err := h.svc.CreateProperty(c.Request().Context(), ident, propertyInput(req))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotLandlordRole):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrInvalidProperty):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToPropertyResponse(property))
}

func (h *PropertyHandler) UpdateProperty(c echo.Context) error {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid property id")
	}

	var req dto.PropertyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	property, err := h.svc.UpdateProperty(c.Request().Context(), ident, uint(id), propertyInput(req))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPropertyNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotPropertyOwner):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrInvalidProperty):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.ToPropertyResponse(property))
}

func (h *PropertyHandler) DeleteProperty(c echo.Context) error {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid property id")
	}

	if err := h.svc.DeleteProperty(c.Request().Context(), ident, uint(id)); err != nil {
		switch {
		case errors.Is(err, service.ErrPropertyNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotPropertyOwner):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "property deleted"})
}

func propertyInput(req dto.PropertyRequest) service.PropertyInput {
	return service.PropertyInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Price:       req.Price,
		Location:    req.Location,
		Features:    req.Features,
		Status:      req.Status,
	}
}

func toPropertyResponses(properties []models.Property) []dto.PropertyResponse {
	resp := make([]dto.PropertyResponse, len(properties))
	for i, p := range properties {
		resp[i] = dto.ToPropertyResponse(&p)
	}
	return resp
}

func floatParam(c echo.Context, name string) (*float64, error) {
	s := c.QueryParam(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func intParam(c echo.Context, name string) (*int, error) {
	s := c.QueryParam(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
