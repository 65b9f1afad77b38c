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

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateBooking)
	g.GET("", h.ListBookings)
	g.GET("/:id", h.GetBooking)
	g.PUT("/:id", h.TransitionBooking)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.PropertyID == 0 || req.StartDate == "" || req.EndDate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "property_id, start_date, and end_date are required")
	}

	start, end, err := req.Dates()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.svc.CreateBooking(c.Request().Context(), ident, service.CreateBookingInput{
		PropertyID: req.PropertyID,
		StartDate:  start,
		EndDate:    end,
		Message:    req.Message,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPropertyNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrOwnProperty):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrPropertyUnavailable),
			errors.Is(err, service.ErrInvalidDateRange),
			errors.Is(err, service.ErrMessageTooLong):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrDatesConflict):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) TransitionBooking(c echo.Context) error {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	var req dto.TransitionBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	action, err := models.ParseBookingAction(req.Action)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid action")
	}

	booking, err := h.svc.TransitionBooking(c.Request().Context(), ident, uint(bookingID), action)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookingNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotTenant), errors.Is(err, service.ErrNotLandlord):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrInvalidTransition):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	booking, err := h.svc.GetBooking(c.Request().Context(), ident, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookingNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrBookingHidden):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var role repository.BookingRole
	switch c.QueryParam("type") {
	case "tenant":
		role = repository.RoleTenant
	case "landlord":
		role = repository.RoleLandlord
	case "":
		role = repository.RoleAny
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "type must be tenant or landlord")
	}

	bookings, err := h.svc.ListBookings(c.Request().Context(), ident, role)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = dto.ToBookingResponse(&b)
	}

	return c.JSON(http.StatusOK, resp)
}
