package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"rental-backend/internal/dto"
	"rental-backend/internal/middleware"
	"rental-backend/internal/service"
)

type MessageHandler struct {
	svc service.MessageService
}

func NewMessageHandler(svc service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// RegisterRoutes attaches the message thread endpoints under a property group.
func (h *MessageHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:id/messages", h.ListMessages)
	g.POST("/:id/messages", h.PostMessage)
	g.POST("/:id/messages/read", h.MarkRead)
}

func (h *MessageHandler) ListMessages(c echo.Context) error {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	propertyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid property id")
	}

	messages, err := h.svc.ListMessages(c.Request().Context(), ident, uint(propertyID))
	if err != nil {
		if errors.Is(err, service.ErrPropertyNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.MessageResponse, len(messages))
	for i, m := range messages {
		resp[i] = dto.ToMessageResponse(&m)
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *MessageHandler) PostMessage(c echo.Context) error {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	propertyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid property id")
	}

	var req dto.PostMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	message, err := h.svc.PostMessage(c.Request().Context(), ident, uint(propertyID), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPropertyNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrEmptyMessage):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToMessageResponse(message))
}

func (h *MessageHandler) MarkRead(c echo.Context) error {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	propertyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid property id")
	}

	if err := h.svc.MarkMessagesRead(c.Request().Context(), ident, uint(propertyID)); err != nil {
		if errors.Is(err, service.ErrPropertyNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "messages marked as read"})
}
