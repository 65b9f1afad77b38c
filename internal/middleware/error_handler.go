package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"rental-backend/internal/dto"
)

// ErrorHandler renders every error that reaches echo as the API's JSON
// error envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := err.Error()

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}

	_ = c.JSON(code, dto.ErrorResponse{Message: msg})
}
