package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// JSend status values.
const (
	statusSuccess = "success"
	statusFail    = "fail"
	statusError   = "error"
)

type envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

func respond(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, envelope{Status: statusSuccess, Data: data})
}

func respondFail(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, envelope{Status: statusFail, Message: message, Data: data})
}

// respondInvalid reports per-field input problems as a 400 fail envelope.
func respondInvalid(c echo.Context, fieldErrors map[string]string) error {
	return respondFail(c, http.StatusBadRequest, "Validation failed", map[string]any{
		"validation_errors": fieldErrors,
	})
}

func respondInvalidField(c echo.Context, field, message string) error {
	return respondInvalid(c, map[string]string{field: message})
}

func respondError(c echo.Context, code int, message string) error {
	return c.JSON(code, envelope{Status: statusError, Message: message, Code: code})
}
