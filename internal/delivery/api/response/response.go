package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SuccessResponse wraps the sanitized member returned by register and login.
type SuccessResponse struct {
	Success bool `json:"success"`
	User    any  `json:"user"`
}

// ErrorResponse carries either a message string or the list of field violations.
type ErrorResponse struct {
	Error any `json:"error"`
}

// Success returns a 200 response with the member record
func Success(c echo.Context, user any) error {
	return c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		User:    user,
	})
}

// List returns a bare JSON array
func List(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, data)
}

// Error returns an error response. payload is a message string or a violation list.
func Error(c echo.Context, statusCode int, payload any) error {
	return c.JSON(statusCode, ErrorResponse{Error: payload})
}

// InternalServerError returns the generic 500 body
func InternalServerError(c echo.Context) error {
	return Error(c, http.StatusInternalServerError, "Internal server error")
}
