package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a standard API error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}

// RespondError writes an error response
func RespondError(c *gin.Context, statusCode int, errorMsg string) {
	c.JSON(statusCode, ErrorResponse{
		Error: errorMsg,
		Code:  statusCode,
	})
}

// RespondJSON writes a JSON response
func RespondJSON(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, data)
}

// Common error messages
const (
	ErrUnauthorized    = "unauthorized"
	ErrTooManyRequests = "too many requests"
)

// Unauthorized writes the fixed 401 response used by every gated route
func Unauthorized(c *gin.Context) {
	RespondError(c, http.StatusUnauthorized, ErrUnauthorized)
}
