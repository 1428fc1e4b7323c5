package respond

import (
	"github.com/gin-gonic/gin"

	"resume-ats/internal/shared/telemetry"
)

// ErrorResponse is the error body returned by every endpoint.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Error logs the failure and aborts with a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	telemetry.Error("http.error", map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	})

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}
