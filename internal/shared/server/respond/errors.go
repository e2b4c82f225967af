package respond

import (
	"github.com/gin-gonic/gin"

	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/telemetry"
)

// ErrorBody is the wire shape for every error response. The frontend and the
// ledger backend both expect a bare detail string.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// Error logs and sends a standardized error response.
func Error(c *gin.Context, status int, code, detail string) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"detail":     detail,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorBody{Detail: detail})
}
