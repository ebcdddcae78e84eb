// internal/middleware/maintenance.go
// Maintenance mode middleware

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// MaintenanceMode returns 503 when maintenance mode is enabled.
// Health checks and session exports stay reachable: an organizer mid-
// session must always be able to pull a snapshot of their courts and
// standings, maintenance window or not.
func MaintenanceMode() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/health" || strings.HasSuffix(path, "/export") {
			c.Next()
			return
		}

		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Service temporarily unavailable for maintenance",
			"message": "Court scheduling will be back shortly; running sessions are preserved.",
		})
		c.Abort()
	}
}
