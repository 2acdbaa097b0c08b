package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// Logging returns a logging middleware for HTTP requests. WebSocket
// upgrades and stream requests are skipped; they are long-lived and
// would only log on disconnect.
func Logging() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(params gin.LogFormatterParams) string {
		if strings.HasPrefix(params.Path, "/api/ws/") || strings.HasPrefix(params.Path, "/api/stream/") {
			return ""
		}
		return fmt.Sprintf("%s %d %s %s (%s)\n",
			params.TimeStamp.Format("2006/01/02 15:04:05"),
			params.StatusCode,
			params.Method,
			params.Path,
			params.Latency,
		)
	})
}
