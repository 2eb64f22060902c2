package server

import (
	"time"

	"gymdesk/internal/logger"

	"github.com/gin-gonic/gin"
)

// RequestLoggingMiddleware logs each request with latency and client info.
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		logger.Infof("%s %s status=%d latency_ms=%d client_ip=%s",
			c.Request.Method, path, status, latency.Milliseconds(), c.ClientIP())
	}
}
