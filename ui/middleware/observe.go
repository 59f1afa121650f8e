package middleware

import (
	"time"

	"gotitanic/internal"
	"gotitanic/internal/metrics"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request at debug level and failed
// requests at warn level
func RequestLogger(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if status >= 500 {
			logger.Warn("%s %s -> %d in %s: %v", c.Request.Method, c.Request.URL.Path, status, time.Since(start), c.Errors.Last())
			return
		}
		logger.Debug("%s %s -> %d in %s", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
	}
}

// RequestMetrics records request counts and latency per route template
func RequestMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
