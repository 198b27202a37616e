package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"collabriss.backend/pkg/metrics"
)

// MetricsMiddleware records request count and latency per route template.
func MetricsMiddleware(reg *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		reg.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
