package middleware

import (
	"strconv"
	"time"

	"design-studio/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics считает запросы по шаблону маршрута, чтобы id не раздували метки.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		metrics.InFlightInc()
		defer metrics.InFlightDec()

		c.Next()

		metrics.ObserveRequest(c.Request.Method, c.FullPath(), strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
