package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger prints one line per request with the matched route pattern, so
// booking detail hits aggregate under /bookings/:id instead of one line per
// booking.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			// unmatched request, fall back to the raw path
			route = c.Request.URL.Path
		}

		log.Printf("[HTTP] request_id=%s method=%s route=%s status=%d dur=%s ip=%s",
			GetRequestID(c),
			c.Request.Method,
			route,
			c.Writer.Status(),
			time.Since(start).Round(time.Millisecond),
			c.ClientIP(),
		)
	}
}
