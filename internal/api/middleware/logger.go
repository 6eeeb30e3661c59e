package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one line per request.
func RequestLogger(logger *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
			"sid":      c.GetString(ContextSessionID),
		})
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("[HTTP] request failed")
		case c.Writer.Status() >= 400:
			entry.Warn("[HTTP] request rejected")
		default:
			entry.Debug("[HTTP] request")
		}
	}
}
