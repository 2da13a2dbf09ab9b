package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"codegate/pkg/auth"
	"codegate/pkg/metrics"
)

// RequireAuth is gin middleware gating a route on the shared-secret cookie.
// No handler behind it runs before the authenticator has accepted the request.
func RequireAuth(authenticator *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cred := authenticator.Authenticate(c.Request); cred == "" {
			Unauthorized(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// MetricsMiddleware counts requests per route and status
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
