package middleware

import (
	"estate-brokerage/pkg/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BodyLimits caps request bodies by route template. Routes without an entry
// get Default.
type BodyLimits struct {
	Default int64
	Routes  map[string]int64
}

func (l BodyLimits) forRoute(route string) int64 {
	if limit, ok := l.Routes[route]; ok {
		return limit
	}
	return l.Default
}

// BodyLimitMiddleware rejects declared oversize bodies up front and caps
// undeclared ones while they are read.
func BodyLimitMiddleware(limits BodyLimits) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := routeLabel(c)
		limit := limits.forRoute(route)

		if c.Request.ContentLength > limit {
			RequestLogger(c).Warn("Request body over limit",
				zap.String("route", route),
				zap.Int64("content_length", c.Request.ContentLength),
				zap.Int64("limit", limit),
			)
			utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "Request body too large")
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
