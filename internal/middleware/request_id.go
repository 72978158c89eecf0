package middleware

import (
	"estate-brokerage/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"

	requestLoggerKey   = "request_logger"
	maxRequestIDLength = 64
)

// RequestIDMiddleware tags each request with an id and a logger carrying it.
// A caller supplied id is kept only when it is short and made of safe
// characters, so it can be echoed into headers and logs verbatim.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}

		c.Set(RequestIDKey, requestID)
		c.Set(requestLoggerKey, logger.WithRequestID(requestID))
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}

// GetRequestID retrieves the request ID from the Gin context.
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

// RequestLogger returns the request scoped logger, falling back to the
// process logger outside RequestIDMiddleware.
func RequestLogger(c *gin.Context) *zap.Logger {
	if value, exists := c.Get(requestLoggerKey); exists {
		if log, ok := value.(*zap.Logger); ok {
			return log
		}
	}
	return logger.WithRequestID(GetRequestID(c))
}

// routeLabel names the request by its route template. Concrete paths of
// matched routes may carry verification tokens.
func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return c.Request.URL.Path
}
