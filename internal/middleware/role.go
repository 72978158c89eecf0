package middleware

import (
	"context"
	"errors"
	"estate-brokerage/internal/domain/user"
	"estate-brokerage/internal/logger"
	"estate-brokerage/pkg/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RoleLookup reads the caller's current record from the user directory.
type RoleLookup interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*user.User, error)
}

// RequireRole admits callers whose stored role is one of allowedRoles. The
// role claim in the access token is not trusted, so a demotion applies on
// the caller's next request. It must run after AuthMiddleware.
func RequireRole(directory RoleLookup, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		u, err := directory.GetByID(c.Request.Context(), userID)
		if err != nil && !errors.Is(err, user.ErrUserNotFound) {
			logger.Error("Failed to load caller role",
				zap.String("request_id", GetRequestID(c)),
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
			utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
			c.Abort()
			return
		}

		if u != nil {
			for _, allowed := range allowedRoles {
				if u.Role == allowed {
					c.Set(RoleKey, u.Role)
					c.Next()
					return
				}
			}
		}

		logger.Warn("Unauthorized role access attempt",
			zap.String("request_id", GetRequestID(c)),
			zap.String("user_id", userID.String()),
			zap.String("route", routeLabel(c)),
		)
		utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions")
		c.Abort()
	}
}

func AdminOnly(directory RoleLookup) gin.HandlerFunc {
	return RequireRole(directory, user.RoleAdmin)
}
