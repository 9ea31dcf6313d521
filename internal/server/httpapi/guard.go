package httpapi

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/gin-gonic/gin"
)

type ctxKey string

const (
	userIDKey    ctxKey = "userID"
	ginUserIDKey        = "user_id"
)

// UserIDFromContext returns the id stored by the session guard.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// bearerToken extracts the token from "Bearer <token>".
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// sessionGuard admits requests carrying a live session token and stores the
// owner id in both the gin and the request context.
func (h *Handler) sessionGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		if header == "" {
			c.Abort()
			respond(c, CodeUnauthorized, "authorization header missing, please login", nil)
			return
		}

		token, ok := bearerToken(header)
		if !ok {
			c.Abort()
			respond(c, CodeUnauthorized, "not authorized, please login", nil)
			return
		}

		userID, err := h.users.Authenticate(c.Request.Context(), token)
		if err != nil {
			h.fail(c, err, "")
			return
		}

		c.Set(ginUserIDKey, userID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), userIDKey, userID))
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(ginUserIDKey)
}
