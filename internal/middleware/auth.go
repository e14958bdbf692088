package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TokenValidator resolves an opaque bearer key to a user id.
type TokenValidator interface {
	ValidateToken(ctx context.Context, key string) (uuid.UUID, error)
}

// AuthMiddleware rejects requests without a valid token. Both
// "Token <key>" and "Bearer <key>" schemes are accepted.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := bearerKey(c.GetHeader("Authorization"))
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed authorization header"})
			c.Abort()
			return
		}

		userID, err := validator.ValidateToken(c.Request.Context(), key)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// OptionalAuthMiddleware sets user_id when a valid token is presented
// and lets everything through either way. Public reads use it so
// projections like is_subscribed can see the requester.
func OptionalAuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key, ok := bearerKey(c.GetHeader("Authorization")); ok {
			if userID, err := validator.ValidateToken(c.Request.Context(), key); err == nil {
				c.Set("user_id", userID)
			}
		}
		c.Next()
	}
}

func bearerKey(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || (parts[0] != "Token" && parts[0] != "Bearer") {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// CurrentUserID returns the authenticated user id set by the auth
// middleware, if any.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
