package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"celebrisaludos/internal/models"
	"celebrisaludos/internal/security"
)

const (
	currentUserKey  = "current_user"
	accessClaimsKey = "access_claims"
)

// SessionResolver returns the user currently signed in on a device.
type SessionResolver interface {
	CurrentUser(ctx context.Context, deviceID string) (models.User, bool, error)
}

// Auth honours a token only while its device session still holds the same user,
// so logging out invalidates every token issued for that device.
func Auth(secret string, sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := security.ParseAccessToken(tokenStr, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		user, ok, err := sessions.CurrentUser(c.Request.Context(), claims.DeviceID)
		if err != nil {
			RequestLogger(c).Error().Err(err).Str("device_id", claims.DeviceID).Msg("load session")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session_unavailable"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session_not_found"})
			return
		}
		if user.ID != claims.UserID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session_mismatch"})
			return
		}

		c.Set(accessClaimsKey, *claims)
		c.Set(currentUserKey, user)

		c.Next()
	}
}

func CurrentUser(c *gin.Context) (models.User, bool) {
	val, exists := c.Get(currentUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}

func AccessClaims(c *gin.Context) (security.AccessClaims, bool) {
	val, exists := c.Get(accessClaimsKey)
	if !exists {
		return security.AccessClaims{}, false
	}
	claims, ok := val.(security.AccessClaims)
	return claims, ok
}
