package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"roadsense/api/internal/config"
	"roadsense/api/internal/models"
	"roadsense/api/internal/repository"
	"roadsense/api/internal/security"
)

const (
	ContextUserKey   = "current_user"
	ContextClaimsKey = "access_claims"
)

// Auth validates the bearer token and loads the authenticated user into the
// request context. Suspended and blocked accounts are rejected outright.
func Auth(cfg *config.AppConfig, users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := security.ParseAccessToken(tokenStr, cfg.Security.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user_not_found"})
			return
		}

		switch user.AccountStatus {
		case models.AccountStatusSuspended, models.AccountStatusBlocked:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account_disabled"})
			return
		}

		c.Set(ContextClaimsKey, *claims)
		c.Set(ContextUserKey, user)

		c.Next()
	}
}

// CurrentUser pulls the authenticated user placed by Auth out of the context.
func CurrentUser(c *gin.Context) (models.User, bool) {
	userVal, exists := c.Get(ContextUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := userVal.(models.User)
	return user, ok
}
