package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roadsense/api/internal/models"
)

// RequireRoles restricts a route group to the given roles. Officials must also
// be past verification: a pending official authenticates but is not yet
// authorized for official surfaces.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if _, ok := roleSet[user.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		if user.Role == models.UserRoleOfficial && user.AccountStatus == models.AccountStatusPending {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "verification_pending"})
			return
		}

		c.Next()
	}
}
