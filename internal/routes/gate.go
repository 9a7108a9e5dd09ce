package routes

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"roadsense/api/internal/config"
	"roadsense/api/internal/models"
	"roadsense/api/internal/security"
)

const loginPath = "/login"

// Gate wraps a page handler with the authorization decision for one route.
// The decision is a pure function of (session, allowed roles, requested path):
//
//  1. no valid session and the route is protected -> redirect to /login,
//     carrying the requested location for post-login return;
//  2. session role outside a non-empty allowed set -> redirect to that role's
//     default dashboard (unknown role -> /login);
//  3. otherwise the page handler runs.
func Gate(cfg *config.AppConfig, route Route, serve gin.HandlerFunc) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]struct{}, len(route.Roles))
	for _, role := range route.Roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		if !route.Protected {
			serve(c)
			return
		}

		claims, ok := sessionClaims(c, cfg.Security.JWTSecret)
		if !ok {
			redirectToLogin(c)
			return
		}

		if len(roleSet) > 0 {
			role, known := models.ParseRole(claims.Role)
			if !known {
				redirectToLogin(c)
				return
			}
			if _, allowed := roleSet[role]; !allowed {
				c.Redirect(http.StatusFound, DefaultDashboard(role))
				c.Abort()
				return
			}
		}

		serve(c)
	}
}

// Register mounts every page route on the engine behind its gate.
func Register(engine *gin.Engine, cfg *config.AppConfig, serve gin.HandlerFunc) {
	for _, route := range All() {
		route := route
		engine.GET(route.Path, Gate(cfg, route, serve))
	}
}

// sessionClaims resolves the session from the bearer header or, for plain
// browser navigations, the access_token cookie.
func sessionClaims(c *gin.Context, secret string) (*security.AccessClaims, bool) {
	tokenStr := ""
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
	} else if cookie, err := c.Cookie("access_token"); err == nil {
		tokenStr = cookie
	}
	if tokenStr == "" {
		return nil, false
	}

	claims, err := security.ParseAccessToken(tokenStr, secret)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func redirectToLogin(c *gin.Context) {
	target := loginPath
	if original := c.Request.URL.RequestURI(); original != "" && original != loginPath {
		target = loginPath + "?redirect=" + url.QueryEscape(original)
	}
	c.Redirect(http.StatusFound, target)
	c.Abort()
}
