package routes

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadsense/api/internal/config"
	"roadsense/api/internal/models"
	"roadsense/api/internal/security"
)

const gateTestSecret = "gate-test-secret"

func gateTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.AppConfig{}
	cfg.Security.JWTSecret = gateTestSecret

	engine := gin.New()
	Register(engine, cfg, func(c *gin.Context) {
		c.String(http.StatusOK, "page")
	})
	return engine
}

func issueToken(t *testing.T, role string) string {
	t.Helper()
	token, err := security.GenerateAccessToken(gateTestSecret, "user-1", role, "active", time.Hour)
	require.NoError(t, err)
	return token
}

func get(engine *gin.Engine, path string, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestGatePublicRoutesServeWithoutSession(t *testing.T) {
	engine := gateTestEngine(t)

	for _, path := range []string{"/", "/about", "/contact", "/map", "/login", "/register/citizen"} {
		rec := get(engine, path, "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestGateRedirectsAnonymousToLogin(t *testing.T) {
	engine := gateTestEngine(t)

	cases := []string{
		"/citizen/dashboard",
		"/official/dashboard",
		"/admin/dashboard",
	}
	for _, path := range cases {
		rec := get(engine, path, "")
		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/login?redirect="+url.QueryEscape(path), rec.Header().Get("Location"), path)
	}
}

func TestGatePreservesQueryInRedirect(t *testing.T) {
	engine := gateTestEngine(t)

	rec := get(engine, "/citizen/reports?page=2", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?redirect=%2Fcitizen%2Freports%3Fpage%3D2", rec.Header().Get("Location"))
}

func TestGateRedirectsWrongRoleToOwnDashboard(t *testing.T) {
	engine := gateTestEngine(t)

	cases := []struct {
		name     string
		role     string
		path     string
		wantDest string
	}{
		{"official on admin pages", "official", "/admin/dashboard", "/official/dashboard"},
		{"citizen on admin pages", "citizen", "/admin/users", "/citizen/dashboard"},
		{"admin on citizen pages", "admin", "/citizen/dashboard", "/admin/dashboard"},
		{"citizen on official pages", "citizen", "/official/reports", "/citizen/dashboard"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(engine, tc.path, issueToken(t, tc.role))
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tc.wantDest, rec.Header().Get("Location"))
		})
	}
}

func TestGateServesMatchingRole(t *testing.T) {
	engine := gateTestEngine(t)

	cases := []struct {
		role string
		path string
	}{
		{"citizen", "/citizen/dashboard"},
		{"citizen", "/citizen/report-issue"},
		{"official", "/official/reports"},
		{"admin", "/admin/users"},
	}

	for _, tc := range cases {
		rec := get(engine, tc.path, issueToken(t, tc.role))
		assert.Equal(t, http.StatusOK, rec.Code, tc.path)
	}
}

func TestGateUnknownRoleGoesToLogin(t *testing.T) {
	engine := gateTestEngine(t)

	rec := get(engine, "/citizen/dashboard", issueToken(t, "superuser"))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/login")
}

func TestGateRejectsForgedToken(t *testing.T) {
	engine := gateTestEngine(t)

	forged, err := security.GenerateAccessToken("other-secret", "user-1", "admin", "active", time.Hour)
	require.NoError(t, err)

	rec := get(engine, "/admin/dashboard", forged)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/login")
}

func TestGateAcceptsSessionCookie(t *testing.T) {
	engine := gateTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/citizen/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: issueToken(t, "citizen")})
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDefaultDashboard(t *testing.T) {
	assert.Equal(t, "/citizen/dashboard", DefaultDashboard(models.UserRoleCitizen))
	assert.Equal(t, "/official/dashboard", DefaultDashboard(models.UserRoleOfficial))
	assert.Equal(t, "/admin/dashboard", DefaultDashboard(models.UserRoleAdmin))
	assert.Equal(t, "/login", DefaultDashboard(models.UserRole("unknown")))
}

func TestAllRoutesAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, route := range All() {
		assert.False(t, seen[route.Path], route.Path)
		seen[route.Path] = true
	}
}
