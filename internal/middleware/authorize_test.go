package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"roadsense/api/internal/models"
)

func requireRolesEngine(user *models.User, roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	engine.GET("/guarded",
		func(c *gin.Context) {
			if user != nil {
				c.Set(ContextUserKey, *user)
			}
		},
		RequireRoles(roles...),
		func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		},
	)
	return engine
}

func hitGuarded(engine *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestRequireRoles(t *testing.T) {
	activeCitizen := &models.User{ID: "u1", Role: models.UserRoleCitizen, AccountStatus: models.AccountStatusActive}
	activeOfficial := &models.User{ID: "u2", Role: models.UserRoleOfficial, AccountStatus: models.AccountStatusActive}
	pendingOfficial := &models.User{ID: "u3", Role: models.UserRoleOfficial, AccountStatus: models.AccountStatusPending}
	admin := &models.User{ID: "u4", Role: models.UserRoleAdmin, AccountStatus: models.AccountStatusActive}

	cases := []struct {
		name     string
		user     *models.User
		roles    []models.UserRole
		wantCode int
	}{
		{"no user in context", nil, []models.UserRole{models.UserRoleCitizen}, http.StatusUnauthorized},
		{"matching role", activeCitizen, []models.UserRole{models.UserRoleCitizen}, http.StatusOK},
		{"role not in set", activeCitizen, []models.UserRole{models.UserRoleAdmin}, http.StatusForbidden},
		{"one of several roles", admin, []models.UserRole{models.UserRoleOfficial, models.UserRoleAdmin}, http.StatusOK},
		{"verified official allowed", activeOfficial, []models.UserRole{models.UserRoleOfficial}, http.StatusOK},
		{"pending official blocked", pendingOfficial, []models.UserRole{models.UserRoleOfficial}, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := requireRolesEngine(tc.user, tc.roles...)
			rec := hitGuarded(engine)
			assert.Equal(t, tc.wantCode, rec.Code)
		})
	}
}

func TestPendingOfficialErrorBody(t *testing.T) {
	pending := &models.User{ID: "u3", Role: models.UserRoleOfficial, AccountStatus: models.AccountStatusPending}
	engine := requireRolesEngine(pending, models.UserRoleOfficial)

	rec := hitGuarded(engine)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "verification_pending")
}
