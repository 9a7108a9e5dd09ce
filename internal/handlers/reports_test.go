package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadsense/api/internal/middleware"
	"roadsense/api/internal/models"
)

// The handler set carries no services here: report creation must be rejected
// by validation before any service is consulted, so a request that gets past
// validation would fail loudly.
func createReportEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := HandlerSet{log: zerolog.Nop()}

	engine := gin.New()
	engine.POST("/api/reports",
		func(c *gin.Context) {
			c.Set(middleware.ContextUserKey, models.User{
				ID:            "citizen-1",
				Role:          models.UserRoleCitizen,
				AccountStatus: models.AccountStatusActive,
			})
		},
		h.CreateReport,
	)
	return engine
}

func postMultipart(t *testing.T, engine *gin.Engine, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/reports", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestCreateReportMissingTitleBlockedBeforeService(t *testing.T) {
	engine := createReportEngine()

	rec := postMultipart(t, engine, map[string]string{
		"description": "A deep pothole has opened up right before the pedestrian crossing.",
		"issue_type":  "pothole",
		"latitude":    "12.9716",
		"longitude":   "77.5946",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "title")
}

func TestCreateReportMissingLocationBlockedBeforeService(t *testing.T) {
	engine := createReportEngine()

	rec := postMultipart(t, engine, map[string]string{
		"title":       "Large pothole near the bus stop",
		"description": "A deep pothole has opened up right before the pedestrian crossing.",
		"issue_type":  "pothole",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "location")
}
