package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health reports readiness of the two backing stores.
func (h HandlerSet) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	dbState := "ok"
	if err := h.db.Ping(ctx); err != nil {
		dbState = "unreachable"
		status = http.StatusServiceUnavailable
	}

	cacheState := "ok"
	if err := h.cache.Ping(ctx).Err(); err != nil {
		cacheState = "unreachable"
		status = http.StatusServiceUnavailable
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}

	c.JSON(status, gin.H{
		"status":   overall,
		"database": dbState,
		"cache":    cacheState,
	})
}
