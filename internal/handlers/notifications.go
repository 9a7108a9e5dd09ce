package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roadsense/api/internal/middleware"
	"roadsense/api/internal/models"
	"roadsense/api/internal/repository"
)

type notificationResponse struct {
	ID        string     `json:"id"`
	Kind      string     `json:"kind"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	ReportID  *string    `json:"report_id,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func toNotificationResponse(n models.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID,
		Kind:      string(n.Kind),
		Title:     n.Title,
		Body:      n.Body,
		ReportID:  n.ReportID,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

func (h HandlerSet) ListNotifications(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	perPage := queryInt(c, "per_page", 20)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	notifications, err := h.notifications.ListByUser(
		c.Request.Context(),
		user.ID,
		c.Query("unread") == "true",
		perPage,
		(page-1)*perPage,
	)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("notification listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing_failed"})
		return
	}

	out := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, toNotificationResponse(n))
	}
	c.JSON(http.StatusOK, gin.H{"notifications": out, "page": page, "per_page": perPage})
}

func (h HandlerSet) UnreadNotificationCount(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	count, err := h.notifications.UnreadCount(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("unread count failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "count_failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}

func (h HandlerSet) MarkNotificationRead(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	err := h.notifications.MarkRead(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification_not_found"})
			return
		}
		h.log.Error().Err(err).Str("notification_id", c.Param("id")).Msg("mark read failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mark_read_failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"read": true})
}

func (h HandlerSet) MarkAllNotificationsRead(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.notifications.MarkAllRead(c.Request.Context(), user.ID); err != nil {
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("mark all read failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mark_read_failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"read": true})
}

func (h HandlerSet) DeleteNotification(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	err := h.notifications.Delete(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification_not_found"})
			return
		}
		h.log.Error().Err(err).Str("notification_id", c.Param("id")).Msg("notification delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete_failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
