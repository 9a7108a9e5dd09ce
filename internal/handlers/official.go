package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roadsense/api/internal/middleware"
	"roadsense/api/internal/models"
	"roadsense/api/internal/repository"
	"roadsense/api/internal/service"
)

type officialProfileResponse struct {
	UserID      string     `json:"user_id"`
	EmployeeID  string     `json:"employee_id"`
	Department  string     `json:"department"`
	Designation string     `json:"designation"`
	Zone        string     `json:"zone"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
	VerifiedBy  *string    `json:"verified_by,omitempty"`
}

func toOfficialProfileResponse(profile models.OfficialProfile) officialProfileResponse {
	return officialProfileResponse{
		UserID:      profile.UserID,
		EmployeeID:  profile.EmployeeID,
		Department:  profile.Department,
		Designation: profile.Designation,
		Zone:        profile.Zone,
		VerifiedAt:  profile.VerifiedAt,
		VerifiedBy:  profile.VerifiedBy,
	}
}

// AssignedReports lists reports in the official's zone plus anything
// explicitly assigned to them elsewhere.
func (h HandlerSet) AssignedReports(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	input := service.ListReportsInput{
		Status:    c.Query("status"),
		Priority:  c.Query("priority"),
		IssueType: c.Query("issue_type"),
		Page:      queryInt(c, "page", 1),
		PerPage:   queryInt(c, "per_page", 20),
	}
	if c.Query("assigned") == "true" {
		input.AssignedTo = user.ID
	} else {
		profile, err := h.users.GetOfficialProfile(c.Request.Context(), user.ID)
		if err != nil {
			if errors.Is(err, repository.ErrProfileNotFound) {
				c.JSON(http.StatusForbidden, gin.H{"error": "no_official_profile"})
				return
			}
			h.log.Error().Err(err).Str("user_id", user.ID).Msg("official profile lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup_failed"})
			return
		}
		input.Zone = profile.Zone
	}

	page, err := h.reportService.List(c.Request.Context(), input)
	if err != nil {
		h.log.Error().Err(err).Msg("official report listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing_failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports":  toReportResponses(page.Reports),
		"total":    page.Total,
		"page":     page.Page,
		"per_page": page.PerPage,
	})
}

func (h HandlerSet) OfficialStats(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	profile, err := h.users.GetOfficialProfile(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"error": "no_official_profile"})
			return
		}
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("official profile lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup_failed"})
		return
	}

	stats, err := h.reportService.Stats(c.Request.Context(), "", profile.Zone)
	if err != nil {
		h.log.Error().Err(err).Msg("official stats failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats_failed"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
