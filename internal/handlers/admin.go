package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"roadsense/api/internal/middleware"
	"roadsense/api/internal/models"
	"roadsense/api/internal/repository"
	"roadsense/api/internal/service"
)

func (h HandlerSet) AdminStats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("platform stats failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats_failed"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h HandlerSet) AdminListUsers(c *gin.Context) {
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	perPage := queryInt(c, "per_page", 20)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	users, err := h.users.List(c.Request.Context(), repository.UserFilter{
		Role:   c.Query("role"),
		Status: c.Query("status"),
		Search: c.Query("search"),
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("user listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing_failed"})
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, user := range users {
		out = append(out, toUserResponse(user))
	}
	c.JSON(http.StatusOK, gin.H{"users": out, "page": page, "per_page": perPage})
}

func (h HandlerSet) AdminUserDetail(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
			return
		}
		h.log.Error().Err(err).Str("user_id", c.Param("id")).Msg("user lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup_failed"})
		return
	}

	resp := gin.H{"user": toUserResponse(user)}
	if user.Role == models.UserRoleOfficial {
		if profile, err := h.users.GetOfficialProfile(c.Request.Context(), user.ID); err == nil {
			resp["official_profile"] = toOfficialProfileResponse(profile)
		}
	}

	c.JSON(http.StatusOK, resp)
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h HandlerSet) AdminSetUserStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, ok := models.ParseAccountStatus(req.Status)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown status"})
		return
	}

	user, err := h.adminService.SetUserStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
			return
		}
		h.log.Error().Err(err).Str("user_id", c.Param("id")).Msg("status change failed")
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

func (h HandlerSet) AdminPendingOfficials(c *gin.Context) {
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	perPage := queryInt(c, "per_page", 20)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	users, err := h.users.ListPendingOfficials(c.Request.Context(), perPage, (page-1)*perPage)
	if err != nil {
		h.log.Error().Err(err).Msg("pending officials listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing_failed"})
		return
	}

	out := make([]gin.H, 0, len(users))
	for _, user := range users {
		entry := gin.H{"user": toUserResponse(user)}
		if profile, err := h.users.GetOfficialProfile(c.Request.Context(), user.ID); err == nil {
			entry["official_profile"] = toOfficialProfileResponse(profile)
		}
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, gin.H{"officials": out, "page": page, "per_page": perPage})
}

type verifyOfficialRequest struct {
	Approve *bool `json:"approve" binding:"required"`
}

func (h HandlerSet) AdminVerifyOfficial(c *gin.Context) {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req verifyOfficialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.adminService.VerifyOfficial(c.Request.Context(), admin.ID, c.Param("id"), *req.Approve)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
	case errors.Is(err, repository.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
	case errors.Is(err, service.ErrNotPendingOfficial):
		c.JSON(http.StatusConflict, gin.H{"error": "not_pending_official"})
	default:
		h.log.Error().Err(err).Str("user_id", c.Param("id")).Msg("verification failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "verification_failed"})
	}
}

func (h HandlerSet) AdminListReports(c *gin.Context) {
	page, err := h.reportService.List(c.Request.Context(), service.ListReportsInput{
		UserID:     c.Query("user_id"),
		Zone:       c.Query("zone"),
		AssignedTo: c.Query("assigned_to"),
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		IssueType:  c.Query("issue_type"),
		Page:       queryInt(c, "page", 1),
		PerPage:    queryInt(c, "per_page", 20),
	})
	if err != nil {
		h.log.Error().Err(err).Msg("admin report listing failed")
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

type assignRequest struct {
	OfficialID string `json:"official_id" binding:"required"`
}

// AdminAssignReport hands a report to a verified official.
func (h HandlerSet) AdminAssignReport(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	official, err := h.users.GetByID(c.Request.Context(), req.OfficialID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "official_not_found"})
			return
		}
		h.log.Error().Err(err).Str("user_id", req.OfficialID).Msg("official lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup_failed"})
		return
	}
	if official.Role != models.UserRoleOfficial || official.AccountStatus != models.AccountStatusActive {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "not_an_active_official"})
		return
	}

	report, err := h.reportService.Assign(c.Request.Context(), c.Param("id"), req.OfficialID)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "report_not_found"})
			return
		}
		h.log.Error().Err(err).Str("report_id", c.Param("id")).Msg("assignment failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assignment_failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": toReportResponse(report)})
}

func (h HandlerSet) AdminDeleteReport(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	err := h.reportService.Delete(c.Request.Context(), user, c.Param("id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	case errors.Is(err, repository.ErrReportNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "report_not_found"})
	default:
		h.log.Error().Err(err).Str("report_id", c.Param("id")).Msg("report delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete_failed"})
	}
}
