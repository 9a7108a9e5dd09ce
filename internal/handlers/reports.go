package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"roadsense/api/internal/middleware"
	"roadsense/api/internal/models"
	"roadsense/api/internal/repository"
	"roadsense/api/internal/service"
	"roadsense/api/internal/validation"
)

type reportResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IssueType   string     `json:"issue_type"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	Address     string     `json:"address"`
	Zone        *string    `json:"zone,omitempty"`
	IsAnonymous bool       `json:"is_anonymous"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	Rating      *int       `json:"rating,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toReportResponse(report models.Report) reportResponse {
	resp := reportResponse{
		ID:          report.ID,
		UserID:      report.UserID,
		Title:       report.Title,
		Description: report.Description,
		IssueType:   string(report.IssueType),
		Status:      string(report.Status),
		Priority:    string(report.Priority),
		Latitude:    report.Latitude,
		Longitude:   report.Longitude,
		Address:     report.Address,
		Zone:        report.Zone,
		IsAnonymous: report.IsAnonymous,
		AssignedTo:  report.AssignedTo,
		Rating:      report.Rating,
		ResolvedAt:  report.ResolvedAt,
		CreatedAt:   report.CreatedAt,
		UpdatedAt:   report.UpdatedAt,
	}
	if report.IsAnonymous {
		resp.UserID = ""
	}
	return resp
}

type commentResponse struct {
	ID        string    `json:"id"`
	ReportID  string    `json:"report_id"`
	UserID    string    `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func toCommentResponse(comment models.ReportComment) commentResponse {
	return commentResponse{
		ID:        comment.ID,
		ReportID:  comment.ReportID,
		UserID:    comment.UserID,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
	}
}

func toReportResponses(reports []models.Report) []reportResponse {
	out := make([]reportResponse, 0, len(reports))
	for _, report := range reports {
		out = append(out, toReportResponse(report))
	}
	return out
}

// CreateReport handles the multipart report submission: form fields, a GPS
// point, and up to the configured number of images.
func (h HandlerSet) CreateReport(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	multipartForm, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}
	imageHeaders := multipartForm.File["images"]

	form := validation.ReportForm{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		IssueType:   c.PostForm("issue_type"),
		ImageCount:  len(imageHeaders),
	}
	if lat, err := strconv.ParseFloat(c.PostForm("latitude"), 64); err == nil {
		form.Latitude = &lat
	}
	if lng, err := strconv.ParseFloat(c.PostForm("longitude"), 64); err == nil {
		form.Longitude = &lng
	}

	errs := form.Validate()
	for _, header := range imageHeaders {
		declared := header.Header.Get("Content-Type")
		for field, msg := range validation.CheckUpload("images", declared, header.Size, validation.MaxReportImageBytes) {
			errs[field] = msg
		}
	}
	if !errs.Valid() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
		return
	}

	issueType, _ := models.ParseIssueType(form.IssueType)
	priority, _ := models.ParsePriority(c.PostForm("priority"))

	input := service.CreateReportInput{
		User:        user,
		Title:       form.Title,
		Description: form.Description,
		IssueType:   issueType,
		Priority:    priority,
		Latitude:    *form.Latitude,
		Longitude:   *form.Longitude,
		Address:     c.PostForm("address"),
		Zone:        c.PostForm("zone"),
		IsAnonymous: c.PostForm("is_anonymous") == "true",
	}
	for _, header := range imageHeaders {
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable image upload"})
			return
		}
		defer file.Close()
		input.Images = append(input.Images, service.ReportImageUpload{File: file, Header: header})
	}

	report, err := h.reportService.Create(c.Request.Context(), input)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", user.ID).Msg("report creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report_creation_failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"report": toReportResponse(report)})
}

// ListReports serves the shared report listing. Citizens only ever see their
// own reports; officials and admins may browse everything with filters.
func (h HandlerSet) ListReports(c *gin.Context) {
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
	if user.Role == models.UserRoleCitizen || c.Query("mine") == "true" {
		input.UserID = user.ID
	}

	page, err := h.reportService.List(c.Request.Context(), input)
	if err != nil {
		h.log.Error().Err(err).Msg("report listing failed")
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

func (h HandlerSet) GetReport(c *gin.Context) {
	detail, err := h.reportService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "report_not_found"})
			return
		}
		h.log.Error().Err(err).Str("report_id", c.Param("id")).Msg("report lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup_failed"})
		return
	}

	comments := make([]commentResponse, 0, len(detail.Comments))
	for _, comment := range detail.Comments {
		comments = append(comments, toCommentResponse(comment))
	}

	c.JSON(http.StatusOK, gin.H{
		"report":   toReportResponse(detail.Report),
		"images":   detail.ImageURLs,
		"comments": comments,
	})
}

func (h HandlerSet) DeleteReport(c *gin.Context) {
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
	case errors.Is(err, service.ErrNotReportOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrDeleteWindowClosed):
		c.JSON(http.StatusForbidden, gin.H{"error": "delete_window_closed"})
	default:
		h.log.Error().Err(err).Str("report_id", c.Param("id")).Msg("report delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete_failed"})
	}
}

type commentRequest struct {
	Body string `json:"body" binding:"required"`
}

func (h HandlerSet) CommentReport(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.reportService.Comment(c.Request.Context(), user, c.Param("id"), req.Body)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "report_not_found"})
			return
		}
		h.log.Error().Err(err).Str("report_id", c.Param("id")).Msg("comment failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "comment_failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": toCommentResponse(comment)})
}

type rateRequest struct {
	Rating int `json:"rating" binding:"required"`
}

func (h HandlerSet) RateReport(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.reportService.Rate(c.Request.Context(), user, c.Param("id"), req.Rating)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"rated": true})
	case errors.Is(err, repository.ErrReportNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "report_not_found"})
	case errors.Is(err, service.ErrNotReportOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrNotResolved):
		c.JSON(http.StatusConflict, gin.H{"error": "report_not_resolved"})
	case errors.Is(err, service.ErrInvalidRating):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "rating must be between 1 and 5"})
	default:
		h.log.Error().Err(err).Str("report_id", c.Param("id")).Msg("rating failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "rating_failed"})
	}
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h HandlerSet) UpdateReportStatus(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	next, ok := models.ParseReportStatus(req.Status)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown status"})
		return
	}

	report, err := h.reportService.UpdateStatus(c.Request.Context(), user, c.Param("id"), next)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"report": toReportResponse(report)})
	case errors.Is(err, repository.ErrReportNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "report_not_found"})
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("report_id", c.Param("id")).Msg("status update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "status_update_failed"})
	}
}

type priorityRequest struct {
	Priority string `json:"priority" binding:"required"`
}

func (h HandlerSet) UpdateReportPriority(c *gin.Context) {
	var req priorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	priority, ok := models.ParsePriority(req.Priority)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown priority"})
		return
	}

	report, err := h.reportService.UpdatePriority(c.Request.Context(), c.Param("id"), priority)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "report_not_found"})
			return
		}
		h.log.Error().Err(err).Str("report_id", c.Param("id")).Msg("priority update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "priority_update_failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": toReportResponse(report)})
}

func (h HandlerSet) CitizenStats(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	stats, err := h.reportService.Stats(c.Request.Context(), user.ID, "")
	if err != nil {
		h.log.Error().Err(err).Msg("citizen stats failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats_failed"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return value
}
