package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"roadsense/api/internal/config"
	"roadsense/api/internal/ids"
	"roadsense/api/internal/models"
	"roadsense/api/internal/repository"
	"roadsense/api/internal/security"
)

var (
	ErrNotReportOwner     = errors.New("not the report owner")
	ErrDeleteWindowClosed = errors.New("delete window closed")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrNotResolved        = errors.New("report not resolved")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
)

const ingestStream = "reports:ingest"

type ReportService struct {
	reports       *repository.ReportRepository
	notifications *repository.NotificationRepository
	uploads       *UploadService
	queue         *redis.Client
	cfg           *config.AppConfig
	log           zerolog.Logger
}

func NewReportService(
	reports *repository.ReportRepository,
	notifications *repository.NotificationRepository,
	uploads *UploadService,
	queue *redis.Client,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *ReportService {
	return &ReportService{
		reports:       reports,
		notifications: notifications,
		uploads:       uploads,
		queue:         queue,
		cfg:           cfg,
		log:           log,
	}
}

type ReportImageUpload struct {
	File   multipart.File
	Header *multipart.FileHeader
}

type CreateReportInput struct {
	User        models.User
	Title       string
	Description string
	IssueType   models.IssueType
	Priority    models.ReportPriority
	Latitude    float64
	Longitude   float64
	Address     string
	Zone        string
	IsAnonymous bool
	Images      []ReportImageUpload
}

func (s *ReportService) Create(ctx context.Context, input CreateReportInput) (models.Report, error) {
	priority := input.Priority
	if priority == "" {
		priority = models.ReportPriorityMedium
	}

	report := models.Report{
		ID:          ids.New(),
		UserID:      input.User.ID,
		Title:       input.Title,
		Description: input.Description,
		IssueType:   input.IssueType,
		Status:      models.ReportStatusPending,
		Priority:    priority,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Address:     input.Address,
		IsAnonymous: input.IsAnonymous,
	}
	if input.Zone != "" {
		report.Zone = &input.Zone
	}

	// Sniff and store every image before the report row exists: a bad upload
	// must not leave an orphan report behind.
	images := make([]models.ReportImage, 0, len(input.Images))
	for _, upload := range input.Images {
		obj, err := s.uploads.StoreReportImage(ctx, upload.File, upload.Header)
		if err != nil {
			return models.Report{}, fmt.Errorf("store report image: %w", err)
		}

		imageID := ids.New()
		images = append(images, models.ReportImage{
			ID:        imageID,
			ReportID:  report.ID,
			Bucket:    obj.Bucket,
			ObjectKey: obj.ObjectKey,
			Format:    obj.Format,
			SizeBytes: obj.SizeBytes,
			Signature: security.SignResource(s.cfg.Security.SignatureSecret, imageID, obj.ObjectKey),
		})
	}

	if err := s.reports.CreateWithImages(ctx, report, images); err != nil {
		return models.Report{}, err
	}

	if err := s.enqueueIngest(ctx, report); err != nil {
		s.log.Warn().Err(err).Str("report_id", report.ID).Msg("enqueue ingest failed")
	}

	created, err := s.reports.GetByID(ctx, report.ID)
	if err != nil {
		return models.Report{}, err
	}
	return created, nil
}

type ListReportsInput struct {
	UserID     string
	Zone       string
	AssignedTo string
	Status     string
	Priority   string
	IssueType  string
	Page       int
	PerPage    int
}

type ReportPage struct {
	Reports []models.Report
	Total   int
	Page    int
	PerPage int
}

func (s *ReportService) List(ctx context.Context, input ListReportsInput) (ReportPage, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	perPage := input.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	reports, total, err := s.reports.List(ctx, repository.ReportFilter{
		UserID:     input.UserID,
		Zone:       input.Zone,
		AssignedTo: input.AssignedTo,
		Status:     input.Status,
		Priority:   input.Priority,
		IssueType:  input.IssueType,
		Limit:      perPage,
		Offset:     (page - 1) * perPage,
	})
	if err != nil {
		return ReportPage{}, err
	}

	return ReportPage{
		Reports: reports,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}, nil
}

type ReportDetail struct {
	Report    models.Report
	ImageURLs []string
	Comments  []models.ReportComment
}

func (s *ReportService) Get(ctx context.Context, id string) (ReportDetail, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return ReportDetail{}, err
	}

	images, err := s.reports.ListImages(ctx, id)
	if err != nil {
		return ReportDetail{}, err
	}

	urls := make([]string, 0, len(images))
	for _, image := range images {
		// Skip anything whose stored signature no longer matches its key.
		if !security.VerifyResource(s.cfg.Security.SignatureSecret, image.ID, image.ObjectKey, image.Signature) {
			s.log.Warn().Str("image_id", image.ID).Msg("image signature mismatch")
			continue
		}
		urls = append(urls, s.uploads.PublicURL(image.Bucket, image.ObjectKey))
	}

	comments, err := s.reports.ListComments(ctx, id)
	if err != nil {
		return ReportDetail{}, err
	}

	return ReportDetail{
		Report:    report,
		ImageURLs: urls,
		Comments:  comments,
	}, nil
}

// Delete removes a report. Owners are limited to the configured window after
// creation; admins may delete at any time.
func (s *ReportService) Delete(ctx context.Context, actor models.User, id string) error {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if actor.Role != models.UserRoleAdmin {
		if report.UserID != actor.ID {
			return ErrNotReportOwner
		}
		if !report.DeletableBy(actor.ID, actor.Role, s.cfg.Reports.DeleteWindow, time.Now()) {
			return ErrDeleteWindowClosed
		}
	}

	return s.reports.Delete(ctx, id)
}

func (s *ReportService) UpdateStatus(ctx context.Context, actor models.User, id string, next models.ReportStatus) (models.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return models.Report{}, err
	}

	if !report.Status.CanTransition(next) {
		return models.Report{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, report.Status, next)
	}

	if err := s.reports.UpdateStatus(ctx, id, next); err != nil {
		return models.Report{}, err
	}

	s.notifyOwner(ctx, report, models.NotificationKindStatusChange,
		"Report status updated",
		fmt.Sprintf("%q is now %s", report.Title, next))

	return s.reports.GetByID(ctx, id)
}

func (s *ReportService) UpdatePriority(ctx context.Context, id string, priority models.ReportPriority) (models.Report, error) {
	if err := s.reports.UpdatePriority(ctx, id, priority); err != nil {
		return models.Report{}, err
	}
	return s.reports.GetByID(ctx, id)
}

func (s *ReportService) Assign(ctx context.Context, id string, officialID string) (models.Report, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return models.Report{}, err
	}

	if err := s.reports.Assign(ctx, id, officialID); err != nil {
		return models.Report{}, err
	}

	notification := models.Notification{
		ID:       ids.New(),
		UserID:   officialID,
		Kind:     models.NotificationKindAssignment,
		Title:    "Report assigned to you",
		Body:     fmt.Sprintf("%q has been assigned to you", report.Title),
		ReportID: &report.ID,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		s.log.Warn().Err(err).Str("report_id", id).Msg("assignment notification failed")
	}

	return s.reports.GetByID(ctx, id)
}

func (s *ReportService) Comment(ctx context.Context, actor models.User, reportID string, body string) (models.ReportComment, error) {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return models.ReportComment{}, err
	}

	comment := models.ReportComment{
		ID:       ids.New(),
		ReportID: report.ID,
		UserID:   actor.ID,
		Body:     body,
	}
	if err := s.reports.AddComment(ctx, comment); err != nil {
		return models.ReportComment{}, err
	}

	if actor.ID != report.UserID {
		s.notifyOwner(ctx, report, models.NotificationKindSystem,
			"New comment on your report",
			fmt.Sprintf("%s commented on %q", actor.FullName, report.Title))
	}

	return comment, nil
}

// Rate records the owner's satisfaction rating for a resolved report.
func (s *ReportService) Rate(ctx context.Context, actor models.User, reportID string, rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}

	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return err
	}
	if report.UserID != actor.ID {
		return ErrNotReportOwner
	}
	if report.Status != models.ReportStatusResolved && report.Status != models.ReportStatusClosed {
		return ErrNotResolved
	}

	return s.reports.SetRating(ctx, reportID, rating)
}

type DashboardStats struct {
	Total       int                         `json:"total"`
	ByStatus    map[models.ReportStatus]int `json:"byStatus"`
	ResolvedPct float64                     `json:"resolvedPct"`
}

// Stats aggregates report counts, scoped to an owner, a zone, or neither.
func (s *ReportService) Stats(ctx context.Context, userID string, zone string) (DashboardStats, error) {
	counts, err := s.reports.CountByStatus(ctx, userID, zone)
	if err != nil {
		return DashboardStats{}, err
	}

	stats := DashboardStats{ByStatus: counts}
	for _, count := range counts {
		stats.Total += count
	}
	if stats.Total > 0 {
		resolved := counts[models.ReportStatusResolved] + counts[models.ReportStatusClosed]
		stats.ResolvedPct = float64(resolved) / float64(stats.Total) * 100
	}
	return stats, nil
}

func (s *ReportService) notifyOwner(ctx context.Context, report models.Report, kind models.NotificationKind, title string, body string) {
	notification := models.Notification{
		ID:       ids.New(),
		UserID:   report.UserID,
		Kind:     kind,
		Title:    title,
		Body:     body,
		ReportID: &report.ID,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		s.log.Warn().Err(err).Str("report_id", report.ID).Msg("owner notification failed")
	}
}

func (s *ReportService) enqueueIngest(ctx context.Context, report models.Report) error {
	if s.queue == nil {
		return nil
	}

	payload := map[string]any{
		"type":      "ingest",
		"reportId":  report.ID,
		"issueType": string(report.IssueType),
		"priority":  string(report.Priority),
	}
	_, err := s.queue.XAdd(ctx, &redis.XAddArgs{
		Stream: ingestStream,
		Values: payload,
	}).Result()
	return err
}
