package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"roadsense/api/internal/models"
)

var ErrReportNotFound = errors.New("report not found")

type ReportRepository struct {
	pool *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

const reportColumns = `id, user_id, title, description, issue_type, status, priority,
	latitude, longitude, address, zone, is_anonymous, assigned_to, rating,
	resolved_at, created_at, updated_at`

func scanReport(row pgx.Row) (models.Report, error) {
	var report models.Report
	if err := row.Scan(
		&report.ID,
		&report.UserID,
		&report.Title,
		&report.Description,
		&report.IssueType,
		&report.Status,
		&report.Priority,
		&report.Latitude,
		&report.Longitude,
		&report.Address,
		&report.Zone,
		&report.IsAnonymous,
		&report.AssignedTo,
		&report.Rating,
		&report.ResolvedAt,
		&report.CreatedAt,
		&report.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Report{}, ErrReportNotFound
		}
		return models.Report{}, err
	}
	return report, nil
}

const insertReportQuery = `
	INSERT INTO reports (
		id, user_id, title, description, issue_type, status, priority,
		latitude, longitude, address, zone, is_anonymous, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW()
	)
`

const insertReportImageQuery = `
	INSERT INTO report_images (
		id, report_id, bucket, object_key, format, size_bytes, signature, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, NOW()
	)
`

// CreateWithImages inserts the report row and its image rows in a single
// transaction; any failure rolls back so no partial report is ever visible.
func (r *ReportRepository) CreateWithImages(ctx context.Context, report models.Report, images []models.ReportImage) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, insertReportQuery,
		report.ID,
		report.UserID,
		report.Title,
		report.Description,
		report.IssueType,
		report.Status,
		report.Priority,
		report.Latitude,
		report.Longitude,
		report.Address,
		report.Zone,
		report.IsAnonymous,
	); err != nil {
		return err
	}

	for _, image := range images {
		if _, err := tx.Exec(ctx, insertReportImageQuery,
			image.ID,
			image.ReportID,
			image.Bucket,
			image.ObjectKey,
			image.Format,
			image.SizeBytes,
			image.Signature,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *ReportRepository) GetByID(ctx context.Context, id string) (models.Report, error) {
	const query = `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`
	return scanReport(r.pool.QueryRow(ctx, query, id))
}

type ReportFilter struct {
	UserID     string
	Zone       string
	AssignedTo string
	Status     string
	Priority   string
	IssueType  string
	Limit      int
	Offset     int
}

func (r *ReportRepository) List(ctx context.Context, filter ReportFilter) ([]models.Report, int, error) {
	const query = `
		SELECT ` + reportColumns + `, COUNT(*) OVER() AS total
		FROM reports
		WHERE ($1 = '' OR user_id = $1)
		  AND ($2 = '' OR zone = $2)
		  AND ($3 = '' OR assigned_to = $3)
		  AND ($4 = '' OR status = $4)
		  AND ($5 = '' OR priority = $5)
		  AND ($6 = '' OR issue_type = $6)
		ORDER BY created_at DESC
		LIMIT $7 OFFSET $8
	`

	rows, err := r.pool.Query(ctx, query,
		filter.UserID,
		filter.Zone,
		filter.AssignedTo,
		filter.Status,
		filter.Priority,
		filter.IssueType,
		filter.Limit,
		filter.Offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		reports []models.Report
		total   int
	)
	for rows.Next() {
		var report models.Report
		if err := rows.Scan(
			&report.ID,
			&report.UserID,
			&report.Title,
			&report.Description,
			&report.IssueType,
			&report.Status,
			&report.Priority,
			&report.Latitude,
			&report.Longitude,
			&report.Address,
			&report.Zone,
			&report.IsAnonymous,
			&report.AssignedTo,
			&report.Rating,
			&report.ResolvedAt,
			&report.CreatedAt,
			&report.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, err
		}
		reports = append(reports, report)
	}
	return reports, total, rows.Err()
}

func (r *ReportRepository) UpdateStatus(ctx context.Context, id string, status models.ReportStatus) error {
	const query = `
		UPDATE reports
		SET status = $2,
		    resolved_at = CASE WHEN $2 = 'resolved' THEN NOW() ELSE resolved_at END,
		    updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrReportNotFound
	}
	return nil
}

func (r *ReportRepository) UpdatePriority(ctx context.Context, id string, priority models.ReportPriority) error {
	const query = `UPDATE reports SET priority = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, priority)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrReportNotFound
	}
	return nil
}

func (r *ReportRepository) Assign(ctx context.Context, id string, officialID string) error {
	const query = `UPDATE reports SET assigned_to = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, officialID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrReportNotFound
	}
	return nil
}

func (r *ReportRepository) SetRating(ctx context.Context, id string, rating int) error {
	const query = `UPDATE reports SET rating = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, rating)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrReportNotFound
	}
	return nil
}

// Delete removes the report row; images and comments cascade in the schema.
func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM reports WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrReportNotFound
	}
	return nil
}

// CountByStatus aggregates report counts, optionally scoped to an owner or zone.
func (r *ReportRepository) CountByStatus(ctx context.Context, userID string, zone string) (map[models.ReportStatus]int, error) {
	const query = `
		SELECT status, COUNT(*)
		FROM reports
		WHERE ($1 = '' OR user_id = $1)
		  AND ($2 = '' OR zone = $2)
		GROUP BY status
	`

	rows, err := r.pool.Query(ctx, query, userID, zone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.ReportStatus]int)
	for rows.Next() {
		var status models.ReportStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *ReportRepository) ListImages(ctx context.Context, reportID string) ([]models.ReportImage, error) {
	const query = `
		SELECT id, report_id, bucket, object_key, format, size_bytes, signature, created_at
		FROM report_images
		WHERE report_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []models.ReportImage
	for rows.Next() {
		var image models.ReportImage
		if err := rows.Scan(
			&image.ID,
			&image.ReportID,
			&image.Bucket,
			&image.ObjectKey,
			&image.Format,
			&image.SizeBytes,
			&image.Signature,
			&image.CreatedAt,
		); err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, rows.Err()
}

func (r *ReportRepository) AddComment(ctx context.Context, comment models.ReportComment) error {
	const query = `
		INSERT INTO report_comments (id, report_id, user_id, body, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.pool.Exec(ctx, query, comment.ID, comment.ReportID, comment.UserID, comment.Body)
	return err
}

func (r *ReportRepository) ListComments(ctx context.Context, reportID string) ([]models.ReportComment, error) {
	const query = `
		SELECT id, report_id, user_id, body, created_at
		FROM report_comments
		WHERE report_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.ReportComment
	for rows.Next() {
		var comment models.ReportComment
		if err := rows.Scan(
			&comment.ID,
			&comment.ReportID,
			&comment.UserID,
			&comment.Body,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}
