package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"roadsense/api/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Create(ctx context.Context, notification models.Notification) error {
	const query = `
		INSERT INTO notifications (id, user_id, kind, title, body, report_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`

	_, err := r.pool.Exec(ctx, query,
		notification.ID,
		notification.UserID,
		notification.Kind,
		notification.Title,
		notification.Body,
		notification.ReportID,
	)
	return err
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	const query = `
		SELECT id, user_id, kind, title, body, report_id, read_at, created_at
		FROM notifications
		WHERE user_id = $1
		  AND (NOT $2 OR read_at IS NULL)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, query, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Kind,
			&n.Title,
			&n.Body,
			&n.ReportID,
			&n.ReadAt,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL`
	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// MarkRead is scoped to the owner so one user cannot touch another's inbox.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID string, id string) error {
	const query = `
		UPDATE notifications
		SET read_at = NOW()
		WHERE id = $1 AND user_id = $2 AND read_at IS NULL
	`
	cmd, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return r.exists(ctx, userID, id)
	}
	return nil
}

func (r *NotificationRepository) exists(ctx context.Context, userID string, id string) error {
	const query = `SELECT 1 FROM notifications WHERE id = $1 AND user_id = $2`
	var one int
	if err := r.pool.QueryRow(ctx, query, id, userID).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	const query = `UPDATE notifications SET read_at = NOW() WHERE user_id = $1 AND read_at IS NULL`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}

func (r *NotificationRepository) Delete(ctx context.Context, userID string, id string) error {
	const query = `DELETE FROM notifications WHERE id = $1 AND user_id = $2`
	cmd, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
