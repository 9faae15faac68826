package notificationRepo

import (
	"context"
	"errors"
	"time"

	"mediremind/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// Create inserts a new notification row. A dedup-constraint rejection is
// surfaced as ErrDuplicate so callers can treat it as suppression.
func (r *pgNotificationRepo) Create(ctx context.Context, n models.Notification) (*models.Notification, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.DedupKey == "" {
		// No dedup semantics for this row; key on the id so the constraint never bites.
		n.DedupKey = n.ID
	}
	n.CreatedAt = time.Now().UTC()
	bucket := n.CreatedAt.Truncate(r.dedupWindow)

	_, err := r.pool.Exec(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, action_url, read, sent, dedup_key, time_bucket, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, FALSE, $7, $8, $9)`,
		n.ID, n.UserID, n.Type, n.Title, n.Message, n.ActionURL, n.DedupKey, bucket, n.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return &n, nil
}

// GetByID returns a notification by its ID.
func (r *pgNotificationRepo) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, type, title, message, action_url, read, read_at, sent, dedup_key, created_at
		FROM notifications WHERE id = $1`, id,
	).Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.ActionURL, &n.Read, &n.ReadAt, &n.Sent, &n.DedupKey, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// MarkRead marks a notification read. Already-read or missing rows are a no-op.
func (r *pgNotificationRepo) MarkRead(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE notifications SET read = TRUE, read_at = COALESCE(read_at, now())
		WHERE id = $1`, id)
	return err
}

// MarkAllRead marks every unread notification for the user as read.
func (r *pgNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE notifications SET read = TRUE, read_at = COALESCE(read_at, now())
		WHERE user_id = $1 AND NOT read`, userID)
	return err
}

// MarkSent records that push delivery has been attempted for the row.
func (r *pgNotificationRepo) MarkSent(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE notifications SET sent = TRUE WHERE id = $1`, id)
	return err
}

// DeleteByID removes a notification. Deleting a missing row is a no-op.
func (r *pgNotificationRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	return err
}

// DeleteAllByUser removes all notifications for the user.
func (r *pgNotificationRepo) DeleteAllByUser(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID)
	return err
}
