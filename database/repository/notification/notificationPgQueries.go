package notificationRepo

import (
	"context"
	"time"

	"mediremind/models"
)

// ListByUser returns the user's notifications newest-first. Pages are capped
// at ListLimit regardless of the requested limit.
func (r *pgNotificationRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error) {
	if limit <= 0 || limit > ListLimit {
		limit = ListLimit
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, type, title, message, action_url, read, read_at, sent, dedup_key, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.ActionURL, &n.Read, &n.ReadAt, &n.Sent, &n.DedupKey, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// ExistsSince reports whether the user already has a notification of the given
// kind created at or after since whose message mentions matchHint. This is the
// dedup gate's fast path; the unique constraint covers the race.
func (r *pgNotificationRepo) ExistsSince(ctx context.Context, userID, kind, matchHint string, since time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE user_id = $1 AND type = $2 AND created_at >= $3
			  AND message ILIKE '%' || $4 || '%'
		)`, userID, kind, since, matchHint,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// UnsentBatch returns up to limit notifications still awaiting push delivery,
// oldest first.
func (r *pgNotificationRepo) UnsentBatch(ctx context.Context, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > ListLimit {
		limit = ListLimit
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, type, title, message, action_url, read, read_at, sent, dedup_key, created_at
		FROM notifications
		WHERE NOT sent
		ORDER BY created_at ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.ActionURL, &n.Read, &n.ReadAt, &n.Sent, &n.DedupKey, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
