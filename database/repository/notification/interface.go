package notificationRepo

import (
	"context"
	"errors"
	"time"

	"mediremind/models"
)

var (
	// ErrNotFound is returned when a notification id does not exist.
	ErrNotFound = errors.New("notification not found")
	// ErrDuplicate is returned when the dedup constraint rejects an insert,
	// meaning an equivalent reminder already exists in the current window.
	ErrDuplicate = errors.New("duplicate notification in dedup window")
)

// ListLimit caps a single page of the notification feed.
const ListLimit = 50

type NotificationRepository interface {
	Create(ctx context.Context, n models.Notification) (*models.Notification, error)
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error)
	ExistsSince(ctx context.Context, userID, kind, matchHint string, since time.Time) (bool, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	MarkSent(ctx context.Context, id string) error
	DeleteByID(ctx context.Context, id string) error
	DeleteAllByUser(ctx context.Context, userID string) error
	UnsentBatch(ctx context.Context, limit int) ([]models.Notification, error)
}

type pgNotificationRepo struct {
	pool        Querier
	dedupWindow time.Duration
}

// NewPgNotificationRepo returns a NotificationRepository backed by Postgres.
// dedupWindow is the cool-down used to bucket rows for the dedup constraint.
func NewPgNotificationRepo(pool Querier, dedupWindow time.Duration) NotificationRepository {
	if dedupWindow <= 0 {
		dedupWindow = 12 * time.Hour
	}
	return &pgNotificationRepo{pool: pool, dedupWindow: dedupWindow}
}
