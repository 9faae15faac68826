package notification

import (
	"context"
	"time"

	notificationRepo "mediremind/database/repository/notification"
	"mediremind/models"
	"mediremind/services/tasks"
	"mediremind/utils"

	"go.uber.org/zap"
)

// NotificationService is the in-app notification store. Persistence and push
// delivery are decoupled: Create durably records the notification and only
// then enqueues best-effort delivery, so a queue or push problem never fails
// the durable part.
type NotificationService interface {
	Create(ctx context.Context, n models.Notification) (*models.Notification, error)
	AlreadyNotified(ctx context.Context, userID, kind, matchHint string, since time.Time) (bool, error)
	List(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context, userID string) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Repo  notificationRepo.NotificationRepository
	Queue tasks.Enqueuer
}

// Create persists the notification and enqueues push delivery. An enqueue
// failure is logged and swallowed: the backlog drain picks up unsent rows.
func (s *DefaultNotificationService) Create(ctx context.Context, n models.Notification) (*models.Notification, error) {
	if n.Type == "" {
		n.Type = models.KindSystem
	}
	stored, err := s.Repo.Create(ctx, n)
	if err != nil {
		return nil, err
	}

	if s.Queue != nil {
		if err := s.Queue.EnqueueDelivery(models.DeliveryPayload{NotificationID: stored.ID}); err != nil {
			utils.GetLogger().Warn("Failed to enqueue push delivery, backlog drain will retry",
				zap.String("notificationId", stored.ID), zap.Error(err))
		}
	}
	return stored, nil
}

// AlreadyNotified is the dedup gate: true when a notification of the given
// kind mentioning matchHint was already created for the user at or after
// since. Best-effort under concurrency; the store's unique dedup constraint
// closes the race.
func (s *DefaultNotificationService) AlreadyNotified(ctx context.Context, userID, kind, matchHint string, since time.Time) (bool, error) {
	return s.Repo.ExistsSince(ctx, userID, kind, matchHint, since)
}

func (s *DefaultNotificationService) List(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

func (s *DefaultNotificationService) MarkRead(ctx context.Context, id string) error {
	return s.Repo.MarkRead(ctx, id)
}

func (s *DefaultNotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.Repo.MarkAllRead(ctx, userID)
}

func (s *DefaultNotificationService) Delete(ctx context.Context, id string) error {
	return s.Repo.DeleteByID(ctx, id)
}

func (s *DefaultNotificationService) DeleteAll(ctx context.Context, userID string) error {
	return s.Repo.DeleteAllByUser(ctx, userID)
}
