package push

import (
	"context"

	notificationRepo "mediremind/database/repository/notification"
	"mediremind/models"
	"mediremind/utils"

	"go.uber.org/zap"
)

// DrainBatchSize bounds how much backlog one drain invocation takes on. The
// next scheduled tick picks up whatever remains.
const DrainBatchSize = 50

// BacklogDrainer sweeps notifications whose queued delivery was lost (for
// example during a Redis outage) and pushes them out.
type BacklogDrainer struct {
	Notifs     notificationRepo.NotificationRepository
	Dispatcher Dispatcher
}

// Drain delivers up to DrainBatchSize unsent notifications. Rows are marked
// sent after the attempt regardless of per-endpoint outcomes: delivery is
// best-effort and a notification is never retried endpoint-by-endpoint.
func (b *BacklogDrainer) Drain(ctx context.Context) (int, error) {
	logger := utils.GetLogger()

	batch, err := b.Notifs.UnsentBatch(ctx, DrainBatchSize)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, n := range batch {
		result, err := b.Dispatcher.Dispatch(ctx, n.UserID, models.PushPayload{
			Title: n.Title,
			Body:  n.Message,
			URL:   n.ActionURL,
			Tag:   n.Type,
		})
		if err != nil {
			logger.Error("Backlog dispatch failed",
				zap.String("notificationId", n.ID), zap.Error(err))
			continue
		}
		if err := b.Notifs.MarkSent(ctx, n.ID); err != nil {
			logger.Error("Failed to mark notification sent",
				zap.String("notificationId", n.ID), zap.Error(err))
			continue
		}
		processed++
		logger.Debug("Backlog notification delivered",
			zap.String("notificationId", n.ID),
			zap.Int("delivered", result.Delivered),
			zap.Int("total", result.Total))
	}
	return processed, nil
}
