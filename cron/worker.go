package cron

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"mediremind/config"
	appointmentRepo "mediremind/database/repository/appointment"
	notificationRepo "mediremind/database/repository/notification"
	"mediremind/models"
	"mediremind/services/notification"
	"mediremind/services/push"
	"mediremind/services/tasks"
	"mediremind/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitDeliveryWorker runs the async worker in background. It consumes the
// delivery queue (immediate pushes) and the delayed appointment reminders.
func InitDeliveryWorker(
	notifSvc notification.NotificationService,
	notifRepo notificationRepo.NotificationRepository,
	apptRepo appointmentRepo.AppointmentRepository,
	dispatcher push.Dispatcher,
) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypePushDeliver, handleDeliveryTask(notifRepo, dispatcher))
	mux.HandleFunc(tasks.TypeAppointmentReminder, handleAppointmentReminderTask(notifSvc, apptRepo))

	// Start Redis health monitor on the shared queue client.
	go monitorRedisConnection(utils.GetQueueClient())

	// Start async worker with retry logic
	go func() {
		log.Println("[DeliveryWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[DeliveryWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[DeliveryWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

// handleDeliveryTask pushes one persisted notification out to the user's
// endpoints and marks it sent. Already-sent and deleted rows are skipped, so
// redelivered tasks are harmless.
func handleDeliveryTask(notifRepo notificationRepo.NotificationRepository, dispatcher push.Dispatcher) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.DeliveryPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[DeliveryHandler] Invalid payload: %v", err)
			return err
		}

		n, err := notifRepo.GetByID(ctx, p.NotificationID)
		if errors.Is(err, notificationRepo.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if n.Sent {
			return nil
		}

		result, err := dispatcher.Dispatch(ctx, n.UserID, models.PushPayload{
			Title: n.Title,
			Body:  n.Message,
			URL:   n.ActionURL,
			Tag:   n.Type,
		})
		if err != nil {
			// Subscription load or signing config failed. Leave the row
			// unsent so the backlog drain retries it; don't keep the task.
			log.Printf("[DeliveryHandler] Dispatch failed for %s: %v", n.ID, err)
			return nil
		}

		log.Printf("[DeliveryHandler] Delivered %s to %d/%d endpoints", n.ID, result.Delivered, result.Total)
		return notifRepo.MarkSent(ctx, n.ID)
	}
}

// handleAppointmentReminderTask fires the scheduled 24h-before reminder. The
// appointment is re-checked at fire time so cancelled appointments stay quiet,
// and the dedup gate suppresses the reminder when the periodic scanner
// already created it.
func handleAppointmentReminderTask(notifSvc notification.NotificationService, apptRepo appointmentRepo.AppointmentRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] Invalid payload: %v", err)
			return err
		}

		appt, err := apptRepo.GetByID(ctx, p.AppointmentID)
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if appt.Status != "scheduled" {
			return nil
		}

		_, err = notifSvc.Create(ctx, models.Notification{
			UserID:    p.UserID,
			Type:      models.KindAppointmentReminder,
			Title:     p.Title,
			Message:   p.Body,
			ActionURL: "/appointments/" + p.AppointmentID,
			DedupKey:  p.AppointmentID,
		})
		if errors.Is(err, notificationRepo.ErrDuplicate) {
			return nil
		}
		if err != nil {
			log.Printf("[ReminderHandler] Failed to create reminder: %v", err)
		}
		return err
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection(client *redis.Client) {
	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[DeliveryWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
