package tasks

import (
	"encoding/json"
	"time"

	"mediremind/config"
	"mediremind/models"

	"github.com/hibiken/asynq"
)

const (
	// TypePushDeliver delivers an already-persisted notification to the
	// user's push endpoints.
	TypePushDeliver = "push:deliver"
	// TypeAppointmentReminder fires the 24h-before appointment reminder.
	TypeAppointmentReminder = "reminder:appointment"
)

// NewDeliveryTask builds the queue task for delivering one notification.
func NewDeliveryTask(payload models.DeliveryPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePushDeliver, b), nil
}

// NewAppointmentReminderTask builds a delayed reminder task that the worker
// processes at fireAt.
func NewAppointmentReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeAppointmentReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// Enqueuer abstracts the queue client so services and tests do not depend on
// a live Redis connection.
type Enqueuer interface {
	EnqueueDelivery(payload models.DeliveryPayload) error
	ScheduleAppointmentReminder(payload models.ReminderPayload, fireAt time.Time) error
}

// QueueClient is the production Enqueuer backed by asynq.
type QueueClient struct {
	client *asynq.Client
}

// NewQueueClient creates the asynq client from the application config.
func NewQueueClient() *QueueClient {
	return &QueueClient{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		}),
	}
}

func (q *QueueClient) EnqueueDelivery(payload models.DeliveryPayload) error {
	task, err := NewDeliveryTask(payload)
	if err != nil {
		return err
	}
	_, err = q.client.Enqueue(task)
	return err
}

func (q *QueueClient) ScheduleAppointmentReminder(payload models.ReminderPayload, fireAt time.Time) error {
	task, opts, err := NewAppointmentReminderTask(payload, fireAt)
	if err != nil {
		return err
	}
	_, err = q.client.Enqueue(task, opts...)
	return err
}

// Close releases the underlying asynq client.
func (q *QueueClient) Close() error {
	return q.client.Close()
}
