package notification

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	notificationRepo "mediremind/database/repository/notification"
	"mediremind/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNotificationRepo mimics the Postgres repository, including the dedup
// constraint and idempotent state transitions.
type fakeNotificationRepo struct {
	rows      map[string]*models.Notification
	dedup     map[string]bool
	createErr error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{
		rows:  make(map[string]*models.Notification),
		dedup: make(map[string]bool),
	}
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n models.Notification) (*models.Notification, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.DedupKey == "" {
		n.DedupKey = n.ID
	}
	key := n.UserID + "|" + n.Type + "|" + n.DedupKey
	if f.dedup[key] {
		return nil, notificationRepo.ErrDuplicate
	}
	f.dedup[key] = true
	n.CreatedAt = time.Now().UTC()
	f.rows[n.ID] = &n
	return &n, nil
}

func (f *fakeNotificationRepo) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	n, ok := f.rows[id]
	if !ok {
		return nil, notificationRepo.ErrNotFound
	}
	return n, nil
}

func (f *fakeNotificationRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range f.rows {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) ExistsSince(ctx context.Context, userID, kind, matchHint string, since time.Time) (bool, error) {
	for _, n := range f.rows {
		if n.UserID != userID || n.Type != kind || n.CreatedAt.Before(since) {
			continue
		}
		// Same fuzzy match as the ILIKE query in the Postgres repository.
		if strings.Contains(strings.ToLower(n.Message), strings.ToLower(matchHint)) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id string) error {
	if n, ok := f.rows[id]; ok && !n.Read {
		n.Read = true
		now := time.Now().UTC()
		n.ReadAt = &now
	}
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	for _, n := range f.rows {
		if n.UserID == userID {
			_ = f.MarkRead(ctx, n.ID)
		}
	}
	return nil
}

func (f *fakeNotificationRepo) MarkSent(ctx context.Context, id string) error {
	if n, ok := f.rows[id]; ok {
		n.Sent = true
	}
	return nil
}

func (f *fakeNotificationRepo) DeleteByID(ctx context.Context, id string) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeNotificationRepo) DeleteAllByUser(ctx context.Context, userID string) error {
	for id, n := range f.rows {
		if n.UserID == userID {
			delete(f.rows, id)
		}
	}
	return nil
}

func (f *fakeNotificationRepo) UnsentBatch(ctx context.Context, limit int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range f.rows {
		if !n.Sent {
			out = append(out, *n)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeEnqueuer struct {
	deliveries []models.DeliveryPayload
	reminders  []models.ReminderPayload
	err        error
}

func (f *fakeEnqueuer) EnqueueDelivery(p models.DeliveryPayload) error {
	if f.err != nil {
		return f.err
	}
	f.deliveries = append(f.deliveries, p)
	return nil
}

func (f *fakeEnqueuer) ScheduleAppointmentReminder(p models.ReminderPayload, fireAt time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.reminders = append(f.reminders, p)
	return nil
}

func TestCreatePersistsAndEnqueuesDelivery(t *testing.T) {
	repo := newFakeNotificationRepo()
	queue := &fakeEnqueuer{}
	svc := &DefaultNotificationService{Repo: repo, Queue: queue}

	n, err := svc.Create(context.Background(), models.Notification{
		UserID: "user-1", Title: "Medication Reminder", Message: "Time to take your Metformin",
		Type: models.KindMedicationReminder,
	})

	require.NoError(t, err)
	require.Len(t, queue.deliveries, 1)
	assert.Equal(t, n.ID, queue.deliveries[0].NotificationID)
	assert.False(t, n.Sent)
}

func TestCreateSucceedsWhenEnqueueFails(t *testing.T) {
	// Persistence and delivery are decoupled: a queue outage must not fail
	// the durable part. The backlog drain picks the row up later.
	repo := newFakeNotificationRepo()
	queue := &fakeEnqueuer{err: errors.New("redis down")}
	svc := &DefaultNotificationService{Repo: repo, Queue: queue}

	n, err := svc.Create(context.Background(), models.Notification{
		UserID: "user-1", Title: "Test",
	})

	require.NoError(t, err)
	_, err = repo.GetByID(context.Background(), n.ID)
	assert.NoError(t, err, "notification row must exist despite the enqueue failure")
}

func TestCreateDefaultsKind(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := &DefaultNotificationService{Repo: repo}

	n, err := svc.Create(context.Background(), models.Notification{UserID: "user-1", Title: "Test"})

	require.NoError(t, err)
	assert.Equal(t, models.KindSystem, n.Type)
}

func TestCreatePropagatesDuplicate(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := &DefaultNotificationService{Repo: repo, Queue: &fakeEnqueuer{}}
	input := models.Notification{
		UserID: "user-1", Type: models.KindMedicationReminder,
		Title: "Medication Reminder", DedupKey: "med-1",
	}

	_, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), input)

	assert.ErrorIs(t, err, notificationRepo.ErrDuplicate)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := &DefaultNotificationService{Repo: repo}
	n, err := svc.Create(context.Background(), models.Notification{UserID: "user-1", Title: "Test"})
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(context.Background(), n.ID))
	stored, err := repo.GetByID(context.Background(), n.ID)
	require.NoError(t, err)
	firstReadAt := stored.ReadAt

	require.NoError(t, svc.MarkRead(context.Background(), n.ID), "second markRead must not error")
	stored, err = repo.GetByID(context.Background(), n.ID)
	require.NoError(t, err)
	assert.True(t, stored.Read)
	assert.Equal(t, firstReadAt, stored.ReadAt, "read_at is set once")

	// Marking a deleted row is a no-op, not an error.
	require.NoError(t, svc.Delete(context.Background(), n.ID))
	assert.NoError(t, svc.MarkRead(context.Background(), n.ID))
}

func TestAlreadyNotifiedWithinCooldown(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := &DefaultNotificationService{Repo: repo}
	_, err := svc.Create(context.Background(), models.Notification{
		UserID: "user-1", Type: models.KindMedicationReminder,
		Title: "Medication Reminder", Message: "Time to take your Metformin",
	})
	require.NoError(t, err)

	dup, err := svc.AlreadyNotified(context.Background(), "user-1", models.KindMedicationReminder,
		"Metformin", time.Now().Add(-12*time.Hour))
	require.NoError(t, err)
	assert.True(t, dup)

	// A reminder for a different medication is not suppressed.
	other, err := svc.AlreadyNotified(context.Background(), "user-1", models.KindMedicationReminder,
		"Lisinopril", time.Now().Add(-12*time.Hour))
	require.NoError(t, err)
	assert.False(t, other)
}
