package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"mediremind/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Create inserts a new appointment and returns the stored row.
func (r *pgAppointmentRepo) Create(ctx context.Context, appt models.Appointment) (*models.Appointment, error) {
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	if appt.Status == "" {
		appt.Status = "scheduled"
	}
	appt.CreatedAt = time.Now().UTC()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointments (id, user_id, title, location, scheduled_at, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		appt.ID, appt.UserID, appt.Title, appt.Location, appt.ScheduledAt, appt.Status, appt.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

// GetByID returns an appointment by its ID.
func (r *pgAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	var a models.Appointment
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, title, location, scheduled_at, status, created_at
		FROM appointments WHERE id = $1`, id,
	).Scan(&a.ID, &a.UserID, &a.Title, &a.Location, &a.ScheduledAt, &a.Status, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListBetween returns scheduled appointments in [from, to], soonest first.
// Cancelled appointments are excluded so they never fire reminders.
func (r *pgAppointmentRepo) ListBetween(ctx context.Context, from, to time.Time) ([]models.Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, title, location, scheduled_at, status, created_at
		FROM appointments
		WHERE scheduled_at BETWEEN $1 AND $2
		  AND status = 'scheduled'
		ORDER BY scheduled_at ASC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Appointment
	for rows.Next() {
		var a models.Appointment
		if err := rows.Scan(&a.ID, &a.UserID, &a.Title, &a.Location, &a.ScheduledAt, &a.Status, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
