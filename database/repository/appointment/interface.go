package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"mediremind/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when an appointment id does not exist.
var ErrNotFound = errors.New("appointment not found")

type AppointmentRepository interface {
	Create(ctx context.Context, appt models.Appointment) (*models.Appointment, error)
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]models.Appointment, error)
}

// Querier is the subset of pgxpool.Pool the repository needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgAppointmentRepo struct {
	pool Querier
}

// NewPgAppointmentRepo returns an AppointmentRepository backed by Postgres.
func NewPgAppointmentRepo(pool Querier) AppointmentRepository {
	return &pgAppointmentRepo{pool: pool}
}
