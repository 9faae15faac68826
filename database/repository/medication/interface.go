package medicationRepo

import (
	"context"
	"time"

	"mediremind/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MedicationRepository is the scanner's read-only view of prescribed courses.
// Patient-facing flows own writes.
type MedicationRepository interface {
	ListActive(ctx context.Context, today time.Time) ([]models.Medication, error)
}

// Querier is the subset of pgxpool.Pool the repository needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgMedicationRepo struct {
	pool Querier
}

// NewPgMedicationRepo returns a MedicationRepository backed by Postgres.
func NewPgMedicationRepo(pool Querier) MedicationRepository {
	return &pgMedicationRepo{pool: pool}
}
