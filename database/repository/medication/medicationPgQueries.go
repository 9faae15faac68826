package medicationRepo

import (
	"context"
	"time"

	"mediremind/models"
)

// ListActive returns medications whose course covers today: started on or
// before today and either open-ended or not yet finished.
func (r *pgMedicationRepo) ListActive(ctx context.Context, today time.Time) ([]models.Medication, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, dosage, frequency, start_date, end_date, created_at
		FROM medications
		WHERE start_date <= $1::date
		  AND (end_date IS NULL OR end_date >= $1::date)`, today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Medication
	for rows.Next() {
		var m models.Medication
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Dosage, &m.Frequency, &m.StartDate, &m.EndDate, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
