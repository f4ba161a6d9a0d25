package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/entity"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/repository"
)

var _ repository.DosageScheduleRepository = (*DosageScheduleRepo)(nil)

// DosageScheduleRepo implementación de DosageScheduleRepository sobre PostgreSQL.
type DosageScheduleRepo struct {
	q Querier
}

// NewDosageScheduleRepository construye el adaptador del plan diario. Pasar pool o tx (Querier).
func NewDosageScheduleRepository(q Querier) *DosageScheduleRepo {
	return &DosageScheduleRepo{q: q}
}

// Upsert inserta o reemplaza el plan diario de un medicamento.
func (r *DosageScheduleRepo) Upsert(schedule *entity.DosageSchedule) error {
	query := `
		INSERT INTO daily_dosage (medicine_id, before_breakfast, after_breakfast, at_8pm, after_dinner)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (medicine_id)
		DO UPDATE SET
			before_breakfast = EXCLUDED.before_breakfast,
			after_breakfast = EXCLUDED.after_breakfast,
			at_8pm = EXCLUDED.at_8pm,
			after_dinner = EXCLUDED.after_dinner`
	_, err := r.q.Exec(context.Background(), query,
		schedule.MedicineID, schedule.BeforeBreakfast, schedule.AfterBreakfast, schedule.AtEightPM, schedule.AfterDinner,
	)
	if err != nil {
		return fmt.Errorf("upsert dosage schedule: %w", err)
	}
	return nil
}

// GetByMedicine obtiene el plan diario de un medicamento; nil si no tiene.
func (r *DosageScheduleRepo) GetByMedicine(medicineID string) (*entity.DosageSchedule, error) {
	query := `
		SELECT medicine_id, before_breakfast, after_breakfast, at_8pm, after_dinner
		FROM daily_dosage WHERE medicine_id = $1`
	var s entity.DosageSchedule
	err := r.q.QueryRow(context.Background(), query, medicineID).Scan(
		&s.MedicineID, &s.BeforeBreakfast, &s.AfterBreakfast, &s.AtEightPM, &s.AfterDinner,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dosage schedule: %w", err)
	}
	return &s, nil
}

// ListDue devuelve los planes con requerimiento diario > 0, ordenados por medicamento.
func (r *DosageScheduleRepo) ListDue() ([]*entity.DosageSchedule, error) {
	query := `
		SELECT medicine_id, before_breakfast, after_breakfast, at_8pm, after_dinner
		FROM daily_dosage
		WHERE before_breakfast + after_breakfast + at_8pm + after_dinner > 0
		ORDER BY medicine_id`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list due schedules: %w", err)
	}
	defer rows.Close()

	var out []*entity.DosageSchedule
	for rows.Next() {
		var s entity.DosageSchedule
		if err := rows.Scan(&s.MedicineID, &s.BeforeBreakfast, &s.AfterBreakfast, &s.AtEightPM, &s.AfterDinner); err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
