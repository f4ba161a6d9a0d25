package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/entity"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/repository"
)

var _ repository.MedicineRepository = (*MedicineRepo)(nil)

// MedicineRepo implementación de MedicineRepository sobre PostgreSQL (usable con pool o tx).
type MedicineRepo struct {
	q Querier
}

// NewMedicineRepository construye el adaptador de medicamentos. Pasar pool o tx (Querier).
func NewMedicineRepository(q Querier) *MedicineRepo {
	return &MedicineRepo{q: q}
}

// Upsert inserta el medicamento o actualiza sus atributos editables si ya existe.
func (r *MedicineRepo) Upsert(medicine *entity.Medicine) error {
	query := `
		INSERT INTO medicines (medicine_id, name, salt, uses, unit, daily_dose, supplier_id, reorder_level, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, now())
		ON CONFLICT (medicine_id)
		DO UPDATE SET
			name = EXCLUDED.name,
			salt = EXCLUDED.salt,
			uses = EXCLUDED.uses,
			unit = EXCLUDED.unit,
			daily_dose = EXCLUDED.daily_dose,
			supplier_id = EXCLUDED.supplier_id,
			reorder_level = EXCLUDED.reorder_level`
	_, err := r.q.Exec(context.Background(), query,
		medicine.ID, medicine.Name, medicine.Salt, medicine.Uses, medicine.Unit,
		medicine.DailyDose, medicine.SupplierID, medicine.ReorderLevel,
	)
	if err != nil {
		return fmt.Errorf("upsert medicine: %w", err)
	}
	return nil
}

// GetByID obtiene un medicamento por su código; nil si no existe.
func (r *MedicineRepo) GetByID(id string) (*entity.Medicine, error) {
	query := `
		SELECT medicine_id, name, salt, uses, unit, daily_dose, COALESCE(supplier_id, ''), reorder_level, created_at
		FROM medicines WHERE medicine_id = $1`
	var m entity.Medicine
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.Name, &m.Salt, &m.Uses, &m.Unit, &m.DailyDose, &m.SupplierID, &m.ReorderLevel, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get medicine: %w", err)
	}
	return &m, nil
}

// List devuelve medicamentos paginados ordenados por código.
func (r *MedicineRepo) List(limit, offset int) ([]*entity.Medicine, error) {
	query := `
		SELECT medicine_id, name, salt, uses, unit, daily_dose, COALESCE(supplier_id, ''), reorder_level, created_at
		FROM medicines ORDER BY medicine_id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	defer rows.Close()

	var out []*entity.Medicine
	for rows.Next() {
		var m entity.Medicine
		if err := rows.Scan(&m.ID, &m.Name, &m.Salt, &m.Uses, &m.Unit, &m.DailyDose, &m.SupplierID, &m.ReorderLevel, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan medicine: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
