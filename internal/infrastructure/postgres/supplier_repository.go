package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/entity"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación de SupplierRepository sobre PostgreSQL (usable con pool o tx).
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador de proveedores. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Upsert inserta el proveedor o actualiza nombre y lead time si ya existe.
func (r *SupplierRepo) Upsert(supplier *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (supplier_id, name, lead_time_days)
		VALUES ($1, $2, $3)
		ON CONFLICT (supplier_id)
		DO UPDATE SET name = EXCLUDED.name, lead_time_days = EXCLUDED.lead_time_days`
	_, err := r.q.Exec(context.Background(), query, supplier.ID, supplier.Name, supplier.LeadTimeDays)
	if err != nil {
		return fmt.Errorf("upsert supplier: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor por su código; nil si no existe.
func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	query := `SELECT supplier_id, name, lead_time_days FROM suppliers WHERE supplier_id = $1`
	var s entity.Supplier
	err := r.q.QueryRow(context.Background(), query, id).Scan(&s.ID, &s.Name, &s.LeadTimeDays)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

// List devuelve proveedores paginados ordenados por código.
func (r *SupplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	query := `
		SELECT supplier_id, name, lead_time_days
		FROM suppliers ORDER BY supplier_id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var out []*entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.LeadTimeDays); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
