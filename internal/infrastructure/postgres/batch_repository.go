package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/entity"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
// El orden FEFO se resuelve en SQL: (expiry_date IS NULL), expiry_date, batch_id.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = `batch_id, medicine_id, batch_no, quantity, expiry_date, updated_at`

// Upsert inserta el lote o, si ya existe (medicine_id, batch_no), actualiza cantidad y vencimiento.
func (r *BatchRepo) Upsert(batch *entity.Batch) error {
	query := `
		INSERT INTO batches (medicine_id, batch_no, quantity, expiry_date, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (medicine_id, batch_no)
		DO UPDATE SET quantity = EXCLUDED.quantity, expiry_date = EXCLUDED.expiry_date, updated_at = now()
		RETURNING batch_id`
	err := r.q.QueryRow(context.Background(), query,
		batch.MedicineID, batch.BatchNo, batch.Quantity, batch.ExpiryDate,
	).Scan(&batch.ID)
	if err != nil {
		return fmt.Errorf("upsert batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por su id; nil si no existe.
func (r *BatchRepo) GetByID(id int64) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE batch_id = $1`
	b, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// GetByMedicineAndNo obtiene un lote por (medicamento, número de lote); nil si no existe.
func (r *BatchRepo) GetByMedicineAndNo(medicineID, batchNo string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE medicine_id = $1 AND batch_no = $2`
	b, err := r.scanOne(r.q.QueryRow(context.Background(), query, medicineID, batchNo))
	if err != nil {
		return nil, fmt.Errorf("get batch by no: %w", err)
	}
	return b, nil
}

// ListEligible devuelve los lotes con stock > 0 y no vencidos a la fecha, en orden FEFO.
func (r *BatchRepo) ListEligible(medicineID string, asOf time.Time) ([]*entity.Batch, error) {
	return r.listEligible(medicineID, asOf, false)
}

// ListEligibleForUpdate igual que ListEligible pero bloqueando las filas (SELECT FOR UPDATE).
func (r *BatchRepo) ListEligibleForUpdate(medicineID string, asOf time.Time) ([]*entity.Batch, error) {
	return r.listEligible(medicineID, asOf, true)
}

func (r *BatchRepo) listEligible(medicineID string, asOf time.Time, forUpdate bool) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE medicine_id = $1
		  AND quantity > 0
		  AND (expiry_date IS NULL OR expiry_date >= $2)
		ORDER BY (expiry_date IS NULL), expiry_date, batch_id`
	if forUpdate {
		query += `
		FOR UPDATE`
	}
	rows, err := r.q.Query(context.Background(), query, medicineID, asOf)
	if err != nil {
		return nil, fmt.Errorf("list eligible batches: %w", err)
	}
	return r.scanAll(rows)
}

// ListExpiredWithStock devuelve lotes con stock > 0 vencidos antes de la fecha (para la baja automática).
// medicineID vacío = todos los medicamentos.
func (r *BatchRepo) ListExpiredWithStock(medicineID string, before time.Time) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE quantity > 0
		  AND expiry_date IS NOT NULL
		  AND expiry_date < $1
		  AND ($2 = '' OR medicine_id = $2)
		ORDER BY medicine_id, expiry_date, batch_id`
	rows, err := r.q.Query(context.Background(), query, before, medicineID)
	if err != nil {
		return nil, fmt.Errorf("list expired batches: %w", err)
	}
	return r.scanAll(rows)
}

// AdjustQuantity suma delta (negativo para descontar) a la cantidad del lote.
// El CHECK (quantity >= 0) de la tabla impide descontar más de lo que hay.
func (r *BatchRepo) AdjustQuantity(batchID int64, delta decimal.Decimal) error {
	query := `UPDATE batches SET quantity = quantity + $2, updated_at = now() WHERE batch_id = $1`
	tag, err := r.q.Exec(context.Background(), query, batchID, delta)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("adjust batch quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetQuantity fija la cantidad exacta del lote (ajuste manual o baja por vencimiento).
func (r *BatchRepo) SetQuantity(batchID int64, quantity decimal.Decimal) error {
	query := `UPDATE batches SET quantity = $2, updated_at = now() WHERE batch_id = $1`
	tag, err := r.q.Exec(context.Background(), query, batchID, quantity)
	if err != nil {
		return fmt.Errorf("set batch quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BatchRepo) scanOne(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	err := row.Scan(&b.ID, &b.MedicineID, &b.BatchNo, &b.Quantity, &b.ExpiryDate, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BatchRepo) scanAll(rows pgx.Rows) ([]*entity.Batch, error) {
	defer rows.Close()
	var out []*entity.Batch
	for rows.Next() {
		var b entity.Batch
		if err := rows.Scan(&b.ID, &b.MedicineID, &b.BatchNo, &b.Quantity, &b.ExpiryDate, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}
