package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/entity"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/repository"
)

var _ repository.StockMoveRepository = (*StockMoveRepo)(nil)

// StockMoveRepo implementación de StockMoveRepository sobre PostgreSQL (usable con pool o tx).
type StockMoveRepo struct {
	q Querier
}

// NewStockMoveRepository construye el adaptador del libro de movimientos. Pasar pool o tx (Querier).
func NewStockMoveRepository(q Querier) *StockMoveRepo {
	return &StockMoveRepo{q: q}
}

// Create inserta un movimiento. Genera el ID si viene vacío.
func (r *StockMoveRepo) Create(move *entity.StockMove) error {
	if move.ID == "" {
		move.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_moves (move_id, medicine_id, batch_id, quantity, reason, note, move_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())`
	_, err := r.q.Exec(context.Background(), query,
		move.ID, move.MedicineID, move.BatchID, move.Quantity, move.Reason, move.Note, move.Date,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create stock move %s: %w", move.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("create stock move: %w", err)
	}
	return nil
}

// List devuelve movimientos según el filtro, del más reciente al más antiguo.
func (r *StockMoveRepo) List(filter repository.MoveFilter) ([]*entity.StockMove, error) {
	query := `
		SELECT move_id, medicine_id, batch_id, quantity, reason, note, move_date, created_at
		FROM stock_moves WHERE 1=1`
	args := []any{}
	idx := 1
	if filter.MedicineID != "" {
		query += fmt.Sprintf(" AND medicine_id = $%d", idx)
		args = append(args, filter.MedicineID)
		idx++
	}
	if filter.Reason != "" {
		query += fmt.Sprintf(" AND reason = $%d", idx)
		args = append(args, filter.Reason)
		idx++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND move_date >= $%d", idx)
		args = append(args, *filter.From)
		idx++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND move_date <= $%d", idx)
		args = append(args, *filter.To)
		idx++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, move_id LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock moves: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMove
	for rows.Next() {
		var m entity.StockMove
		if err := rows.Scan(&m.ID, &m.MedicineID, &m.BatchID, &m.Quantity, &m.Reason, &m.Note, &m.Date, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock move: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// ExistsDailyDose indica si ya hay algún descuento daily_dose registrado para la fecha.
func (r *StockMoveRepo) ExistsDailyDose(date time.Time) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM stock_moves WHERE reason = $1 AND move_date = $2)`
	var exists bool
	err := r.q.QueryRow(context.Background(), query, entity.MoveReasonDailyDose, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists daily dose: %w", err)
	}
	return exists, nil
}

// ListDailyDoseByMedicine devuelve los descuentos daily_dose de un medicamento en la fecha.
func (r *StockMoveRepo) ListDailyDoseByMedicine(medicineID string, date time.Time) ([]*entity.StockMove, error) {
	query := `
		SELECT move_id, medicine_id, batch_id, quantity, reason, note, move_date, created_at
		FROM stock_moves
		WHERE medicine_id = $1 AND reason = $2 AND move_date = $3
		ORDER BY batch_id`
	rows, err := r.q.Query(context.Background(), query, medicineID, entity.MoveReasonDailyDose, date)
	if err != nil {
		return nil, fmt.Errorf("list daily dose moves: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMove
	for rows.Next() {
		var m entity.StockMove
		if err := rows.Scan(&m.ID, &m.MedicineID, &m.BatchID, &m.Quantity, &m.Reason, &m.Note, &m.Date, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan daily dose move: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// DeleteDoseRecords elimina los registros daily_dose y shortfall de un medicamento en la fecha.
// Solo lo usa la reversa del re-run con force, dentro de su transacción.
func (r *StockMoveRepo) DeleteDoseRecords(medicineID string, date time.Time) error {
	query := `
		DELETE FROM stock_moves
		WHERE medicine_id = $1 AND move_date = $2 AND reason IN ($3, $4)`
	_, err := r.q.Exec(context.Background(), query,
		medicineID, date, entity.MoveReasonDailyDose, entity.MoveReasonShortfall,
	)
	if err != nil {
		return fmt.Errorf("delete dose records: %w", err)
	}
	return nil
}
