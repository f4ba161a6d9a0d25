package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas read-only de la superficie de reportes del dashboard.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes. Pasar pool o tx (Querier).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// GetOverview devuelve las métricas generales del inventario.
func (r *ReportRepo) GetOverview(ctx context.Context) (*repository.OverviewResult, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM medicines),
			(SELECT COUNT(*) FROM batches),
			(SELECT COALESCE(SUM(quantity), 0) FROM batches),
			(SELECT COUNT(*) FROM v_daily_units WHERE daily_units > 0)`
	var o repository.OverviewResult
	err := r.q.QueryRow(ctx, query).Scan(&o.Medicines, &o.Batches, &o.UnitsInStock, &o.DailyPlanned)
	if err != nil {
		return nil, fmt.Errorf("get overview: %w", err)
	}
	return &o, nil
}

// ListLowStock devuelve medicamentos con stock total <= reorder_level.
func (r *ReportRepo) ListLowStock(ctx context.Context) ([]repository.LowStockResult, error) {
	query := `
		SELECT m.medicine_id, m.name,
		       COALESCE(SUM(b.quantity), 0) AS total_stock,
		       m.reorder_level,
		       COALESCE(v.daily_units, 0)
		FROM medicines m
		LEFT JOIN batches b ON b.medicine_id = m.medicine_id
		LEFT JOIN v_daily_units v ON v.medicine_id = m.medicine_id
		GROUP BY m.medicine_id, m.name, m.reorder_level, v.daily_units
		HAVING COALESCE(SUM(b.quantity), 0) <= m.reorder_level
		ORDER BY total_stock, m.medicine_id`
	return r.queryLowStock(ctx, query)
}

// ListLowStockAlerts restringe a medicamentos del plan diario con
// stock < factor × reorder_level (la alerta temprana del dashboard).
func (r *ReportRepo) ListLowStockAlerts(ctx context.Context, factor float64) ([]repository.LowStockResult, error) {
	query := `
		SELECT m.medicine_id, m.name,
		       COALESCE(SUM(b.quantity), 0) AS total_stock,
		       m.reorder_level,
		       v.daily_units
		FROM medicines m
		JOIN v_daily_units v ON v.medicine_id = m.medicine_id AND v.daily_units > 0
		LEFT JOIN batches b ON b.medicine_id = m.medicine_id
		GROUP BY m.medicine_id, m.name, m.reorder_level, v.daily_units
		HAVING COALESCE(SUM(b.quantity), 0) < m.reorder_level * $1
		ORDER BY total_stock / v.daily_units, m.medicine_id`
	return r.queryLowStock(ctx, query, factor)
}

func (r *ReportRepo) queryLowStock(ctx context.Context, query string, args ...any) ([]repository.LowStockResult, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()

	var out []repository.LowStockResult
	for rows.Next() {
		var l repository.LowStockResult
		if err := rows.Scan(&l.MedicineID, &l.MedicineName, &l.TotalStock, &l.ReorderLevel, &l.DailyUnits); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListExpiring devuelve lotes con stock que vencen dentro de [now, now+window].
func (r *ReportRepo) ListExpiring(ctx context.Context, now time.Time, window time.Duration) ([]repository.ExpiringBatchResult, error) {
	query := `
		SELECT b.batch_id, b.medicine_id, m.name, b.batch_no, b.quantity, b.expiry_date
		FROM batches b
		JOIN medicines m ON m.medicine_id = b.medicine_id
		WHERE b.quantity > 0
		  AND b.expiry_date IS NOT NULL
		  AND b.expiry_date >= $1
		  AND b.expiry_date <= $2
		ORDER BY b.expiry_date, b.batch_id`
	rows, err := r.q.Query(ctx, query, now, now.Add(window))
	if err != nil {
		return nil, fmt.Errorf("list expiring: %w", err)
	}
	defer rows.Close()

	var out []repository.ExpiringBatchResult
	for rows.Next() {
		var e repository.ExpiringBatchResult
		if err := rows.Scan(&e.BatchID, &e.MedicineID, &e.MedicineName, &e.BatchNo, &e.Quantity, &e.ExpiryDate); err != nil {
			return nil, fmt.Errorf("scan expiring: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListBatchStock devuelve existencias por lote en orden FEFO.
func (r *ReportRepo) ListBatchStock(ctx context.Context, medicineID string, inStockOnly bool) ([]repository.BatchStockResult, error) {
	query := `
		SELECT batch_id, medicine_id, batch_no, quantity, expiry_date
		FROM batches
		WHERE ($1 = '' OR medicine_id = $1)
		  AND (NOT $2 OR quantity > 0)
		ORDER BY medicine_id, (expiry_date IS NULL), expiry_date, batch_id`
	rows, err := r.q.Query(ctx, query, medicineID, inStockOnly)
	if err != nil {
		return nil, fmt.Errorf("list batch stock: %w", err)
	}
	defer rows.Close()

	var out []repository.BatchStockResult
	for rows.Next() {
		var b repository.BatchStockResult
		if err := rows.Scan(&b.BatchID, &b.MedicineID, &b.BatchNo, &b.Quantity, &b.ExpiryDate); err != nil {
			return nil, fmt.Errorf("scan batch stock: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
