package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OverviewResult métricas generales del inventario.
type OverviewResult struct {
	Medicines    int
	Batches      int
	UnitsInStock decimal.Decimal
	DailyPlanned int // medicamentos con requerimiento diario > 0
}

// LowStockResult resultado crudo de la consulta de medicamentos bajo reorden.
// Lo produce la DB; el use case lo convierte en DTO.
type LowStockResult struct {
	MedicineID   string
	MedicineName string
	TotalStock   decimal.Decimal
	ReorderLevel decimal.Decimal
	DailyUnits   decimal.Decimal // 0 si el medicamento no está en el plan diario
}

// ExpiringBatchResult lote por vencer dentro de la ventana consultada.
type ExpiringBatchResult struct {
	BatchID      int64
	MedicineID   string
	MedicineName string
	BatchNo      string
	Quantity     decimal.Decimal
	ExpiryDate   time.Time
}

// BatchStockResult existencias por lote en orden FEFO.
type BatchStockResult struct {
	BatchID    int64
	MedicineID string
	BatchNo    string
	Quantity   decimal.Decimal
	ExpiryDate *time.Time
}

// ReportRepository define las consultas read-only de la superficie de reportes.
// Las implementaciones no modifican datos.
type ReportRepository interface {
	GetOverview(ctx context.Context) (*OverviewResult, error)

	// ListLowStock devuelve medicamentos con stock total <= reorder_level.
	ListLowStock(ctx context.Context) ([]LowStockResult, error)
	// ListLowStockAlerts restringe a medicamentos del plan diario con
	// stock < factor × reorder_level (alerta temprana del dashboard original).
	ListLowStockAlerts(ctx context.Context, factor float64) ([]LowStockResult, error)

	// ListExpiring devuelve lotes con stock que vencen dentro de [now, now+window].
	ListExpiring(ctx context.Context, now time.Time, window time.Duration) ([]ExpiringBatchResult, error)

	// ListBatchStock devuelve existencias por lote en orden FEFO.
	// medicineID vacío = todos; inStockOnly filtra cantidad > 0.
	ListBatchStock(ctx context.Context, medicineID string, inStockOnly bool) ([]BatchStockResult, error)
}
