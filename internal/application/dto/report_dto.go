package dto

import "github.com/shopspring/decimal"

// OverviewDTO métricas generales del dashboard.
type OverviewDTO struct {
	Medicines    int             `json:"medicines"`
	Batches      int             `json:"batches"`
	UnitsInStock decimal.Decimal `json:"units_in_stock"`
	DailyPlanned int             `json:"daily_planned"`
}

// LowStockDTO medicamento bajo nivel de reorden (o bajo alerta temprana).
type LowStockDTO struct {
	MedicineID   string          `json:"medicine_id"`
	MedicineName string          `json:"medicine_name"`
	TotalStock   decimal.Decimal `json:"total_stock"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
	DailyUnits   decimal.Decimal `json:"daily_units,omitempty"`
	AlertLevel   decimal.Decimal `json:"alert_level,omitempty"`
	DaysCover    decimal.Decimal `json:"days_cover,omitempty"` // stock / unidades por día
}

// ExpiringBatchDTO lote por vencer dentro de la ventana del reporte.
type ExpiringBatchDTO struct {
	BatchID      int64           `json:"batch_id"`
	MedicineID   string          `json:"medicine_id"`
	MedicineName string          `json:"medicine_name"`
	BatchNo      string          `json:"batch_no"`
	Quantity     decimal.Decimal `json:"quantity"`
	ExpiryDate   string          `json:"expiry_date"` // YYYY-MM-DD
	DaysLeft     int             `json:"days_left"`
}

// BatchStockDTO existencias por lote en orden FEFO.
type BatchStockDTO struct {
	BatchID    int64           `json:"batch_id"`
	MedicineID string          `json:"medicine_id"`
	BatchNo    string          `json:"batch_no"`
	Quantity   decimal.Decimal `json:"quantity"`
	ExpiryDate string          `json:"expiry_date,omitempty"` // vacío = sin vencimiento
}

// StockMoveDTO entrada del libro de movimientos.
type StockMoveDTO struct {
	ID         string          `json:"id"`
	MedicineID string          `json:"medicine_id"`
	BatchID    *int64          `json:"batch_id,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	Reason     string          `json:"reason"`
	Note       string          `json:"note,omitempty"`
	Date       string          `json:"date"` // YYYY-MM-DD
	CreatedAt  string          `json:"created_at"`
}

// MedicineDTO medicamento para listados del dashboard.
type MedicineDTO struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Salt         string          `json:"salt,omitempty"`
	Uses         string          `json:"uses,omitempty"`
	Unit         string          `json:"unit"`
	DailyDose    decimal.Decimal `json:"daily_dose"`
	SupplierID   string          `json:"supplier_id,omitempty"`
	ReorderLevel decimal.Decimal `json:"reorder_level"`
}
