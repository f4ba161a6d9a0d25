package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Razones de movimiento de stock (value object conceptual).
const (
	MoveReasonReceipt    = "receipt"    // entrada de unidades a un lote
	MoveReasonDailyDose  = "daily_dose" // descuento FEFO de la dosis diaria
	MoveReasonExpired    = "expired"    // baja automática de lote vencido
	MoveReasonAdjustment = "adjustment" // ajuste manual a cantidad exacta
	MoveReasonShortfall  = "shortfall"  // demanda no cubierta (registro sin lote, qty 0)
)

// StockMove es una entrada inmutable del libro de movimientos (audit trail).
// Quantity es negativa para descuentos y positiva para entradas; los registros
// de shortfall llevan BatchID nil y Quantity cero, con el faltante en la nota.
// Date es la fecha efectiva del movimiento y la clave de idempotencia del
// motor de dosis: (medicamento, fecha, reason=daily_dose).
type StockMove struct {
	ID         string // uuid
	MedicineID string
	BatchID    *int64
	Quantity   decimal.Decimal
	Reason     string
	Note       string
	Date       time.Time // fecha efectiva (día de la corrida)
	CreatedAt  time.Time
}
