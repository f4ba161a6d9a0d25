package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch representa un lote de un medicamento con su propia fecha de vencimiento.
// Quantity nunca baja de cero; un lote en cero sigue visible (histórico) pero
// el asignador FEFO jamás lo selecciona.
type Batch struct {
	ID         int64  // generado por la DB
	MedicineID string
	BatchNo    string // número de lote; único por medicamento
	Quantity   decimal.Decimal
	ExpiryDate *time.Time // nil = sin vencimiento; se consume de último
	UpdatedAt  time.Time
}

// Expired indica si el lote está vencido respecto a la fecha dada (sin vencimiento = nunca).
func (b *Batch) Expired(asOf time.Time) bool {
	if b.ExpiryDate == nil {
		return false
	}
	return b.ExpiryDate.Before(asOf)
}
