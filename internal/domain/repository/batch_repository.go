package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia para lotes.
// Los listados "eligible" vienen pre-ordenados según el orden total FEFO:
// vencimiento ascendente, sin vencimiento al final, empates por batch_id.
type BatchRepository interface {
	// Upsert inserta el lote o, si ya existe (medicine_id, batch_no), actualiza cantidad y vencimiento.
	Upsert(batch *entity.Batch) error
	GetByID(id int64) (*entity.Batch, error)
	GetByMedicineAndNo(medicineID, batchNo string) (*entity.Batch, error)

	// ListEligible devuelve los lotes con stock > 0 y no vencidos a la fecha, en orden FEFO.
	ListEligible(medicineID string, asOf time.Time) ([]*entity.Batch, error)
	// ListEligibleForUpdate igual que ListEligible pero bloqueando las filas (SELECT FOR UPDATE).
	// Usar solo dentro de una transacción.
	ListEligibleForUpdate(medicineID string, asOf time.Time) ([]*entity.Batch, error)
	// ListExpiredWithStock devuelve lotes con stock > 0 vencidos antes de la fecha (para la baja automática).
	ListExpiredWithStock(medicineID string, before time.Time) ([]*entity.Batch, error)

	// AdjustQuantity suma delta (negativo para descontar) a la cantidad del lote.
	// Falla si el resultado quedara por debajo de cero.
	AdjustQuantity(batchID int64, delta decimal.Decimal) error
	// SetQuantity fija la cantidad exacta del lote (ajuste manual).
	SetQuantity(batchID int64, quantity decimal.Decimal) error
}
