package repository

import (
	"time"

	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/entity"
)

// MoveFilter filtros del listado del libro de movimientos.
type MoveFilter struct {
	MedicineID string
	Reason     string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// StockMoveRepository define el puerto de persistencia del libro de movimientos.
// El libro es append-only: solo el camino force de la corrida diaria puede
// retirar los registros daily_dose/shortfall de una fecha al reemplazarlos.
type StockMoveRepository interface {
	Create(move *entity.StockMove) error
	List(filter MoveFilter) ([]*entity.StockMove, error)

	// ExistsDailyDose indica si ya hay algún descuento daily_dose registrado para la fecha.
	ExistsDailyDose(date time.Time) (bool, error)
	// ListDailyDoseByMedicine devuelve los descuentos daily_dose de un medicamento en la fecha.
	ListDailyDoseByMedicine(medicineID string, date time.Time) ([]*entity.StockMove, error)
	// DeleteDoseRecords elimina los registros daily_dose y shortfall de un medicamento
	// en la fecha. Solo lo usa la reversa del re-run con force, dentro de su transacción.
	DeleteDoseRecords(medicineID string, date time.Time) error
}
