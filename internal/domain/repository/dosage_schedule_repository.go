package repository

import "github.com/Tanmay-Jain0221/med-inventory/internal/domain/entity"

// DosageScheduleRepository define el puerto de lectura/carga del plan diario de tomas.
// El motor de dosis solo lee; la escritura la hace la ingesta.
type DosageScheduleRepository interface {
	Upsert(schedule *entity.DosageSchedule) error
	GetByMedicine(medicineID string) (*entity.DosageSchedule, error)
	// ListDue devuelve los planes con requerimiento diario > 0 (equivalente a la vista v_daily_units).
	ListDue() ([]*entity.DosageSchedule, error)
}
