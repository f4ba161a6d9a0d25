package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/repository"
	"github.com/Tanmay-Jain0221/med-inventory/pkg/logger"
)

// Loader persiste el catálogo leído de los CSV mediante upserts.
// La ingesta es idempotente: volver a correrla con la misma planilla deja la
// base igual; el libro de movimientos no se toca (las cantidades iniciales
// entran como estado de lote, no como movimientos).
type Loader struct {
	supplierRepo repository.SupplierRepository
	medicineRepo repository.MedicineRepository
	batchRepo    repository.BatchRepository
	scheduleRepo repository.DosageScheduleRepository
	log          *logger.Logger
}

// NewLoader construye el cargador.
func NewLoader(
	supplierRepo repository.SupplierRepository,
	medicineRepo repository.MedicineRepository,
	batchRepo repository.BatchRepository,
	scheduleRepo repository.DosageScheduleRepository,
	log *logger.Logger,
) *Loader {
	return &Loader{
		supplierRepo: supplierRepo,
		medicineRepo: medicineRepo,
		batchRepo:    batchRepo,
		scheduleRepo: scheduleRepo,
		log:          log,
	}
}

// Summary contadores de la carga.
type Summary struct {
	Suppliers int
	Medicines int
	Batches   int
	Schedules int
}

// LoadDir carga los cuatro CSV del directorio dado. Los archivos ausentes se
// saltan (cada planilla puede exportarse por separado).
func (l *Loader) LoadDir(dir string) (*Summary, error) {
	var sum Summary

	if path, ok := present(dir, "suppliers.csv"); ok {
		suppliers, err := ReadSuppliers(path)
		if err != nil {
			return nil, err
		}
		for _, s := range suppliers {
			if err := l.supplierRepo.Upsert(s); err != nil {
				return nil, fmt.Errorf("proveedor %s: %w", s.ID, err)
			}
		}
		sum.Suppliers = len(suppliers)
	}

	if path, ok := present(dir, "medicines.csv"); ok {
		medicines, err := ReadMedicines(path)
		if err != nil {
			return nil, err
		}
		for _, m := range medicines {
			if err := l.medicineRepo.Upsert(m); err != nil {
				return nil, fmt.Errorf("medicamento %s: %w", m.ID, err)
			}
		}
		sum.Medicines = len(medicines)
	}

	if path, ok := present(dir, "batches.csv"); ok {
		batches, err := ReadBatches(path)
		if err != nil {
			return nil, err
		}
		for _, b := range batches {
			if err := l.batchRepo.Upsert(b); err != nil {
				return nil, fmt.Errorf("lote %s/%s: %w", b.MedicineID, b.BatchNo, err)
			}
		}
		sum.Batches = len(batches)
	}

	if path, ok := present(dir, "dosage.csv"); ok {
		schedules, err := ReadDosage(path)
		if err != nil {
			return nil, err
		}
		for _, s := range schedules {
			if err := l.scheduleRepo.Upsert(s); err != nil {
				return nil, fmt.Errorf("plan diario %s: %w", s.MedicineID, err)
			}
		}
		sum.Schedules = len(schedules)
	}

	l.log.Info().
		Int("suppliers", sum.Suppliers).
		Int("medicines", sum.Medicines).
		Int("batches", sum.Batches).
		Int("schedules", sum.Schedules).
		Msg("ingesta completada")
	return &sum, nil
}

func present(dir, name string) (string, bool) {
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}
