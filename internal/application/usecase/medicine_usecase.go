package usecase

import (
	"github.com/Tanmay-Jain0221/med-inventory/internal/application/dto"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/entity"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/repository"
)

// MedicineUseCase consultas de catálogo de medicamentos para el dashboard.
type MedicineUseCase struct {
	medicineRepo repository.MedicineRepository
}

// NewMedicineUseCase construye el caso de uso.
func NewMedicineUseCase(medicineRepo repository.MedicineRepository) *MedicineUseCase {
	return &MedicineUseCase{medicineRepo: medicineRepo}
}

// List devuelve los medicamentos paginados.
func (uc *MedicineUseCase) List(limit, offset int) ([]dto.MedicineDTO, error) {
	meds, err := uc.medicineRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MedicineDTO, 0, len(meds))
	for _, m := range meds {
		out = append(out, toMedicineDTO(m))
	}
	return out, nil
}

// GetByID devuelve un medicamento por su código.
func (uc *MedicineUseCase) GetByID(id string) (*dto.MedicineDTO, error) {
	m, err := uc.medicineRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	d := toMedicineDTO(m)
	return &d, nil
}

func toMedicineDTO(m *entity.Medicine) dto.MedicineDTO {
	return dto.MedicineDTO{
		ID:           m.ID,
		Name:         m.Name,
		Salt:         m.Salt,
		Uses:         m.Uses,
		Unit:         m.Unit,
		DailyDose:    m.DailyDose,
		SupplierID:   m.SupplierID,
		ReorderLevel: m.ReorderLevel,
	}
}
