package repository

import "github.com/Tanmay-Jain0221/med-inventory/internal/domain/entity"

// MedicineRepository define el puerto de persistencia para Medicine (DIP).
type MedicineRepository interface {
	Upsert(medicine *entity.Medicine) error
	GetByID(id string) (*entity.Medicine, error)
	List(limit, offset int) ([]*entity.Medicine, error)
}
