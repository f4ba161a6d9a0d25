package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/entity"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/repository"
)

// ReceiveInput entrada de unidades a un lote.
type ReceiveInput struct {
	MedicineID string
	BatchNo    string
	Quantity   decimal.Decimal
	ExpiryDate *time.Time // usado solo si el lote es nuevo
	Note       string
}

// ReceiveUseCase registra una recepción de stock: suma unidades al lote
// (creándolo si no existe) y asienta el movimiento 'receipt' en el libro.
// Mismo contrato de repositorios que usa la corrida diaria, para preservar
// las invariantes del libro con un único camino de escritura.
type ReceiveUseCase struct {
	txRunner     TxRunner
	medicineRepo repository.MedicineRepository
}

// NewReceiveUseCase construye el caso de uso.
func NewReceiveUseCase(txRunner TxRunner, medicineRepo repository.MedicineRepository) *ReceiveUseCase {
	return &ReceiveUseCase{txRunner: txRunner, medicineRepo: medicineRepo}
}

// Receive valida y aplica la recepción de forma transaccional.
func (uc *ReceiveUseCase) Receive(ctx context.Context, in ReceiveInput) error {
	if in.MedicineID == "" || in.BatchNo == "" {
		return domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: la cantidad recibida debe ser positiva", domain.ErrInvalidInput)
	}
	med, err := uc.medicineRepo.GetByID(in.MedicineID)
	if err != nil {
		return err
	}
	if med == nil {
		return domain.ErrNotFound
	}

	now := time.Now()
	effective := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	return uc.txRunner.Run(ctx, func(batchRepo repository.BatchRepository, moveRepo repository.StockMoveRepository) error {
		batch, err := batchRepo.GetByMedicineAndNo(in.MedicineID, in.BatchNo)
		if err != nil {
			return err
		}
		if batch == nil {
			batch = &entity.Batch{
				MedicineID: in.MedicineID,
				BatchNo:    in.BatchNo,
				Quantity:   in.Quantity,
				ExpiryDate: in.ExpiryDate,
			}
			if err := batchRepo.Upsert(batch); err != nil {
				return err
			}
			// Upsert asigna el ID generado por la DB.
			batch, err = batchRepo.GetByMedicineAndNo(in.MedicineID, in.BatchNo)
			if err != nil {
				return err
			}
		} else if err := batchRepo.AdjustQuantity(batch.ID, in.Quantity); err != nil {
			return err
		}

		note := in.Note
		if note == "" {
			note = "Stock receipt"
		}
		batchID := batch.ID
		move := &entity.StockMove{
			MedicineID: in.MedicineID,
			BatchID:    &batchID,
			Quantity:   in.Quantity,
			Reason:     entity.MoveReasonReceipt,
			Note:       note,
			Date:       effective,
		}
		return moveRepo.Create(move)
	})
}
