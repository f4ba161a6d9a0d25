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

// AdjustInput ajuste manual de un lote a una cantidad exacta.
type AdjustInput struct {
	BatchID     int64
	NewQuantity decimal.Decimal
	Note        string
}

// AdjustUseCase fija la cantidad exacta de un lote y asienta el delta como
// movimiento 'adjustment'. Un ajuste a la misma cantidad no genera registro.
type AdjustUseCase struct {
	txRunner TxRunner
}

// NewAdjustUseCase construye el caso de uso.
func NewAdjustUseCase(txRunner TxRunner) *AdjustUseCase {
	return &AdjustUseCase{txRunner: txRunner}
}

// Adjust aplica el ajuste de forma transaccional.
func (uc *AdjustUseCase) Adjust(ctx context.Context, in AdjustInput) error {
	if in.NewQuantity.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}

	now := time.Now()
	effective := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	return uc.txRunner.Run(ctx, func(batchRepo repository.BatchRepository, moveRepo repository.StockMoveRepository) error {
		batch, err := batchRepo.GetByID(in.BatchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return domain.ErrNotFound
		}

		delta := in.NewQuantity.Sub(batch.Quantity)
		if delta.IsZero() {
			return nil
		}
		if err := batchRepo.SetQuantity(in.BatchID, in.NewQuantity); err != nil {
			return err
		}

		note := in.Note
		if note == "" {
			note = "Manual adjustment"
		}
		batchID := batch.ID
		move := &entity.StockMove{
			MedicineID: batch.MedicineID,
			BatchID:    &batchID,
			Quantity:   delta,
			Reason:     entity.MoveReasonAdjustment,
			Note:       note,
			Date:       effective,
		}
		return moveRepo.Create(move)
	})
}
