package stock

import (
	"context"

	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD (misma forma que
// el runner del motor de dosis; la implementación de postgres satisface ambos).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		moveRepo repository.StockMoveRepository,
	) error) error
}
