package dosage

import (
	"context"

	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza la atomicidad de la unidad por medicamento: Commit si
// fn devuelve nil, Rollback en cualquier otro camino de salida.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		moveRepo repository.StockMoveRepository,
	) error) error
}
