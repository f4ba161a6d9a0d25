package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medicine representa un medicamento del inventario.
// El ID es el código externo (viene de la planilla de ingesta) y es inmutable;
// los demás atributos los edita la capa administrativa, no el motor de dosis.
type Medicine struct {
	ID           string // código externo, p.ej. "MED-0042"
	Name         string
	Salt         string // composición (sal activa)
	Uses         string
	Unit         string // unidad de medida: "tableta", "ml", ... (default "unidad")
	DailyDose    decimal.Decimal
	SupplierID   string
	ReorderLevel decimal.Decimal
	CreatedAt    time.Time
}
