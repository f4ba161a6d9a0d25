// Package fefo implementa la política de consumo First-Expiry-First-Out:
// se descuenta primero del lote que vence más pronto. Servicio de dominio
// puro: sin I/O ni efectos secundarios.
package fefo

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/entity"
)

// Allocation es un tramo del plan: cuánto se toma de un lote concreto.
type Allocation struct {
	Batch    *entity.Batch
	Quantity decimal.Decimal
}

// Plan es la secuencia ordenada de tramos de asignación.
type Plan []Allocation

// Total devuelve la suma de cantidades del plan.
func (p Plan) Total() decimal.Decimal {
	total := decimal.Zero
	for _, a := range p {
		total = total.Add(a.Quantity)
	}
	return total
}

// Allocate recorre los lotes en el orden recibido y arma el plan de descuento:
// de cada lote toma min(pendiente, disponible) hasta cubrir la cantidad
// requerida o agotar los lotes. Devuelve el plan y el faltante (shortfall).
//
// Garantías: nunca sobregira un lote, nunca produce cantidades negativas y
// Plan.Total() + shortfall == required. Los lotes deben venir pre-ordenados
// según Sort (vencimiento ascendente, empates por ID de lote).
func Allocate(required decimal.Decimal, batches []*entity.Batch) (Plan, decimal.Decimal) {
	if required.LessThanOrEqual(decimal.Zero) {
		return Plan{}, decimal.Zero
	}

	plan := Plan{}
	remaining := required
	for _, b := range batches {
		if remaining.IsZero() {
			break
		}
		if b.Quantity.LessThanOrEqual(decimal.Zero) {
			continue
		}
		take := decimal.Min(remaining, b.Quantity)
		plan = append(plan, Allocation{Batch: b, Quantity: take})
		remaining = remaining.Sub(take)
	}
	return plan, remaining
}

// Sort ordena los lotes in place según el orden total FEFO:
// sin vencimiento al final, vencimiento ascendente, y a igual fecha el ID de
// lote menor primero (desempate determinista).
func Sort(batches []*entity.Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		switch {
		case a.ExpiryDate == nil && b.ExpiryDate == nil:
			return a.ID < b.ID
		case a.ExpiryDate == nil:
			return false
		case b.ExpiryDate == nil:
			return true
		case !a.ExpiryDate.Equal(*b.ExpiryDate):
			return a.ExpiryDate.Before(*b.ExpiryDate)
		default:
			return a.ID < b.ID
		}
	})
}

// Eligible filtra los lotes seleccionables para una corrida en la fecha dada:
// con existencias y no vencidos. No altera el orden de entrada.
func Eligible(batches []*entity.Batch, asOf time.Time) []*entity.Batch {
	out := make([]*entity.Batch, 0, len(batches))
	for _, b := range batches {
		if b.Quantity.GreaterThan(decimal.Zero) && !b.Expired(asOf) {
			out = append(out, b)
		}
	}
	return out
}
