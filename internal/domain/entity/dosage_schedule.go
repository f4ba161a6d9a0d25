package entity

import "github.com/shopspring/decimal"

// DosageSchedule define el plan diario de tomas de un medicamento.
// Es la fuente del requerimiento diario: la cantidad a descontar en una fecha
// es la suma de las franjas. El motor de dosis la lee, nunca la modifica.
type DosageSchedule struct {
	MedicineID      string
	BeforeBreakfast decimal.Decimal
	AfterBreakfast  decimal.Decimal
	AtEightPM       decimal.Decimal
	AfterDinner     decimal.Decimal
}

// DailyUnits devuelve las unidades requeridas por día (suma de franjas).
func (s *DosageSchedule) DailyUnits() decimal.Decimal {
	return s.BeforeBreakfast.Add(s.AfterBreakfast).Add(s.AtEightPM).Add(s.AfterDinner)
}
