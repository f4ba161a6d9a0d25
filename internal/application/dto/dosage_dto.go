package dto

import "github.com/shopspring/decimal"

// RunRequest invocación de la corrida de dosis diaria desde el dashboard.
type RunRequest struct {
	Date    string `json:"date"` // YYYY-MM-DD; vacío = hoy
	Force   bool   `json:"force"`
	Verbose bool   `json:"verbose"`
	DryRun  bool   `json:"dry_run"`
}

// RunAllocationDTO tramo aplicado sobre un lote.
type RunAllocationDTO struct {
	BatchID  int64           `json:"batch_id"`
	BatchNo  string          `json:"batch_no"`
	Quantity decimal.Decimal `json:"quantity"`
}

// RunMedicineDTO resultado por medicamento.
type RunMedicineDTO struct {
	MedicineID  string             `json:"medicine_id"`
	Required    decimal.Decimal    `json:"required"`
	Applied     decimal.Decimal    `json:"applied"`
	Shortfall   decimal.Decimal    `json:"shortfall"`
	Allocations []RunAllocationDTO `json:"allocations,omitempty"`
}

// RunFailedDTO medicamento cuya unidad atómica falló.
type RunFailedDTO struct {
	MedicineID string `json:"medicine_id"`
	Error      string `json:"error"`
}

// RunReportDTO reporte completo de la corrida.
type RunReportDTO struct {
	Date           string           `json:"date"`
	DryRun         bool             `json:"dry_run,omitempty"`
	AlreadyApplied bool             `json:"already_applied,omitempty"`
	ScrappedLots   int              `json:"scrapped_lots"`
	AppliedCount   int              `json:"applied_count"`
	ShortedCount   int              `json:"shorted_count"`
	FailedCount    int              `json:"failed_count"`
	Applied        []RunMedicineDTO `json:"applied,omitempty"`
	Shorted        []RunMedicineDTO `json:"shorted,omitempty"`
	Failed         []RunFailedDTO   `json:"failed,omitempty"`
}
