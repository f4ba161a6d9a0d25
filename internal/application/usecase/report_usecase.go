// Package usecase contiene los casos de uso de lectura del dashboard
// (reportes de stock y consultas de catálogo).
package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/Tanmay-Jain0221/med-inventory/internal/application/dto"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/repository"
)

// ReportConfig parámetros de los reportes.
type ReportConfig struct {
	ExpiryWindowDays int
	LowStockFactor   float64
}

// ReportUseCase arma los reportes del dashboard a partir del ReportRepository
// y del libro de movimientos. Solo lectura: consume el estado que produce el
// motor de dosis, nunca lo modifica.
type ReportUseCase struct {
	reportRepo repository.ReportRepository
	moveRepo   repository.StockMoveRepository
	cfg        ReportConfig
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(reportRepo repository.ReportRepository, moveRepo repository.StockMoveRepository, cfg ReportConfig) *ReportUseCase {
	if cfg.ExpiryWindowDays <= 0 {
		cfg.ExpiryWindowDays = 30
	}
	if cfg.LowStockFactor <= 0 {
		cfg.LowStockFactor = 1.5
	}
	return &ReportUseCase{reportRepo: reportRepo, moveRepo: moveRepo, cfg: cfg}
}

// GetOverview devuelve las métricas generales.
func (uc *ReportUseCase) GetOverview(ctx context.Context) (*dto.OverviewDTO, error) {
	o, err := uc.reportRepo.GetOverview(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.OverviewDTO{
		Medicines:    o.Medicines,
		Batches:      o.Batches,
		UnitsInStock: o.UnitsInStock,
		DailyPlanned: o.DailyPlanned,
	}, nil
}

// GetLowStock devuelve los medicamentos con stock total bajo el nivel de reorden.
func (uc *ReportUseCase) GetLowStock(ctx context.Context) ([]dto.LowStockDTO, error) {
	rows, err := uc.reportRepo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return toLowStockDTOs(rows, 0), nil
}

// GetLowStockAlerts devuelve la alerta temprana: solo medicamentos del plan
// diario con stock < factor × reorden, con los días de cobertura restantes.
func (uc *ReportUseCase) GetLowStockAlerts(ctx context.Context) ([]dto.LowStockDTO, error) {
	rows, err := uc.reportRepo.ListLowStockAlerts(ctx, uc.cfg.LowStockFactor)
	if err != nil {
		return nil, err
	}
	return toLowStockDTOs(rows, uc.cfg.LowStockFactor), nil
}

func toLowStockDTOs(rows []repository.LowStockResult, factor float64) []dto.LowStockDTO {
	out := make([]dto.LowStockDTO, 0, len(rows))
	for _, r := range rows {
		d := dto.LowStockDTO{
			MedicineID:   r.MedicineID,
			MedicineName: r.MedicineName,
			TotalStock:   r.TotalStock,
			ReorderLevel: r.ReorderLevel,
			DailyUnits:   r.DailyUnits,
		}
		if factor > 0 {
			d.AlertLevel = r.ReorderLevel.Mul(decimal.NewFromFloat(factor)).Round(2)
		}
		if r.DailyUnits.GreaterThan(decimal.Zero) {
			d.DaysCover = r.TotalStock.Div(r.DailyUnits).Round(1)
		}
		out = append(out, d)
	}
	return out
}

// GetExpiring devuelve los lotes con stock que vencen dentro de la ventana configurada.
func (uc *ReportUseCase) GetExpiring(ctx context.Context, now time.Time) ([]dto.ExpiringBatchDTO, error) {
	window := time.Duration(uc.cfg.ExpiryWindowDays) * 24 * time.Hour
	rows, err := uc.reportRepo.ListExpiring(ctx, now, window)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpiringBatchDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ExpiringBatchDTO{
			BatchID:      r.BatchID,
			MedicineID:   r.MedicineID,
			MedicineName: r.MedicineName,
			BatchNo:      r.BatchNo,
			Quantity:     r.Quantity,
			ExpiryDate:   r.ExpiryDate.Format("2006-01-02"),
			DaysLeft:     int(r.ExpiryDate.Sub(now).Hours() / 24),
		})
	}
	return out, nil
}

// GetBatchStock devuelve existencias por lote en orden FEFO.
func (uc *ReportUseCase) GetBatchStock(ctx context.Context, medicineID string, inStockOnly bool) ([]dto.BatchStockDTO, error) {
	rows, err := uc.reportRepo.ListBatchStock(ctx, medicineID, inStockOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchStockDTO, 0, len(rows))
	for _, r := range rows {
		d := dto.BatchStockDTO{
			BatchID:    r.BatchID,
			MedicineID: r.MedicineID,
			BatchNo:    r.BatchNo,
			Quantity:   r.Quantity,
		}
		if r.ExpiryDate != nil {
			d.ExpiryDate = r.ExpiryDate.Format("2006-01-02")
		}
		out = append(out, d)
	}
	return out, nil
}

// GetMoves devuelve el libro de movimientos con los filtros dados.
func (uc *ReportUseCase) GetMoves(_ context.Context, filter repository.MoveFilter) ([]dto.StockMoveDTO, error) {
	if filter.Limit <= 0 {
		filter.Limit = 200
	}
	moves, err := uc.moveRepo.List(filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMoveDTO, 0, len(moves))
	for _, m := range moves {
		out = append(out, dto.StockMoveDTO{
			ID:         m.ID,
			MedicineID: m.MedicineID,
			BatchID:    m.BatchID,
			Quantity:   m.Quantity,
			Reason:     m.Reason,
			Note:       m.Note,
			Date:       m.Date.Format("2006-01-02"),
			CreatedAt:  m.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}
