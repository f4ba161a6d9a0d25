package dosage

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/entity"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/fefo"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/repository"
	"github.com/Tanmay-Jain0221/med-inventory/pkg/logger"
)

// Options parámetros de una corrida de dosis diaria.
type Options struct {
	Date    time.Time // día a aplicar; el caller pone el default (hoy)
	Force   bool      // re-aplicar una fecha ya corrida, reemplazando sus registros
	Verbose bool      // detalle por lote en el log; sin efecto en el comportamiento
	DryRun  bool      // calcular sin persistir
}

// AllocationResult tramo aplicado (o simulado) sobre un lote.
type AllocationResult struct {
	BatchID  int64
	BatchNo  string
	Quantity decimal.Decimal
}

// MedicineResult resultado de la corrida para un medicamento.
type MedicineResult struct {
	MedicineID  string
	Required    decimal.Decimal
	Applied     decimal.Decimal
	Shortfall   decimal.Decimal
	Allocations []AllocationResult
}

// FailedResult medicamento cuya unidad atómica falló (rollback aplicado).
type FailedResult struct {
	MedicineID string
	Err        string
}

// Report resume la corrida: aplicados, con faltante y fallidos por separado.
// Nada se pierde en silencio: todo camino no exitoso queda registrado aquí.
type Report struct {
	Date           time.Time
	DryRun         bool
	AlreadyApplied bool // la fecha ya estaba corrida y no se pidió force
	ScrappedLots   int  // lotes vencidos dados de baja antes de descontar
	Applied        []MedicineResult // cubiertos por completo
	Shorted        []MedicineResult // aplicados parcialmente (shortfall > 0)
	Failed         []FailedResult
}

// RunUseCase orquesta la corrida diaria: carga el plan de tomas, ejecuta el
// asignador FEFO por medicamento y persiste descuentos y movimientos en una
// unidad atómica por medicamento. Idempotente por fecha salvo force.
type RunUseCase struct {
	txRunner     TxRunner
	scheduleRepo repository.DosageScheduleRepository
	batchRepo    repository.BatchRepository
	moveRepo     repository.StockMoveRepository
	log          *logger.Logger
}

// NewRunUseCase construye el caso de uso.
func NewRunUseCase(
	txRunner TxRunner,
	scheduleRepo repository.DosageScheduleRepository,
	batchRepo repository.BatchRepository,
	moveRepo repository.StockMoveRepository,
	log *logger.Logger,
) *RunUseCase {
	return &RunUseCase{
		txRunner:     txRunner,
		scheduleRepo: scheduleRepo,
		batchRepo:    batchRepo,
		moveRepo:     moveRepo,
		log:          log,
	}
}

// Run aplica la dosis diaria de la fecha indicada.
//
// Secuencia: validar → verificar idempotencia → dar de baja lotes vencidos →
// por cada medicamento del plan: (force) revertir registros previos de la fecha,
// bloquear lotes elegibles, asignar FEFO, descontar y registrar movimientos.
// Una falla de persistencia aborta solo la unidad de ese medicamento; los
// medicamentos ya confirmados de la misma corrida quedan en pie.
func (uc *RunUseCase) Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Date.IsZero() {
		return nil, fmt.Errorf("%w: fecha de corrida vacía", domain.ErrInvalidDate)
	}
	runDate := time.Date(opts.Date.Year(), opts.Date.Month(), opts.Date.Day(), 0, 0, 0, 0, time.UTC)

	report := &Report{Date: runDate, DryRun: opts.DryRun}

	schedules, err := uc.scheduleRepo.ListDue()
	if err != nil {
		return nil, fmt.Errorf("cargar plan de tomas: %w", err)
	}
	for _, s := range schedules {
		if s.DailyUnits().LessThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: requerimiento negativo para %s", domain.ErrInvalidInput, s.MedicineID)
		}
	}

	alreadyApplied, err := uc.moveRepo.ExistsDailyDose(runDate)
	if err != nil {
		return nil, fmt.Errorf("verificar corrida previa: %w", err)
	}
	if alreadyApplied && !opts.Force {
		// Aviso, no error: la fecha ya fue procesada y no se pidió force.
		report.AlreadyApplied = true
		uc.log.Info().Time("date", runDate).Msg("dosis diaria ya aplicada; use force para repetir")
		return report, nil
	}

	if opts.DryRun {
		return uc.dryRun(ctx, runDate, opts, alreadyApplied, schedules, report)
	}

	if err := uc.scrapExpired(ctx, runDate, report); err != nil {
		return nil, fmt.Errorf("baja de vencidos: %w", err)
	}

	for _, s := range schedules {
		required := s.DailyUnits()
		if required.IsZero() {
			continue
		}
		result, err := uc.applyMedicine(ctx, runDate, s.MedicineID, required, opts.Force && alreadyApplied, opts.Verbose)
		if err != nil {
			uc.log.Error().Err(err).Str("medicine", s.MedicineID).Msg("unidad de medicamento revertida")
			report.Failed = append(report.Failed, FailedResult{MedicineID: s.MedicineID, Err: err.Error()})
			continue
		}
		if result.Shortfall.GreaterThan(decimal.Zero) {
			uc.log.Warn().
				Str("medicine", s.MedicineID).
				Str("shortfall", result.Shortfall.String()).
				Msg("demanda no cubierta")
			report.Shorted = append(report.Shorted, *result)
		} else {
			report.Applied = append(report.Applied, *result)
		}
	}

	uc.log.Info().
		Time("date", runDate).
		Int("applied", len(report.Applied)).
		Int("shorted", len(report.Shorted)).
		Int("failed", len(report.Failed)).
		Int("scrapped_lots", report.ScrappedLots).
		Msg("corrida de dosis diaria completa")
	return report, nil
}

// scrapExpired da de baja, antes de descontar, todo lote con stock vencido a la
// fecha de corrida: cantidad a cero y movimiento 'expired' por el total.
// Corre en su propia transacción previa al ciclo por medicamento.
func (uc *RunUseCase) scrapExpired(ctx context.Context, runDate time.Time, report *Report) error {
	return uc.txRunner.Run(ctx, func(batchRepo repository.BatchRepository, moveRepo repository.StockMoveRepository) error {
		expired, err := batchRepo.ListExpiredWithStock("", runDate)
		if err != nil {
			return err
		}
		for _, b := range expired {
			batchID := b.ID
			move := &entity.StockMove{
				MedicineID: b.MedicineID,
				BatchID:    &batchID,
				Quantity:   b.Quantity.Neg(),
				Reason:     entity.MoveReasonExpired,
				Note:       fmt.Sprintf("Auto-scrap expired before %s", runDate.Format("2006-01-02")),
				Date:       runDate,
			}
			if err := moveRepo.Create(move); err != nil {
				return err
			}
			if err := batchRepo.SetQuantity(b.ID, decimal.Zero); err != nil {
				return err
			}
			report.ScrappedLots++
		}
		return nil
	})
}

// applyMedicine ejecuta la unidad atómica de un medicamento: dentro de una
// transacción revierte (si corresponde) los registros previos de la fecha,
// bloquea los lotes elegibles, corre el asignador y persiste el resultado.
func (uc *RunUseCase) applyMedicine(
	ctx context.Context,
	runDate time.Time,
	medicineID string,
	required decimal.Decimal,
	reverse bool,
	verbose bool,
) (*MedicineResult, error) {
	result := &MedicineResult{MedicineID: medicineID, Required: required}

	err := uc.txRunner.Run(ctx, func(batchRepo repository.BatchRepository, moveRepo repository.StockMoveRepository) error {
		if reverse {
			if err := reverseDoseRecords(batchRepo, moveRepo, medicineID, runDate); err != nil {
				return err
			}
		}

		batches, err := batchRepo.ListEligibleForUpdate(medicineID, runDate)
		if err != nil {
			return err
		}
		fefo.Sort(batches)

		plan, shortfall := fefo.Allocate(required, batches)

		for _, a := range plan {
			batchID := a.Batch.ID
			if err := batchRepo.AdjustQuantity(batchID, a.Quantity.Neg()); err != nil {
				return err
			}
			move := &entity.StockMove{
				MedicineID: medicineID,
				BatchID:    &batchID,
				Quantity:   a.Quantity.Neg(),
				Reason:     entity.MoveReasonDailyDose,
				Note:       fmt.Sprintf("FEFO daily deduction %s", runDate.Format("2006-01-02")),
				Date:       runDate,
			}
			if err := moveRepo.Create(move); err != nil {
				return err
			}
			if verbose {
				uc.log.Debug().
					Str("medicine", medicineID).
					Int64("batch", batchID).
					Str("taken", a.Quantity.String()).
					Msg("descuento FEFO")
			}
			result.Allocations = append(result.Allocations, AllocationResult{
				BatchID:  batchID,
				BatchNo:  a.Batch.BatchNo,
				Quantity: a.Quantity,
			})
		}

		if shortfall.GreaterThan(decimal.Zero) {
			move := &entity.StockMove{
				MedicineID: medicineID,
				BatchID:    nil,
				Quantity:   decimal.Zero,
				Reason:     entity.MoveReasonShortfall,
				Note:       fmt.Sprintf("Needed %s more units on %s", shortfall.String(), runDate.Format("2006-01-02")),
				Date:       runDate,
			}
			if err := moveRepo.Create(move); err != nil {
				return err
			}
		}

		result.Applied = plan.Total()
		result.Shortfall = shortfall
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// reverseDoseRecords restaura en sus lotes las cantidades exactas que el libro
// descontó para la fecha y retira los registros reemplazados. Se revierte contra
// el libro (no se recalcula) para no duplicar ajustes manuales posteriores.
func reverseDoseRecords(
	batchRepo repository.BatchRepository,
	moveRepo repository.StockMoveRepository,
	medicineID string,
	runDate time.Time,
) error {
	moves, err := moveRepo.ListDailyDoseByMedicine(medicineID, runDate)
	if err != nil {
		return err
	}
	for _, m := range moves {
		if m.BatchID == nil {
			continue
		}
		// m.Quantity es negativa (descuento); Neg() restaura lo tomado.
		if err := batchRepo.AdjustQuantity(*m.BatchID, m.Quantity.Neg()); err != nil {
			return err
		}
	}
	return moveRepo.DeleteDoseRecords(medicineID, runDate)
}

// dryRun calcula el resultado de la corrida sin escribir nada. Con force sobre
// una fecha ya aplicada, simula primero la reversa sobre copias de los lotes.
func (uc *RunUseCase) dryRun(
	_ context.Context,
	runDate time.Time,
	opts Options,
	alreadyApplied bool,
	schedules []*entity.DosageSchedule,
	report *Report,
) (*Report, error) {
	for _, s := range schedules {
		required := s.DailyUnits()
		if required.IsZero() {
			continue
		}

		batches, err := uc.batchRepo.ListEligible(s.MedicineID, runDate)
		if err != nil {
			report.Failed = append(report.Failed, FailedResult{MedicineID: s.MedicineID, Err: err.Error()})
			continue
		}
		// Copias locales: la simulación no debe tocar entidades compartidas.
		sim := make([]*entity.Batch, 0, len(batches))
		byID := make(map[int64]*entity.Batch, len(batches))
		for _, b := range batches {
			c := *b
			sim = append(sim, &c)
			byID[c.ID] = &c
		}

		if opts.Force && alreadyApplied {
			moves, err := uc.moveRepo.ListDailyDoseByMedicine(s.MedicineID, runDate)
			if err != nil {
				report.Failed = append(report.Failed, FailedResult{MedicineID: s.MedicineID, Err: err.Error()})
				continue
			}
			for _, m := range moves {
				if m.BatchID == nil {
					continue
				}
				b, ok := byID[*m.BatchID]
				if !ok {
					// Lote descontado a cero: no vino en los elegibles, recuperarlo.
					orig, err := uc.batchRepo.GetByID(*m.BatchID)
					if err != nil || orig == nil {
						continue
					}
					c := *orig
					b = &c
					sim = append(sim, b)
					byID[c.ID] = b
				}
				b.Quantity = b.Quantity.Sub(m.Quantity) // m.Quantity negativa: restaura
			}
			sim = fefo.Eligible(sim, runDate)
		}
		fefo.Sort(sim)

		plan, shortfall := fefo.Allocate(required, sim)
		result := MedicineResult{
			MedicineID: s.MedicineID,
			Required:   required,
			Applied:    plan.Total(),
			Shortfall:  shortfall,
		}
		for _, a := range plan {
			result.Allocations = append(result.Allocations, AllocationResult{
				BatchID: a.Batch.ID, BatchNo: a.Batch.BatchNo, Quantity: a.Quantity,
			})
		}
		if shortfall.GreaterThan(decimal.Zero) {
			report.Shorted = append(report.Shorted, result)
		} else {
			report.Applied = append(report.Applied, result)
		}
	}
	return report, nil
}
