package dosage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tanmay-Jain0221/med-inventory/internal/application/dosage"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/entity"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/repository"
	"github.com/Tanmay-Jain0221/med-inventory/pkg/logger"
)

// ── store en memoria ──────────────────────────────────────────────────────────
// Fakes compartiendo un estado único, con snapshot/restore para simular el
// rollback transaccional del TxRunner real.

type memStore struct {
	batches   map[int64]*entity.Batch
	moves     []*entity.StockMove
	schedules []*entity.DosageSchedule

	failDoseFor string // medicamento cuyo Create(daily_dose) falla (simula error de persistencia)
}

func newMemStore() *memStore {
	return &memStore{batches: map[int64]*entity.Batch{}}
}

func (s *memStore) snapshot() *memStore {
	c := &memStore{
		batches:     make(map[int64]*entity.Batch, len(s.batches)),
		moves:       make([]*entity.StockMove, len(s.moves)),
		failDoseFor: s.failDoseFor,
	}
	for id, b := range s.batches {
		cp := *b
		c.batches[id] = &cp
	}
	copy(c.moves, s.moves)
	return c
}

func (s *memStore) restore(snap *memStore) {
	s.batches = snap.batches
	s.moves = snap.moves
}

type memTxRunner struct{ store *memStore }

func (r *memTxRunner) Run(_ context.Context, fn func(repository.BatchRepository, repository.StockMoveRepository) error) error {
	snap := r.store.snapshot()
	if err := fn(&memBatchRepo{r.store}, &memMoveRepo{r.store}); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

type memBatchRepo struct{ store *memStore }

func (r *memBatchRepo) Upsert(b *entity.Batch) error {
	cp := *b
	r.store.batches[b.ID] = &cp
	return nil
}

func (r *memBatchRepo) GetByID(id int64) (*entity.Batch, error) {
	b, ok := r.store.batches[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *memBatchRepo) GetByMedicineAndNo(medicineID, batchNo string) (*entity.Batch, error) {
	for _, b := range r.store.batches {
		if b.MedicineID == medicineID && b.BatchNo == batchNo {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memBatchRepo) ListEligible(medicineID string, asOf time.Time) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.store.batches {
		if b.MedicineID != medicineID || !b.Quantity.GreaterThan(decimal.Zero) || b.Expired(asOf) {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memBatchRepo) ListEligibleForUpdate(medicineID string, asOf time.Time) ([]*entity.Batch, error) {
	return r.ListEligible(medicineID, asOf)
}

func (r *memBatchRepo) ListExpiredWithStock(medicineID string, before time.Time) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.store.batches {
		if medicineID != "" && b.MedicineID != medicineID {
			continue
		}
		if b.Quantity.GreaterThan(decimal.Zero) && b.Expired(before) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memBatchRepo) AdjustQuantity(batchID int64, delta decimal.Decimal) error {
	b, ok := r.store.batches[batchID]
	if !ok {
		return domain.ErrNotFound
	}
	next := b.Quantity.Add(delta)
	if next.LessThan(decimal.Zero) {
		return domain.ErrInsufficientStock
	}
	b.Quantity = next
	return nil
}

func (r *memBatchRepo) SetQuantity(batchID int64, quantity decimal.Decimal) error {
	b, ok := r.store.batches[batchID]
	if !ok {
		return domain.ErrNotFound
	}
	b.Quantity = quantity
	return nil
}

type memMoveRepo struct{ store *memStore }

func (r *memMoveRepo) Create(m *entity.StockMove) error {
	if r.store.failDoseFor != "" && m.MedicineID == r.store.failDoseFor && m.Reason == entity.MoveReasonDailyDose {
		return errors.New("write timeout")
	}
	cp := *m
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	cp.CreatedAt = time.Now()
	r.store.moves = append(r.store.moves, &cp)
	return nil
}

func (r *memMoveRepo) List(f repository.MoveFilter) ([]*entity.StockMove, error) {
	var out []*entity.StockMove
	for _, m := range r.store.moves {
		if f.MedicineID != "" && m.MedicineID != f.MedicineID {
			continue
		}
		if f.Reason != "" && m.Reason != f.Reason {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *memMoveRepo) ExistsDailyDose(date time.Time) (bool, error) {
	for _, m := range r.store.moves {
		if m.Reason == entity.MoveReasonDailyDose && m.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memMoveRepo) ListDailyDoseByMedicine(medicineID string, date time.Time) ([]*entity.StockMove, error) {
	var out []*entity.StockMove
	for _, m := range r.store.moves {
		if m.Reason == entity.MoveReasonDailyDose && m.MedicineID == medicineID && m.Date.Equal(date) {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memMoveRepo) DeleteDoseRecords(medicineID string, date time.Time) error {
	var kept []*entity.StockMove
	for _, m := range r.store.moves {
		drop := m.MedicineID == medicineID && m.Date.Equal(date) &&
			(m.Reason == entity.MoveReasonDailyDose || m.Reason == entity.MoveReasonShortfall)
		if !drop {
			kept = append(kept, m)
		}
	}
	r.store.moves = kept
	return nil
}

type memScheduleRepo struct{ store *memStore }

func (r *memScheduleRepo) Upsert(s *entity.DosageSchedule) error {
	r.store.schedules = append(r.store.schedules, s)
	return nil
}

func (r *memScheduleRepo) GetByMedicine(medicineID string) (*entity.DosageSchedule, error) {
	for _, s := range r.store.schedules {
		if s.MedicineID == medicineID {
			return s, nil
		}
	}
	return nil, nil
}

func (r *memScheduleRepo) ListDue() ([]*entity.DosageSchedule, error) {
	var out []*entity.DosageSchedule
	for _, s := range r.store.schedules {
		if !s.DailyUnits().IsZero() {
			out = append(out, s)
		}
	}
	return out, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

var runDate = time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)

func expiry(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func schedule(medicineID string, daily int64) *entity.DosageSchedule {
	return &entity.DosageSchedule{MedicineID: medicineID, AtEightPM: qty(daily)}
}

func newUseCase(store *memStore) *dosage.RunUseCase {
	return dosage.NewRunUseCase(
		&memTxRunner{store},
		&memScheduleRepo{store},
		&memBatchRepo{store},
		&memMoveRepo{store},
		logger.Nop(),
	)
}

// seedTwoBatches: escenario de referencia B1(5, vence 10-ene) y B2(10, vence 20-ene).
func seedTwoBatches(store *memStore) {
	store.batches[1] = &entity.Batch{ID: 1, MedicineID: "MED-01", BatchNo: "B1", Quantity: qty(5), ExpiryDate: expiry(2025, time.January, 10)}
	store.batches[2] = &entity.Batch{ID: 2, MedicineID: "MED-01", BatchNo: "B2", Quantity: qty(10), ExpiryDate: expiry(2025, time.January, 20)}
}

func dailyDoseMoves(store *memStore) []*entity.StockMove {
	var out []*entity.StockMove
	for _, m := range store.moves {
		if m.Reason == entity.MoveReasonDailyDose {
			out = append(out, m)
		}
	}
	return out
}

// ── tests ─────────────────────────────────────────────────────────────────────

func TestRun_DescuentaFEFO(t *testing.T) {
	store := newMemStore()
	seedTwoBatches(store)
	store.schedules = []*entity.DosageSchedule{schedule("MED-01", 8)}

	report, err := newUseCase(store).Run(context.Background(), dosage.Options{Date: runDate})
	require.NoError(t, err)

	require.Len(t, report.Applied, 1)
	res := report.Applied[0]
	assert.True(t, res.Applied.Equal(qty(8)))
	assert.True(t, res.Shortfall.IsZero())
	require.Len(t, res.Allocations, 2)
	assert.Equal(t, int64(1), res.Allocations[0].BatchID, "primero el lote que vence antes")
	assert.True(t, res.Allocations[0].Quantity.Equal(qty(5)))
	assert.True(t, res.Allocations[1].Quantity.Equal(qty(3)))

	assert.True(t, store.batches[1].Quantity.IsZero(), "B1 agotado")
	assert.True(t, store.batches[2].Quantity.Equal(qty(7)), "B2 con el remanente")
	assert.Len(t, dailyDoseMoves(store), 2)
}

func TestRun_FaltanteVisibleNoEsError(t *testing.T) {
	store := newMemStore()
	seedTwoBatches(store)
	store.schedules = []*entity.DosageSchedule{schedule("MED-01", 20)}

	report, err := newUseCase(store).Run(context.Background(), dosage.Options{Date: runDate})
	require.NoError(t, err, "el faltante se reporta, no aborta la corrida")

	assert.Empty(t, report.Applied)
	require.Len(t, report.Shorted, 1)
	assert.True(t, report.Shorted[0].Shortfall.Equal(qty(5)), "faltante = 20 - 15")
	assert.True(t, store.batches[1].Quantity.IsZero())
	assert.True(t, store.batches[2].Quantity.IsZero())

	// El faltante queda en el libro como registro sin lote.
	shortfalls, _ := (&memMoveRepo{store}).List(repository.MoveFilter{Reason: entity.MoveReasonShortfall})
	require.Len(t, shortfalls, 1)
	assert.Nil(t, shortfalls[0].BatchID)
	assert.True(t, shortfalls[0].Quantity.IsZero())
}

func TestRun_IdempotentePorFecha(t *testing.T) {
	store := newMemStore()
	seedTwoBatches(store)
	store.schedules = []*entity.DosageSchedule{schedule("MED-01", 8)}
	uc := newUseCase(store)

	_, err := uc.Run(context.Background(), dosage.Options{Date: runDate})
	require.NoError(t, err)
	movesBefore := len(store.moves)
	b1, b2 := store.batches[1].Quantity, store.batches[2].Quantity

	report, err := uc.Run(context.Background(), dosage.Options{Date: runDate})
	require.NoError(t, err)

	assert.True(t, report.AlreadyApplied, "repetir sin force es un aviso, no un error")
	assert.Empty(t, report.Applied)
	assert.Len(t, store.moves, movesBefore, "cero movimientos nuevos")
	assert.True(t, store.batches[1].Quantity.Equal(b1))
	assert.True(t, store.batches[2].Quantity.Equal(b2))
}

func TestRun_OtraFechaNoQuedaBloqueada(t *testing.T) {
	store := newMemStore()
	seedTwoBatches(store)
	store.schedules = []*entity.DosageSchedule{schedule("MED-01", 2)}
	uc := newUseCase(store)

	_, err := uc.Run(context.Background(), dosage.Options{Date: runDate})
	require.NoError(t, err)

	report, err := uc.Run(context.Background(), dosage.Options{Date: runDate.AddDate(0, 0, 1)})
	require.NoError(t, err)
	assert.False(t, report.AlreadyApplied)
	require.Len(t, report.Applied, 1)
}

func TestRun_ForceEquivaleAUnaSolaAplicacion(t *testing.T) {
	store := newMemStore()
	seedTwoBatches(store)
	store.schedules = []*entity.DosageSchedule{schedule("MED-01", 8)}
	uc := newUseCase(store)

	_, err := uc.Run(context.Background(), dosage.Options{Date: runDate})
	require.NoError(t, err)

	report, err := uc.Run(context.Background(), dosage.Options{Date: runDate, Force: true})
	require.NoError(t, err)
	require.Len(t, report.Applied, 1)

	// Estado final idéntico a una sola aplicación desde el snapshot previo.
	assert.True(t, store.batches[1].Quantity.IsZero())
	assert.True(t, store.batches[2].Quantity.Equal(qty(7)))
	assert.Len(t, dailyDoseMoves(store), 2, "los registros reemplazados no se duplican")
}

func TestRun_ForceRespetaAjustesManualesIntermedios(t *testing.T) {
	store := newMemStore()
	seedTwoBatches(store)
	store.schedules = []*entity.DosageSchedule{schedule("MED-01", 8)}
	uc := newUseCase(store)

	_, err := uc.Run(context.Background(), dosage.Options{Date: runDate})
	require.NoError(t, err)
	// B1=0, B2=7. Ajuste manual posterior: B2 + 3 → 10.
	require.NoError(t, (&memBatchRepo{store}).AdjustQuantity(2, qty(3)))

	_, err = uc.Run(context.Background(), dosage.Options{Date: runDate, Force: true})
	require.NoError(t, err)

	// Reversa contra el libro: B1 vuelve a 5, B2 a 13; re-aplicar 8 → B1=0, B2=10.
	// El ajuste manual de +3 sobrevive sin contarse dos veces.
	assert.True(t, store.batches[1].Quantity.IsZero())
	assert.True(t, store.batches[2].Quantity.Equal(qty(10)))
}

func TestRun_FallaDeUnMedicamentoNoArrastraALosDemas(t *testing.T) {
	store := newMemStore()
	seedTwoBatches(store)
	store.batches[3] = &entity.Batch{ID: 3, MedicineID: "MED-02", BatchNo: "C1", Quantity: qty(6), ExpiryDate: expiry(2025, time.March, 1)}
	store.schedules = []*entity.DosageSchedule{schedule("MED-01", 8), schedule("MED-02", 2)}
	store.failDoseFor = "MED-01"

	report, err := newUseCase(store).Run(context.Background(), dosage.Options{Date: runDate})
	require.NoError(t, err, "la corrida continúa con los demás medicamentos")

	require.Len(t, report.Failed, 1)
	assert.Equal(t, "MED-01", report.Failed[0].MedicineID)
	require.Len(t, report.Applied, 1)
	assert.Equal(t, "MED-02", report.Applied[0].MedicineID)

	// La unidad fallida quedó revertida: lotes de MED-01 intactos, sin movimientos.
	assert.True(t, store.batches[1].Quantity.Equal(qty(5)))
	assert.True(t, store.batches[2].Quantity.Equal(qty(10)))
	assert.True(t, store.batches[3].Quantity.Equal(qty(4)), "MED-02 sí descontó")
	for _, m := range dailyDoseMoves(store) {
		assert.Equal(t, "MED-02", m.MedicineID)
	}
}

func TestRun_DaDeBajaVencidosAntesDeDescontar(t *testing.T) {
	store := newMemStore()
	// Lote vencido con stock y uno vigente.
	store.batches[1] = &entity.Batch{ID: 1, MedicineID: "MED-01", BatchNo: "OLD", Quantity: qty(4), ExpiryDate: expiry(2024, time.December, 1)}
	store.batches[2] = &entity.Batch{ID: 2, MedicineID: "MED-01", BatchNo: "NEW", Quantity: qty(10), ExpiryDate: expiry(2025, time.June, 1)}
	store.schedules = []*entity.DosageSchedule{schedule("MED-01", 3)}

	report, err := newUseCase(store).Run(context.Background(), dosage.Options{Date: runDate})
	require.NoError(t, err)

	assert.Equal(t, 1, report.ScrappedLots)
	assert.True(t, store.batches[1].Quantity.IsZero(), "el vencido se da de baja completo")
	assert.True(t, store.batches[2].Quantity.Equal(qty(7)), "la dosis sale solo del vigente")

	expiredMoves, _ := (&memMoveRepo{store}).List(repository.MoveFilter{Reason: entity.MoveReasonExpired})
	require.Len(t, expiredMoves, 1)
	assert.True(t, expiredMoves[0].Quantity.Equal(qty(-4)))
}

func TestRun_DryRunNoEscribe(t *testing.T) {
	store := newMemStore()
	seedTwoBatches(store)
	store.schedules = []*entity.DosageSchedule{schedule("MED-01", 8)}

	report, err := newUseCase(store).Run(context.Background(), dosage.Options{Date: runDate, DryRun: true})
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	require.Len(t, report.Applied, 1)
	assert.True(t, report.Applied[0].Applied.Equal(qty(8)))

	assert.Empty(t, store.moves, "dry-run no persiste movimientos")
	assert.True(t, store.batches[1].Quantity.Equal(qty(5)))
	assert.True(t, store.batches[2].Quantity.Equal(qty(10)))
}

func TestRun_DryRunConForceSimulaLaReversa(t *testing.T) {
	store := newMemStore()
	seedTwoBatches(store)
	store.schedules = []*entity.DosageSchedule{schedule("MED-01", 8)}
	uc := newUseCase(store)

	_, err := uc.Run(context.Background(), dosage.Options{Date: runDate})
	require.NoError(t, err)
	movesBefore := len(store.moves)

	report, err := uc.Run(context.Background(), dosage.Options{Date: runDate, Force: true, DryRun: true})
	require.NoError(t, err)

	require.Len(t, report.Applied, 1)
	assert.True(t, report.Applied[0].Applied.Equal(qty(8)), "la simulación parte del estado restaurado")
	assert.True(t, report.Applied[0].Shortfall.IsZero())
	assert.Len(t, store.moves, movesBefore, "sin escrituras")
	assert.True(t, store.batches[2].Quantity.Equal(qty(7)), "sin cambios de stock")
}

func TestRun_FechaVaciaEsValidationError(t *testing.T) {
	store := newMemStore()
	_, err := newUseCase(store).Run(context.Background(), dosage.Options{})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestRun_RequerimientoNegativoRechazadoAntesDePersistir(t *testing.T) {
	store := newMemStore()
	seedTwoBatches(store)
	store.schedules = []*entity.DosageSchedule{
		{MedicineID: "MED-01", AtEightPM: qty(-2)},
	}

	_, err := newUseCase(store).Run(context.Background(), dosage.Options{Date: runDate})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, store.moves, "nada se persiste ante entrada inválida")
}

func TestRun_RequerimientoCeroNoGeneraMovimientos(t *testing.T) {
	store := newMemStore()
	seedTwoBatches(store)
	store.schedules = []*entity.DosageSchedule{} // plan vacío

	report, err := newUseCase(store).Run(context.Background(), dosage.Options{Date: runDate})
	require.NoError(t, err)
	assert.Empty(t, report.Applied)
	assert.Empty(t, store.moves)
}
