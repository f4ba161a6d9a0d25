package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tanmay-Jain0221/med-inventory/internal/application/stock"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/entity"
	"github.com/Tanmay-Jain0221/med-inventory/internal/domain/repository"
)

// Fakes mínimos para los casos de uso de recepción y ajuste.

type fakeStore struct {
	nextID    int64
	batches   map[int64]*entity.Batch
	moves     []*entity.StockMove
	medicines map[string]*entity.Medicine
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:    1,
		batches:   map[int64]*entity.Batch{},
		medicines: map[string]*entity.Medicine{"MED-01": {ID: "MED-01", Name: "Paracetamol"}},
	}
}

type fakeTxRunner struct{ store *fakeStore }

func (r *fakeTxRunner) Run(_ context.Context, fn func(repository.BatchRepository, repository.StockMoveRepository) error) error {
	return fn(&fakeBatchRepo{r.store}, &fakeMoveRepo{r.store})
}

type fakeMedicineRepo struct{ store *fakeStore }

func (r *fakeMedicineRepo) Upsert(m *entity.Medicine) error { r.store.medicines[m.ID] = m; return nil }
func (r *fakeMedicineRepo) GetByID(id string) (*entity.Medicine, error) {
	return r.store.medicines[id], nil
}
func (r *fakeMedicineRepo) List(limit, offset int) ([]*entity.Medicine, error) { return nil, nil }

type fakeBatchRepo struct{ store *fakeStore }

func (r *fakeBatchRepo) Upsert(b *entity.Batch) error {
	if b.ID == 0 {
		b.ID = r.store.nextID
		r.store.nextID++
	}
	cp := *b
	r.store.batches[b.ID] = &cp
	return nil
}

func (r *fakeBatchRepo) GetByID(id int64) (*entity.Batch, error) {
	b, ok := r.store.batches[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBatchRepo) GetByMedicineAndNo(medicineID, batchNo string) (*entity.Batch, error) {
	for _, b := range r.store.batches {
		if b.MedicineID == medicineID && b.BatchNo == batchNo {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeBatchRepo) ListEligible(string, time.Time) ([]*entity.Batch, error) { return nil, nil }
func (r *fakeBatchRepo) ListEligibleForUpdate(string, time.Time) ([]*entity.Batch, error) {
	return nil, nil
}
func (r *fakeBatchRepo) ListExpiredWithStock(string, time.Time) ([]*entity.Batch, error) {
	return nil, nil
}

func (r *fakeBatchRepo) AdjustQuantity(batchID int64, delta decimal.Decimal) error {
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

func (r *fakeBatchRepo) SetQuantity(batchID int64, quantity decimal.Decimal) error {
	b, ok := r.store.batches[batchID]
	if !ok {
		return domain.ErrNotFound
	}
	b.Quantity = quantity
	return nil
}

type fakeMoveRepo struct{ store *fakeStore }

func (r *fakeMoveRepo) Create(m *entity.StockMove) error {
	cp := *m
	r.store.moves = append(r.store.moves, &cp)
	return nil
}
func (r *fakeMoveRepo) List(repository.MoveFilter) ([]*entity.StockMove, error) { return nil, nil }
func (r *fakeMoveRepo) ExistsDailyDose(time.Time) (bool, error)                 { return false, nil }
func (r *fakeMoveRepo) ListDailyDoseByMedicine(string, time.Time) ([]*entity.StockMove, error) {
	return nil, nil
}
func (r *fakeMoveRepo) DeleteDoseRecords(string, time.Time) error { return nil }

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// ── Receive ───────────────────────────────────────────────────────────────────

func TestReceive_SumaAUnLoteExistente(t *testing.T) {
	store := newFakeStore()
	store.batches[7] = &entity.Batch{ID: 7, MedicineID: "MED-01", BatchNo: "L-7", Quantity: qty(10)}
	uc := stock.NewReceiveUseCase(&fakeTxRunner{store}, &fakeMedicineRepo{store})

	err := uc.Receive(context.Background(), stock.ReceiveInput{
		MedicineID: "MED-01", BatchNo: "L-7", Quantity: qty(5),
	})
	require.NoError(t, err)

	assert.True(t, store.batches[7].Quantity.Equal(qty(15)))
	require.Len(t, store.moves, 1)
	m := store.moves[0]
	assert.Equal(t, entity.MoveReasonReceipt, m.Reason)
	assert.True(t, m.Quantity.Equal(qty(5)), "la recepción se asienta en positivo")
	require.NotNil(t, m.BatchID)
	assert.Equal(t, int64(7), *m.BatchID)
}

func TestReceive_CreaLoteNuevo(t *testing.T) {
	store := newFakeStore()
	uc := stock.NewReceiveUseCase(&fakeTxRunner{store}, &fakeMedicineRepo{store})

	exp := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	err := uc.Receive(context.Background(), stock.ReceiveInput{
		MedicineID: "MED-01", BatchNo: "L-NEW", Quantity: qty(30), ExpiryDate: &exp,
	})
	require.NoError(t, err)

	b, _ := (&fakeBatchRepo{store}).GetByMedicineAndNo("MED-01", "L-NEW")
	require.NotNil(t, b)
	assert.True(t, b.Quantity.Equal(qty(30)))
	require.NotNil(t, b.ExpiryDate)
	assert.True(t, b.ExpiryDate.Equal(exp))
	require.Len(t, store.moves, 1)
}

func TestReceive_RechazaCantidadNoPositiva(t *testing.T) {
	store := newFakeStore()
	uc := stock.NewReceiveUseCase(&fakeTxRunner{store}, &fakeMedicineRepo{store})

	err := uc.Receive(context.Background(), stock.ReceiveInput{
		MedicineID: "MED-01", BatchNo: "L-1", Quantity: decimal.Zero,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, store.moves)
}

func TestReceive_MedicamentoInexistente(t *testing.T) {
	store := newFakeStore()
	uc := stock.NewReceiveUseCase(&fakeTxRunner{store}, &fakeMedicineRepo{store})

	err := uc.Receive(context.Background(), stock.ReceiveInput{
		MedicineID: "NO-EXISTE", BatchNo: "L-1", Quantity: qty(1),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Adjust ────────────────────────────────────────────────────────────────────

func TestAdjust_FijaCantidadExactaYAsientaElDelta(t *testing.T) {
	store := newFakeStore()
	store.batches[3] = &entity.Batch{ID: 3, MedicineID: "MED-01", BatchNo: "L-3", Quantity: qty(12)}
	uc := stock.NewAdjustUseCase(&fakeTxRunner{store})

	err := uc.Adjust(context.Background(), stock.AdjustInput{BatchID: 3, NewQuantity: qty(8)})
	require.NoError(t, err)

	assert.True(t, store.batches[3].Quantity.Equal(qty(8)))
	require.Len(t, store.moves, 1)
	m := store.moves[0]
	assert.Equal(t, entity.MoveReasonAdjustment, m.Reason)
	assert.True(t, m.Quantity.Equal(qty(-4)), "el libro registra el delta, no la cantidad final")
}

func TestAdjust_SinCambioNoAsientaNada(t *testing.T) {
	store := newFakeStore()
	store.batches[3] = &entity.Batch{ID: 3, MedicineID: "MED-01", BatchNo: "L-3", Quantity: qty(12)}
	uc := stock.NewAdjustUseCase(&fakeTxRunner{store})

	err := uc.Adjust(context.Background(), stock.AdjustInput{BatchID: 3, NewQuantity: qty(12)})
	require.NoError(t, err)
	assert.Empty(t, store.moves)
}

func TestAdjust_RechazaNegativos(t *testing.T) {
	store := newFakeStore()
	uc := stock.NewAdjustUseCase(&fakeTxRunner{store})

	err := uc.Adjust(context.Background(), stock.AdjustInput{BatchID: 1, NewQuantity: qty(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjust_LoteInexistente(t *testing.T) {
	store := newFakeStore()
	uc := stock.NewAdjustUseCase(&fakeTxRunner{store})

	err := uc.Adjust(context.Background(), stock.AdjustInput{BatchID: 99, NewQuantity: qty(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
