package inventory_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

const actor = "00000000-0000-0000-0000-000000000001"

// recordingPublisher guarda los eventos publicados.
type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...ports.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return p.err
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type fixture struct {
	store  *memory.Store
	ledger *inventory.LedgerUseCase
	events *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	events := &recordingPublisher{}
	ledger := inventory.NewLedgerUseCase(store, store.Items(), store.Movements(), events, nil)
	return &fixture{store: store, ledger: ledger, events: events}
}

// seedItem crea un artículo y, si stock > 0, lo carga con una entrada.
func (f *fixture) seedItem(t *testing.T, code string, stock, minStock int64) string {
	t.Helper()
	ctx := context.Background()
	item := &entity.Item{
		ID:       uuid.New().String(),
		Code:     code,
		Name:     "Artículo " + code,
		MinStock: minStock,
		Price:    decimal.NewFromInt(1000),
	}
	require.NoError(t, f.store.Items().Create(ctx, item))
	if stock > 0 {
		_, err := f.ledger.ApplyMovement(ctx, inventory.MovementInput{
			ItemID: item.ID, Kind: entity.MovementReceipt, Quantity: stock, ActorID: actor,
		})
		require.NoError(t, err)
	}
	return item.ID
}

func (f *fixture) stock(t *testing.T, itemID string) int64 {
	t.Helper()
	it, err := f.store.Items().GetByID(context.Background(), itemID)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it.Stock
}

func (f *fixture) assertLedgerMatchesStock(t *testing.T, itemID string) {
	t.Helper()
	sum, err := f.store.Movements().SumDeltas(context.Background(), itemID)
	require.NoError(t, err)
	assert.Equal(t, f.stock(t, itemID), sum, "stock debe ser igual a la suma de deltas del kardex")
}

func TestApplyMovement_ReceiptAndWithdrawal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedItem(t, "A-1", 0, 0)

	mov, err := f.ledger.ApplyMovement(ctx, inventory.MovementInput{
		ItemID: id, Kind: entity.MovementReceipt, Quantity: 12, ActorID: actor, Note: "compra",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), mov.Delta)
	assert.Equal(t, int64(0), mov.StockBefore)
	assert.Equal(t, int64(12), mov.StockAfter)
	assert.Equal(t, "compra", mov.Note)
	assert.Equal(t, actor, mov.ActorID)

	mov, err = f.ledger.ApplyMovement(ctx, inventory.MovementInput{
		ItemID: id, Kind: entity.MovementWithdrawal, Quantity: 5, ActorID: actor,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-5), mov.Delta)
	assert.Equal(t, int64(12), mov.StockBefore)
	assert.Equal(t, int64(7), mov.StockAfter)

	assert.Equal(t, int64(7), f.stock(t, id))
	f.assertLedgerMatchesStock(t, id)
	assert.Equal(t, 2, f.events.count(), "un evento por movimiento confirmado")
}

func TestApplyMovement_AdjustmentDelta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedItem(t, "A-2", 50, 0)

	mov, err := f.ledger.ApplyMovement(ctx, inventory.MovementInput{ItemID: id, Kind: entity.MovementAdjustment, Quantity: 30})
	require.NoError(t, err)
	assert.Equal(t, int64(-20), mov.Delta)
	assert.Equal(t, int64(50), mov.StockBefore)
	assert.Equal(t, int64(30), mov.StockAfter)

	mov, err = f.ledger.ApplyMovement(ctx, inventory.MovementInput{ItemID: id, Kind: entity.MovementAdjustment, Quantity: 30})
	require.NoError(t, err)
	assert.Equal(t, int64(0), mov.Delta, "un ajuste al mismo valor se registra con delta 0")

	mov, err = f.ledger.ApplyMovement(ctx, inventory.MovementInput{ItemID: id, Kind: entity.MovementAdjustment, Quantity: 0})
	require.NoError(t, err)
	assert.Equal(t, int64(-30), mov.Delta)
	assert.Equal(t, int64(0), f.stock(t, id))
	f.assertLedgerMatchesStock(t, id)
}

func TestApplyMovement_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	id := f.seedItem(t, "A-3", 5, 0)

	_, err := f.ledger.ApplyMovement(context.Background(), inventory.MovementInput{
		ItemID: id, Kind: entity.MovementWithdrawal, Quantity: 10, ActorID: actor,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(5), stockErr.Available)
	assert.Equal(t, int64(10), stockErr.Requested)
	assert.Contains(t, err.Error(), "disponible 5")
	assert.Contains(t, err.Error(), "solicitado 10")

	assert.Equal(t, int64(5), f.stock(t, id))
	f.assertLedgerMatchesStock(t, id)
}

func TestApplyMovement_InvalidInput(t *testing.T) {
	f := newFixture(t)
	id := f.seedItem(t, "A-4", 10, 0)

	cases := []struct {
		name string
		in   inventory.MovementInput
	}{
		{"tipo desconocido", inventory.MovementInput{ItemID: id, Kind: "transfer", Quantity: 1}},
		{"entrada cero", inventory.MovementInput{ItemID: id, Kind: entity.MovementReceipt, Quantity: 0}},
		{"salida negativa", inventory.MovementInput{ItemID: id, Kind: entity.MovementWithdrawal, Quantity: -3}},
		{"devolución cero", inventory.MovementInput{ItemID: id, Kind: entity.MovementSaleReversal, Quantity: 0}},
		{"ajuste negativo", inventory.MovementInput{ItemID: id, Kind: entity.MovementAdjustment, Quantity: -1}},
		{"sin artículo", inventory.MovementInput{Kind: entity.MovementReceipt, Quantity: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.ledger.ApplyMovement(context.Background(), tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, int64(10), f.stock(t, id))
}

func TestApplyMovement_ReceiptOverflowIsInvalidInput(t *testing.T) {
	f := newFixture(t)
	id := f.seedItem(t, "A-9", 5, 0)

	for _, kind := range []entity.MovementKind{entity.MovementReceipt, entity.MovementSaleReversal} {
		_, err := f.ledger.ApplyMovement(context.Background(), inventory.MovementInput{
			ItemID: id, Kind: kind, Quantity: math.MaxInt64, ActorID: actor,
		})
		var invalid *domain.InvalidInputError
		require.ErrorAs(t, err, &invalid, "kind=%s", kind)
		assert.Equal(t, "quantity", invalid.Field)
		assert.False(t, domain.IsRetryable(err))
	}

	_, err := f.ledger.ApplyMovement(context.Background(), inventory.MovementInput{
		ItemID: id, Kind: entity.MovementReceipt, Quantity: math.MaxInt64 - 5, ActorID: actor,
	})
	require.NoError(t, err, "llegar exactamente al máximo es válido")
	assert.Equal(t, int64(math.MaxInt64), f.stock(t, id))
	f.assertLedgerMatchesStock(t, id)
}

func TestApplyMovement_ItemNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.ApplyMovement(context.Background(), inventory.MovementInput{
		ItemID: "no-existe", Kind: entity.MovementReceipt, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "no-existe", nf.ID)
}

func TestApplyMovement_ConcurrentWithdrawalsSerialize(t *testing.T) {
	f := newFixture(t)
	id := f.seedItem(t, "A-5", 100, 0)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.ledger.ApplyMovement(context.Background(), inventory.MovementInput{
				ItemID: id, Kind: entity.MovementWithdrawal, Quantity: 60, ActorID: actor,
			})
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, int64(40), f.stock(t, id))
	f.assertLedgerMatchesStock(t, id)
}

func TestApplyMovement_CancelledContextIsRetryable(t *testing.T) {
	f := newFixture(t)
	id := f.seedItem(t, "A-6", 10, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.ledger.ApplyMovement(ctx, inventory.MovementInput{ItemID: id, Kind: entity.MovementWithdrawal, Quantity: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.True(t, domain.IsRetryable(err))
	assert.Equal(t, int64(10), f.stock(t, id))
}

func TestApplyMovement_PublishFailureKeepsCommit(t *testing.T) {
	f := newFixture(t)
	id := f.seedItem(t, "A-7", 0, 0)
	f.events.err = errors.New("broker caído")

	_, err := f.ledger.ApplyMovement(context.Background(), inventory.MovementInput{ItemID: id, Kind: entity.MovementReceipt, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(3), f.stock(t, id))
}

func TestApplyInTx_RollbackDiscardsEarlierMovements(t *testing.T) {
	f := newFixture(t)
	a := f.seedItem(t, "A-8", 10, 0)
	b := f.seedItem(t, "A-9", 1, 0)

	err := f.store.Run(context.Background(), func(itemRepo repository.ItemRepository, movRepo repository.MovementRepository) error {
		if _, err := f.ledger.ApplyInTx(context.Background(), itemRepo, movRepo, inventory.MovementInput{
			ItemID: a, Kind: entity.MovementWithdrawal, Quantity: 4,
		}); err != nil {
			return err
		}
		_, err := f.ledger.ApplyInTx(context.Background(), itemRepo, movRepo, inventory.MovementInput{
			ItemID: b, Kind: entity.MovementWithdrawal, Quantity: 2,
		})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), f.stock(t, a))
	assert.Equal(t, int64(1), f.stock(t, b))
	f.assertLedgerMatchesStock(t, a)
}

func TestListMovements_FiltersAndPaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedItem(t, "B-1", 10, 0)
	b := f.seedItem(t, "B-2", 10, 0)
	for i := 0; i < 3; i++ {
		_, err := f.ledger.ApplyMovement(ctx, inventory.MovementInput{ItemID: a, Kind: entity.MovementWithdrawal, Quantity: 1, ActorID: "vendedor-1"})
		require.NoError(t, err)
	}

	page, err := f.ledger.ListMovements(ctx, dto.MovementQuery{ItemID: a, PageRequest: dto.PageRequest{Page: 1, PerPage: 2}})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 2, page.Pages)
	assert.Len(t, page.Movements, 2)
	assert.Equal(t, "withdrawal", page.Movements[0].Kind, "orden del más reciente al más antiguo")

	page, err = f.ledger.ListMovements(ctx, dto.MovementQuery{Kind: "receipt"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	page, err = f.ledger.ListMovements(ctx, dto.MovementQuery{ActorID: "vendedor-1", ItemID: b})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)

	_, err = f.ledger.ListMovements(ctx, dto.MovementQuery{Kind: "transfer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.ledger.ListMovements(ctx, dto.MovementQuery{From: "2024-13-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListMovements_HugePageReturnsEmpty(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "B-3", 10, 0)

	page, err := f.ledger.ListMovements(context.Background(), dto.MovementQuery{
		PageRequest: dto.PageRequest{Page: math.MaxInt/20 + 2, PerPage: 20},
	})
	require.NoError(t, err)
	assert.Empty(t, page.Movements)
	assert.Equal(t, 1, page.Total)
}

func TestVerifyItem(t *testing.T) {
	f := newFixture(t)
	id := f.seedItem(t, "C-1", 8, 0)

	audit, err := f.ledger.VerifyItem(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, audit.Consistent)
	assert.Equal(t, int64(8), audit.Stock)
	assert.Equal(t, int64(8), audit.LedgerSum)

	_, err = f.ledger.VerifyItem(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGenerateReplenishmentList(t *testing.T) {
	f := newFixture(t)
	out := f.seedItem(t, "R-1", 0, 5)  // agotado: pedir 10
	low := f.seedItem(t, "R-2", 2, 10) // bajo: pedir 18
	f.seedItem(t, "R-3", 50, 10)       // exceso: no aparece

	uc := inventory.NewReplenishmentUseCase(f.store.Reports())
	list, err := uc.GenerateReplenishmentList(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, out, list[0].ItemID, "los agotados van primero")
	assert.Equal(t, int64(10), list[0].SuggestedOrderQty)
	assert.Equal(t, 1, list[0].Priority)
	assert.Equal(t, low, list[1].ItemID)
	assert.Equal(t, int64(20), list[1].TargetStock)
	assert.Equal(t, int64(18), list[1].SuggestedOrderQty)
}
