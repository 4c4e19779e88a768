package sales_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/application/sales"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

const (
	seller = "vendedor-1"
	admin  = "admin-1"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.Event
}

func (p *recordingPublisher) Publish(_ context.Context, events ...ports.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store  *memory.Store
	ledger *inventory.LedgerUseCase
	uc     *sales.SaleUseCase
	events *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	ledger := inventory.NewLedgerUseCase(store, store.Items(), store.Movements(), nil, nil)
	events := &recordingPublisher{}
	return &fixture{
		store:  store,
		ledger: ledger,
		uc:     sales.NewSaleUseCase(store, ledger, store.Sales(), events, nil),
		events: events,
	}
}

func (f *fixture) seedItem(t *testing.T, code string, stock int64) string {
	t.Helper()
	ctx := context.Background()
	item := &entity.Item{ID: uuid.New().String(), Code: code, Name: "Artículo " + code, Price: decimal.NewFromInt(10)}
	require.NoError(t, f.store.Items().Create(ctx, item))
	if stock > 0 {
		_, err := f.ledger.ApplyMovement(ctx, inventory.MovementInput{ItemID: item.ID, Kind: entity.MovementReceipt, Quantity: stock})
		require.NoError(t, err)
	}
	return item.ID
}

func (f *fixture) stock(t *testing.T, id string) int64 {
	t.Helper()
	it, err := f.store.Items().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it.Stock
}

func (f *fixture) movements(t *testing.T, filter repository.MovementFilter) []*entity.Movement {
	t.Helper()
	list, _, err := f.store.Movements().List(context.Background(), filter)
	require.NoError(t, err)
	return list
}

func line(itemID string, qty int64, price int64) sales.SaleLineInput {
	return sales.SaleLineInput{ItemID: itemID, Quantity: qty, UnitPrice: decimal.NewFromInt(price)}
}

func TestCreateSale_ComputesTotalsAndIssuesStock(t *testing.T) {
	f := newFixture(t)
	a := f.seedItem(t, "S-1", 20)
	b := f.seedItem(t, "S-2", 5)

	sale, err := f.uc.CreateSale(context.Background(), sales.CreateSaleInput{
		Lines:    []sales.SaleLineInput{line(a, 3, 1500), line(b, 2, 2500)},
		ActorID:  seller,
		Discount: decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^V\d{14}[0-9A-F]{4}$`), sale.Code)
	assert.Equal(t, entity.DefaultCustomerName, sale.CustomerName)
	assert.True(t, sale.Gross.Equal(decimal.NewFromInt(9500)))
	assert.True(t, sale.Net.Equal(decimal.NewFromInt(9000)))
	require.Len(t, sale.Lines, 2)
	assert.True(t, sale.Lines[0].Subtotal.Equal(decimal.NewFromInt(4500)))
	assert.True(t, sale.Lines[1].Subtotal.Equal(decimal.NewFromInt(5000)))

	assert.Equal(t, int64(17), f.stock(t, a))
	assert.Equal(t, int64(3), f.stock(t, b))

	issues := f.movements(t, repository.MovementFilter{SaleID: sale.ID})
	require.Len(t, issues, 2)
	for _, m := range issues {
		assert.Equal(t, entity.MovementSaleIssue, m.Kind)
		assert.Equal(t, sale.Code, m.Note)
		assert.Equal(t, seller, m.ActorID)
	}
	assert.Equal(t, []string{ports.EventMovementRecorded, ports.EventMovementRecorded, ports.EventSaleCreated}, f.events.types())
}

func TestCreateSale_SecondLineInsufficientRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	a := f.seedItem(t, "S-3", 10)
	b := f.seedItem(t, "S-4", 1)
	before := len(f.movements(t, repository.MovementFilter{}))

	_, err := f.uc.CreateSale(context.Background(), sales.CreateSaleInput{
		Lines:   []sales.SaleLineInput{line(a, 4, 100), line(b, 2, 100)},
		ActorID: seller,
	})
	require.Error(t, err)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, b, stockErr.ItemID)
	assert.Equal(t, int64(1), stockErr.Available)
	assert.Equal(t, int64(2), stockErr.Requested)

	assert.Equal(t, int64(10), f.stock(t, a), "la primera línea no debe quedar aplicada")
	assert.Equal(t, int64(1), f.stock(t, b))
	assert.Len(t, f.movements(t, repository.MovementFilter{}), before)

	list, err := f.uc.ListSales(context.Background(), dto.SaleQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Total)
	assert.Empty(t, f.events.types(), "no se publica nada si la venta se revierte")
}

func TestCreateSale_SharedItemAcrossLines(t *testing.T) {
	f := newFixture(t)
	a := f.seedItem(t, "S-5", 5)

	_, err := f.uc.CreateSale(context.Background(), sales.CreateSaleInput{
		Lines:   []sales.SaleLineInput{line(a, 3, 10), line(a, 3, 10)},
		ActorID: seller,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(5), f.stock(t, a))
}

func TestCreateSale_UnknownItemRollsBack(t *testing.T) {
	f := newFixture(t)
	a := f.seedItem(t, "S-6", 5)

	_, err := f.uc.CreateSale(context.Background(), sales.CreateSaleInput{
		Lines:   []sales.SaleLineInput{line(a, 1, 10), line("no-existe", 1, 10)},
		ActorID: seller,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(5), f.stock(t, a))
}

func TestCreateSale_ConcurrentSalesForScarceItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	common := f.seedItem(t, "S-8", 50)
	scarce := f.seedItem(t, "S-9", 10)

	// Líneas en orden inverso en cada venta: el bloqueo por id evita interbloqueos.
	orders := [][]sales.SaleLineInput{
		{line(common, 5, 10), line(scarce, 6, 10)},
		{line(scarce, 6, 10), line(common, 5, 10)},
	}

	var (
		wg        sync.WaitGroup
		start     = make(chan struct{})
		results   = make([]error, len(orders))
		succeeded int
		rejected  int
	)
	for i, lines := range orders {
		wg.Add(1)
		go func(i int, lines []sales.SaleLineInput) {
			defer wg.Done()
			<-start
			_, results[i] = f.uc.CreateSale(ctx, sales.CreateSaleInput{Lines: lines, ActorID: seller})
		}(i, lines)
	}
	close(start)
	wg.Wait()

	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrInsufficientStock):
			rejected++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded, "solo una venta puede llevarse el artículo escaso")
	assert.Equal(t, 1, rejected)

	assert.Equal(t, int64(4), f.stock(t, scarce))
	assert.Equal(t, int64(45), f.stock(t, common), "la venta rechazada no deja salidas parciales")
	for _, id := range []string{common, scarce} {
		sum, err := f.store.Movements().SumDeltas(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, f.stock(t, id), sum)
	}

	list, err := f.uc.ListSales(ctx, dto.SaleQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
}

func TestCreateSale_Validation(t *testing.T) {
	f := newFixture(t)
	a := f.seedItem(t, "S-7", 50)

	cases := []struct {
		name    string
		in      sales.CreateSaleInput
		message string
	}{
		{"sin líneas", sales.CreateSaleInput{ActorID: seller}, "al menos una línea"},
		{"sin actor", sales.CreateSaleInput{Lines: []sales.SaleLineInput{line(a, 1, 10)}}, "actor_id"},
		{"cantidad cero", sales.CreateSaleInput{Lines: []sales.SaleLineInput{line(a, 0, 10)}, ActorID: seller}, a},
		{"precio negativo", sales.CreateSaleInput{Lines: []sales.SaleLineInput{line(a, 1, -10)}, ActorID: seller}, a},
		{
			"descuento mayor al bruto",
			sales.CreateSaleInput{Lines: []sales.SaleLineInput{line(a, 10, 10)}, ActorID: seller, Discount: decimal.NewFromInt(150)},
			"descuento",
		},
		{
			"descuento negativo",
			sales.CreateSaleInput{Lines: []sales.SaleLineInput{line(a, 1, 10)}, ActorID: seller, Discount: decimal.NewFromInt(-1)},
			"descuento",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.uc.CreateSale(context.Background(), tc.in)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
	assert.Equal(t, int64(50), f.stock(t, a))
	list, err := f.uc.ListSales(context.Background(), dto.SaleQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Total)
}

func TestCancelSale_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedItem(t, "S-8", 100)

	sale, err := f.uc.CreateSale(ctx, sales.CreateSaleInput{Lines: []sales.SaleLineInput{line(a, 10, 10)}, ActorID: seller})
	require.NoError(t, err)
	assert.Equal(t, int64(90), f.stock(t, a))

	require.NoError(t, f.uc.CancelSale(ctx, sale.ID, admin))
	assert.Equal(t, int64(100), f.stock(t, a))

	history := f.movements(t, repository.MovementFilter{SaleID: sale.ID})
	require.Len(t, history, 2)
	assert.Equal(t, entity.MovementSaleReversal, history[0].Kind)
	assert.Equal(t, int64(10), history[0].Delta)
	assert.Equal(t, admin, history[0].ActorID)
	assert.Contains(t, history[0].Note, sale.Code)
	assert.Equal(t, entity.MovementSaleIssue, history[1].Kind, "el sale-issue original se conserva")
	assert.Equal(t, int64(-10), history[1].Delta)

	_, err = f.uc.GetSale(ctx, sale.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "una venta anulada deja de existir para las lecturas")
	list, err := f.uc.ListSales(ctx, dto.SaleQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Total)

	// La referencia del kardex sigue resolviendo para auditoría.
	stored, err := f.store.Sales().GetByID(ctx, sale.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, entity.SaleCancelled, stored.Status)
	assert.Equal(t, admin, stored.CancelledBy)

	sum, err := f.store.Movements().SumDeltas(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, int64(100), sum)
}

func TestCancelSale_TwiceOrUnknownIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedItem(t, "S-9", 10)

	sale, err := f.uc.CreateSale(ctx, sales.CreateSaleInput{Lines: []sales.SaleLineInput{line(a, 2, 10)}, ActorID: seller})
	require.NoError(t, err)
	require.NoError(t, f.uc.CancelSale(ctx, sale.ID, admin))

	err = f.uc.CancelSale(ctx, sale.ID, admin)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(10), f.stock(t, a), "la segunda anulación no devuelve stock")

	assert.ErrorIs(t, f.uc.CancelSale(ctx, "no-existe", admin), domain.ErrNotFound)
}

func TestGetAndListSales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedItem(t, "S-10", 10)

	first, err := f.uc.CreateSale(ctx, sales.CreateSaleInput{Lines: []sales.SaleLineInput{line(a, 1, 10)}, ActorID: seller, CustomerName: "Ana"})
	require.NoError(t, err)
	_, err = f.uc.CreateSale(ctx, sales.CreateSaleInput{Lines: []sales.SaleLineInput{line(a, 2, 10)}, ActorID: "otro"})
	require.NoError(t, err)

	got, err := f.uc.GetSale(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.CustomerName)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "Artículo S-10", got.Lines[0].ItemName)

	page, err := f.uc.ListSales(ctx, dto.SaleQuery{ActorID: seller})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, first.ID, page.Sales[0].ID)
	assert.Equal(t, 1, page.Sales[0].LineCount)

	page, err = f.uc.ListSales(ctx, dto.SaleQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
}
