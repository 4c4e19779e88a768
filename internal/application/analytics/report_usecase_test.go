package analytics_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/sales"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

// mapCache caché en memoria que serializa igual que la de Redis.
type mapCache struct {
	data map[string][]byte
	gets int
	hits int
	fail bool
}

func newMapCache() *mapCache { return &mapCache{data: make(map[string][]byte)} }

func (c *mapCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.gets++
	if c.fail {
		return false, errors.New("redis caído")
	}
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dest)
}

func (c *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if c.fail {
		return errors.New("redis caído")
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

type fixture struct {
	store  *memory.Store
	ledger *inventory.LedgerUseCase
	sales  *sales.SaleUseCase
}

func newFixture() *fixture {
	store := memory.New()
	ledger := inventory.NewLedgerUseCase(store, store.Items(), store.Movements(), nil, nil)
	return &fixture{
		store:  store,
		ledger: ledger,
		sales:  sales.NewSaleUseCase(store, ledger, store.Sales(), nil, nil),
	}
}

func (f *fixture) seedItem(t *testing.T, code string, stock, minStock int64, cost *decimal.Decimal) string {
	t.Helper()
	ctx := context.Background()
	item := &entity.Item{
		ID: uuid.New().String(), Code: code, Name: code, MinStock: minStock,
		Price: decimal.NewFromInt(10), CostPrice: cost,
	}
	require.NoError(t, f.store.Items().Create(ctx, item))
	if stock > 0 {
		_, err := f.ledger.ApplyMovement(ctx, inventory.MovementInput{ItemID: item.ID, Kind: entity.MovementReceipt, Quantity: stock})
		require.NoError(t, err)
	}
	return item.ID
}

func (f *fixture) sell(t *testing.T, itemID string, qty int64) *entity.Sale {
	t.Helper()
	sale, err := f.sales.CreateSale(context.Background(), sales.CreateSaleInput{
		Lines:   []sales.SaleLineInput{{ItemID: itemID, Quantity: qty, UnitPrice: decimal.NewFromInt(10)}},
		ActorID: "vendedor-1",
	})
	require.NoError(t, err)
	return sale
}

func TestStockStatus_Classification(t *testing.T) {
	f := newFixture()
	f.seedItem(t, "bajo", 5, 5, nil)    // stock <= min
	f.seedItem(t, "ok", 8, 5, nil)      // min < stock <= 2·min
	f.seedItem(t, "exceso", 11, 5, nil) // stock > 2·min
	f.seedItem(t, "agotado", 0, 0, nil) // 0 <= 0
	uc := analytics.NewReportUseCase(f.store.Reports(), f.store.Movements(), nil, 0, nil)

	all, err := uc.StockStatus(context.Background(), "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 4, all.Total)
	got := map[string]entity.StockStatus{}
	for _, it := range all.Items {
		got[it.Code] = it.Status
	}
	assert.Equal(t, map[string]entity.StockStatus{
		"bajo": entity.StockLow, "ok": entity.StockOK, "exceso": entity.StockExcess, "agotado": entity.StockLow,
	}, got)

	low, err := uc.StockStatus(context.Background(), "low", dto.PageRequest{Page: 1, PerPage: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, low.Total)
	assert.Equal(t, 2, low.Pages)
	assert.Len(t, low.Items, 1)

	_, err = uc.StockStatus(context.Background(), "critico", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMovementSeries_ZeroFilled(t *testing.T) {
	f := newFixture()
	id := f.seedItem(t, "serie", 10, 0, nil)
	_, err := f.ledger.ApplyMovement(context.Background(), inventory.MovementInput{ItemID: id, Kind: entity.MovementWithdrawal, Quantity: 3})
	require.NoError(t, err)
	_, err = f.ledger.ApplyMovement(context.Background(), inventory.MovementInput{ItemID: id, Kind: entity.MovementAdjustment, Quantity: 9})
	require.NoError(t, err)

	uc := analytics.NewReportUseCase(f.store.Reports(), f.store.Movements(), nil, 0, nil)
	out, err := uc.MovementSeries(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, out.Series, 7)

	today := time.Now().UTC().Format("2006-01-02")
	last := out.Series[6]
	assert.Equal(t, today, last.Date)
	assert.Equal(t, int64(12), last.Inbound, "entrada de 10 más ajuste positivo de 2")
	assert.Equal(t, int64(3), last.Outbound)
	for _, p := range out.Series[:6] {
		assert.Zero(t, p.Inbound)
		assert.Zero(t, p.Outbound)
	}

	def, err := uc.MovementSeries(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, def.Series, analytics.DefaultSeriesDays)

	_, err = uc.MovementSeries(context.Background(), 366)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.MovementSeries(context.Background(), -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSalesRanking_ExcludesCancelledSales(t *testing.T) {
	f := newFixture()
	top := f.seedItem(t, "top", 100, 0, nil)
	low := f.seedItem(t, "low", 100, 0, nil)
	never := f.seedItem(t, "never", 100, 0, nil)
	cancelled := f.seedItem(t, "cancelled", 100, 0, nil)

	f.sell(t, top, 7)
	f.sell(t, top, 3)
	f.sell(t, low, 1)
	sale := f.sell(t, cancelled, 50)
	require.NoError(t, f.sales.CancelSale(context.Background(), sale.ID, "admin-1"))

	uc := analytics.NewReportUseCase(f.store.Reports(), f.store.Movements(), nil, 0, nil)
	out, err := uc.SalesRanking(context.Background(), 0)
	require.NoError(t, err)

	require.Len(t, out.BestSellers, 2)
	assert.Equal(t, top, out.BestSellers[0].ItemID)
	assert.Equal(t, int64(10), out.BestSellers[0].Quantity)
	assert.True(t, out.BestSellers[0].Revenue.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, low, out.WorstSellers[0].ItemID)

	neverIDs := []string{}
	for _, r := range out.NeverSold {
		neverIDs = append(neverIDs, r.ItemID)
	}
	assert.ElementsMatch(t, []string{never, cancelled}, neverIDs)

	_, err = uc.SalesRanking(context.Background(), analytics.MaxRankingLimit+1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSummary(t *testing.T) {
	f := newFixture()
	cost := decimal.RequireFromString("2.50")
	a := f.seedItem(t, "a", 10, 2, &cost)
	f.seedItem(t, "b", 0, 1, nil)
	f.sell(t, a, 4)

	uc := analytics.NewReportUseCase(f.store.Reports(), f.store.Movements(), nil, 0, nil)
	out, err := uc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, out.Items)
	assert.Equal(t, 1, out.LowStock)
	assert.Equal(t, 1, out.OutOfStock)
	assert.True(t, out.StockValue.Equal(decimal.RequireFromString("15")), "6 unidades × 2.50")
	assert.Equal(t, 1, out.SalesLast30Days)
	assert.True(t, out.NetLast30Days.Equal(decimal.NewFromInt(40)))
	require.Len(t, out.LastMovements, 2)
	assert.Equal(t, "sale-issue", out.LastMovements[0].Kind)
}

func TestReports_ReadThroughCache(t *testing.T) {
	f := newFixture()
	id := f.seedItem(t, "cache", 1, 5, nil)
	cache := newMapCache()
	uc := analytics.NewReportUseCase(f.store.Reports(), f.store.Movements(), cache, time.Minute, nil)

	first, err := uc.StockStatus(context.Background(), "low", dto.PageRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, first.Total)

	// Un cambio posterior no se ve hasta que expire la entrada.
	_, err = f.ledger.ApplyMovement(context.Background(), inventory.MovementInput{ItemID: id, Kind: entity.MovementReceipt, Quantity: 20})
	require.NoError(t, err)

	second, err := uc.StockStatus(context.Background(), "low", dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Total)
	assert.Equal(t, 1, cache.hits)

	cache.fail = true
	third, err := uc.StockStatus(context.Background(), "low", dto.PageRequest{})
	require.NoError(t, err, "un fallo de la caché no impide calcular el reporte")
	assert.Equal(t, 0, third.Total)
}

func TestStockByCategory_GroupsAndPutsUncategorizedLast(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	now := time.Now().UTC()
	herramientas := &entity.Category{ID: uuid.New().String(), Name: "Herramientas", CreatedAt: now, UpdatedAt: now}
	abarrotes := &entity.Category{ID: uuid.New().String(), Name: "Abarrotes", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.store.Categories().Create(ctx, herramientas))
	require.NoError(t, f.store.Categories().Create(ctx, abarrotes))

	cost3, cost2 := decimal.NewFromInt(3), decimal.NewFromInt(2)
	seed := func(code, categoryID string, stock, minStock int64, cost *decimal.Decimal) {
		id := f.seedItem(t, code, stock, minStock, cost)
		if categoryID == "" {
			return
		}
		it, err := f.store.Items().GetByID(ctx, id)
		require.NoError(t, err)
		it.CategoryID = categoryID
		require.NoError(t, f.store.Items().Update(ctx, it))
	}
	seed("martillo", herramientas.ID, 10, 2, &cost3)
	seed("alicate", herramientas.ID, 1, 5, nil)
	seed("arroz", abarrotes.ID, 4, 0, nil)
	seed("suelto", "", 7, 10, &cost2)

	uc := analytics.NewReportUseCase(f.store.Reports(), f.store.Movements(), nil, 0, nil)
	rows, err := uc.StockByCategory(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Abarrotes", rows[0].CategoryName)
	assert.Equal(t, 1, rows[0].Items)
	assert.Equal(t, int64(4), rows[0].Units)
	assert.Equal(t, 0, rows[0].LowStock)

	assert.Equal(t, herramientas.ID, rows[1].CategoryID)
	assert.Equal(t, 2, rows[1].Items)
	assert.Equal(t, int64(11), rows[1].Units)
	assert.Equal(t, 1, rows[1].LowStock)
	assert.True(t, rows[1].StockValue.Equal(decimal.NewFromInt(30)), rows[1].StockValue.String())

	assert.Empty(t, rows[2].CategoryID)
	assert.Equal(t, int64(7), rows[2].Units)
	assert.Equal(t, 1, rows[2].LowStock)
	assert.True(t, rows[2].StockValue.Equal(decimal.NewFromInt(14)), rows[2].StockValue.String())
}
