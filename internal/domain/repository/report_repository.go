package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// StockLevelRow fila del reporte de niveles de stock.
type StockLevelRow struct {
	ItemID   string
	Code     string
	Name     string
	Stock    int64
	MinStock int64
	Status   entity.StockStatus
}

// DailyFlowRow entradas y salidas agregadas de un día (salidas en valor absoluto).
type DailyFlowRow struct {
	Day      time.Time
	Inbound  int64
	Outbound int64
}

// ItemSalesRow unidades vendidas e ingreso de un artículo (ventas activas).
type ItemSalesRow struct {
	ItemID   string
	Code     string
	Name     string
	Quantity int64
	Revenue  decimal.Decimal
}

// SummaryCounts indicadores del tablero.
type SummaryCounts struct {
	Items      int
	LowStock   int
	OutOfStock int
	StockValue decimal.Decimal // Σ stock × costo
	SalesCount int
	SalesNet   decimal.Decimal
}

// CategoryStockRow stock agregado de una categoría. CategoryID vacío agrupa los artículos sin categoría.
type CategoryStockRow struct {
	CategoryID   string
	CategoryName string
	Items        int
	Units        int64
	LowStock     int
	StockValue   decimal.Decimal // Σ stock × costo
}

// ReportRepository consultas de solo lectura sobre catálogo, kardex y ventas.
type ReportRepository interface {
	StockLevels(ctx context.Context, status entity.StockStatus, limit, offset int) ([]StockLevelRow, int, error)
	// DailyFlows devuelve solo los días con movimientos dentro de [from, to).
	DailyFlows(ctx context.Context, from, to time.Time) ([]DailyFlowRow, error)
	// ItemSales ranking por unidades vendidas; ascending=true para los menos vendidos.
	ItemSales(ctx context.Context, ascending bool, limit int) ([]ItemSalesRow, error)
	UnsoldItems(ctx context.Context, limit int) ([]ItemSalesRow, error)
	Summary(ctx context.Context, salesSince time.Time) (*SummaryCounts, error)
	// StockByCategory ordena por nombre de categoría; los artículos sin categoría van al final.
	StockByCategory(ctx context.Context) ([]CategoryStockRow, error)
}
