package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// StockLevelDTO fila de GET /api/reports/stock-status.
type StockLevelDTO struct {
	ItemID   string             `json:"item_id"`
	Code     string             `json:"code"`
	Name     string             `json:"name"`
	Stock    int64              `json:"stock"`
	MinStock int64              `json:"min_stock"`
	Status   entity.StockStatus `json:"status"`
}

// StockStatusPage página del reporte de niveles de stock.
type StockStatusPage struct {
	Items []StockLevelDTO `json:"items"`
	PageResponse
}

// DailyFlowDTO punto de la serie diaria de entradas/salidas.
type DailyFlowDTO struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Inbound  int64  `json:"inbound"`
	Outbound int64  `json:"outbound"`
}

// MovementSeriesDTO respuesta de GET /api/reports/movements/series.
type MovementSeriesDTO struct {
	Days   int            `json:"days"`
	Series []DailyFlowDTO `json:"series"`
}

// ItemSalesDTO unidades vendidas e ingreso por artículo.
type ItemSalesDTO struct {
	ItemID   string          `json:"item_id"`
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Quantity int64           `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// SalesRankingDTO respuesta de GET /api/reports/sales-ranking.
type SalesRankingDTO struct {
	BestSellers  []ItemSalesDTO `json:"best_sellers"`
	WorstSellers []ItemSalesDTO `json:"worst_sellers"`
	NeverSold    []ItemSalesDTO `json:"never_sold"`
}

// SummaryDTO respuesta de GET /api/reports/summary.
type SummaryDTO struct {
	Items           int                `json:"items"`
	LowStock        int                `json:"low_stock"`
	OutOfStock      int                `json:"out_of_stock"`
	StockValue      decimal.Decimal    `json:"stock_value"`
	SalesLast30Days int                `json:"sales_last_30_days"`
	NetLast30Days   decimal.Decimal    `json:"net_last_30_days"`
	LastMovements   []MovementResponse `json:"last_movements"`
}

// CategoryStockDTO fila de GET /api/reports/stock-by-category. CategoryID vacío agrupa los
// artículos sin categoría.
type CategoryStockDTO struct {
	CategoryID   string          `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name"`
	Items        int             `json:"items"`
	Units        int64           `json:"units"`
	LowStock     int             `json:"low_stock"`
	StockValue   decimal.Decimal `json:"stock_value"`
}
