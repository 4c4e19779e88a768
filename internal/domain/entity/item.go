package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item artículo del catálogo. Stock solo lo modifica el kardex (movimientos);
// el resto de campos pertenece al catálogo.
type Item struct {
	ID          string
	Code        string // código único
	Name        string
	Description string
	CategoryID  string // vacío si no tiene categoría
	SupplierID  string // vacío si no tiene proveedor
	Stock       int64  // siempre igual a la suma de deltas de sus movimientos
	MinStock    int64
	Price       decimal.Decimal  // precio de venta
	CostPrice   *decimal.Decimal // costo de compra (opcional)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StockStatus clasificación del nivel de stock frente al mínimo.
type StockStatus string

const (
	StockLow    StockStatus = "low"    // stock <= mínimo
	StockOK     StockStatus = "ok"     // mínimo < stock <= 2·mínimo
	StockExcess StockStatus = "excess" // stock > 2·mínimo
)

// ClassifyStock devuelve el estado del stock según el mínimo configurado.
func ClassifyStock(stock, minStock int64) StockStatus {
	switch {
	case stock <= minStock:
		return StockLow
	case stock <= minStock*2:
		return StockOK
	default:
		return StockExcess
	}
}

// ParseStockStatus valida un filtro de estado. Vacío significa sin filtro.
func ParseStockStatus(s string) (StockStatus, bool) {
	switch StockStatus(s) {
	case "", StockLow, StockOK, StockExcess:
		return StockStatus(s), true
	}
	return "", false
}
