package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus estado de una venta. Las anuladas se conservan para que los movimientos
// sale-issue/sale-reversal sigan resolviendo su sale_id.
type SaleStatus string

const (
	SaleActive    SaleStatus = "active"
	SaleCancelled SaleStatus = "cancelled"
)

// DefaultCustomerName cliente por defecto cuando la venta no indica uno.
const DefaultCustomerName = "Consumidor Final"

// Sale cabecera de venta. Net = Gross - Discount, 0 <= Discount <= Gross.
type Sale struct {
	ID            string
	Code          string
	CustomerName  string
	Gross         decimal.Decimal
	Discount      decimal.Decimal
	Net           decimal.Decimal
	PaymentMethod string
	Note          string
	ActorID       string
	Status        SaleStatus
	CreatedAt     time.Time
	CancelledAt   *time.Time
	CancelledBy   string
	LineCount     int // solo en listados
	Lines         []SaleLine
}

// IsActive indica si la venta no fue anulada.
func (s *Sale) IsActive() bool { return s.Status == SaleActive }

// SaleLine línea de venta. Subtotal = Quantity × UnitPrice.
type SaleLine struct {
	ID        string
	SaleID    string
	ItemID    string
	ItemName  string // solo lectura (join con items)
	Quantity  int64
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}
