package entity

import (
	"time"
)

// MovementKind tipo cerrado de movimiento del kardex.
type MovementKind string

const (
	MovementReceipt      MovementKind = "receipt"       // entrada
	MovementWithdrawal   MovementKind = "withdrawal"    // salida
	MovementAdjustment   MovementKind = "adjustment"    // ajuste a valor absoluto
	MovementSaleIssue    MovementKind = "sale-issue"    // salida por venta
	MovementSaleReversal MovementKind = "sale-reversal" // devolución por anulación de venta
)

// MovementKinds todos los tipos válidos.
var MovementKinds = []MovementKind{
	MovementReceipt, MovementWithdrawal, MovementAdjustment, MovementSaleIssue, MovementSaleReversal,
}

// Valid indica si k pertenece al conjunto cerrado.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementReceipt, MovementWithdrawal, MovementAdjustment, MovementSaleIssue, MovementSaleReversal:
		return true
	}
	return false
}

// ParseMovementKind convierte texto en MovementKind.
func ParseMovementKind(s string) (MovementKind, bool) {
	k := MovementKind(s)
	return k, k.Valid()
}

// Movement registro inmutable del kardex. StockAfter = StockBefore + Delta.
type Movement struct {
	ID          string
	ItemID      string
	Kind        MovementKind
	Delta       int64 // cantidad con signo realmente aplicada
	StockBefore int64
	StockAfter  int64
	ActorID     string // opcional
	Note        string // opcional
	SaleID      string // opcional
	CreatedAt   time.Time
}
