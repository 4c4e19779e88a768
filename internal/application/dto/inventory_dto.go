package dto

import (
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ApplyMovementRequest body para POST /api/inventory/movements.
// Para adjustment, quantity es el nuevo stock absoluto.
type ApplyMovementRequest struct {
	ItemID   string `json:"item_id"`
	Kind     string `json:"kind"`
	Quantity int64  `json:"quantity"`
	Note     string `json:"note,omitempty"`
}

// MovementResponse registro del kardex en respuestas.
type MovementResponse struct {
	ID          string    `json:"id"`
	ItemID      string    `json:"item_id"`
	Kind        string    `json:"kind"`
	Delta       int64     `json:"delta"`
	StockBefore int64     `json:"stock_before"`
	StockAfter  int64     `json:"stock_after"`
	ActorID     string    `json:"actor_id,omitempty"`
	Note        string    `json:"note,omitempty"`
	SaleID      string    `json:"sale_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// MovementFromEntity mapea un movimiento a su respuesta.
func MovementFromEntity(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:          m.ID,
		ItemID:      m.ItemID,
		Kind:        string(m.Kind),
		Delta:       m.Delta,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		ActorID:     m.ActorID,
		Note:        m.Note,
		SaleID:      m.SaleID,
		CreatedAt:   m.CreatedAt,
	}
}

// MovementQuery filtros de GET /api/inventory/movements. Fechas en formato YYYY-MM-DD.
type MovementQuery struct {
	ItemID  string `query:"item_id"`
	Kind    string `query:"kind"`
	ActorID string `query:"actor_id"`
	SaleID  string `query:"sale_id"`
	From    string `query:"from"`
	To      string `query:"to"`
	PageRequest
}

// MovementPage página del historial.
type MovementPage struct {
	Movements []MovementResponse `json:"movements"`
	PageResponse
}

// StockAuditResponse conciliación de stock contra la suma del kardex.
type StockAuditResponse struct {
	ItemID     string `json:"item_id"`
	Stock      int64  `json:"stock"`
	LedgerSum  int64  `json:"ledger_sum"`
	Consistent bool   `json:"consistent"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un artículo en stock bajo.
type ReplenishmentSuggestionDTO struct {
	ItemID            string `json:"item_id"`
	Code              string `json:"code"`
	Name              string `json:"name"`
	CurrentStock      int64  `json:"current_stock"`
	MinStock          int64  `json:"min_stock"`
	TargetStock       int64  `json:"target_stock"`        // 2 × mínimo
	SuggestedOrderQty int64  `json:"suggested_order_qty"` // TargetStock - CurrentStock
	Priority          int    `json:"priority"`            // 1 = más urgente
}
