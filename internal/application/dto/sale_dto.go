package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	CustomerName  string                  `json:"customer_name,omitempty"`
	Lines         []CreateSaleLineRequest `json:"lines"`
	Discount      decimal.Decimal         `json:"discount"`
	PaymentMethod string                  `json:"payment_method,omitempty"`
	Note          string                  `json:"note,omitempty"`
}

// CreateSaleLineRequest línea de venta (artículo, cantidad, precio unitario).
type CreateSaleLineRequest struct {
	ItemID    string          `json:"item_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// SaleResponse venta con su detalle.
type SaleResponse struct {
	ID            string             `json:"id"`
	Code          string             `json:"code"`
	CustomerName  string             `json:"customer_name"`
	Gross         decimal.Decimal    `json:"gross"`
	Discount      decimal.Decimal    `json:"discount"`
	Net           decimal.Decimal    `json:"net"`
	PaymentMethod string             `json:"payment_method,omitempty"`
	Note          string             `json:"note,omitempty"`
	ActorID       string             `json:"actor_id"`
	CreatedAt     time.Time          `json:"created_at"`
	LineCount     int                `json:"line_count"`
	Lines         []SaleLineResponse `json:"lines,omitempty"`
}

// SaleLineResponse línea de venta en respuestas.
type SaleLineResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	ItemName  string          `json:"item_name,omitempty"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleFromEntity mapea una venta (con o sin líneas) a su respuesta.
func SaleFromEntity(s *entity.Sale) SaleResponse {
	resp := SaleResponse{
		ID:            s.ID,
		Code:          s.Code,
		CustomerName:  s.CustomerName,
		Gross:         s.Gross,
		Discount:      s.Discount,
		Net:           s.Net,
		PaymentMethod: s.PaymentMethod,
		Note:          s.Note,
		ActorID:       s.ActorID,
		CreatedAt:     s.CreatedAt,
		LineCount:     s.LineCount,
	}
	if len(s.Lines) > 0 {
		resp.LineCount = len(s.Lines)
		resp.Lines = make([]SaleLineResponse, 0, len(s.Lines))
		for _, l := range s.Lines {
			resp.Lines = append(resp.Lines, SaleLineResponse{
				ID:        l.ID,
				ItemID:    l.ItemID,
				ItemName:  l.ItemName,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
				Subtotal:  l.Subtotal,
			})
		}
	}
	return resp
}

// SaleQuery filtros de GET /api/sales.
type SaleQuery struct {
	From    string `query:"from"`
	To      string `query:"to"`
	ActorID string `query:"actor_id"`
	PageRequest
}

// SalePage página de ventas activas.
type SalePage struct {
	Sales []SaleResponse `json:"sales"`
	PageResponse
}
