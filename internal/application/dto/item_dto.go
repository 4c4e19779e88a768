package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// CreateItemRequest body para POST /api/items. InitialStock > 0 se registra como entrada en el kardex.
type CreateItemRequest struct {
	Code         string           `json:"code"`
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	CategoryID   string           `json:"category_id,omitempty"`
	SupplierID   string           `json:"supplier_id,omitempty"`
	Price        decimal.Decimal  `json:"price"`
	CostPrice    *decimal.Decimal `json:"cost_price,omitempty"`
	MinStock     int64            `json:"min_stock"`
	InitialStock int64            `json:"initial_stock,omitempty"`
}

// UpdateItemRequest body para PATCH /api/items/:id. Solo estos campos son actualizables;
// el stock cambia únicamente mediante movimientos. category_id o supplier_id vacíos quitan la referencia.
type UpdateItemRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	CategoryID  *string          `json:"category_id,omitempty"`
	SupplierID  *string          `json:"supplier_id,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	CostPrice   *decimal.Decimal `json:"cost_price,omitempty"`
	MinStock    *int64           `json:"min_stock,omitempty"`
}

// ItemResponse artículo en respuestas.
type ItemResponse struct {
	ID          string             `json:"id"`
	Code        string             `json:"code"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	CategoryID  string             `json:"category_id,omitempty"`
	SupplierID  string             `json:"supplier_id,omitempty"`
	Stock       int64              `json:"stock"`
	MinStock    int64              `json:"min_stock"`
	Status      entity.StockStatus `json:"status"`
	Price       decimal.Decimal    `json:"price"`
	CostPrice   *decimal.Decimal   `json:"cost_price,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ItemFromEntity mapea un artículo a su respuesta.
func ItemFromEntity(it *entity.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Code:        it.Code,
		Name:        it.Name,
		Description: it.Description,
		CategoryID:  it.CategoryID,
		SupplierID:  it.SupplierID,
		Stock:       it.Stock,
		MinStock:    it.MinStock,
		Status:      entity.ClassifyStock(it.Stock, it.MinStock),
		Price:       it.Price,
		CostPrice:   it.CostPrice,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}

// ItemQuery filtros de GET /api/items.
type ItemQuery struct {
	Search     string `query:"search"`
	CategoryID string `query:"category_id"`
	SupplierID string `query:"supplier_id"`
	PageRequest
}

// ItemPage página del catálogo.
type ItemPage struct {
	Items []ItemResponse `json:"items"`
	PageResponse
}
