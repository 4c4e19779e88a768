package dto

import (
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// CategoryRequest body para POST y PATCH de /api/categories.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CategoryResponse categoría con el número de artículos que la usan.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ItemCount   int       `json:"item_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryFromEntity mapea una categoría a su respuesta.
func CategoryFromEntity(c *entity.Category, itemCount int) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ItemCount:   itemCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CategoriesFromRows mapea el listado del repositorio.
func CategoriesFromRows(rows []repository.CategoryWithCount) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(rows))
	for i := range rows {
		out = append(out, CategoryFromEntity(&rows[i].Category, rows[i].ItemCount))
	}
	return out
}

// SupplierRequest body para POST y PATCH de /api/suppliers.
type SupplierRequest struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Contact string `json:"contact,omitempty"`
	Note    string `json:"note,omitempty"`
}

// SupplierResponse proveedor en respuestas.
type SupplierResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Contact   string    `json:"contact,omitempty"`
	Note      string    `json:"note,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SupplierFromEntity mapea un proveedor a su respuesta.
func SupplierFromEntity(s *entity.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		TaxID:     s.TaxID,
		Email:     s.Email,
		Phone:     s.Phone,
		Address:   s.Address,
		Contact:   s.Contact,
		Note:      s.Note,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// SupplierQuery filtros de GET /api/suppliers. Active vacío no filtra.
type SupplierQuery struct {
	Search string `query:"search"`
	Active string `query:"active"`
	PageRequest
}

// SupplierPage página de proveedores.
type SupplierPage struct {
	Suppliers []SupplierResponse `json:"suppliers"`
	PageResponse
}
