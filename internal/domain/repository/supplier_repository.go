package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// SupplierFilter filtros del listado de proveedores.
type SupplierFilter struct {
	Search string // nombre, NIT o contacto
	Active *bool
	Limit  int
	Offset int
}

// SupplierRepository puerto de persistencia de proveedores. GetByID devuelve nil, nil si no existe.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	SetActive(ctx context.Context, id string, active bool, at time.Time) error
	// Delete devuelve InUseError si algún artículo referencia al proveedor.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter SupplierFilter) ([]*entity.Supplier, int, error)
}
