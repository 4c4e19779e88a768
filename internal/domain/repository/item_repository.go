package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ItemFilter filtros del listado de artículos.
type ItemFilter struct {
	Search     string // código o nombre (contiene, sin distinguir mayúsculas)
	CategoryID string
	SupplierID string
	Limit      int
	Offset     int
}

// ItemRepository puerto de persistencia del catálogo. GetByID/GetForUpdate devuelven nil, nil
// si el artículo no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetForUpdate lee el artículo bloqueando su fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	// LockForUpdate bloquea varias filas en orden ascendente de id. Ids inexistentes se ignoran.
	LockForUpdate(ctx context.Context, ids []string) error
	// UpdateStock es de uso exclusivo del kardex.
	UpdateStock(ctx context.Context, id string, stock int64, at time.Time) error
	// Update persiste solo los campos de catálogo (nunca Stock).
	Update(ctx context.Context, item *entity.Item) error
	// Delete elimina un artículo sin historial. Con movimientos o líneas de venta devuelve InUseError.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ItemFilter) ([]*entity.Item, int, error)
}
