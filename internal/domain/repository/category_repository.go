package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// CategoryWithCount categoría con el número de artículos asociados.
type CategoryWithCount struct {
	Category  entity.Category
	ItemCount int
}

// CategoryRepository puerto de persistencia de categorías. GetByID devuelve nil, nil si no existe.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	// Delete devuelve InUseError si algún artículo referencia la categoría.
	Delete(ctx context.Context, id string) error
	// List ordena por nombre.
	List(ctx context.Context) ([]CategoryWithCount, error)
}
