package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// SaleFilter filtros del listado de ventas (solo activas).
type SaleFilter struct {
	From    *time.Time
	To      *time.Time
	ActorID string
	Limit   int
	Offset  int
}

// SaleRepository puerto de persistencia de ventas. GetByID devuelve también ventas anuladas
// (auditoría); los casos de uso deciden qué exponer.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateLine(ctx context.Context, line *entity.SaleLine) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	GetLines(ctx context.Context, saleID string) ([]entity.SaleLine, error)
	MarkCancelled(ctx context.Context, id, actorID string, at time.Time) error
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, int, error)
}
