package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// MovementFilter filtros del historial. Campos vacíos no filtran; From/To inclusivos.
type MovementFilter struct {
	ItemID  string
	Kind    entity.MovementKind
	ActorID string
	SaleID  string
	From    *time.Time
	To      *time.Time
	Limit   int
	Offset  int
}

// MovementRepository kardex append-only: no existe Update ni Delete.
type MovementRepository interface {
	Create(ctx context.Context, m *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// List ordena del más reciente al más antiguo y devuelve el total sin paginar.
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, int, error)
	SumDeltas(ctx context.Context, itemID string) (int64, error)
}
