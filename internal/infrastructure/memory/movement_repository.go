package memory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo kardex en memoria (append-only).
type MovementRepo struct{ base }

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.write(func(s *state) error {
		s.movements = append(s.movements, *m)
		return nil
	})
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	r.read(func(s *state) {
		for i := range s.movements {
			if s.movements[i].ID == id {
				m := s.movements[i]
				out = &m
				return
			}
		}
	})
	return out, nil
}

// List recorre el kardex del final al inicio: el orden de inserción es el orden temporal.
func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, int, error) {
	var matched []*entity.Movement
	r.read(func(s *state) {
		for i := len(s.movements) - 1; i >= 0; i-- {
			m := s.movements[i]
			if !matchMovement(m, f) {
				continue
			}
			matched = append(matched, &m)
		}
	})
	return paginate(matched, f.Limit, f.Offset), len(matched), nil
}

func matchMovement(m entity.Movement, f repository.MovementFilter) bool {
	switch {
	case f.ItemID != "" && m.ItemID != f.ItemID:
		return false
	case f.Kind != "" && m.Kind != f.Kind:
		return false
	case f.ActorID != "" && m.ActorID != f.ActorID:
		return false
	case f.SaleID != "" && m.SaleID != f.SaleID:
		return false
	case f.From != nil && m.CreatedAt.Before(*f.From):
		return false
	case f.To != nil && m.CreatedAt.After(*f.To):
		return false
	}
	return true
}

func (r *MovementRepo) SumDeltas(_ context.Context, itemID string) (int64, error) {
	var sum int64
	r.read(func(s *state) {
		for _, m := range s.movements {
			if m.ItemID == itemID {
				sum += m.Delta
			}
		}
	})
	return sum, nil
}
