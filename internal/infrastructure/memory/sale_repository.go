package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria.
type SaleRepo struct{ base }

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	return r.write(func(s *state) error {
		if _, ok := s.sales[sale.ID]; ok {
			return domain.ErrDuplicate
		}
		header := *sale
		header.Lines = nil
		s.sales[sale.ID] = header
		return nil
	})
}

func (r *SaleRepo) CreateLine(_ context.Context, line *entity.SaleLine) error {
	return r.write(func(s *state) error {
		if _, ok := s.sales[line.SaleID]; !ok {
			return domain.NotFound("venta", line.SaleID)
		}
		s.lines[line.SaleID] = append(s.lines[line.SaleID], *line)
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	r.read(func(s *state) {
		if sale, ok := s.sales[id]; ok {
			sale.LineCount = len(s.lines[id])
			out = &sale
		}
	})
	return out, nil
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *SaleRepo) GetLines(_ context.Context, saleID string) ([]entity.SaleLine, error) {
	var out []entity.SaleLine
	r.read(func(s *state) {
		for _, l := range s.lines[saleID] {
			l.ItemName = s.items[l.ItemID].Name
			out = append(out, l)
		}
	})
	return out, nil
}

func (r *SaleRepo) MarkCancelled(_ context.Context, id, actorID string, at time.Time) error {
	return r.write(func(s *state) error {
		sale, ok := s.sales[id]
		if !ok || !sale.IsActive() {
			return domain.NotFound("venta", id)
		}
		sale.Status = entity.SaleCancelled
		sale.CancelledAt = &at
		sale.CancelledBy = actorID
		s.sales[id] = sale
		return nil
	})
}

func (r *SaleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	var matched []*entity.Sale
	r.read(func(s *state) {
		for _, sale := range s.sales {
			switch {
			case !sale.IsActive():
				continue
			case f.ActorID != "" && sale.ActorID != f.ActorID:
				continue
			case f.From != nil && sale.CreatedAt.Before(*f.From):
				continue
			case f.To != nil && sale.CreatedAt.After(*f.To):
				continue
			}
			sale.LineCount = len(s.lines[sale.ID])
			matched = append(matched, &sale)
		}
	})
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].Code > matched[j].Code
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, f.Limit, f.Offset), len(matched), nil
}
