package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo artículos en memoria.
type ItemRepo struct{ base }

func (r *ItemRepo) Create(_ context.Context, item *entity.Item) error {
	return r.write(func(s *state) error {
		for _, it := range s.items {
			if strings.EqualFold(it.Code, item.Code) {
				return domain.ErrDuplicate
			}
		}
		if err := checkRefs(s, item); err != nil {
			return err
		}
		s.items[item.ID] = *item
		return nil
	})
}

func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	var out *entity.Item
	r.read(func(s *state) {
		if it, ok := s.items[id]; ok {
			out = &it
		}
	})
	return out, nil
}

// GetForUpdate equivale a GetByID: el mutex del almacén ya serializa la transacción.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

// LockForUpdate no hace nada: el mutex del almacén ya bloquea todo el estado durante la transacción.
func (r *ItemRepo) LockForUpdate(context.Context, []string) error { return nil }

func (r *ItemRepo) UpdateStock(_ context.Context, id string, stock int64, at time.Time) error {
	return r.write(func(s *state) error {
		it, ok := s.items[id]
		if !ok {
			return domain.NotFound("artículo", id)
		}
		if stock < 0 {
			return &domain.StorageError{Op: "update stock", Err: fmt.Errorf("stock negativo para %s: %d", id, stock)}
		}
		it.Stock = stock
		it.UpdatedAt = at
		s.items[id] = it
		return nil
	})
}

func (r *ItemRepo) Update(_ context.Context, item *entity.Item) error {
	return r.write(func(s *state) error {
		it, ok := s.items[item.ID]
		if !ok {
			return domain.NotFound("artículo", item.ID)
		}
		if err := checkRefs(s, item); err != nil {
			return err
		}
		it.Name = item.Name
		it.Description = item.Description
		it.CategoryID = item.CategoryID
		it.SupplierID = item.SupplierID
		it.Price = item.Price
		it.CostPrice = item.CostPrice
		it.MinStock = item.MinStock
		it.UpdatedAt = item.UpdatedAt
		s.items[item.ID] = it
		return nil
	})
}

// checkRefs valida las referencias como lo harían las claves foráneas.
func checkRefs(s *state, item *entity.Item) error {
	if _, ok := s.categories[item.CategoryID]; item.CategoryID != "" && !ok {
		return domain.NotFound("categoría", item.CategoryID)
	}
	if _, ok := s.suppliers[item.SupplierID]; item.SupplierID != "" && !ok {
		return domain.NotFound("proveedor", item.SupplierID)
	}
	return nil
}

func (r *ItemRepo) Delete(_ context.Context, id string) error {
	return r.write(func(s *state) error {
		if _, ok := s.items[id]; !ok {
			return domain.NotFound("artículo", id)
		}
		for _, m := range s.movements {
			if m.ItemID == id {
				return domain.InUse("artículo", id, "tiene movimientos en el kardex")
			}
		}
		for _, lines := range s.lines {
			for _, l := range lines {
				if l.ItemID == id {
					return domain.InUse("artículo", id, "tiene ventas asociadas")
				}
			}
		}
		delete(s.items, id)
		return nil
	})
}

func (r *ItemRepo) List(_ context.Context, f repository.ItemFilter) ([]*entity.Item, int, error) {
	var matched []*entity.Item
	needle := strings.ToLower(f.Search)
	r.read(func(s *state) {
		for _, it := range s.items {
			if needle != "" && !strings.Contains(strings.ToLower(it.Code), needle) && !strings.Contains(strings.ToLower(it.Name), needle) {
				continue
			}
			if (f.CategoryID != "" && it.CategoryID != f.CategoryID) || (f.SupplierID != "" && it.SupplierID != f.SupplierID) {
				continue
			}
			matched = append(matched, &it)
		}
	})
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return paginate(matched, f.Limit, f.Offset), len(matched), nil
}

// paginate aplica limit/offset sobre una lista ya ordenada. limit <= 0 devuelve todo.
func paginate[T any](list []T, limit, offset int) []T {
	if offset < 0 || offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
