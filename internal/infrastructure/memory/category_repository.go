package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo categorías en memoria.
type CategoryRepo struct{ base }

func nameTaken(s *state, c *entity.Category) bool {
	for _, other := range s.categories {
		if other.ID != c.ID && strings.EqualFold(other.Name, c.Name) {
			return true
		}
	}
	return false
}

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.write(func(s *state) error {
		if nameTaken(s, c) {
			return domain.ErrDuplicate
		}
		s.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	r.read(func(s *state) {
		if c, ok := s.categories[id]; ok {
			out = &c
		}
	})
	return out, nil
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	return r.write(func(s *state) error {
		if _, ok := s.categories[c.ID]; !ok {
			return domain.NotFound("categoría", c.ID)
		}
		if nameTaken(s, c) {
			return domain.ErrDuplicate
		}
		s.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	return r.write(func(s *state) error {
		if _, ok := s.categories[id]; !ok {
			return domain.NotFound("categoría", id)
		}
		for _, it := range s.items {
			if it.CategoryID == id {
				return domain.InUse("categoría", id, "tiene artículos asociados")
			}
		}
		delete(s.categories, id)
		return nil
	})
}

func (r *CategoryRepo) List(context.Context) ([]repository.CategoryWithCount, error) {
	var out []repository.CategoryWithCount
	r.read(func(s *state) {
		counts := make(map[string]int)
		for _, it := range s.items {
			counts[it.CategoryID]++
		}
		for _, c := range s.categories {
			out = append(out, repository.CategoryWithCount{Category: c, ItemCount: counts[c.ID]})
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Category.Name < out[j].Category.Name })
	return out, nil
}
