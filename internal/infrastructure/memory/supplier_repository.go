package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo proveedores en memoria.
type SupplierRepo struct{ base }

func taxIDTaken(s *state, sup *entity.Supplier) bool {
	if sup.TaxID == "" {
		return false
	}
	for _, other := range s.suppliers {
		if other.ID != sup.ID && other.TaxID == sup.TaxID {
			return true
		}
	}
	return false
}

func (r *SupplierRepo) Create(_ context.Context, sup *entity.Supplier) error {
	return r.write(func(s *state) error {
		if taxIDTaken(s, sup) {
			return domain.ErrDuplicate
		}
		s.suppliers[sup.ID] = *sup
		return nil
	})
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	r.read(func(s *state) {
		if sup, ok := s.suppliers[id]; ok {
			out = &sup
		}
	})
	return out, nil
}

func (r *SupplierRepo) Update(_ context.Context, sup *entity.Supplier) error {
	return r.write(func(s *state) error {
		current, ok := s.suppliers[sup.ID]
		if !ok {
			return domain.NotFound("proveedor", sup.ID)
		}
		if taxIDTaken(s, sup) {
			return domain.ErrDuplicate
		}
		updated := *sup
		updated.Active = current.Active
		updated.CreatedAt = current.CreatedAt
		s.suppliers[sup.ID] = updated
		return nil
	})
}

func (r *SupplierRepo) SetActive(_ context.Context, id string, active bool, at time.Time) error {
	return r.write(func(s *state) error {
		sup, ok := s.suppliers[id]
		if !ok {
			return domain.NotFound("proveedor", id)
		}
		sup.Active = active
		sup.UpdatedAt = at
		s.suppliers[id] = sup
		return nil
	})
}

func (r *SupplierRepo) Delete(_ context.Context, id string) error {
	return r.write(func(s *state) error {
		if _, ok := s.suppliers[id]; !ok {
			return domain.NotFound("proveedor", id)
		}
		for _, it := range s.items {
			if it.SupplierID == id {
				return domain.InUse("proveedor", id, "tiene artículos asociados")
			}
		}
		delete(s.suppliers, id)
		return nil
	})
}

func (r *SupplierRepo) List(_ context.Context, f repository.SupplierFilter) ([]*entity.Supplier, int, error) {
	var matched []*entity.Supplier
	needle := strings.ToLower(f.Search)
	r.read(func(s *state) {
		for _, sup := range s.suppliers {
			if f.Active != nil && sup.Active != *f.Active {
				continue
			}
			if needle != "" && !strings.Contains(strings.ToLower(sup.Name), needle) &&
				!strings.Contains(strings.ToLower(sup.TaxID), needle) &&
				!strings.Contains(strings.ToLower(sup.Contact), needle) {
				continue
			}
			matched = append(matched, &sup)
		}
	})
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return paginate(matched, f.Limit, f.Offset), len(matched), nil
}
