// Package memory implementa los puertos de persistencia en memoria. Una transacción trabaja
// sobre una copia del estado y la publica al confirmar; el mutex se mantiene durante toda la
// transacción, así que las transacciones quedan serializadas.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/sales"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ inventory.TxRunner  = (*Store)(nil)
	_ sales.SalesTxRunner = (*Store)(nil)
)

type state struct {
	items      map[string]entity.Item
	categories map[string]entity.Category
	suppliers  map[string]entity.Supplier
	movements  []entity.Movement
	sales      map[string]entity.Sale
	lines      map[string][]entity.SaleLine
}

func newState() *state {
	return &state{
		items:      make(map[string]entity.Item),
		categories: make(map[string]entity.Category),
		suppliers:  make(map[string]entity.Supplier),
		sales:      make(map[string]entity.Sale),
		lines:      make(map[string][]entity.SaleLine),
	}
}

// clone copia el estado. movements se recorta a su longitud para que un append en la copia
// nunca escriba sobre el arreglo compartido.
func (s *state) clone() *state {
	c := &state{
		items:      maps.Clone(s.items),
		categories: maps.Clone(s.categories),
		suppliers:  maps.Clone(s.suppliers),
		movements:  slices.Clip(s.movements),
		sales:      maps.Clone(s.sales),
		lines:      make(map[string][]entity.SaleLine, len(s.lines)),
	}
	for k, v := range s.lines {
		c.lines[k] = slices.Clip(v)
	}
	return c
}

// Store almacén en memoria para desarrollo y tests.
type Store struct {
	mu   sync.RWMutex
	data *state
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{data: newState()}
}

// base comparte el acceso al estado: con tx != nil opera sobre la copia de la transacción
// (el mutex ya está tomado); si no, toma el mutex del almacén.
type base struct {
	store *Store
	tx    *state
}

func (b base) read(fn func(*state)) {
	if b.tx != nil {
		fn(b.tx)
		return
	}
	b.store.mu.RLock()
	defer b.store.mu.RUnlock()
	fn(b.store.data)
}

func (b base) write(fn func(*state) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	return fn(b.store.data)
}

// Items repositorio de artículos fuera de transacción.
func (s *Store) Items() *ItemRepo { return &ItemRepo{base{store: s}} }

// Categories repositorio de categorías.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{base{store: s}} }

// Suppliers repositorio de proveedores.
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{base{store: s}} }

// Movements repositorio del kardex fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{base{store: s}} }

// Sales repositorio de ventas fuera de transacción.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{base{store: s}} }

// Reports repositorio de reportes.
func (s *Store) Reports() *ReportRepo { return &ReportRepo{base{store: s}} }

// Ping siempre responde; existe para el health check.
func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) runTx(ctx context.Context, fn func(tx *state) error) error {
	if err := ctx.Err(); err != nil {
		return &domain.StorageError{Op: "begin transaction", Err: err, Retryable: true}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.data.clone()
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return &domain.StorageError{Op: "commit transaction", Err: err, Retryable: true}
	}
	s.data = tx
	return nil
}

// Run ejecuta fn con repositorios atados a una transacción.
func (s *Store) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
) error) error {
	return s.runTx(ctx, func(tx *state) error {
		b := base{store: s, tx: tx}
		return fn(&ItemRepo{b}, &MovementRepo{b})
	})
}

// RunSales ejecuta fn con repositorios del kardex y de ventas atados a una transacción.
func (s *Store) RunSales(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return s.runTx(ctx, func(tx *state) error {
		b := base{store: s, tx: tx}
		return fn(&ItemRepo{b}, &MovementRepo{b}, &SaleRepo{b})
	})
}
