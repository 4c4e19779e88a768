package sales

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// SalesTxRunner ejecuta una función dentro de una transacción que incluye repos del kardex y de ventas.
type SalesTxRunner interface {
	RunSales(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// Ledger integra ventas con el kardex. ApplyInTx usa los repositorios del llamador (misma
// transacción); si retorna error el llamador debe abortar y propagarlo.
type Ledger interface {
	ApplyInTx(
		ctx context.Context,
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
		in inventory.MovementInput,
	) (*entity.Movement, error)
}
