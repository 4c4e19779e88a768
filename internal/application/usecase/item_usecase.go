package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// StockLedger parte del kardex que usa el catálogo para registrar el stock inicial.
type StockLedger interface {
	ApplyInTx(
		ctx context.Context,
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
		in inventory.MovementInput,
	) (*entity.Movement, error)
}

// ItemUseCase casos de uso del catálogo. El stock nunca se escribe aquí: solo vía movimientos.
type ItemUseCase struct {
	repo     repository.ItemRepository
	txRunner inventory.TxRunner
	ledger   StockLedger
	events   ports.EventPublisher
	log      *logger.Logger
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(
	repo repository.ItemRepository,
	txRunner inventory.TxRunner,
	ledger StockLedger,
	events ports.EventPublisher,
	log *logger.Logger,
) *ItemUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ItemUseCase{repo: repo, txRunner: txRunner, ledger: ledger, events: events, log: log.Named("catalog")}
}

// Create da de alta un artículo con stock 0; InitialStock > 0 se registra como entrada
// (receipt) en la misma transacción.
func (uc *ItemUseCase) Create(ctx context.Context, actorID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	switch {
	case in.Code == "":
		return nil, domain.Invalid("code", "requerido")
	case in.Name == "":
		return nil, domain.Invalid("name", "requerido")
	case in.Price.IsNegative():
		return nil, domain.Invalid("price", "no puede ser negativo")
	case in.CostPrice != nil && in.CostPrice.IsNegative():
		return nil, domain.Invalid("cost_price", "no puede ser negativo")
	case in.MinStock < 0:
		return nil, domain.Invalid("min_stock", "no puede ser negativo")
	case in.InitialStock < 0:
		return nil, domain.Invalid("initial_stock", "no puede ser negativo")
	}

	now := time.Now().UTC()
	item := &entity.Item{
		ID:          uuid.New().String(),
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  strings.TrimSpace(in.CategoryID),
		SupplierID:  strings.TrimSpace(in.SupplierID),
		MinStock:    in.MinStock,
		Price:       in.Price,
		CostPrice:   in.CostPrice,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	var initial *entity.Movement
	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, movRepo repository.MovementRepository) error {
		if err := itemRepo.Create(ctx, item); err != nil {
			return err
		}
		if in.InitialStock == 0 {
			return nil
		}
		mov, err := uc.ledger.ApplyInTx(ctx, itemRepo, movRepo, inventory.MovementInput{
			ItemID:   item.ID,
			Kind:     entity.MovementReceipt,
			Quantity: in.InitialStock,
			ActorID:  actorID,
			Note:     "Stock inicial",
		})
		if err != nil {
			return err
		}
		initial = mov
		item.Stock = mov.StockAfter
		return nil
	})
	if err != nil {
		return nil, err
	}
	if initial != nil {
		inventory.Publish(ctx, uc.events, uc.log, inventory.MovementEvents(initial)...)
	}
	resp := dto.ItemFromEntity(item)
	return &resp, nil
}

// GetByID obtiene un artículo por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("artículo", id)
	}
	resp := dto.ItemFromEntity(item)
	return &resp, nil
}

// Update aplica solo los campos presentes en la petición tipada.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("artículo", id)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Invalid("name", "no puede quedar vacío")
		}
		item.Name = name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.CategoryID != nil {
		item.CategoryID = strings.TrimSpace(*in.CategoryID)
	}
	if in.SupplierID != nil {
		item.SupplierID = strings.TrimSpace(*in.SupplierID)
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.Invalid("price", "no puede ser negativo")
		}
		item.Price = *in.Price
	}
	if in.CostPrice != nil {
		if in.CostPrice.IsNegative() {
			return nil, domain.Invalid("cost_price", "no puede ser negativo")
		}
		cost := *in.CostPrice
		item.CostPrice = &cost
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, domain.Invalid("min_stock", "no puede ser negativo")
		}
		item.MinStock = *in.MinStock
	}
	item.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	resp := dto.ItemFromEntity(item)
	return &resp, nil
}

// Delete borra un artículo que nunca tuvo movimientos. Con historial en el kardex se rechaza
// con InUseError: el stock de un artículo debe poder reconstruirse siempre desde sus movimientos.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, movRepo repository.MovementRepository) error {
		item, err := itemRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.NotFound("artículo", id)
		}
		_, n, err := movRepo.List(ctx, repository.MovementFilter{ItemID: id, Limit: 1})
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.InUse("artículo", id, fmt.Sprintf("tiene %d movimientos en el kardex", n))
		}
		return itemRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("item_id", id).Msg("artículo eliminado")
	return nil
}

// List lista artículos con búsqueda por código o nombre y filtros por categoría o proveedor.
func (uc *ItemUseCase) List(ctx context.Context, q dto.ItemQuery) (*dto.ItemPage, error) {
	page := q.PageRequest
	page.Normalize()
	list, total, err := uc.repo.List(ctx, repository.ItemFilter{
		Search:     strings.TrimSpace(q.Search),
		CategoryID: q.CategoryID,
		SupplierID: q.SupplierID,
		Limit:      page.PerPage,
		Offset:     page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	out := &dto.ItemPage{
		Items:        make([]dto.ItemResponse, 0, len(list)),
		PageResponse: dto.NewPageResponse(page, total),
	}
	for _, it := range list {
		out.Items = append(out.Items, dto.ItemFromEntity(it))
	}
	return out, nil
}
