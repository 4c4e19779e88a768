package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// GetMovement devuelve un movimiento del kardex.
func (uc *LedgerUseCase) GetMovement(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.NotFound("movimiento", id)
	}
	return m, nil
}

// ListMovements historial filtrable por artículo, tipo, actor, venta y rango de fechas.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, q dto.MovementQuery) (*dto.MovementPage, error) {
	from, to, err := dto.ParseDateRange(q.From, q.To)
	if err != nil {
		return nil, err
	}
	var kind entity.MovementKind
	if q.Kind != "" {
		k, ok := entity.ParseMovementKind(q.Kind)
		if !ok {
			return nil, domain.Invalid("kind", "tipo de movimiento desconocido: "+q.Kind)
		}
		kind = k
	}
	page := q.PageRequest
	page.Normalize()

	list, total, err := uc.movRepo.List(ctx, repository.MovementFilter{
		ItemID:  q.ItemID,
		Kind:    kind,
		ActorID: q.ActorID,
		SaleID:  q.SaleID,
		From:    from,
		To:      to,
		Limit:   page.PerPage,
		Offset:  page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	out := &dto.MovementPage{
		Movements:    make([]dto.MovementResponse, 0, len(list)),
		PageResponse: dto.NewPageResponse(page, total),
	}
	for _, m := range list {
		out.Movements = append(out.Movements, dto.MovementFromEntity(m))
	}
	return out, nil
}

// VerifyItem concilia el stock del artículo con la suma de deltas de su kardex.
// Lee ambos valores con la fila bloqueada para que no se cuele un movimiento concurrente.
func (uc *LedgerUseCase) VerifyItem(ctx context.Context, itemID string) (*dto.StockAuditResponse, error) {
	var out *dto.StockAuditResponse
	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, movRepo repository.MovementRepository) error {
		item, err := itemRepo.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.NotFound("artículo", itemID)
		}
		sum, err := movRepo.SumDeltas(ctx, itemID)
		if err != nil {
			return err
		}
		out = &dto.StockAuditResponse{
			ItemID:     item.ID,
			Stock:      item.Stock,
			LedgerSum:  sum,
			Consistent: item.Stock == sum,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !out.Consistent {
		uc.log.Warn().Str("item_id", itemID).Int64("stock", out.Stock).Int64("ledger_sum", out.LedgerSum).Msg("stock inconsistente con el kardex")
	}
	return out, nil
}
