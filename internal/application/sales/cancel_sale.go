package sales

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/tracing"
)

// CancelSale devuelve al stock lo vendido en cada línea (movimientos sale-reversal) y marca la
// venta como anulada, todo en una transacción. Las líneas y los sale-issue originales se conservan.
// Una venta inexistente o ya anulada devuelve NotFound.
func (uc *SaleUseCase) CancelSale(ctx context.Context, saleID, actorID string) error {
	ctx, span := tracing.Tracer().Start(ctx, "sales.CancelSale")
	defer span.End()
	span.SetAttributes(attribute.String("sale.id", saleID))

	if saleID == "" {
		return domain.Invalid("sale_id", "requerido")
	}

	var (
		cancelled *entity.Sale
		movements []*entity.Movement
	)
	err := uc.txRunner.RunSales(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
		saleRepo repository.SaleRepository,
	) error {
		sale, err := saleRepo.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil || !sale.IsActive() {
			return domain.NotFound("venta", saleID)
		}
		lines, err := saleRepo.GetLines(ctx, saleID)
		if err != nil {
			return err
		}

		refs := make([]SaleLineInput, 0, len(lines))
		for _, l := range lines {
			refs = append(refs, SaleLineInput{ItemID: l.ItemID})
		}
		if err := itemRepo.LockForUpdate(ctx, distinctItemIDs(refs)); err != nil {
			return err
		}

		note := fmt.Sprintf("Anulación de la venta Cód: %s", sale.Code)
		for _, l := range lines {
			mov, err := uc.ledger.ApplyInTx(ctx, itemRepo, movRepo, inventory.MovementInput{
				ItemID:   l.ItemID,
				Kind:     entity.MovementSaleReversal,
				Quantity: l.Quantity,
				ActorID:  actorID,
				Note:     note,
				SaleID:   sale.ID,
			})
			if err != nil {
				return err
			}
			movements = append(movements, mov)
		}

		now := uc.now()
		if err := saleRepo.MarkCancelled(ctx, sale.ID, actorID, now); err != nil {
			return err
		}
		sale.Status = entity.SaleCancelled
		sale.CancelledAt = &now
		sale.CancelledBy = actorID
		sale.Lines = lines
		cancelled = sale
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	uc.log.Info().
		Str("sale_id", cancelled.ID).
		Str("code", cancelled.Code).
		Str("actor_id", actorID).
		Int("reversals", len(movements)).
		Msg("venta anulada")

	events := inventory.MovementEvents(movements...)
	events = append(events, ports.Event{
		Type:       ports.EventSaleCancelled,
		Key:        cancelled.ID,
		OccurredAt: *cancelled.CancelledAt,
		Payload:    dto.SaleFromEntity(cancelled),
	})
	inventory.Publish(ctx, uc.events, uc.log, events...)
	return nil
}
