package sales

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
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

// CreateSaleInput entrada de CreateSale. ActorID es obligatorio.
type CreateSaleInput struct {
	CustomerName  string
	Lines         []SaleLineInput
	ActorID       string
	Discount      decimal.Decimal
	PaymentMethod string
	Note          string
}

// SaleLineInput línea solicitada.
type SaleLineInput struct {
	ItemID    string
	Quantity  int64
	UnitPrice decimal.Decimal
}

// CreateSale valida fuera de la transacción, luego inserta cabecera, líneas y un movimiento
// sale-issue por línea en una sola transacción. Cualquier fallo revierte todo y se propaga.
func (uc *SaleUseCase) CreateSale(ctx context.Context, in CreateSaleInput) (*entity.Sale, error) {
	ctx, span := tracing.Tracer().Start(ctx, "sales.CreateSale")
	defer span.End()
	span.SetAttributes(attribute.Int("sale.lines", len(in.Lines)))

	gross, err := validateSale(in)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	now := uc.now()
	customer := in.CustomerName
	if customer == "" {
		customer = entity.DefaultCustomerName
	}
	sale := &entity.Sale{
		ID:            uuid.New().String(),
		Code:          NewSaleCode(now),
		CustomerName:  customer,
		Gross:         gross,
		Discount:      in.Discount,
		Net:           gross.Sub(in.Discount),
		PaymentMethod: in.PaymentMethod,
		Note:          in.Note,
		ActorID:       in.ActorID,
		Status:        entity.SaleActive,
		CreatedAt:     now,
	}
	var movements []*entity.Movement

	err = uc.txRunner.RunSales(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
		saleRepo repository.SaleRepository,
	) error {
		// Bloquea todos los artículos de la venta en orden de id: la venta completa mantiene la
		// serialización por artículo y dos ventas con líneas en orden inverso no se bloquean entre sí.
		if err := itemRepo.LockForUpdate(ctx, distinctItemIDs(in.Lines)); err != nil {
			return err
		}
		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}
		lines := make([]entity.SaleLine, 0, len(in.Lines))
		movements = make([]*entity.Movement, 0, len(in.Lines))
		for _, l := range in.Lines {
			line := entity.SaleLine{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				ItemID:    l.ItemID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
				Subtotal:  l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)),
			}
			if err := saleRepo.CreateLine(ctx, &line); err != nil {
				return err
			}
			mov, err := uc.ledger.ApplyInTx(ctx, itemRepo, movRepo, inventory.MovementInput{
				ItemID:   l.ItemID,
				Kind:     entity.MovementSaleIssue,
				Quantity: l.Quantity,
				ActorID:  in.ActorID,
				Note:     sale.Code,
				SaleID:   sale.ID,
			})
			if err != nil {
				return err
			}
			lines = append(lines, line)
			movements = append(movements, mov)
		}
		sale.Lines = lines
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	sale.LineCount = len(sale.Lines)

	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("code", sale.Code).
		Int("lines", len(sale.Lines)).
		Str("net", sale.Net.String()).
		Msg("venta registrada")

	events := inventory.MovementEvents(movements...)
	events = append(events, ports.Event{
		Type:       ports.EventSaleCreated,
		Key:        sale.ID,
		OccurredAt: sale.CreatedAt,
		Payload:    dto.SaleFromEntity(sale),
	})
	inventory.Publish(ctx, uc.events, uc.log, events...)
	return sale, nil
}

// validateSale valida líneas y descuento y devuelve el bruto.
func validateSale(in CreateSaleInput) (decimal.Decimal, error) {
	if in.ActorID == "" {
		return decimal.Zero, domain.Invalid("actor_id", "requerido")
	}
	if len(in.Lines) == 0 {
		return decimal.Zero, domain.Invalid("lines", "la venta debe tener al menos una línea")
	}
	gross := decimal.Zero
	for i, l := range in.Lines {
		field := fmt.Sprintf("lines[%d]", i)
		if l.ItemID == "" {
			return decimal.Zero, domain.Invalid(field+".item_id", "requerido")
		}
		if l.Quantity <= 0 {
			return decimal.Zero, domain.Invalid(field+".quantity", fmt.Sprintf("cantidad inválida para el artículo %s: debe ser mayor que cero", l.ItemID))
		}
		if l.UnitPrice.IsNegative() {
			return decimal.Zero, domain.Invalid(field+".unit_price", fmt.Sprintf("precio inválido para el artículo %s: no puede ser negativo", l.ItemID))
		}
		gross = gross.Add(l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)))
	}
	if in.Discount.IsNegative() || in.Discount.GreaterThan(gross) {
		return decimal.Zero, domain.Invalid("discount", fmt.Sprintf("el descuento debe estar entre 0 y %s", gross.StringFixed(2)))
	}
	return gross, nil
}

func distinctItemIDs(lines []SaleLineInput) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ItemID]; ok {
			continue
		}
		seen[l.ItemID] = struct{}{}
		ids = append(ids, l.ItemID)
	}
	sort.Strings(ids)
	return ids
}

// CreateSaleFromRequest adapta el request HTTP al caso de uso.
func (uc *SaleUseCase) CreateSaleFromRequest(ctx context.Context, actorID string, req dto.CreateSaleRequest) (*entity.Sale, error) {
	lines := make([]SaleLineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, SaleLineInput{ItemID: l.ItemID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}
	return uc.CreateSale(ctx, CreateSaleInput{
		CustomerName:  req.CustomerName,
		Lines:         lines,
		ActorID:       actorID,
		Discount:      req.Discount,
		PaymentMethod: req.PaymentMethod,
		Note:          req.Note,
	})
}
