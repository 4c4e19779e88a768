package inventory

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
	"github.com/jhoicas/inventario-ledger/pkg/tracing"
)

// LedgerUseCase es el único punto que modifica el stock de un artículo: cada cambio
// actualiza items.stock y agrega un movimiento al kardex en la misma transacción.
type LedgerUseCase struct {
	txRunner TxRunner
	itemRepo repository.ItemRepository
	movRepo  repository.MovementRepository
	events   ports.EventPublisher
	log      *logger.Logger
	now      func() time.Time
}

// NewLedgerUseCase construye el caso de uso. events puede ser nil.
func NewLedgerUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
	events ports.EventPublisher,
	log *logger.Logger,
) *LedgerUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{
		txRunner: txRunner,
		itemRepo: itemRepo,
		movRepo:  movRepo,
		events:   events,
		log:      log.Named("ledger"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// MovementInput entrada de ApplyMovement. Para adjustment, Quantity es el nuevo stock absoluto;
// para el resto es una cantidad positiva.
type MovementInput struct {
	ItemID   string
	Kind     entity.MovementKind
	Quantity int64
	ActorID  string
	Note     string
	SaleID   string
}

// ApplyMovement abre su propia transacción, aplica el movimiento y hace Commit o Rollback.
// El evento se publica solo después del commit.
func (uc *LedgerUseCase) ApplyMovement(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	ctx, span := tracing.Tracer().Start(ctx, "ledger.ApplyMovement")
	defer span.End()
	span.SetAttributes(
		attribute.String("item.id", in.ItemID),
		attribute.String("movement.kind", string(in.Kind)),
		attribute.Int64("movement.quantity", in.Quantity),
	)

	if err := validateMovement(in); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, movRepo repository.MovementRepository) error {
		m, err := uc.ApplyInTx(ctx, itemRepo, movRepo, in)
		if err != nil {
			return err
		}
		mov = m
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	uc.log.Info().
		Str("movement_id", mov.ID).
		Str("item_id", mov.ItemID).
		Str("kind", string(mov.Kind)).
		Int64("delta", mov.Delta).
		Int64("stock_before", mov.StockBefore).
		Int64("stock_after", mov.StockAfter).
		Msg("movimiento registrado")
	Publish(ctx, uc.events, uc.log, MovementEvents(mov)...)
	return mov, nil
}

// ApplyInTx aplica un movimiento con los repositorios de la transacción del llamador (venta,
// anulación, alta de artículo). No hace commit ni publica eventos: eso queda en manos del llamador.
func (uc *LedgerUseCase) ApplyInTx(
	ctx context.Context,
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
	in MovementInput,
) (*entity.Movement, error) {
	if err := validateMovement(in); err != nil {
		return nil, err
	}
	// Bloquea la fila del artículo (SELECT ... FOR UPDATE) antes de leer el stock
	item, err := itemRepo.GetForUpdate(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("artículo", in.ItemID)
	}

	delta, err := resolveDelta(item, in)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	mov := &entity.Movement{
		ID:          uuid.New().String(),
		ItemID:      item.ID,
		Kind:        in.Kind,
		Delta:       delta,
		StockBefore: item.Stock,
		StockAfter:  item.Stock + delta,
		ActorID:     in.ActorID,
		Note:        in.Note,
		SaleID:      in.SaleID,
		CreatedAt:   now,
	}
	if err := itemRepo.UpdateStock(ctx, item.ID, mov.StockAfter, now); err != nil {
		return nil, err
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

func validateMovement(in MovementInput) error {
	if in.ItemID == "" {
		return domain.Invalid("item_id", "requerido")
	}
	if !in.Kind.Valid() {
		return domain.Invalid("kind", "tipo de movimiento desconocido: "+string(in.Kind))
	}
	if in.Kind == entity.MovementAdjustment {
		if in.Quantity < 0 {
			return domain.Invalid("quantity", "el nuevo stock de un ajuste no puede ser negativo")
		}
		return nil
	}
	if in.Quantity <= 0 {
		return domain.Invalid("quantity", "la cantidad debe ser mayor que cero")
	}
	return nil
}

// resolveDelta convierte la cantidad de entrada en el delta con signo a aplicar.
func resolveDelta(item *entity.Item, in MovementInput) (int64, error) {
	switch in.Kind {
	case entity.MovementReceipt, entity.MovementSaleReversal:
		if in.Quantity > math.MaxInt64-item.Stock {
			return 0, domain.Invalid("quantity", fmt.Sprintf("la entrada excede el stock máximo representable (stock actual %d)", item.Stock))
		}
		return in.Quantity, nil
	case entity.MovementWithdrawal, entity.MovementSaleIssue:
		if in.Quantity > item.Stock {
			return 0, &domain.InsufficientStockError{
				ItemID:    item.ID,
				ItemName:  item.Name,
				Available: item.Stock,
				Requested: in.Quantity,
			}
		}
		return -in.Quantity, nil
	case entity.MovementAdjustment:
		return in.Quantity - item.Stock, nil
	}
	return 0, domain.Invalid("kind", "tipo de movimiento desconocido: "+string(in.Kind))
}

// ApplyMovementFromRequest adapta el request HTTP al caso de uso.
func (uc *LedgerUseCase) ApplyMovementFromRequest(ctx context.Context, actorID string, req dto.ApplyMovementRequest) (*entity.Movement, error) {
	kind, ok := entity.ParseMovementKind(req.Kind)
	if !ok {
		return nil, domain.Invalid("kind", "tipo de movimiento desconocido: "+req.Kind)
	}
	return uc.ApplyMovement(ctx, MovementInput{
		ItemID:   req.ItemID,
		Kind:     kind,
		Quantity: req.Quantity,
		ActorID:  actorID,
		Note:     req.Note,
	})
}
