package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// MovementEvents construye un evento movement.recorded por movimiento.
func MovementEvents(movs ...*entity.Movement) []ports.Event {
	events := make([]ports.Event, 0, len(movs))
	for _, m := range movs {
		events = append(events, ports.Event{
			Type:       ports.EventMovementRecorded,
			Key:        m.ItemID,
			OccurredAt: m.CreatedAt,
			Payload:    dto.MovementFromEntity(m),
		})
	}
	return events
}

// Publish envía eventos ya confirmados. Un fallo solo se registra: el commit no se deshace.
func Publish(ctx context.Context, publisher ports.EventPublisher, log *logger.Logger, events ...ports.Event) {
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		log.Error().Err(err).Int("events", len(events)).Str("type", events[0].Type).Msg("publicar eventos del kardex")
	}
}
