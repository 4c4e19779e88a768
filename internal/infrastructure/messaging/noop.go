package messaging

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

var _ ports.EventPublisher = (*LogPublisher)(nil)

// LogPublisher publicador usado sin brokers: solo deja constancia en el log (nivel debug).
type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, events ...ports.Event) error {
	for _, ev := range events {
		p.log.Debug().Str("type", ev.Type).Str("key", ev.Key).Time("occurred_at", ev.OccurredAt).Msg("evento")
	}
	return nil
}
