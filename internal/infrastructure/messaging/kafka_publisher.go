package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/pkg/config"
)

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

// envelope formato publicado en el tópico.
type envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// KafkaPublisher publica los eventos del kardex en un único tópico, particionado por Key.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher crea el writer. kafka-go conecta de forma perezosa en el primer envío.
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.Topic,
			Balancer:               &kafka.Hash{},
			BatchTimeout:           10 * time.Millisecond,
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
	}
}

// headerCarrier adapta los headers de kafka.Message al propagador de OpenTelemetry.
type headerCarrier struct {
	headers *[]kafka.Header
}

var _ propagation.TextMapCarrier = headerCarrier{}

func (c headerCarrier) Get(key string) string {
	for _, h := range *c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c headerCarrier) Set(key, value string) {
	*c.headers = append(*c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(*c.headers))
	for _, h := range *c.headers {
		keys = append(keys, h.Key)
	}
	return keys
}

// Publish serializa y envía los eventos en un solo lote.
func (p *KafkaPublisher) Publish(ctx context.Context, events ...ports.Event) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		value, err := json.Marshal(envelope{Type: ev.Type, OccurredAt: ev.OccurredAt, Payload: ev.Payload})
		if err != nil {
			return fmt.Errorf("serializar evento %s: %w", ev.Type, err)
		}
		headers := []kafka.Header{{Key: "event-type", Value: []byte(ev.Type)}}
		otel.GetTextMapPropagator().Inject(ctx, headerCarrier{headers: &headers})
		msgs = append(msgs, kafka.Message{
			Key:     []byte(ev.Key),
			Value:   value,
			Headers: headers,
			Time:    ev.OccurredAt,
		})
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
