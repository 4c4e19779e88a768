package ports

import (
	"context"
	"time"
)

// Tipos de evento publicados tras el commit.
const (
	EventMovementRecorded = "movement.recorded"
	EventSaleCreated      = "sale.created"
	EventSaleCancelled    = "sale.cancelled"
)

// Event evento de dominio ya confirmado en base de datos.
type Event struct {
	Type       string
	Key        string // clave de partición (id del artículo o de la venta)
	OccurredAt time.Time
	Payload    any // serializable a JSON
}

// EventPublisher define el puerto de salida para notificar cambios del kardex a otros sistemas.
// Se invoca después del commit: un fallo aquí se registra en el log y nunca revierte la operación.
type EventPublisher interface {
	Publish(ctx context.Context, events ...Event) error
}
