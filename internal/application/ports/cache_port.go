package ports

import (
	"context"
	"time"
)

// Cache caché de lectura para reportes. Get devuelve false si la clave no existe.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}
