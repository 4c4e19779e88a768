package cache

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
)

var _ ports.Cache = Noop{}

// Noop caché desactivada: nunca encuentra nada.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (Noop) Set(context.Context, string, any, time.Duration) error { return nil }
