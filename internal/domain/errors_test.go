package domain_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

func TestErrors_IsAndAs(t *testing.T) {
	err := fmt.Errorf("aplicar movimiento: %w", &domain.InsufficientStockError{ItemID: "i-1", ItemName: "Tornillo", Available: 5, Requested: 10})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	var stock *domain.InsufficientStockError
	assert.ErrorAs(t, err, &stock)
	assert.Equal(t, int64(5), stock.Available)
	assert.Equal(t, "stock insuficiente para Tornillo (i-1): disponible 5, solicitado 10", stock.Error())

	assert.ErrorIs(t, domain.NotFound("venta", "v-1"), domain.ErrNotFound)
	assert.Equal(t, "recurso no encontrado: venta v-1", domain.NotFound("venta", "v-1").Error())
	assert.ErrorIs(t, domain.Invalid("quantity", "debe ser mayor que cero"), domain.ErrInvalidInput)
	assert.Equal(t, "entrada inválida: líneas vacías", domain.Invalid("", "líneas vacías").Error())
}

func TestStorageError_UnwrapsBoth(t *testing.T) {
	err := &domain.StorageError{Op: "commit", Err: context.DeadlineExceeded, Retryable: true}
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, domain.IsRetryable(fmt.Errorf("wrap: %w", err)))
	assert.False(t, domain.IsRetryable(&domain.StorageError{Op: "x", Err: errors.New("boom")}))
	assert.False(t, domain.IsRetryable(domain.ErrNotFound))
}

func TestIsDomainError(t *testing.T) {
	assert.True(t, domain.IsDomainError(domain.NotFound("artículo", "x")))
	assert.True(t, domain.IsDomainError(fmt.Errorf("x: %w", domain.ErrDuplicate)))
	assert.True(t, domain.IsDomainError(domain.InUse("proveedor", "p-1", "tiene artículos asociados")))
	assert.False(t, domain.IsDomainError(errors.New("driver")))
	assert.False(t, domain.IsDomainError(context.Canceled))
}

func TestInUseError(t *testing.T) {
	err := fmt.Errorf("borrar: %w", domain.InUse("categoría", "c-1", "tiene artículos asociados"))
	assert.ErrorIs(t, err, domain.ErrInUse)
	var inUse *domain.InUseError
	assert.ErrorAs(t, err, &inUse)
	assert.Equal(t, "c-1", inUse.ID)
	assert.False(t, domain.IsRetryable(err))
}
