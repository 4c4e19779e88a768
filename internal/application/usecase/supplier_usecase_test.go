package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain"
)

func TestSupplier_Validation(t *testing.T) {
	_, store := newItemUseCase()
	uc := usecase.NewSupplierUseCase(store.Suppliers(), store.Items(), nil)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.SupplierRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.SupplierRequest{Name: "X", Email: "no-es-correo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.SupplierRequest{Name: "Sin NIT"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.SupplierRequest{Name: "Otro sin NIT"})
	require.NoError(t, err, "tax_id vacío no cuenta como duplicado")

	_, err = uc.Create(ctx, dto.SupplierRequest{Name: "A", TaxID: "800"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.SupplierRequest{Name: "B", TaxID: " 800 "})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestSupplier_ToggleListAndDelete(t *testing.T) {
	items, store := newItemUseCase()
	uc := usecase.NewSupplierUseCase(store.Suppliers(), store.Items(), nil)
	ctx := context.Background()

	aceros, err := uc.Create(ctx, dto.SupplierRequest{Name: "Aceros", Contact: "Marta", Email: "ventas@aceros.co"})
	require.NoError(t, err)
	maderas, err := uc.Create(ctx, dto.SupplierRequest{Name: "Maderas"})
	require.NoError(t, err)

	off, err := uc.ToggleStatus(ctx, maderas.ID)
	require.NoError(t, err)
	assert.False(t, off.Active)

	updated, err := uc.Update(ctx, maderas.ID, dto.SupplierRequest{Name: "Maderas del Norte"})
	require.NoError(t, err)
	assert.False(t, updated.Active, "actualizar no reactiva")

	page, err := uc.List(ctx, dto.SupplierQuery{Active: "true"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, aceros.ID, page.Suppliers[0].ID)

	page, err = uc.List(ctx, dto.SupplierQuery{Search: "marta"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	_, err = uc.List(ctx, dto.SupplierQuery{Active: "tal vez"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = items.Create(ctx, "", dto.CreateItemRequest{Code: "V-1", Name: "Varilla", SupplierID: aceros.ID})
	require.NoError(t, err)
	provided, err := uc.Items(ctx, aceros.ID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, provided.Total)

	assert.ErrorIs(t, uc.Delete(ctx, aceros.ID), domain.ErrInUse)
	require.NoError(t, uc.Delete(ctx, maderas.ID))
	_, err = uc.GetByID(ctx, maderas.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.ToggleStatus(ctx, maderas.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
