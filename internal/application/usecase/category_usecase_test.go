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

func TestCategory_CrudAndItemCount(t *testing.T) {
	items, store := newItemUseCase()
	uc := usecase.NewCategoryUseCase(store.Categories(), store.Items())
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CategoryRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	pinturas, err := uc.Create(ctx, dto.CategoryRequest{Name: " Pinturas ", Description: "Látex y esmaltes"})
	require.NoError(t, err)
	assert.Equal(t, "Pinturas", pinturas.Name)
	_, err = uc.Create(ctx, dto.CategoryRequest{Name: "pinturas"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	adhesivos, err := uc.Create(ctx, dto.CategoryRequest{Name: "Adhesivos"})
	require.NoError(t, err)
	_, err = items.Create(ctx, "", dto.CreateItemRequest{Code: "P-1", Name: "Látex blanco", CategoryID: pinturas.ID})
	require.NoError(t, err)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Adhesivos", list[0].Name)
	assert.Equal(t, 0, list[0].ItemCount)
	assert.Equal(t, 1, list[1].ItemCount)

	_, err = uc.Update(ctx, adhesivos.ID, dto.CategoryRequest{Name: "Pinturas"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	renamed, err := uc.Update(ctx, pinturas.ID, dto.CategoryRequest{Name: "Pinturas y barnices"})
	require.NoError(t, err)
	assert.Equal(t, 1, renamed.ItemCount)

	assert.ErrorIs(t, uc.Delete(ctx, pinturas.ID), domain.ErrInUse)
	require.NoError(t, uc.Delete(ctx, adhesivos.ID))
	_, err = uc.GetByID(ctx, adhesivos.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, adhesivos.ID), domain.ErrNotFound)
}
