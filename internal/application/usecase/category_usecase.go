package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// CategoryUseCase casos de uso de categorías del catálogo.
type CategoryUseCase struct {
	repo  repository.CategoryRepository
	items repository.ItemRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, items repository.ItemRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, items: items}
}

func validCategory(in dto.CategoryRequest) (dto.CategoryRequest, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, domain.Invalid("name", "requerido")
	}
	return in, nil
}

// Create crea una categoría. El nombre es único sin distinguir mayúsculas.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	in, err := validCategory(in)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c := &entity.Category{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	resp := dto.CategoryFromEntity(c, 0)
	return &resp, nil
}

func (uc *CategoryUseCase) get(ctx context.Context, id string) (*entity.Category, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("categoría", id)
	}
	return c, nil
}

func (uc *CategoryUseCase) respond(ctx context.Context, c *entity.Category) (*dto.CategoryResponse, error) {
	_, n, err := uc.items.List(ctx, repository.ItemFilter{CategoryID: c.ID, Limit: 1})
	if err != nil {
		return nil, err
	}
	resp := dto.CategoryFromEntity(c, n)
	return &resp, nil
}

// GetByID obtiene una categoría con su número de artículos.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.respond(ctx, c)
}

// Update reemplaza nombre y descripción.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	in, err := validCategory(in)
	if err != nil {
		return nil, err
	}
	c, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = in.Name
	c.Description = in.Description
	c.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return uc.respond(ctx, c)
}

// Delete borra la categoría; con artículos asociados devuelve InUseError.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// List todas las categorías por nombre.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	rows, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.CategoriesFromRows(rows), nil
}
