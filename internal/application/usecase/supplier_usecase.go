package usecase

import (
	"context"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// SupplierUseCase casos de uso de proveedores.
type SupplierUseCase struct {
	repo  repository.SupplierRepository
	items repository.ItemRepository
	log   *logger.Logger
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository, items repository.ItemRepository, log *logger.Logger) *SupplierUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SupplierUseCase{repo: repo, items: items, log: log.Named("suppliers")}
}

func validSupplier(in dto.SupplierRequest) (dto.SupplierRequest, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.TaxID = strings.TrimSpace(in.TaxID)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" {
		return in, domain.Invalid("name", "requerido")
	}
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			return in, domain.Invalid("email", "formato inválido")
		}
	}
	return in, nil
}

// Create registra un proveedor activo. tax_id, si viene, no puede repetirse.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	in, err := validSupplier(in)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	s := &entity.Supplier{
		ID:        uuid.New().String(),
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		Contact:   in.Contact,
		Note:      in.Note,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	resp := dto.SupplierFromEntity(s)
	return &resp, nil
}

func (uc *SupplierUseCase) get(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.NotFound("proveedor", id)
	}
	return s, nil
}

// GetByID obtiene un proveedor por ID.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.SupplierFromEntity(s)
	return &resp, nil
}

// Update reemplaza los datos de contacto. El estado activo no cambia.
func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	in, err := validSupplier(in)
	if err != nil {
		return nil, err
	}
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Name = in.Name
	s.TaxID = in.TaxID
	s.Email = in.Email
	s.Phone = in.Phone
	s.Address = in.Address
	s.Contact = in.Contact
	s.Note = in.Note
	s.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	resp := dto.SupplierFromEntity(s)
	return &resp, nil
}

// ToggleStatus activa o desactiva el proveedor.
func (uc *SupplierUseCase) ToggleStatus(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Active = !s.Active
	s.UpdatedAt = time.Now().UTC()
	if err := uc.repo.SetActive(ctx, id, s.Active, s.UpdatedAt); err != nil {
		return nil, err
	}
	uc.log.Info().Str("supplier_id", id).Bool("active", s.Active).Msg("estado de proveedor cambiado")
	resp := dto.SupplierFromEntity(s)
	return &resp, nil
}

// Delete borra el proveedor; con artículos asociados devuelve InUseError.
func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// List lista proveedores por nombre. q.Active acepta true, false o vacío.
func (uc *SupplierUseCase) List(ctx context.Context, q dto.SupplierQuery) (*dto.SupplierPage, error) {
	var active *bool
	if q.Active != "" {
		v, err := strconv.ParseBool(q.Active)
		if err != nil {
			return nil, domain.Invalid("active", "valores permitidos: true, false")
		}
		active = &v
	}
	page := q.PageRequest
	page.Normalize()
	list, total, err := uc.repo.List(ctx, repository.SupplierFilter{
		Search: strings.TrimSpace(q.Search),
		Active: active,
		Limit:  page.PerPage,
		Offset: page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	out := &dto.SupplierPage{
		Suppliers:    make([]dto.SupplierResponse, 0, len(list)),
		PageResponse: dto.NewPageResponse(page, total),
	}
	for _, s := range list {
		out.Suppliers = append(out.Suppliers, dto.SupplierFromEntity(s))
	}
	return out, nil
}

// Items artículos que provee el proveedor.
func (uc *SupplierUseCase) Items(ctx context.Context, id string, page dto.PageRequest) (*dto.ItemPage, error) {
	if _, err := uc.get(ctx, id); err != nil {
		return nil, err
	}
	page.Normalize()
	list, total, err := uc.items.List(ctx, repository.ItemFilter{SupplierID: id, Limit: page.PerPage, Offset: page.Offset()})
	if err != nil {
		return nil, err
	}
	out := &dto.ItemPage{
		Items:        make([]dto.ItemResponse, 0, len(list)),
		PageResponse: dto.NewPageResponse(page, total),
	}
	for _, it := range list {
		out.Items = append(out.Items, dto.ItemFromEntity(it))
	}
	return out, nil
}
