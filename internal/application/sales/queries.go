package sales

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// GetSale devuelve una venta activa con sus líneas. Las anuladas se reportan como NotFound.
func (uc *SaleUseCase) GetSale(ctx context.Context, id string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil || !sale.IsActive() {
		return nil, domain.NotFound("venta", id)
	}
	lines, err := uc.saleRepo.GetLines(ctx, id)
	if err != nil {
		return nil, err
	}
	sale.Lines = lines
	sale.LineCount = len(lines)
	return sale, nil
}

// ListSales lista ventas activas, de la más reciente a la más antigua.
func (uc *SaleUseCase) ListSales(ctx context.Context, q dto.SaleQuery) (*dto.SalePage, error) {
	from, to, err := dto.ParseDateRange(q.From, q.To)
	if err != nil {
		return nil, err
	}
	page := q.PageRequest
	page.Normalize()

	list, total, err := uc.saleRepo.List(ctx, repository.SaleFilter{
		From:    from,
		To:      to,
		ActorID: q.ActorID,
		Limit:   page.PerPage,
		Offset:  page.Offset(),
	})
	if err != nil {
		return nil, err
	}
	out := &dto.SalePage{
		Sales:        make([]dto.SaleResponse, 0, len(list)),
		PageResponse: dto.NewPageResponse(page, total),
	}
	for _, s := range list {
		out.Sales = append(out.Sales, dto.SaleFromEntity(s))
	}
	return out, nil
}
