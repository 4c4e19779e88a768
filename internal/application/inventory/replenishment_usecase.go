package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// maxReplenishmentRows tope de artículos en estado bajo considerados por la lista.
const maxReplenishmentRows = 500

// ReplenishmentUseCase genera la lista de reposición a partir de los artículos en stock bajo.
type ReplenishmentUseCase struct {
	reportRepo repository.ReportRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(reportRepo repository.ReportRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{reportRepo: reportRepo}
}

// GenerateReplenishmentList sugiere pedir lo necesario para llevar cada artículo al doble de
// su mínimo (límite superior del estado "ok"). Los agotados van primero, luego mayor faltante.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	rows, _, err := uc.reportRepo.StockLevels(ctx, entity.StockLow, maxReplenishmentRows, 0)
	if err != nil {
		return nil, err
	}

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(rows))
	for _, r := range rows {
		target := r.MinStock * 2
		qty := target - r.Stock
		if qty <= 0 {
			continue
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ItemID:            r.ItemID,
			Code:              r.Code,
			Name:              r.Name,
			CurrentStock:      r.Stock,
			MinStock:          r.MinStock,
			TargetStock:       target,
			SuggestedOrderQty: qty,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if (a.CurrentStock == 0) != (b.CurrentStock == 0) {
			return a.CurrentStock == 0
		}
		return a.SuggestedOrderQty > b.SuggestedOrderQty
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
