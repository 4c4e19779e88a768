package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

const (
	summarySalesDays     = 30 // ventana de ventas del tablero
	summaryLastMovements = 5
)

// Summary indicadores del tablero. Las dos consultas se lanzan en paralelo.
func (uc *ReportUseCase) Summary(ctx context.Context) (*dto.SummaryDTO, error) {
	since := uc.now().AddDate(0, 0, -summarySalesDays)

	var out dto.SummaryDTO
	err := uc.cached(ctx, "report:summary", &out, func() error {
		type countsResult struct {
			counts *repository.SummaryCounts
			err    error
		}
		type movementsResult struct {
			movs []dto.MovementResponse
			err  error
		}
		countsCh := make(chan countsResult, 1)
		movsCh := make(chan movementsResult, 1)

		go func() {
			c, err := uc.repo.Summary(ctx, since)
			countsCh <- countsResult{c, err}
		}()
		go func() {
			list, _, err := uc.movRepo.List(ctx, repository.MovementFilter{Limit: summaryLastMovements})
			res := movementsResult{err: err, movs: make([]dto.MovementResponse, 0, len(list))}
			for _, m := range list {
				res.movs = append(res.movs, dto.MovementFromEntity(m))
			}
			movsCh <- res
		}()

		counts := <-countsCh
		movs := <-movsCh
		if counts.err != nil {
			return fmt.Errorf("tablero: indicadores: %w", counts.err)
		}
		if movs.err != nil {
			return fmt.Errorf("tablero: últimos movimientos: %w", movs.err)
		}

		out = dto.SummaryDTO{
			Items:           counts.counts.Items,
			LowStock:        counts.counts.LowStock,
			OutOfStock:      counts.counts.OutOfStock,
			StockValue:      counts.counts.StockValue.Round(2),
			SalesLast30Days: counts.counts.SalesCount,
			NetLast30Days:   counts.counts.SalesNet.Round(2),
			LastMovements:   movs.movs,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
