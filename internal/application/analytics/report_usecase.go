// Package analytics contiene los reportes de solo lectura sobre catálogo, kardex y ventas.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// Límites de los reportes.
const (
	MinSeriesDays       = 1
	MaxSeriesDays       = 365
	DefaultSeriesDays   = 30
	DefaultRankingLimit = 10
	MaxRankingLimit     = 100
)

// ReportUseCase reportes con caché de lectura (Redis o no-op).
type ReportUseCase struct {
	repo    repository.ReportRepository
	movRepo repository.MovementRepository
	cache   ports.Cache
	ttl     time.Duration
	log     *logger.Logger
	now     func() time.Time
}

// NewReportUseCase construye el caso de uso. cache puede ser nil (sin caché).
func NewReportUseCase(
	repo repository.ReportRepository,
	movRepo repository.MovementRepository,
	cache ports.Cache,
	ttl time.Duration,
	log *logger.Logger,
) *ReportUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReportUseCase{
		repo:    repo,
		movRepo: movRepo,
		cache:   cache,
		ttl:     ttl,
		log:     log.Named("reports"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// StockStatus niveles de stock filtrados por estado (low, ok, excess o vacío).
func (uc *ReportUseCase) StockStatus(ctx context.Context, status string, page dto.PageRequest) (*dto.StockStatusPage, error) {
	st, ok := entity.ParseStockStatus(status)
	if !ok {
		return nil, domain.Invalid("status", "valores permitidos: low, ok, excess")
	}
	page.Normalize()

	key := fmt.Sprintf("report:stock-status:%s:%d:%d", st, page.Page, page.PerPage)
	var out dto.StockStatusPage
	err := uc.cached(ctx, key, &out, func() error {
		rows, total, err := uc.repo.StockLevels(ctx, st, page.PerPage, page.Offset())
		if err != nil {
			return err
		}
		out = dto.StockStatusPage{
			Items:        make([]dto.StockLevelDTO, 0, len(rows)),
			PageResponse: dto.NewPageResponse(page, total),
		}
		for _, r := range rows {
			out.Items = append(out.Items, dto.StockLevelDTO{
				ItemID: r.ItemID, Code: r.Code, Name: r.Name,
				Stock: r.Stock, MinStock: r.MinStock, Status: r.Status,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// MovementSeries totales diarios de entradas y salidas de los últimos n días (hoy incluido).
// Todos los días aparecen en la serie, con cero si no hubo movimientos.
func (uc *ReportUseCase) MovementSeries(ctx context.Context, days int) (*dto.MovementSeriesDTO, error) {
	if days == 0 {
		days = DefaultSeriesDays
	}
	if days < MinSeriesDays || days > MaxSeriesDays {
		return nil, domain.Invalid("days", fmt.Sprintf("debe estar entre %d y %d", MinSeriesDays, MaxSeriesDays))
	}
	now := uc.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := today.AddDate(0, 0, -(days - 1))
	to := today.AddDate(0, 0, 1)

	key := fmt.Sprintf("report:movement-series:%s:%d", today.Format("2006-01-02"), days)
	var out dto.MovementSeriesDTO
	err := uc.cached(ctx, key, &out, func() error {
		rows, err := uc.repo.DailyFlows(ctx, from, to)
		if err != nil {
			return err
		}
		byDay := make(map[string]repository.DailyFlowRow, len(rows))
		for _, r := range rows {
			byDay[r.Day.UTC().Format("2006-01-02")] = r
		}
		out = dto.MovementSeriesDTO{Days: days, Series: make([]dto.DailyFlowDTO, 0, days)}
		for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
			label := d.Format("2006-01-02")
			r := byDay[label]
			out.Series = append(out.Series, dto.DailyFlowDTO{Date: label, Inbound: r.Inbound, Outbound: r.Outbound})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SalesRanking más vendidos, menos vendidos (con al menos una venta) y nunca vendidos.
func (uc *ReportUseCase) SalesRanking(ctx context.Context, limit int) (*dto.SalesRankingDTO, error) {
	if limit == 0 {
		limit = DefaultRankingLimit
	}
	if limit < 1 || limit > MaxRankingLimit {
		return nil, domain.Invalid("limit", fmt.Sprintf("debe estar entre 1 y %d", MaxRankingLimit))
	}

	key := fmt.Sprintf("report:sales-ranking:%d", limit)
	var out dto.SalesRankingDTO
	err := uc.cached(ctx, key, &out, func() error {
		best, err := uc.repo.ItemSales(ctx, false, limit)
		if err != nil {
			return fmt.Errorf("ranking: más vendidos: %w", err)
		}
		worst, err := uc.repo.ItemSales(ctx, true, limit)
		if err != nil {
			return fmt.Errorf("ranking: menos vendidos: %w", err)
		}
		never, err := uc.repo.UnsoldItems(ctx, limit)
		if err != nil {
			return fmt.Errorf("ranking: sin ventas: %w", err)
		}
		out = dto.SalesRankingDTO{
			BestSellers:  toItemSales(best),
			WorstSellers: toItemSales(worst),
			NeverSold:    toItemSales(never),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// StockByCategory unidades, artículos en mínimo y valor del stock por categoría.
func (uc *ReportUseCase) StockByCategory(ctx context.Context) ([]dto.CategoryStockDTO, error) {
	var out []dto.CategoryStockDTO
	err := uc.cached(ctx, "report:stock-by-category", &out, func() error {
		rows, err := uc.repo.StockByCategory(ctx)
		if err != nil {
			return err
		}
		out = make([]dto.CategoryStockDTO, 0, len(rows))
		for _, r := range rows {
			out = append(out, dto.CategoryStockDTO{
				CategoryID: r.CategoryID, CategoryName: r.CategoryName,
				Items: r.Items, Units: r.Units, LowStock: r.LowStock,
				StockValue: r.StockValue.Round(2),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func toItemSales(rows []repository.ItemSalesRow) []dto.ItemSalesDTO {
	out := make([]dto.ItemSalesDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ItemSalesDTO{
			ItemID: r.ItemID, Code: r.Code, Name: r.Name,
			Quantity: r.Quantity, Revenue: r.Revenue.Round(2),
		})
	}
	return out
}

// cached lee key de la caché o ejecuta load y guarda el resultado. Los fallos de la caché
// solo se registran: el reporte se calcula igual.
func (uc *ReportUseCase) cached(ctx context.Context, key string, dest any, load func() error) error {
	if uc.cache != nil {
		hit, err := uc.cache.Get(ctx, key, dest)
		if err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("leer caché de reportes")
		} else if hit {
			return nil
		}
	}
	if err := load(); err != nil {
		return err
	}
	if uc.cache != nil && uc.ttl > 0 {
		if err := uc.cache.Set(ctx, key, dest, uc.ttl); err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("guardar caché de reportes")
		}
	}
	return nil
}
