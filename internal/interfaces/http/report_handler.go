package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// ReportHandler maneja los reportes de solo lectura.
type ReportHandler struct {
	uc *analytics.ReportUseCase
	errorWriter
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *analytics.ReportUseCase, log *logger.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, errorWriter: errorWriter{log: log}}
}

// StockStatus godoc
// @Summary      Niveles de stock
// @Description  low: stock <= mínimo; ok: hasta 2 × mínimo; excess: por encima.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        status    query  string  false  "low, ok o excess"
// @Param        page      query  int     false  "Página"
// @Param        per_page  query  int     false  "Tamaño de página"
// @Success      200  {object}  dto.StockStatusPage
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/stock-status [get]
func (h *ReportHandler) StockStatus(c *fiber.Ctx) error {
	out, err := h.uc.StockStatus(c.Context(), c.Query("status"), pageRequest(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// MovementSeries godoc
// @Summary      Entradas y salidas por día
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Días hacia atrás (1..365, default 30)"
// @Success      200  {object}  dto.MovementSeriesDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/movements/series [get]
func (h *ReportHandler) MovementSeries(c *fiber.Ctx) error {
	out, err := h.uc.MovementSeries(c.Context(), c.QueryInt("days", analytics.DefaultSeriesDays))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// SalesRanking godoc
// @Summary      Ranking de ventas
// @Description  Más vendidos, menos vendidos y artículos sin ventas. Excluye ventas anuladas.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo por lista (1..100, default 10)"
// @Success      200  {object}  dto.SalesRankingDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sales-ranking [get]
func (h *ReportHandler) SalesRanking(c *fiber.Ctx) error {
	out, err := h.uc.SalesRanking(c.Context(), c.QueryInt("limit", analytics.DefaultRankingLimit))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Tablero
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SummaryDTO
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// StockByCategory godoc
// @Summary      Stock por categoría
// @Description  Artículos sin categoría al final.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryStockDTO
// @Router       /api/reports/stock-by-category [get]
func (h *ReportHandler) StockByCategory(c *fiber.Ctx) error {
	out, err := h.uc.StockByCategory(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}
