package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo reportes calculados sobre el estado en memoria.
type ReportRepo struct{ base }

func (r *ReportRepo) StockLevels(_ context.Context, status entity.StockStatus, limit, offset int) ([]repository.StockLevelRow, int, error) {
	var rows []repository.StockLevelRow
	r.read(func(s *state) {
		for _, it := range s.items {
			st := entity.ClassifyStock(it.Stock, it.MinStock)
			if status != "" && st != status {
				continue
			}
			rows = append(rows, repository.StockLevelRow{
				ItemID: it.ID, Code: it.Code, Name: it.Name,
				Stock: it.Stock, MinStock: it.MinStock, Status: st,
			})
		}
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return paginate(rows, limit, offset), len(rows), nil
}

func (r *ReportRepo) DailyFlows(_ context.Context, from, to time.Time) ([]repository.DailyFlowRow, error) {
	byDay := make(map[time.Time]*repository.DailyFlowRow)
	r.read(func(s *state) {
		for _, m := range s.movements {
			if m.CreatedAt.Before(from) || !m.CreatedAt.Before(to) {
				continue
			}
			t := m.CreatedAt.UTC()
			day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			row, ok := byDay[day]
			if !ok {
				row = &repository.DailyFlowRow{Day: day}
				byDay[day] = row
			}
			if m.Delta > 0 {
				row.Inbound += m.Delta
			} else {
				row.Outbound += -m.Delta
			}
		}
	})
	out := make([]repository.DailyFlowRow, 0, len(byDay))
	for _, row := range byDay {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

// soldByItem agrega unidades e ingreso de las líneas de ventas activas.
func soldByItem(s *state) map[string]*repository.ItemSalesRow {
	sold := make(map[string]*repository.ItemSalesRow)
	for saleID, lines := range s.lines {
		if sale, ok := s.sales[saleID]; !ok || !sale.IsActive() {
			continue
		}
		for _, l := range lines {
			row, ok := sold[l.ItemID]
			if !ok {
				it := s.items[l.ItemID]
				row = &repository.ItemSalesRow{ItemID: l.ItemID, Code: it.Code, Name: it.Name, Revenue: decimal.Zero}
				sold[l.ItemID] = row
			}
			row.Quantity += l.Quantity
			row.Revenue = row.Revenue.Add(l.Subtotal)
		}
	}
	return sold
}

func (r *ReportRepo) ItemSales(_ context.Context, ascending bool, limit int) ([]repository.ItemSalesRow, error) {
	var rows []repository.ItemSalesRow
	r.read(func(s *state) {
		for _, row := range soldByItem(s) {
			rows = append(rows, *row)
		}
	})
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Quantity == rows[j].Quantity {
			return rows[i].Name < rows[j].Name
		}
		if ascending {
			return rows[i].Quantity < rows[j].Quantity
		}
		return rows[i].Quantity > rows[j].Quantity
	})
	return paginate(rows, limit, 0), nil
}

func (r *ReportRepo) UnsoldItems(_ context.Context, limit int) ([]repository.ItemSalesRow, error) {
	var rows []repository.ItemSalesRow
	r.read(func(s *state) {
		sold := soldByItem(s)
		for _, it := range s.items {
			if _, ok := sold[it.ID]; ok {
				continue
			}
			rows = append(rows, repository.ItemSalesRow{ItemID: it.ID, Code: it.Code, Name: it.Name, Revenue: decimal.Zero})
		}
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return paginate(rows, limit, 0), nil
}

func (r *ReportRepo) Summary(_ context.Context, salesSince time.Time) (*repository.SummaryCounts, error) {
	out := &repository.SummaryCounts{StockValue: decimal.Zero, SalesNet: decimal.Zero}
	r.read(func(s *state) {
		for _, it := range s.items {
			out.Items++
			if it.Stock <= it.MinStock {
				out.LowStock++
			}
			if it.Stock == 0 {
				out.OutOfStock++
			}
			if it.CostPrice != nil {
				out.StockValue = out.StockValue.Add(it.CostPrice.Mul(decimal.NewFromInt(it.Stock)))
			}
		}
		for _, sale := range s.sales {
			if !sale.IsActive() || sale.CreatedAt.Before(salesSince) {
				continue
			}
			out.SalesCount++
			out.SalesNet = out.SalesNet.Add(sale.Net)
		}
	})
	return out, nil
}

// sinCategoria nombre del grupo de artículos sin categoría.
const sinCategoria = "Sin categoría"

func (r *ReportRepo) StockByCategory(context.Context) ([]repository.CategoryStockRow, error) {
	byCat := make(map[string]*repository.CategoryStockRow)
	r.read(func(s *state) {
		for _, it := range s.items {
			row, ok := byCat[it.CategoryID]
			if !ok {
				name := sinCategoria
				if c, found := s.categories[it.CategoryID]; found {
					name = c.Name
				}
				row = &repository.CategoryStockRow{CategoryID: it.CategoryID, CategoryName: name, StockValue: decimal.Zero}
				byCat[it.CategoryID] = row
			}
			row.Items++
			row.Units += it.Stock
			if it.Stock <= it.MinStock {
				row.LowStock++
			}
			if it.CostPrice != nil {
				row.StockValue = row.StockValue.Add(it.CostPrice.Mul(decimal.NewFromInt(it.Stock)))
			}
		}
	})
	out := make([]repository.CategoryStockRow, 0, len(byCat))
	for _, row := range byCat {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if (out[i].CategoryID == "") != (out[j].CategoryID == "") {
			return out[j].CategoryID == ""
		}
		return out[i].CategoryName < out[j].CategoryName
	})
	return out, nil
}
