package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// stockStatusExpr misma regla que entity.ClassifyStock.
const stockStatusExpr = `CASE
		WHEN stock <= min_stock THEN 'low'
		WHEN stock <= min_stock * 2 THEN 'ok'
		ELSE 'excess'
	END`

// ReportRepo consultas de reportes sobre PostgreSQL (solo lectura, fuera de transacción).
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

func (r *ReportRepo) StockLevels(ctx context.Context, status entity.StockStatus, limit, offset int) ([]repository.StockLevelRow, int, error) {
	base := `FROM (SELECT id, code, name, stock, min_stock, ` + stockStatusExpr + ` AS status FROM items) t`
	args := []any{}
	if status != "" {
		args = append(args, string(status))
		base += ` WHERE t.status = $1`
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) `+base, args...).Scan(&total); err != nil {
		return nil, 0, storageErr("count stock levels", err)
	}

	query := `SELECT t.id, t.code, t.name, t.stock, t.min_stock, t.status ` + base + ` ORDER BY t.name ASC`
	if limit > 0 {
		args = append(args, limit, offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, storageErr("stock levels", err)
	}
	defer rows.Close()
	var out []repository.StockLevelRow
	for rows.Next() {
		var row repository.StockLevelRow
		var st string
		if err := rows.Scan(&row.ItemID, &row.Code, &row.Name, &row.Stock, &row.MinStock, &st); err != nil {
			return nil, 0, storageErr("scan stock level", err)
		}
		row.Status = entity.StockStatus(st)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storageErr("stock levels", err)
	}
	return out, total, nil
}

func (r *ReportRepo) DailyFlows(ctx context.Context, from, to time.Time) ([]repository.DailyFlowRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT date_trunc('day', created_at AT TIME ZONE 'UTC') AS day,
			COALESCE(SUM(delta) FILTER (WHERE delta > 0), 0)::bigint,
			COALESCE(-SUM(delta) FILTER (WHERE delta < 0), 0)::bigint
		FROM movements
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY 1
		ORDER BY 1`, from, to)
	if err != nil {
		return nil, storageErr("daily flows", err)
	}
	defer rows.Close()
	var out []repository.DailyFlowRow
	for rows.Next() {
		var row repository.DailyFlowRow
		if err := rows.Scan(&row.Day, &row.Inbound, &row.Outbound); err != nil {
			return nil, storageErr("scan daily flow", err)
		}
		d := row.Day
		row.Day = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("daily flows", err)
	}
	return out, nil
}

func scanItemSales(rows pgx.Rows, op string) ([]repository.ItemSalesRow, error) {
	defer rows.Close()
	var out []repository.ItemSalesRow
	for rows.Next() {
		var row repository.ItemSalesRow
		if err := rows.Scan(&row.ItemID, &row.Code, &row.Name, &row.Quantity, &row.Revenue); err != nil {
			return nil, storageErr("scan "+op, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return out, nil
}

func (r *ReportRepo) ItemSales(ctx context.Context, ascending bool, limit int) ([]repository.ItemSalesRow, error) {
	order := "DESC"
	if ascending {
		order = "ASC"
	}
	rows, err := r.q.Query(ctx, `
		SELECT i.id, i.code, i.name, SUM(l.quantity)::bigint AS qty, SUM(l.subtotal)
		FROM sale_lines l
		JOIN sales s ON s.id = l.sale_id AND s.status = 'active'
		JOIN items i ON i.id = l.item_id
		GROUP BY i.id, i.code, i.name
		ORDER BY qty `+order+`, i.name ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, storageErr("item sales", err)
	}
	return scanItemSales(rows, "item sales")
}

func (r *ReportRepo) UnsoldItems(ctx context.Context, limit int) ([]repository.ItemSalesRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT i.id, i.code, i.name, 0::bigint, 0::numeric
		FROM items i
		WHERE NOT EXISTS (
			SELECT 1 FROM sale_lines l
			JOIN sales s ON s.id = l.sale_id AND s.status = 'active'
			WHERE l.item_id = i.id
		)
		ORDER BY i.name ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, storageErr("unsold items", err)
	}
	return scanItemSales(rows, "unsold items")
}

func (r *ReportRepo) Summary(ctx context.Context, salesSince time.Time) (*repository.SummaryCounts, error) {
	var out repository.SummaryCounts
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE stock <= min_stock),
			COUNT(*) FILTER (WHERE stock = 0),
			COALESCE(SUM(stock * cost_price), 0)
		FROM items`).Scan(&out.Items, &out.LowStock, &out.OutOfStock, &out.StockValue)
	if err != nil {
		return nil, storageErr("summary items", err)
	}
	err = r.q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(net), 0)
		FROM sales
		WHERE status = 'active' AND created_at >= $1`, salesSince).Scan(&out.SalesCount, &out.SalesNet)
	if err != nil {
		return nil, storageErr("summary sales", err)
	}
	return &out, nil
}

// StockByCategory agrupa el stock por categoría; los artículos sin categoría van al final.
func (r *ReportRepo) StockByCategory(ctx context.Context) ([]repository.CategoryStockRow, error) {
	rows, err := r.q.Query(ctx, `
		SELECT COALESCE(c.id, ''), COALESCE(c.name, 'Sin categoría'),
			COUNT(*), COALESCE(SUM(i.stock), 0)::bigint,
			COUNT(*) FILTER (WHERE i.stock <= i.min_stock),
			COALESCE(SUM(i.stock * i.cost_price), 0)
		FROM items i
		LEFT JOIN categories c ON c.id = i.category_id
		GROUP BY c.id, c.name
		ORDER BY (c.id IS NULL), c.name`)
	if err != nil {
		return nil, storageErr("stock by category", err)
	}
	defer rows.Close()
	var out []repository.CategoryStockRow
	for rows.Next() {
		var row repository.CategoryStockRow
		if err := rows.Scan(&row.CategoryID, &row.CategoryName, &row.Items, &row.Units, &row.LowStock, &row.StockValue); err != nil {
			return nil, storageErr("scan stock by category", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("stock by category", err)
	}
	return out, nil
}
