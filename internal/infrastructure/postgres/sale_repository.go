package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `s.id, s.code, s.customer_name, s.gross, s.discount, s.net, s.payment_method, s.note,
	s.actor_id, s.status, s.created_at, s.cancelled_at, COALESCE(s.cancelled_by, '')`

// SaleRepo ventas sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSale(row pgx.Row, extra ...any) (*entity.Sale, error) {
	var s entity.Sale
	var status string
	dest := []any{&s.ID, &s.Code, &s.CustomerName, &s.Gross, &s.Discount, &s.Net, &s.PaymentMethod, &s.Note,
		&s.ActorID, &status, &s.CreatedAt, &s.CancelledAt, &s.CancelledBy}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	s.Status = entity.SaleStatus(status)
	return &s, nil
}

// Create inserta la cabecera. Las líneas se insertan con CreateLine.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, code, customer_name, gross, discount, net, payment_method, note, actor_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.ID, s.Code, s.CustomerName, s.Gross, s.Discount, s.Net, s.PaymentMethod, s.Note,
		s.ActorID, string(s.Status), s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return storageErr("insert sale", err)
	}
	return nil
}

// CreateLine inserta una línea. Un artículo inexistente llega como violación de FK.
func (r *SaleRepo) CreateLine(ctx context.Context, l *entity.SaleLine) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sale_lines (id, sale_id, item_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, l.SaleID, l.ItemID, l.Quantity, l.UnitPrice, l.Subtotal,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NotFound("artículo", l.ItemID)
		}
		return storageErr("insert sale line", err)
	}
	return nil
}

func (r *SaleRepo) getOne(ctx context.Context, op, query, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr(op, err)
	}
	return s, nil
}

// GetByID obtiene la cabecera (activa o anulada).
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, "get sale", `SELECT `+saleColumns+` FROM sales s WHERE s.id = $1`, id)
}

// GetForUpdate obtiene la cabecera y bloquea la fila: dos anulaciones concurrentes se serializan.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, "get sale for update", `SELECT `+saleColumns+` FROM sales s WHERE s.id = $1 FOR UPDATE`, id)
}

// GetLines líneas de la venta con el nombre actual del artículo.
func (r *SaleRepo) GetLines(ctx context.Context, saleID string) ([]entity.SaleLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT l.id, l.sale_id, l.item_id, i.name, l.quantity, l.unit_price, l.subtotal
		FROM sale_lines l
		JOIN items i ON i.id = l.item_id
		WHERE l.sale_id = $1
		ORDER BY l.id`, saleID)
	if err != nil {
		return nil, storageErr("list sale lines", err)
	}
	defer rows.Close()
	var lines []entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ItemID, &l.ItemName, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, storageErr("scan sale line", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list sale lines", err)
	}
	return lines, nil
}

// MarkCancelled pasa la venta a cancelled. Solo afecta ventas activas.
func (r *SaleRepo) MarkCancelled(ctx context.Context, id, actorID string, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE sales SET status = 'cancelled', cancelled_at = $2, cancelled_by = $3
		WHERE id = $1 AND status = 'active'`, id, at, actorID)
	if err != nil {
		return storageErr("cancel sale", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("venta", id)
	}
	return nil
}

// List ventas activas, más recientes primero, con el número de líneas.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, int, error) {
	conds := []string{"s.status = 'active'"}
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.ActorID != "" {
		add("s.actor_id = $%d", f.ActorID)
	}
	if f.From != nil {
		add("s.created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("s.created_at <= $%d", *f.To)
	}
	where := " WHERE " + strings.Join(conds, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales s`+where, args...).Scan(&total); err != nil {
		return nil, 0, storageErr("count sales", err)
	}

	query := `SELECT ` + saleColumns + `,
		(SELECT COUNT(*) FROM sale_lines l WHERE l.sale_id = s.id)
		FROM sales s` + where + ` ORDER BY s.created_at DESC, s.id DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, storageErr("list sales", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var lineCount int
		s, err := scanSale(rows, &lineCount)
		if err != nil {
			return nil, 0, storageErr("scan sale", err)
		}
		s.LineCount = lineCount
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storageErr("list sales", err)
	}
	return list, total, nil
}
