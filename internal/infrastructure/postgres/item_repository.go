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

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, code, name, description, COALESCE(category_id, ''), COALESCE(supplier_id, ''),
	stock, min_stock, price, cost_price, created_at, updated_at`

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(&it.ID, &it.Code, &it.Name, &it.Description, &it.CategoryID, &it.SupplierID, &it.Stock, &it.MinStock,
		&it.Price, &it.CostPrice, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create persiste un artículo nuevo. El stock inicial es siempre el del struct (0 desde el caso de uso).
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO items (id, code, name, description, category_id, supplier_id,
			stock, min_stock, price, cost_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9, $10, $11, $12)`,
		it.ID, it.Code, it.Name, it.Description, it.CategoryID, it.SupplierID, it.Stock, it.MinStock,
		it.Price, it.CostPrice, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return missingRef(err, it)
		}
		return storageErr("insert item", err)
	}
	return nil
}

func (r *ItemRepo) getOne(ctx context.Context, op, query, id string) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageErr(op, err)
	}
	return it, nil
}

// GetByID obtiene un artículo por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, "get item", `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

// GetForUpdate obtiene el artículo y bloquea la fila (SELECT FOR UPDATE).
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, "get item for update", `SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id)
}

// LockForUpdate bloquea las filas en orden de id.
func (r *ItemRepo) LockForUpdate(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	rows, err := r.q.Query(ctx, `SELECT id FROM items WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return storageErr("lock items", err)
	}
	defer rows.Close()
	for rows.Next() {
	}
	if err := rows.Err(); err != nil {
		return storageErr("lock items", err)
	}
	return nil
}

// UpdateStock escribe el nuevo stock (solo el kardex lo llama).
func (r *ItemRepo) UpdateStock(ctx context.Context, id string, stock int64, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE items SET stock = $2, updated_at = $3 WHERE id = $1`, id, stock, at)
	if err != nil {
		return storageErr("update item stock", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("artículo", id)
	}
	return nil
}

// Update actualiza los campos de catálogo. Stock no se toca.
func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE items SET name = $2, description = $3, category_id = NULLIF($4, ''), supplier_id = NULLIF($5, ''),
			price = $6, cost_price = $7, min_stock = $8, updated_at = $9
		WHERE id = $1`,
		it.ID, it.Name, it.Description, it.CategoryID, it.SupplierID, it.Price, it.CostPrice, it.MinStock, it.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return missingRef(err, it)
		}
		return storageErr("update item", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("artículo", it.ID)
	}
	return nil
}

// missingRef traduce la FK violada a la referencia que no existe.
func missingRef(err error, it *entity.Item) error {
	if strings.Contains(pgConstraint(err), "supplier") {
		return domain.NotFound("proveedor", it.SupplierID)
	}
	return domain.NotFound("categoría", it.CategoryID)
}

// Delete borra un artículo sin historial. Con movimientos o ventas la FK lo impide.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.InUse("artículo", id, "tiene movimientos o ventas asociadas")
		}
		return storageErr("delete item", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("artículo", id)
	}
	return nil
}

// List lista artículos por nombre con búsqueda opcional por código o nombre.
func (r *ItemRepo) List(ctx context.Context, f repository.ItemFilter) ([]*entity.Item, int, error) {
	var conds []string
	args := []any{}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		conds = append(conds, fmt.Sprintf("(code ILIKE $%d OR name ILIKE $%d)", len(args), len(args)))
	}
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if f.SupplierID != "" {
		args = append(args, f.SupplierID)
		conds = append(conds, fmt.Sprintf("supplier_id = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM items`+where, args...).Scan(&total); err != nil {
		return nil, 0, storageErr("count items", err)
	}

	query := `SELECT ` + itemColumns + ` FROM items` + where + ` ORDER BY name ASC`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, storageErr("list items", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, storageErr("scan item", err)
		}
		list = append(list, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storageErr("list items", err)
	}
	return list, total, nil
}
