package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/sales"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/pkg/config"
)

var (
	_ inventory.TxRunner  = (*TxRunner)(nil)
	_ sales.SalesTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL (READ COMMITTED + SELECT ... FOR UPDATE
// sobre las filas de items). lock_timeout y statement_timeout se fijan con alcance local a la transacción.
type TxRunner struct {
	pool             *pgxpool.Pool
	lockTimeout      time.Duration
	statementTimeout time.Duration
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, cfg config.DBConfig) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: cfg.LockTimeout, statementTimeout: cfg.StatementTimeout}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewItemRepository(tx), NewMovementRepository(tx))
	})
}

// RunSales inicia una transacción con repos del kardex y de ventas.
func (r *TxRunner) RunSales(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewItemRepository(tx), NewMovementRepository(tx), NewSaleRepository(tx))
	})
}

// inTx garantiza un único Rollback en cualquier salida que no sea un Commit exitoso. El rollback
// usa un contexto sin cancelación: si ctx venció, la transacción igual debe liberarse.
func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return &domain.StorageError{Op: "begin transaction", Err: err, Retryable: true}
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := r.applyTimeouts(ctx, tx); err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		return storageErr("transaction", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return &domain.StorageError{Op: "commit transaction", Err: err, Retryable: true}
	}
	return nil
}

func (r *TxRunner) applyTimeouts(ctx context.Context, tx pgx.Tx) error {
	settings := []struct {
		name  string
		value time.Duration
	}{
		{"lock_timeout", r.lockTimeout},
		{"statement_timeout", r.statementTimeout},
	}
	for _, s := range settings {
		if s.value <= 0 {
			continue
		}
		ms := fmt.Sprintf("%dms", s.value.Milliseconds())
		if _, err := tx.Exec(ctx, `SELECT set_config($1, $2, true)`, s.name, ms); err != nil {
			return storageErr("set "+s.name, err)
		}
	}
	return nil
}
