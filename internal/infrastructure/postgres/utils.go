package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// Códigos SQLSTATE usados por el adaptador.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeQueryCanceled        = "57014"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// pgConstraint nombre del constraint violado, si el driver lo informa.
func pgConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

func isForeignKeyViolation(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

// isRetryable: timeouts de bloqueo o de sentencia, conflictos de serialización, deadlocks y
// pérdida de conexión. En todos los casos PostgreSQL ya descartó la transacción.
func isRetryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}
	switch code := pgCode(err); {
	case code == codeSerializationFailure, code == codeDeadlockDetected,
		code == codeLockNotAvailable, code == codeQueryCanceled:
		return true
	case strings.HasPrefix(code, "08"): // connection_exception
		return true
	}
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}

// storageErr envuelve un error del driver en la taxonomía del dominio.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if domain.IsDomainError(err) {
		return err
	}
	return &domain.StorageError{Op: op, Err: err, Retryable: isRetryable(err)}
}
