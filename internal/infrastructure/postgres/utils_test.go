package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

func TestIsRetryable_PorCodigo(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{codeLockNotAvailable, true},
		{codeSerializationFailure, true},
		{codeDeadlockDetected, true},
		{codeQueryCanceled, true},
		{"08006", true},
		{codeUniqueViolation, false},
		{"23514", false}, // check_violation
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			err := fmt.Errorf("exec: %w", &pgconn.PgError{Code: tc.code})
			assert.Equal(t, tc.want, isRetryable(err))
		})
	}
	assert.True(t, isRetryable(context.DeadlineExceeded))
}

func TestStorageErr(t *testing.T) {
	assert.NoError(t, storageErr("op", nil))

	nf := domain.NotFound("artículo", "x")
	assert.Same(t, nf, storageErr("op", nf), "los errores de dominio pasan sin envolver")

	err := storageErr("lock items", &pgconn.PgError{Code: codeLockNotAvailable})
	var se *domain.StorageError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, "lock items", se.Op)
	assert.True(t, domain.IsRetryable(err))
	assert.True(t, errors.Is(err, domain.ErrStorage))

	assert.False(t, domain.IsRetryable(storageErr("insert", errors.New("boom"))))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: codeUniqueViolation}))
	assert.False(t, isUniqueViolation(errors.New("otro")))
	assert.True(t, isForeignKeyViolation(fmt.Errorf("wrap: %w", &pgconn.PgError{Code: codeForeignKeyViolation})))
}
