package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

const secret = "clave-de-prueba"

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := jwt.Generate(secret, "u-7", "bodeguero", "inventario-ledger", 5)
	require.NoError(t, err)

	userID, role, err := jwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-7", userID)
	assert.Equal(t, "bodeguero", role)
}

func TestParse_Rejections(t *testing.T) {
	expired, err := jwt.Generate(secret, "u-1", "admin", "inventario-ledger", -1)
	require.NoError(t, err)
	_, _, err = jwt.Parse(secret, expired)
	assert.Error(t, err, "expirado")

	valid, err := jwt.Generate(secret, "u-1", "admin", "inventario-ledger", 5)
	require.NoError(t, err)
	_, _, err = jwt.Parse("otro-secreto", valid)
	assert.Error(t, err, "firma de otro secreto")

	_, _, err = jwt.Parse("", valid)
	assert.Error(t, err)
	_, err = jwt.Generate("", "u-1", "admin", "inventario-ledger", 5)
	assert.Error(t, err)
}
