package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-stock-api/pkg/jwt"
)

func TestGenerateYParse(t *testing.T) {
	token, err := jwt.Generate("secreto", "user-1", "t-1", "acme", "manager", "erp-stock-api", 60)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwt.Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "t-1", claims.TenantID)
	assert.Equal(t, "acme", claims.TenantSchema)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "erp-stock-api", claims.Issuer)
}

func TestParse_SecretoIncorrecto(t *testing.T) {
	token, err := jwt.Generate("secreto", "user-1", "t-1", "acme", "admin", "erp-stock-api", 60)
	require.NoError(t, err)

	_, err = jwt.Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := jwt.Generate("secreto", "user-1", "t-1", "acme", "admin", "erp-stock-api", -1)
	require.NoError(t, err)

	_, err = jwt.Parse("secreto", token)
	assert.Error(t, err)
}

func TestGenerate_SinSecreto(t *testing.T) {
	_, err := jwt.Generate("", "user-1", "t-1", "acme", "admin", "erp-stock-api", 60)
	assert.Error(t, err)
}
