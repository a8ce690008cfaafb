package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-stock-api/internal/application/dto"
)

// Los flags de entradas y salidas son opt-out: un body que los omite opera
// con update_forecast y verify_min en true.
func TestEntryRequest_FlagsOmitidosValenTrue(t *testing.T) {
	body := []byte(`{"product_id":"p","location_id":"l","company_id":"c","qty":"5","unit_value":"1.00"}`)

	var in dto.EntryRequest
	require.NoError(t, json.Unmarshal(body, &in))

	assert.True(t, in.ForecastEnabled(), "update_forecast omitido debe valer true")
}

func TestExitRequest_FlagsOmitidosValenTrue(t *testing.T) {
	body := []byte(`{"product_id":"p","location_id":"l","company_id":"c","qty":"5"}`)

	var in dto.ExitRequest
	require.NoError(t, json.Unmarshal(body, &in))

	assert.True(t, in.ForecastEnabled(), "update_forecast omitido debe valer true")
	assert.True(t, in.MinCheckEnabled(), "verify_min omitido debe valer true")
}

// El opt-out explícito sí apaga el flag.
func TestExitRequest_FlagsExplicitosSeRespetan(t *testing.T) {
	body := []byte(`{"product_id":"p","location_id":"l","company_id":"c","qty":"5","update_forecast":false,"verify_min":false}`)

	var in dto.ExitRequest
	require.NoError(t, json.Unmarshal(body, &in))

	assert.False(t, in.ForecastEnabled())
	assert.False(t, in.MinCheckEnabled())

	body = []byte(`{"product_id":"p","location_id":"l","company_id":"c","qty":"5","verify_min":true}`)
	in = dto.ExitRequest{}
	require.NoError(t, json.Unmarshal(body, &in))
	assert.True(t, in.MinCheckEnabled())
}
