package stock_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/erp-stock-api/internal/domain/stock"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Caso de referencia: 50 unidades a 10.00 más 50 unidades a 11.00
// deben promediar exactamente 10.50.
func TestWeightedAverageCost_PromedioExacto(t *testing.T) {
	got := stock.WeightedAverageCost(d("50"), d("10.00"), d("50"), d("11.00"))
	assert.True(t, d("10.50").Equal(got), "esperado 10.50, obtenido %s", got)
}

// Con saldo vacío el costo pasa a ser el costo de la entrada.
func TestWeightedAverageCost_SaldoVacioTomaCostoEntrada(t *testing.T) {
	got := stock.WeightedAverageCost(decimal.Zero, decimal.Zero, d("20"), d("7.333"))
	assert.True(t, d("7.33").Equal(got), "esperado 7.33, obtenido %s", got)
}

// El redondeo es half-up a 2 decimales, no bankers.
func TestWeightedAverageCost_RedondeoHalfUp(t *testing.T) {
	// (10*10.00 + 10*10.01) / 20 = 10.005 -> 10.01 con half-up
	got := stock.WeightedAverageCost(d("10"), d("10.00"), d("10"), d("10.01"))
	assert.True(t, d("10.01").Equal(got), "esperado 10.01, obtenido %s", got)
}

// Cantidades desiguales ponderan hacia la entrada mayor.
func TestWeightedAverageCost_PonderacionPorCantidad(t *testing.T) {
	// (10*10.00 + 90*20.00) / 100 = 19.00
	got := stock.WeightedAverageCost(d("10"), d("10.00"), d("90"), d("20.00"))
	assert.True(t, d("19.00").Equal(got), "esperado 19.00, obtenido %s", got)
}

func TestQuantityWeightedMean(t *testing.T) {
	entries := []stock.WeightedEntry{
		{Qty: d("50"), UnitValue: d("10.00")},
		{Qty: d("50"), UnitValue: d("11.00")},
	}
	got := stock.QuantityWeightedMean(entries)
	assert.True(t, d("10.50").Equal(got), "esperado 10.50, obtenido %s", got)
}

func TestQuantityWeightedMean_SinEntradas(t *testing.T) {
	assert.True(t, stock.QuantityWeightedMean(nil).IsZero())
}
