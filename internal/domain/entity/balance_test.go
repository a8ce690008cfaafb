package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRecompute_CamposDerivados(t *testing.T) {
	b := &entity.StockBalance{
		OnHand:          dec("100"),
		Reserved:        dec("30"),
		WeightedAvgCost: dec("10.505"),
	}
	b.Recompute()

	assert.True(t, dec("70").Equal(b.Available))
	assert.True(t, dec("1050.50").Equal(b.TotalValue), "total_value redondea a 2 decimales")
}

func TestExpectedWithForecast(t *testing.T) {
	b := &entity.StockBalance{
		OnHand:       dec("100"),
		Reserved:     dec("20"),
		PredictedIn:  dec("50"),
		PredictedOut: dec("10"),
	}
	assert.True(t, dec("120").Equal(b.ExpectedWithForecast()))
}

func TestBelowMinLevel(t *testing.T) {
	b := &entity.StockBalance{OnHand: dec("70"), MinLevel: dec("80")}
	assert.True(t, b.BelowMinLevel())

	b.OnHand = dec("80")
	assert.False(t, b.BelowMinLevel(), "en el mínimo exacto no hay alerta")

	b = &entity.StockBalance{OnHand: dec("0"), MinLevel: decimal.Zero}
	assert.False(t, b.BelowMinLevel(), "sin mínimo configurado nunca alerta")
}
