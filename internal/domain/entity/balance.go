package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockBalance es el saldo de un producto en una ubicación (clave product+location).
// Cantidades con 3 decimales; valores monetarios con 2.
//
// Invariantes (válidas después de cada operación confirmada):
//   - 0 <= Reserved <= OnHand
//   - Available == OnHand - Reserved
//   - TotalValue == round2(OnHand * WeightedAvgCost)
//
// Available y TotalValue son derivados: los recalcula Recompute() en cada
// escritura; los lectores nunca los computan por su cuenta.
type StockBalance struct {
	ID              string
	ProductID       string
	LocationID      string
	CompanyID       string
	OnHand          decimal.Decimal
	Reserved        decimal.Decimal
	Available       decimal.Decimal // derivado
	PredictedIn     decimal.Decimal
	PredictedOut    decimal.Decimal
	WeightedAvgCost decimal.Decimal
	TotalValue      decimal.Decimal // derivado
	MinLevel        decimal.Decimal
	MaxLevel        decimal.Decimal
	InternalSlot    string // bin/posición interna, texto libre
	IsDeleted       bool
	DeletedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Recompute recalcula los campos derivados. Debe llamarse antes de persistir.
func (b *StockBalance) Recompute() {
	b.Available = b.OnHand.Sub(b.Reserved)
	b.TotalValue = b.OnHand.Mul(b.WeightedAvgCost).Round(2)
}

// ExpectedWithForecast devuelve la proyección de stock incluyendo los
// movimientos previstos: on_hand - reserved + predicted_in - predicted_out.
func (b *StockBalance) ExpectedWithForecast() decimal.Decimal {
	return b.OnHand.Sub(b.Reserved).Add(b.PredictedIn).Sub(b.PredictedOut)
}

// BelowMinLevel indica si el saldo quedó por debajo del mínimo configurado.
func (b *StockBalance) BelowMinLevel() bool {
	return b.MinLevel.GreaterThan(decimal.Zero) && b.OnHand.LessThan(b.MinLevel)
}
