package stock

import "github.com/shopspring/decimal"

// WeightedAverageCost implementa la lógica de costo promedio ponderado
// (servicio de dominio):
//
//	NuevoCosto = ((OnHand * CostoActual) + (CantEntrada * CostoEntrada)) / (OnHand + CantEntrada)
//
// Si el saldo está vacío el costo pasa a ser exactamente el costo de la
// entrada. El resultado se redondea a 2 decimales con redondeo half-up
// (decimal.Round), no bankers.
func WeightedAverageCost(onHand, currentCost, qtyIn, unitCost decimal.Decimal) decimal.Decimal {
	if onHand.LessThanOrEqual(decimal.Zero) {
		return unitCost.Round(2)
	}
	sum := onHand.Add(qtyIn)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := onHand.Mul(currentCost).Add(qtyIn.Mul(unitCost))
	return num.Div(sum).Round(2)
}

// QuantityWeightedMean calcula el costo promedio ponderado por cantidad de
// una serie de entradas (qty, unitValue). Lo usa el worker de recálculo de
// costo sobre las últimas entradas confirmadas.
func QuantityWeightedMean(entries []WeightedEntry) decimal.Decimal {
	var totalQty, totalVal decimal.Decimal
	for _, e := range entries {
		totalQty = totalQty.Add(e.Qty)
		totalVal = totalVal.Add(e.Qty.Mul(e.UnitValue))
	}
	if totalQty.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return totalVal.Div(totalQty).Round(2)
}

// WeightedEntry es un par cantidad/costo de una entrada confirmada.
type WeightedEntry struct {
	Qty       decimal.Decimal
	UnitValue decimal.Decimal
}
