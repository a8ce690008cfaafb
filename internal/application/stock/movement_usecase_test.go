package stock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-stock-api/internal/application/stock"
	"github.com/jhoicas/erp-stock-api/internal/domain"
	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
)

func newMovementUC(db *memDB) *stock.MovementUseCase {
	return stock.NewMovementUseCase(&memTxRunner{db: db})
}

// ──────────────────────────────────────────────────────────────────────────────
// ProcessEntry
// ──────────────────────────────────────────────────────────────────────────────

// Dos entradas de 50 unidades a 10.00 y 11.00 dejan el costo promedio
// ponderado exactamente en 10.50.
func TestProcessEntry_CostoPromedioPonderado(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	uc := newMovementUC(db)
	ctx := context.Background()

	first, err := uc.ProcessEntry(ctx, testSchema, stock.EntryInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		CompanyID:  testCompanyID,
		Qty:        mustDec("50"),
		UnitValue:  mustDec("10.00"),
	})
	require.NoError(t, err)
	assert.True(t, mustDec("10.00").Equal(first.NewCost))

	second, err := uc.ProcessEntry(ctx, testSchema, stock.EntryInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		CompanyID:  testCompanyID,
		Qty:        mustDec("50"),
		UnitValue:  mustDec("11.00"),
	})
	require.NoError(t, err)

	assert.True(t, mustDec("10.00").Equal(second.PrevCost), "prev_cost debe ser el costo anterior")
	assert.True(t, mustDec("10.50").Equal(second.NewCost), "esperado 10.50, obtenido %s", second.NewCost)
	assert.True(t, mustDec("100").Equal(second.Balance.OnHand))
	assert.True(t, mustDec("1050.00").Equal(second.Balance.TotalValue))
}

// La primera entrada crea el saldo si no existe y escribe el movimiento
// ENTRY CONFIRMED con before/after.
func TestProcessEntry_CreaSaldoYMovimiento(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	uc := newMovementUC(db)

	result, err := uc.ProcessEntry(context.Background(), testSchema, stock.EntryInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		CompanyID:  testCompanyID,
		Qty:        mustDec("25"),
		UnitValue:  mustDec("4.00"),
		DocRef:     "OC-100",
		CreatedBy:  "user-1",
	})
	require.NoError(t, err)

	assert.True(t, mustDec("25").Equal(result.Balance.OnHand))
	assert.True(t, mustDec("25").Equal(result.Balance.Available))

	mov := result.Movement
	assert.Equal(t, entity.MovementKindEntry, mov.Kind)
	assert.Equal(t, entity.MovementStatusConfirmed, mov.Status)
	assert.True(t, mov.QtyBefore.IsZero())
	assert.True(t, mustDec("25").Equal(mov.QtyAfter))
	assert.Equal(t, "OC-100", mov.DocRef)
	assert.Len(t, db.movements, 1)
}

func TestProcessEntry_CantidadInvalida(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	uc := newMovementUC(db)

	_, err := uc.ProcessEntry(context.Background(), testSchema, stock.EntryInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		CompanyID:  testCompanyID,
		Qty:        mustDec("0"),
		UnitValue:  mustDec("10.00"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

// Una ubicación que no admite entradas rechaza la operación.
func TestProcessEntry_UbicacionSinEntradas(t *testing.T) {
	db := newMemDB()
	loc := seedLocation(db, "loc-1", testCompanyID, nil)
	loc.AllowsInbound = false
	uc := newMovementUC(db)

	_, err := uc.ProcessEntry(context.Background(), testSchema, stock.EntryInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		CompanyID:  testCompanyID,
		Qty:        mustDec("10"),
		UnitValue:  mustDec("1.00"),
	})
	assert.ErrorIs(t, err, domain.ErrInboundForbidden)
}

// La ubicación debe pertenecer a la empresa de la operación.
func TestProcessEntry_EmpresaEquivocada(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", "otra-empresa", nil)
	uc := newMovementUC(db)

	_, err := uc.ProcessEntry(context.Background(), testSchema, stock.EntryInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		CompanyID:  testCompanyID,
		Qty:        mustDec("10"),
		UnitValue:  mustDec("1.00"),
	})
	assert.ErrorIs(t, err, domain.ErrCompanyMismatch)
}

// ──────────────────────────────────────────────────────────────────────────────
// ProcessExit
// ──────────────────────────────────────────────────────────────────────────────

// Una salida que deja el saldo bajo el mínimo se procesa igual, pero con
// VerifyMin devuelve la alerta: current 70, min 80, delta -10.
func TestProcessExit_AlertaBajoMinimo(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	b := seedBalance(db, "bal-1", testProductID, "loc-1", "100", "10.00")
	b.MinLevel = mustDec("80")
	uc := newMovementUC(db)

	result, err := uc.ProcessExit(context.Background(), testSchema, stock.ExitInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		CompanyID:  testCompanyID,
		Qty:        mustDec("30"),
		VerifyMin:  true,
	})
	require.NoError(t, err)

	assert.True(t, mustDec("70").Equal(result.Balance.OnHand))
	require.NotNil(t, result.MinAlert, "la salida bajo mínimo debe traer alerta")
	assert.True(t, mustDec("70").Equal(result.MinAlert.Current))
	assert.True(t, mustDec("80").Equal(result.MinAlert.Min))
	assert.True(t, mustDec("-10").Equal(result.MinAlert.Delta))
}

// La salida respeta las reservas: available = on_hand - reserved.
func TestProcessExit_RespetaReservas(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	b := seedBalance(db, "bal-1", testProductID, "loc-1", "100", "10.00")
	b.Reserved = mustDec("30")
	b.Recompute()
	uc := newMovementUC(db)

	_, err := uc.ProcessExit(context.Background(), testSchema, stock.ExitInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		CompanyID:  testCompanyID,
		Qty:        mustDec("80"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock,
		"con 30 reservadas solo hay 70 disponibles")
}

func TestProcessExit_SinSaldo(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	uc := newMovementUC(db)

	_, err := uc.ProcessExit(context.Background(), testSchema, stock.ExitInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		CompanyID:  testCompanyID,
		Qty:        mustDec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrBalanceNotFound)
}

// Sin UnitValue explícito la salida se valoriza al costo promedio vigente.
func TestProcessExit_ValorizaAlCostoPromedio(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	seedBalance(db, "bal-1", testProductID, "loc-1", "100", "10.50")
	uc := newMovementUC(db)

	result, err := uc.ProcessExit(context.Background(), testSchema, stock.ExitInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		CompanyID:  testCompanyID,
		Qty:        mustDec("10"),
	})
	require.NoError(t, err)
	assert.True(t, mustDec("10.50").Equal(result.Movement.UnitValue))
	assert.True(t, mustDec("105.00").Equal(result.Movement.TotalValue))
}

// ──────────────────────────────────────────────────────────────────────────────
// ProcessTransfer
// ──────────────────────────────────────────────────────────────────────────────

// El traslado resta en origen, suma en destino y escribe el par EXIT/ENTRY
// con el mismo doc_ref en una sola operación.
func TestProcessTransfer_ParDeMovimientos(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-a", testCompanyID, nil)
	seedLocation(db, "loc-b", testCompanyID, nil)
	seedBalance(db, "bal-a", testProductID, "loc-a", "100", "10.00")
	uc := newMovementUC(db)

	result, err := uc.ProcessTransfer(context.Background(), testSchema, stock.TransferInput{
		ProductID:      testProductID,
		FromLocationID: "loc-a",
		ToLocationID:   "loc-b",
		CompanyID:      testCompanyID,
		Qty:            mustDec("40"),
		DocRef:         "TR-7",
	})
	require.NoError(t, err)

	assert.True(t, mustDec("60").Equal(result.FromBalance.OnHand))
	assert.True(t, mustDec("40").Equal(result.ToBalance.OnHand))
	assert.True(t, mustDec("10.00").Equal(result.ToBalance.WeightedAvgCost),
		"el destino hereda el costo promedio del origen")

	assert.Equal(t, entity.MovementKindExit, result.ExitMovement.Kind)
	assert.Equal(t, entity.MovementKindEntry, result.EntryMovement.Kind)
	assert.Equal(t, "TR-7", result.ExitMovement.DocRef)
	assert.Equal(t, result.ExitMovement.DocRef, result.EntryMovement.DocRef,
		"ambas piernas comparten doc_ref")
	assert.Len(t, db.movements, 2)
}

func TestProcessTransfer_MismaUbicacion(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-a", testCompanyID, nil)
	uc := newMovementUC(db)

	_, err := uc.ProcessTransfer(context.Background(), testSchema, stock.TransferInput{
		ProductID:      testProductID,
		FromLocationID: "loc-a",
		ToLocationID:   "loc-a",
		CompanyID:      testCompanyID,
		Qty:            mustDec("5"),
	})
	assert.ErrorIs(t, err, domain.ErrSameLocationTransfer)
}

func TestProcessTransfer_SinStockSuficiente(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-a", testCompanyID, nil)
	seedLocation(db, "loc-b", testCompanyID, nil)
	seedBalance(db, "bal-a", testProductID, "loc-a", "10", "10.00")
	uc := newMovementUC(db)

	_, err := uc.ProcessTransfer(context.Background(), testSchema, stock.TransferInput{
		ProductID:      testProductID,
		FromLocationID: "loc-a",
		ToLocationID:   "loc-b",
		CompanyID:      testCompanyID,
		Qty:            mustDec("40"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reverse
// ──────────────────────────────────────────────────────────────────────────────

// Revertir una entrada deja el saldo como estaba y enlaza el movimiento
// inverso con el original.
func TestReverse_EntradaRestauraSaldo(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	uc := newMovementUC(db)
	ctx := context.Background()

	entry, err := uc.ProcessEntry(ctx, testSchema, stock.EntryInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		CompanyID:  testCompanyID,
		Qty:        mustDec("50"),
		UnitValue:  mustDec("10.00"),
	})
	require.NoError(t, err)

	result, err := uc.Reverse(ctx, testSchema, entry.Movement.ID, "factura anulada", "user-1")
	require.NoError(t, err)

	assert.True(t, result.Balance.OnHand.IsZero(), "el reverso de la entrada vacía el saldo")
	assert.Equal(t, entity.MovementKindExit, result.Movement.Kind)
	require.NotNil(t, result.Movement.OriginalMovementID)
	assert.Equal(t, entry.Movement.ID, *result.Movement.OriginalMovementID)

	orig, err := db.repos().Movements.GetByID(ctx, entry.Movement.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusReversed, orig.Status)
}

// Reversar dos veces el mismo movimiento falla la segunda vez.
func TestReverse_DobleReversoFalla(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	uc := newMovementUC(db)
	ctx := context.Background()

	entry, err := uc.ProcessEntry(ctx, testSchema, stock.EntryInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		CompanyID:  testCompanyID,
		Qty:        mustDec("50"),
		UnitValue:  mustDec("10.00"),
	})
	require.NoError(t, err)

	_, err = uc.Reverse(ctx, testSchema, entry.Movement.ID, "primera", "user-1")
	require.NoError(t, err)

	_, err = uc.Reverse(ctx, testSchema, entry.Movement.ID, "segunda", "user-1")
	assert.ErrorIs(t, err, domain.ErrAlreadyReversed)
}
