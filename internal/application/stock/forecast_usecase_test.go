package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-stock-api/internal/application/stock"
	"github.com/jhoicas/erp-stock-api/internal/domain"
	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
)

func newForecastUC(db *memDB) *stock.ForecastUseCase {
	return stock.NewForecastUseCase(&memTxRunner{db: db})
}

func forecastInput(kind string) stock.CreateForecastInput {
	return stock.CreateForecastInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		Kind:       kind,
		Qty:        mustDec("30"),
		ExpectedAt: time.Now().Add(48 * time.Hour),
	}
}

// Crear una previsión ENTRY suma predicted_in; EXIT suma predicted_out.
// On hand y available no cambian: las previsiones son informativas.
func TestForecastCreate_SumaAgregados(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	seedBalance(db, "bal-1", testProductID, "loc-1", "100", "10.00")
	uc := newForecastUC(db)
	ctx := context.Background()

	in, err := uc.Create(ctx, testSchema, forecastInput(entity.ForecastKindEntry))
	require.NoError(t, err)
	assert.Equal(t, entity.ForecastStatusPending, in.Forecast.Status)
	assert.True(t, mustDec("30").Equal(in.Balance.PredictedIn))

	out, err := uc.Create(ctx, testSchema, forecastInput(entity.ForecastKindExit))
	require.NoError(t, err)
	assert.True(t, mustDec("30").Equal(out.Balance.PredictedOut))

	b := db.balances["bal-1"]
	assert.True(t, mustDec("100").Equal(b.OnHand))
	assert.True(t, mustDec("100").Equal(b.Available))
}

// Las previsiones exigen un saldo existente: sin saldo no hay dónde
// acumular los agregados.
func TestForecastCreate_SinSaldo(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	uc := newForecastUC(db)

	_, err := uc.Create(context.Background(), testSchema, forecastInput(entity.ForecastKindEntry))
	assert.ErrorIs(t, err, domain.ErrBalanceNotFound)
}

func TestForecastCreate_Invalida(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	seedBalance(db, "bal-1", testProductID, "loc-1", "100", "10.00")
	uc := newForecastUC(db)
	ctx := context.Background()

	bad := forecastInput(entity.ForecastKindEntry)
	bad.Qty = mustDec("0")
	_, err := uc.Create(ctx, testSchema, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	bad = forecastInput("RUMOR")
	_, err = uc.Create(ctx, testSchema, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidKind)

	bad = forecastInput(entity.ForecastKindEntry)
	bad.ExpectedAt = time.Time{}
	_, err = uc.Create(ctx, testSchema, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Confirmar no cambia la contribución: PENDING y CONFIRMED pesan igual.
func TestForecastConfirm_MantieneContribucion(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	seedBalance(db, "bal-1", testProductID, "loc-1", "100", "10.00")
	uc := newForecastUC(db)
	ctx := context.Background()

	created, err := uc.Create(ctx, testSchema, forecastInput(entity.ForecastKindEntry))
	require.NoError(t, err)

	result, err := uc.Confirm(ctx, testSchema, created.Forecast.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ForecastStatusConfirmed, result.Forecast.Status)
	assert.True(t, mustDec("30").Equal(result.Balance.PredictedIn))

	// Confirmar dos veces no es una transición válida.
	_, err = uc.Confirm(ctx, testSchema, created.Forecast.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// Cancelar retira la contribución de los agregados.
func TestForecastCancel_RetiraContribucion(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	seedBalance(db, "bal-1", testProductID, "loc-1", "100", "10.00")
	uc := newForecastUC(db)
	ctx := context.Background()

	created, err := uc.Create(ctx, testSchema, forecastInput(entity.ForecastKindExit))
	require.NoError(t, err)

	result, err := uc.Cancel(ctx, testSchema, created.Forecast.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ForecastStatusCancelled, result.Forecast.Status)
	assert.True(t, result.Balance.PredictedOut.IsZero())

	_, err = uc.Cancel(ctx, testSchema, created.Forecast.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "una cancelada ya no contribuye")
}

// Realizar enlaza el movimiento que materializó la previsión y retira la
// contribución (el stock real ya la refleja).
func TestForecastRealize_EnlazaMovimiento(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	seedBalance(db, "bal-1", testProductID, "loc-1", "100", "10.00")
	fcUC := newForecastUC(db)
	movUC := newMovementUC(db)
	ctx := context.Background()

	created, err := fcUC.Create(ctx, testSchema, forecastInput(entity.ForecastKindEntry))
	require.NoError(t, err)

	entry, err := movUC.ProcessEntry(ctx, testSchema, stock.EntryInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		CompanyID:  testCompanyID,
		Qty:        mustDec("30"),
		UnitValue:  mustDec("10.00"),
	})
	require.NoError(t, err)

	result, err := fcUC.Realize(ctx, testSchema, created.Forecast.ID, entry.Movement.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.ForecastStatusRealized, result.Forecast.Status)
	require.NotNil(t, result.Forecast.RealizingMovementID)
	assert.Equal(t, entry.Movement.ID, *result.Forecast.RealizingMovementID)
	assert.True(t, result.Balance.PredictedIn.IsZero())
	assert.True(t, mustDec("130").Equal(result.Balance.OnHand))
}
