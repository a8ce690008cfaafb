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

func newReservationUC(db *memDB) *stock.ReservationUseCase {
	return stock.NewReservationUseCase(&memTxRunner{db: db})
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

// Una reserva SOFT no toca el saldo al crearse: solo queda ACTIVE con
// expires_at. El stock recién se compromete al confirmar.
func TestReservationCreate_SoftNoTocaSaldo(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	seedBalance(db, "bal-1", testProductID, "loc-1", "100", "10.00")
	uc := newReservationUC(db)

	result, err := uc.Create(context.Background(), testSchema, stock.CreateReservationInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		CompanyID:  testCompanyID,
		Qty:        mustDec("20"),
		Kind:       entity.ReservationKindSoft,
	})
	require.NoError(t, err)

	res := result.Reservation
	assert.Equal(t, entity.ReservationStatusActive, res.Status)
	require.NotNil(t, res.ExpiresAt, "las reservas SOFT siempre expiran")
	assert.True(t, res.ExpiresAt.After(time.Now()))

	assert.True(t, result.Balance.Reserved.IsZero(), "SOFT no compromete stock")
	assert.True(t, mustDec("100").Equal(result.Balance.Available))
	assert.Empty(t, db.movements, "SOFT no genera movimiento al crearse")
}

// Una reserva HARD compromete stock de inmediato y deja el movimiento
// RESERVE de auditoría.
func TestReservationCreate_HardComprometeStock(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	seedBalance(db, "bal-1", testProductID, "loc-1", "100", "10.00")
	uc := newReservationUC(db)

	result, err := uc.Create(context.Background(), testSchema, stock.CreateReservationInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		CompanyID:  testCompanyID,
		Qty:        mustDec("20"),
		Kind:       entity.ReservationKindHard,
	})
	require.NoError(t, err)

	assert.Nil(t, result.Reservation.ExpiresAt, "HARD no expira sola")
	assert.True(t, mustDec("20").Equal(result.Balance.Reserved))
	assert.True(t, mustDec("80").Equal(result.Balance.Available))
	assert.True(t, mustDec("100").Equal(result.Balance.OnHand), "reservar no mueve on_hand")

	require.Len(t, db.movements, 1)
	assert.Equal(t, entity.MovementKindReserve, db.movements[0].Kind)
	assert.True(t, db.movements[0].QtyBefore.Equal(db.movements[0].QtyAfter))
}

// Con 100 en mano y 30 ya reservadas solo hay 70 disponibles: una HARD
// por 80 se rechaza.
func TestReservationCreate_HardSinDisponible(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	b := seedBalance(db, "bal-1", testProductID, "loc-1", "100", "10.00")
	b.Reserved = mustDec("30")
	b.Recompute()
	uc := newReservationUC(db)

	_, err := uc.Create(context.Background(), testSchema, stock.CreateReservationInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		CompanyID:  testCompanyID,
		Qty:        mustDec("80"),
		Kind:       entity.ReservationKindHard,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// Varias SOFT pueden coexistir aunque su suma exceda el disponible; el
// control recién aplica al confirmar.
func TestReservationCreate_SoftSobrevendible(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	seedBalance(db, "bal-1", testProductID, "loc-1", "50", "10.00")
	uc := newReservationUC(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := uc.Create(ctx, testSchema, stock.CreateReservationInput{
			ProductID:  testProductID,
			LocationID: "loc-1",
			CompanyID:  testCompanyID,
			Qty:        mustDec("40"),
			Kind:       entity.ReservationKindSoft,
		})
		require.NoError(t, err)
	}
	assert.Len(t, db.reservations, 3)
}

func TestReservationCreate_SinSaldo(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	uc := newReservationUC(db)

	_, err := uc.Create(context.Background(), testSchema, stock.CreateReservationInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		CompanyID:  testCompanyID,
		Qty:        mustDec("5"),
		Kind:       entity.ReservationKindSoft,
	})
	assert.ErrorIs(t, err, domain.ErrBalanceNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Confirm
// ──────────────────────────────────────────────────────────────────────────────

// Confirmar una SOFT revalida el disponible, compromete el stock y borra
// el expires_at: ya no puede expirar.
func TestReservationConfirm_SoftComprometeYNoExpira(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	seedBalance(db, "bal-1", testProductID, "loc-1", "100", "10.00")
	uc := newReservationUC(db)
	ctx := context.Background()

	created, err := uc.Create(ctx, testSchema, stock.CreateReservationInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		CompanyID:  testCompanyID,
		Qty:        mustDec("20"),
		Kind:       entity.ReservationKindSoft,
	})
	require.NoError(t, err)

	result, err := uc.Confirm(ctx, testSchema, created.Reservation.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.ReservationStatusConfirmed, result.Reservation.Status)
	assert.Nil(t, result.Reservation.ExpiresAt)
	require.NotNil(t, result.Reservation.ConfirmedAt)
	assert.True(t, mustDec("20").Equal(result.Balance.Reserved))
	assert.True(t, mustDec("80").Equal(result.Balance.Available))
}

// Si al confirmar la SOFT ya no hay disponible suficiente, falla sin
// tocar el saldo.
func TestReservationConfirm_SoftSinDisponible(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	seedBalance(db, "bal-1", testProductID, "loc-1", "50", "10.00")
	uc := newReservationUC(db)
	ctx := context.Background()

	created, err := uc.Create(ctx, testSchema, stock.CreateReservationInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		CompanyID:  testCompanyID,
		Qty:        mustDec("40"),
		Kind:       entity.ReservationKindSoft,
	})
	require.NoError(t, err)

	// Otro actor se lleva el stock antes de la confirmación.
	movUC := newMovementUC(db)
	_, err = movUC.ProcessExit(ctx, testSchema, stock.ExitInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		CompanyID:  testCompanyID,
		Qty:        mustDec("30"),
	})
	require.NoError(t, err)

	_, err = uc.Confirm(ctx, testSchema, created.Reservation.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, db.balances["bal-1"].Reserved.IsZero())
}

func TestReservationConfirm_SoloActivas(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	seedBalance(db, "bal-1", testProductID, "loc-1", "100", "10.00")
	uc := newReservationUC(db)
	ctx := context.Background()

	created, err := uc.Create(ctx, testSchema, stock.CreateReservationInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		CompanyID:  testCompanyID,
		Qty:        mustDec("10"),
		Kind:       entity.ReservationKindSoft,
	})
	require.NoError(t, err)

	_, err = uc.Cancel(ctx, testSchema, created.Reservation.ID, "cliente desistió")
	require.NoError(t, err)

	_, err = uc.Confirm(ctx, testSchema, created.Reservation.ID)
	assert.ErrorIs(t, err, domain.ErrReservationNotActive)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel
// ──────────────────────────────────────────────────────────────────────────────

// Cancelar una HARD libera el stock comprometido y deja el movimiento
// UNRESERVE de auditoría.
func TestReservationCancel_HardLiberaStock(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	seedBalance(db, "bal-1", testProductID, "loc-1", "100", "10.00")
	uc := newReservationUC(db)
	ctx := context.Background()

	created, err := uc.Create(ctx, testSchema, stock.CreateReservationInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		CompanyID:  testCompanyID,
		Qty:        mustDec("20"),
		Kind:       entity.ReservationKindHard,
	})
	require.NoError(t, err)

	result, err := uc.Cancel(ctx, testSchema, created.Reservation.ID, "pedido anulado")
	require.NoError(t, err)

	assert.Equal(t, entity.ReservationStatusCancelled, result.Reservation.Status)
	assert.Equal(t, "pedido anulado", result.Reservation.CancelReason)
	assert.True(t, result.Balance.Reserved.IsZero())
	assert.True(t, mustDec("100").Equal(result.Balance.Available))

	require.Len(t, db.movements, 2, "RESERVE al crear, UNRESERVE al cancelar")
	assert.Equal(t, entity.MovementKindUnreserve, db.movements[1].Kind)
}

// Cancelar una SOFT activa no tiene efecto sobre el saldo.
func TestReservationCancel_SoftSinEfectoEnSaldo(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	seedBalance(db, "bal-1", testProductID, "loc-1", "100", "10.00")
	uc := newReservationUC(db)
	ctx := context.Background()

	created, err := uc.Create(ctx, testSchema, stock.CreateReservationInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		CompanyID:  testCompanyID,
		Qty:        mustDec("20"),
		Kind:       entity.ReservationKindSoft,
	})
	require.NoError(t, err)

	result, err := uc.Cancel(ctx, testSchema, created.Reservation.ID, "")
	require.NoError(t, err)

	assert.Equal(t, entity.ReservationStatusCancelled, result.Reservation.Status)
	assert.True(t, result.Balance.Reserved.IsZero())
	assert.Empty(t, db.movements)
}

// ──────────────────────────────────────────────────────────────────────────────
// Expire
// ──────────────────────────────────────────────────────────────────────────────

// Expirar solo aplica a SOFT ACTIVE y nunca toca el saldo.
func TestReservationExpire_SoloSoftActivas(t *testing.T) {
	db := newMemDB()
	seedLocation(db, "loc-1", testCompanyID, nil)
	seedBalance(db, "bal-1", testProductID, "loc-1", "100", "10.00")
	uc := newReservationUC(db)
	ctx := context.Background()

	soft, err := uc.Create(ctx, testSchema, stock.CreateReservationInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		CompanyID:  testCompanyID,
		Qty:        mustDec("20"),
		Kind:       entity.ReservationKindSoft,
	})
	require.NoError(t, err)

	expired, err := uc.Expire(ctx, testSchema, soft.Reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReservationStatusExpired, expired.Status)
	assert.True(t, db.balances["bal-1"].Reserved.IsZero())

	// Una vez expirada no se puede volver a expirar ni confirmar.
	_, err = uc.Expire(ctx, testSchema, soft.Reservation.ID)
	assert.ErrorIs(t, err, domain.ErrReservationNotActive)

	hard, err := uc.Create(ctx, testSchema, stock.CreateReservationInput{
		ProductID:  testProductID,
		LocationID: "loc-1",
		CompanyID:  testCompanyID,
		Qty:        mustDec("10"),
		Kind:       entity.ReservationKindHard,
	})
	require.NoError(t, err)

	_, err = uc.Expire(ctx, testSchema, hard.Reservation.ID)
	assert.ErrorIs(t, err, domain.ErrReservationNotActive, "las HARD no expiran")
}
