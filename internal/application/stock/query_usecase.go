package stock

import (
	"context"

	"github.com/jhoicas/erp-stock-api/internal/domain"
	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
	"github.com/jhoicas/erp-stock-api/internal/domain/repository"
)

// QueryUseCase lecturas del motor de stock (saldos, movimientos, reservas,
// previsiones). No abre transacciones: los derivados vienen del store.
type QueryUseCase struct {
	tx TxRunner
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(tx TxRunner) *QueryUseCase {
	return &QueryUseCase{tx: tx}
}

// ListBalances lista saldos con filtros por empresa/ubicación/producto.
func (uc *QueryUseCase) ListBalances(ctx context.Context, schema string, filter repository.BalanceFilter) ([]*entity.StockBalance, error) {
	var list []*entity.StockBalance
	err := uc.tx.RunRead(ctx, schema, func(r Repos) error {
		var err error
		list, err = r.Balances.List(ctx, filter)
		return err
	})
	return list, err
}

// GetBalance devuelve el saldo de un producto en una ubicación.
func (uc *QueryUseCase) GetBalance(ctx context.Context, schema, productID, locationID string) (*entity.StockBalance, error) {
	var balance *entity.StockBalance
	err := uc.tx.RunRead(ctx, schema, func(r Repos) error {
		var err error
		balance, err = r.Balances.Get(ctx, productID, locationID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if balance == nil {
		return nil, domain.ErrBalanceNotFound
	}
	return balance, nil
}

// ListMovements lista movimientos con filtros (solo lectura, append-only).
func (uc *QueryUseCase) ListMovements(ctx context.Context, schema string, filter repository.MovementFilter) ([]*entity.Movement, error) {
	var list []*entity.Movement
	err := uc.tx.RunRead(ctx, schema, func(r Repos) error {
		var err error
		list, err = r.Movements.List(ctx, filter)
		return err
	})
	return list, err
}

// ListReservations lista reservas con filtros.
func (uc *QueryUseCase) ListReservations(ctx context.Context, schema string, filter repository.ReservationFilter) ([]*entity.Reservation, error) {
	var list []*entity.Reservation
	err := uc.tx.RunRead(ctx, schema, func(r Repos) error {
		var err error
		list, err = r.Reservations.List(ctx, filter)
		return err
	})
	return list, err
}

// ListForecasts lista previsiones con filtros.
func (uc *QueryUseCase) ListForecasts(ctx context.Context, schema string, filter repository.ForecastFilter) ([]*entity.Forecast, error) {
	var list []*entity.Forecast
	err := uc.tx.RunRead(ctx, schema, func(r Repos) error {
		var err error
		list, err = r.Forecasts.List(ctx, filter)
		return err
	})
	return list, err
}
