package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/erp-stock-api/internal/domain"
	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
)

// ForecastUseCase gestiona previsiones de movimiento y mantiene los agregados
// predicted_in / predicted_out del saldo. Cada transición de estado ajusta el
// agregado y persiste la previsión en una sola transacción.
type ForecastUseCase struct {
	tx TxRunner
}

// NewForecastUseCase construye el caso de uso.
func NewForecastUseCase(tx TxRunner) *ForecastUseCase {
	return &ForecastUseCase{tx: tx}
}

// CreateForecastInput entrada para crear una previsión.
type CreateForecastInput struct {
	ProductID         string
	LocationID        string
	Kind              string // ENTRY | EXIT | TRANSFER
	Origin            string
	Qty               decimal.Decimal
	ExpectedAt        time.Time
	ExpectedUnitValue *decimal.Decimal
	LocationFromID    *string
	LocationToID      *string
	Notes             string
	CreatedBy         string
}

// ForecastResult previsión resultante junto con el saldo actualizado.
type ForecastResult struct {
	Forecast *entity.Forecast
	Balance  *entity.StockBalance
}

// applyContribution suma (sign=+1) o retira (sign=-1) la contribución de la
// previsión a los agregados del saldo según su tipo.
func applyContribution(b *entity.StockBalance, f *entity.Forecast, sign int) {
	delta := f.Qty
	if sign < 0 {
		delta = delta.Neg()
	}
	switch f.Kind {
	case entity.ForecastKindEntry:
		b.PredictedIn = decimal.Max(decimal.Zero, b.PredictedIn.Add(delta))
	case entity.ForecastKindExit:
		b.PredictedOut = decimal.Max(decimal.Zero, b.PredictedOut.Add(delta))
	}
	// TRANSFER no contribuye a los agregados del saldo origen/destino:
	// la entrada y la salida previstas se modelan como dos Forecast.
}

// Create crea una previsión en PENDING y suma su contribución al saldo.
func (uc *ForecastUseCase) Create(ctx context.Context, schema string, in CreateForecastInput) (*ForecastResult, error) {
	if !in.Qty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	switch in.Kind {
	case entity.ForecastKindEntry, entity.ForecastKindExit, entity.ForecastKindTransfer:
	default:
		return nil, domain.ErrInvalidKind
	}
	if in.ExpectedAt.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()

	var result *ForecastResult
	err := uc.tx.Run(ctx, schema, func(r Repos) error {
		balance, err := r.Balances.GetForUpdate(ctx, in.ProductID, in.LocationID)
		if err != nil {
			return err
		}
		if balance == nil {
			return domain.ErrBalanceNotFound
		}

		fc := &entity.Forecast{
			ID:                uuid.New().String(),
			BalanceID:         balance.ID,
			Kind:              in.Kind,
			Origin:            in.Origin,
			Status:            entity.ForecastStatusPending,
			Qty:               in.Qty,
			ExpectedAt:        in.ExpectedAt,
			ExpectedUnitValue: in.ExpectedUnitValue,
			LocationFromID:    in.LocationFromID,
			LocationToID:      in.LocationToID,
			Notes:             in.Notes,
			CreatedBy:         in.CreatedBy,
			CreatedAt:         now,
			UpdatedAt:         now,
		}

		applyContribution(balance, fc, +1)
		balance.UpdatedAt = now
		balance.Recompute()
		if err := r.Balances.Save(ctx, balance); err != nil {
			return err
		}
		if err := r.Forecasts.Create(ctx, fc); err != nil {
			return err
		}
		result = &ForecastResult{Forecast: fc, Balance: balance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Confirm pasa una previsión PENDING a CONFIRMED. La contribución al saldo
// no cambia (PENDING y CONFIRMED contribuyen por igual).
func (uc *ForecastUseCase) Confirm(ctx context.Context, schema, forecastID string) (*ForecastResult, error) {
	return uc.transition(ctx, schema, forecastID, entity.ForecastStatusConfirmed, nil)
}

// Cancel pasa una previsión PENDING o CONFIRMED a CANCELLED y retira su
// contribución de los agregados.
func (uc *ForecastUseCase) Cancel(ctx context.Context, schema, forecastID string) (*ForecastResult, error) {
	return uc.transition(ctx, schema, forecastID, entity.ForecastStatusCancelled, nil)
}

// Realize marca la previsión como REALIZED, enlazada al movimiento que la
// materializó, y retira su contribución.
func (uc *ForecastUseCase) Realize(ctx context.Context, schema, forecastID, movementID string) (*ForecastResult, error) {
	return uc.transition(ctx, schema, forecastID, entity.ForecastStatusRealized, &movementID)
}

// transition ejecuta el cambio de estado ajustando agregados en una sola tx.
func (uc *ForecastUseCase) transition(ctx context.Context, schema, forecastID, target string, movementID *string) (*ForecastResult, error) {
	now := time.Now()

	var result *ForecastResult
	err := uc.tx.Run(ctx, schema, func(r Repos) error {
		fc, err := r.Forecasts.GetByID(ctx, forecastID)
		if err != nil {
			return err
		}
		if fc == nil {
			return domain.ErrNotFound
		}

		switch target {
		case entity.ForecastStatusConfirmed:
			if fc.Status != entity.ForecastStatusPending {
				return domain.ErrConflict
			}
		case entity.ForecastStatusCancelled, entity.ForecastStatusRealized:
			if !fc.Contributes() {
				return domain.ErrConflict
			}
		default:
			return domain.ErrInvalidKind
		}

		balance, err := r.Balances.GetByIDForUpdate(ctx, fc.BalanceID)
		if err != nil {
			return err
		}
		if balance == nil {
			return domain.ErrBalanceNotFound
		}

		contributedBefore := fc.Contributes()
		fc.Status = target
		fc.RealizingMovementID = movementID
		fc.UpdatedAt = now

		if contributedBefore && !fc.Contributes() {
			applyContribution(balance, fc, -1)
			balance.UpdatedAt = now
			balance.Recompute()
			if err := r.Balances.Save(ctx, balance); err != nil {
				return err
			}
		}
		if err := r.Forecasts.Update(ctx, fc); err != nil {
			return err
		}
		result = &ForecastResult{Forecast: fc, Balance: balance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
