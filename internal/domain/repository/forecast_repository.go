package repository

import (
	"context"

	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
)

// ForecastFilter filtros para listados de previsiones.
type ForecastFilter struct {
	BalanceID string
	Kind      string
	Status    string
	Limit     int
	Offset    int
}

// ForecastRepository define el puerto de persistencia para Forecast.
type ForecastRepository interface {
	Create(ctx context.Context, forecast *entity.Forecast) error
	GetByID(ctx context.Context, id string) (*entity.Forecast, error)
	Update(ctx context.Context, forecast *entity.Forecast) error
	List(ctx context.Context, filter ForecastFilter) ([]*entity.Forecast, error)
}
