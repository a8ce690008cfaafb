package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
)

// CreateForecastRequest body para POST /api/stock/forecasts.
type CreateForecastRequest struct {
	ProductID         string           `json:"product_id"`
	LocationID        string           `json:"location_id"`
	Kind              string           `json:"kind"` // ENTRY | EXIT | TRANSFER
	Origin            string           `json:"origin,omitempty"`
	Qty               decimal.Decimal  `json:"qty"`
	ExpectedAt        time.Time        `json:"expected_at"`
	ExpectedUnitValue *decimal.Decimal `json:"expected_unit_value,omitempty"`
	LocationFromID    *string          `json:"location_from_id,omitempty"`
	LocationToID      *string          `json:"location_to_id,omitempty"`
	Notes             string           `json:"notes,omitempty"`
}

// RealizeForecastRequest body para POST /api/stock/forecasts/:id/realize.
type RealizeForecastRequest struct {
	MovementID string `json:"movement_id,omitempty"`
}

// ForecastResponse representación pública de una previsión.
type ForecastResponse struct {
	ID                  string           `json:"id"`
	BalanceID           string           `json:"balance_id"`
	Kind                string           `json:"kind"`
	Origin              string           `json:"origin,omitempty"`
	Status              string           `json:"status"`
	Qty                 decimal.Decimal  `json:"qty"`
	ExpectedAt          time.Time        `json:"expected_at"`
	ExpectedUnitValue   *decimal.Decimal `json:"expected_unit_value,omitempty"`
	LocationFromID      *string          `json:"location_from_id,omitempty"`
	LocationToID        *string          `json:"location_to_id,omitempty"`
	RealizingMovementID *string          `json:"realizing_movement_id,omitempty"`
	Notes               string           `json:"notes,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
}

// ToForecastResponse mapea la previsión de dominio a su representación pública.
func ToForecastResponse(f *entity.Forecast) ForecastResponse {
	return ForecastResponse{
		ID:                  f.ID,
		BalanceID:           f.BalanceID,
		Kind:                f.Kind,
		Origin:              f.Origin,
		Status:              f.Status,
		Qty:                 f.Qty,
		ExpectedAt:          f.ExpectedAt,
		ExpectedUnitValue:   f.ExpectedUnitValue,
		LocationFromID:      f.LocationFromID,
		LocationToID:        f.LocationToID,
		RealizingMovementID: f.RealizingMovementID,
		Notes:               f.Notes,
		CreatedAt:           f.CreatedAt,
	}
}

// ToForecastResponses mapea una lista de previsiones.
func ToForecastResponses(list []*entity.Forecast) []ForecastResponse {
	out := make([]ForecastResponse, 0, len(list))
	for _, f := range list {
		out = append(out, ToForecastResponse(f))
	}
	return out
}
