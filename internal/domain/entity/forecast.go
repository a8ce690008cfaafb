package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de previsión.
const (
	ForecastKindEntry    = "ENTRY"
	ForecastKindExit     = "EXIT"
	ForecastKindTransfer = "TRANSFER"
)

// Estados de una previsión. PENDING y CONFIRMED contribuyen a los agregados
// predicted_in / predicted_out del saldo; CANCELLED y REALIZED no.
const (
	ForecastStatusPending   = "PENDING"
	ForecastStatusConfirmed = "CONFIRMED"
	ForecastStatusCancelled = "CANCELLED"
	ForecastStatusRealized  = "REALIZED"
)

// Forecast es un movimiento futuro previsto sobre un StockBalance.
type Forecast struct {
	ID                  string
	BalanceID           string
	Kind                string // ENTRY | EXIT | TRANSFER
	Origin              string
	Status              string
	Qty                 decimal.Decimal // siempre > 0
	ExpectedAt          time.Time
	ExpectedUnitValue   *decimal.Decimal
	LocationFromID      *string
	LocationToID        *string
	RealizingMovementID *string
	Notes               string
	CreatedBy           string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Contributes indica si la previsión suma a los agregados del saldo.
func (f *Forecast) Contributes() bool {
	return f.Status == ForecastStatusPending || f.Status == ForecastStatusConfirmed
}
