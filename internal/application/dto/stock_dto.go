package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
)

// boolOr resuelve un flag opcional del body: omitido (nil) vale def.
func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// EntryRequest body para POST /api/stock/entries.
// update_forecast es opt-out: omitido vale true.
type EntryRequest struct {
	ProductID      string          `json:"product_id"`
	LocationID     string          `json:"location_id"`
	CompanyID      string          `json:"company_id"`
	Qty            decimal.Decimal `json:"qty"`
	UnitValue      decimal.Decimal `json:"unit_value"`
	Origin         string          `json:"origin,omitempty"`
	DocRef         string          `json:"doc_ref,omitempty"`
	NFNumber       string          `json:"nf_number,omitempty"`
	NFSeries       string          `json:"nf_series,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	UpdateForecast *bool           `json:"update_forecast,omitempty"`
}

// ForecastEnabled devuelve el valor efectivo de update_forecast.
func (r EntryRequest) ForecastEnabled() bool { return boolOr(r.UpdateForecast, true) }

// ExitRequest body para POST /api/stock/exits.
// update_forecast y verify_min son opt-out: omitidos valen true.
type ExitRequest struct {
	ProductID      string          `json:"product_id"`
	LocationID     string          `json:"location_id"`
	CompanyID      string          `json:"company_id"`
	Qty            decimal.Decimal `json:"qty"`
	UnitValue      decimal.Decimal `json:"unit_value,omitempty"`
	Origin         string          `json:"origin,omitempty"`
	DocRef         string          `json:"doc_ref,omitempty"`
	NFNumber       string          `json:"nf_number,omitempty"`
	NFSeries       string          `json:"nf_series,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	UpdateForecast *bool           `json:"update_forecast,omitempty"`
	VerifyMin      *bool           `json:"verify_min,omitempty"`
}

// ForecastEnabled devuelve el valor efectivo de update_forecast.
func (r ExitRequest) ForecastEnabled() bool { return boolOr(r.UpdateForecast, true) }

// MinCheckEnabled devuelve el valor efectivo de verify_min.
func (r ExitRequest) MinCheckEnabled() bool { return boolOr(r.VerifyMin, true) }

// TransferRequest body para POST /api/stock/transfers.
type TransferRequest struct {
	ProductID      string           `json:"product_id"`
	FromLocationID string           `json:"from_location_id"`
	ToLocationID   string           `json:"to_location_id"`
	CompanyID      string           `json:"company_id"`
	Qty            decimal.Decimal  `json:"qty"`
	UnitValue      *decimal.Decimal `json:"unit_value,omitempty"` // nil = costo promedio del origen
	DocRef         string           `json:"doc_ref,omitempty"`
	Notes          string           `json:"notes,omitempty"`
}

// ReverseRequest body para POST /api/stock/movements/:id/reverse.
type ReverseRequest struct {
	Reason string `json:"reason"`
}

// BalanceResponse representación pública de un saldo.
type BalanceResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	LocationID      string          `json:"location_id"`
	CompanyID       string          `json:"company_id"`
	OnHand          decimal.Decimal `json:"on_hand"`
	Reserved        decimal.Decimal `json:"reserved"`
	Available       decimal.Decimal `json:"available"`
	PredictedIn     decimal.Decimal `json:"predicted_in"`
	PredictedOut    decimal.Decimal `json:"predicted_out"`
	WeightedAvgCost decimal.Decimal `json:"weighted_avg_cost"`
	TotalValue      decimal.Decimal `json:"total_value"`
	MinLevel        decimal.Decimal `json:"min_level"`
	MaxLevel        decimal.Decimal `json:"max_level"`
	InternalSlot    string          `json:"internal_slot,omitempty"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToBalanceResponse mapea el saldo de dominio a su representación pública.
func ToBalanceResponse(b *entity.StockBalance) BalanceResponse {
	return BalanceResponse{
		ID:              b.ID,
		ProductID:       b.ProductID,
		LocationID:      b.LocationID,
		CompanyID:       b.CompanyID,
		OnHand:          b.OnHand,
		Reserved:        b.Reserved,
		Available:       b.Available,
		PredictedIn:     b.PredictedIn,
		PredictedOut:    b.PredictedOut,
		WeightedAvgCost: b.WeightedAvgCost,
		TotalValue:      b.TotalValue,
		MinLevel:        b.MinLevel,
		MaxLevel:        b.MaxLevel,
		InternalSlot:    b.InternalSlot,
		UpdatedAt:       b.UpdatedAt,
	}
}

// MovementResponse representación pública de un movimiento.
type MovementResponse struct {
	ID                 string          `json:"id"`
	BalanceID          string          `json:"balance_id"`
	Kind               string          `json:"kind"`
	Origin             string          `json:"origin"`
	Status             string          `json:"status"`
	Qty                decimal.Decimal `json:"qty"`
	QtyBefore          decimal.Decimal `json:"qty_before"`
	QtyAfter           decimal.Decimal `json:"qty_after"`
	UnitValue          decimal.Decimal `json:"unit_value"`
	TotalValue         decimal.Decimal `json:"total_value"`
	LocationFromID     *string         `json:"location_from_id,omitempty"`
	LocationToID       *string         `json:"location_to_id,omitempty"`
	DocRef             string          `json:"doc_ref,omitempty"`
	NFNumber           string          `json:"nf_number,omitempty"`
	NFSeries           string          `json:"nf_series,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	OriginalMovementID *string         `json:"original_movement_id,omitempty"`
	ReversalReason     string          `json:"reversal_reason,omitempty"`
	CreatedBy          string          `json:"created_by,omitempty"`
	OccurredAt         time.Time       `json:"occurred_at"`
}

// ToMovementResponse mapea el movimiento de dominio a su representación pública.
func ToMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:                 m.ID,
		BalanceID:          m.BalanceID,
		Kind:               m.Kind,
		Origin:             m.Origin,
		Status:             m.Status,
		Qty:                m.Qty,
		QtyBefore:          m.QtyBefore,
		QtyAfter:           m.QtyAfter,
		UnitValue:          m.UnitValue,
		TotalValue:         m.TotalValue,
		LocationFromID:     m.LocationFromID,
		LocationToID:       m.LocationToID,
		DocRef:             m.DocRef,
		NFNumber:           m.NFNumber,
		NFSeries:           m.NFSeries,
		Notes:              m.Notes,
		OriginalMovementID: m.OriginalMovementID,
		ReversalReason:     m.ReversalReason,
		CreatedBy:          m.CreatedBy,
		OccurredAt:         m.OccurredAt,
	}
}

// ToMovementResponses mapea una lista de movimientos.
func ToMovementResponses(list []*entity.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToMovementResponse(m))
	}
	return out
}

// ToBalanceResponses mapea una lista de saldos.
func ToBalanceResponses(list []*entity.StockBalance) []BalanceResponse {
	out := make([]BalanceResponse, 0, len(list))
	for _, b := range list {
		out = append(out, ToBalanceResponse(b))
	}
	return out
}

// MinAlertResponse alerta de stock mínimo adjunta a una salida.
type MinAlertResponse struct {
	Current decimal.Decimal `json:"current"`
	Min     decimal.Decimal `json:"min"`
	Delta   decimal.Decimal `json:"delta"`
}

// EntryResponse respuesta de una entrada procesada.
type EntryResponse struct {
	Balance  BalanceResponse  `json:"balance"`
	Movement MovementResponse `json:"movement"`
	PrevCost decimal.Decimal  `json:"prev_cost"`
	NewCost  decimal.Decimal  `json:"new_cost"`
}

// ExitResponse respuesta de una salida procesada.
type ExitResponse struct {
	Balance  BalanceResponse   `json:"balance"`
	Movement MovementResponse  `json:"movement"`
	MinAlert *MinAlertResponse `json:"min_alert,omitempty"`
}

// TransferResponse respuesta de un traslado procesado.
type TransferResponse struct {
	FromBalance   BalanceResponse  `json:"from_balance"`
	ToBalance     BalanceResponse  `json:"to_balance"`
	ExitMovement  MovementResponse `json:"exit_movement"`
	EntryMovement MovementResponse `json:"entry_movement"`
}

// ConsolidatedResponse vista consolidada de un producto sobre un grupo de sucursales.
type ConsolidatedResponse struct {
	GroupID       string          `json:"group_id"`
	ProductID     string          `json:"product_id"`
	OnHand        decimal.Decimal `json:"on_hand"`
	Reserved      decimal.Decimal `json:"reserved"`
	Available     decimal.Decimal `json:"available"`
	PredictedIn   decimal.Decimal `json:"predicted_in"`
	PredictedOut  decimal.Decimal `json:"predicted_out"`
	TotalValue    decimal.Decimal `json:"total_value"`
	LocationCount int             `json:"location_count"`
}

// ChooseBranchRequest body para POST /api/stock/groups/:id/choose-branch.
type ChooseBranchRequest struct {
	ProductID      string          `json:"product_id"`
	Qty            decimal.Decimal `json:"qty"`
	OriginBranchID string          `json:"origin_branch_id,omitempty"`
}

// ChooseBranchResponse sucursal elegida para despachar.
type ChooseBranchResponse struct {
	Found      bool            `json:"found"`
	BranchID   string          `json:"branch_id,omitempty"`
	LocationID string          `json:"location_id,omitempty"`
	Available  decimal.Decimal `json:"available"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
}
