package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
)

// CreateReservationRequest body para POST /api/stock/reservations.
type CreateReservationRequest struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	CompanyID  string          `json:"company_id"`
	Qty        decimal.Decimal `json:"qty"`
	Kind       string          `json:"kind"` // SOFT | HARD
	Origin     string          `json:"origin,omitempty"`
	DocRef     string          `json:"doc_ref,omitempty"`
	TTLMinutes int             `json:"ttl_minutes,omitempty"` // solo SOFT
	Notes      string          `json:"notes,omitempty"`
}

// CancelReservationRequest body para POST /api/stock/reservations/:id/cancel.
type CancelReservationRequest struct {
	Reason string `json:"reason,omitempty"`
}

// ReservationResponse representación pública de una reserva.
type ReservationResponse struct {
	ID           string          `json:"id"`
	BalanceID    string          `json:"balance_id"`
	Kind         string          `json:"kind"`
	Origin       string          `json:"origin"`
	Status       string          `json:"status"`
	Qty          decimal.Decimal `json:"qty"`
	DocRef       string          `json:"doc_ref,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	CancelReason string          `json:"cancel_reason,omitempty"`
	ExpiresAt    *time.Time      `json:"expires_at,omitempty"`
	ConfirmedAt  *time.Time      `json:"confirmed_at,omitempty"`
	CreatedBy    string          `json:"created_by,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToReservationResponse mapea la reserva de dominio a su representación pública.
func ToReservationResponse(r *entity.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:           r.ID,
		BalanceID:    r.BalanceID,
		Kind:         r.Kind,
		Origin:       r.Origin,
		Status:       r.Status,
		Qty:          r.Qty,
		DocRef:       r.DocRef,
		Notes:        r.Notes,
		CancelReason: r.CancelReason,
		ExpiresAt:    r.ExpiresAt,
		ConfirmedAt:  r.ConfirmedAt,
		CreatedBy:    r.CreatedBy,
		CreatedAt:    r.CreatedAt,
	}
}

// ToReservationResponses mapea una lista de reservas.
func ToReservationResponses(list []*entity.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(list))
	for _, r := range list {
		out = append(out, ToReservationResponse(r))
	}
	return out
}

// ReservationResultResponse reserva más el saldo tras la operación.
type ReservationResultResponse struct {
	Reservation ReservationResponse `json:"reservation"`
	Balance     BalanceResponse     `json:"balance"`
}
