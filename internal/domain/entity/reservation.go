package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de reserva. SOFT no bloquea stock y expira por deadline;
// HARD incrementa reserved y persiste hasta cancelarse.
const (
	ReservationKindSoft = "SOFT"
	ReservationKindHard = "HARD"
)

// Orígenes de una reserva.
const (
	ReservationOriginSale      = "SALE"
	ReservationOriginEcommerce = "ECOMMERCE"
	ReservationOriginOrder     = "ORDER"
	ReservationOriginQuote     = "QUOTE"
	ReservationOriginOther     = "OTHER"
)

// Estados de una reserva.
// ACTIVE -confirm-> CONFIRMED; ACTIVE -cancel-> CANCELLED;
// ACTIVE -expire-> EXPIRED (solo SOFT); CONFIRMED -cancel-> CANCELLED.
const (
	ReservationStatusActive    = "ACTIVE"
	ReservationStatusConfirmed = "CONFIRMED"
	ReservationStatusCancelled = "CANCELLED"
	ReservationStatusExpired   = "EXPIRED"
)

// Reservation es un reclamo de cantidad sobre un StockBalance.
// Invariante: si Kind == SOFT y Status == ACTIVE, ExpiresAt != nil.
type Reservation struct {
	ID           string
	BalanceID    string
	Kind         string // SOFT | HARD
	Origin       string
	Status       string
	Qty          decimal.Decimal // siempre > 0
	DocRef       string
	Notes        string
	CancelReason string
	ExpiresAt    *time.Time
	ConfirmedAt  *time.Time
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HoldsStock indica si la reserva contribuye actualmente a Reserved del saldo
// (HARD en estado ACTIVE o CONFIRMED).
func (r *Reservation) HoldsStock() bool {
	return r.Kind == ReservationKindHard &&
		(r.Status == ReservationStatusActive || r.Status == ReservationStatusConfirmed)
}
