package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/erp-stock-api/internal/domain"
	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
)

// DefaultSoftTTLMinutes es el TTL por defecto de una reserva SOFT.
const DefaultSoftTTLMinutes = 30

// ReservationUseCase gestiona el ciclo de vida de reservas SOFT/HARD.
// Crear, confirmar y cancelar bloquean el saldo (SELECT FOR UPDATE) para que
// la verificación available >= qty y la actualización de reserved sean
// atómicas respecto a otros escritores.
type ReservationUseCase struct {
	tx TxRunner
}

// NewReservationUseCase construye el caso de uso.
func NewReservationUseCase(tx TxRunner) *ReservationUseCase {
	return &ReservationUseCase{tx: tx}
}

// CreateReservationInput entrada para crear una reserva.
type CreateReservationInput struct {
	ProductID  string
	LocationID string
	CompanyID  string
	Qty        decimal.Decimal
	Kind       string // SOFT | HARD
	Origin     string
	DocRef     string
	TTLMinutes int // solo SOFT; 0 = DefaultSoftTTLMinutes
	Notes      string
	CreatedBy  string
}

// ReservationResult reserva resultante junto con el saldo tras la operación.
type ReservationResult struct {
	Reservation *entity.Reservation
	Balance     *entity.StockBalance
}

// reserveMovement escribe el movimiento de auditoría RESERVE/UNRESERVE.
// No cambia on_hand: qty_before == qty_after mantiene la cadena de movimientos.
func reserveMovement(ctx context.Context, r Repos, b *entity.StockBalance, kind, origin string, qty decimal.Decimal, docRef, createdBy string, now time.Time) error {
	mov := &entity.Movement{
		ID:         uuid.New().String(),
		BalanceID:  b.ID,
		Kind:       kind,
		Origin:     origin,
		Status:     entity.MovementStatusConfirmed,
		Qty:        qty,
		QtyBefore:  b.OnHand,
		QtyAfter:   b.OnHand,
		UnitValue:  b.WeightedAvgCost,
		TotalValue: qty.Mul(b.WeightedAvgCost).Round(2),
		DocRef:     docRef,
		CreatedBy:  createdBy,
		OccurredAt: now,
		CreatedAt:  now,
	}
	return r.Movements.Create(ctx, mov)
}

// Create crea una reserva. SOFT no toca reserved y recibe expires_at
// (varias SOFT pueden coexistir aunque su suma exceda available).
// HARD exige available >= qty y aumenta reserved en la misma transacción.
func (uc *ReservationUseCase) Create(ctx context.Context, schema string, in CreateReservationInput) (*ReservationResult, error) {
	if !in.Qty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if in.Kind != entity.ReservationKindSoft && in.Kind != entity.ReservationKindHard {
		return nil, domain.ErrInvalidKind
	}
	if in.Origin == "" {
		in.Origin = entity.ReservationOriginOther
	}
	now := time.Now()

	var result *ReservationResult
	err := uc.tx.Run(ctx, schema, func(r Repos) error {
		balance, err := r.Balances.GetForUpdate(ctx, in.ProductID, in.LocationID)
		if err != nil {
			return err
		}
		if balance == nil {
			return domain.ErrBalanceNotFound
		}

		res := &entity.Reservation{
			ID:        uuid.New().String(),
			BalanceID: balance.ID,
			Kind:      in.Kind,
			Origin:    in.Origin,
			Status:    entity.ReservationStatusActive,
			Qty:       in.Qty,
			DocRef:    in.DocRef,
			Notes:     in.Notes,
			CreatedBy: in.CreatedBy,
			CreatedAt: now,
			UpdatedAt: now,
		}

		switch in.Kind {
		case entity.ReservationKindSoft:
			ttl := in.TTLMinutes
			if ttl <= 0 {
				ttl = DefaultSoftTTLMinutes
			}
			expires := now.Add(time.Duration(ttl) * time.Minute)
			res.ExpiresAt = &expires

		case entity.ReservationKindHard:
			if balance.Available.LessThan(in.Qty) {
				return domain.ErrInsufficientStock
			}
			balance.Reserved = balance.Reserved.Add(in.Qty)
			balance.UpdatedAt = now
			balance.Recompute()
			if err := r.Balances.Save(ctx, balance); err != nil {
				return err
			}
			if err := reserveMovement(ctx, r, balance, entity.MovementKindReserve, in.Origin, in.Qty, in.DocRef, in.CreatedBy, now); err != nil {
				return err
			}
		}

		if err := r.Reservations.Create(ctx, res); err != nil {
			return err
		}
		result = &ReservationResult{Reservation: res, Balance: balance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Confirm confirma una reserva ACTIVE. Una SOFT revalida available >= qty,
// sube a HARD (reserved += qty, limpia expires_at) y queda CONFIRMED.
func (uc *ReservationUseCase) Confirm(ctx context.Context, schema, reservationID string) (*ReservationResult, error) {
	now := time.Now()

	var result *ReservationResult
	err := uc.tx.Run(ctx, schema, func(r Repos) error {
		res, err := r.Reservations.GetByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if res == nil {
			return domain.ErrNotFound
		}
		if res.Status != entity.ReservationStatusActive {
			return domain.ErrReservationNotActive
		}

		balance, err := r.Balances.GetByIDForUpdate(ctx, res.BalanceID)
		if err != nil {
			return err
		}
		if balance == nil {
			return domain.ErrBalanceNotFound
		}

		if res.Kind == entity.ReservationKindSoft {
			if balance.Available.LessThan(res.Qty) {
				return domain.ErrInsufficientStock
			}
			res.Kind = entity.ReservationKindHard
			res.ExpiresAt = nil
			balance.Reserved = balance.Reserved.Add(res.Qty)
			balance.UpdatedAt = now
			balance.Recompute()
			if err := r.Balances.Save(ctx, balance); err != nil {
				return err
			}
			if err := reserveMovement(ctx, r, balance, entity.MovementKindReserve, res.Origin, res.Qty, res.DocRef, res.CreatedBy, now); err != nil {
				return err
			}
		}

		res.Status = entity.ReservationStatusConfirmed
		res.ConfirmedAt = &now
		res.UpdatedAt = now
		if err := r.Reservations.Update(ctx, res); err != nil {
			return err
		}
		result = &ReservationResult{Reservation: res, Balance: balance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel cancela una reserva ACTIVE o CONFIRMED. Si la reserva sostiene stock
// (HARD vigente), libera reserved con clamp en cero.
func (uc *ReservationUseCase) Cancel(ctx context.Context, schema, reservationID, reason string) (*ReservationResult, error) {
	now := time.Now()

	var result *ReservationResult
	err := uc.tx.Run(ctx, schema, func(r Repos) error {
		res, err := r.Reservations.GetByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if res == nil {
			return domain.ErrNotFound
		}
		if res.Status != entity.ReservationStatusActive && res.Status != entity.ReservationStatusConfirmed {
			return domain.ErrReservationNotActive
		}

		balance, err := r.Balances.GetByIDForUpdate(ctx, res.BalanceID)
		if err != nil {
			return err
		}
		if balance == nil {
			return domain.ErrBalanceNotFound
		}

		if res.HoldsStock() {
			balance.Reserved = decimal.Max(decimal.Zero, balance.Reserved.Sub(res.Qty))
			balance.UpdatedAt = now
			balance.Recompute()
			if err := r.Balances.Save(ctx, balance); err != nil {
				return err
			}
			if err := reserveMovement(ctx, r, balance, entity.MovementKindUnreserve, res.Origin, res.Qty, res.DocRef, res.CreatedBy, now); err != nil {
				return err
			}
		}

		res.Status = entity.ReservationStatusCancelled
		res.CancelReason = reason
		res.UpdatedAt = now
		if err := r.Reservations.Update(ctx, res); err != nil {
			return err
		}
		result = &ReservationResult{Reservation: res, Balance: balance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Expire expira una reserva SOFT ACTIVE (la ejecuta el worker periódico).
// No tiene efecto sobre el saldo.
func (uc *ReservationUseCase) Expire(ctx context.Context, schema, reservationID string) (*entity.Reservation, error) {
	now := time.Now()

	var expired *entity.Reservation
	err := uc.tx.Run(ctx, schema, func(r Repos) error {
		res, err := r.Reservations.GetByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if res == nil {
			return domain.ErrNotFound
		}
		if res.Kind != entity.ReservationKindSoft || res.Status != entity.ReservationStatusActive {
			return domain.ErrReservationNotActive
		}
		res.Status = entity.ReservationStatusExpired
		res.UpdatedAt = now
		if err := r.Reservations.Update(ctx, res); err != nil {
			return err
		}
		expired = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expired, nil
}
