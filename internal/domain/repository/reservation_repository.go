package repository

import (
	"context"
	"time"

	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
)

// ReservationFilter filtros para listados de reservas.
type ReservationFilter struct {
	BalanceID string
	Kind      string
	Status    string
	Limit     int
	Offset    int
}

// ReservationRepository define el puerto de persistencia para Reservation.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	GetByID(ctx context.Context, id string) (*entity.Reservation, error)
	Update(ctx context.Context, reservation *entity.Reservation) error
	List(ctx context.Context, filter ReservationFilter) ([]*entity.Reservation, error)
	// ListExpired devuelve reservas SOFT ACTIVE con expires_at <= now,
	// acotadas por limit (barrido del worker).
	ListExpired(ctx context.Context, now time.Time, limit int) ([]*entity.Reservation, error)
}
