package repository

import (
	"context"
	"time"

	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
)

// MovementFilter filtros para listados de movimientos.
type MovementFilter struct {
	BalanceID  string
	LocationID string
	ProductID  string
	Kind       string
	Status     string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// MovementRepository define el puerto de persistencia para Movement
// (registro append-only; solo cambia el status en reversos).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// MarkReversed cambia el status de un movimiento CONFIRMED a REVERSED.
	MarkReversed(ctx context.Context, id, reason string) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	// LastConfirmedEntries devuelve las últimas entradas CONFIRMED de un saldo,
	// más recientes primero (recálculo de costo promedio).
	LastConfirmedEntries(ctx context.Context, balanceID string, since time.Time, limit int) ([]*entity.Movement, error)
}
