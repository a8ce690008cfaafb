package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
	"github.com/jhoicas/erp-stock-api/internal/domain/repository"
)

var _ repository.ReservationRepository = (*ReservationRepo)(nil)

const reservationColumns = `id, balance_id, kind, origin, status, qty, doc_ref, notes,
	cancel_reason, expires_at, confirmed_at, created_by, created_at, updated_at`

// ReservationRepo implementación de ReservationRepository sobre PostgreSQL.
type ReservationRepo struct {
	q Querier
}

// NewReservationRepository construye el adaptador de reservas.
func NewReservationRepository(q Querier) *ReservationRepo {
	return &ReservationRepo{q: q}
}

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var res entity.Reservation
	err := row.Scan(
		&res.ID, &res.BalanceID, &res.Kind, &res.Origin, &res.Status, &res.Qty, &res.DocRef,
		&res.Notes, &res.CancelReason, &res.ExpiresAt, &res.ConfirmedAt, &res.CreatedBy,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Create inserta la reserva.
func (r *ReservationRepo) Create(ctx context.Context, res *entity.Reservation) error {
	query := `
		INSERT INTO reservations (id, balance_id, kind, origin, status, qty, doc_ref, notes,
			cancel_reason, expires_at, confirmed_at, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		res.ID, res.BalanceID, res.Kind, res.Origin, res.Status, res.Qty, res.DocRef, res.Notes,
		res.CancelReason, res.ExpiresAt, res.ConfirmedAt, res.CreatedBy, res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

// GetByID obtiene una reserva por id, o nil si no existe.
func (r *ReservationRepo) GetByID(ctx context.Context, id string) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	res, err := scanReservation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

// Update persiste los campos mutables de la reserva.
func (r *ReservationRepo) Update(ctx context.Context, res *entity.Reservation) error {
	query := `
		UPDATE reservations SET kind = $2, status = $3, cancel_reason = $4, expires_at = $5,
			confirmed_at = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		res.ID, res.Kind, res.Status, res.CancelReason, res.ExpiresAt, res.ConfirmedAt, res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepo) listQuery(ctx context.Context, query string, args ...any) ([]*entity.Reservation, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var out []*entity.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// List lista reservas según el filtro, más recientes primero.
func (r *ReservationRepo) List(ctx context.Context, f repository.ReservationFilter) ([]*entity.Reservation, error) {
	var where []string
	var args []any
	if f.BalanceID != "" {
		args = append(args, f.BalanceID)
		where = append(where, "balance_id = $"+strconv.Itoa(len(args)))
	}
	if f.Kind != "" {
		args = append(args, f.Kind)
		where = append(where, "kind = $"+strconv.Itoa(len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + reservationColumns + ` FROM reservations`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}
	return r.listQuery(ctx, query, args...)
}

// ListExpired devuelve reservas SOFT ACTIVE ya vencidas, las más viejas primero.
func (r *ReservationRepo) ListExpired(ctx context.Context, now time.Time, limit int) ([]*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE kind = 'SOFT' AND status = 'ACTIVE' AND expires_at IS NOT NULL AND expires_at <= $1
		ORDER BY expires_at
		LIMIT $2`
	return r.listQuery(ctx, query, now, limit)
}
