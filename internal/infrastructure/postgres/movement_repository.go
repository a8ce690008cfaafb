package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-stock-api/internal/domain"
	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
	"github.com/jhoicas/erp-stock-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, balance_id, kind, origin, status, qty, qty_before, qty_after,
	unit_value, total_value, location_from_id, location_to_id, doc_ref, nf_number, nf_series,
	notes, original_movement_id, reversal_reason, created_by, occurred_at, created_at`

// MovementRepo implementación de MovementRepository sobre PostgreSQL.
// La tabla es append-only: solo MarkReversed toca filas existentes.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de movimientos.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	err := row.Scan(
		&m.ID, &m.BalanceID, &m.Kind, &m.Origin, &m.Status, &m.Qty, &m.QtyBefore, &m.QtyAfter,
		&m.UnitValue, &m.TotalValue, &m.LocationFromID, &m.LocationToID, &m.DocRef, &m.NFNumber,
		&m.NFSeries, &m.Notes, &m.OriginalMovementID, &m.ReversalReason, &m.CreatedBy,
		&m.OccurredAt, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserta el movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO stock_movements (id, balance_id, kind, origin, status, qty, qty_before,
			qty_after, unit_value, total_value, location_from_id, location_to_id, doc_ref,
			nf_number, nf_series, notes, original_movement_id, reversal_reason, created_by,
			occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.BalanceID, m.Kind, m.Origin, m.Status, m.Qty, m.QtyBefore, m.QtyAfter,
		m.UnitValue, m.TotalValue, m.LocationFromID, m.LocationToID, m.DocRef, m.NFNumber,
		m.NFSeries, m.Notes, m.OriginalMovementID, m.ReversalReason, m.CreatedBy,
		m.OccurredAt, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por id, o nil si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// MarkReversed pasa un movimiento CONFIRMED a REVERSED. El WHERE sobre el
// status evita reversos dobles concurrentes.
func (r *MovementRepo) MarkReversed(ctx context.Context, id, reason string) error {
	query := `UPDATE stock_movements SET status = 'REVERSED', reversal_reason = $2
		WHERE id = $1 AND status = 'CONFIRMED'`
	tag, err := r.q.Exec(ctx, query, id, reason)
	if err != nil {
		return fmt.Errorf("mark reversed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyReversed
	}
	return nil
}

func (r *MovementRepo) listQuery(ctx context.Context, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// List lista movimientos según el filtro, más recientes primero.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var where []string
	var args []any
	if f.BalanceID != "" {
		args = append(args, f.BalanceID)
		where = append(where, "balance_id = $"+strconv.Itoa(len(args)))
	}
	if f.LocationID != "" {
		args = append(args, f.LocationID)
		n := strconv.Itoa(len(args))
		where = append(where, "(location_from_id = $"+n+" OR location_to_id = $"+n+")")
	}
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		where = append(where, "balance_id IN (SELECT id FROM stock_balances WHERE product_id = $"+strconv.Itoa(len(args))+")")
	}
	if f.Kind != "" {
		args = append(args, f.Kind)
		where = append(where, "kind = $"+strconv.Itoa(len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where = append(where, "occurred_at >= $"+strconv.Itoa(len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where = append(where, "occurred_at < $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + movementColumns + ` FROM stock_movements`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY occurred_at DESC, created_at DESC"
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

// LastConfirmedEntries devuelve las últimas entradas CONFIRMED del saldo desde 'since'.
func (r *MovementRepo) LastConfirmedEntries(ctx context.Context, balanceID string, since time.Time, limit int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE balance_id = $1 AND kind = 'ENTRY' AND status = 'CONFIRMED' AND occurred_at >= $2
		ORDER BY occurred_at DESC
		LIMIT $3`
	return r.listQuery(ctx, query, balanceID, since, limit)
}
