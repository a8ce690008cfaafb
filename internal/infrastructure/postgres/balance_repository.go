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

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

const balanceColumns = `id, product_id, location_id, company_id, on_hand, reserved, available,
	predicted_in, predicted_out, weighted_avg_cost, total_value, min_level, max_level,
	internal_slot, is_deleted, deleted_at, created_at, updated_at`

// BalanceRepo implementación de BalanceRepository sobre PostgreSQL (usable con pool o tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

func scanBalance(row pgx.Row) (*entity.StockBalance, error) {
	var b entity.StockBalance
	err := row.Scan(
		&b.ID, &b.ProductID, &b.LocationID, &b.CompanyID, &b.OnHand, &b.Reserved, &b.Available,
		&b.PredictedIn, &b.PredictedOut, &b.WeightedAvgCost, &b.TotalValue, &b.MinLevel, &b.MaxLevel,
		&b.InternalSlot, &b.IsDeleted, &b.DeletedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BalanceRepo) getOne(ctx context.Context, query string, args ...any) (*entity.StockBalance, error) {
	b, err := scanBalance(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return b, nil
}

// Get obtiene el saldo de un producto en una ubicación, o nil si no existe.
func (r *BalanceRepo) Get(ctx context.Context, productID, locationID string) (*entity.StockBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM stock_balances
		WHERE product_id = $1 AND location_id = $2 AND is_deleted = FALSE`
	return r.getOne(ctx, query, productID, locationID)
}

// GetByID obtiene el saldo por id, o nil si no existe.
func (r *BalanceRepo) GetByID(ctx context.Context, id string) (*entity.StockBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM stock_balances
		WHERE id = $1 AND is_deleted = FALSE`
	return r.getOne(ctx, query, id)
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE).
// Devuelve nil sin bloquear si la fila no existe.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.StockBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM stock_balances
		WHERE product_id = $1 AND location_id = $2 AND is_deleted = FALSE
		FOR UPDATE`
	return r.getOne(ctx, query, productID, locationID)
}

// GetByIDForUpdate obtiene el saldo por id y bloquea la fila.
func (r *BalanceRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.StockBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM stock_balances
		WHERE id = $1 AND is_deleted = FALSE
		FOR UPDATE`
	return r.getOne(ctx, query, id)
}

// Save inserta o actualiza el saldo. Recalcula los derivados antes de escribir:
// lo que queda en la base siempre cumple available = on_hand - reserved y
// total_value = round2(on_hand * weighted_avg_cost).
func (r *BalanceRepo) Save(ctx context.Context, b *entity.StockBalance) error {
	b.Recompute()
	query := `
		INSERT INTO stock_balances (id, product_id, location_id, company_id, on_hand, reserved,
			available, predicted_in, predicted_out, weighted_avg_cost, total_value, min_level,
			max_level, internal_slot, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, now())
		ON CONFLICT (product_id, location_id) DO UPDATE SET
			on_hand = EXCLUDED.on_hand,
			reserved = EXCLUDED.reserved,
			available = EXCLUDED.available,
			predicted_in = EXCLUDED.predicted_in,
			predicted_out = EXCLUDED.predicted_out,
			weighted_avg_cost = EXCLUDED.weighted_avg_cost,
			total_value = EXCLUDED.total_value,
			min_level = EXCLUDED.min_level,
			max_level = EXCLUDED.max_level,
			internal_slot = EXCLUDED.internal_slot,
			updated_at = now()`
	createdAt := b.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.q.Exec(ctx, query,
		b.ID, b.ProductID, b.LocationID, b.CompanyID, b.OnHand, b.Reserved,
		b.Available, b.PredictedIn, b.PredictedOut, b.WeightedAvgCost, b.TotalValue,
		b.MinLevel, b.MaxLevel, b.InternalSlot, createdAt,
	)
	if err != nil {
		return fmt.Errorf("save balance: %w", err)
	}
	return nil
}

func (r *BalanceRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockBalance, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockBalance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// List lista saldos según el filtro.
func (r *BalanceRepo) List(ctx context.Context, f repository.BalanceFilter) ([]*entity.StockBalance, error) {
	var where []string
	var args []any
	if !f.WithDeleted {
		where = append(where, "is_deleted = FALSE")
	}
	if f.CompanyID != "" {
		args = append(args, f.CompanyID)
		where = append(where, "company_id = $"+strconv.Itoa(len(args)))
	}
	if f.LocationID != "" {
		args = append(args, f.LocationID)
		where = append(where, "location_id = $"+strconv.Itoa(len(args)))
	}
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		where = append(where, "product_id = $"+strconv.Itoa(len(args)))
	}
	if f.BelowMin {
		where = append(where, "min_level > 0 AND on_hand < min_level")
	}

	query := `SELECT ` + balanceColumns + ` FROM stock_balances`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY product_id, location_id"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}
	return r.list(ctx, query, args...)
}

// ListByLocations devuelve los saldos del producto en el conjunto de ubicaciones.
func (r *BalanceRepo) ListByLocations(ctx context.Context, productID string, locationIDs []string) ([]*entity.StockBalance, error) {
	if len(locationIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + balanceColumns + ` FROM stock_balances
		WHERE product_id = $1 AND location_id = ANY($2) AND is_deleted = FALSE
		ORDER BY location_id`
	return r.list(ctx, query, productID, locationIDs)
}

// ListInconsistent devuelve saldos cuyos derivados no cuadran (reconciliación).
func (r *BalanceRepo) ListInconsistent(ctx context.Context, limit int) ([]*entity.StockBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM stock_balances
		WHERE is_deleted = FALSE
		  AND (available <> on_hand - reserved
		       OR total_value <> round(on_hand * weighted_avg_cost, 2)
		       OR reserved < 0 OR reserved > on_hand)
		ORDER BY updated_at
		LIMIT $1`
	return r.list(ctx, query, limit)
}

// ListBelowMin devuelve saldos bajo el mínimo configurado.
func (r *BalanceRepo) ListBelowMin(ctx context.Context, limit int) ([]*entity.StockBalance, error) {
	query := `SELECT ` + balanceColumns + ` FROM stock_balances
		WHERE is_deleted = FALSE AND min_level > 0 AND on_hand < min_level
		ORDER BY on_hand - min_level
		LIMIT $1`
	return r.list(ctx, query, limit)
}

// ListWithEntriesSince devuelve los IDs de saldos con entradas CONFIRMED desde 'since'.
func (r *BalanceRepo) ListWithEntriesSince(ctx context.Context, since time.Time) ([]string, error) {
	query := `SELECT DISTINCT balance_id FROM stock_movements
		WHERE kind = 'ENTRY' AND status = 'CONFIRMED' AND occurred_at >= $1`
	rows, err := r.q.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("list balances with entries: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan balance id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
