package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
	"github.com/jhoicas/erp-stock-api/internal/domain/repository"
)

var _ repository.ForecastRepository = (*ForecastRepo)(nil)

const forecastColumns = `id, balance_id, kind, origin, status, qty, expected_at,
	expected_unit_value, location_from_id, location_to_id, realizing_movement_id, notes,
	created_by, created_at, updated_at`

// ForecastRepo implementación de ForecastRepository sobre PostgreSQL.
type ForecastRepo struct {
	q Querier
}

// NewForecastRepository construye el adaptador de previsiones.
func NewForecastRepository(q Querier) *ForecastRepo {
	return &ForecastRepo{q: q}
}

func scanForecast(row pgx.Row) (*entity.Forecast, error) {
	var f entity.Forecast
	err := row.Scan(
		&f.ID, &f.BalanceID, &f.Kind, &f.Origin, &f.Status, &f.Qty, &f.ExpectedAt,
		&f.ExpectedUnitValue, &f.LocationFromID, &f.LocationToID, &f.RealizingMovementID,
		&f.Notes, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Create inserta la previsión.
func (r *ForecastRepo) Create(ctx context.Context, f *entity.Forecast) error {
	query := `
		INSERT INTO forecasts (id, balance_id, kind, origin, status, qty, expected_at,
			expected_unit_value, location_from_id, location_to_id, realizing_movement_id,
			notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		f.ID, f.BalanceID, f.Kind, f.Origin, f.Status, f.Qty, f.ExpectedAt,
		f.ExpectedUnitValue, f.LocationFromID, f.LocationToID, f.RealizingMovementID,
		f.Notes, f.CreatedBy, f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create forecast: %w", err)
	}
	return nil
}

// GetByID obtiene una previsión por id, o nil si no existe.
func (r *ForecastRepo) GetByID(ctx context.Context, id string) (*entity.Forecast, error) {
	query := `SELECT ` + forecastColumns + ` FROM forecasts WHERE id = $1`
	f, err := scanForecast(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get forecast: %w", err)
	}
	return f, nil
}

// Update persiste los campos mutables de la previsión.
func (r *ForecastRepo) Update(ctx context.Context, f *entity.Forecast) error {
	query := `
		UPDATE forecasts SET status = $2, realizing_movement_id = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, f.ID, f.Status, f.RealizingMovementID, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update forecast: %w", err)
	}
	return nil
}

// List lista previsiones según el filtro, por fecha esperada.
func (r *ForecastRepo) List(ctx context.Context, f repository.ForecastFilter) ([]*entity.Forecast, error) {
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

	query := `SELECT ` + forecastColumns + ` FROM forecasts`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY expected_at"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list forecasts: %w", err)
	}
	defer rows.Close()

	var out []*entity.Forecast
	for rows.Next() {
		fc, err := scanForecast(rows)
		if err != nil {
			return nil, fmt.Errorf("scan forecast: %w", err)
		}
		out = append(out, fc)
	}
	return out, rows.Err()
}
