package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-stock-api/internal/domain"
	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
	"github.com/jhoicas/erp-stock-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

const locationColumns = `id, company_id, branch_id, name, code, kind, address, city, state,
	country, zip_code, latitude, longitude, allows_inbound, allows_outbound, allows_transfer,
	active, is_deleted, deleted_at, created_at, updated_at`

// LocationRepo implementación de LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de ubicaciones.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

func scanLocation(row pgx.Row) (*entity.Location, error) {
	var l entity.Location
	err := row.Scan(
		&l.ID, &l.CompanyID, &l.BranchID, &l.Name, &l.Code, &l.Kind, &l.Address, &l.City,
		&l.State, &l.Country, &l.ZipCode, &l.Latitude, &l.Longitude, &l.AllowsInbound,
		&l.AllowsOutbound, &l.AllowsTransfer, &l.Active, &l.IsDeleted, &l.DeletedAt,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create inserta la ubicación.
func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	query := `
		INSERT INTO locations (id, company_id, branch_id, name, code, kind, address, city,
			state, country, zip_code, latitude, longitude, allows_inbound, allows_outbound,
			allows_transfer, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.CompanyID, l.BranchID, l.Name, l.Code, l.Kind, l.Address, l.City,
		l.State, l.Country, l.ZipCode, l.Latitude, l.Longitude, l.AllowsInbound,
		l.AllowsOutbound, l.AllowsTransfer, l.Active,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}

func (r *LocationRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Location, error) {
	l, err := scanLocation(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return l, nil
}

// GetByID obtiene una ubicación por id, o nil si no existe.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	return r.getOne(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id)
}

// GetByCode obtiene una ubicación por código (excluye borradas), o nil.
func (r *LocationRepo) GetByCode(ctx context.Context, code string) (*entity.Location, error) {
	return r.getOne(ctx,
		`SELECT `+locationColumns+` FROM locations WHERE code = $1 AND is_deleted = FALSE`, code)
}

// Update persiste los campos mutables de la ubicación.
func (r *LocationRepo) Update(ctx context.Context, l *entity.Location) error {
	query := `
		UPDATE locations SET name = $2, address = $3, city = $4, state = $5, country = $6,
			zip_code = $7, latitude = $8, longitude = $9, allows_inbound = $10,
			allows_outbound = $11, allows_transfer = $12, active = $13, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.Name, l.Address, l.City, l.State, l.Country, l.ZipCode, l.Latitude,
		l.Longitude, l.AllowsInbound, l.AllowsOutbound, l.AllowsTransfer, l.Active,
	)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	return nil
}

func (r *LocationRepo) listQuery(ctx context.Context, query string, args ...any) ([]*entity.Location, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var out []*entity.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// List lista ubicaciones según el filtro.
func (r *LocationRepo) List(ctx context.Context, f repository.LocationFilter) ([]*entity.Location, error) {
	var where []string
	var args []any
	if !f.WithDeleted {
		where = append(where, "is_deleted = FALSE")
	}
	if f.OnlyActive {
		where = append(where, "active = TRUE")
	}
	if f.CompanyID != "" {
		args = append(args, f.CompanyID)
		where = append(where, "company_id = $"+strconv.Itoa(len(args)))
	}
	if f.BranchID != "" {
		args = append(args, f.BranchID)
		where = append(where, "branch_id = $"+strconv.Itoa(len(args)))
	}
	if f.Kind != "" {
		args = append(args, f.Kind)
		where = append(where, "kind = $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + locationColumns + ` FROM locations`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY code"
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

// ListByBranches devuelve ubicaciones activas cuya sucursal está en branchIDs.
func (r *LocationRepo) ListByBranches(ctx context.Context, branchIDs []string) ([]*entity.Location, error) {
	if len(branchIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + locationColumns + ` FROM locations
		WHERE branch_id = ANY($1) AND active = TRUE AND is_deleted = FALSE
		ORDER BY code`
	return r.listQuery(ctx, query, branchIDs)
}

// SoftDelete marca la ubicación como borrada.
func (r *LocationRepo) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE locations SET is_deleted = TRUE, deleted_at = now(), active = FALSE,
		updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft delete location: %w", err)
	}
	return nil
}
