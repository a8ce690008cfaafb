package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-stock-api/internal/domain"
	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
	"github.com/jhoicas/erp-stock-api/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)
var _ repository.BranchRepository = (*BranchRepo)(nil)

const companyColumns = `id, name, tax_id, address, city, phone, email, active, is_deleted,
	deleted_at, created_at, updated_at`

// CompanyRepo implementación de CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

func scanCompany(row pgx.Row) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(
		&c.ID, &c.Name, &c.TaxID, &c.Address, &c.City, &c.Phone, &c.Email, &c.Active,
		&c.IsDeleted, &c.DeletedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserta la empresa.
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, tax_id, address, city, phone, email, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, c.ID, c.Name, c.TaxID, c.Address, c.City, c.Phone, c.Email, c.Active)
	if err != nil {
		return fmt.Errorf("create company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por id, o nil si no existe.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// Update persiste los campos mutables de la empresa.
func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	query := `
		UPDATE companies SET name = $2, tax_id = $3, address = $4, city = $5, phone = $6,
			email = $7, active = $8, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, c.ID, c.Name, c.TaxID, c.Address, c.City, c.Phone, c.Email, c.Active)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

// List lista las empresas no borradas.
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE is_deleted = FALSE ORDER BY name`
	args := []any{}
	if limit > 0 {
		args = append(args, limit)
		query += " LIMIT $1"
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var out []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Count cuenta las empresas no borradas (cuotas de suscripción).
func (r *CompanyRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM companies WHERE is_deleted = FALSE`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return n, nil
}

// SoftDelete marca la empresa como borrada.
func (r *CompanyRepo) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE companies SET is_deleted = TRUE, deleted_at = now(), active = FALSE,
		updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft delete company: %w", err)
	}
	return nil
}

const branchColumns = `id, company_id, name, code, address, city, phone, email, is_main,
	active, is_deleted, deleted_at, created_at, updated_at`

// BranchRepo implementación de BranchRepository sobre PostgreSQL.
type BranchRepo struct {
	q Querier
}

// NewBranchRepository construye el adaptador de sucursales.
func NewBranchRepository(q Querier) *BranchRepo {
	return &BranchRepo{q: q}
}

func scanBranch(row pgx.Row) (*entity.Branch, error) {
	var b entity.Branch
	err := row.Scan(
		&b.ID, &b.CompanyID, &b.Name, &b.Code, &b.Address, &b.City, &b.Phone, &b.Email,
		&b.IsMain, &b.Active, &b.IsDeleted, &b.DeletedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserta la sucursal.
func (r *BranchRepo) Create(ctx context.Context, b *entity.Branch) error {
	query := `
		INSERT INTO branches (id, company_id, name, code, address, city, phone, email, is_main, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.CompanyID, b.Name, b.Code, b.Address, b.City, b.Phone, b.Email, b.IsMain, b.Active)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create branch: %w", err)
	}
	return nil
}

// GetByID obtiene una sucursal por id, o nil si no existe.
func (r *BranchRepo) GetByID(ctx context.Context, id string) (*entity.Branch, error) {
	b, err := scanBranch(r.q.QueryRow(ctx, `SELECT `+branchColumns+` FROM branches WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch: %w", err)
	}
	return b, nil
}

// Update persiste los campos mutables de la sucursal.
func (r *BranchRepo) Update(ctx context.Context, b *entity.Branch) error {
	query := `
		UPDATE branches SET name = $2, code = $3, address = $4, city = $5, phone = $6,
			email = $7, is_main = $8, active = $9, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.Name, b.Code, b.Address, b.City, b.Phone, b.Email, b.IsMain, b.Active)
	if err != nil {
		return fmt.Errorf("update branch: %w", err)
	}
	return nil
}

// ListByCompany lista las sucursales no borradas de una empresa.
func (r *BranchRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Branch, error) {
	query := `SELECT ` + branchColumns + ` FROM branches
		WHERE company_id = $1 AND is_deleted = FALSE ORDER BY code`
	args := []any{companyID}
	if limit > 0 {
		args = append(args, limit)
		query += " LIMIT $2"
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()

	var out []*entity.Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CountByCompany cuenta las sucursales no borradas de una empresa (cuotas).
func (r *BranchRepo) CountByCompany(ctx context.Context, companyID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM branches WHERE company_id = $1 AND is_deleted = FALSE`, companyID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count branches: %w", err)
	}
	return n, nil
}

// SoftDelete marca la sucursal como borrada.
func (r *BranchRepo) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE branches SET is_deleted = TRUE, deleted_at = now(), active = FALSE,
		updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft delete branch: %w", err)
	}
	return nil
}
