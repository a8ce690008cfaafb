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

var _ repository.BranchGroupRepository = (*BranchGroupRepo)(nil)

const branchGroupColumns = `id, company_id, name, code, allocation_rule,
	allow_cross_fulfillment, active, is_deleted, deleted_at, created_at, updated_at`

// BranchGroupRepo implementación de BranchGroupRepository sobre PostgreSQL.
// Los grupos cargan siempre su membresía (branch_group_members).
type BranchGroupRepo struct {
	q Querier
}

// NewBranchGroupRepository construye el adaptador de grupos de sucursales.
func NewBranchGroupRepository(q Querier) *BranchGroupRepo {
	return &BranchGroupRepo{q: q}
}

func scanBranchGroup(row pgx.Row) (*entity.BranchGroup, error) {
	var g entity.BranchGroup
	err := row.Scan(
		&g.ID, &g.CompanyID, &g.Name, &g.Code, &g.AllocationRule,
		&g.AllowCrossFulfillment, &g.Active, &g.IsDeleted, &g.DeletedAt,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *BranchGroupRepo) loadBranches(ctx context.Context, g *entity.BranchGroup) error {
	rows, err := r.q.Query(ctx,
		`SELECT branch_id FROM branch_group_members WHERE group_id = $1 ORDER BY branch_id`, g.ID)
	if err != nil {
		return fmt.Errorf("load group branches: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan group branch: %w", err)
		}
		g.BranchIDs = append(g.BranchIDs, id)
	}
	return rows.Err()
}

// Create inserta el grupo (la membresía se escribe con SetBranches).
func (r *BranchGroupRepo) Create(ctx context.Context, g *entity.BranchGroup) error {
	query := `
		INSERT INTO branch_groups (id, company_id, name, code, allocation_rule,
			allow_cross_fulfillment, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		g.ID, g.CompanyID, g.Name, g.Code, g.AllocationRule, g.AllowCrossFulfillment, g.Active,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create branch group: %w", err)
	}
	return nil
}

func (r *BranchGroupRepo) getOne(ctx context.Context, query string, args ...any) (*entity.BranchGroup, error) {
	g, err := scanBranchGroup(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch group: %w", err)
	}
	if err := r.loadBranches(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// GetByID obtiene un grupo por id con su membresía, o nil si no existe.
func (r *BranchGroupRepo) GetByID(ctx context.Context, id string) (*entity.BranchGroup, error) {
	return r.getOne(ctx, `SELECT `+branchGroupColumns+` FROM branch_groups WHERE id = $1`, id)
}

// GetByCode obtiene un grupo por código (excluye borrados), o nil.
func (r *BranchGroupRepo) GetByCode(ctx context.Context, code string) (*entity.BranchGroup, error) {
	return r.getOne(ctx,
		`SELECT `+branchGroupColumns+` FROM branch_groups WHERE code = $1 AND is_deleted = FALSE`, code)
}

// Update persiste los campos mutables del grupo.
func (r *BranchGroupRepo) Update(ctx context.Context, g *entity.BranchGroup) error {
	query := `
		UPDATE branch_groups SET name = $2, allocation_rule = $3, allow_cross_fulfillment = $4,
			active = $5, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, g.ID, g.Name, g.AllocationRule, g.AllowCrossFulfillment, g.Active)
	if err != nil {
		return fmt.Errorf("update branch group: %w", err)
	}
	return nil
}

// ListByCompany lista los grupos de una empresa con su membresía.
func (r *BranchGroupRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.BranchGroup, error) {
	query := `SELECT ` + branchGroupColumns + ` FROM branch_groups
		WHERE company_id = $1 AND is_deleted = FALSE
		ORDER BY code`
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
		return nil, fmt.Errorf("list branch groups: %w", err)
	}
	defer rows.Close()

	var out []*entity.BranchGroup
	for rows.Next() {
		g, err := scanBranchGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan branch group: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, g := range out {
		if err := r.loadBranches(ctx, g); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SetBranches reemplaza la membresía del grupo.
func (r *BranchGroupRepo) SetBranches(ctx context.Context, groupID string, branchIDs []string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM branch_group_members WHERE group_id = $1`, groupID); err != nil {
		return fmt.Errorf("clear group branches: %w", err)
	}
	for _, branchID := range branchIDs {
		_, err := r.q.Exec(ctx,
			`INSERT INTO branch_group_members (group_id, branch_id) VALUES ($1, $2)`, groupID, branchID)
		if err != nil {
			return fmt.Errorf("add group branch: %w", err)
		}
	}
	return nil
}

// SoftDelete marca el grupo como borrado.
func (r *BranchGroupRepo) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE branch_groups SET is_deleted = TRUE, deleted_at = now(), active = FALSE,
		updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("soft delete branch group: %w", err)
	}
	return nil
}
