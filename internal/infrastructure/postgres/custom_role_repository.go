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

var _ repository.CustomRoleRepository = (*CustomRoleRepo)(nil)

const customRoleColumns = `id, tenant_id, code, name, active, created_at, updated_at`

// CustomRoleRepo implementación de CustomRoleRepository sobre el schema public.
// Los permisos viven en custom_role_permissions (actions como TEXT[]).
type CustomRoleRepo struct {
	q Querier
}

// NewCustomRoleRepository construye el adaptador de roles custom.
func NewCustomRoleRepository(q Querier) *CustomRoleRepo {
	return &CustomRoleRepo{q: q}
}

func scanCustomRole(row pgx.Row) (*entity.CustomRole, error) {
	var role entity.CustomRole
	err := row.Scan(&role.ID, &role.TenantID, &role.Code, &role.Name, &role.Active,
		&role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *CustomRoleRepo) loadPermissions(ctx context.Context, role *entity.CustomRole) error {
	rows, err := r.q.Query(ctx,
		`SELECT module_code, actions FROM public.custom_role_permissions WHERE role_id = $1 ORDER BY module_code`,
		role.ID)
	if err != nil {
		return fmt.Errorf("load role permissions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var perm entity.ModulePermission
		var actions []string
		if err := rows.Scan(&perm.ModuleCode, &actions); err != nil {
			return fmt.Errorf("scan role permission: %w", err)
		}
		for _, a := range actions {
			perm.Actions = append(perm.Actions, entity.Action(a))
		}
		role.Permissions = append(role.Permissions, perm)
	}
	return rows.Err()
}

func (r *CustomRoleRepo) savePermissions(ctx context.Context, role *entity.CustomRole) error {
	if _, err := r.q.Exec(ctx,
		`DELETE FROM public.custom_role_permissions WHERE role_id = $1`, role.ID); err != nil {
		return fmt.Errorf("clear role permissions: %w", err)
	}
	for _, perm := range role.Permissions {
		actions := make([]string, 0, len(perm.Actions))
		for _, a := range perm.Actions {
			actions = append(actions, string(a))
		}
		_, err := r.q.Exec(ctx,
			`INSERT INTO public.custom_role_permissions (role_id, module_code, actions) VALUES ($1, $2, $3)`,
			role.ID, perm.ModuleCode, actions)
		if err != nil {
			return fmt.Errorf("save role permission: %w", err)
		}
	}
	return nil
}

// Create inserta el rol con sus permisos.
func (r *CustomRoleRepo) Create(ctx context.Context, role *entity.CustomRole) error {
	query := `
		INSERT INTO public.custom_roles (id, tenant_id, code, name, active)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, role.ID, role.TenantID, role.Code, role.Name, role.Active)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create custom role: %w", err)
	}
	return r.savePermissions(ctx, role)
}

// GetByCode devuelve el rol del tenant con sus permisos cargados, o nil.
func (r *CustomRoleRepo) GetByCode(ctx context.Context, tenantID, code string) (*entity.CustomRole, error) {
	role, err := scanCustomRole(r.q.QueryRow(ctx,
		`SELECT `+customRoleColumns+` FROM public.custom_roles WHERE tenant_id = $1 AND code = $2`,
		tenantID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get custom role: %w", err)
	}
	if err := r.loadPermissions(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// Update persiste los campos mutables del rol y reemplaza sus permisos.
func (r *CustomRoleRepo) Update(ctx context.Context, role *entity.CustomRole) error {
	query := `UPDATE public.custom_roles SET name = $2, active = $3, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(ctx, query, role.ID, role.Name, role.Active)
	if err != nil {
		return fmt.Errorf("update custom role: %w", err)
	}
	return r.savePermissions(ctx, role)
}

// ListByTenant lista los roles custom del tenant con sus permisos.
func (r *CustomRoleRepo) ListByTenant(ctx context.Context, tenantID string) ([]*entity.CustomRole, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+customRoleColumns+` FROM public.custom_roles WHERE tenant_id = $1 ORDER BY code`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("list custom roles: %w", err)
	}
	defer rows.Close()

	var out []*entity.CustomRole
	for rows.Next() {
		role, err := scanCustomRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan custom role: %w", err)
		}
		out = append(out, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, role := range out {
		if err := r.loadPermissions(ctx, role); err != nil {
			return nil, err
		}
	}
	return out, nil
}
