package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-stock-api/internal/domain"
	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
	"github.com/jhoicas/erp-stock-api/internal/domain/repository"
)

// RoleUseCase administración de roles custom por tenant (registro global).
type RoleUseCase struct {
	roles repository.CustomRoleRepository
}

// NewRoleUseCase crea el caso de uso.
func NewRoleUseCase(roles repository.CustomRoleRepository) *RoleUseCase {
	return &RoleUseCase{roles: roles}
}

// CreateRoleInput datos para crear un rol custom.
type CreateRoleInput struct {
	Code        string
	Name        string
	Permissions []entity.ModulePermission
}

// Create crea un rol custom. Los códigos de sistema están reservados y el
// código debe ser único dentro del tenant.
func (uc *RoleUseCase) Create(ctx context.Context, tenantID string, in CreateRoleInput) (*entity.CustomRole, error) {
	if in.Code == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if entity.IsSystemRole(in.Code) {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.roles.GetByCode(ctx, tenantID, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	role := &entity.CustomRole{
		ID:          uuid.NewString(),
		TenantID:    tenantID,
		Code:        in.Code,
		Name:        in.Name,
		Active:      true,
		Permissions: in.Permissions,
	}
	if err := uc.roles.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// UpdateRoleInput campos actualizables de un rol custom. El código no cambia.
type UpdateRoleInput struct {
	Name        string
	Active      bool
	Permissions []entity.ModulePermission
}

// Update modifica un rol custom existente.
func (uc *RoleUseCase) Update(ctx context.Context, tenantID, code string, in UpdateRoleInput) (*entity.CustomRole, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	role, err := uc.roles.GetByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.ErrNotFound
	}
	role.Name = in.Name
	role.Active = in.Active
	role.Permissions = in.Permissions
	if err := uc.roles.Update(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// List lista los roles custom del tenant.
func (uc *RoleUseCase) List(ctx context.Context, tenantID string) ([]*entity.CustomRole, error) {
	return uc.roles.ListByTenant(ctx, tenantID)
}
