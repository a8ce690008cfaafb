package dto

import (
	"time"

	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
)

// CreateTenantRequest body para POST /api/tenants.
type CreateTenantRequest struct {
	Name        string `json:"name"`
	SchemaName  string `json:"schema_name"`
	PrimaryHost string `json:"primary_host,omitempty"`
	Plan        string `json:"plan,omitempty"`
}

// TenantResponse representación pública de un tenant.
type TenantResponse struct {
	ID         string    `json:"id"`
	SchemaName string    `json:"schema_name"`
	Name       string    `json:"name"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToTenantResponse mapea el tenant de dominio a su representación pública.
func ToTenantResponse(t *entity.Tenant) TenantResponse {
	return TenantResponse{
		ID:         t.ID,
		SchemaName: t.SchemaName,
		Name:       t.Name,
		Active:     t.Active,
		CreatedAt:  t.CreatedAt,
	}
}

// AddMembershipRequest body para POST /api/tenants/:id/memberships.
type AddMembershipRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// MembershipResponse representación pública de una membresía.
type MembershipResponse struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	TenantID      string `json:"tenant_id"`
	Role          string `json:"role"`
	Active        bool   `json:"active"`
	CurrentTenant bool   `json:"current_tenant"`
}

// ToMembershipResponse mapea la membresía de dominio a su representación pública.
func ToMembershipResponse(m *entity.Membership) MembershipResponse {
	return MembershipResponse{
		ID:            m.ID,
		UserID:        m.UserID,
		TenantID:      m.TenantID,
		Role:          m.Role,
		Active:        m.Active,
		CurrentTenant: m.CurrentTenant,
	}
}

// ModulePermissionDTO permiso de un rol custom sobre un módulo.
type ModulePermissionDTO struct {
	ModuleCode string   `json:"module_code"`
	Actions    []string `json:"actions"`
}

// CreateRoleRequest body para POST /api/roles.
type CreateRoleRequest struct {
	Code        string                `json:"code"`
	Name        string                `json:"name"`
	Permissions []ModulePermissionDTO `json:"permissions"`
}

// UpdateRoleRequest body para PUT /api/roles/:code.
type UpdateRoleRequest struct {
	Name        string                `json:"name"`
	Active      bool                  `json:"active"`
	Permissions []ModulePermissionDTO `json:"permissions"`
}

// RoleResponse representación pública de un rol custom.
type RoleResponse struct {
	ID          string                `json:"id"`
	Code        string                `json:"code"`
	Name        string                `json:"name"`
	Active      bool                  `json:"active"`
	Permissions []ModulePermissionDTO `json:"permissions"`
}

// ToModulePermissions convierte los permisos DTO al modelo de dominio.
func ToModulePermissions(in []ModulePermissionDTO) []entity.ModulePermission {
	out := make([]entity.ModulePermission, 0, len(in))
	for _, p := range in {
		actions := make([]entity.Action, 0, len(p.Actions))
		for _, a := range p.Actions {
			actions = append(actions, entity.Action(a))
		}
		out = append(out, entity.ModulePermission{ModuleCode: p.ModuleCode, Actions: actions})
	}
	return out
}

// ToRoleResponse mapea el rol custom de dominio a su representación pública.
func ToRoleResponse(r *entity.CustomRole) RoleResponse {
	perms := make([]ModulePermissionDTO, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		actions := make([]string, 0, len(p.Actions))
		for _, a := range p.Actions {
			actions = append(actions, string(a))
		}
		perms = append(perms, ModulePermissionDTO{ModuleCode: p.ModuleCode, Actions: actions})
	}
	return RoleResponse{ID: r.ID, Code: r.Code, Name: r.Name, Active: r.Active, Permissions: perms}
}

// ToRoleResponses mapea una lista de roles custom.
func ToRoleResponses(list []*entity.CustomRole) []RoleResponse {
	out := make([]RoleResponse, 0, len(list))
	for _, r := range list {
		out = append(out, ToRoleResponse(r))
	}
	return out
}
