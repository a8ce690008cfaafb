package authz

import (
	"context"
	"net/http"

	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
	"github.com/jhoicas/erp-stock-api/internal/domain/repository"
)

// Módulos registrados del sistema. Los roles de sistema aplican sobre todos;
// un rol custom solo ve los módulos que declara en sus permisos.
const (
	ModuleStock     = "stock"
	ModuleLocations = "locations"
	ModuleCompanies = "companies"
	ModuleReports   = "reports"
)

// systemActions acciones otorgadas por cada rol de sistema sobre cualquier
// módulo registrado. admin se corta en Allowed antes de consultar esta tabla.
var systemActions = map[string][]entity.Action{
	entity.RoleManager: {entity.ActionView, entity.ActionAdd, entity.ActionChange},
	entity.RoleUser:    {entity.ActionView, entity.ActionAdd},
	entity.RoleViewer:  {entity.ActionView},
}

// ActionForMethod traduce el método HTTP a la acción requerida.
// Métodos no mapeados se niegan (ok en false).
func ActionForMethod(method string) (entity.Action, bool) {
	switch method {
	case http.MethodGet, http.MethodHead:
		return entity.ActionView, true
	case http.MethodPost:
		return entity.ActionAdd, true
	case http.MethodPut, http.MethodPatch:
		return entity.ActionChange, true
	case http.MethodDelete:
		return entity.ActionDelete, true
	}
	return "", false
}

// Resolver calcula el conjunto efectivo de capacidades del caller sobre el
// tenant actual: rol de sistema o rol custom × módulo × acción.
// Nunca degrada silenciosamente: sin autenticar se niega; autenticado con rol
// desconocido solo se permiten lecturas (default conservador documentado).
type Resolver struct {
	customRoles repository.CustomRoleRepository
}

// NewResolver construye el resolver sobre el registro global de roles custom.
func NewResolver(customRoles repository.CustomRoleRepository) *Resolver {
	return &Resolver{customRoles: customRoles}
}

// IsTenantAdmin indica si el rol corta por lo sano: admin del tenant tiene
// acceso total a todo objeto dentro del tenant.
func IsTenantAdmin(roleCode string) bool {
	return roleCode == entity.RoleAdmin
}

// Allowed decide si el rol puede ejecutar action sobre module en el tenant.
func (r *Resolver) Allowed(ctx context.Context, tenantID, roleCode, module string, action entity.Action) (bool, error) {
	if roleCode == "" {
		return false, nil
	}
	role := entity.ParseRole(roleCode)

	if role.IsSystem() {
		if role.System == entity.RoleAdmin {
			return true, nil
		}
		for _, a := range systemActions[role.System] {
			if a == action {
				return true, nil
			}
		}
		return false, nil
	}

	custom, err := r.customRoles.GetByCode(ctx, tenantID, role.Custom)
	if err != nil {
		return false, err
	}
	if custom == nil || !custom.Active {
		// Rol desconocido o desactivado: solo métodos seguros
		return action == entity.ActionView, nil
	}
	for _, perm := range custom.Permissions {
		if perm.ModuleCode == module && perm.Allows(action) {
			return true, nil
		}
	}
	// Módulos no listados en el rol custom se niegan
	return false, nil
}
