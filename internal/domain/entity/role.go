package entity

import "time"

// Roles de sistema reservados. Un Membership.Role que no sea uno de estos
// códigos se resuelve contra los CustomRole del tenant.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
	RoleViewer  = "viewer"
)

// Action es una acción autorizable sobre un módulo.
type Action string

// Acciones reconocidas por el sistema de permisos.
const (
	ActionView    Action = "view"
	ActionAdd     Action = "add"
	ActionChange  Action = "change"
	ActionDelete  Action = "delete"
	ActionExport  Action = "export"
	ActionImport  Action = "import"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionManage  Action = "manage"
)

// reservedRoles son los códigos que un CustomRole no puede usar.
var reservedRoles = map[string]bool{
	RoleAdmin:   true,
	RoleManager: true,
	RoleUser:    true,
	RoleViewer:  true,
}

// IsSystemRole indica si code es un rol de sistema reservado.
func IsSystemRole(code string) bool {
	return reservedRoles[code]
}

// Role es la unión etiquetada {System, Custom}: nunca un string libre en la
// frontera de autorización. Exactamente uno de los dos campos está poblado.
type Role struct {
	System string // admin | manager | user | viewer, vacío si es custom
	Custom string // código de CustomRole del tenant, vacío si es de sistema
}

// ParseRole clasifica un código de rol como sistema o custom.
func ParseRole(code string) Role {
	if IsSystemRole(code) {
		return Role{System: code}
	}
	return Role{Custom: code}
}

// IsSystem indica si el rol es de sistema.
func (r Role) IsSystem() bool { return r.System != "" }

// Code devuelve el código plano del rol (para logs y claims).
func (r Role) Code() string {
	if r.System != "" {
		return r.System
	}
	return r.Custom
}

// CustomRole es un rol definido por un tenant, con permisos por módulo.
// Invariante: Code único dentro del tenant y nunca un código reservado.
type CustomRole struct {
	ID          string
	TenantID    string
	Code        string
	Name        string
	Active      bool
	Permissions []ModulePermission
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ModulePermission declara las acciones permitidas de un CustomRole sobre un módulo.
type ModulePermission struct {
	ModuleCode string
	Actions    []Action
}

// Allows indica si el permiso incluye la acción.
func (p ModulePermission) Allows(a Action) bool {
	for _, act := range p.Actions {
		if act == a {
			return true
		}
	}
	return false
}
