package entity

import "time"

// Tenant representa un cliente del sistema con su namespace aislado (schema propio).
// Vive en el schema public junto con Domain, Membership, CustomRole y Subscription.
type Tenant struct {
	ID         string
	SchemaName string // nombre del schema PostgreSQL del tenant (ej. "tenant_acme")
	Name       string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Domain mapea un host a un tenant. Un tenant puede tener varios dominios,
// exactamente uno marcado como primario.
type Domain struct {
	ID        string
	TenantID  string
	Host      string // ej. "acme.example.com"
	IsPrimary bool
	CreatedAt time.Time
}

// Membership vincula un usuario con un tenant y su rol dentro de él.
// Role es un código de sistema (admin, manager, user, viewer) o el código
// de un CustomRole definido para ese tenant.
type Membership struct {
	ID            string
	UserID        string
	TenantID      string
	Role          string
	Active        bool
	CurrentTenant bool // tenant por defecto del usuario (fallback de resolución)
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
