package entity

import "time"

// Planes de suscripción disponibles.
const (
	PlanBasic      = "basic"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// Subscription representa el plan contratado por un tenant y sus cuotas.
// La creación de empresas y sucursales se valida contra estas cuotas.
type Subscription struct {
	ID           string
	TenantID     string
	Plan         string // ver constantes Plan*
	MaxCompanies int
	MaxBranches  int
	MaxUsers     int
	Active       bool
	ExpiresAt    *time.Time // nil = sin vencimiento
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Expired indica si la suscripción venció respecto a now.
func (s *Subscription) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && s.ExpiresAt.Before(now)
}
