package repository

import (
	"context"

	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
)

// TenantRepository define el puerto sobre el registro global de tenants
// (schema public).
type TenantRepository interface {
	Create(ctx context.Context, tenant *entity.Tenant) error
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
	GetBySchema(ctx context.Context, schema string) (*entity.Tenant, error)
	Update(ctx context.Context, tenant *entity.Tenant) error
	// ListActive devuelve los tenants activos (iteración de los workers).
	ListActive(ctx context.Context) ([]*entity.Tenant, error)
}

// DomainRepository define el puerto sobre los dominios registrados (public).
type DomainRepository interface {
	Create(ctx context.Context, domain *entity.Domain) error
	GetByHost(ctx context.Context, host string) (*entity.Domain, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*entity.Domain, error)
	DeleteByTenant(ctx context.Context, tenantID string) error
}

// MembershipRepository define el puerto sobre las membresías usuario↔tenant (public).
type MembershipRepository interface {
	Create(ctx context.Context, membership *entity.Membership) error
	GetByUserAndTenant(ctx context.Context, userID, tenantID string) (*entity.Membership, error)
	// GetCurrent devuelve la membresía marcada como tenant actual del usuario
	// (fallback de resolución de tenant).
	GetCurrent(ctx context.Context, userID string) (*entity.Membership, error)
	Update(ctx context.Context, membership *entity.Membership) error
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Membership, error)
	DeleteByTenant(ctx context.Context, tenantID string) error
}

// CustomRoleRepository define el puerto sobre los roles custom por tenant (public).
type CustomRoleRepository interface {
	Create(ctx context.Context, role *entity.CustomRole) error
	// GetByCode devuelve el rol con sus ModulePermission cargados, o nil si no existe.
	GetByCode(ctx context.Context, tenantID, code string) (*entity.CustomRole, error)
	Update(ctx context.Context, role *entity.CustomRole) error
	ListByTenant(ctx context.Context, tenantID string) ([]*entity.CustomRole, error)
}

// SubscriptionRepository define el puerto sobre suscripciones (public).
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *entity.Subscription) error
	GetByTenant(ctx context.Context, tenantID string) (*entity.Subscription, error)
	Update(ctx context.Context, sub *entity.Subscription) error
}

// UserRepository define el puerto de persistencia para User (public, DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}
