package usecase

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-stock-api/internal/domain"
	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
	"github.com/jhoicas/erp-stock-api/internal/domain/repository"
)

// SchemaProvisioner crea el schema del tenant y sus tablas.
type SchemaProvisioner interface {
	EnsureSchema(ctx context.Context, schemaName string) error
}

// schemaNamePattern nombres de schema aceptados: minúsculas, dígitos y guion bajo.
var schemaNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{2,62}$`)

// TenantUseCase aprovisionamiento y administración de tenants (schema public).
type TenantUseCase struct {
	tenants       repository.TenantRepository
	domains       repository.DomainRepository
	memberships   repository.MembershipRepository
	subscriptions repository.SubscriptionRepository
	provisioner   SchemaProvisioner
}

// NewTenantUseCase crea el caso de uso.
func NewTenantUseCase(
	tenants repository.TenantRepository,
	domains repository.DomainRepository,
	memberships repository.MembershipRepository,
	subscriptions repository.SubscriptionRepository,
	provisioner SchemaProvisioner,
) *TenantUseCase {
	return &TenantUseCase{
		tenants:       tenants,
		domains:       domains,
		memberships:   memberships,
		subscriptions: subscriptions,
		provisioner:   provisioner,
	}
}

// CreateTenantInput datos para aprovisionar un tenant.
type CreateTenantInput struct {
	Name        string
	SchemaName  string
	PrimaryHost string
	Plan        string
	AdminUserID string // usuario que queda como admin del tenant
}

// CreateTenant registra el tenant, crea su schema, su dominio primario, la
// suscripción del plan y la membresía admin del usuario creador.
func (uc *TenantUseCase) CreateTenant(ctx context.Context, in CreateTenantInput) (*entity.Tenant, error) {
	if in.Name == "" || in.AdminUserID == "" {
		return nil, domain.ErrInvalidInput
	}
	schema := strings.ToLower(strings.TrimSpace(in.SchemaName))
	if !schemaNamePattern.MatchString(schema) {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.tenants.GetBySchema(ctx, schema)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	tenant := &entity.Tenant{
		ID:         uuid.NewString(),
		SchemaName: schema,
		Name:       in.Name,
		Active:     true,
	}
	if err := uc.tenants.Create(ctx, tenant); err != nil {
		return nil, err
	}

	if err := uc.provisioner.EnsureSchema(ctx, schema); err != nil {
		return nil, err
	}

	if in.PrimaryHost != "" {
		d := &entity.Domain{
			ID:        uuid.NewString(),
			TenantID:  tenant.ID,
			Host:      strings.ToLower(in.PrimaryHost),
			IsPrimary: true,
		}
		if err := uc.domains.Create(ctx, d); err != nil {
			return nil, err
		}
	}

	plan := in.Plan
	if plan == "" {
		plan = entity.PlanBasic
	}
	sub := &entity.Subscription{
		ID:       uuid.NewString(),
		TenantID: tenant.ID,
		Plan:     plan,
		Active:   true,
	}
	sub.MaxCompanies, sub.MaxBranches, sub.MaxUsers = planQuotas(plan)
	if err := uc.subscriptions.Create(ctx, sub); err != nil {
		return nil, err
	}

	m := &entity.Membership{
		ID:            uuid.NewString(),
		UserID:        in.AdminUserID,
		TenantID:      tenant.ID,
		Role:          entity.RoleAdmin,
		Active:        true,
		CurrentTenant: true,
	}
	if err := uc.memberships.Create(ctx, m); err != nil {
		return nil, err
	}

	return tenant, nil
}

// planQuotas cuotas por plan.
func planQuotas(plan string) (companies, branches, users int) {
	switch plan {
	case entity.PlanEnterprise:
		return 0, 0, 0 // sin límite
	case entity.PlanPro:
		return 5, 20, 50
	default:
		return 1, 3, 10
	}
}

// AddMembershipInput datos para vincular un usuario a un tenant.
type AddMembershipInput struct {
	UserID string
	Role   string
}

// AddMembership vincula un usuario al tenant con un rol.
func (uc *TenantUseCase) AddMembership(ctx context.Context, tenantID string, in AddMembershipInput) (*entity.Membership, error) {
	if in.UserID == "" || in.Role == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.memberships.GetByUserAndTenant(ctx, in.UserID, tenantID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	m := &entity.Membership{
		ID:       uuid.NewString(),
		UserID:   in.UserID,
		TenantID: tenantID,
		Role:     in.Role,
		Active:   true,
	}
	if err := uc.memberships.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// SetActive activa o desactiva el tenant. Desactivar no borra nada: el
// tenant queda invisible para resolución pero sus datos se conservan.
func (uc *TenantUseCase) SetActive(ctx context.Context, tenantID string, active bool) (*entity.Tenant, error) {
	tenant, err := uc.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}
	tenant.Active = active
	if err := uc.tenants.Update(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}
