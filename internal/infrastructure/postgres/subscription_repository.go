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

var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

const subscriptionColumns = `id, tenant_id, plan, max_companies, max_branches, max_users,
	active, expires_at, created_at, updated_at`

// SubscriptionRepo implementación de SubscriptionRepository sobre el schema public.
type SubscriptionRepo struct {
	q Querier
}

// NewSubscriptionRepository construye el adaptador de suscripciones.
func NewSubscriptionRepository(q Querier) *SubscriptionRepo {
	return &SubscriptionRepo{q: q}
}

func scanSubscription(row pgx.Row) (*entity.Subscription, error) {
	var s entity.Subscription
	err := row.Scan(&s.ID, &s.TenantID, &s.Plan, &s.MaxCompanies, &s.MaxBranches, &s.MaxUsers,
		&s.Active, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta la suscripción.
func (r *SubscriptionRepo) Create(ctx context.Context, s *entity.Subscription) error {
	query := `
		INSERT INTO public.subscriptions (id, tenant_id, plan, max_companies, max_branches,
			max_users, active, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.TenantID, s.Plan, s.MaxCompanies, s.MaxBranches, s.MaxUsers, s.Active, s.ExpiresAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

// GetByTenant obtiene la suscripción del tenant, o nil si no existe.
func (r *SubscriptionRepo) GetByTenant(ctx context.Context, tenantID string) (*entity.Subscription, error) {
	s, err := scanSubscription(r.q.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM public.subscriptions WHERE tenant_id = $1`, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return s, nil
}

// Update persiste los campos mutables de la suscripción.
func (r *SubscriptionRepo) Update(ctx context.Context, s *entity.Subscription) error {
	query := `
		UPDATE public.subscriptions SET plan = $2, max_companies = $3, max_branches = $4,
			max_users = $5, active = $6, expires_at = $7, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Plan, s.MaxCompanies, s.MaxBranches, s.MaxUsers, s.Active, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	return nil
}
