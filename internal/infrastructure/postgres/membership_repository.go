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

var _ repository.MembershipRepository = (*MembershipRepo)(nil)

const membershipColumns = `id, user_id, tenant_id, role, active, current_tenant, created_at, updated_at`

// MembershipRepo implementación de MembershipRepository sobre el schema public.
type MembershipRepo struct {
	q Querier
}

// NewMembershipRepository construye el adaptador de membresías.
func NewMembershipRepository(q Querier) *MembershipRepo {
	return &MembershipRepo{q: q}
}

func scanMembership(row pgx.Row) (*entity.Membership, error) {
	var m entity.Membership
	err := row.Scan(&m.ID, &m.UserID, &m.TenantID, &m.Role, &m.Active, &m.CurrentTenant,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserta la membresía.
func (r *MembershipRepo) Create(ctx context.Context, m *entity.Membership) error {
	query := `
		INSERT INTO public.memberships (id, user_id, tenant_id, role, active, current_tenant)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, m.ID, m.UserID, m.TenantID, m.Role, m.Active, m.CurrentTenant)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create membership: %w", err)
	}
	return nil
}

func (r *MembershipRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Membership, error) {
	m, err := scanMembership(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return m, nil
}

// GetByUserAndTenant obtiene la membresía del usuario en el tenant, o nil.
func (r *MembershipRepo) GetByUserAndTenant(ctx context.Context, userID, tenantID string) (*entity.Membership, error) {
	return r.getOne(ctx,
		`SELECT `+membershipColumns+` FROM public.memberships WHERE user_id = $1 AND tenant_id = $2`,
		userID, tenantID)
}

// GetCurrent obtiene la membresía marcada como tenant actual del usuario, o nil.
func (r *MembershipRepo) GetCurrent(ctx context.Context, userID string) (*entity.Membership, error) {
	return r.getOne(ctx,
		`SELECT `+membershipColumns+` FROM public.memberships
		 WHERE user_id = $1 AND current_tenant = TRUE AND active = TRUE
		 LIMIT 1`, userID)
}

// Update persiste los campos mutables de la membresía.
func (r *MembershipRepo) Update(ctx context.Context, m *entity.Membership) error {
	query := `
		UPDATE public.memberships SET role = $2, active = $3, current_tenant = $4, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, m.ID, m.Role, m.Active, m.CurrentTenant)
	if err != nil {
		return fmt.Errorf("update membership: %w", err)
	}
	return nil
}

// ListByTenant lista las membresías de un tenant.
func (r *MembershipRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Membership, error) {
	query := `SELECT ` + membershipColumns + ` FROM public.memberships
		WHERE tenant_id = $1 ORDER BY created_at`
	args := []any{tenantID}
	if limit > 0 {
		args = append(args, limit)
		query += " LIMIT $2"
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	var out []*entity.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteByTenant elimina las membresías del tenant.
func (r *MembershipRepo) DeleteByTenant(ctx context.Context, tenantID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM public.memberships WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return fmt.Errorf("delete memberships: %w", err)
	}
	return nil
}
