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

var _ repository.TenantRepository = (*TenantRepo)(nil)
var _ repository.DomainRepository = (*DomainRepo)(nil)

// TenantRepo implementación de TenantRepository sobre el schema public.
// Las tablas se referencian con prefijo public. explícito: estos repos se usan
// también desde conexiones con search_path ligado a un tenant.
type TenantRepo struct {
	q Querier
}

// NewTenantRepository construye el adaptador de tenants.
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

const tenantColumns = `id, schema_name, name, active, created_at, updated_at`

func scanTenant(row pgx.Row) (*entity.Tenant, error) {
	var t entity.Tenant
	err := row.Scan(&t.ID, &t.SchemaName, &t.Name, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserta el tenant.
func (r *TenantRepo) Create(ctx context.Context, t *entity.Tenant) error {
	query := `INSERT INTO public.tenants (id, schema_name, name, active) VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(ctx, query, t.ID, t.SchemaName, t.Name, t.Active)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create tenant: %w", err)
	}
	return nil
}

func (r *TenantRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Tenant, error) {
	t, err := scanTenant(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return t, nil
}

// GetByID obtiene un tenant por id, o nil si no existe.
func (r *TenantRepo) GetByID(ctx context.Context, id string) (*entity.Tenant, error) {
	return r.getOne(ctx, `SELECT `+tenantColumns+` FROM public.tenants WHERE id = $1`, id)
}

// GetBySchema obtiene un tenant por nombre de schema, o nil si no existe.
func (r *TenantRepo) GetBySchema(ctx context.Context, schema string) (*entity.Tenant, error) {
	return r.getOne(ctx, `SELECT `+tenantColumns+` FROM public.tenants WHERE schema_name = $1`, schema)
}

// Update persiste los campos mutables del tenant.
func (r *TenantRepo) Update(ctx context.Context, t *entity.Tenant) error {
	query := `UPDATE public.tenants SET name = $2, active = $3, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(ctx, query, t.ID, t.Name, t.Active)
	if err != nil {
		return fmt.Errorf("update tenant: %w", err)
	}
	return nil
}

// ListActive devuelve los tenants activos (iteración de los workers).
func (r *TenantRepo) ListActive(ctx context.Context) ([]*entity.Tenant, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+tenantColumns+` FROM public.tenants WHERE active = TRUE ORDER BY schema_name`)
	if err != nil {
		return nil, fmt.Errorf("list active tenants: %w", err)
	}
	defer rows.Close()

	var out []*entity.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// DomainRepo implementación de DomainRepository sobre el schema public.
type DomainRepo struct {
	q Querier
}

// NewDomainRepository construye el adaptador de dominios.
func NewDomainRepository(q Querier) *DomainRepo {
	return &DomainRepo{q: q}
}

const domainColumns = `id, tenant_id, host, is_primary, created_at`

func scanDomain(row pgx.Row) (*entity.Domain, error) {
	var d entity.Domain
	err := row.Scan(&d.ID, &d.TenantID, &d.Host, &d.IsPrimary, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserta el dominio.
func (r *DomainRepo) Create(ctx context.Context, d *entity.Domain) error {
	query := `INSERT INTO public.domains (id, tenant_id, host, is_primary) VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(ctx, query, d.ID, d.TenantID, d.Host, d.IsPrimary)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create domain: %w", err)
	}
	return nil
}

// GetByHost obtiene el dominio por host, o nil si no existe.
func (r *DomainRepo) GetByHost(ctx context.Context, host string) (*entity.Domain, error) {
	d, err := scanDomain(r.q.QueryRow(ctx,
		`SELECT `+domainColumns+` FROM public.domains WHERE host = $1`, host))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get domain: %w", err)
	}
	return d, nil
}

// ListByTenant lista los dominios del tenant.
func (r *DomainRepo) ListByTenant(ctx context.Context, tenantID string) ([]*entity.Domain, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+domainColumns+` FROM public.domains WHERE tenant_id = $1 ORDER BY is_primary DESC, host`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}
	defer rows.Close()

	var out []*entity.Domain
	for rows.Next() {
		d, err := scanDomain(rows)
		if err != nil {
			return nil, fmt.Errorf("scan domain: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteByTenant elimina los dominios del tenant.
func (r *DomainRepo) DeleteByTenant(ctx context.Context, tenantID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM public.domains WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return fmt.Errorf("delete domains: %w", err)
	}
	return nil
}
