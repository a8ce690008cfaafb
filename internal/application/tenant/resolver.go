package tenant

import (
	"context"
	"strings"

	"github.com/jhoicas/erp-stock-api/internal/domain"
	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
	"github.com/jhoicas/erp-stock-api/internal/domain/repository"
)

// Request insumos de la resolución de tenant para una petición entrante.
// Los campos se llenan con lo que haya disponible; la prioridad la aplica Resolve.
type Request struct {
	Host         string // Host de la petición (puede incluir puerto)
	HeaderDomain string // valor del header X-Tenant-Domain
	TokenSchema  string // claim tenant_schema del JWT, si hay token
	UserID       string // sub del JWT, si hay token
}

// Resolver determina el tenant de una petición. Orden de resolución:
// dominio del Host, header X-Tenant-Domain, claim del token y por último
// la membresía marcada como tenant actual del usuario.
type Resolver struct {
	tenants     repository.TenantRepository
	domains     repository.DomainRepository
	memberships repository.MembershipRepository
}

// NewResolver construye el resolver sobre los registros globales.
func NewResolver(
	tenants repository.TenantRepository,
	domains repository.DomainRepository,
	memberships repository.MembershipRepository,
) *Resolver {
	return &Resolver{tenants: tenants, domains: domains, memberships: memberships}
}

// Resolve devuelve el tenant de la petición o ErrTenantNotIdentified si
// ninguna fuente lo determina. Un tenant resuelto pero inactivo corta con
// ErrTenantInactive: inactivo no es invisible.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*entity.Tenant, error) {
	if host := normalizeHost(req.Host); host != "" {
		t, err := r.byHost(ctx, host)
		if err != nil {
			return nil, err
		}
		if t != nil {
			return r.checkActive(t)
		}
	}

	if host := normalizeHost(req.HeaderDomain); host != "" {
		t, err := r.byHost(ctx, host)
		if err != nil {
			return nil, err
		}
		if t != nil {
			return r.checkActive(t)
		}
	}

	if req.TokenSchema != "" {
		t, err := r.tenants.GetBySchema(ctx, req.TokenSchema)
		if err != nil {
			return nil, err
		}
		if t != nil {
			return r.checkActive(t)
		}
	}

	if req.UserID != "" {
		m, err := r.memberships.GetCurrent(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		if m != nil && m.Active {
			t, err := r.tenants.GetByID(ctx, m.TenantID)
			if err != nil {
				return nil, err
			}
			if t != nil {
				return r.checkActive(t)
			}
		}
	}

	return nil, domain.ErrTenantNotIdentified
}

func (r *Resolver) byHost(ctx context.Context, host string) (*entity.Tenant, error) {
	d, err := r.domains.GetByHost(ctx, host)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	return r.tenants.GetByID(ctx, d.TenantID)
}

func (r *Resolver) checkActive(t *entity.Tenant) (*entity.Tenant, error) {
	if !t.Active {
		return nil, domain.ErrTenantInactive
	}
	return t, nil
}

// normalizeHost limpia el host: minúsculas y sin puerto.
func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return host
}
