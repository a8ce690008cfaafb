package tenant_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-stock-api/internal/application/tenant"
	"github.com/jhoicas/erp-stock-api/internal/domain"
	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Registros globales en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memRegistry struct {
	tenants     map[string]*entity.Tenant // por ID
	domains     map[string]*entity.Domain // por host
	memberships map[string]*entity.Membership
}

type memTenants struct{ reg *memRegistry }

func (m *memTenants) Create(_ context.Context, t *entity.Tenant) error {
	m.reg.tenants[t.ID] = t
	return nil
}

func (m *memTenants) GetByID(_ context.Context, id string) (*entity.Tenant, error) {
	return m.reg.tenants[id], nil
}

func (m *memTenants) GetBySchema(_ context.Context, schema string) (*entity.Tenant, error) {
	for _, t := range m.reg.tenants {
		if t.SchemaName == schema {
			return t, nil
		}
	}
	return nil, nil
}

func (m *memTenants) Update(_ context.Context, t *entity.Tenant) error {
	m.reg.tenants[t.ID] = t
	return nil
}

func (m *memTenants) ListActive(_ context.Context) ([]*entity.Tenant, error) {
	var out []*entity.Tenant
	for _, t := range m.reg.tenants {
		if t.Active {
			out = append(out, t)
		}
	}
	return out, nil
}

type memDomains struct{ reg *memRegistry }

func (m *memDomains) Create(_ context.Context, d *entity.Domain) error {
	m.reg.domains[d.Host] = d
	return nil
}

func (m *memDomains) GetByHost(_ context.Context, host string) (*entity.Domain, error) {
	return m.reg.domains[host], nil
}

func (m *memDomains) ListByTenant(_ context.Context, tenantID string) ([]*entity.Domain, error) {
	var out []*entity.Domain
	for _, d := range m.reg.domains {
		if d.TenantID == tenantID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memDomains) DeleteByTenant(_ context.Context, tenantID string) error {
	for host, d := range m.reg.domains {
		if d.TenantID == tenantID {
			delete(m.reg.domains, host)
		}
	}
	return nil
}

type memMemberships struct{ reg *memRegistry }

func (m *memMemberships) Create(_ context.Context, ms *entity.Membership) error {
	m.reg.memberships[ms.ID] = ms
	return nil
}

func (m *memMemberships) GetByUserAndTenant(_ context.Context, userID, tenantID string) (*entity.Membership, error) {
	for _, ms := range m.reg.memberships {
		if ms.UserID == userID && ms.TenantID == tenantID {
			return ms, nil
		}
	}
	return nil, nil
}

func (m *memMemberships) GetCurrent(_ context.Context, userID string) (*entity.Membership, error) {
	for _, ms := range m.reg.memberships {
		if ms.UserID == userID && ms.CurrentTenant {
			return ms, nil
		}
	}
	return nil, nil
}

func (m *memMemberships) Update(_ context.Context, ms *entity.Membership) error {
	m.reg.memberships[ms.ID] = ms
	return nil
}

func (m *memMemberships) ListByTenant(_ context.Context, _ string, _, _ int) ([]*entity.Membership, error) {
	return nil, nil
}

func (m *memMemberships) DeleteByTenant(_ context.Context, tenantID string) error {
	for id, ms := range m.reg.memberships {
		if ms.TenantID == tenantID {
			delete(m.reg.memberships, id)
		}
	}
	return nil
}

func newRegistry() *memRegistry {
	return &memRegistry{
		tenants:     make(map[string]*entity.Tenant),
		domains:     make(map[string]*entity.Domain),
		memberships: make(map[string]*entity.Membership),
	}
}

func buildResolver(reg *memRegistry) *tenant.Resolver {
	return tenant.NewResolver(&memTenants{reg}, &memDomains{reg}, &memMemberships{reg})
}

func seedTenant(reg *memRegistry, id, schema string, active bool) *entity.Tenant {
	t := &entity.Tenant{ID: id, SchemaName: schema, Name: "Tenant " + id, Active: active}
	reg.tenants[id] = t
	return t
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolve
// ──────────────────────────────────────────────────────────────────────────────

// El dominio del Host gana sobre el claim del token. El puerto y las
// mayúsculas del Host no importan.
func TestResolve_PorDominioDelHost(t *testing.T) {
	reg := newRegistry()
	seedTenant(reg, "t-1", "acme", true)
	seedTenant(reg, "t-2", "globex", true)
	reg.domains["acme.example.com"] = &entity.Domain{ID: "d-1", TenantID: "t-1", Host: "acme.example.com", IsPrimary: true}
	r := buildResolver(reg)

	got, err := r.Resolve(context.Background(), tenant.Request{
		Host:        "ACME.Example.com:8080",
		TokenSchema: "globex",
	})
	require.NoError(t, err)
	assert.Equal(t, "t-1", got.ID, "el dominio pisa el claim del token")
}

func TestResolve_PorHeader(t *testing.T) {
	reg := newRegistry()
	seedTenant(reg, "t-1", "acme", true)
	reg.domains["acme.example.com"] = &entity.Domain{ID: "d-1", TenantID: "t-1", Host: "acme.example.com"}
	r := buildResolver(reg)

	got, err := r.Resolve(context.Background(), tenant.Request{
		Host:         "api.lb.internal",
		HeaderDomain: "acme.example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "t-1", got.ID)
}

func TestResolve_PorClaimDelToken(t *testing.T) {
	reg := newRegistry()
	seedTenant(reg, "t-1", "acme", true)
	r := buildResolver(reg)

	got, err := r.Resolve(context.Background(), tenant.Request{TokenSchema: "acme"})
	require.NoError(t, err)
	assert.Equal(t, "acme", got.SchemaName)
}

// Último recurso: la membresía marcada como tenant actual del usuario.
func TestResolve_PorMembresiaActual(t *testing.T) {
	reg := newRegistry()
	seedTenant(reg, "t-1", "acme", true)
	reg.memberships["m-1"] = &entity.Membership{
		ID: "m-1", UserID: "user-1", TenantID: "t-1",
		Role: entity.RoleUser, Active: true, CurrentTenant: true,
	}
	r := buildResolver(reg)

	got, err := r.Resolve(context.Background(), tenant.Request{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, "t-1", got.ID)
}

func TestResolve_SinFuentes(t *testing.T) {
	r := buildResolver(newRegistry())
	_, err := r.Resolve(context.Background(), tenant.Request{})
	assert.ErrorIs(t, err, domain.ErrTenantNotIdentified)
}

// Un tenant resuelto pero desactivado corta con su propio error: inactivo
// no es invisible.
func TestResolve_TenantInactivo(t *testing.T) {
	reg := newRegistry()
	seedTenant(reg, "t-1", "acme", false)
	r := buildResolver(reg)

	_, err := r.Resolve(context.Background(), tenant.Request{TokenSchema: "acme"})
	assert.ErrorIs(t, err, domain.ErrTenantInactive)
}
