package authz_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-stock-api/internal/application/authz"
	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
)

// memCustomRoles registro de roles custom en memoria, indexado por código.
type memCustomRoles struct {
	roles map[string]*entity.CustomRole
}

func (m *memCustomRoles) Create(_ context.Context, role *entity.CustomRole) error {
	m.roles[role.Code] = role
	return nil
}

func (m *memCustomRoles) GetByCode(_ context.Context, _, code string) (*entity.CustomRole, error) {
	return m.roles[code], nil
}

func (m *memCustomRoles) Update(_ context.Context, role *entity.CustomRole) error {
	m.roles[role.Code] = role
	return nil
}

func (m *memCustomRoles) ListByTenant(_ context.Context, _ string) ([]*entity.CustomRole, error) {
	out := make([]*entity.CustomRole, 0, len(m.roles))
	for _, r := range m.roles {
		out = append(out, r)
	}
	return out, nil
}

func newResolver(roles ...*entity.CustomRole) *authz.Resolver {
	m := &memCustomRoles{roles: make(map[string]*entity.CustomRole)}
	for _, r := range roles {
		m.roles[r.Code] = r
	}
	return authz.NewResolver(m)
}

// El admin del tenant puede todo sobre cualquier módulo.
func TestAllowed_AdminPuedeTodo(t *testing.T) {
	r := newResolver()
	ctx := context.Background()

	for _, module := range []string{authz.ModuleStock, authz.ModuleLocations, authz.ModuleCompanies, authz.ModuleReports} {
		for _, action := range []entity.Action{entity.ActionView, entity.ActionAdd, entity.ActionChange, entity.ActionDelete} {
			ok, err := r.Allowed(ctx, "t-1", entity.RoleAdmin, module, action)
			require.NoError(t, err)
			assert.True(t, ok, "admin debe poder %s sobre %s", action, module)
		}
	}
}

// Los roles de sistema no-admin tienen un conjunto fijo de acciones.
func TestAllowed_RolesDeSistema(t *testing.T) {
	r := newResolver()
	ctx := context.Background()

	cases := []struct {
		role    string
		action  entity.Action
		allowed bool
	}{
		{entity.RoleManager, entity.ActionView, true},
		{entity.RoleManager, entity.ActionChange, true},
		{entity.RoleManager, entity.ActionDelete, false},
		{entity.RoleUser, entity.ActionAdd, true},
		{entity.RoleUser, entity.ActionChange, false},
		{entity.RoleViewer, entity.ActionView, true},
		{entity.RoleViewer, entity.ActionAdd, false},
	}
	for _, tc := range cases {
		ok, err := r.Allowed(ctx, "t-1", tc.role, authz.ModuleStock, tc.action)
		require.NoError(t, err)
		assert.Equal(t, tc.allowed, ok, "%s / %s", tc.role, tc.action)
	}
}

// Un rol custom solo permite los módulos y acciones que declara.
func TestAllowed_RolCustom(t *testing.T) {
	r := newResolver(&entity.CustomRole{
		ID:       "cr-1",
		TenantID: "t-1",
		Code:     "almacenista",
		Active:   true,
		Permissions: []entity.ModulePermission{
			{ModuleCode: authz.ModuleStock, Actions: []entity.Action{entity.ActionView, entity.ActionAdd}},
		},
	})
	ctx := context.Background()

	ok, err := r.Allowed(ctx, "t-1", "almacenista", authz.ModuleStock, entity.ActionAdd)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Allowed(ctx, "t-1", "almacenista", authz.ModuleStock, entity.ActionDelete)
	require.NoError(t, err)
	assert.False(t, ok, "acción no declarada se niega")

	ok, err = r.Allowed(ctx, "t-1", "almacenista", authz.ModuleCompanies, entity.ActionView)
	require.NoError(t, err)
	assert.False(t, ok, "módulo no declarado se niega")
}

// Un rol desconocido o desactivado solo conserva métodos seguros.
func TestAllowed_RolDesconocidoSoloLectura(t *testing.T) {
	inactive := &entity.CustomRole{
		ID:       "cr-2",
		TenantID: "t-1",
		Code:     "apagado",
		Active:   false,
		Permissions: []entity.ModulePermission{
			{ModuleCode: authz.ModuleStock, Actions: []entity.Action{entity.ActionDelete}},
		},
	}
	r := newResolver(inactive)
	ctx := context.Background()

	for _, code := range []string{"inexistente", "apagado"} {
		ok, err := r.Allowed(ctx, "t-1", code, authz.ModuleStock, entity.ActionView)
		require.NoError(t, err)
		assert.True(t, ok, "%s: la lectura se mantiene", code)

		ok, err = r.Allowed(ctx, "t-1", code, authz.ModuleStock, entity.ActionDelete)
		require.NoError(t, err)
		assert.False(t, ok, "%s: escritura negada", code)
	}
}

func TestAllowed_SinRol(t *testing.T) {
	r := newResolver()
	ok, err := r.Allowed(context.Background(), "t-1", "", authz.ModuleStock, entity.ActionView)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestActionForMethod(t *testing.T) {
	cases := map[string]entity.Action{
		http.MethodGet:    entity.ActionView,
		http.MethodHead:   entity.ActionView,
		http.MethodPost:   entity.ActionAdd,
		http.MethodPut:    entity.ActionChange,
		http.MethodPatch:  entity.ActionChange,
		http.MethodDelete: entity.ActionDelete,
	}
	for method, want := range cases {
		got, ok := authz.ActionForMethod(method)
		require.True(t, ok, method)
		assert.Equal(t, want, got, method)
	}

	_, ok := authz.ActionForMethod(http.MethodOptions)
	assert.False(t, ok, "métodos no mapeados se niegan")
}

func TestIsTenantAdmin(t *testing.T) {
	assert.True(t, authz.IsTenantAdmin(entity.RoleAdmin))
	assert.False(t, authz.IsTenantAdmin(entity.RoleManager))
	assert.False(t, authz.IsTenantAdmin("almacenista"))
}
