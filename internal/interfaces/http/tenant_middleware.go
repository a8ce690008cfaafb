package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-stock-api/internal/application/tenant"
)

// HeaderTenantDomain header alternativo para indicar el tenant cuando el Host
// no es un dominio registrado (ej. clientes API detrás de un LB genérico).
const HeaderTenantDomain = "X-Tenant-Domain"

// TenantMiddleware resuelve el tenant de la petición (dominio del Host, header
// X-Tenant-Domain, claim del token o membresía actual) y fija tenant_id y
// tenant_schema en c.Locals. Corre después de AuthMiddleware: la resolución
// por dominio pisa el tenant provisional del token.
func TenantMiddleware(resolver *tenant.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := tenant.Request{
			Host:         c.Hostname(),
			HeaderDomain: c.Get(HeaderTenantDomain),
			TokenSchema:  GetTenantSchema(c),
			UserID:       GetUserID(c),
		}
		t, err := resolver.Resolve(c.Context(), req)
		if err != nil {
			return writeDomainError(c, err)
		}
		c.Locals(LocalTenantID, t.ID)
		c.Locals(LocalTenantSchema, t.SchemaName)
		return c.Next()
	}
}
