package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-stock-api/internal/application/authz"
	"github.com/jhoicas/erp-stock-api/internal/application/dto"
)

// RequirePermission exige que el rol del caller permita sobre el módulo la
// acción implícita en el método HTTP (GET=view, POST=add, PUT/PATCH=change,
// DELETE=delete). Corre después de AuthMiddleware y TenantMiddleware.
func RequirePermission(module string, resolver *authz.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		tenantID := GetTenantID(c)
		if role == "" || tenantID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
		}
		action, ok := authz.ActionForMethod(c.Method())
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "método no permitido"})
		}
		allowed, err := resolver.Allowed(c.Context(), tenantID, role, module, action)
		if err != nil {
			return writeDomainError(c, err)
		}
		if !allowed {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "permiso insuficiente"})
		}
		return c.Next()
	}
}

// RequireAdmin exige rol admin del tenant (operaciones administrativas).
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !authz.IsTenantAdmin(GetRole(c)) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "requiere rol admin"})
		}
		return c.Next()
	}
}
