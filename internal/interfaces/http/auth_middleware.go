package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-stock-api/internal/application/dto"
	"github.com/jhoicas/erp-stock-api/pkg/jwt"
)

// Locals keys pobladas por los middlewares de auth y tenant.
const (
	LocalUserID       = "user_id"
	LocalTenantID     = "tenant_id"
	LocalTenantSchema = "tenant_schema"
	LocalRole         = "role"
)

// AuthMiddleware valida el Bearer Token JWT y extrae los claims a c.Locals.
// El tenant del token es provisional: TenantMiddleware puede reescribirlo
// según el dominio de la petición.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, claims.Subject)
		c.Locals(LocalTenantID, claims.TenantID)
		c.Locals(LocalTenantSchema, claims.TenantSchema)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetTenantID devuelve el TenantID resuelto para la petición.
func GetTenantID(c *fiber.Ctx) string { return localString(c, LocalTenantID) }

// GetTenantSchema devuelve el schema del tenant resuelto para la petición.
func GetTenantSchema(c *fiber.Ctx) string { return localString(c, LocalTenantSchema) }

// GetRole devuelve el código de rol del caller en el tenant actual.
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }
