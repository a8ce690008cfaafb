package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-stock-api/internal/application/dto"
	"github.com/jhoicas/erp-stock-api/internal/domain"
)

// writeDomainError mapea errores de dominio a status HTTP con cuerpo uniforme.
// Validaciones y precondiciones de ubicación: 400. Conflictos de estado y
// stock insuficiente: 409. Tenant no identificado: 400; inactivo: 403.
// Errores no reconocidos: 500 sin filtrar detalles internos.
func writeDomainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidKind):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrInactiveLocation),
		errors.Is(err, domain.ErrInboundForbidden),
		errors.Is(err, domain.ErrOutboundForbidden),
		errors.Is(err, domain.ErrCompanyMismatch),
		errors.Is(err, domain.ErrSameLocationTransfer):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "PRECONDITION", Message: err.Error()})
	case errors.Is(err, domain.ErrTenantNotIdentified):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "TENANT_NOT_IDENTIFIED", Message: err.Error()})
	case errors.Is(err, domain.ErrTenantInactive):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "TENANT_INACTIVE", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound),
		// un saldo inexistente se reporta como recurso ausente (404), no como
		// conflicto de estado: el mismo error sale de lecturas (lookup) y de
		// operaciones, y el cliente lo corrige creando stock, no reintentando
		errors.Is(err, domain.ErrBalanceNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrReservationNotActive),
		errors.Is(err, domain.ErrAlreadyReversed),
		errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrQuotaExceeded):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "QUOTA_EXCEEDED", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

// badBody respuesta uniforme para cuerpos que no parsean.
func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
