package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-stock-api/internal/application/dto"
	"github.com/jhoicas/erp-stock-api/internal/application/usecase"
)

// RoleHandler CRUD de roles custom del tenant (solo admin).
type RoleHandler struct {
	uc *usecase.RoleUseCase
}

// NewRoleHandler construye el handler.
func NewRoleHandler(uc *usecase.RoleUseCase) *RoleHandler {
	return &RoleHandler{uc: uc}
}

// Create godoc
// @Summary      Crear rol custom
// @Description  Los códigos de sistema (admin, manager, operator, viewer) están reservados.
// @Tags         roles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRoleRequest  true  "code, name, permissions"
// @Success      201   {object}  dto.RoleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/roles [post]
func (h *RoleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	role, err := h.uc.Create(c.Context(), GetTenantID(c), usecase.CreateRoleInput{
		Code:        in.Code,
		Name:        in.Name,
		Permissions: dto.ToModulePermissions(in.Permissions),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToRoleResponse(role))
}

// Update godoc
// @Summary      Actualizar rol custom
// @Tags         roles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        code  path  string                 true  "Código del rol"
// @Param        body  body  dto.UpdateRoleRequest  true  "name, active, permissions"
// @Success      200   {object}  dto.RoleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/roles/{code} [put]
func (h *RoleHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	role, err := h.uc.Update(c.Context(), GetTenantID(c), c.Params("code"), usecase.UpdateRoleInput{
		Name:        in.Name,
		Active:      in.Active,
		Permissions: dto.ToModulePermissions(in.Permissions),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ToRoleResponse(role))
}

// List godoc
// @Summary      Listar roles custom del tenant
// @Tags         roles
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.RoleResponse
// @Router       /api/roles [get]
func (h *RoleHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), GetTenantID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ToRoleResponses(list))
}
