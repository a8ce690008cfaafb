package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-stock-api/internal/application/dto"
	"github.com/jhoicas/erp-stock-api/internal/application/usecase"
)

// BranchGroupHandler CRUD de grupos de sucursales.
type BranchGroupHandler struct {
	uc *usecase.BranchGroupUseCase
}

// NewBranchGroupHandler construye el handler.
func NewBranchGroupHandler(uc *usecase.BranchGroupUseCase) *BranchGroupHandler {
	return &BranchGroupHandler{uc: uc}
}

// Create godoc
// @Summary      Crear grupo de sucursales
// @Description  Todas las sucursales deben pertenecer a la empresa del grupo.
// @Tags         branch-groups
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBranchGroupRequest  true  "company_id, name, code, allocation_rule, branch_ids"
// @Success      201   {object}  dto.BranchGroupResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/branch-groups [post]
func (h *BranchGroupHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBranchGroupRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	group, err := h.uc.Create(c.Context(), GetTenantSchema(c), usecase.CreateGroupInput{
		CompanyID:             in.CompanyID,
		Name:                  in.Name,
		Code:                  in.Code,
		AllocationRule:        in.AllocationRule,
		AllowCrossFulfillment: in.AllowCrossFulfillment,
		BranchIDs:             in.BranchIDs,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToBranchGroupResponse(group))
}

// Update godoc
// @Summary      Actualizar grupo de sucursales
// @Description  El código y la empresa no cambian después de creado.
// @Tags         branch-groups
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID del grupo"
// @Param        body  body  dto.UpdateBranchGroupRequest  true  "campos actualizables"
// @Success      200   {object}  dto.BranchGroupResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/branch-groups/{id} [put]
func (h *BranchGroupHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateBranchGroupRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	group, err := h.uc.Update(c.Context(), GetTenantSchema(c), c.Params("id"), usecase.UpdateGroupInput{
		Name:                  in.Name,
		AllocationRule:        in.AllocationRule,
		AllowCrossFulfillment: in.AllowCrossFulfillment,
		Active:                in.Active,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ToBranchGroupResponse(group))
}

// SetBranches godoc
// @Summary      Reemplazar las sucursales del grupo
// @Tags         branch-groups
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del grupo"
// @Param        body  body  dto.SetBranchesRequest  true  "branch_ids"
// @Success      200   {object}  dto.BranchGroupResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/branch-groups/{id}/branches [put]
func (h *BranchGroupHandler) SetBranches(c *fiber.Ctx) error {
	var in dto.SetBranchesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	group, err := h.uc.SetBranches(c.Context(), GetTenantSchema(c), c.Params("id"), in.BranchIDs)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ToBranchGroupResponse(group))
}

// Get godoc
// @Summary      Obtener grupo por ID
// @Tags         branch-groups
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del grupo"
// @Success      200  {object}  dto.BranchGroupResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/branch-groups/{id} [get]
func (h *BranchGroupHandler) Get(c *fiber.Ctx) error {
	group, err := h.uc.Get(c.Context(), GetTenantSchema(c), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ToBranchGroupResponse(group))
}

// List godoc
// @Summary      Listar grupos de una empresa
// @Tags         branch-groups
// @Security     Bearer
// @Produce      json
// @Param        company_id  query  string  true  "ID de la empresa"
// @Success      200  {array}  dto.BranchGroupResponse
// @Router       /api/stock/branch-groups [get]
func (h *BranchGroupHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.Normalize()

	list, err := h.uc.ListByCompany(c.Context(), GetTenantSchema(c), c.Query("company_id"), page.Limit, page.Offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"groups": dto.ToBranchGroupResponses(list),
		"page":   dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// Delete godoc
// @Summary      Eliminar grupo (soft delete)
// @Tags         branch-groups
// @Security     Bearer
// @Param        id  path  string  true  "ID del grupo"
// @Success      204  "Sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/branch-groups/{id} [delete]
func (h *BranchGroupHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetTenantSchema(c), c.Params("id")); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
