package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-stock-api/internal/application/dto"
	"github.com/jhoicas/erp-stock-api/internal/application/usecase"
	"github.com/jhoicas/erp-stock-api/internal/domain/repository"
)

// LocationHandler CRUD de ubicaciones físicas de stock.
type LocationHandler struct {
	uc *usecase.LocationUseCase
}

// NewLocationHandler construye el handler.
func NewLocationHandler(uc *usecase.LocationUseCase) *LocationHandler {
	return &LocationHandler{uc: uc}
}

// Create godoc
// @Summary      Crear ubicación
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLocationRequest  true  "company_id, name, code, kind"
// @Success      201   {object}  dto.LocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/locations [post]
func (h *LocationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	loc, err := h.uc.Create(c.Context(), GetTenantSchema(c), usecase.CreateLocationInput{
		CompanyID:      in.CompanyID,
		BranchID:       in.BranchID,
		Name:           in.Name,
		Code:           in.Code,
		Kind:           in.Kind,
		Address:        in.Address,
		City:           in.City,
		State:          in.State,
		Country:        in.Country,
		ZipCode:        in.ZipCode,
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
		AllowsInbound:  in.AllowsInbound,
		AllowsOutbound: in.AllowsOutbound,
		AllowsTransfer: in.AllowsTransfer,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToLocationResponse(loc))
}

// Update godoc
// @Summary      Actualizar ubicación
// @Description  El código y el tipo no cambian después de creada.
// @Tags         locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la ubicación"
// @Param        body  body  dto.UpdateLocationRequest  true  "campos actualizables"
// @Success      200   {object}  dto.LocationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/locations/{id} [put]
func (h *LocationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	loc, err := h.uc.Update(c.Context(), GetTenantSchema(c), c.Params("id"), usecase.UpdateLocationInput{
		Name:           in.Name,
		Address:        in.Address,
		City:           in.City,
		State:          in.State,
		Country:        in.Country,
		ZipCode:        in.ZipCode,
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
		AllowsInbound:  in.AllowsInbound,
		AllowsOutbound: in.AllowsOutbound,
		AllowsTransfer: in.AllowsTransfer,
		Active:         in.Active,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ToLocationResponse(loc))
}

// Get godoc
// @Summary      Obtener ubicación por ID
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.LocationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/locations/{id} [get]
func (h *LocationHandler) Get(c *fiber.Ctx) error {
	loc, err := h.uc.Get(c.Context(), GetTenantSchema(c), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ToLocationResponse(loc))
}

// List godoc
// @Summary      Listar ubicaciones
// @Tags         locations
// @Security     Bearer
// @Produce      json
// @Param        company_id  query  string  false  "Filtrar por empresa"
// @Param        branch_id   query  string  false  "Filtrar por sucursal"
// @Param        kind        query  string  false  "WAREHOUSE, STORE, TRANSIT, VIRTUAL"
// @Param        only_active query  bool    false  "Solo ubicaciones activas"
// @Success      200  {array}  dto.LocationResponse
// @Router       /api/stock/locations [get]
func (h *LocationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.Normalize()

	list, err := h.uc.List(c.Context(), GetTenantSchema(c), repository.LocationFilter{
		CompanyID:  c.Query("company_id"),
		BranchID:   c.Query("branch_id"),
		Kind:       c.Query("kind"),
		OnlyActive: c.QueryBool("only_active"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"locations": dto.ToLocationResponses(list),
		"page":      dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// Delete godoc
// @Summary      Eliminar ubicación (soft delete)
// @Tags         locations
// @Security     Bearer
// @Param        id  path  string  true  "ID de la ubicación"
// @Success      204  "Sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/locations/{id} [delete]
func (h *LocationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), GetTenantSchema(c), c.Params("id")); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
