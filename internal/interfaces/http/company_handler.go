package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-stock-api/internal/application/dto"
	"github.com/jhoicas/erp-stock-api/internal/application/usecase"
)

// CompanyHandler CRUD de empresas y sucursales (sujeto a cuotas del plan).
type CompanyHandler struct {
	uc *usecase.CompanyUseCase
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// CreateCompany godoc
// @Summary      Crear empresa
// @Description  Respeta la cuota de empresas del plan del tenant.
// @Tags         companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CompanyRequest  true  "name"
// @Success      201   {object}  dto.CompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/companies [post]
func (h *CompanyHandler) CreateCompany(c *fiber.Ctx) error {
	var in dto.CompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	company, err := h.uc.CreateCompany(c.Context(), GetTenantSchema(c), GetTenantID(c), usecase.CreateCompanyInput{
		Name:    in.Name,
		TaxID:   in.TaxID,
		Address: in.Address,
		City:    in.City,
		Phone:   in.Phone,
		Email:   in.Email,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToCompanyResponse(company))
}

// UpdateCompany godoc
// @Summary      Actualizar empresa
// @Tags         companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la empresa"
// @Param        body  body  dto.CompanyRequest  true  "campos actualizables"
// @Success      200   {object}  dto.CompanyResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [put]
func (h *CompanyHandler) UpdateCompany(c *fiber.Ctx) error {
	var in dto.CompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	company, err := h.uc.UpdateCompany(c.Context(), GetTenantSchema(c), c.Params("id"), usecase.CreateCompanyInput{
		Name:    in.Name,
		TaxID:   in.TaxID,
		Address: in.Address,
		City:    in.City,
		Phone:   in.Phone,
		Email:   in.Email,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ToCompanyResponse(company))
}

// GetCompany godoc
// @Summary      Obtener empresa por ID
// @Tags         companies
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [get]
func (h *CompanyHandler) GetCompany(c *fiber.Ctx) error {
	company, err := h.uc.GetCompany(c.Context(), GetTenantSchema(c), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ToCompanyResponse(company))
}

// ListCompanies godoc
// @Summary      Listar empresas del tenant
// @Tags         companies
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CompanyResponse
// @Router       /api/companies [get]
func (h *CompanyHandler) ListCompanies(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.Normalize()

	list, err := h.uc.ListCompanies(c.Context(), GetTenantSchema(c), page.Limit, page.Offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"companies": dto.ToCompanyResponses(list),
		"page":      dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// DeleteCompany godoc
// @Summary      Eliminar empresa (soft delete)
// @Tags         companies
// @Security     Bearer
// @Param        id  path  string  true  "ID de la empresa"
// @Success      204  "Sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/{id} [delete]
func (h *CompanyHandler) DeleteCompany(c *fiber.Ctx) error {
	if err := h.uc.DeleteCompany(c.Context(), GetTenantSchema(c), c.Params("id")); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateBranch godoc
// @Summary      Crear sucursal
// @Description  Respeta la cuota de sucursales del plan del tenant.
// @Tags         companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BranchRequest  true  "company_id, name, code"
// @Success      201   {object}  dto.BranchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/companies/branches [post]
func (h *CompanyHandler) CreateBranch(c *fiber.Ctx) error {
	var in dto.BranchRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	branch, err := h.uc.CreateBranch(c.Context(), GetTenantSchema(c), GetTenantID(c), usecase.CreateBranchInput{
		CompanyID: in.CompanyID,
		Name:      in.Name,
		Code:      in.Code,
		Address:   in.Address,
		City:      in.City,
		Phone:     in.Phone,
		Email:     in.Email,
		IsMain:    in.IsMain,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToBranchResponse(branch))
}

// UpdateBranch godoc
// @Summary      Actualizar sucursal
// @Tags         companies
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID de la sucursal"
// @Param        body  body  dto.BranchRequest  true  "campos actualizables"
// @Success      200   {object}  dto.BranchResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/companies/branches/{id} [put]
func (h *CompanyHandler) UpdateBranch(c *fiber.Ctx) error {
	var in dto.BranchRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	branch, err := h.uc.UpdateBranch(c.Context(), GetTenantSchema(c), c.Params("id"), usecase.CreateBranchInput{
		CompanyID: in.CompanyID,
		Name:      in.Name,
		Code:      in.Code,
		Address:   in.Address,
		City:      in.City,
		Phone:     in.Phone,
		Email:     in.Email,
		IsMain:    in.IsMain,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ToBranchResponse(branch))
}

// ListBranches godoc
// @Summary      Listar sucursales de una empresa
// @Tags         companies
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la empresa"
// @Success      200  {array}  dto.BranchResponse
// @Router       /api/companies/{id}/branches [get]
func (h *CompanyHandler) ListBranches(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.Normalize()

	list, err := h.uc.ListBranches(c.Context(), GetTenantSchema(c), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"branches": dto.ToBranchResponses(list),
		"page":     dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// DeleteBranch godoc
// @Summary      Eliminar sucursal (soft delete)
// @Tags         companies
// @Security     Bearer
// @Param        id  path  string  true  "ID de la sucursal"
// @Success      204  "Sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/companies/branches/{id} [delete]
func (h *CompanyHandler) DeleteBranch(c *fiber.Ctx) error {
	if err := h.uc.DeleteBranch(c.Context(), GetTenantSchema(c), c.Params("id")); err != nil {
		return writeDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
