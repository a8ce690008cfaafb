package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-stock-api/internal/application/dto"
	"github.com/jhoicas/erp-stock-api/internal/application/usecase"
)

// TenantHandler aprovisionamiento de tenants y membresías.
type TenantHandler struct {
	uc *usecase.TenantUseCase
}

// NewTenantHandler construye el handler.
func NewTenantHandler(uc *usecase.TenantUseCase) *TenantHandler {
	return &TenantHandler{uc: uc}
}

// Create godoc
// @Summary      Aprovisionar tenant
// @Description  Registra el tenant, crea su schema con el DDL base, el dominio primario, la suscripción del plan y deja al caller como admin.
// @Tags         tenants
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTenantRequest  true  "name, schema_name"
// @Success      201   {object}  dto.TenantResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tenants [post]
func (h *TenantHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTenantRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	tenant, err := h.uc.CreateTenant(c.Context(), usecase.CreateTenantInput{
		Name:        in.Name,
		SchemaName:  in.SchemaName,
		PrimaryHost: in.PrimaryHost,
		Plan:        in.Plan,
		AdminUserID: GetUserID(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToTenantResponse(tenant))
}

// AddMembership godoc
// @Summary      Vincular usuario al tenant
// @Tags         tenants
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del tenant"
// @Param        body  body  dto.AddMembershipRequest  true  "user_id, role"
// @Success      201   {object}  dto.MembershipResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tenants/{id}/memberships [post]
func (h *TenantHandler) AddMembership(c *fiber.Ctx) error {
	var in dto.AddMembershipRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	m, err := h.uc.AddMembership(c.Context(), c.Params("id"), usecase.AddMembershipInput{
		UserID: in.UserID,
		Role:   in.Role,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMembershipResponse(m))
}

// Activate godoc
// @Summary      Activar tenant
// @Tags         tenants
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del tenant"
// @Success      200  {object}  dto.TenantResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tenants/{id}/activate [post]
func (h *TenantHandler) Activate(c *fiber.Ctx) error {
	tenant, err := h.uc.SetActive(c.Context(), c.Params("id"), true)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ToTenantResponse(tenant))
}

// Deactivate godoc
// @Summary      Desactivar tenant
// @Description  El tenant deja de resolverse pero sus datos se conservan.
// @Tags         tenants
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del tenant"
// @Success      200  {object}  dto.TenantResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tenants/{id}/deactivate [post]
func (h *TenantHandler) Deactivate(c *fiber.Ctx) error {
	tenant, err := h.uc.SetActive(c.Context(), c.Params("id"), false)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ToTenantResponse(tenant))
}
