package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-stock-api/internal/application/auth"
	"github.com/jhoicas/erp-stock-api/internal/application/dto"
)

// AuthHandler maneja autenticación (público).
type AuthHandler struct {
	uc *auth.UseCase
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *auth.UseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Valida credenciales y emite un JWT con el contexto del tenant actual del usuario.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	session, err := h.uc.Login(c.Context(), auth.LoginInput{Email: in.Email, Password: in.Password})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.LoginResponse{
		Token:        session.Token,
		UserID:       session.UserID,
		Email:        session.Email,
		Name:         session.Name,
		TenantID:     session.TenantID,
		TenantSchema: session.TenantSchema,
		Role:         session.Role,
	})
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password, name"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	user, err := h.uc.Register(c.Context(), auth.RegisterInput{
		Email:    in.Email,
		Password: in.Password,
		Name:     in.Name,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToUserResponse(user))
}
