package dto

import "github.com/jhoicas/erp-stock-api/internal/domain/entity"

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse respuesta de un login exitoso con el contexto de tenant resuelto.
type LoginResponse struct {
	Token        string `json:"token"`
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	TenantID     string `json:"tenant_id"`
	TenantSchema string `json:"tenant_schema"`
	Role         string `json:"role"`
}

// RegisterRequest body para POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// UserResponse representación pública de un usuario (sin hash).
type UserResponse struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// ToUserResponse mapea el usuario de dominio a su representación pública.
func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, Status: u.Status}
}
