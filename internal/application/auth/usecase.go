package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/erp-stock-api/internal/domain"
	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
	"github.com/jhoicas/erp-stock-api/internal/domain/repository"
	"github.com/jhoicas/erp-stock-api/pkg/jwt"

	"github.com/google/uuid"
)

// JWTConfig parámetros para emisión de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase maneja autenticación de usuarios globales y emisión de tokens
// con contexto de tenant (membresía actual del usuario).
type UseCase struct {
	users       repository.UserRepository
	memberships repository.MembershipRepository
	tenants     repository.TenantRepository
	jwtCfg      JWTConfig
}

// NewUseCase crea el caso de uso de autenticación.
func NewUseCase(
	users repository.UserRepository,
	memberships repository.MembershipRepository,
	tenants repository.TenantRepository,
	jwtCfg JWTConfig,
) *UseCase {
	return &UseCase{
		users:       users,
		memberships: memberships,
		tenants:     tenants,
		jwtCfg:      jwtCfg,
	}
}

// LoginInput datos para iniciar sesión.
type LoginInput struct {
	Email    string
	Password string
}

// Session resultado de un login exitoso: token y contexto de tenant resuelto.
type Session struct {
	Token        string
	UserID       string
	Email        string
	Name         string
	TenantID     string
	TenantSchema string
	Role         string
}

// Login valida credenciales y emite un JWT. El token incluye tenant_id,
// tenant_schema y role de la membresía actual del usuario; un usuario sin
// membresía activa no puede iniciar sesión.
func (uc *UseCase) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	user, err := uc.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Mismo error que password incorrecto para no filtrar existencia
		return nil, domain.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}

	membership, err := uc.memberships.GetCurrent(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if membership == nil || !membership.Active {
		return nil, domain.ErrForbidden
	}

	tenant, err := uc.tenants.GetByID(ctx, membership.TenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil || !tenant.Active {
		return nil, domain.ErrTenantInactive
	}

	token, err := jwt.Generate(
		uc.jwtCfg.Secret,
		user.ID,
		tenant.ID,
		tenant.SchemaName,
		membership.Role,
		uc.jwtCfg.Issuer,
		uc.jwtCfg.ExpMinutes,
	)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:        token,
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.Name,
		TenantID:     tenant.ID,
		TenantSchema: tenant.SchemaName,
		Role:         membership.Role,
	}, nil
}

// RegisterInput datos para registrar un usuario global.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// Register crea un usuario global con password hasheado. La vinculación a un
// tenant (Membership) se administra por separado.
func (uc *UseCase) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Status:       entity.UserStatusActive,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
