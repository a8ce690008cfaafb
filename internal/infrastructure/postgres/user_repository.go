package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-stock-api/internal/domain"
	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
	"github.com/jhoicas/erp-stock-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, email, password_hash, name, status, created_at, updated_at`

// UserRepo implementación de UserRepository sobre el schema public.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserta el usuario.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `INSERT INTO public.users (id, email, password_hash, name, status) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, u.ID, u.Email, u.PasswordHash, u.Name, u.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepo) getOne(ctx context.Context, query string, args ...any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByID obtiene un usuario por id, o nil si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM public.users WHERE id = $1`, id)
}

// GetByEmail obtiene un usuario por email, o nil si no existe.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM public.users WHERE email = $1`, email)
}

// Update persiste los campos mutables del usuario.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	query := `
		UPDATE public.users SET email = $2, password_hash = $3, name = $4, status = $5, updated_at = now()
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, u.ID, u.Email, u.PasswordHash, u.Name, u.Status)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}
