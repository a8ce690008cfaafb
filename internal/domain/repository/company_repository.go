package repository

import (
	"context"

	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
	Count(ctx context.Context) (int, error)
	SoftDelete(ctx context.Context, id string) error
}

// BranchRepository define el puerto de persistencia para Branch (DIP).
type BranchRepository interface {
	Create(ctx context.Context, branch *entity.Branch) error
	GetByID(ctx context.Context, id string) (*entity.Branch, error)
	Update(ctx context.Context, branch *entity.Branch) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Branch, error)
	CountByCompany(ctx context.Context, companyID string) (int, error)
	SoftDelete(ctx context.Context, id string) error
}
