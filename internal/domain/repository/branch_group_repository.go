package repository

import (
	"context"

	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
)

// BranchGroupRepository define el puerto de persistencia para BranchGroup.
// Las implementaciones cargan BranchIDs junto con el grupo.
type BranchGroupRepository interface {
	Create(ctx context.Context, group *entity.BranchGroup) error
	GetByID(ctx context.Context, id string) (*entity.BranchGroup, error)
	GetByCode(ctx context.Context, code string) (*entity.BranchGroup, error)
	Update(ctx context.Context, group *entity.BranchGroup) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.BranchGroup, error)
	// SetBranches reemplaza la membresía del grupo.
	SetBranches(ctx context.Context, groupID string, branchIDs []string) error
	SoftDelete(ctx context.Context, id string) error
}
