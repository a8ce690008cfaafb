package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-stock-api/internal/application/stock"
	"github.com/jhoicas/erp-stock-api/internal/domain"
	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
)

// BranchGroupUseCase administración de grupos de sucursales.
type BranchGroupUseCase struct {
	tx stock.TxRunner
}

// NewBranchGroupUseCase crea el caso de uso.
func NewBranchGroupUseCase(tx stock.TxRunner) *BranchGroupUseCase {
	return &BranchGroupUseCase{tx: tx}
}

// CreateGroupInput datos para crear un grupo de sucursales.
type CreateGroupInput struct {
	CompanyID             string
	Name                  string
	Code                  string
	AllocationRule        string
	AllowCrossFulfillment bool
	BranchIDs             []string
}

// Create valida y persiste un grupo. Todas las sucursales deben pertenecer a
// la empresa del grupo y el código debe ser único en el tenant.
func (uc *BranchGroupUseCase) Create(ctx context.Context, schema string, in CreateGroupInput) (*entity.BranchGroup, error) {
	if in.CompanyID == "" || in.Name == "" || in.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidAllocationRule(in.AllocationRule) {
		return nil, domain.ErrInvalidInput
	}

	group := &entity.BranchGroup{
		ID:                    uuid.NewString(),
		CompanyID:             in.CompanyID,
		Name:                  in.Name,
		Code:                  in.Code,
		AllocationRule:        in.AllocationRule,
		AllowCrossFulfillment: in.AllowCrossFulfillment,
		Active:                true,
		BranchIDs:             in.BranchIDs,
	}

	err := uc.tx.Run(ctx, schema, func(r stock.Repos) error {
		existing, err := r.BranchGroups.GetByCode(ctx, in.Code)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if err := uc.checkBranches(ctx, r, in.CompanyID, in.BranchIDs); err != nil {
			return err
		}
		if err := r.BranchGroups.Create(ctx, group); err != nil {
			return err
		}
		return r.BranchGroups.SetBranches(ctx, group.ID, in.BranchIDs)
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

func (uc *BranchGroupUseCase) checkBranches(ctx context.Context, r stock.Repos, companyID string, branchIDs []string) error {
	for _, id := range branchIDs {
		branch, err := r.Branches.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if branch == nil || branch.IsDeleted {
			return domain.ErrNotFound
		}
		if branch.CompanyID != companyID {
			return domain.ErrCompanyMismatch
		}
	}
	return nil
}

// UpdateGroupInput campos actualizables de un grupo.
type UpdateGroupInput struct {
	Name                  string
	AllocationRule        string
	AllowCrossFulfillment bool
	Active                bool
}

// Update modifica el grupo. El código y la empresa no cambian.
func (uc *BranchGroupUseCase) Update(ctx context.Context, schema, id string, in UpdateGroupInput) (*entity.BranchGroup, error) {
	if in.Name == "" || !entity.ValidAllocationRule(in.AllocationRule) {
		return nil, domain.ErrInvalidInput
	}
	var group *entity.BranchGroup
	err := uc.tx.Run(ctx, schema, func(r stock.Repos) error {
		var err error
		group, err = r.BranchGroups.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if group == nil || group.IsDeleted {
			return domain.ErrNotFound
		}
		group.Name = in.Name
		group.AllocationRule = in.AllocationRule
		group.AllowCrossFulfillment = in.AllowCrossFulfillment
		group.Active = in.Active
		return r.BranchGroups.Update(ctx, group)
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// SetBranches reemplaza la membresía del grupo validando pertenencia a la empresa.
func (uc *BranchGroupUseCase) SetBranches(ctx context.Context, schema, id string, branchIDs []string) (*entity.BranchGroup, error) {
	var group *entity.BranchGroup
	err := uc.tx.Run(ctx, schema, func(r stock.Repos) error {
		var err error
		group, err = r.BranchGroups.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if group == nil || group.IsDeleted {
			return domain.ErrNotFound
		}
		if err := uc.checkBranches(ctx, r, group.CompanyID, branchIDs); err != nil {
			return err
		}
		if err := r.BranchGroups.SetBranches(ctx, id, branchIDs); err != nil {
			return err
		}
		group.BranchIDs = branchIDs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// Get devuelve un grupo con sus sucursales.
func (uc *BranchGroupUseCase) Get(ctx context.Context, schema, id string) (*entity.BranchGroup, error) {
	var group *entity.BranchGroup
	err := uc.tx.RunRead(ctx, schema, func(r stock.Repos) error {
		var err error
		group, err = r.BranchGroups.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if group == nil || group.IsDeleted {
		return nil, domain.ErrNotFound
	}
	return group, nil
}

// ListByCompany lista los grupos de una empresa.
func (uc *BranchGroupUseCase) ListByCompany(ctx context.Context, schema, companyID string, limit, offset int) ([]*entity.BranchGroup, error) {
	var list []*entity.BranchGroup
	err := uc.tx.RunRead(ctx, schema, func(r stock.Repos) error {
		var err error
		list, err = r.BranchGroups.ListByCompany(ctx, companyID, limit, offset)
		return err
	})
	return list, err
}

// Delete hace soft delete del grupo.
func (uc *BranchGroupUseCase) Delete(ctx context.Context, schema, id string) error {
	return uc.tx.Run(ctx, schema, func(r stock.Repos) error {
		group, err := r.BranchGroups.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if group == nil || group.IsDeleted {
			return domain.ErrNotFound
		}
		return r.BranchGroups.SoftDelete(ctx, id)
	})
}
