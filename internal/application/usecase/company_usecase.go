package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-stock-api/internal/application/stock"
	"github.com/jhoicas/erp-stock-api/internal/domain"
	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
	"github.com/jhoicas/erp-stock-api/internal/domain/repository"
)

// CompanyUseCase administración de empresas y sucursales del tenant.
// La creación se valida contra las cuotas de la suscripción (schema public).
type CompanyUseCase struct {
	tx            stock.TxRunner
	subscriptions repository.SubscriptionRepository
}

// NewCompanyUseCase crea el caso de uso.
func NewCompanyUseCase(tx stock.TxRunner, subscriptions repository.SubscriptionRepository) *CompanyUseCase {
	return &CompanyUseCase{tx: tx, subscriptions: subscriptions}
}

// CreateCompanyInput datos para crear una empresa.
type CreateCompanyInput struct {
	Name    string
	TaxID   string
	Address string
	City    string
	Phone   string
	Email   string
}

// CreateCompany crea una empresa si la suscripción del tenant lo permite.
func (uc *CompanyUseCase) CreateCompany(ctx context.Context, schema, tenantID string, in CreateCompanyInput) (*entity.Company, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}

	company := &entity.Company{
		ID:      uuid.NewString(),
		Name:    in.Name,
		TaxID:   in.TaxID,
		Address: in.Address,
		City:    in.City,
		Phone:   in.Phone,
		Email:   in.Email,
		Active:  true,
	}

	err := uc.tx.Run(ctx, schema, func(r stock.Repos) error {
		if err := uc.checkCompanyQuota(ctx, tenantID, r); err != nil {
			return err
		}
		return r.Companies.Create(ctx, company)
	})
	if err != nil {
		return nil, err
	}
	return company, nil
}

func (uc *CompanyUseCase) checkCompanyQuota(ctx context.Context, tenantID string, r stock.Repos) error {
	sub, err := uc.subscriptions.GetByTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	if sub == nil || !sub.Active || sub.Expired(time.Now()) {
		return domain.ErrQuotaExceeded
	}
	count, err := r.Companies.Count(ctx)
	if err != nil {
		return err
	}
	if sub.MaxCompanies > 0 && count >= sub.MaxCompanies {
		return domain.ErrQuotaExceeded
	}
	return nil
}

// UpdateCompany modifica datos de la empresa.
func (uc *CompanyUseCase) UpdateCompany(ctx context.Context, schema, id string, in CreateCompanyInput) (*entity.Company, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	var company *entity.Company
	err := uc.tx.Run(ctx, schema, func(r stock.Repos) error {
		var err error
		company, err = r.Companies.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if company == nil || company.IsDeleted {
			return domain.ErrNotFound
		}
		company.Name = in.Name
		company.TaxID = in.TaxID
		company.Address = in.Address
		company.City = in.City
		company.Phone = in.Phone
		company.Email = in.Email
		return r.Companies.Update(ctx, company)
	})
	if err != nil {
		return nil, err
	}
	return company, nil
}

// GetCompany devuelve una empresa por id.
func (uc *CompanyUseCase) GetCompany(ctx context.Context, schema, id string) (*entity.Company, error) {
	var company *entity.Company
	err := uc.tx.RunRead(ctx, schema, func(r stock.Repos) error {
		var err error
		company, err = r.Companies.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if company == nil || company.IsDeleted {
		return nil, domain.ErrNotFound
	}
	return company, nil
}

// ListCompanies lista las empresas del tenant.
func (uc *CompanyUseCase) ListCompanies(ctx context.Context, schema string, limit, offset int) ([]*entity.Company, error) {
	var list []*entity.Company
	err := uc.tx.RunRead(ctx, schema, func(r stock.Repos) error {
		var err error
		list, err = r.Companies.List(ctx, limit, offset)
		return err
	})
	return list, err
}

// DeleteCompany hace soft delete de la empresa.
func (uc *CompanyUseCase) DeleteCompany(ctx context.Context, schema, id string) error {
	return uc.tx.Run(ctx, schema, func(r stock.Repos) error {
		company, err := r.Companies.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if company == nil || company.IsDeleted {
			return domain.ErrNotFound
		}
		return r.Companies.SoftDelete(ctx, id)
	})
}

// CreateBranchInput datos para crear una sucursal.
type CreateBranchInput struct {
	CompanyID string
	Name      string
	Code      string
	Address   string
	City      string
	Phone     string
	Email     string
	IsMain    bool
}

// CreateBranch crea una sucursal si la suscripción del tenant lo permite.
func (uc *CompanyUseCase) CreateBranch(ctx context.Context, schema, tenantID string, in CreateBranchInput) (*entity.Branch, error) {
	if in.CompanyID == "" || in.Name == "" || in.Code == "" {
		return nil, domain.ErrInvalidInput
	}

	branch := &entity.Branch{
		ID:        uuid.NewString(),
		CompanyID: in.CompanyID,
		Name:      in.Name,
		Code:      in.Code,
		Address:   in.Address,
		City:      in.City,
		Phone:     in.Phone,
		Email:     in.Email,
		IsMain:    in.IsMain,
		Active:    true,
	}

	err := uc.tx.Run(ctx, schema, func(r stock.Repos) error {
		company, err := r.Companies.GetByID(ctx, in.CompanyID)
		if err != nil {
			return err
		}
		if company == nil || company.IsDeleted {
			return domain.ErrNotFound
		}

		sub, err := uc.subscriptions.GetByTenant(ctx, tenantID)
		if err != nil {
			return err
		}
		if sub == nil || !sub.Active || sub.Expired(time.Now()) {
			return domain.ErrQuotaExceeded
		}
		count, err := r.Branches.CountByCompany(ctx, in.CompanyID)
		if err != nil {
			return err
		}
		if sub.MaxBranches > 0 && count >= sub.MaxBranches {
			return domain.ErrQuotaExceeded
		}

		return r.Branches.Create(ctx, branch)
	})
	if err != nil {
		return nil, err
	}
	return branch, nil
}

// UpdateBranch modifica datos de la sucursal. La empresa no cambia.
func (uc *CompanyUseCase) UpdateBranch(ctx context.Context, schema, id string, in CreateBranchInput) (*entity.Branch, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	var branch *entity.Branch
	err := uc.tx.Run(ctx, schema, func(r stock.Repos) error {
		var err error
		branch, err = r.Branches.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if branch == nil || branch.IsDeleted {
			return domain.ErrNotFound
		}
		branch.Name = in.Name
		branch.Code = in.Code
		branch.Address = in.Address
		branch.City = in.City
		branch.Phone = in.Phone
		branch.Email = in.Email
		branch.IsMain = in.IsMain
		return r.Branches.Update(ctx, branch)
	})
	if err != nil {
		return nil, err
	}
	return branch, nil
}

// ListBranches lista las sucursales de una empresa.
func (uc *CompanyUseCase) ListBranches(ctx context.Context, schema, companyID string, limit, offset int) ([]*entity.Branch, error) {
	var list []*entity.Branch
	err := uc.tx.RunRead(ctx, schema, func(r stock.Repos) error {
		var err error
		list, err = r.Branches.ListByCompany(ctx, companyID, limit, offset)
		return err
	})
	return list, err
}

// DeleteBranch hace soft delete de la sucursal.
func (uc *CompanyUseCase) DeleteBranch(ctx context.Context, schema, id string) error {
	return uc.tx.Run(ctx, schema, func(r stock.Repos) error {
		branch, err := r.Branches.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if branch == nil || branch.IsDeleted {
			return domain.ErrNotFound
		}
		return r.Branches.SoftDelete(ctx, id)
	})
}
