package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-stock-api/internal/application/stock"
	"github.com/jhoicas/erp-stock-api/internal/domain"
	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
	"github.com/jhoicas/erp-stock-api/internal/domain/repository"
)

// LocationUseCase administración de ubicaciones físicas del tenant.
type LocationUseCase struct {
	tx stock.TxRunner
}

// NewLocationUseCase crea el caso de uso.
func NewLocationUseCase(tx stock.TxRunner) *LocationUseCase {
	return &LocationUseCase{tx: tx}
}

// CreateLocationInput datos para crear una ubicación.
type CreateLocationInput struct {
	CompanyID      string
	BranchID       *string
	Name           string
	Code           string
	Kind           string
	Address        string
	City           string
	State          string
	Country        string
	ZipCode        string
	Latitude       *float64
	Longitude      *float64
	AllowsInbound  bool
	AllowsOutbound bool
	AllowsTransfer bool
}

// Create valida y persiste una ubicación. El código debe ser único en el
// tenant y la sucursal (si se indica) debe pertenecer a la empresa.
func (uc *LocationUseCase) Create(ctx context.Context, schema string, in CreateLocationInput) (*entity.Location, error) {
	if in.CompanyID == "" || in.Name == "" || in.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidLocationKind(in.Kind) {
		return nil, domain.ErrInvalidInput
	}

	loc := &entity.Location{
		ID:             uuid.NewString(),
		CompanyID:      in.CompanyID,
		BranchID:       in.BranchID,
		Name:           in.Name,
		Code:           in.Code,
		Kind:           in.Kind,
		Address:        in.Address,
		City:           in.City,
		State:          in.State,
		Country:        in.Country,
		ZipCode:        in.ZipCode,
		Latitude:       in.Latitude,
		Longitude:      in.Longitude,
		AllowsInbound:  in.AllowsInbound,
		AllowsOutbound: in.AllowsOutbound,
		AllowsTransfer: in.AllowsTransfer,
		Active:         true,
	}

	err := uc.tx.Run(ctx, schema, func(r stock.Repos) error {
		company, err := r.Companies.GetByID(ctx, in.CompanyID)
		if err != nil {
			return err
		}
		if company == nil || company.IsDeleted {
			return domain.ErrNotFound
		}

		if in.BranchID != nil {
			branch, err := r.Branches.GetByID(ctx, *in.BranchID)
			if err != nil {
				return err
			}
			if branch == nil || branch.IsDeleted {
				return domain.ErrNotFound
			}
			if branch.CompanyID != in.CompanyID {
				return domain.ErrCompanyMismatch
			}
		}

		existing, err := r.Locations.GetByCode(ctx, in.Code)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}

		return r.Locations.Create(ctx, loc)
	})
	if err != nil {
		return nil, err
	}
	return loc, nil
}

// UpdateLocationInput campos actualizables de una ubicación.
type UpdateLocationInput struct {
	Name           string
	Address        string
	City           string
	State          string
	Country        string
	ZipCode        string
	Latitude       *float64
	Longitude      *float64
	AllowsInbound  bool
	AllowsOutbound bool
	AllowsTransfer bool
	Active         bool
}

// Update modifica una ubicación existente. El código y el tipo no cambian
// después de creada (identidad operativa de la ubicación).
func (uc *LocationUseCase) Update(ctx context.Context, schema, id string, in UpdateLocationInput) (*entity.Location, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	var loc *entity.Location
	err := uc.tx.Run(ctx, schema, func(r stock.Repos) error {
		var err error
		loc, err = r.Locations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if loc == nil || loc.IsDeleted {
			return domain.ErrNotFound
		}
		loc.Name = in.Name
		loc.Address = in.Address
		loc.City = in.City
		loc.State = in.State
		loc.Country = in.Country
		loc.ZipCode = in.ZipCode
		loc.Latitude = in.Latitude
		loc.Longitude = in.Longitude
		loc.AllowsInbound = in.AllowsInbound
		loc.AllowsOutbound = in.AllowsOutbound
		loc.AllowsTransfer = in.AllowsTransfer
		loc.Active = in.Active
		return r.Locations.Update(ctx, loc)
	})
	if err != nil {
		return nil, err
	}
	return loc, nil
}

// Get devuelve una ubicación por id.
func (uc *LocationUseCase) Get(ctx context.Context, schema, id string) (*entity.Location, error) {
	var loc *entity.Location
	err := uc.tx.RunRead(ctx, schema, func(r stock.Repos) error {
		var err error
		loc, err = r.Locations.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if loc == nil || loc.IsDeleted {
		return nil, domain.ErrNotFound
	}
	return loc, nil
}

// List lista ubicaciones con filtros.
func (uc *LocationUseCase) List(ctx context.Context, schema string, filter repository.LocationFilter) ([]*entity.Location, error) {
	var list []*entity.Location
	err := uc.tx.RunRead(ctx, schema, func(r stock.Repos) error {
		var err error
		list, err = r.Locations.List(ctx, filter)
		return err
	})
	return list, err
}

// Delete hace soft delete de la ubicación. El stock histórico y los
// movimientos que la referencian se conservan.
func (uc *LocationUseCase) Delete(ctx context.Context, schema, id string) error {
	return uc.tx.Run(ctx, schema, func(r stock.Repos) error {
		loc, err := r.Locations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if loc == nil || loc.IsDeleted {
			return domain.ErrNotFound
		}
		return r.Locations.SoftDelete(ctx, id)
	})
}
