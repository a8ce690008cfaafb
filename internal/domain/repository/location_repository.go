package repository

import (
	"context"

	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
)

// LocationFilter filtros para listados de ubicaciones.
type LocationFilter struct {
	CompanyID   string
	BranchID    string
	Kind        string
	OnlyActive  bool
	WithDeleted bool
	Limit       int
	Offset      int
}

// LocationRepository define el puerto de persistencia para Location (DIP).
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	GetByCode(ctx context.Context, code string) (*entity.Location, error)
	Update(ctx context.Context, location *entity.Location) error
	List(ctx context.Context, filter LocationFilter) ([]*entity.Location, error)
	// ListByBranches devuelve ubicaciones activas cuya sucursal está en branchIDs
	// (vistas consolidadas de grupos).
	ListByBranches(ctx context.Context, branchIDs []string) ([]*entity.Location, error)
	SoftDelete(ctx context.Context, id string) error
}
