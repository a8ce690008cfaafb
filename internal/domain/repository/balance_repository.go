package repository

import (
	"context"
	"time"

	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
)

// BalanceFilter filtros para listados de saldos.
type BalanceFilter struct {
	CompanyID   string
	LocationID  string
	ProductID   string
	BelowMin    bool // solo saldos con min_level > 0 y on_hand < min_level
	WithDeleted bool
	Limit       int
	Offset      int
}

// BalanceRepository define el puerto de persistencia para StockBalance.
// Save SIEMPRE recalcula y escribe los campos derivados (available,
// total_value); los lectores nunca los computan.
type BalanceRepository interface {
	Get(ctx context.Context, productID, locationID string) (*entity.StockBalance, error)
	GetByID(ctx context.Context, id string) (*entity.StockBalance, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para lectura-modificación-escritura.
	GetForUpdate(ctx context.Context, productID, locationID string) (*entity.StockBalance, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.StockBalance, error)
	Save(ctx context.Context, balance *entity.StockBalance) error
	List(ctx context.Context, filter BalanceFilter) ([]*entity.StockBalance, error)
	// ListByLocations devuelve los saldos de un producto en un conjunto de ubicaciones
	// (vistas consolidadas de grupos de sucursales).
	ListByLocations(ctx context.Context, productID string, locationIDs []string) ([]*entity.StockBalance, error)
	// ListInconsistent devuelve saldos cuyos campos derivados no cuadran con
	// on_hand/reserved/costo (worker de reconciliación).
	ListInconsistent(ctx context.Context, limit int) ([]*entity.StockBalance, error)
	// ListBelowMin devuelve saldos bajo el mínimo configurado (alertas diarias).
	ListBelowMin(ctx context.Context, limit int) ([]*entity.StockBalance, error)
	// ListWithEntriesSince devuelve IDs de saldos con entradas CONFIRMED desde 'since'
	// (worker de recálculo de costo promedio).
	ListWithEntriesSince(ctx context.Context, since time.Time) ([]string, error)
}
