package stock

import (
	"context"

	"github.com/jhoicas/erp-stock-api/internal/domain/repository"
)

// Repos agrupa los repositorios tenant-scoped que un caso de uso recibe
// atados a la misma conexión (y transacción, si aplica).
type Repos struct {
	Locations    repository.LocationRepository
	Balances     repository.BalanceRepository
	Movements    repository.MovementRepository
	Reservations repository.ReservationRepository
	Forecasts    repository.ForecastRepository
	BranchGroups repository.BranchGroupRepository
	Branches     repository.BranchRepository
	Companies    repository.CompanyRepository
}

// TxRunner ejecuta una función con repositorios atados al schema de un tenant.
// Run abre una transacción (Commit/Rollback garantizados); RunRead ejecuta
// sin transacción para lecturas. En ambos casos el search_path queda ligado
// al schema solo durante fn y se restaura en todo camino de salida.
type TxRunner interface {
	Run(ctx context.Context, schema string, fn func(r Repos) error) error
	RunRead(ctx context.Context, schema string, fn func(r Repos) error) error
}
