package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-stock-api/internal/application/stock"
	"github.com/jhoicas/erp-stock-api/internal/domain"
	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
	"github.com/jhoicas/erp-stock-api/internal/domain/repository"
	domstock "github.com/jhoicas/erp-stock-api/internal/domain/stock"
	"github.com/jhoicas/erp-stock-api/pkg/logger"
)

const (
	// rollWindow ventana de entradas a considerar.
	rollWindow = 24 * time.Hour
	// rollMaxEntries últimas entradas confirmadas por saldo.
	rollMaxEntries = 10
)

// rollTolerance deriva mínima de costo que amerita corrección.
var rollTolerance = decimal.RequireFromString("0.01")

// RollWeightedCostJob recalcula el costo promedio de los saldos con entradas
// confirmadas recientes usando la media ponderada por cantidad de sus últimas
// entradas, y corrige el saldo cuando la deriva supera la tolerancia.
type RollWeightedCostJob struct {
	tenants repository.TenantRepository
	tx      stock.TxRunner
	log     *logger.Logger
}

// NewRollWeightedCostJob construye el trabajo.
func NewRollWeightedCostJob(tenants repository.TenantRepository, tx stock.TxRunner, log *logger.Logger) *RollWeightedCostJob {
	return &RollWeightedCostJob{
		tenants: tenants,
		tx:      tx,
		log:     log.Sub("job", "roll_weighted_cost"),
	}
}

// Run ejecuta una pasada completa sobre todos los tenants activos.
func (j *RollWeightedCostJob) Run(ctx context.Context) {
	tenants, err := j.tenants.ListActive(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("no se pudieron listar los tenants activos")
		return
	}
	for _, t := range tenants {
		j.runTenant(ctx, t)
	}
}

func (j *RollWeightedCostJob) runTenant(ctx context.Context, t *entity.Tenant) {
	log := j.log.Sub("tenant", t.SchemaName)
	since := time.Now().Add(-rollWindow)

	var balanceIDs []string
	err := j.tx.RunRead(ctx, t.SchemaName, func(r stock.Repos) error {
		var err error
		balanceIDs, err = r.Balances.ListWithEntriesSince(ctx, since)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrSchemaNotReady) {
			log.Debug().Msg("schema sin tablas, se omite")
			return
		}
		log.Error().Err(err).Msg("no se pudieron listar los saldos con entradas recientes")
		return
	}

	var adjusted int
	for _, id := range balanceIDs {
		if err := j.rollBalance(ctx, t.SchemaName, id, since, log, &adjusted); err != nil {
			log.Error().Err(err).Str("balance_id", id).Msg("no se pudo recalcular el costo")
		}
	}
	if adjusted > 0 {
		log.Info().Int("adjusted", adjusted).Msg("costos promedio corregidos")
	}
}

func (j *RollWeightedCostJob) rollBalance(ctx context.Context, schema, balanceID string, since time.Time, log *logger.Logger, adjusted *int) error {
	now := time.Now()
	return j.tx.Run(ctx, schema, func(r stock.Repos) error {
		b, err := r.Balances.GetByIDForUpdate(ctx, balanceID)
		if err != nil {
			return err
		}
		if b == nil {
			return nil
		}
		entries, err := r.Movements.LastConfirmedEntries(ctx, balanceID, since, rollMaxEntries)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}

		weighted := make([]domstock.WeightedEntry, 0, len(entries))
		for _, m := range entries {
			weighted = append(weighted, domstock.WeightedEntry{Qty: m.Qty, UnitValue: m.UnitValue})
		}
		mean := domstock.QuantityWeightedMean(weighted)
		if mean.Sub(b.WeightedAvgCost).Abs().LessThanOrEqual(rollTolerance) {
			return nil
		}

		prev := b.WeightedAvgCost
		b.WeightedAvgCost = mean
		b.UpdatedAt = now
		b.Recompute()
		if err := r.Balances.Save(ctx, b); err != nil {
			return err
		}
		*adjusted++
		log.Warn().
			Str("balance_id", b.ID).
			Str("prev_unit_cost", prev.String()).
			Str("unit_cost", mean.String()).
			Msg("costo promedio con deriva corregido")
		return nil
	})
}
