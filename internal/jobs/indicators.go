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
	"github.com/jhoicas/erp-stock-api/pkg/logger"
)

const (
	indicatorsWindow = 7 * 24 * time.Hour
	indicatorsBatch  = 1000
)

// IndicatorsJob calcula los indicadores semanales por tenant: valor total de
// inventario, saldos, y entradas/salidas confirmadas de la semana. Es el
// gancho para métricas de rotación; hoy emite un registro de cierre por tenant.
type IndicatorsJob struct {
	tenants repository.TenantRepository
	tx      stock.TxRunner
	log     *logger.Logger
}

// NewIndicatorsJob construye el trabajo.
func NewIndicatorsJob(tenants repository.TenantRepository, tx stock.TxRunner, log *logger.Logger) *IndicatorsJob {
	return &IndicatorsJob{
		tenants: tenants,
		tx:      tx,
		log:     log.Sub("job", "indicators"),
	}
}

// Run ejecuta una pasada completa sobre todos los tenants activos.
func (j *IndicatorsJob) Run(ctx context.Context) {
	tenants, err := j.tenants.ListActive(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("no se pudieron listar los tenants activos")
		return
	}
	for _, t := range tenants {
		j.runTenant(ctx, t)
	}
}

func (j *IndicatorsJob) runTenant(ctx context.Context, t *entity.Tenant) {
	log := j.log.Sub("tenant", t.SchemaName)
	since := time.Now().Add(-indicatorsWindow)

	var (
		balances   int
		totalValue decimal.Decimal
		entries    int
		exits      int
		entryQty   decimal.Decimal
		exitQty    decimal.Decimal
	)
	err := j.tx.RunRead(ctx, t.SchemaName, func(r stock.Repos) error {
		for offset := 0; ; offset += indicatorsBatch {
			page, err := r.Balances.List(ctx, repository.BalanceFilter{Limit: indicatorsBatch, Offset: offset})
			if err != nil {
				return err
			}
			for _, b := range page {
				balances++
				totalValue = totalValue.Add(b.TotalValue)
			}
			if len(page) < indicatorsBatch {
				break
			}
		}

		for offset := 0; ; offset += indicatorsBatch {
			page, err := r.Movements.List(ctx, repository.MovementFilter{
				Status: entity.MovementStatusConfirmed,
				From:   &since,
				Limit:  indicatorsBatch,
				Offset: offset,
			})
			if err != nil {
				return err
			}
			for _, m := range page {
				switch m.Kind {
				case entity.MovementKindEntry:
					entries++
					entryQty = entryQty.Add(m.Qty)
				case entity.MovementKindExit:
					exits++
					exitQty = exitQty.Add(m.Qty)
				}
			}
			if len(page) < indicatorsBatch {
				break
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSchemaNotReady) {
			log.Debug().Msg("schema sin tablas, se omite")
			return
		}
		log.Error().Err(err).Msg("fallo el cálculo de indicadores")
		return
	}

	log.Info().
		Int("balances", balances).
		Str("total_value", totalValue.String()).
		Int("entries", entries).
		Str("entry_qty", entryQty.String()).
		Int("exits", exits).
		Str("exit_qty", exitQty.String()).
		Msg("indicadores semanales")
}
