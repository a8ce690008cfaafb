package jobs

import (
	"context"
	"errors"

	"github.com/jhoicas/erp-stock-api/internal/application/stock"
	"github.com/jhoicas/erp-stock-api/internal/domain"
	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
	"github.com/jhoicas/erp-stock-api/internal/domain/repository"
	"github.com/jhoicas/erp-stock-api/pkg/logger"
)

// MinLevelAlertsJob emite el resumen diario de saldos bajo su nivel mínimo.
// La alerta es un log estructurado por saldo; el enrutamiento (mail, chat)
// queda en la capa de observabilidad.
type MinLevelAlertsJob struct {
	tenants repository.TenantRepository
	tx      stock.TxRunner
	log     *logger.Logger
	limit   int // máximo de alertas por tenant por pasada
}

// NewMinLevelAlertsJob construye el trabajo.
func NewMinLevelAlertsJob(tenants repository.TenantRepository, tx stock.TxRunner, log *logger.Logger, limit int) *MinLevelAlertsJob {
	return &MinLevelAlertsJob{
		tenants: tenants,
		tx:      tx,
		log:     log.Sub("job", "min_level_alerts"),
		limit:   limit,
	}
}

// Run ejecuta una pasada completa sobre todos los tenants activos.
func (j *MinLevelAlertsJob) Run(ctx context.Context) {
	tenants, err := j.tenants.ListActive(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("no se pudieron listar los tenants activos")
		return
	}
	for _, t := range tenants {
		j.runTenant(ctx, t)
	}
}

func (j *MinLevelAlertsJob) runTenant(ctx context.Context, t *entity.Tenant) {
	log := j.log.Sub("tenant", t.SchemaName)

	var below []*entity.StockBalance
	err := j.tx.RunRead(ctx, t.SchemaName, func(r stock.Repos) error {
		var err error
		below, err = r.Balances.ListBelowMin(ctx, j.limit)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrSchemaNotReady) {
			log.Debug().Msg("schema sin tablas, se omite")
			return
		}
		log.Error().Err(err).Msg("no se pudieron listar los saldos bajo mínimo")
		return
	}

	for _, b := range below {
		log.Warn().
			Str("balance_id", b.ID).
			Str("product_id", b.ProductID).
			Str("location_id", b.LocationID).
			Str("on_hand", b.OnHand.String()).
			Str("min_level", b.MinLevel.String()).
			Str("delta", b.OnHand.Sub(b.MinLevel).String()).
			Msg("saldo bajo nivel mínimo")
	}
	if len(below) > 0 {
		log.Info().Int("alerts", len(below)).Msg("alertas de mínimo emitidas")
	}
}
