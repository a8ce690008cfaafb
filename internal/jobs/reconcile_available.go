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

// reconcileBatch máximo de saldos corregidos por tenant por pasada.
const reconcileBatch = 500

// ReconcileAvailableJob busca saldos cuyos campos derivados (available,
// total_value) no cuadran con sus componentes o con los invariantes
// (reserved < 0, reserved > on_hand) y los recalcula. La deriva se loguea
// en warn: si aparece seguido hay un escritor que no pasa por Save.
type ReconcileAvailableJob struct {
	tenants repository.TenantRepository
	tx      stock.TxRunner
	log     *logger.Logger
}

// NewReconcileAvailableJob construye el trabajo.
func NewReconcileAvailableJob(tenants repository.TenantRepository, tx stock.TxRunner, log *logger.Logger) *ReconcileAvailableJob {
	return &ReconcileAvailableJob{
		tenants: tenants,
		tx:      tx,
		log:     log.Sub("job", "reconcile_available"),
	}
}

// Run ejecuta una pasada completa sobre todos los tenants activos.
func (j *ReconcileAvailableJob) Run(ctx context.Context) {
	tenants, err := j.tenants.ListActive(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("no se pudieron listar los tenants activos")
		return
	}
	for _, t := range tenants {
		j.runTenant(ctx, t)
	}
}

func (j *ReconcileAvailableJob) runTenant(ctx context.Context, t *entity.Tenant) {
	log := j.log.Sub("tenant", t.SchemaName)
	now := time.Now()

	var fixed int
	err := j.tx.Run(ctx, t.SchemaName, func(r stock.Repos) error {
		inconsistent, err := r.Balances.ListInconsistent(ctx, reconcileBatch)
		if err != nil {
			return err
		}
		for _, b := range inconsistent {
			prevAvailable := b.Available
			prevTotal := b.TotalValue
			if b.Reserved.IsNegative() {
				b.Reserved = decimal.Zero
			}
			b.UpdatedAt = now
			b.Recompute()
			if err := r.Balances.Save(ctx, b); err != nil {
				return err
			}
			fixed++
			log.Warn().
				Str("balance_id", b.ID).
				Str("prev_available", prevAvailable.String()).
				Str("available", b.Available.String()).
				Str("prev_total_value", prevTotal.String()).
				Str("total_value", b.TotalValue.String()).
				Msg("saldo con deriva recalculado")
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrSchemaNotReady) {
			log.Debug().Msg("schema sin tablas, se omite")
			return
		}
		log.Error().Err(err).Msg("fallo la reconciliación de saldos")
		return
	}
	if fixed > 0 {
		log.Info().Int("fixed", fixed).Msg("saldos reconciliados")
	}
}
