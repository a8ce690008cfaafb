package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/erp-stock-api/internal/application/stock"
	"github.com/jhoicas/erp-stock-api/internal/domain"
	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
	"github.com/jhoicas/erp-stock-api/internal/domain/repository"
	"github.com/jhoicas/erp-stock-api/pkg/logger"
)

// ExpireReservationsJob expira las reservas SOFT cuyo TTL venció, tenant por
// tenant. Cada reserva se expira en su propia transacción: un fallo puntual
// no corta el barrido.
type ExpireReservationsJob struct {
	tenants      repository.TenantRepository
	tx           stock.TxRunner
	reservations *stock.ReservationUseCase
	log          *logger.Logger
	limit        int // máximo de reservas por tenant por pasada
}

// NewExpireReservationsJob construye el trabajo.
func NewExpireReservationsJob(
	tenants repository.TenantRepository,
	tx stock.TxRunner,
	reservations *stock.ReservationUseCase,
	log *logger.Logger,
	limit int,
) *ExpireReservationsJob {
	return &ExpireReservationsJob{
		tenants:      tenants,
		tx:           tx,
		reservations: reservations,
		log:          log.Sub("job", "expire_reservations"),
		limit:        limit,
	}
}

// Run ejecuta una pasada completa sobre todos los tenants activos.
func (j *ExpireReservationsJob) Run(ctx context.Context) {
	tenants, err := j.tenants.ListActive(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("no se pudieron listar los tenants activos")
		return
	}
	for _, t := range tenants {
		j.runTenant(ctx, t)
	}
}

func (j *ExpireReservationsJob) runTenant(ctx context.Context, t *entity.Tenant) {
	now := time.Now()
	log := j.log.Sub("tenant", t.SchemaName)

	var expired []*entity.Reservation
	err := j.tx.RunRead(ctx, t.SchemaName, func(r stock.Repos) error {
		var err error
		expired, err = r.Reservations.ListExpired(ctx, now, j.limit)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrSchemaNotReady) {
			// tenant recién aprovisionado, sin tablas todavía
			log.Debug().Msg("schema sin tablas, se omite")
			return
		}
		log.Error().Err(err).Msg("no se pudieron listar las reservas vencidas")
		return
	}

	var count int
	for _, res := range expired {
		if _, err := j.reservations.Expire(ctx, t.SchemaName, res.ID); err != nil {
			// otra instancia pudo haberla expirado o confirmado en paralelo
			if errors.Is(err, domain.ErrReservationNotActive) || errors.Is(err, domain.ErrNotFound) {
				continue
			}
			log.Error().Err(err).Str("reservation_id", res.ID).Msg("no se pudo expirar la reserva")
			continue
		}
		count++
	}
	if count > 0 {
		log.Info().Int("expired", count).Msg("reservas expiradas")
	}
}
