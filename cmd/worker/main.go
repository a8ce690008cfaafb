package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/erp-stock-api/internal/application/stock"
	"github.com/jhoicas/erp-stock-api/internal/infrastructure/postgres"
	"github.com/jhoicas/erp-stock-api/internal/jobs"
	"github.com/jhoicas/erp-stock-api/pkg/config"
	"github.com/jhoicas/erp-stock-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando worker")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	tenantRepo := postgres.NewTenantRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	reservationUC := stock.NewReservationUseCase(txRunner)

	expireJob := jobs.NewExpireReservationsJob(tenantRepo, txRunner, reservationUC, log, cfg.Workers.ReservationSweepLimit)
	reconcileJob := jobs.NewReconcileAvailableJob(tenantRepo, txRunner, log)
	rollCostJob := jobs.NewRollWeightedCostJob(tenantRepo, txRunner, log)
	minAlertsJob := jobs.NewMinLevelAlertsJob(tenantRepo, txRunner, log, cfg.Workers.MinLevelAlertLimit)
	indicatorsJob := jobs.NewIndicatorsJob(tenantRepo, txRunner, log)

	scheduler := jobs.NewScheduler(log)
	register := func(name, cronExpr string, run func(context.Context)) {
		if err := scheduler.AddJob(name, cronExpr, func() { run(ctx) }); err != nil {
			log.Fatal().Err(err).Str("job", name).Msg("registro de trabajo")
		}
	}
	register("expire_reservations", cfg.Workers.ExpireReservationsCron, expireJob.Run)
	register("reconcile_available", cfg.Workers.ReconcileAvailableCron, reconcileJob.Run)
	register("roll_weighted_cost", cfg.Workers.RollWeightedCostCron, rollCostJob.Run)
	register("min_level_alerts", cfg.Workers.MinLevelAlertsCron, minAlertsJob.Run)
	register("indicators", cfg.Workers.IndicatorsCron, indicatorsJob.Run)

	scheduler.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, deteniendo worker...")
	<-scheduler.Stop().Done()
	log.Info().Msg("worker detenido")
}
