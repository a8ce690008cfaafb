package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/erp-stock-api/internal/application/auth"
	"github.com/jhoicas/erp-stock-api/internal/application/authz"
	"github.com/jhoicas/erp-stock-api/internal/application/stock"
	"github.com/jhoicas/erp-stock-api/internal/application/tenant"
	"github.com/jhoicas/erp-stock-api/internal/application/usecase"
	"github.com/jhoicas/erp-stock-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/erp-stock-api/internal/interfaces/http"
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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Schema public: tenants, usuarios, membresías, suscripciones
	tenancy := postgres.NewTenancy(pool)
	if err := tenancy.EnsurePublic(ctx); err != nil {
		log.Fatal().Err(err).Msg("inicialización del schema public")
	}

	tenantRepo := postgres.NewTenantRepository(pool)
	domainRepo := postgres.NewDomainRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	membershipRepo := postgres.NewMembershipRepository(pool)
	subscriptionRepo := postgres.NewSubscriptionRepository(pool)
	customRoleRepo := postgres.NewCustomRoleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewUseCase(userRepo, membershipRepo, tenantRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	tenantResolver := tenant.NewResolver(tenantRepo, domainRepo, membershipRepo)
	authzResolver := authz.NewResolver(customRoleRepo)

	tenantUC := usecase.NewTenantUseCase(tenantRepo, domainRepo, membershipRepo, subscriptionRepo, tenancy)
	roleUC := usecase.NewRoleUseCase(customRoleRepo)
	companyUC := usecase.NewCompanyUseCase(txRunner, subscriptionRepo)
	locationUC := usecase.NewLocationUseCase(txRunner)
	groupAdminUC := usecase.NewBranchGroupUseCase(txRunner)

	movementUC := stock.NewMovementUseCase(txRunner)
	reservationUC := stock.NewReservationUseCase(txRunner)
	forecastUC := stock.NewForecastUseCase(txRunner)
	queryUC := stock.NewQueryUseCase(txRunner)
	groupUC := stock.NewBranchGroupUseCase(txRunner)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ERP Stock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		TenantUC:       tenantUC,
		RoleUC:         roleUC,
		CompanyUC:      companyUC,
		LocationUC:     locationUC,
		GroupAdminUC:   groupAdminUC,
		MovementUC:     movementUC,
		ReservationUC:  reservationUC,
		ForecastUC:     forecastUC,
		QueryUC:        queryUC,
		GroupUC:        groupUC,
		TenantResolver: tenantResolver,
		AuthzResolver:  authzResolver,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
