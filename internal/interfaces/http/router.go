package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-stock-api/internal/application/auth"
	"github.com/jhoicas/erp-stock-api/internal/application/authz"
	"github.com/jhoicas/erp-stock-api/internal/application/stock"
	"github.com/jhoicas/erp-stock-api/internal/application/tenant"
	"github.com/jhoicas/erp-stock-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.UseCase
	TenantUC       *usecase.TenantUseCase
	RoleUC         *usecase.RoleUseCase
	CompanyUC      *usecase.CompanyUseCase
	LocationUC     *usecase.LocationUseCase
	GroupAdminUC   *usecase.BranchGroupUseCase
	MovementUC     *stock.MovementUseCase
	ReservationUC  *stock.ReservationUseCase
	ForecastUC     *stock.ForecastUseCase
	QueryUC        *stock.QueryUseCase
	GroupUC        *stock.BranchGroupUseCase
	TenantResolver *tenant.Resolver
	AuthzResolver  *authz.Resolver
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas: Bearer Token + resolución de tenant
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), TenantMiddleware(deps.TenantResolver))

	// Tenants (protegido; la creación solo exige sesión, el resto rol admin)
	tenants := protected.Group("/tenants")
	tenantHandler := NewTenantHandler(deps.TenantUC)
	tenants.Post("/", tenantHandler.Create)
	tenants.Post("/:id/memberships", RequireAdmin(), tenantHandler.AddMembership)
	tenants.Post("/:id/activate", RequireAdmin(), tenantHandler.Activate)
	tenants.Post("/:id/deactivate", RequireAdmin(), tenantHandler.Deactivate)

	// Roles custom (protegido, solo admin)
	roles := protected.Group("/roles", RequireAdmin())
	roleHandler := NewRoleHandler(deps.RoleUC)
	roles.Post("/", roleHandler.Create)
	roles.Put("/:code", roleHandler.Update)
	roles.Get("/", roleHandler.List)

	// Companies y branches (protegido, módulo companies)
	companies := protected.Group("/companies", RequirePermission(authz.ModuleCompanies, deps.AuthzResolver))
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Post("/", companyHandler.CreateCompany)
	companies.Get("/", companyHandler.ListCompanies)
	companies.Post("/branches", companyHandler.CreateBranch)
	companies.Put("/branches/:id", companyHandler.UpdateBranch)
	companies.Delete("/branches/:id", companyHandler.DeleteBranch)
	companies.Get("/:id", companyHandler.GetCompany)
	companies.Put("/:id", companyHandler.UpdateCompany)
	companies.Delete("/:id", companyHandler.DeleteCompany)
	companies.Get("/:id/branches", companyHandler.ListBranches)

	// Locations (protegido, módulo locations)
	locations := protected.Group("/stock/locations", RequirePermission(authz.ModuleLocations, deps.AuthzResolver))
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.Get)
	locations.Put("/:id", locationHandler.Update)
	locations.Delete("/:id", locationHandler.Delete)

	// Branch groups (protegido, módulo companies)
	groups := protected.Group("/stock/branch-groups", RequirePermission(authz.ModuleCompanies, deps.AuthzResolver))
	groupHandler := NewBranchGroupHandler(deps.GroupAdminUC)
	groups.Post("/", groupHandler.Create)
	groups.Get("/", groupHandler.List)
	groups.Get("/:id", groupHandler.Get)
	groups.Put("/:id", groupHandler.Update)
	groups.Put("/:id/branches", groupHandler.SetBranches)
	groups.Delete("/:id", groupHandler.Delete)

	// Stock (protegido, módulo stock). El permiso va por ruta y no en el
	// grupo: locations y branch-groups comparten el prefijo /stock pero se
	// autorizan contra sus propios módulos.
	stockGroup := protected.Group("/stock")
	stockPerm := RequirePermission(authz.ModuleStock, deps.AuthzResolver)

	stockHandler := NewStockHandler(deps.MovementUC, deps.QueryUC)
	stockGroup.Post("/entries", stockPerm, stockHandler.ProcessEntry)
	stockGroup.Post("/exits", stockPerm, stockHandler.ProcessExit)
	stockGroup.Post("/transfers", stockPerm, stockHandler.ProcessTransfer)
	stockGroup.Get("/movements", stockPerm, stockHandler.ListMovements)
	stockGroup.Post("/movements/:id/reverse", stockPerm, stockHandler.Reverse)

	balanceHandler := NewBalanceHandler(deps.QueryUC, deps.GroupUC)
	stockGroup.Get("/balances", stockPerm, balanceHandler.ListBalances)
	stockGroup.Get("/balances/lookup", stockPerm, balanceHandler.GetBalance)
	stockGroup.Get("/balances/consolidated", stockPerm, balanceHandler.Consolidated)
	stockGroup.Get("/groups/:id/consolidated", stockPerm, balanceHandler.Consolidated)
	stockGroup.Post("/groups/:id/choose-branch", stockPerm, balanceHandler.ChooseBranch)

	reservationHandler := NewReservationHandler(deps.ReservationUC, deps.QueryUC)
	stockGroup.Post("/reservations", stockPerm, reservationHandler.Create)
	stockGroup.Get("/reservations", stockPerm, reservationHandler.List)
	stockGroup.Post("/reservations/:id/confirm", stockPerm, reservationHandler.Confirm)
	stockGroup.Post("/reservations/:id/cancel", stockPerm, reservationHandler.Cancel)

	forecastHandler := NewForecastHandler(deps.ForecastUC, deps.QueryUC)
	stockGroup.Post("/forecasts", stockPerm, forecastHandler.Create)
	stockGroup.Get("/forecasts", stockPerm, forecastHandler.List)
	stockGroup.Post("/forecasts/:id/confirm", stockPerm, forecastHandler.Confirm)
	stockGroup.Post("/forecasts/:id/cancel", stockPerm, forecastHandler.Cancel)
	stockGroup.Post("/forecasts/:id/realize", stockPerm, forecastHandler.Realize)
}
