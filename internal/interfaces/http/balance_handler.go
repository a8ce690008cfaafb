package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-stock-api/internal/application/dto"
	"github.com/jhoicas/erp-stock-api/internal/application/stock"
	"github.com/jhoicas/erp-stock-api/internal/domain/repository"
)

// BalanceHandler consultas de saldos y vistas consolidadas por grupo.
type BalanceHandler struct {
	queries *stock.QueryUseCase
	groups  *stock.BranchGroupUseCase
}

// NewBalanceHandler construye el handler.
func NewBalanceHandler(queries *stock.QueryUseCase, groups *stock.BranchGroupUseCase) *BalanceHandler {
	return &BalanceHandler{queries: queries, groups: groups}
}

// ListBalances godoc
// @Summary      Listar saldos de stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        company_id   query  string  false  "Filtrar por empresa"
// @Param        location_id  query  string  false  "Filtrar por ubicación"
// @Param        product_id   query  string  false  "Filtrar por producto"
// @Param        below_min    query  bool    false  "Solo saldos bajo nivel mínimo"
// @Success      200  {array}  dto.BalanceResponse
// @Router       /api/stock/balances [get]
func (h *BalanceHandler) ListBalances(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.Normalize()

	list, err := h.queries.ListBalances(c.Context(), GetTenantSchema(c), repository.BalanceFilter{
		CompanyID:  c.Query("company_id"),
		LocationID: c.Query("location_id"),
		ProductID:  c.Query("product_id"),
		BelowMin:   c.QueryBool("below_min"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"balances": dto.ToBalanceResponses(list),
		"page":     dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// GetBalance godoc
// @Summary      Obtener saldo por producto y ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  true  "ID del producto"
// @Param        location_id  query  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/balances/lookup [get]
func (h *BalanceHandler) GetBalance(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	locationID := c.Query("location_id")
	balance, err := h.queries.GetBalance(c.Context(), GetTenantSchema(c), productID, locationID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ToBalanceResponse(balance))
}

// Consolidated godoc
// @Summary      Vista consolidada de un producto en un grupo de sucursales
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        group       query  string  true  "ID del grupo"
// @Param        product_id  query  string  true  "ID del producto"
// @Success      200  {object}  dto.ConsolidatedResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/balances/consolidated [get]
func (h *BalanceHandler) Consolidated(c *fiber.Ctx) error {
	groupID := c.Params("id")
	if groupID == "" {
		groupID = c.Query("group")
	}
	view, err := h.groups.Consolidated(c.Context(), GetTenantSchema(c), groupID, c.Query("product_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ConsolidatedResponse{
		GroupID:       view.GroupID,
		ProductID:     view.ProductID,
		OnHand:        view.OnHand,
		Reserved:      view.Reserved,
		Available:     view.Available,
		PredictedIn:   view.PredictedIn,
		PredictedOut:  view.PredictedOut,
		TotalValue:    view.TotalValue,
		LocationCount: view.LocationCount,
	})
}

// ChooseBranch godoc
// @Summary      Elegir sucursal para despachar según la regla del grupo
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del grupo"
// @Param        body  body  dto.ChooseBranchRequest  true  "product_id, qty, origin_branch_id"
// @Success      200   {object}  dto.ChooseBranchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/groups/{id}/choose-branch [post]
func (h *BalanceHandler) ChooseBranch(c *fiber.Ctx) error {
	var in dto.ChooseBranchRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	choice, err := h.groups.ChooseBranch(c.Context(), GetTenantSchema(c), c.Params("id"), in.ProductID, in.Qty, in.OriginBranchID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ChooseBranchResponse{
		Found:      choice.Found,
		BranchID:   choice.BranchID,
		LocationID: choice.LocationID,
		Available:  choice.Available,
		UnitCost:   choice.UnitCost,
	})
}
