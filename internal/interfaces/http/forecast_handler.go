package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-stock-api/internal/application/dto"
	"github.com/jhoicas/erp-stock-api/internal/application/stock"
	"github.com/jhoicas/erp-stock-api/internal/domain/repository"
)

// ForecastHandler maneja previsiones de entrada/salida sobre los saldos.
type ForecastHandler struct {
	forecasts *stock.ForecastUseCase
	queries   *stock.QueryUseCase
}

// NewForecastHandler construye el handler.
func NewForecastHandler(forecasts *stock.ForecastUseCase, queries *stock.QueryUseCase) *ForecastHandler {
	return &ForecastHandler{forecasts: forecasts, queries: queries}
}

func forecastResult(c *fiber.Ctx, status int, result *stock.ForecastResult) error {
	return c.Status(status).JSON(fiber.Map{
		"forecast": dto.ToForecastResponse(result.Forecast),
		"balance":  dto.ToBalanceResponse(result.Balance),
	})
}

// Create godoc
// @Summary      Crear previsión de stock
// @Description  Suma la cantidad a predicted_in o predicted_out del saldo según el tipo.
// @Tags         forecasts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateForecastRequest  true  "product_id, location_id, kind, qty, expected_at"
// @Success      201   {object}  dto.ForecastResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/forecasts [post]
func (h *ForecastHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateForecastRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	result, err := h.forecasts.Create(c.Context(), GetTenantSchema(c), stock.CreateForecastInput{
		ProductID:         in.ProductID,
		LocationID:        in.LocationID,
		Kind:              in.Kind,
		Origin:            in.Origin,
		Qty:               in.Qty,
		ExpectedAt:        in.ExpectedAt,
		ExpectedUnitValue: in.ExpectedUnitValue,
		LocationFromID:    in.LocationFromID,
		LocationToID:      in.LocationToID,
		Notes:             in.Notes,
		CreatedBy:         GetUserID(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return forecastResult(c, fiber.StatusCreated, result)
}

// Confirm godoc
// @Summary      Confirmar una previsión pendiente
// @Tags         forecasts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la previsión"
// @Success      200  {object}  dto.ForecastResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/forecasts/{id}/confirm [post]
func (h *ForecastHandler) Confirm(c *fiber.Ctx) error {
	result, err := h.forecasts.Confirm(c.Context(), GetTenantSchema(c), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return forecastResult(c, fiber.StatusOK, result)
}

// Cancel godoc
// @Summary      Cancelar una previsión
// @Description  Resta la contribución de la previsión del saldo.
// @Tags         forecasts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la previsión"
// @Success      200  {object}  dto.ForecastResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/forecasts/{id}/cancel [post]
func (h *ForecastHandler) Cancel(c *fiber.Ctx) error {
	result, err := h.forecasts.Cancel(c.Context(), GetTenantSchema(c), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return forecastResult(c, fiber.StatusOK, result)
}

// Realize godoc
// @Summary      Marcar una previsión como realizada
// @Description  Resta la contribución prevista y enlaza el movimiento real que la cumplió.
// @Tags         forecasts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true   "ID de la previsión"
// @Param        body  body  dto.RealizeForecastRequest  false  "movement_id"
// @Success      200   {object}  dto.ForecastResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/forecasts/{id}/realize [post]
func (h *ForecastHandler) Realize(c *fiber.Ctx) error {
	var in dto.RealizeForecastRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	result, err := h.forecasts.Realize(c.Context(), GetTenantSchema(c), c.Params("id"), in.MovementID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return forecastResult(c, fiber.StatusOK, result)
}

// List godoc
// @Summary      Listar previsiones
// @Tags         forecasts
// @Security     Bearer
// @Produce      json
// @Param        balance_id  query  string  false  "Filtrar por saldo"
// @Param        kind        query  string  false  "ENTRY, EXIT, TRANSFER"
// @Param        status      query  string  false  "PENDING, CONFIRMED, REALIZED, CANCELLED"
// @Success      200  {array}  dto.ForecastResponse
// @Router       /api/stock/forecasts [get]
func (h *ForecastHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.Normalize()

	list, err := h.queries.ListForecasts(c.Context(), GetTenantSchema(c), repository.ForecastFilter{
		BalanceID: c.Query("balance_id"),
		Kind:      c.Query("kind"),
		Status:    c.Query("status"),
		Limit:     page.Limit,
		Offset:    page.Offset,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"forecasts": dto.ToForecastResponses(list),
		"page":      dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}
