package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-stock-api/internal/application/dto"
	"github.com/jhoicas/erp-stock-api/internal/application/stock"
	"github.com/jhoicas/erp-stock-api/internal/domain/repository"
)

// StockHandler maneja entradas, salidas, traslados, reversos y consultas de
// movimientos (protegido, tenant-scoped).
type StockHandler struct {
	movements *stock.MovementUseCase
	queries   *stock.QueryUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(movements *stock.MovementUseCase, queries *stock.QueryUseCase) *StockHandler {
	return &StockHandler{movements: movements, queries: queries}
}

// ProcessEntry godoc
// @Summary      Registrar entrada de stock
// @Description  Suma on_hand recalculando el costo promedio ponderado y escribe el movimiento ENTRY.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EntryRequest  true  "product_id, location_id, company_id, qty, unit_value"
// @Success      201   {object}  dto.EntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/entries [post]
func (h *StockHandler) ProcessEntry(c *fiber.Ctx) error {
	var in dto.EntryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	result, err := h.movements.ProcessEntry(c.Context(), GetTenantSchema(c), stock.EntryInput{
		ProductID:      in.ProductID,
		LocationID:     in.LocationID,
		CompanyID:      in.CompanyID,
		Qty:            in.Qty,
		UnitValue:      in.UnitValue,
		Origin:         in.Origin,
		DocRef:         in.DocRef,
		NFNumber:       in.NFNumber,
		NFSeries:       in.NFSeries,
		Notes:          in.Notes,
		UpdateForecast: in.ForecastEnabled(),
		CreatedBy:      GetUserID(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.EntryResponse{
		Balance:  dto.ToBalanceResponse(result.Balance),
		Movement: dto.ToMovementResponse(result.Movement),
		PrevCost: result.PrevCost,
		NewCost:  result.NewCost,
	})
}

// ProcessExit godoc
// @Summary      Registrar salida de stock
// @Description  Resta on_hand respetando reservas vigentes y escribe el movimiento EXIT.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ExitRequest  true  "product_id, location_id, company_id, qty"
// @Success      201   {object}  dto.ExitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/exits [post]
func (h *StockHandler) ProcessExit(c *fiber.Ctx) error {
	var in dto.ExitRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	result, err := h.movements.ProcessExit(c.Context(), GetTenantSchema(c), stock.ExitInput{
		ProductID:      in.ProductID,
		LocationID:     in.LocationID,
		CompanyID:      in.CompanyID,
		Qty:            in.Qty,
		UnitValue:      in.UnitValue,
		Origin:         in.Origin,
		DocRef:         in.DocRef,
		NFNumber:       in.NFNumber,
		NFSeries:       in.NFSeries,
		Notes:          in.Notes,
		UpdateForecast: in.ForecastEnabled(),
		VerifyMin:      in.MinCheckEnabled(),
		CreatedBy:      GetUserID(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	out := dto.ExitResponse{
		Balance:  dto.ToBalanceResponse(result.Balance),
		Movement: dto.ToMovementResponse(result.Movement),
	}
	if result.MinAlert != nil {
		out.MinAlert = &dto.MinAlertResponse{
			Current: result.MinAlert.Current,
			Min:     result.MinAlert.Min,
			Delta:   result.MinAlert.Delta,
		}
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ProcessTransfer godoc
// @Summary      Trasladar stock entre ubicaciones
// @Description  Resta en origen y suma en destino en una sola transacción; escribe el par EXIT/ENTRY con el mismo doc_ref.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "product_id, from_location_id, to_location_id, company_id, qty"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/transfers [post]
func (h *StockHandler) ProcessTransfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	result, err := h.movements.ProcessTransfer(c.Context(), GetTenantSchema(c), stock.TransferInput{
		ProductID:      in.ProductID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		CompanyID:      in.CompanyID,
		Qty:            in.Qty,
		UnitValue:      in.UnitValue,
		DocRef:         in.DocRef,
		Notes:          in.Notes,
		CreatedBy:      GetUserID(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		FromBalance:   dto.ToBalanceResponse(result.FromBalance),
		ToBalance:     dto.ToBalanceResponse(result.ToBalance),
		ExitMovement:  dto.ToMovementResponse(result.ExitMovement),
		EntryMovement: dto.ToMovementResponse(result.EntryMovement),
	})
}

// Reverse godoc
// @Summary      Revertir un movimiento
// @Description  Marca el movimiento como REVERSED y escribe el movimiento inverso enlazado.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del movimiento"
// @Param        body  body  dto.ReverseRequest true  "reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements/{id}/reverse [post]
func (h *StockHandler) Reverse(c *fiber.Ctx) error {
	var in dto.ReverseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	result, err := h.movements.Reverse(c.Context(), GetTenantSchema(c), c.Params("id"), in.Reason, GetUserID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(result.Movement))
}

// ListMovements godoc
// @Summary      Listar movimientos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        balance_id  query  string  false  "Filtrar por saldo"
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        kind        query  string  false  "ENTRY, EXIT, RESERVE, UNRESERVE"
// @Param        status      query  string  false  "PENDING, CONFIRMED, CANCELLED, REVERSED"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.Normalize()

	filter := repository.MovementFilter{
		BalanceID:  c.Query("balance_id"),
		LocationID: c.Query("location_id"),
		ProductID:  c.Query("product_id"),
		Kind:       c.Query("kind"),
		Status:     c.Query("status"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.To = &t
		}
	}

	list, err := h.queries.ListMovements(c.Context(), GetTenantSchema(c), filter)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{
		"movements": dto.ToMovementResponses(list),
		"page":      dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}
