package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-stock-api/internal/application/dto"
	"github.com/jhoicas/erp-stock-api/internal/application/stock"
	"github.com/jhoicas/erp-stock-api/internal/domain/repository"
)

// ReservationHandler maneja el ciclo de vida de las reservas de stock.
type ReservationHandler struct {
	reservations *stock.ReservationUseCase
	queries      *stock.QueryUseCase
}

// NewReservationHandler construye el handler.
func NewReservationHandler(reservations *stock.ReservationUseCase, queries *stock.QueryUseCase) *ReservationHandler {
	return &ReservationHandler{reservations: reservations, queries: queries}
}

func reservationResult(c *fiber.Ctx, status int, result *stock.ReservationResult) error {
	out := dto.ReservationResultResponse{
		Reservation: dto.ToReservationResponse(result.Reservation),
	}
	if result.Balance != nil {
		out.Balance = dto.ToBalanceResponse(result.Balance)
	}
	return c.Status(status).JSON(out)
}

// Create godoc
// @Summary      Crear reserva de stock
// @Description  SOFT caduca por TTL; HARD exige disponible suficiente y descuenta de inmediato.
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReservationRequest  true  "product_id, location_id, qty, kind"
// @Success      201   {object}  dto.ReservationResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/reservations [post]
func (h *ReservationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	result, err := h.reservations.Create(c.Context(), GetTenantSchema(c), stock.CreateReservationInput{
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		CompanyID:  in.CompanyID,
		Qty:        in.Qty,
		Kind:       in.Kind,
		Origin:     in.Origin,
		DocRef:     in.DocRef,
		TTLMinutes: in.TTLMinutes,
		Notes:      in.Notes,
		CreatedBy:  GetUserID(c),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return reservationResult(c, fiber.StatusCreated, result)
}

// Confirm godoc
// @Summary      Confirmar una reserva activa
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la reserva"
// @Success      200  {object}  dto.ReservationResultResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/reservations/{id}/confirm [post]
func (h *ReservationHandler) Confirm(c *fiber.Ctx) error {
	result, err := h.reservations.Confirm(c.Context(), GetTenantSchema(c), c.Params("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return reservationResult(c, fiber.StatusOK, result)
}

// Cancel godoc
// @Summary      Cancelar una reserva activa
// @Description  Libera la cantidad reservada y escribe el movimiento UNRESERVE.
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la reserva"
// @Param        body  body  dto.CancelReservationRequest  false "reason"
// @Success      200   {object}  dto.ReservationResultResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelReservationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	result, err := h.reservations.Cancel(c.Context(), GetTenantSchema(c), c.Params("id"), in.Reason)
	if err != nil {
		return writeDomainError(c, err)
	}
	return reservationResult(c, fiber.StatusOK, result)
}

// List godoc
// @Summary      Listar reservas
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        balance_id  query  string  false  "Filtrar por saldo"
// @Param        kind        query  string  false  "SOFT | HARD"
// @Param        status      query  string  false  "ACTIVE, CONFIRMED, CANCELLED, EXPIRED"
// @Success      200  {array}  dto.ReservationResponse
// @Router       /api/stock/reservations [get]
func (h *ReservationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.Normalize()

	list, err := h.queries.ListReservations(c.Context(), GetTenantSchema(c), repository.ReservationFilter{
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
		"reservations": dto.ToReservationResponses(list),
		"page":         dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}
