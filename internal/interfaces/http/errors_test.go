package http

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-stock-api/internal/domain"
)

// Test interno: writeDomainError no se exporta, el mapeo se valida acá.
func TestWriteDomainError_Mapeo(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.ErrInvalidQuantity, fiber.StatusBadRequest},
		{domain.ErrInactiveLocation, fiber.StatusBadRequest},
		{domain.ErrCompanyMismatch, fiber.StatusBadRequest},
		{domain.ErrTenantNotIdentified, fiber.StatusBadRequest},
		{domain.ErrTenantInactive, fiber.StatusForbidden},
		{domain.ErrUnauthorized, fiber.StatusUnauthorized},
		{domain.ErrNotFound, fiber.StatusNotFound},
		{domain.ErrBalanceNotFound, fiber.StatusNotFound},
		{domain.ErrDuplicate, fiber.StatusConflict},
		{domain.ErrInsufficientStock, fiber.StatusConflict},
		{domain.ErrReservationNotActive, fiber.StatusConflict},
		{domain.ErrAlreadyReversed, fiber.StatusConflict},
		{domain.ErrQuotaExceeded, fiber.StatusForbidden},
		{errors.New("algo inesperado"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		app := fiber.New()
		err := tc.err
		app.Get("/", func(c *fiber.Ctx) error { return writeDomainError(c, err) })

		resp, appErr := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
		require.NoError(t, appErr)
		assert.Equal(t, tc.status, resp.StatusCode, "error: %v", tc.err)
	}
}

// Los errores envueltos conservan su mapeo vía errors.Is.
func TestWriteDomainError_ErrorEnvuelto(t *testing.T) {
	app := fiber.New()
	wrapped := errors.Join(errors.New("contexto"), domain.ErrInsufficientStock)
	app.Get("/", func(c *fiber.Ctx) error { return writeDomainError(c, wrapped) })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}
