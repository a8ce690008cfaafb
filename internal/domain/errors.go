package domain

import "errors"

// Errores de dominio (sin dependencias externas). Los handlers HTTP los
// traducen a status codes en el borde; los workers los registran y continúan.
var (
	// Validación
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrInvalidQuantity = errors.New("la cantidad debe ser mayor que cero")
	ErrInvalidKind     = errors.New("tipo no reconocido")

	// Precondiciones sobre ubicaciones
	ErrInactiveLocation     = errors.New("la ubicación no está activa")
	ErrInboundForbidden     = errors.New("la ubicación no permite entradas")
	ErrOutboundForbidden    = errors.New("la ubicación no permite salidas")
	ErrCompanyMismatch      = errors.New("la ubicación no pertenece a la empresa")
	ErrSameLocationTransfer = errors.New("origen y destino no pueden ser la misma ubicación")

	// Estado del stock
	ErrBalanceNotFound      = errors.New("saldo de stock no encontrado")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrReservationNotActive = errors.New("la reserva no permite la operación en su estado actual")
	ErrAlreadyReversed      = errors.New("el movimiento ya fue reversado")

	// Tenant
	ErrTenantNotIdentified = errors.New("no se pudo identificar el tenant de la petición")
	ErrTenantInactive      = errors.New("el tenant está desactivado")
	// ErrSchemaNotReady: el schema del tenant aún no tiene sus tablas
	// (migraciones en curso). Los workers lo tratan como skip, no como fallo.
	ErrSchemaNotReady = errors.New("el schema del tenant no está listo")

	// Genéricos
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrDuplicate     = errors.New("recurso duplicado")
	ErrUnauthorized  = errors.New("no autorizado")
	ErrForbidden     = errors.New("acceso denegado")
	ErrConflict      = errors.New("conflicto con el estado actual")
	ErrQuotaExceeded = errors.New("cuota del plan excedida")
)
