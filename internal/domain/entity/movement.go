package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock. La cantidad siempre es positiva; el signo
// lo aporta el tipo.
const (
	MovementKindEntry      = "ENTRY"
	MovementKindExit       = "EXIT"
	MovementKindTransfer   = "TRANSFER"
	MovementKindAdjustment = "ADJUSTMENT"
	MovementKindReserve    = "RESERVE"
	MovementKindUnreserve  = "UNRESERVE"
)

// Orígenes (razón de negocio) de un movimiento.
const (
	MovementOriginPurchase          = "PURCHASE"
	MovementOriginSale              = "SALE"
	MovementOriginTransferLocations = "TRANSFER_BETWEEN_LOCATIONS"
	MovementOriginAdjustment        = "ADJUSTMENT"
	MovementOriginLoss              = "LOSS"
	MovementOriginNFCancel          = "NF_CANCEL"
	MovementOriginNFReturn          = "NF_RETURN"
)

// Estados de un movimiento.
const (
	MovementStatusPending   = "PENDING"
	MovementStatusConfirmed = "CONFIRMED"
	MovementStatusCancelled = "CANCELLED"
	MovementStatusReversed  = "REVERSED"
)

// Movement es el registro append-only de auditoría de cada cambio atómico
// sobre un StockBalance. Ningún saldo cambia sin su fila de movimiento.
type Movement struct {
	ID                 string
	BalanceID          string
	Kind               string // ver MovementKind*
	Origin             string // ver MovementOrigin*
	Status             string // ver MovementStatus*
	Qty                decimal.Decimal // siempre > 0
	QtyBefore          decimal.Decimal
	QtyAfter           decimal.Decimal
	UnitValue          decimal.Decimal
	TotalValue         decimal.Decimal // Qty * UnitValue, 2 decimales
	LocationFromID     *string
	LocationToID       *string
	DocRef             string
	NFNumber           string
	NFSeries           string
	Notes              string
	OriginalMovementID *string // para reversos
	ReversalReason     string
	CreatedBy          string
	OccurredAt         time.Time
	CreatedAt          time.Time
}
