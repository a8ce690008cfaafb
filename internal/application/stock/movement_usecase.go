package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/erp-stock-api/internal/domain"
	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
	domstock "github.com/jhoicas/erp-stock-api/internal/domain/stock"
)

// MovementUseCase procesa entradas, salidas, traslados y reversos de stock de
// forma transaccional, con bloqueo de fila (SELECT FOR UPDATE) sobre el saldo
// y Commit/Rollback. Cada cambio de saldo escribe su Movement en la misma
// transacción: nunca hay cambio de saldo sin fila de auditoría.
type MovementUseCase struct {
	tx TxRunner
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(tx TxRunner) *MovementUseCase {
	return &MovementUseCase{tx: tx}
}

// EntryInput entrada para procesar una entrada de stock.
type EntryInput struct {
	ProductID      string
	LocationID     string
	CompanyID      string
	Qty            decimal.Decimal
	UnitValue      decimal.Decimal
	Origin         string
	DocRef         string
	NFNumber       string
	NFSeries       string
	Notes          string
	UpdateForecast bool
	CreatedBy      string
}

// EntryResult resultado de una entrada procesada.
type EntryResult struct {
	Balance  *entity.StockBalance
	Movement *entity.Movement
	PrevCost decimal.Decimal
	NewCost  decimal.Decimal
}

// ExitInput entrada para procesar una salida de stock.
type ExitInput struct {
	ProductID      string
	LocationID     string
	CompanyID      string
	Qty            decimal.Decimal
	UnitValue      decimal.Decimal
	Origin         string
	DocRef         string
	NFNumber       string
	NFSeries       string
	Notes          string
	UpdateForecast bool
	VerifyMin      bool
	CreatedBy      string
}

// MinLevelAlert alerta no fatal cuando una salida deja el saldo bajo el mínimo.
type MinLevelAlert struct {
	Current decimal.Decimal
	Min     decimal.Decimal
	Delta   decimal.Decimal // current - min (negativo cuando está por debajo)
}

// ExitResult resultado de una salida procesada. MinAlert es nil si no aplica.
type ExitResult struct {
	Balance  *entity.StockBalance
	Movement *entity.Movement
	MinAlert *MinLevelAlert
}

// TransferInput entrada para procesar un traslado entre ubicaciones.
// Si UnitValue es nil se usa el costo promedio de la ubicación origen.
type TransferInput struct {
	ProductID      string
	FromLocationID string
	ToLocationID   string
	CompanyID      string
	Qty            decimal.Decimal
	UnitValue      *decimal.Decimal
	DocRef         string
	Notes          string
	CreatedBy      string
}

// TransferResult resultado de un traslado: ambos saldos y el par EXIT/ENTRY.
type TransferResult struct {
	FromBalance   *entity.StockBalance
	ToBalance     *entity.StockBalance
	ExitMovement  *entity.Movement
	EntryMovement *entity.Movement
}

// checkLocation valida las precondiciones de una ubicación para la operación.
func checkLocation(loc *entity.Location, companyID string, needInbound, needOutbound bool) error {
	if loc == nil {
		return domain.ErrNotFound
	}
	if loc.CompanyID != companyID {
		return domain.ErrCompanyMismatch
	}
	if !loc.Active || loc.IsDeleted {
		return domain.ErrInactiveLocation
	}
	if needInbound && !loc.AllowsInbound {
		return domain.ErrInboundForbidden
	}
	if needOutbound && !loc.AllowsOutbound {
		return domain.ErrOutboundForbidden
	}
	return nil
}

// ProcessEntry registra una entrada: bloquea (o crea) el saldo, recalcula el
// costo promedio ponderado, suma on_hand, descuenta predicted_in si se pide y
// escribe el Movement ENTRY CONFIRMED — todo en una transacción.
func (uc *MovementUseCase) ProcessEntry(ctx context.Context, schema string, in EntryInput) (*EntryResult, error) {
	if !in.Qty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if in.UnitValue.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.Origin == "" {
		in.Origin = entity.MovementOriginPurchase
	}
	now := time.Now()

	var result *EntryResult
	err := uc.tx.Run(ctx, schema, func(r Repos) error {
		loc, err := r.Locations.GetByID(ctx, in.LocationID)
		if err != nil {
			return err
		}
		if err := checkLocation(loc, in.CompanyID, true, false); err != nil {
			return err
		}

		// Bloquea la fila del saldo para evitar condiciones de carrera
		balance, err := r.Balances.GetForUpdate(ctx, in.ProductID, in.LocationID)
		if err != nil {
			return err
		}
		if balance == nil {
			balance = &entity.StockBalance{
				ID:         uuid.New().String(),
				ProductID:  in.ProductID,
				LocationID: in.LocationID,
				CompanyID:  in.CompanyID,
				CreatedAt:  now,
			}
		}

		prevQty := balance.OnHand
		prevCost := balance.WeightedAvgCost
		newCost := domstock.WeightedAverageCost(prevQty, prevCost, in.Qty, in.UnitValue)

		balance.OnHand = prevQty.Add(in.Qty)
		balance.WeightedAvgCost = newCost
		if in.UpdateForecast && balance.PredictedIn.GreaterThan(decimal.Zero) {
			balance.PredictedIn = balance.PredictedIn.Sub(decimal.Min(balance.PredictedIn, in.Qty))
		}
		balance.UpdatedAt = now
		balance.Recompute()
		if err := r.Balances.Save(ctx, balance); err != nil {
			return err
		}

		mov := &entity.Movement{
			ID:           uuid.New().String(),
			BalanceID:    balance.ID,
			Kind:         entity.MovementKindEntry,
			Origin:       in.Origin,
			Status:       entity.MovementStatusConfirmed,
			Qty:          in.Qty,
			QtyBefore:    prevQty,
			QtyAfter:     balance.OnHand,
			UnitValue:    in.UnitValue,
			TotalValue:   in.Qty.Mul(in.UnitValue).Round(2),
			LocationToID: &in.LocationID,
			DocRef:       in.DocRef,
			NFNumber:     in.NFNumber,
			NFSeries:     in.NFSeries,
			Notes:        in.Notes,
			CreatedBy:    in.CreatedBy,
			OccurredAt:   now,
			CreatedAt:    now,
		}
		if err := r.Movements.Create(ctx, mov); err != nil {
			return err
		}

		result = &EntryResult{Balance: balance, Movement: mov, PrevCost: prevCost, NewCost: newCost}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ProcessExit registra una salida: exige saldo existente y available >= qty
// (respeta reservas vigentes), resta on_hand y escribe el Movement EXIT.
// Si VerifyMin y el saldo queda bajo el mínimo, devuelve la alerta (no fatal).
func (uc *MovementUseCase) ProcessExit(ctx context.Context, schema string, in ExitInput) (*ExitResult, error) {
	if !in.Qty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if in.UnitValue.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.Origin == "" {
		in.Origin = entity.MovementOriginSale
	}
	now := time.Now()

	var result *ExitResult
	err := uc.tx.Run(ctx, schema, func(r Repos) error {
		loc, err := r.Locations.GetByID(ctx, in.LocationID)
		if err != nil {
			return err
		}
		if err := checkLocation(loc, in.CompanyID, false, true); err != nil {
			return err
		}

		balance, err := r.Balances.GetForUpdate(ctx, in.ProductID, in.LocationID)
		if err != nil {
			return err
		}
		if balance == nil {
			return domain.ErrBalanceNotFound
		}
		if balance.Available.LessThan(in.Qty) {
			return domain.ErrInsufficientStock
		}

		prevQty := balance.OnHand
		unitValue := in.UnitValue
		if unitValue.IsZero() {
			unitValue = balance.WeightedAvgCost
		}

		balance.OnHand = prevQty.Sub(in.Qty)
		if in.UpdateForecast && balance.PredictedOut.GreaterThan(decimal.Zero) {
			balance.PredictedOut = balance.PredictedOut.Sub(decimal.Min(balance.PredictedOut, in.Qty))
		}
		balance.UpdatedAt = now
		balance.Recompute()
		if err := r.Balances.Save(ctx, balance); err != nil {
			return err
		}

		mov := &entity.Movement{
			ID:             uuid.New().String(),
			BalanceID:      balance.ID,
			Kind:           entity.MovementKindExit,
			Origin:         in.Origin,
			Status:         entity.MovementStatusConfirmed,
			Qty:            in.Qty,
			QtyBefore:      prevQty,
			QtyAfter:       balance.OnHand,
			UnitValue:      unitValue,
			TotalValue:     in.Qty.Mul(unitValue).Round(2),
			LocationFromID: &in.LocationID,
			DocRef:         in.DocRef,
			NFNumber:       in.NFNumber,
			NFSeries:       in.NFSeries,
			Notes:          in.Notes,
			CreatedBy:      in.CreatedBy,
			OccurredAt:     now,
			CreatedAt:      now,
		}
		if err := r.Movements.Create(ctx, mov); err != nil {
			return err
		}

		result = &ExitResult{Balance: balance, Movement: mov}
		if in.VerifyMin && balance.BelowMinLevel() {
			result.MinAlert = &MinLevelAlert{
				Current: balance.OnHand,
				Min:     balance.MinLevel,
				Delta:   balance.OnHand.Sub(balance.MinLevel),
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ProcessTransfer traslada stock entre dos ubicaciones de la misma empresa:
// resta en origen, recalcula costo y suma en destino, y escribe el par
// EXIT/ENTRY con el mismo doc_ref — una sola transacción.
// Los saldos se bloquean en orden fijo por location_id para evitar deadlocks.
func (uc *MovementUseCase) ProcessTransfer(ctx context.Context, schema string, in TransferInput) (*TransferResult, error) {
	if !in.Qty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if in.FromLocationID == in.ToLocationID {
		return nil, domain.ErrSameLocationTransfer
	}
	now := time.Now()
	if in.DocRef == "" {
		in.DocRef = uuid.New().String()
	}

	var result *TransferResult
	err := uc.tx.Run(ctx, schema, func(r Repos) error {
		from, err := r.Locations.GetByID(ctx, in.FromLocationID)
		if err != nil {
			return err
		}
		if err := checkLocation(from, in.CompanyID, false, true); err != nil {
			return err
		}
		to, err := r.Locations.GetByID(ctx, in.ToLocationID)
		if err != nil {
			return err
		}
		if err := checkLocation(to, in.CompanyID, true, false); err != nil {
			return err
		}

		// Orden fijo de bloqueo por location_id
		var src, dst *entity.StockBalance
		if in.FromLocationID < in.ToLocationID {
			if src, err = r.Balances.GetForUpdate(ctx, in.ProductID, in.FromLocationID); err != nil {
				return err
			}
			if dst, err = r.Balances.GetForUpdate(ctx, in.ProductID, in.ToLocationID); err != nil {
				return err
			}
		} else {
			if dst, err = r.Balances.GetForUpdate(ctx, in.ProductID, in.ToLocationID); err != nil {
				return err
			}
			if src, err = r.Balances.GetForUpdate(ctx, in.ProductID, in.FromLocationID); err != nil {
				return err
			}
		}
		if src == nil {
			return domain.ErrBalanceNotFound
		}
		if src.Available.LessThan(in.Qty) {
			return domain.ErrInsufficientStock
		}
		if dst == nil {
			dst = &entity.StockBalance{
				ID:         uuid.New().String(),
				ProductID:  in.ProductID,
				LocationID: in.ToLocationID,
				CompanyID:  in.CompanyID,
				CreatedAt:  now,
			}
		}

		unitValue := src.WeightedAvgCost
		if in.UnitValue != nil {
			unitValue = *in.UnitValue
		}

		srcBefore := src.OnHand
		src.OnHand = srcBefore.Sub(in.Qty)
		src.UpdatedAt = now
		src.Recompute()
		if err := r.Balances.Save(ctx, src); err != nil {
			return err
		}

		dstBefore := dst.OnHand
		dst.WeightedAvgCost = domstock.WeightedAverageCost(dstBefore, dst.WeightedAvgCost, in.Qty, unitValue)
		dst.OnHand = dstBefore.Add(in.Qty)
		dst.UpdatedAt = now
		dst.Recompute()
		if err := r.Balances.Save(ctx, dst); err != nil {
			return err
		}

		exitMov := &entity.Movement{
			ID:             uuid.New().String(),
			BalanceID:      src.ID,
			Kind:           entity.MovementKindExit,
			Origin:         entity.MovementOriginTransferLocations,
			Status:         entity.MovementStatusConfirmed,
			Qty:            in.Qty,
			QtyBefore:      srcBefore,
			QtyAfter:       src.OnHand,
			UnitValue:      unitValue,
			TotalValue:     in.Qty.Mul(unitValue).Round(2),
			LocationFromID: &in.FromLocationID,
			LocationToID:   &in.ToLocationID,
			DocRef:         in.DocRef,
			Notes:          in.Notes,
			CreatedBy:      in.CreatedBy,
			OccurredAt:     now,
			CreatedAt:      now,
		}
		if err := r.Movements.Create(ctx, exitMov); err != nil {
			return err
		}
		entryMov := &entity.Movement{
			ID:             uuid.New().String(),
			BalanceID:      dst.ID,
			Kind:           entity.MovementKindEntry,
			Origin:         entity.MovementOriginTransferLocations,
			Status:         entity.MovementStatusConfirmed,
			Qty:            in.Qty,
			QtyBefore:      dstBefore,
			QtyAfter:       dst.OnHand,
			UnitValue:      unitValue,
			TotalValue:     in.Qty.Mul(unitValue).Round(2),
			LocationFromID: &in.FromLocationID,
			LocationToID:   &in.ToLocationID,
			DocRef:         in.DocRef,
			Notes:          in.Notes,
			CreatedBy:      in.CreatedBy,
			OccurredAt:     now,
			CreatedAt:      now,
		}
		if err := r.Movements.Create(ctx, entryMov); err != nil {
			return err
		}

		result = &TransferResult{FromBalance: src, ToBalance: dst, ExitMovement: exitMov, EntryMovement: entryMov}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReverseResult resultado de un reverso: el movimiento inverso y el saldo ajustado.
type ReverseResult struct {
	Balance  *entity.StockBalance
	Movement *entity.Movement
}

// Reverse revierte un movimiento CONFIRMED: lo marca REVERSED, ajusta el saldo
// de forma simétrica y escribe el movimiento inverso con original_movement_ref.
// Reversar un movimiento ya REVERSED falla; solo se soportan ENTRY y EXIT
// (los traslados se reversan pierna a pierna).
func (uc *MovementUseCase) Reverse(ctx context.Context, schema, movementID, reason, createdBy string) (*ReverseResult, error) {
	now := time.Now()

	var result *ReverseResult
	err := uc.tx.Run(ctx, schema, func(r Repos) error {
		orig, err := r.Movements.GetByID(ctx, movementID)
		if err != nil {
			return err
		}
		if orig == nil {
			return domain.ErrNotFound
		}
		if orig.Status == entity.MovementStatusReversed {
			return domain.ErrAlreadyReversed
		}
		if orig.Status != entity.MovementStatusConfirmed {
			return domain.ErrConflict
		}

		var reverseKind string
		switch orig.Kind {
		case entity.MovementKindEntry:
			reverseKind = entity.MovementKindExit
		case entity.MovementKindExit:
			reverseKind = entity.MovementKindEntry
		default:
			return domain.ErrInvalidKind
		}

		balance, err := r.Balances.GetByIDForUpdate(ctx, orig.BalanceID)
		if err != nil {
			return err
		}
		if balance == nil {
			return domain.ErrBalanceNotFound
		}

		prevQty := balance.OnHand
		if reverseKind == entity.MovementKindExit {
			// Deshacer una entrada: debe haber disponible suficiente
			if balance.Available.LessThan(orig.Qty) {
				return domain.ErrInsufficientStock
			}
			balance.OnHand = prevQty.Sub(orig.Qty)
		} else {
			balance.OnHand = prevQty.Add(orig.Qty)
		}
		balance.UpdatedAt = now
		balance.Recompute()
		if err := r.Balances.Save(ctx, balance); err != nil {
			return err
		}

		if err := r.Movements.MarkReversed(ctx, orig.ID, reason); err != nil {
			return err
		}

		mov := &entity.Movement{
			ID:                 uuid.New().String(),
			BalanceID:          balance.ID,
			Kind:               reverseKind,
			Origin:             orig.Origin,
			Status:             entity.MovementStatusConfirmed,
			Qty:                orig.Qty,
			QtyBefore:          prevQty,
			QtyAfter:           balance.OnHand,
			UnitValue:          orig.UnitValue,
			TotalValue:         orig.TotalValue,
			LocationFromID:     orig.LocationToID,
			LocationToID:       orig.LocationFromID,
			DocRef:             orig.DocRef,
			OriginalMovementID: &orig.ID,
			ReversalReason:     reason,
			CreatedBy:          createdBy,
			OccurredAt:         now,
			CreatedAt:          now,
		}
		if err := r.Movements.Create(ctx, mov); err != nil {
			return err
		}

		result = &ReverseResult{Balance: balance, Movement: mov}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
