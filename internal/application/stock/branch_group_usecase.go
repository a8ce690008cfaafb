package stock

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/erp-stock-api/internal/domain"
	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
)

// BranchGroupUseCase expone vistas consolidadas y asignación de sucursal
// (cross-fulfillment) sobre un grupo de sucursales de una empresa.
type BranchGroupUseCase struct {
	tx TxRunner

	// rotación round-robin por grupo para BY_ROTATION; en memoria del proceso,
	// sin contador persistido (decisión registrada en DESIGN.md)
	mu       sync.Mutex
	rotation map[string]int
}

// NewBranchGroupUseCase construye el caso de uso.
func NewBranchGroupUseCase(tx TxRunner) *BranchGroupUseCase {
	return &BranchGroupUseCase{tx: tx, rotation: make(map[string]int)}
}

// ConsolidatedView agregados de un producto sobre las ubicaciones del grupo.
type ConsolidatedView struct {
	GroupID       string
	ProductID     string
	OnHand        decimal.Decimal
	Reserved      decimal.Decimal
	Available     decimal.Decimal
	PredictedIn   decimal.Decimal
	PredictedOut  decimal.Decimal
	TotalValue    decimal.Decimal
	LocationCount int
}

// Consolidated suma los saldos del producto en las ubicaciones activas cuyas
// sucursales pertenecen al grupo.
func (uc *BranchGroupUseCase) Consolidated(ctx context.Context, schema, groupID, productID string) (*ConsolidatedView, error) {
	var view *ConsolidatedView
	err := uc.tx.RunRead(ctx, schema, func(r Repos) error {
		group, err := r.BranchGroups.GetByID(ctx, groupID)
		if err != nil {
			return err
		}
		if group == nil {
			return domain.ErrNotFound
		}

		locations, err := r.Locations.ListByBranches(ctx, group.BranchIDs)
		if err != nil {
			return err
		}
		locIDs := make([]string, 0, len(locations))
		for _, loc := range locations {
			locIDs = append(locIDs, loc.ID)
		}

		balances, err := r.Balances.ListByLocations(ctx, productID, locIDs)
		if err != nil {
			return err
		}

		view = &ConsolidatedView{GroupID: groupID, ProductID: productID}
		for _, b := range balances {
			view.OnHand = view.OnHand.Add(b.OnHand)
			view.Reserved = view.Reserved.Add(b.Reserved)
			view.Available = view.Available.Add(b.Available)
			view.PredictedIn = view.PredictedIn.Add(b.PredictedIn)
			view.PredictedOut = view.PredictedOut.Add(b.PredictedOut)
			view.TotalValue = view.TotalValue.Add(b.TotalValue)
			view.LocationCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// BranchChoice resultado de ChooseBranch: la sucursal elegida y la ubicación
// concreta que satisface la cantidad. Found en false significa sin candidata.
type BranchChoice struct {
	Found      bool
	BranchID   string
	LocationID string
	Available  decimal.Decimal
	UnitCost   decimal.Decimal
}

// candidate ubicación elegible con su saldo.
type candidate struct {
	location *entity.Location
	balance  *entity.StockBalance
}

// ChooseBranch elige la sucursal que despacha qty del producto según la regla
// de asignación del grupo. Con allow_cross_fulfillment en false solo la
// sucursal de origen puede despachar (si es miembro y tiene stock).
func (uc *BranchGroupUseCase) ChooseBranch(ctx context.Context, schema, groupID, productID string, qty decimal.Decimal, originBranchID string) (*BranchChoice, error) {
	if !qty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}

	var choice *BranchChoice
	err := uc.tx.RunRead(ctx, schema, func(r Repos) error {
		group, err := r.BranchGroups.GetByID(ctx, groupID)
		if err != nil {
			return err
		}
		if group == nil {
			return domain.ErrNotFound
		}

		locations, err := r.Locations.ListByBranches(ctx, group.BranchIDs)
		if err != nil {
			return err
		}
		locByID := make(map[string]*entity.Location, len(locations))
		locIDs := make([]string, 0, len(locations))
		for _, loc := range locations {
			locByID[loc.ID] = loc
			locIDs = append(locIDs, loc.ID)
		}
		balances, err := r.Balances.ListByLocations(ctx, productID, locIDs)
		if err != nil {
			return err
		}

		// Elegibles: salida permitida y available suficiente
		var candidates []candidate
		for _, b := range balances {
			loc := locByID[b.LocationID]
			if loc == nil || !loc.AllowsOutbound {
				continue
			}
			if b.Available.LessThan(qty) {
				continue
			}
			candidates = append(candidates, candidate{location: loc, balance: b})
		}

		choice = &BranchChoice{}
		if len(candidates) == 0 {
			return nil
		}

		if !group.AllowCrossFulfillment {
			// Solo la sucursal de origen puede despachar
			if originBranchID == "" || !group.HasBranch(originBranchID) {
				return nil
			}
			for _, c := range candidates {
				if c.location.BranchID != nil && *c.location.BranchID == originBranchID {
					*choice = chosen(c)
					return nil
				}
			}
			return nil
		}

		var pick candidate
		switch group.AllocationRule {
		case entity.AllocationByMostStock:
			pick = candidates[0]
			for _, c := range candidates[1:] {
				if c.balance.Available.GreaterThan(pick.balance.Available) {
					pick = c
				}
			}
		case entity.AllocationByLowestCost:
			pick = candidates[0]
			for _, c := range candidates[1:] {
				if c.balance.WeightedAvgCost.LessThan(pick.balance.WeightedAvgCost) {
					pick = c
				}
			}
		case entity.AllocationByProximity:
			// Preferir la sucursal de origen si califica; si no, la primera elegible
			pick = candidates[0]
			if originBranchID != "" {
				for _, c := range candidates {
					if c.location.BranchID != nil && *c.location.BranchID == originBranchID {
						pick = c
						break
					}
				}
			}
		case entity.AllocationByRotation:
			pick = candidates[uc.nextRotation(groupID, len(candidates))]
		default:
			// MANUAL y reglas desconocidas: primera elegible, el caller decide
			pick = candidates[0]
		}

		*choice = chosen(pick)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return choice, nil
}

func chosen(c candidate) BranchChoice {
	branchID := ""
	if c.location.BranchID != nil {
		branchID = *c.location.BranchID
	}
	return BranchChoice{
		Found:      true,
		BranchID:   branchID,
		LocationID: c.location.ID,
		Available:  c.balance.Available,
		UnitCost:   c.balance.WeightedAvgCost,
	}
}

// nextRotation devuelve el índice round-robin para el grupo.
func (uc *BranchGroupUseCase) nextRotation(groupID string, n int) int {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	idx := uc.rotation[groupID] % n
	uc.rotation[groupID] = idx + 1
	return idx
}
