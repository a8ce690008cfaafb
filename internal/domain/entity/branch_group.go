package entity

import "time"

// Reglas de asignación de sucursal para cross-fulfillment.
const (
	AllocationByProximity  = "BY_PROXIMITY"
	AllocationByMostStock  = "BY_MOST_STOCK"
	AllocationByLowestCost = "BY_LOWEST_COST"
	AllocationByRotation   = "BY_ROTATION"
	AllocationManual       = "MANUAL"
)

// ValidAllocationRule indica si rule es una regla reconocida.
func ValidAllocationRule(rule string) bool {
	switch rule {
	case AllocationByProximity, AllocationByMostStock, AllocationByLowestCost,
		AllocationByRotation, AllocationManual:
		return true
	}
	return false
}

// BranchGroup agrupa sucursales de una misma empresa para vistas consolidadas
// y asignación de despacho entre sucursales.
// Invariante: todas las BranchIDs pertenecen a CompanyID.
type BranchGroup struct {
	ID                    string
	CompanyID             string
	Name                  string
	Code                  string // único dentro del tenant
	AllocationRule        string // ver constantes Allocation*
	AllowCrossFulfillment bool
	Active                bool
	BranchIDs             []string
	IsDeleted             bool
	DeletedAt             *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// HasBranch indica si la sucursal es miembro del grupo.
func (g *BranchGroup) HasBranch(branchID string) bool {
	for _, id := range g.BranchIDs {
		if id == branchID {
			return true
		}
	}
	return false
}
