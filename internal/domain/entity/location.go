package entity

import "time"

// Tipos de ubicación física.
const (
	LocationKindStore      = "STORE"
	LocationKindWarehouse  = "WAREHOUSE"
	LocationKindDepot      = "DEPOT"
	LocationKindDC         = "DC"
	LocationKindThirdParty = "THIRD_PARTY"
	LocationKindOther      = "OTHER"
)

// ValidLocationKind indica si kind es uno de los tipos reconocidos.
func ValidLocationKind(kind string) bool {
	switch kind {
	case LocationKindStore, LocationKindWarehouse, LocationKindDepot,
		LocationKindDC, LocationKindThirdParty, LocationKindOther:
		return true
	}
	return false
}

// Location representa un lugar físico que almacena stock. Pertenece a una
// empresa y opcionalmente a una sucursal; si BranchID es nil la ubicación
// es de la empresa como un todo.
// Invariante: si BranchID != nil, la sucursal pertenece a CompanyID.
type Location struct {
	ID             string
	CompanyID      string
	BranchID       *string
	Name           string
	Code           string // único dentro del tenant
	Kind           string // ver constantes LocationKind*
	Address        string
	City           string
	State          string
	Country        string
	ZipCode        string
	Latitude       *float64
	Longitude      *float64
	AllowsInbound  bool
	AllowsOutbound bool
	AllowsTransfer bool
	Active         bool
	IsDeleted      bool
	DeletedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
