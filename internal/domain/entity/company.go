package entity

import "time"

// Company representa una empresa dentro del namespace de un tenant.
// Un tenant puede tener varias empresas; cada una puede tener sucursales.
type Company struct {
	ID        string
	Name      string
	TaxID     string // identificación tributaria (NIT, CNPJ, RUC...)
	Address   string
	City      string
	Phone     string
	Email     string
	Active    bool
	IsDeleted bool
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Branch representa una sucursal de una empresa.
type Branch struct {
	ID        string
	CompanyID string
	Name      string
	Code      string
	Address   string
	City      string
	Phone     string
	Email     string
	IsMain    bool
	Active    bool
	IsDeleted bool
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
