package dto

import (
	"time"

	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
)

// CompanyRequest body para crear o actualizar una empresa.
type CompanyRequest struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// CompanyResponse representación pública de una empresa.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id,omitempty"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// ToCompanyResponse mapea la empresa de dominio a su representación pública.
func ToCompanyResponse(c *entity.Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Address:   c.Address,
		City:      c.City,
		Phone:     c.Phone,
		Email:     c.Email,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
	}
}

// ToCompanyResponses mapea una lista de empresas.
func ToCompanyResponses(list []*entity.Company) []CompanyResponse {
	out := make([]CompanyResponse, 0, len(list))
	for _, c := range list {
		out = append(out, ToCompanyResponse(c))
	}
	return out
}

// BranchRequest body para crear o actualizar una sucursal.
type BranchRequest struct {
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	IsMain    bool   `json:"is_main,omitempty"`
}

// BranchResponse representación pública de una sucursal.
type BranchResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	IsMain    bool      `json:"is_main"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// ToBranchResponse mapea la sucursal de dominio a su representación pública.
func ToBranchResponse(b *entity.Branch) BranchResponse {
	return BranchResponse{
		ID:        b.ID,
		CompanyID: b.CompanyID,
		Name:      b.Name,
		Code:      b.Code,
		Address:   b.Address,
		City:      b.City,
		Phone:     b.Phone,
		Email:     b.Email,
		IsMain:    b.IsMain,
		Active:    b.Active,
		CreatedAt: b.CreatedAt,
	}
}

// ToBranchResponses mapea una lista de sucursales.
func ToBranchResponses(list []*entity.Branch) []BranchResponse {
	out := make([]BranchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, ToBranchResponse(b))
	}
	return out
}
