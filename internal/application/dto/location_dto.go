package dto

import (
	"time"

	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
)

// CreateLocationRequest body para POST /api/locations.
type CreateLocationRequest struct {
	CompanyID      string   `json:"company_id"`
	BranchID       *string  `json:"branch_id,omitempty"`
	Name           string   `json:"name"`
	Code           string   `json:"code"`
	Kind           string   `json:"kind"`
	Address        string   `json:"address,omitempty"`
	City           string   `json:"city,omitempty"`
	State          string   `json:"state,omitempty"`
	Country        string   `json:"country,omitempty"`
	ZipCode        string   `json:"zip_code,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	AllowsInbound  bool     `json:"allows_inbound"`
	AllowsOutbound bool     `json:"allows_outbound"`
	AllowsTransfer bool     `json:"allows_transfer"`
}

// UpdateLocationRequest body para PUT /api/locations/:id.
type UpdateLocationRequest struct {
	Name           string   `json:"name"`
	Address        string   `json:"address,omitempty"`
	City           string   `json:"city,omitempty"`
	State          string   `json:"state,omitempty"`
	Country        string   `json:"country,omitempty"`
	ZipCode        string   `json:"zip_code,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	AllowsInbound  bool     `json:"allows_inbound"`
	AllowsOutbound bool     `json:"allows_outbound"`
	AllowsTransfer bool     `json:"allows_transfer"`
	Active         bool     `json:"active"`
}

// LocationResponse representación pública de una ubicación.
type LocationResponse struct {
	ID             string    `json:"id"`
	CompanyID      string    `json:"company_id"`
	BranchID       *string   `json:"branch_id,omitempty"`
	Name           string    `json:"name"`
	Code           string    `json:"code"`
	Kind           string    `json:"kind"`
	Address        string    `json:"address,omitempty"`
	City           string    `json:"city,omitempty"`
	State          string    `json:"state,omitempty"`
	Country        string    `json:"country,omitempty"`
	ZipCode        string    `json:"zip_code,omitempty"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
	AllowsInbound  bool      `json:"allows_inbound"`
	AllowsOutbound bool      `json:"allows_outbound"`
	AllowsTransfer bool      `json:"allows_transfer"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToLocationResponse mapea la ubicación de dominio a su representación pública.
func ToLocationResponse(l *entity.Location) LocationResponse {
	return LocationResponse{
		ID:             l.ID,
		CompanyID:      l.CompanyID,
		BranchID:       l.BranchID,
		Name:           l.Name,
		Code:           l.Code,
		Kind:           l.Kind,
		Address:        l.Address,
		City:           l.City,
		State:          l.State,
		Country:        l.Country,
		ZipCode:        l.ZipCode,
		Latitude:       l.Latitude,
		Longitude:      l.Longitude,
		AllowsInbound:  l.AllowsInbound,
		AllowsOutbound: l.AllowsOutbound,
		AllowsTransfer: l.AllowsTransfer,
		Active:         l.Active,
		CreatedAt:      l.CreatedAt,
	}
}

// ToLocationResponses mapea una lista de ubicaciones.
func ToLocationResponses(list []*entity.Location) []LocationResponse {
	out := make([]LocationResponse, 0, len(list))
	for _, l := range list {
		out = append(out, ToLocationResponse(l))
	}
	return out
}
