package dto

import (
	"time"

	"github.com/jhoicas/erp-stock-api/internal/domain/entity"
)

// CreateBranchGroupRequest body para POST /api/branch-groups.
type CreateBranchGroupRequest struct {
	CompanyID             string   `json:"company_id"`
	Name                  string   `json:"name"`
	Code                  string   `json:"code"`
	AllocationRule        string   `json:"allocation_rule"`
	AllowCrossFulfillment bool     `json:"allow_cross_fulfillment"`
	BranchIDs             []string `json:"branch_ids"`
}

// UpdateBranchGroupRequest body para PUT /api/branch-groups/:id.
type UpdateBranchGroupRequest struct {
	Name                  string `json:"name"`
	AllocationRule        string `json:"allocation_rule"`
	AllowCrossFulfillment bool   `json:"allow_cross_fulfillment"`
	Active                bool   `json:"active"`
}

// SetBranchesRequest body para PUT /api/branch-groups/:id/branches.
type SetBranchesRequest struct {
	BranchIDs []string `json:"branch_ids"`
}

// BranchGroupResponse representación pública de un grupo de sucursales.
type BranchGroupResponse struct {
	ID                    string    `json:"id"`
	CompanyID             string    `json:"company_id"`
	Name                  string    `json:"name"`
	Code                  string    `json:"code"`
	AllocationRule        string    `json:"allocation_rule"`
	AllowCrossFulfillment bool      `json:"allow_cross_fulfillment"`
	Active                bool      `json:"active"`
	BranchIDs             []string  `json:"branch_ids"`
	CreatedAt             time.Time `json:"created_at"`
}

// ToBranchGroupResponse mapea el grupo de dominio a su representación pública.
func ToBranchGroupResponse(g *entity.BranchGroup) BranchGroupResponse {
	return BranchGroupResponse{
		ID:                    g.ID,
		CompanyID:             g.CompanyID,
		Name:                  g.Name,
		Code:                  g.Code,
		AllocationRule:        g.AllocationRule,
		AllowCrossFulfillment: g.AllowCrossFulfillment,
		Active:                g.Active,
		BranchIDs:             g.BranchIDs,
		CreatedAt:             g.CreatedAt,
	}
}

// ToBranchGroupResponses mapea una lista de grupos.
func ToBranchGroupResponses(list []*entity.BranchGroup) []BranchGroupResponse {
	out := make([]BranchGroupResponse, 0, len(list))
	for _, g := range list {
		out = append(out, ToBranchGroupResponse(g))
	}
	return out
}
