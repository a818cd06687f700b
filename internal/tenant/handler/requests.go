package handler

import (
	"strings"

	id "leasehold/pkg/domain"
	dErrors "leasehold/pkg/domain-errors"
)

// RegisterTenantRequest is the HTTP request body for POST /admin/tenants.
type RegisterTenantRequest struct {
	TenantID      string  `json:"tenant_id"`
	FullName      string  `json:"full_name"`
	CreditScore   float64 `json:"credit_score"`
	MonthlyIncome float64 `json:"monthly_income"`
	HasPets       bool    `json:"has_pets"`
	Occupants     int     `json:"occupants"`
}

// Validate validates the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *RegisterTenantRequest) Validate() error {
	r.TenantID = strings.TrimSpace(r.TenantID)
	r.FullName = strings.TrimSpace(r.FullName)
	if r.TenantID == "" {
		return dErrors.New(dErrors.CodeValidation, "tenant_id is required")
	}
	if r.FullName == "" {
		return dErrors.New(dErrors.CodeValidation, "full_name is required")
	}
	if r.MonthlyIncome < 0 {
		return dErrors.New(dErrors.CodeValidation, "monthly_income must not be negative")
	}
	return nil
}

// ParsedTenantID returns the tenant reference.
func (r *RegisterTenantRequest) ParsedTenantID() id.TenantID { return id.TenantID(r.TenantID) }

// ApproveApplicationRequest is the HTTP request body for
// POST /admin/tenants/{id}/approve.
type ApproveApplicationRequest struct {
	ProposedRent float64 `json:"proposed_rent"`
}

func (r *ApproveApplicationRequest) Validate() error {
	if r.ProposedRent <= 0 {
		return dErrors.New(dErrors.CodeValidation, "proposed_rent must be positive")
	}
	return nil
}
