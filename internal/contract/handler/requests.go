package handler

import (
	"strings"
	"time"

	id "leasehold/pkg/domain"
	dErrors "leasehold/pkg/domain-errors"
)

// CreateContractRequest is the HTTP request body for POST /admin/contracts.
type CreateContractRequest struct {
	PropertyID      string  `json:"property_id"`
	TenantID        string  `json:"tenant_id"`
	OwnerID         string  `json:"owner_id"`
	StartDate       string  `json:"start_date"`
	LeaseTermMonths int     `json:"lease_term_months"`
	MonthlyRent     float64 `json:"monthly_rent"`
	PaymentTerms    string  `json:"payment_terms"`

	// Parsed values (populated by Validate)
	parsedStart time.Time
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CreateContractRequest) Validate() error {
	r.PropertyID = strings.TrimSpace(r.PropertyID)
	r.TenantID = strings.TrimSpace(r.TenantID)
	r.OwnerID = strings.TrimSpace(r.OwnerID)
	if r.PropertyID == "" || r.TenantID == "" || r.OwnerID == "" {
		return dErrors.New(dErrors.CodeValidation, "property_id, tenant_id and owner_id are required")
	}
	if r.MonthlyRent <= 0 {
		return dErrors.New(dErrors.CodeValidation, "monthly_rent must be positive")
	}
	start, err := time.Parse(time.RFC3339, r.StartDate)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "start_date must be RFC 3339")
	}
	r.parsedStart = start
	if r.PaymentTerms == "" {
		r.PaymentTerms = "monthly"
	}
	return nil
}

// ParsedStartDate returns the validated start date.
func (r *CreateContractRequest) ParsedStartDate() time.Time {
	return r.parsedStart
}

// ParsedPropertyID returns the property reference.
func (r *CreateContractRequest) ParsedPropertyID() id.PropertyID { return id.PropertyID(r.PropertyID) }

// ParsedTenantID returns the tenant reference.
func (r *CreateContractRequest) ParsedTenantID() id.TenantID { return id.TenantID(r.TenantID) }

// ParsedOwnerID returns the owner reference.
func (r *CreateContractRequest) ParsedOwnerID() id.OwnerID { return id.OwnerID(r.OwnerID) }

// TerminateContractRequest is the HTTP request body for
// POST /admin/contracts/{id}/terminate.
type TerminateContractRequest struct {
	Reason string `json:"reason"`
}

// Validate trims the reason; an empty reason is allowed.
func (r *TerminateContractRequest) Validate() error {
	r.Reason = strings.TrimSpace(r.Reason)
	return nil
}

// RenewContractRequest is the HTTP request body for
// POST /admin/contracts/{id}/renew.
type RenewContractRequest struct {
	RenewalTermMonths int     `json:"renewal_term_months"`
	NewMonthlyRent    float64 `json:"new_monthly_rent"`
}

func (r *RenewContractRequest) Validate() error {
	if r.NewMonthlyRent <= 0 {
		return dErrors.New(dErrors.CodeValidation, "new_monthly_rent must be positive")
	}
	return nil
}
