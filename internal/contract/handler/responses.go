package handler

import (
	"time"

	"leasehold/internal/contract/models"
)

// ContractResponse is the HTTP representation of a rental contract.
type ContractResponse struct {
	ID              string    `json:"id"`
	PropertyID      string    `json:"property_id"`
	TenantID        string    `json:"tenant_id"`
	OwnerID         string    `json:"owner_id"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	MonthlyRent     float64   `json:"monthly_rent"`
	SecurityDeposit float64   `json:"security_deposit"`
	PaymentTerms    string    `json:"payment_terms"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}

// SummaryResponse aggregates the valid portfolio for GET /admin/contracts/summary.
type SummaryResponse struct {
	ActiveContracts       int     `json:"active_contracts"`
	TotalSecurityDeposits float64 `json:"total_security_deposits"`
	TotalMonthlyRent      float64 `json:"total_monthly_rent"`
}

// FromContract converts a domain contract to an HTTP response.
func FromContract(c *models.RentalContract) *ContractResponse {
	return &ContractResponse{
		ID:              c.ID.String(),
		PropertyID:      c.PropertyID.String(),
		TenantID:        c.TenantID.String(),
		OwnerID:         c.OwnerID.String(),
		StartDate:       c.StartDate,
		EndDate:         c.EndDate,
		MonthlyRent:     c.MonthlyRent,
		SecurityDeposit: c.SecurityDeposit,
		PaymentTerms:    c.PaymentTerms,
		Active:          c.Active,
		CreatedAt:       c.CreatedAt,
	}
}

// FromContracts converts a contract slice, never returning nil.
func FromContracts(contracts []*models.RentalContract) []*ContractResponse {
	out := make([]*ContractResponse, 0, len(contracts))
	for _, c := range contracts {
		out = append(out, FromContract(c))
	}
	return out
}
