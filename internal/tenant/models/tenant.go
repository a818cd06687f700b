package models

import (
	"time"

	id "leasehold/pkg/domain"
	dErrors "leasehold/pkg/domain-errors"
)

// The affordability rule: a tenant can carry rent up to 30% of monthly
// income. Fixed, not policy-configurable; the configurable income ratio
// gates approvals, not affordability.
const affordableRentShare = 0.3

// Tenant is a prospective or current renter in the registry. Tenants hold
// no contract or payment references; contracts and payments point back at
// the tenant by id.
type Tenant struct {
	ID            id.TenantID `json:"id"`
	FullName      string      `json:"full_name"`
	CreditScore   float64     `json:"credit_score"`
	MonthlyIncome float64     `json:"monthly_income"`
	HasPets       bool        `json:"has_pets"`
	Occupants     int         `json:"occupants"`
	CreatedAt     time.Time   `json:"created_at"`
}

// NewTenant validates identity and constructs a tenant record.
func NewTenant(tenantID id.TenantID, fullName string, creditScore, monthlyIncome float64,
	hasPets bool, occupants int, now time.Time) (*Tenant, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "tenant requires an id")
	}
	if fullName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "tenant name is required")
	}
	return &Tenant{
		ID:            tenantID,
		FullName:      fullName,
		CreditScore:   creditScore,
		MonthlyIncome: monthlyIncome,
		HasPets:       hasPets,
		Occupants:     occupants,
		CreatedAt:     now,
	}, nil
}

// MaxAffordableRent returns the highest rent the tenant can carry.
func (t *Tenant) MaxAffordableRent() float64 {
	return t.MonthlyIncome * affordableRentShare
}
