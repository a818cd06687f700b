package models

import (
	"math"
	"time"

	id "leasehold/pkg/domain"
	dErrors "leasehold/pkg/domain-errors"
)

// Hours per lease-month bucket. Lease months are approximated as 30-day
// buckets, rounded up; this matches the historical contract records and is
// load-bearing for total-value and due-date arithmetic.
const hoursPerLeaseMonth = 24 * 30

// RentalContract is the aggregate root of the contract module: one lease
// agreement binding a property, a tenant, and an owner over a date window.
//
// Invariants:
//   - PropertyID, TenantID, OwnerID are non-empty
//   - Active starts true and transitions to false exactly once (Terminate);
//     there is no reactivation
//   - A property has at most one contract valid at any instant; this is
//     enforced by the contract store's property index, not by the entity
//
// All time-dependent queries take the observation instant explicitly.
// Callers obtain it from requestcontext.Now so tests can pin the clock.
type RentalContract struct {
	ID              id.ContractID `json:"id"`
	PropertyID      id.PropertyID `json:"property_id"`
	TenantID        id.TenantID   `json:"tenant_id"`
	OwnerID         id.OwnerID    `json:"owner_id"`
	StartDate       time.Time     `json:"start_date"`
	EndDate         time.Time     `json:"end_date"`
	MonthlyRent     float64       `json:"monthly_rent"`
	SecurityDeposit float64       `json:"security_deposit"`
	PaymentTerms    string        `json:"payment_terms"`
	Active          bool          `json:"active"`
	CreatedAt       time.Time     `json:"created_at"`
}

// NewRentalContract validates references and constructs an active contract.
// Policy-level fields (end date, deposit) are computed by the service.
func NewRentalContract(contractID id.ContractID, propertyID id.PropertyID, tenantID id.TenantID, ownerID id.OwnerID,
	startDate, endDate time.Time, monthlyRent, securityDeposit float64, paymentTerms string, now time.Time) (*RentalContract, error) {
	if propertyID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "contract requires a property")
	}
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "contract requires a tenant")
	}
	if ownerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "contract requires an owner")
	}
	return &RentalContract{
		ID:              contractID,
		PropertyID:      propertyID,
		TenantID:        tenantID,
		OwnerID:         ownerID,
		StartDate:       startDate,
		EndDate:         endDate,
		MonthlyRent:     monthlyRent,
		SecurityDeposit: securityDeposit,
		PaymentTerms:    paymentTerms,
		Active:          true,
		CreatedAt:       now,
	}, nil
}

// IsValid reports whether the contract is in force at the given instant:
// active and inside the [start, end] window, both ends inclusive.
func (c *RentalContract) IsValid(now time.Time) bool {
	return c.Active && !now.Before(c.StartDate) && !now.After(c.EndDate)
}

// RemainingDays returns the whole days left until the end date, rounding
// partial days up. Never negative: past the end date it returns 0.
func (c *RentalContract) RemainingDays(now time.Time) int {
	if now.After(c.EndDate) {
		return 0
	}
	return int(math.Ceil(c.EndDate.Sub(now).Hours() / 24))
}

// TotalValue approximates the full contract value as monthly rent times the
// lease length in 30-day buckets, rounded up.
func (c *RentalContract) TotalValue() float64 {
	months := math.Ceil(c.EndDate.Sub(c.StartDate).Hours() / hoursPerLeaseMonth)
	return c.MonthlyRent * months
}

// IsRentDue reports whether rent falls due on checkDate. Due dates recur
// every 30 days from the start date; an expired or terminated contract
// never reports rent due.
func (c *RentalContract) IsRentDue(checkDate time.Time) bool {
	if !c.IsValid(checkDate) {
		return false
	}
	daysSinceStart := int(checkDate.Sub(c.StartDate).Hours() / 24)
	return daysSinceStart%30 == 0
}

// EarlyTerminationFee is half a month's rent per remaining month, zero for
// non-positive inputs.
func (c *RentalContract) EarlyTerminationFee(monthsRemaining int) float64 {
	if monthsRemaining <= 0 {
		return 0
	}
	return c.MonthlyRent * float64(monthsRemaining) * 0.5
}

// Terminate deactivates the contract. Terminal: there is no reactivation.
// Index cleanup (the property map) is the store's responsibility, not the
// entity's; terminating the entity alone leaves indices untouched.
func (c *RentalContract) Terminate() {
	c.Active = false
}

// ApplyRenewal updates the rent for a renewal term. The end date is
// intentionally left unchanged: renewals in the source system never
// extended the lease window, and downstream reporting depends on the
// original window. See the renewal tests pinning this behavior.
func (c *RentalContract) ApplyRenewal(newRent float64) {
	c.MonthlyRent = newRent
}
