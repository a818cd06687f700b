package models

import (
	"time"

	id "leasehold/pkg/domain"
	dErrors "leasehold/pkg/domain-errors"
)

// Payment statuses. Free strings in the historical records; these constants
// cover the states the lifecycle actually produces.
const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusRefunded  = "refunded"
	StatusFailed    = "failed"
)

// Days a non-settled payment may age before it counts as overdue. This is a
// fixed threshold, deliberately independent of the configured grace period
// used for late fees; the two rules were never unified in the source data
// and reports depend on both.
const overdueThresholdDays = 5

// Payment is one recorded payment by a tenant, optionally tied to a
// contract. Records are append-only; only Status, TransactionID and LateFee
// change after creation.
type Payment struct {
	ID            id.PaymentID   `json:"id"`
	TenantID      id.TenantID    `json:"tenant_id"`
	ContractID    id.ContractID  `json:"contract_id,omitempty"`
	Amount        float64        `json:"amount"`
	Date          time.Time      `json:"date"`
	Method        string         `json:"method"`
	Status        string         `json:"status"`
	TransactionID string         `json:"transaction_id,omitempty"`
	LateFee       float64        `json:"late_fee"`
	Period        string         `json:"period"`
	Kind          id.PaymentKind `json:"kind"`
}

// NewPayment constructs a payment and fixes its kind from the free-form
// period string. The contract reference may be empty.
func NewPayment(paymentID id.PaymentID, tenantID id.TenantID, contractID id.ContractID,
	amount float64, date time.Time, method, status, period string) (*Payment, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "payment requires a tenant")
	}
	return &Payment{
		ID:         paymentID,
		TenantID:   tenantID,
		ContractID: contractID,
		Amount:     amount,
		Date:       date,
		Method:     method,
		Status:     status,
		Period:     period,
		Kind:       id.ParsePaymentKind(period),
	}, nil
}

// IsOverdue reports whether the payment is overdue as of asOf. Settled
// payments (completed or refunded) are never overdue; anything else is
// overdue once more than five whole days old.
func (p *Payment) IsOverdue(asOf time.Time) bool {
	if p.Status == StatusCompleted || p.Status == StatusRefunded {
		return false
	}
	days := int(asOf.Sub(p.Date).Hours() / 24)
	return days > overdueThresholdDays
}

// IsOnTime reports whether the payment landed on or before dueDate.
func (p *Payment) IsOnTime(dueDate time.Time) bool {
	return !p.Date.After(dueDate)
}

// IsRentPayment reports whether the payment was classified as rent.
func (p *Payment) IsRentPayment() bool {
	return p.Kind == id.PaymentKindRent
}

// IsSecurityDeposit reports whether the payment was classified as a deposit.
func (p *Payment) IsSecurityDeposit() bool {
	return p.Kind == id.PaymentKindDeposit
}
