package handler

import (
	"strings"
	"time"

	id "leasehold/pkg/domain"
	dErrors "leasehold/pkg/domain-errors"
)

// RecordRentPaymentRequest is the HTTP request body for POST /admin/payments/rent.
type RecordRentPaymentRequest struct {
	TenantID   string  `json:"tenant_id"`
	ContractID string  `json:"contract_id"`
	Amount     float64 `json:"amount"`
	Date       string  `json:"date"`
	Method     string  `json:"method"`
	Period     string  `json:"period"`

	// Parsed values (populated by Validate)
	parsedDate time.Time
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *RecordRentPaymentRequest) Validate() error {
	r.TenantID = strings.TrimSpace(r.TenantID)
	r.ContractID = strings.TrimSpace(r.ContractID)
	if r.TenantID == "" || r.ContractID == "" {
		return dErrors.New(dErrors.CodeValidation, "tenant_id and contract_id are required")
	}
	if r.Amount <= 0 {
		return dErrors.New(dErrors.CodeValidation, "amount must be positive")
	}
	date, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "date must be RFC 3339")
	}
	r.parsedDate = date
	return nil
}

// ParsedDate returns the validated payment date.
func (r *RecordRentPaymentRequest) ParsedDate() time.Time { return r.parsedDate }

// ParsedTenantID returns the tenant reference.
func (r *RecordRentPaymentRequest) ParsedTenantID() id.TenantID { return id.TenantID(r.TenantID) }

// ParsedContractID returns the contract reference.
func (r *RecordRentPaymentRequest) ParsedContractID() id.ContractID {
	return id.ContractID(r.ContractID)
}
