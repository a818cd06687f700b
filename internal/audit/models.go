package audit

import (
	"time"

	id "leasehold/pkg/domain"
)

// Action names a domain action recorded on the audit trail.
type Action string

const (
	ActionContractCreated    Action = "contract_created"
	ActionContractTerminated Action = "contract_terminated"
	ActionContractRenewed    Action = "contract_renewed"
	ActionPaymentRecorded    Action = "payment_recorded"
	ActionTenantRegistered   Action = "tenant_registered"
	ActionTenantApproved     Action = "tenant_approved"
	ActionTenantRejected     Action = "tenant_rejected"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out. Only the fields
// relevant to the action are populated.
type Event struct {
	ID         string        `json:"id"`
	Timestamp  time.Time     `json:"timestamp"`
	Action     Action        `json:"action"`
	ContractID id.ContractID `json:"contract_id,omitempty"`
	PaymentID  id.PaymentID  `json:"payment_id,omitempty"`
	PropertyID id.PropertyID `json:"property_id,omitempty"`
	TenantID   id.TenantID   `json:"tenant_id,omitempty"`
	OwnerID    id.OwnerID    `json:"owner_id,omitempty"`
	Amount     float64       `json:"amount,omitempty"`
	// Reason carries free-form context such as a termination reason. The
	// audit trail is the only place a termination reason is retained; the
	// contract record itself never stores it.
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}
