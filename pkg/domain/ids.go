// Package domain holds shared domain primitives: typed identifiers and
// closed classification values used across modules.
//
// Entities reference one another by ID, never by pointer. Stores own the
// canonical records and resolve IDs on demand, so there are no ownership
// cycles between contracts, payments, tenants, properties, and owners.
package domain

// PropertyID identifies a rentable property.
type PropertyID string

// TenantID identifies a tenant (a renter, not an organization).
type TenantID string

// OwnerID identifies a property owner.
type OwnerID string

// ContractID identifies a rental contract. Assigned by the contract store
// as "CNTR<n>" where n is the insertion count; contracts are never removed,
// so IDs stay monotonic.
type ContractID string

// PaymentID identifies a payment record. Assigned by the payment store as
// "PAY<n>", same monotonicity as ContractID.
type PaymentID string

func (id PropertyID) String() string { return string(id) }
func (id TenantID) String() string   { return string(id) }
func (id OwnerID) String() string    { return string(id) }
func (id ContractID) String() string { return string(id) }
func (id PaymentID) String() string  { return string(id) }

func (id PropertyID) IsNil() bool { return id == "" }
func (id TenantID) IsNil() bool   { return id == "" }
func (id OwnerID) IsNil() bool    { return id == "" }
func (id ContractID) IsNil() bool { return id == "" }
func (id PaymentID) IsNil() bool  { return id == "" }
