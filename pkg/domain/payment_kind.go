package domain

import "strings"

// PaymentKind is a closed classification of what a payment covers.
// The original data model classified payments by substring-matching the
// free-form payment period; the kind is now fixed at construction time
// instead, with ParsePaymentKind retaining the legacy matching rules.
type PaymentKind string

const (
	PaymentKindRent    PaymentKind = "rent"
	PaymentKindDeposit PaymentKind = "deposit"
	PaymentKindOther   PaymentKind = "other"
)

// ParsePaymentKind classifies a free-form payment period string.
//
// Matching is case-sensitive substring matching, kept compatible with the
// historical records this system migrates: "RentAdvance" counts as rent,
// "RENT" does not. Rent wins when both substrings appear.
func ParsePaymentKind(period string) PaymentKind {
	switch {
	case strings.Contains(period, "Rent"):
		return PaymentKindRent
	case strings.Contains(period, "Deposit"):
		return PaymentKindDeposit
	default:
		return PaymentKindOther
	}
}

// IsValid checks the kind is one of the supported enum values.
func (k PaymentKind) IsValid() bool {
	switch k {
	case PaymentKindRent, PaymentKindDeposit, PaymentKindOther:
		return true
	}
	return false
}

// String returns the string representation.
func (k PaymentKind) String() string { return string(k) }
