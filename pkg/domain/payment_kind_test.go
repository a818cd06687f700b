package domain

import "testing"

func TestParsePaymentKind(t *testing.T) {
	cases := []struct {
		period string
		want   PaymentKind
	}{
		{"Rent-2026-01", PaymentKindRent},
		{"RentAdvance", PaymentKindRent},
		{"SecurityDeposit", PaymentKindDeposit},
		{"Deposit", PaymentKindDeposit},
		// Legacy matching is case-sensitive: uppercase periods fall through.
		{"RENT", PaymentKindOther},
		{"rent", PaymentKindOther},
		{"", PaymentKindOther},
		{"utilities", PaymentKindOther},
		// Rent wins when both substrings appear.
		{"RentDeposit", PaymentKindRent},
	}
	for _, tc := range cases {
		if got := ParsePaymentKind(tc.period); got != tc.want {
			t.Errorf("ParsePaymentKind(%q) = %q, want %q", tc.period, got, tc.want)
		}
	}
}
