package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	id "leasehold/pkg/domain"
)

type PaymentModelSuite struct {
	suite.Suite
	date time.Time
}

func TestPaymentModelSuite(t *testing.T) {
	suite.Run(t, new(PaymentModelSuite))
}

func (s *PaymentModelSuite) SetupTest() {
	s.date = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *PaymentModelSuite) newPayment(status string) *Payment {
	p, err := NewPayment("PAY1", "T1", "CNTR1", 1000.0, s.date, "bank_transfer", status, "Rent March")
	s.Require().NoError(err)
	return p
}

func (s *PaymentModelSuite) TestConstruction() {
	s.Run("requires a tenant", func() {
		_, err := NewPayment("PAY1", "", "CNTR1", 1000.0, s.date, "cash", StatusPending, "Rent")
		s.Error(err)
	})

	s.Run("contract reference may be empty", func() {
		p, err := NewPayment("PAY1", "T1", "", 500.0, s.date, "cash", StatusPending, "Deposit")
		s.Require().NoError(err)
		s.True(p.ContractID.IsNil())
	})

	s.Run("kind is fixed from the period at construction", func() {
		s.Equal(id.PaymentKindRent, s.newPayment(StatusPending).Kind)

		deposit, err := NewPayment("PAY2", "T1", "", 500.0, s.date, "cash", StatusPending, "Security Deposit")
		s.Require().NoError(err)
		s.True(deposit.IsSecurityDeposit())
		s.False(deposit.IsRentPayment())
	})
}

func (s *PaymentModelSuite) TestIsOverdue() {
	s.Run("settled payments never age into overdue", func() {
		s.False(s.newPayment(StatusCompleted).IsOverdue(s.date.Add(100 * 24 * time.Hour)))
		s.False(s.newPayment(StatusRefunded).IsOverdue(s.date.Add(100 * 24 * time.Hour)))
	})

	s.Run("five whole days is the fixed boundary", func() {
		pending := s.newPayment(StatusPending)
		s.False(pending.IsOverdue(s.date.Add(5*24*time.Hour)), "exactly five days is not overdue")
		s.False(pending.IsOverdue(s.date.Add(5*24*time.Hour+time.Hour)), "partial sixth day truncates to five")
		s.True(pending.IsOverdue(s.date.Add(6 * 24 * time.Hour)))
	})

	s.Run("failed payments age like pending ones", func() {
		s.True(s.newPayment(StatusFailed).IsOverdue(s.date.Add(10 * 24 * time.Hour)))
	})
}

func (s *PaymentModelSuite) TestIsOnTime() {
	p := s.newPayment(StatusCompleted)
	s.True(p.IsOnTime(s.date))
	s.True(p.IsOnTime(s.date.Add(24 * time.Hour)))
	s.False(p.IsOnTime(s.date.Add(-time.Second)))
}
