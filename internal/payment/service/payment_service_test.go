package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"leasehold/internal/audit"
	"leasehold/internal/payment/models"
	"leasehold/internal/payment/store"
	id "leasehold/pkg/domain"
	dErrors "leasehold/pkg/domain-errors"
	"leasehold/pkg/requestcontext"
)

type PaymentServiceSuite struct {
	suite.Suite
	service    *PaymentService
	auditStore *audit.InMemoryStore
	ctx        context.Context
	now        time.Time
}

func TestPaymentServiceSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) SetupTest() {
	s.auditStore = audit.NewInMemoryStore()
	s.service = New(store.NewInMemory(), Config{
		LateFeeRate:          0.01,
		GracePeriodDays:      5,
		DefaultPaymentMethod: "bank_transfer",
	}, WithAuditPublisher(audit.NewStorePublisher(s.auditStore)))
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
}

func (s *PaymentServiceSuite) at(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}

func (s *PaymentServiceSuite) record(tenant string, amount float64, date time.Time) *models.Payment {
	payment, err := s.service.RecordRentPayment(s.ctx, id.TenantID(tenant), "CNTR1", amount, date, "", "Rent")
	s.Require().NoError(err)
	return payment
}

func (s *PaymentServiceSuite) process(tenant, status string, amount float64, date time.Time) *models.Payment {
	payment, err := models.NewPayment("", id.TenantID(tenant), "CNTR1", amount, date, "cash", status, "Rent")
	s.Require().NoError(err)
	s.Require().NoError(s.service.Process(s.ctx, payment))
	return payment
}

func (s *PaymentServiceSuite) TestProcess() {
	s.Run("rejects nil payment", func() {
		err := s.service.Process(s.ctx, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("accepts a pending payment without touching the balance", func() {
		s.process("T1", models.StatusPending, 700, s.now)
		balance, err := s.service.TenantBalance(s.ctx, "T1")
		s.Require().NoError(err)
		s.Zero(balance)
	})
}

func (s *PaymentServiceSuite) TestRecordRentPayment() {
	s.Run("requires tenant and contract", func() {
		_, err := s.service.RecordRentPayment(s.ctx, "", "CNTR1", 1000, s.now, "", "Rent")
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
		_, err = s.service.RecordRentPayment(s.ctx, "T1", "", 1000, s.now, "", "Rent")
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("fills defaults and completes", func() {
		payment := s.record("T1", 1000, s.now)
		s.Equal("PAY1", payment.ID.String())
		s.Equal("bank_transfer", payment.Method)
		s.Equal(models.StatusCompleted, payment.Status)
		s.NotEmpty(payment.TransactionID)
		s.Equal(id.PaymentKindRent, payment.Kind)

		events, err := s.auditStore.ListByTenant(s.ctx, "T1")
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(audit.ActionPaymentRecorded, events[0].Action)
	})

	s.Run("explicit method wins over the default", func() {
		payment, err := s.service.RecordRentPayment(s.ctx, "T1", "CNTR1", 500, s.now, "cash", "Rent")
		s.Require().NoError(err)
		s.Equal("cash", payment.Method)
		s.Equal("PAY2", payment.ID.String())
	})

	s.Run("completed payments drive the balance negative", func() {
		balance, err := s.service.TenantBalance(s.ctx, "T1")
		s.Require().NoError(err)
		s.Equal(-1500.0, balance)
	})
}

func (s *PaymentServiceSuite) TestLateFee() {
	s.Run("inside the grace period", func() {
		s.Equal(0.0, s.service.LateFee(1000.0, 3))
		s.Equal(0.0, s.service.LateFee(1000.0, 5))
	})

	s.Run("grows linearly past the grace period", func() {
		s.Equal(30.0, s.service.LateFee(1000.0, 8))
		s.Equal(50.0, s.service.LateFee(1000.0, 10))
	})

	s.Run("rate clamps at zero", func() {
		s.service.SetLateFeeRate(-1)
		s.Equal(0.0, s.service.LateFee(1000.0, 20))
		s.service.SetLateFeeRate(0.01)
	})
}

func (s *PaymentServiceSuite) TestOverduePayments() {
	s.record("T1", 1000, s.now)                                            // completed, never overdue
	stale := s.process("T2", models.StatusPending, 800, s.now)             // overdue once >5 days old
	s.process("T3", models.StatusRefunded, 500, s.now.Add(-240*time.Hour)) // refunded, never overdue

	s.Run("nothing overdue inside the fixed window", func() {
		overdue, err := s.service.OverduePayments(s.at(s.now.Add(5 * 24 * time.Hour)))
		s.Require().NoError(err)
		s.Empty(overdue)
	})

	s.Run("pending payment ages past the fixed threshold", func() {
		// The overdue threshold stays at five days even though the grace
		// period is configurable; the rules are separate on purpose.
		s.service.SetGracePeriodDays(30)
		defer s.service.SetGracePeriodDays(5)

		overdue, err := s.service.OverduePayments(s.at(s.now.Add(6 * 24 * time.Hour)))
		s.Require().NoError(err)
		s.Require().Len(overdue, 1)
		s.Equal(stale.TenantID, overdue[0].TenantID)
	})
}

func (s *PaymentServiceSuite) TestTotalRevenue() {
	s.record("T1", 1000, s.now)
	s.record("T1", 500, s.now.Add(10*24*time.Hour))
	s.process("T2", models.StatusPending, 900, s.now) // pending never counts
	s.record("T2", 700, s.now.Add(40*24*time.Hour))   // outside the range below

	s.Run("inclusive window over completed payments", func() {
		total, err := s.service.TotalRevenue(s.ctx, s.now, s.now.Add(10*24*time.Hour))
		s.Require().NoError(err)
		s.Equal(1500.0, total)
	})

	s.Run("empty window", func() {
		total, err := s.service.TotalRevenue(s.ctx, s.now.Add(-48*time.Hour), s.now.Add(-24*time.Hour))
		s.Require().NoError(err)
		s.Zero(total)
	})
}

func (s *PaymentServiceSuite) TestHasMissedPayments() {
	s.record("T1", 1000, s.now)
	s.process("T1", models.StatusPending, 800, s.now)
	s.process("T1", models.StatusFailed, 800, s.now)

	later := s.at(s.now.Add(10 * 24 * time.Hour))

	missed, err := s.service.HasMissedPayments(later, "T1", 1)
	s.Require().NoError(err)
	s.True(missed, "two overdue non-completed payments exceed maxAllowed=1")

	missed, err = s.service.HasMissedPayments(later, "T1", 2)
	s.Require().NoError(err)
	s.False(missed)

	missed, err = s.service.HasMissedPayments(later, "T-none", 0)
	s.Require().NoError(err)
	s.False(missed)
}

func (s *PaymentServiceSuite) TestCollectionRate() {
	s.Run("no payments in range reports one hundred", func() {
		rate, err := s.service.CollectionRate(s.ctx, s.now, s.now.Add(24*time.Hour))
		s.Require().NoError(err)
		s.Equal(100.0, rate)
	})

	s.Run("ratio of completed to total in range", func() {
		s.record("T1", 1000, s.now)
		s.record("T2", 900, s.now)
		s.process("T3", models.StatusPending, 800, s.now)
		s.process("T4", models.StatusFailed, 700, s.now)

		rate, err := s.service.CollectionRate(s.ctx, s.now, s.now)
		s.Require().NoError(err)
		s.Equal(50.0, rate)
	})
}

func (s *PaymentServiceSuite) TestPaymentsByTenant() {
	payments, err := s.service.PaymentsByTenant(s.ctx, "T-none")
	s.Require().NoError(err)
	s.Empty(payments)

	s.record("T1", 1000, s.now)
	s.record("T1", 1000, s.now.Add(30*24*time.Hour))
	payments, err = s.service.PaymentsByTenant(s.ctx, "T1")
	s.Require().NoError(err)
	s.Len(payments, 2)
}
