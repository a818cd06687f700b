package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	paymentmodels "leasehold/internal/payment/models"
	"leasehold/internal/tenant/models"
	id "leasehold/pkg/domain"
	"leasehold/pkg/platform/sentinel"
)

type TenantStoreSuite struct {
	suite.Suite

	ctx   context.Context
	store *InMemory
	now   time.Time
}

func TestTenantStoreSuite(t *testing.T) {
	suite.Run(t, new(TenantStoreSuite))
}

func (s *TenantStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemory()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *TenantStoreSuite) register(tenantID string, name string) *models.Tenant {
	s.T().Helper()
	tenant, err := models.NewTenant(id.TenantID(tenantID), name, 700, 4000, false, 1, s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Register(s.ctx, tenant))
	return tenant
}

func (s *TenantStoreSuite) TestRegisterAndFind() {
	s.Run("unknown tenant", func() {
		_, err := s.store.FindByID(s.ctx, "T1")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("lookup returns first registration", func() {
		first := s.register("T1", "First Registration")
		s.register("T1", "Second Registration")

		found, err := s.store.FindByID(s.ctx, "T1")
		s.Require().NoError(err)
		s.Equal(first.FullName, found.FullName)

		tenants, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		s.Len(tenants, 2)
	})
}

func (s *TenantStoreSuite) TestPaymentHistory() {
	s.register("T1", "Tenant One")

	s.Run("empty by default", func() {
		history, err := s.store.PaymentHistory(s.ctx, "T1")
		s.Require().NoError(err)
		s.Empty(history)
	})

	s.Run("append seeds history", func() {
		payment, err := paymentmodels.NewPayment("PAY1", "T1", "CNTR1",
			1000, s.now, "bank_transfer", paymentmodels.StatusCompleted, "March Rent")
		s.Require().NoError(err)
		s.Require().NoError(s.store.AppendPaymentHistory(s.ctx, "T1", payment))

		history, err := s.store.PaymentHistory(s.ctx, "T1")
		s.Require().NoError(err)
		s.Require().Len(history, 1)
		s.Equal(id.PaymentID("PAY1"), history[0].ID)
	})
}
