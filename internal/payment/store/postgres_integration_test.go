//go:build integration

package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"leasehold/internal/payment/models"
	"leasehold/internal/payment/store"
	id "leasehold/pkg/domain"
	"leasehold/pkg/testutil/containers"
)

type PostgresPaymentStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
	date     time.Time
}

func TestPostgresPaymentStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresPaymentStoreSuite))
}

func (s *PostgresPaymentStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.Migrate(context.Background()))
	s.date = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *PostgresPaymentStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "payments"))
}

func (s *PostgresPaymentStoreSuite) append(tenant, status string, amount float64) *models.Payment {
	p, err := models.NewPayment("", id.TenantID(tenant), "CNTR1", amount, s.date, "cash", status, "Rent March")
	s.Require().NoError(err)
	s.Require().NoError(s.store.Append(context.Background(), p))
	return p
}

func (s *PostgresPaymentStoreSuite) TestAppendAndList() {
	ctx := context.Background()

	first := s.append("T1", models.StatusCompleted, 1000)
	second := s.append("T2", models.StatusPending, 800)
	s.Equal("PAY1", first.ID.String())
	s.Equal("PAY2", second.ID.String())

	all, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(first.ID, all[0].ID, "recording order preserved")
	s.Equal(id.PaymentKindRent, all[0].Kind)
	s.True(all[0].Date.Equal(s.date))

	byTenant, err := s.store.ByTenant(ctx, "T1")
	s.Require().NoError(err)
	s.Len(byTenant, 1)
}

func (s *PostgresPaymentStoreSuite) TestConcurrentAppendAssignsUniqueIDs() {
	ctx := context.Background()
	const appenders = 8

	var wg sync.WaitGroup
	results := make([]*models.Payment, appenders)
	for i := 0; i < appenders; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			p, err := models.NewPayment("", "T1", "CNTR1", 100, s.date, "cash", models.StatusCompleted, "Rent March")
			if err != nil {
				return
			}
			if err := s.store.Append(ctx, p); err == nil {
				results[idx] = p
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[id.PaymentID]bool, appenders)
	for idx, p := range results {
		s.Require().NotNil(p, "append %d failed", idx)
		s.False(seen[p.ID], "duplicate payment id %s", p.ID)
		seen[p.ID] = true
	}
}

func (s *PostgresPaymentStoreSuite) TestBalance() {
	ctx := context.Background()

	balance, err := s.store.Balance(ctx, "T-none")
	s.Require().NoError(err)
	s.Zero(balance)

	s.append("T1", models.StatusCompleted, 1000)
	s.append("T1", models.StatusCompleted, 500)
	s.append("T1", models.StatusPending, 900)

	balance, err = s.store.Balance(ctx, "T1")
	s.Require().NoError(err)
	s.Equal(-1500.0, balance, "completed payments only")
}
