package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"leasehold/internal/payment/service"
	"leasehold/internal/payment/store"
)

type HandlerSuite struct {
	suite.Suite
	router http.Handler
	now    time.Time
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	svc := service.New(store.NewInMemory(), service.Config{
		LateFeeRate:          0.01,
		GracePeriodDays:      5,
		DefaultPaymentMethod: "bank_transfer",
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	New(svc, logger).Register(r)
	s.router = r
	s.now = time.Now().UTC().Truncate(time.Second)
}

func (s *HandlerSuite) do(method, target string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) recordRent(tenant string, amount float64) PaymentResponse {
	rec := s.do(http.MethodPost, "/admin/payments/rent", RecordRentPaymentRequest{
		TenantID:   tenant,
		ContractID: "CNTR1",
		Amount:     amount,
		Date:       s.now.Format(time.RFC3339),
		Period:     "Rent",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var resp PaymentResponse
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func (s *HandlerSuite) TestRecordRent() {
	s.Run("missing references rejected", func() {
		rec := s.do(http.MethodPost, "/admin/payments/rent", RecordRentPaymentRequest{
			Amount: 1000,
			Date:   s.now.Format(time.RFC3339),
		})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("bad date rejected", func() {
		rec := s.do(http.MethodPost, "/admin/payments/rent", RecordRentPaymentRequest{
			TenantID:   "T1",
			ContractID: "CNTR1",
			Amount:     1000,
			Date:       "yesterday",
		})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("records with defaults", func() {
		resp := s.recordRent("T1", 1000)
		s.Equal("PAY1", resp.ID)
		s.Equal("bank_transfer", resp.Method)
		s.Equal("completed", resp.Status)
		s.Equal("rent", resp.Kind)
		s.NotEmpty(resp.TransactionID)
	})
}

func (s *HandlerSuite) TestBalanceAndHistory() {
	s.recordRent("T1", 1000)
	s.recordRent("T1", 500)

	s.Run("balance reflects completed payments", func() {
		rec := s.do(http.MethodGet, "/admin/tenants/T1/balance", nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var resp BalanceResponse
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
		s.Equal(-1500.0, resp.Balance)
	})

	s.Run("unknown tenant balance is zero", func() {
		rec := s.do(http.MethodGet, "/admin/tenants/T9/balance", nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var resp BalanceResponse
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
		s.Zero(resp.Balance)
	})

	s.Run("tenant payment history", func() {
		rec := s.do(http.MethodGet, "/admin/tenants/T1/payments", nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var resp []PaymentResponse
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
		s.Len(resp, 2)
	})
}

func (s *HandlerSuite) TestReportingEndpoints() {
	s.recordRent("T1", 1000)

	rangeQuery := url.Values{
		"start": {s.now.Add(-24 * time.Hour).Format(time.RFC3339)},
		"end":   {s.now.Add(24 * time.Hour).Format(time.RFC3339)},
	}.Encode()

	s.Run("revenue over an inclusive range", func() {
		rec := s.do(http.MethodGet, fmt.Sprintf("/admin/payments/revenue?%s", rangeQuery), nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var resp RevenueResponse
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
		s.Equal(1000.0, resp.TotalRevenue)
	})

	s.Run("revenue requires a parseable range", func() {
		rec := s.do(http.MethodGet, "/admin/payments/revenue?start=zzz", nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("collection rate", func() {
		rec := s.do(http.MethodGet, fmt.Sprintf("/admin/payments/collection-rate?%s", rangeQuery), nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var resp CollectionRateResponse
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
		s.Equal(100.0, resp.CollectionRate)
	})

	s.Run("no overdue payments just after recording", func() {
		rec := s.do(http.MethodGet, "/admin/payments/overdue", nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var resp []PaymentResponse
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
		s.Empty(resp)
	})
}
