package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"leasehold/internal/payment/models"
	id "leasehold/pkg/domain"
	dErrors "leasehold/pkg/domain-errors"
	"leasehold/pkg/platform/httputil"
	"leasehold/pkg/requestcontext"
)

// Service defines the payment operations the handler depends on.
type Service interface {
	RecordRentPayment(ctx context.Context, tenantID id.TenantID, contractID id.ContractID,
		amount float64, paymentDate time.Time, method, period string) (*models.Payment, error)
	OverduePayments(ctx context.Context) ([]*models.Payment, error)
	TotalRevenue(ctx context.Context, start, end time.Time) (float64, error)
	CollectionRate(ctx context.Context, start, end time.Time) (float64, error)
	TenantBalance(ctx context.Context, tenantID id.TenantID) (float64, error)
	PaymentsByTenant(ctx context.Context, tenantID id.TenantID) ([]*models.Payment, error)
}

// Handler wires payment endpoints to the payment service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a payment handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts payment endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/payments/rent", h.HandleRecordRent)
	r.Get("/admin/payments/overdue", h.HandleOverdue)
	r.Get("/admin/payments/revenue", h.HandleRevenue)
	r.Get("/admin/payments/collection-rate", h.HandleCollectionRate)
	r.Get("/admin/tenants/{tenantID}/balance", h.HandleBalance)
	r.Get("/admin/tenants/{tenantID}/payments", h.HandleByTenant)
}

// HandleRecordRent handles POST /admin/payments/rent requests.
func (h *Handler) HandleRecordRent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RecordRentPaymentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	payment, err := h.service.RecordRentPayment(ctx,
		req.ParsedTenantID(), req.ParsedContractID(),
		req.Amount, req.ParsedDate(), req.Method, req.Period)
	if err != nil {
		h.logger.ErrorContext(ctx, "rent payment recording failed",
			"request_id", requestID,
			"tenant_id", req.TenantID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "rent payment recorded",
		"request_id", requestID,
		"payment_id", payment.ID,
		"tenant_id", payment.TenantID,
		"amount", payment.Amount,
	)
	httputil.WriteJSON(w, http.StatusCreated, FromPayment(payment))
}

// HandleOverdue handles GET /admin/payments/overdue requests.
func (h *Handler) HandleOverdue(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.OverduePayments(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromPayments(payments))
}

// HandleRevenue handles GET /admin/payments/revenue?start&end requests.
func (h *Handler) HandleRevenue(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseRange(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	total, err := h.service.TotalRevenue(r.Context(), start, end)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, RevenueResponse{Start: start, End: end, TotalRevenue: total})
}

// HandleCollectionRate handles GET /admin/payments/collection-rate?start&end requests.
func (h *Handler) HandleCollectionRate(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseRange(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rate, err := h.service.CollectionRate(r.Context(), start, end)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CollectionRateResponse{Start: start, End: end, CollectionRate: rate})
}

// HandleBalance handles GET /admin/tenants/{tenantID}/balance requests.
func (h *Handler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	tenantID := id.TenantID(chi.URLParam(r, "tenantID"))
	balance, err := h.service.TenantBalance(r.Context(), tenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, BalanceResponse{TenantID: tenantID.String(), Balance: balance})
}

// HandleByTenant handles GET /admin/tenants/{tenantID}/payments requests.
func (h *Handler) HandleByTenant(w http.ResponseWriter, r *http.Request) {
	tenantID := id.TenantID(chi.URLParam(r, "tenantID"))
	payments, err := h.service.PaymentsByTenant(r.Context(), tenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromPayments(payments))
}

func parseRange(r *http.Request) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		return time.Time{}, time.Time{}, dErrors.New(dErrors.CodeValidation, "start must be RFC 3339")
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		return time.Time{}, time.Time{}, dErrors.New(dErrors.CodeValidation, "end must be RFC 3339")
	}
	return start, end, nil
}
