package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"leasehold/internal/tenant/models"
	id "leasehold/pkg/domain"
	dErrors "leasehold/pkg/domain-errors"
	"leasehold/pkg/platform/httputil"
	"leasehold/pkg/requestcontext"
)

// Service defines the tenant operations the handler depends on.
type Service interface {
	Register(ctx context.Context, tenant *models.Tenant) error
	ApproveApplication(ctx context.Context, tenantID id.TenantID, proposedRent float64) (bool, error)
	PaymentScore(ctx context.Context, tenantID id.TenantID) (float64, error)
	SearchByCriteria(ctx context.Context, minCreditScore, minIncome float64) ([]*models.Tenant, error)
	EligibleForUpgrade(ctx context.Context, tenantID id.TenantID, newRent float64) (bool, error)
	FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
}

// Handler wires tenant endpoints to the tenant service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a tenant handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts tenant endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/tenants", h.HandleRegister)
	r.Get("/admin/tenants/search", h.HandleSearch)
	r.Get("/admin/tenants/{tenantID}", h.HandleGet)
	r.Post("/admin/tenants/{tenantID}/approve", h.HandleApprove)
	r.Get("/admin/tenants/{tenantID}/payment-score", h.HandlePaymentScore)
	r.Get("/admin/tenants/{tenantID}/eligibility", h.HandleEligibility)
}

// HandleRegister handles POST /admin/tenants requests.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterTenantRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	tenant, err := models.NewTenant(req.ParsedTenantID(), req.FullName,
		req.CreditScore, req.MonthlyIncome, req.HasPets, req.Occupants,
		requestcontext.Now(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Register(ctx, tenant); err != nil {
		h.logger.ErrorContext(ctx, "tenant registration failed",
			"request_id", requestID,
			"tenant_id", req.TenantID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, tenant)
}

// HandleGet handles GET /admin/tenants/{tenantID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	tenantID := id.TenantID(chi.URLParam(r, "tenantID"))
	tenant, err := h.service.FindByID(r.Context(), tenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tenant)
}

// HandleApprove handles POST /admin/tenants/{tenantID}/approve requests.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	tenantID := id.TenantID(chi.URLParam(r, "tenantID"))

	req, ok := httputil.DecodeAndPrepare[ApproveApplicationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	approved, err := h.service.ApproveApplication(ctx, tenantID, req.ProposedRent)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"tenant_id": tenantID.String(),
		"approved":  approved,
	})
}

// HandlePaymentScore handles GET /admin/tenants/{tenantID}/payment-score requests.
func (h *Handler) HandlePaymentScore(w http.ResponseWriter, r *http.Request) {
	tenantID := id.TenantID(chi.URLParam(r, "tenantID"))
	score, err := h.service.PaymentScore(r.Context(), tenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"tenant_id": tenantID.String(),
		"score":     score,
	})
}

// HandleSearch handles GET /admin/tenants/search?min_credit_score&min_income requests.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	minCredit, err := parseFloatParam(r, "min_credit_score")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	minIncome, err := parseFloatParam(r, "min_income")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	tenants, err := h.service.SearchByCriteria(r.Context(), minCredit, minIncome)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tenants)
}

// HandleEligibility handles GET /admin/tenants/{tenantID}/eligibility?new_rent requests.
func (h *Handler) HandleEligibility(w http.ResponseWriter, r *http.Request) {
	tenantID := id.TenantID(chi.URLParam(r, "tenantID"))
	newRent, err := parseFloatParam(r, "new_rent")
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	eligible, err := h.service.EligibleForUpgrade(r.Context(), tenantID, newRent)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"tenant_id": tenantID.String(),
		"eligible":  eligible,
	})
}

func parseFloatParam(r *http.Request, name string) (float64, error) {
	value, err := strconv.ParseFloat(r.URL.Query().Get(name), 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeValidation, name+" must be a number")
	}
	return value, nil
}
