package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"leasehold/internal/contract/models"
	id "leasehold/pkg/domain"
	dErrors "leasehold/pkg/domain-errors"
	"leasehold/pkg/platform/httputil"
	"leasehold/pkg/requestcontext"
)

// Service defines the contract operations the handler depends on.
type Service interface {
	CreateContract(ctx context.Context, propertyID id.PropertyID, tenantID id.TenantID, ownerID id.OwnerID,
		startDate time.Time, leaseTermMonths int, monthlyRent float64, paymentTerms string) (*models.RentalContract, error)
	Terminate(ctx context.Context, contractID id.ContractID, reason string) (*models.RentalContract, error)
	Renew(ctx context.Context, contractID id.ContractID, renewalTermMonths int, newRent float64) (*models.RentalContract, error)
	FindByProperty(ctx context.Context, propertyID id.PropertyID) (*models.RentalContract, error)
	ActiveContracts(ctx context.Context) ([]*models.RentalContract, error)
	ExpiringContracts(ctx context.Context, daysThreshold int) ([]*models.RentalContract, error)
	ContractsNeedingRenewalNotice(ctx context.Context) ([]*models.RentalContract, error)
	TotalSecurityDeposits(ctx context.Context) (float64, error)
	TotalMonthlyRent(ctx context.Context) (float64, error)
}

// Handler wires contract endpoints to the contract service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a contract handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts contract endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/contracts", h.HandleCreate)
	r.Post("/admin/contracts/{contractID}/terminate", h.HandleTerminate)
	r.Post("/admin/contracts/{contractID}/renew", h.HandleRenew)
	r.Get("/admin/contracts/active", h.HandleActive)
	r.Get("/admin/contracts/expiring", h.HandleExpiring)
	r.Get("/admin/contracts/summary", h.HandleSummary)
	r.Get("/admin/properties/{propertyID}/contract", h.HandleByProperty)
}

// HandleCreate handles POST /admin/contracts requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateContractRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	contract, err := h.service.CreateContract(ctx,
		req.ParsedPropertyID(), req.ParsedTenantID(), req.ParsedOwnerID(),
		req.ParsedStartDate(), req.LeaseTermMonths, req.MonthlyRent, req.PaymentTerms)
	if err != nil {
		h.logger.ErrorContext(ctx, "contract creation failed",
			"request_id", requestID,
			"property_id", req.PropertyID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "contract created",
		"request_id", requestID,
		"contract_id", contract.ID,
		"property_id", contract.PropertyID,
	)
	httputil.WriteJSON(w, http.StatusCreated, FromContract(contract))
}

// HandleTerminate handles POST /admin/contracts/{contractID}/terminate requests.
func (h *Handler) HandleTerminate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	contractID := id.ContractID(chi.URLParam(r, "contractID"))

	req, ok := httputil.DecodeAndPrepare[TerminateContractRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	contract, err := h.service.Terminate(ctx, contractID, req.Reason)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromContract(contract))
}

// HandleRenew handles POST /admin/contracts/{contractID}/renew requests.
func (h *Handler) HandleRenew(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	contractID := id.ContractID(chi.URLParam(r, "contractID"))

	req, ok := httputil.DecodeAndPrepare[RenewContractRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	contract, err := h.service.Renew(ctx, contractID, req.RenewalTermMonths, req.NewMonthlyRent)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromContract(contract))
}

// HandleActive handles GET /admin/contracts/active requests.
func (h *Handler) HandleActive(w http.ResponseWriter, r *http.Request) {
	contracts, err := h.service.ActiveContracts(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromContracts(contracts))
}

// HandleExpiring handles GET /admin/contracts/expiring?days=N requests.
// Without a days parameter the configured auto-renewal notice window
// applies.
func (h *Handler) HandleExpiring(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "days must be a non-negative integer"))
			return
		}
		contracts, err := h.service.ExpiringContracts(r.Context(), days)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, FromContracts(contracts))
		return
	}

	contracts, err := h.service.ContractsNeedingRenewalNotice(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromContracts(contracts))
}

// HandleSummary handles GET /admin/contracts/summary requests.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	active, err := h.service.ActiveContracts(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	deposits, err := h.service.TotalSecurityDeposits(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rent, err := h.service.TotalMonthlyRent(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, SummaryResponse{
		ActiveContracts:       len(active),
		TotalSecurityDeposits: deposits,
		TotalMonthlyRent:      rent,
	})
}

// HandleByProperty handles GET /admin/properties/{propertyID}/contract requests.
func (h *Handler) HandleByProperty(w http.ResponseWriter, r *http.Request) {
	propertyID := id.PropertyID(chi.URLParam(r, "propertyID"))
	contract, err := h.service.FindByProperty(r.Context(), propertyID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromContract(contract))
}
