package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	contracthandler "leasehold/internal/contract/handler"
	paymenthandler "leasehold/internal/payment/handler"
	"leasehold/internal/platform/middleware"
	propertyhandler "leasehold/internal/property/handler"
	tenanthandler "leasehold/internal/tenant/handler"
)

// HealthChecker is implemented by backends that can report liveness.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps carries everything the router composes. Handlers own their routes;
// the router owns the middleware chain and the unauthenticated surface.
type Deps struct {
	Logger     *slog.Logger
	AdminToken string

	ContractService contracthandler.Service
	PaymentService  paymenthandler.Service
	TenantService   tenanthandler.Service

	Properties PropertyRegistry
	Owners     OwnerRegistry
	Tenants    TenantRegistry

	PropertyStore propertyhandler.PropertyStore
	OwnerStore    propertyhandler.OwnerStore

	// Health backends are pinged by /healthz; nil entries are skipped.
	HealthChecks []HealthChecker
}

// NewRouter assembles the full HTTP surface: the admin API behind the shared
// token, plus /healthz and /metrics in the clear.
func NewRouter(deps Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)

	r.Get("/healthz", handleHealth(deps.Logger, deps.HealthChecks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	contractService := newRegistryCheckedContractService(deps.ContractService, deps.Properties, deps.Tenants, deps.Owners)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdminToken(deps.AdminToken, deps.Logger))

		propertyhandler.New(deps.PropertyStore, deps.OwnerStore, deps.Logger).Register(r)
		tenanthandler.New(deps.TenantService, deps.Logger).Register(r)
		contracthandler.New(contractService, deps.Logger).Register(r)
		paymenthandler.New(deps.PaymentService, deps.Logger).Register(r)
	})

	return r
}

func handleHealth(logger *slog.Logger, checks []HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Health(r.Context()); err != nil {
				logger.ErrorContext(r.Context(), "health check failed", "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}
