package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"leasehold/internal/property/models"
	id "leasehold/pkg/domain"
	dErrors "leasehold/pkg/domain-errors"
	"leasehold/pkg/platform/httputil"
	"leasehold/pkg/requestcontext"
)

// PropertyStore is the property registry the handler writes and reads.
type PropertyStore interface {
	Create(ctx context.Context, property *models.Property) error
	FindByID(ctx context.Context, propertyID id.PropertyID) (*models.Property, error)
	List(ctx context.Context) ([]*models.Property, error)
}

// OwnerStore is the owner registry the handler writes.
type OwnerStore interface {
	Create(ctx context.Context, owner *models.Owner) error
	FindByID(ctx context.Context, ownerID id.OwnerID) (*models.Owner, error)
}

// Handler exposes the property and owner registries over HTTP.
type Handler struct {
	properties PropertyStore
	owners     OwnerStore
	logger     *slog.Logger
}

func New(properties PropertyStore, owners OwnerStore, logger *slog.Logger) *Handler {
	return &Handler{
		properties: properties,
		owners:     owners,
		logger:     logger,
	}
}

// Register mounts registry endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/properties", h.HandleCreateProperty)
	r.Get("/admin/properties", h.HandleListProperties)
	r.Get("/admin/properties/{propertyID}", h.HandleGetProperty)
	r.Post("/admin/owners", h.HandleCreateOwner)
}

// CreatePropertyRequest is the HTTP request body for POST /admin/properties.
type CreatePropertyRequest struct {
	PropertyID  string  `json:"property_id"`
	OwnerID     string  `json:"owner_id"`
	Address     string  `json:"address"`
	RentalPrice float64 `json:"rental_price"`
}

func (r *CreatePropertyRequest) Validate() error {
	r.PropertyID = strings.TrimSpace(r.PropertyID)
	r.OwnerID = strings.TrimSpace(r.OwnerID)
	if r.PropertyID == "" {
		return dErrors.New(dErrors.CodeValidation, "property_id is required")
	}
	return nil
}

// CreateOwnerRequest is the HTTP request body for POST /admin/owners.
type CreateOwnerRequest struct {
	OwnerID string `json:"owner_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

func (r *CreateOwnerRequest) Validate() error {
	r.OwnerID = strings.TrimSpace(r.OwnerID)
	r.Name = strings.TrimSpace(r.Name)
	if r.OwnerID == "" || r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "owner_id and name are required")
	}
	return nil
}

// HandleCreateProperty handles POST /admin/properties requests.
func (h *Handler) HandleCreateProperty(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreatePropertyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	property, err := models.NewProperty(id.PropertyID(req.PropertyID), id.OwnerID(req.OwnerID),
		req.Address, req.RentalPrice, requestcontext.Now(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.properties.Create(ctx, property); err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeConflict, "property already registered"))
		return
	}

	h.logger.InfoContext(ctx, "property registered",
		"request_id", requestID,
		"property_id", property.ID,
	)
	httputil.WriteJSON(w, http.StatusCreated, property)
}

// HandleListProperties handles GET /admin/properties requests.
func (h *Handler) HandleListProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := h.properties.List(r.Context())
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list properties"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, properties)
}

// HandleGetProperty handles GET /admin/properties/{propertyID} requests.
func (h *Handler) HandleGetProperty(w http.ResponseWriter, r *http.Request) {
	propertyID := id.PropertyID(chi.URLParam(r, "propertyID"))
	property, err := h.properties.FindByID(r.Context(), propertyID)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "property not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, property)
}

// HandleCreateOwner handles POST /admin/owners requests.
func (h *Handler) HandleCreateOwner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateOwnerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	owner, err := models.NewOwner(id.OwnerID(req.OwnerID), req.Name, req.Email, requestcontext.Now(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.owners.Create(ctx, owner); err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeConflict, "owner already registered"))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, owner)
}
