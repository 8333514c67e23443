package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/niklabh/quadratic-funding-registry/internal/core/domain"
	"github.com/niklabh/quadratic-funding-registry/internal/core/port"
)

// Handler is the inbound HTTP adapter. It exposes the six registry
// operations and the read-only queries on a chi.Router, resolving the
// caller's origin through the Authorizer port.
type Handler struct {
	svc    port.Registry
	auth   port.Authorizer
	logger *slog.Logger
	router chi.Router
}

// NewHandler creates a handler with all routes configured.
func NewHandler(svc port.Registry, auth port.Authorizer, logger *slog.Logger) *Handler {
	h := &Handler{svc: svc, auth: auth, logger: logger}
	r := chi.NewRouter()
	r.Use(requestID(logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/campaigns", h.handleCreate)
		r.Get("/campaigns/{id}", h.handleGetCampaign)
		r.Put("/campaigns/{id}/metadata", h.handleUpdateMetadata)
		r.Put("/campaigns/{id}/caps", h.handleSetCaps)
		r.Post("/campaigns/{id}/cancel", h.handleCancel)
		r.Post("/campaigns/{id}/contributions", h.handleContribute)
		r.Get("/campaigns/{id}/contributions/{account}", h.handleGetContribution)
		r.Post("/campaigns/{id}/refund", h.handleRefund)
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

// requestID tags every request with a uuid and logs its outcome at
// debug level for correlation.
func requestID(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			w.Header().Set("X-Request-Id", id)
			logger.Debug("request",
				slog.String("request_id", id),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			next.ServeHTTP(w, r)
		})
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("encode response", slog.Any("error", err))
	}
}

// writeError maps domain errors onto HTTP status codes.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrCampaignNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNotOwner), errors.Is(err, domain.ErrBadOrigin):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidTimeRange),
		errors.Is(err, domain.ErrCapsInvalid),
		errors.Is(err, domain.ErrMetadataInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotActive),
		errors.Is(err, domain.ErrHardCapExceeded),
		errors.Is(err, domain.ErrAlreadyFinalized),
		errors.Is(err, domain.ErrNoContributionFound),
		errors.Is(err, domain.ErrTooManyActiveCampaigns),
		errors.Is(err, domain.ErrNotRefundable),
		errors.Is(err, domain.ErrInsufficientBalance):
		status = http.StatusConflict
	default:
		h.logger.Error("operation failed", slog.Any("error", err))
	}
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}
