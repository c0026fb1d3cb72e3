package analytics

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hastkala/marketplace/internal/pkg/httputil"
)

// Handler handles HTTP requests for analytics.
type Handler struct {
	service *Service
}

// NewHandler creates a new analytics handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterProtectedRoutes registers analytics routes. All of them require
// authentication.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Route("/analytics", func(r chi.Router) {
		r.Get("/dashboard", h.GetDashboard)
		r.Get("/sales", h.GetSales)
		r.Get("/social", h.GetSocial)
	})
}

// GetDashboard handles GET /analytics/dashboard.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())

	dashboard, err := h.service.GetDashboard(r.Context(), identity, r.URL.Query().Get("period"))
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "", dashboard)
}

// GetSales handles GET /analytics/sales.
func (h *Handler) GetSales(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())

	report, err := h.service.GetSales(r.Context(), identity,
		r.URL.Query().Get("period"),
		r.URL.Query().Get("group_by"))
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "", report)
}

// GetSocial handles GET /analytics/social.
func (h *Handler) GetSocial(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())

	report, err := h.service.GetSocial(r.Context(), identity, r.URL.Query().Get("period"))
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "", report)
}

func (h *Handler) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	httputil.HandleError(ctx, w, err, []httputil.ErrorMapping{
		{Error: ErrInvalidPeriod, Status: http.StatusBadRequest},
		{Error: ErrInvalidGroupBy, Status: http.StatusBadRequest},
	})
}
