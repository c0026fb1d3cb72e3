package orders

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/hastkala/marketplace/internal/domain"
	"github.com/hastkala/marketplace/internal/pkg/httputil"
)

// Handler handles HTTP requests for orders.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new orders handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterProtectedRoutes registers order routes. All order routes require
// authentication.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Get("/{id}", h.GetOrder)
		r.Put("/{id}/status", h.UpdateStatus)
	})
}

// ListOrders handles GET /orders.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())
	page, limit := httputil.ParsePagination(r)

	filter := OrderFilter{
		Status:   domain.OrderStatus(r.URL.Query().Get("status")),
		Platform: r.URL.Query().Get("platform"),
		Limit:    limit,
		Offset:   httputil.Offset(page, limit),
	}

	orders, total, err := h.service.ListOrders(r.Context(), identity, filter)
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Paginated(w, http.StatusOK, orders, httputil.NewPagination(page, limit, total))
}

// GetOrder handles GET /orders/{id}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())

	order, err := h.service.GetOrder(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "", order)
}

// UpdateStatusRequest represents an order status change.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus handles PUT /orders/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), identity, chi.URLParam(r, "id"), domain.OrderStatus(req.Status))
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "order status updated", order)
}

func (h *Handler) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	httputil.HandleError(ctx, w, err, []httputil.ErrorMapping{
		{Error: ErrOrderNotFound, Status: http.StatusNotFound},
		{Error: ErrInvalidStatus, Status: http.StatusBadRequest},
	})
}
