package social

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/hastkala/marketplace/internal/domain"
	"github.com/hastkala/marketplace/internal/pkg/httputil"
)

// Handler handles HTTP requests for social tracking.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new social handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterProtectedRoutes registers social routes. All of them require
// authentication.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Route("/social", func(r chi.Router) {
		r.Get("/accounts", h.ListAccounts)
		r.Get("/posts", h.ListPosts)
		r.Post("/posts", h.CreatePost)
	})
}

// ListAccounts handles GET /social/accounts.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())

	accounts, err := h.service.ListAccounts(r.Context(), identity)
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "", accounts)
}

// ListPosts handles GET /social/posts.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())
	page, limit := httputil.ParsePagination(r)

	posts, total, err := h.service.ListPosts(r.Context(), identity, PostFilter{
		Platform: r.URL.Query().Get("platform"),
		Limit:    limit,
		Offset:   httputil.Offset(page, limit),
	})
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Paginated(w, http.StatusOK, posts, httputil.NewPagination(page, limit, total))
}

// MetricsRequest holds reported engagement numbers.
type MetricsRequest struct {
	Likes    int `json:"likes" validate:"gte=0"`
	Comments int `json:"comments" validate:"gte=0"`
	Shares   int `json:"shares" validate:"gte=0"`
	Views    int `json:"views" validate:"gte=0"`
}

// CreatePostRequest represents tracked post creation request body.
type CreatePostRequest struct {
	Platform string         `json:"platform" validate:"required,max=64"`
	Caption  string         `json:"caption" validate:"omitempty,max=2000"`
	MediaURL string         `json:"media_url" validate:"omitempty,url"`
	Metrics  MetricsRequest `json:"metrics"`
	PostedAt *time.Time     `json:"posted_at"`
}

// CreatePost handles POST /social/posts.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())

	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	post, err := h.service.CreatePost(r.Context(), identity, CreatePostInput{
		Platform: req.Platform,
		Caption:  req.Caption,
		MediaURL: req.MediaURL,
		Metrics:  domain.SocialPostMetrics(req.Metrics),
		PostedAt: req.PostedAt,
	})
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, "social post tracked", post)
}

func (h *Handler) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	httputil.HandleError(ctx, w, err, []httputil.ErrorMapping{
		{Error: ErrAccountNotFound, Status: http.StatusNotFound},
	})
}
