package community

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/hastkala/marketplace/internal/domain"
	"github.com/hastkala/marketplace/internal/pkg/httputil"
)

// Handler handles HTTP requests for the community feed.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new community handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterPublicRoutes registers feed browsing routes. They run behind
// optional authentication so owners see their own private posts.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Route("/community", func(r chi.Router) {
		r.Get("/posts", h.ListPosts)
		r.Get("/posts/{id}", h.GetPost)
	})
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Route("/community", func(r chi.Router) {
		r.Post("/posts", h.CreatePost)
		r.Delete("/posts/{id}", h.DeletePost)
		r.Post("/posts/{id}/comments", h.AddComment)
		r.Post("/posts/{id}/like", h.LikePost)
		r.Delete("/posts/{id}/like", h.UnlikePost)
	})
}

// CreatePostRequest represents post creation request body.
type CreatePostRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=255"`
	Content  string `json:"content" validate:"required,min=1"`
	Type     string `json:"type" validate:"required"`
	IsPublic *bool  `json:"is_public"`
}

// CreatePost handles POST /community/posts.
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
		Title:    req.Title,
		Content:  req.Content,
		Type:     domain.CommunityPostType(req.Type),
		IsPublic: req.IsPublic,
	})
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, "post created successfully", post)
}

// ListPosts handles GET /community/posts.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	page, limit := httputil.ParsePagination(r)

	filter := PostFilter{
		Type:   domain.CommunityPostType(r.URL.Query().Get("type")),
		Search: r.URL.Query().Get("search"),
		Limit:  limit,
		Offset: httputil.Offset(page, limit),
	}

	posts, total, err := h.service.ListPosts(r.Context(), filter)
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Paginated(w, http.StatusOK, posts, httputil.NewPagination(page, limit, total))
}

// GetPost handles GET /community/posts/{id}.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())

	post, err := h.service.GetPost(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "", post)
}

// DeletePost handles DELETE /community/posts/{id}.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())

	if err := h.service.DeletePost(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "post deleted successfully", nil)
}

// AddCommentRequest represents comment creation request body.
type AddCommentRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

// AddComment handles POST /community/posts/{id}/comments.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())

	var req AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	comment, err := h.service.AddComment(r.Context(), identity, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, "comment added successfully", comment)
}

// LikePost handles POST /community/posts/{id}/like.
func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())

	if err := h.service.LikePost(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "post liked", nil)
}

// UnlikePost handles DELETE /community/posts/{id}/like.
func (h *Handler) UnlikePost(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())

	if err := h.service.UnlikePost(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "post unliked", nil)
}

func (h *Handler) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	httputil.HandleError(ctx, w, err, []httputil.ErrorMapping{
		{Error: ErrPostNotFound, Status: http.StatusNotFound},
		{Error: ErrInvalidType, Status: http.StatusBadRequest},
		{Error: ErrAlreadyLiked, Status: http.StatusBadRequest},
		{Error: ErrNotLiked, Status: http.StatusBadRequest},
	})
}
