package identity

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/hastkala/marketplace/internal/domain"
	"github.com/hastkala/marketplace/internal/pkg/ctxlog"
	"github.com/hastkala/marketplace/internal/pkg/httputil"
)

// ArtisanListingsReader lists an artisan's listings for the public directory
// (implemented by the listings module).
type ArtisanListingsReader interface {
	ListArtisanListings(ctx context.Context, artisanID string, publishedOnly bool, limit, offset int) ([]domain.Listing, int, error)
}

// ArtisanStoriesReader lists an artisan's public stories (implemented by the
// ai module, which owns stories).
type ArtisanStoriesReader interface {
	ListPublicStories(ctx context.Context, artisanID string, storyType string, limit, offset int) ([]domain.ArtisanStory, int, error)
}

// Handler handles HTTP requests for the identity module.
type Handler struct {
	service   *Service
	listings  ArtisanListingsReader
	stories   ArtisanStoriesReader
	validator *validator.Validate
}

// NewHandler creates a new identity handler.
func NewHandler(service *Service, listings ArtisanListingsReader, stories ArtisanStoriesReader) *Handler {
	return &Handler{
		service:   service,
		listings:  listings,
		stories:   stories,
		validator: validator.New(),
	}
}

// RegisterRoutes registers public auth routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Get("/profile", h.GetProfile)
		r.Put("/profile", h.UpdateProfile)
		r.Put("/change-password", h.ChangePassword)
		r.Post("/logout", h.Logout)
	})
}

// RegisterAdminRoutes registers moderation routes. The caller must wrap them
// with admin role middleware.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Put("/artisans/{id}/verify", h.VerifyArtisan)
}

// RegisterPublicRoutes registers the public artisan directory.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Route("/artisans", func(r chi.Router) {
		r.Get("/", h.ListArtisans)
		r.Get("/{id}", h.GetArtisan)
		r.Get("/{id}/listings", h.GetArtisanListings)
		r.Get("/{id}/skills", h.GetArtisanSkills)
		r.Get("/{id}/stories", h.GetArtisanStories)
	})
}

// RegisterRequest represents registration request body.
type RegisterRequest struct {
	Name         string   `json:"name" validate:"required,min=1,max=255"`
	Email        string   `json:"email" validate:"required,email"`
	Password     string   `json:"password" validate:"required,min=8"`
	Phone        string   `json:"phone" validate:"omitempty,max=32"`
	Location     string   `json:"location" validate:"omitempty,max=255"`
	PrimaryCraft string   `json:"primary_craft" validate:"omitempty,max=255"`
	Languages    []string `json:"languages"`
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	result, err := h.service.Register(r.Context(), RegisterInput(req))
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	ctxlog.FromContext(r.Context()).Info("artisan registered", "email", result.Artisan.Email)
	httputil.Success(w, http.StatusCreated, "registered successfully", result)
}

// LoginRequest represents login request body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), LoginInput(req))
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "login successful", result)
}

// GetProfile handles GET /auth/profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())

	artisan, err := h.service.GetArtisan(r.Context(), identity.ArtisanID)
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "", artisan)
}

// UpdateProfileRequest represents a partial profile update.
type UpdateProfileRequest struct {
	Name            *string   `json:"name" validate:"omitempty,min=1,max=255"`
	Phone           *string   `json:"phone" validate:"omitempty,max=32"`
	Bio             *string   `json:"bio"`
	Location        *string   `json:"location" validate:"omitempty,max=255"`
	Website         *string   `json:"website" validate:"omitempty,url"`
	ProfileImage    *string   `json:"profile_image" validate:"omitempty,url"`
	CoverImage      *string   `json:"cover_image" validate:"omitempty,url"`
	BusinessName    *string   `json:"business_name" validate:"omitempty,max=255"`
	PrimaryCraft    *string   `json:"primary_craft" validate:"omitempty,max=255"`
	CraftCategories *[]string `json:"craft_categories"`
	ExperienceYears *int      `json:"experience_years" validate:"omitempty,gte=0,lte=100"`
	SkillLevel      *string   `json:"skill_level" validate:"omitempty,max=64"`
	Languages       *[]string `json:"languages"`
}

// UpdateProfile handles PUT /auth/profile.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	artisan, err := h.service.UpdateProfile(r.Context(), identity.ArtisanID, UpdateProfileInput(req))
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "profile updated successfully", artisan)
}

// ChangePasswordRequest represents a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// ChangePassword handles PUT /auth/change-password.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	err := h.service.ChangePassword(r.Context(), identity.ArtisanID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "password changed successfully", nil)
}

// Logout handles POST /auth/logout. Tokens are stateless; the client discards
// its copy and the server has nothing to invalidate.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())
	ctxlog.FromContext(r.Context()).Info("artisan logged out", "artisan_id", identity.ArtisanID)
	httputil.Success(w, http.StatusOK, "logged out successfully", nil)
}

// VerifyRequest represents a verification flag change.
type VerifyRequest struct {
	Verified *bool `json:"verified" validate:"required"`
}

// VerifyArtisan handles PUT /artisans/{id}/verify.
func (h *Handler) VerifyArtisan(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	artisan, err := h.service.SetVerified(r.Context(), chi.URLParam(r, "id"), *req.Verified)
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	ctxlog.FromContext(r.Context()).Info("artisan verification changed",
		"artisan_id", artisan.ID, "verified", artisan.Verified)
	httputil.Success(w, http.StatusOK, "verification updated", artisan)
}

// ListArtisans handles GET /artisans.
func (h *Handler) ListArtisans(w http.ResponseWriter, r *http.Request) {
	page, limit := httputil.ParsePagination(r)

	filter := ArtisanFilter{
		Craft:    r.URL.Query().Get("craft"),
		Location: r.URL.Query().Get("location"),
		Limit:    limit,
		Offset:   httputil.Offset(page, limit),
	}
	if v := r.URL.Query().Get("verified"); v != "" {
		verified := v == "true"
		filter.Verified = &verified
	}

	artisans, total, err := h.service.ListArtisans(r.Context(), filter)
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Paginated(w, http.StatusOK, artisans, httputil.NewPagination(page, limit, total))
}

// GetArtisan handles GET /artisans/{id}.
func (h *Handler) GetArtisan(w http.ResponseWriter, r *http.Request) {
	artisan, err := h.service.GetArtisan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "", artisan)
}

// GetArtisanListings handles GET /artisans/{id}/listings.
func (h *Handler) GetArtisanListings(w http.ResponseWriter, r *http.Request) {
	page, limit := httputil.ParsePagination(r)

	listings, total, err := h.listings.ListArtisanListings(
		r.Context(),
		chi.URLParam(r, "id"),
		true,
		limit,
		httputil.Offset(page, limit),
	)
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Paginated(w, http.StatusOK, listings, httputil.NewPagination(page, limit, total))
}

// GetArtisanSkills handles GET /artisans/{id}/skills.
func (h *Handler) GetArtisanSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := h.service.ListSkills(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "", skills)
}

// GetArtisanStories handles GET /artisans/{id}/stories.
func (h *Handler) GetArtisanStories(w http.ResponseWriter, r *http.Request) {
	page, limit := httputil.ParsePagination(r)

	stories, total, err := h.stories.ListPublicStories(
		r.Context(),
		chi.URLParam(r, "id"),
		r.URL.Query().Get("type"),
		limit,
		httputil.Offset(page, limit),
	)
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Paginated(w, http.StatusOK, stories, httputil.NewPagination(page, limit, total))
}

func (h *Handler) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	httputil.HandleError(ctx, w, err, []httputil.ErrorMapping{
		{Error: ErrArtisanNotFound, Status: http.StatusNotFound},
		{Error: ErrEmailExists, Status: http.StatusConflict},
		{Error: ErrInvalidCredentials, Status: http.StatusUnauthorized},
		{Error: ErrWrongPassword, Status: http.StatusBadRequest},
	})
}
