package ai

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/hastkala/marketplace/internal/domain"
	"github.com/hastkala/marketplace/internal/pkg/httputil"
)

// Handler handles HTTP requests for AI content.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new AI handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterProtectedRoutes registers AI routes. All of them require
// authentication.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Route("/ai", func(r chi.Router) {
		r.Post("/story/generate", h.GenerateStory)
		r.Get("/stories", h.ListStories)
		r.Put("/stories/{id}", h.UpdateStory)
		r.Delete("/stories/{id}", h.DeleteStory)
		r.Post("/pricing/generate", h.GeneratePricing)
		r.Post("/brand/insights", h.GenerateBrandInsights)
		r.Post("/competition/analyze", h.AnalyzeCompetition)
		r.Get("/insights", h.ListInsights)
	})
}

// GenerateStoryRequest represents story generation request body.
type GenerateStoryRequest struct {
	Type               string `json:"type" validate:"required"`
	ProductName        string `json:"product_name" validate:"omitempty,max=255"`
	ProductDescription string `json:"product_description" validate:"omitempty,max=2000"`
}

// GenerateStory handles POST /ai/story/generate.
func (h *Handler) GenerateStory(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())

	var req GenerateStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	result, err := h.service.GenerateStory(r.Context(), identity, GenerateStoryInput{
		Type:               domain.StoryType(req.Type),
		ProductName:        req.ProductName,
		ProductDescription: req.ProductDescription,
	})
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, "story generated successfully", result)
}

// ListStories handles GET /ai/stories.
func (h *Handler) ListStories(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())
	page, limit := httputil.ParsePagination(r)

	stories, total, err := h.service.ListStories(
		r.Context(),
		identity,
		domain.StoryType(r.URL.Query().Get("type")),
		limit,
		httputil.Offset(page, limit),
	)
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Paginated(w, http.StatusOK, stories, httputil.NewPagination(page, limit, total))
}

// UpdateStoryRequest represents a partial story update.
type UpdateStoryRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Content     *string `json:"content" validate:"omitempty,min=1"`
	IsPublic    *bool   `json:"is_public"`
	IsPublished *bool   `json:"is_published"`
}

// UpdateStory handles PUT /ai/stories/{id}.
func (h *Handler) UpdateStory(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())

	var req UpdateStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	story, err := h.service.UpdateStory(r.Context(), identity, chi.URLParam(r, "id"), UpdateStoryInput(req))
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "story updated successfully", story)
}

// DeleteStory handles DELETE /ai/stories/{id}.
func (h *Handler) DeleteStory(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())

	if err := h.service.DeleteStory(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "story deleted successfully", nil)
}

// GeneratePricingRequest represents pricing generation request body.
type GeneratePricingRequest struct {
	ProductName    string  `json:"product_name" validate:"required,max=255"`
	Description    string  `json:"description" validate:"omitempty,max=2000"`
	MaterialCost   float64 `json:"material_cost" validate:"gte=0"`
	LaborHours     float64 `json:"labor_hours" validate:"gte=0"`
	MarketCategory string  `json:"market_category" validate:"omitempty,max=255"`
}

// GeneratePricing handles POST /ai/pricing/generate.
func (h *Handler) GeneratePricing(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())

	var req GeneratePricingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	result, err := h.service.GeneratePricing(r.Context(), identity, PricingInput(req))
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "pricing suggestion generated", result)
}

// BrandInsightsRequest represents brand insight generation request body.
type BrandInsightsRequest struct {
	TargetAudience  string            `json:"target_audience" validate:"required,max=500"`
	MarketPosition  string            `json:"market_position" validate:"required,max=255"`
	CurrentElements map[string]string `json:"current_elements"`
}

// GenerateBrandInsights handles POST /ai/brand/insights.
func (h *Handler) GenerateBrandInsights(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())

	var req BrandInsightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	result, err := h.service.GenerateBrandInsights(r.Context(), identity, BrandInput(req))
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "brand insights generated", result)
}

// CompetitionRequest represents competition analysis request body.
type CompetitionRequest struct {
	CompetitorName   string `json:"competitor_name" validate:"required,max=255"`
	CompetitorURL    string `json:"competitor_url" validate:"omitempty,url"`
	AnalysisType     string `json:"analysis_type" validate:"omitempty,max=64"`
	TargetPriceRange string `json:"target_price_range" validate:"omitempty,max=64"`
}

// AnalyzeCompetition handles POST /ai/competition/analyze.
func (h *Handler) AnalyzeCompetition(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())

	var req CompetitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	analysis, err := h.service.AnalyzeCompetition(r.Context(), identity, CompetitionInput(req))
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, "competition analysis generated", analysis)
}

// ListInsights handles GET /ai/insights.
func (h *Handler) ListInsights(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())
	page, limit := httputil.ParsePagination(r)

	insights, total, err := h.service.ListInsights(
		r.Context(),
		identity,
		domain.InsightType(r.URL.Query().Get("type")),
		limit,
		httputil.Offset(page, limit),
	)
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Paginated(w, http.StatusOK, insights, httputil.NewPagination(page, limit, total))
}

func (h *Handler) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	httputil.HandleError(ctx, w, err, []httputil.ErrorMapping{
		{Error: ErrStoryNotFound, Status: http.StatusNotFound},
		{Error: ErrInvalidType, Status: http.StatusBadRequest},
		{Error: ErrDisabled, Status: http.StatusServiceUnavailable},
		{Error: ErrGeneration, Status: http.StatusBadGateway},
	})
}
