package listings

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/hastkala/marketplace/internal/pkg/httputil"
)

// Handler handles HTTP requests for listings.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new listings handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterPublicRoutes registers marketplace browsing routes. They run behind
// optional authentication so owners see their own unpublished listings.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Route("/listings", func(r chi.Router) {
		r.Get("/", h.ListListings)
		r.Get("/{id}", h.GetListing)
	})
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r chi.Router) {
	r.Route("/listings", func(r chi.Router) {
		r.Post("/", h.CreateListing)
		r.Put("/{id}", h.UpdateListing)
		r.Delete("/{id}", h.DeleteListing)
	})
	r.Get("/my/listings", h.ListMyListings)
}

// ImageRequest describes one image attached to a listing.
type ImageRequest struct {
	URI    string `json:"uri" validate:"required,url"`
	Role   string `json:"role" validate:"omitempty,max=64"`
	Width  int    `json:"width" validate:"omitempty,gte=0"`
	Height int    `json:"height" validate:"omitempty,gte=0"`
}

// CreateListingRequest represents listing creation request body.
type CreateListingRequest struct {
	Title            string         `json:"title" validate:"required,min=1,max=255"`
	ShortDescription string         `json:"short_description" validate:"omitempty,max=1000"`
	LongDescription  string         `json:"long_description"`
	Language         string         `json:"language" validate:"omitempty,max=16"`
	Price            *float64       `json:"price" validate:"omitempty,gte=0"`
	Currency         string         `json:"currency" validate:"omitempty,len=3"`
	Stock            int            `json:"stock" validate:"omitempty,gte=0"`
	Published        bool           `json:"published"`
	Tags             []string       `json:"tags"`
	Images           []ImageRequest `json:"images" validate:"omitempty,dive"`
}

// CreateListing handles POST /listings.
func (h *Handler) CreateListing(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())

	var req CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	input := CreateInput{
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		Language:         req.Language,
		Price:            req.Price,
		Currency:         req.Currency,
		Stock:            req.Stock,
		Published:        req.Published,
		Tags:             req.Tags,
	}
	for _, img := range req.Images {
		input.Images = append(input.Images, ImageInput(img))
	}

	listing, err := h.service.CreateListing(r.Context(), identity, input)
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, "listing created successfully", listing)
}

// ListListings handles GET /listings.
func (h *Handler) ListListings(w http.ResponseWriter, r *http.Request) {
	page, limit := httputil.ParsePagination(r)
	q := r.URL.Query()

	filter := ListingFilter{
		Craft:    q.Get("craft"),
		Location: q.Get("location"),
		Search:   q.Get("search"),
		Limit:    limit,
		Offset:   httputil.Offset(page, limit),
	}
	if tags, ok := q["tag"]; ok {
		filter.Tags = tags
	}
	filter.MinPrice = parsePriceParam(q.Get("min_price"))
	filter.MaxPrice = parsePriceParam(q.Get("max_price"))

	listings, total, err := h.service.ListListings(r.Context(), filter)
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Paginated(w, http.StatusOK, listings, httputil.NewPagination(page, limit, total))
}

// GetListing handles GET /listings/{id}.
func (h *Handler) GetListing(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())

	listing, err := h.service.GetListing(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "", listing)
}

// ListMyListings handles GET /my/listings.
func (h *Handler) ListMyListings(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())
	page, limit := httputil.ParsePagination(r)

	listings, total, err := h.service.ListMyListings(r.Context(), identity, limit, httputil.Offset(page, limit))
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Paginated(w, http.StatusOK, listings, httputil.NewPagination(page, limit, total))
}

// UpdateListingRequest represents a partial listing update.
type UpdateListingRequest struct {
	Title            *string         `json:"title" validate:"omitempty,min=1,max=255"`
	ShortDescription *string         `json:"short_description" validate:"omitempty,max=1000"`
	LongDescription  *string         `json:"long_description"`
	Language         *string         `json:"language" validate:"omitempty,max=16"`
	Price            *float64        `json:"price" validate:"omitempty,gte=0"`
	ClearPrice       bool            `json:"clear_price"`
	Currency         *string         `json:"currency" validate:"omitempty,len=3"`
	Stock            *int            `json:"stock" validate:"omitempty,gte=0"`
	Published        *bool           `json:"published"`
	Tags             *[]string       `json:"tags"`
	Images           *[]ImageRequest `json:"images" validate:"omitempty,dive"`
}

// UpdateListing handles PUT /listings/{id}.
func (h *Handler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())

	var req UpdateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	input := UpdateInput{
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		Language:         req.Language,
		Price:            req.Price,
		ClearPrice:       req.ClearPrice,
		Currency:         req.Currency,
		Stock:            req.Stock,
		Published:        req.Published,
		Tags:             req.Tags,
	}
	if req.Images != nil {
		images := make([]ImageInput, 0, len(*req.Images))
		for _, img := range *req.Images {
			images = append(images, ImageInput(img))
		}
		input.Images = &images
	}

	listing, err := h.service.UpdateListing(r.Context(), identity, chi.URLParam(r, "id"), input)
	if err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "listing updated successfully", listing)
}

// DeleteListing handles DELETE /listings/{id}.
func (h *Handler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	identity := httputil.IdentityFromContext(r.Context())

	if err := h.service.DeleteListing(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(r.Context(), w, err)
		return
	}

	httputil.Success(w, http.StatusOK, "listing deleted successfully", nil)
}

func (h *Handler) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	httputil.HandleError(ctx, w, err, []httputil.ErrorMapping{
		{Error: ErrListingNotFound, Status: http.StatusNotFound},
	})
}

func parsePriceParam(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}
