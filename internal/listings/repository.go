package listings

import (
	"context"

	"github.com/hastkala/marketplace/internal/domain"
)

// Repository defines the interface for listing data operations.
type Repository interface {
	CreateListing(ctx context.Context, listing *domain.Listing) error
	GetListingByID(ctx context.Context, id string) (*domain.Listing, error)
	ListListings(ctx context.Context, filter ListingFilter) ([]domain.Listing, int, error)
	UpdateListing(ctx context.Context, listing *domain.Listing) error
	DeleteListing(ctx context.Context, id string) error
	ReplaceImages(ctx context.Context, listingID string, images []domain.ListingImage) error
}

// ListingFilter represents filter criteria for browsing listings.
type ListingFilter struct {
	ArtisanID     string
	Craft         string
	Location      string
	Search        string
	Tags          []string
	MinPrice      *float64
	MaxPrice      *float64
	PublishedOnly bool
	Limit         int
	Offset        int
}
