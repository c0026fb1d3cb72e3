// Package listings provides the product listing marketplace: public browsing
// and owner-scoped listing management.
package listings

import (
	"context"
	"fmt"

	"github.com/hastkala/marketplace/internal/auth"
	"github.com/hastkala/marketplace/internal/domain"
)

// Service implements listing business logic.
type Service struct {
	repo Repository
}

// NewService creates a new listings service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput holds data for creating a listing.
type CreateInput struct {
	Title            string
	ShortDescription string
	LongDescription  string
	Language         string
	Price            *float64
	Currency         string
	Stock            int
	Published        bool
	Tags             []string
	Images           []ImageInput
}

// ImageInput describes one attached image.
type ImageInput struct {
	URI    string
	Role   string
	Width  int
	Height int
}

// CreateListing creates a listing owned by the caller.
func (s *Service) CreateListing(ctx context.Context, id auth.Identity, input CreateInput) (*domain.Listing, error) {
	if err := auth.Authorize(id, domain.RoleUser, domain.RoleAdmin); err != nil {
		return nil, err
	}

	listing := &domain.Listing{
		ArtisanID:        id.ArtisanID,
		Title:            input.Title,
		ShortDescription: input.ShortDescription,
		LongDescription:  input.LongDescription,
		Language:         input.Language,
		Price:            input.Price,
		Currency:         input.Currency,
		Stock:            input.Stock,
		Published:        input.Published,
		Tags:             input.Tags,
	}
	if listing.Language == "" {
		listing.Language = "en"
	}
	if listing.Currency == "" {
		listing.Currency = "INR"
	}
	if listing.Tags == nil {
		listing.Tags = []string{}
	}
	for _, img := range input.Images {
		listing.Images = append(listing.Images, domain.ListingImage{
			URI:    img.URI,
			Role:   img.Role,
			Width:  img.Width,
			Height: img.Height,
		})
	}

	if err := s.repo.CreateListing(ctx, listing); err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}
	return listing, nil
}

// GetListing returns a single listing. Unpublished listings are visible only
// to their owner (or an admin); everyone else sees not-found.
func (s *Service) GetListing(ctx context.Context, id auth.Identity, listingID string) (*domain.Listing, error) {
	listing, err := s.repo.GetListingByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if !listing.Published {
		if err := auth.CheckOwnership(id, listing.ArtisanID); err != nil {
			return nil, ErrListingNotFound
		}
	}
	return listing, nil
}

// ListListings returns the public marketplace page. Only published listings
// are included.
func (s *Service) ListListings(ctx context.Context, filter ListingFilter) ([]domain.Listing, int, error) {
	filter.PublishedOnly = true
	return s.repo.ListListings(ctx, filter)
}

// ListMyListings returns all of the caller's listings, published or not.
func (s *Service) ListMyListings(ctx context.Context, id auth.Identity, limit, offset int) ([]domain.Listing, int, error) {
	if err := auth.Authorize(id, domain.RoleUser, domain.RoleAdmin); err != nil {
		return nil, 0, err
	}
	return s.repo.ListListings(ctx, ListingFilter{
		ArtisanID: id.ArtisanID,
		Limit:     limit,
		Offset:    offset,
	})
}

// ListArtisanListings lists a given artisan's listings for the public
// directory. Implements the identity module's reader interface.
func (s *Service) ListArtisanListings(ctx context.Context, artisanID string, publishedOnly bool, limit, offset int) ([]domain.Listing, int, error) {
	return s.repo.ListListings(ctx, ListingFilter{
		ArtisanID:     artisanID,
		PublishedOnly: publishedOnly,
		Limit:         limit,
		Offset:        offset,
	})
}

// UpdateInput holds partial listing updates. Nil fields are left untouched.
type UpdateInput struct {
	Title            *string
	ShortDescription *string
	LongDescription  *string
	Language         *string
	Price            *float64
	ClearPrice       bool
	Currency         *string
	Stock            *int
	Published        *bool
	Tags             *[]string
	Images           *[]ImageInput
}

// UpdateListing applies a partial update to a caller-owned listing.
func (s *Service) UpdateListing(ctx context.Context, id auth.Identity, listingID string, input UpdateInput) (*domain.Listing, error) {
	listing, err := s.repo.GetListingByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if err := auth.CheckOwnership(id, listing.ArtisanID); err != nil {
		return nil, err
	}

	if input.Title != nil {
		listing.Title = *input.Title
	}
	if input.ShortDescription != nil {
		listing.ShortDescription = *input.ShortDescription
	}
	if input.LongDescription != nil {
		listing.LongDescription = *input.LongDescription
	}
	if input.Language != nil {
		listing.Language = *input.Language
	}
	if input.ClearPrice {
		listing.Price = nil
	} else if input.Price != nil {
		listing.Price = input.Price
	}
	if input.Currency != nil {
		listing.Currency = *input.Currency
	}
	if input.Stock != nil {
		listing.Stock = *input.Stock
	}
	if input.Published != nil {
		listing.Published = *input.Published
	}
	if input.Tags != nil {
		listing.Tags = *input.Tags
	}

	if err := s.repo.UpdateListing(ctx, listing); err != nil {
		return nil, fmt.Errorf("update listing: %w", err)
	}

	if input.Images != nil {
		images := make([]domain.ListingImage, 0, len(*input.Images))
		for _, img := range *input.Images {
			images = append(images, domain.ListingImage{
				URI:    img.URI,
				Role:   img.Role,
				Width:  img.Width,
				Height: img.Height,
			})
		}
		if err := s.repo.ReplaceImages(ctx, listingID, images); err != nil {
			return nil, fmt.Errorf("replace images: %w", err)
		}
		return s.repo.GetListingByID(ctx, listingID)
	}

	return listing, nil
}

// DeleteListing removes a caller-owned listing.
func (s *Service) DeleteListing(ctx context.Context, id auth.Identity, listingID string) error {
	listing, err := s.repo.GetListingByID(ctx, listingID)
	if err != nil {
		return err
	}
	if err := auth.CheckOwnership(id, listing.ArtisanID); err != nil {
		return err
	}
	return s.repo.DeleteListing(ctx, listingID)
}
