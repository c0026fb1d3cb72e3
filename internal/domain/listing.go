package domain

import "time"

// Listing represents a product listing owned by an artisan.
type Listing struct {
	ID               string          `json:"id"`
	ArtisanID        string          `json:"artisan_id"`
	Title            string          `json:"title"`
	ShortDescription string          `json:"short_description,omitempty"`
	LongDescription  string          `json:"long_description,omitempty"`
	Language         string          `json:"language"`
	Price            *float64        `json:"price,omitempty"`
	Currency         string          `json:"currency"`
	Stock            int             `json:"stock"`
	Published        bool            `json:"published"`
	Tags             []string        `json:"tags"`
	Images           []ListingImage  `json:"images"`
	Artisan          *ArtisanSummary `json:"artisan,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ListingImage represents a single image attached to a listing.
type ListingImage struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	URI       string    `json:"uri"`
	Role      string    `json:"role,omitempty"`
	Width     int       `json:"width,omitempty"`
	Height    int       `json:"height,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
