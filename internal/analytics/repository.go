package analytics

import (
	"context"
	"time"

	"github.com/hastkala/marketplace/internal/domain"
)

// ListingCounts aggregates listing totals for the dashboard.
type ListingCounts struct {
	Total     int `json:"total"`
	Published int `json:"published"`
}

// OrderTotals aggregates order activity inside a time window.
type OrderTotals struct {
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// EngagementTotals aggregates community interaction counters.
type EngagementTotals struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
}

// TopListing is a listing ranked by units sold in a window.
type TopListing struct {
	ListingID string  `json:"listing_id"`
	Title     string  `json:"title"`
	UnitsSold int     `json:"units_sold"`
	Revenue   float64 `json:"revenue"`
}

// SalesBucket is one date_trunc bucket of order totals.
type SalesBucket struct {
	Bucket     time.Time          `json:"bucket"`
	Count      int                `json:"count"`
	Revenue    float64            `json:"revenue"`
	ByPlatform map[string]float64 `json:"by_platform"`
}

// PlatformEngagement aggregates tracked social posts per platform.
type PlatformEngagement struct {
	Platform   string `json:"platform"`
	Posts      int    `json:"posts"`
	Likes      int    `json:"likes"`
	Comments   int    `json:"comments"`
	Engagement int    `json:"engagement"`
}

// Repository defines the interface for analytics queries.
type Repository interface {
	GetListingCounts(ctx context.Context, artisanID string) (ListingCounts, error)
	GetOrderTotals(ctx context.Context, artisanID string, since time.Time) (OrderTotals, error)
	GetViewsTotal(ctx context.Context, artisanID string, since time.Time) (float64, error)
	GetEngagementTotals(ctx context.Context, artisanID string) (EngagementTotals, error)
	GetRecentOrders(ctx context.Context, artisanID string, limit int) ([]domain.Order, error)
	GetTopListings(ctx context.Context, artisanID string, since time.Time, limit int) ([]TopListing, error)
	GetSalesBuckets(ctx context.Context, artisanID string, since time.Time, groupBy string) ([]SalesBucket, error)
	GetSocialEngagement(ctx context.Context, artisanID string, since time.Time) ([]PlatformEngagement, error)
}
