// Package postgres provides the PostgreSQL implementation of the analytics
// repository.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/hastkala/marketplace/internal/analytics"
	"github.com/hastkala/marketplace/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the analytics.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetListingCounts returns total and published listing counts.
func (r *Repository) GetListingCounts(ctx context.Context, artisanID string) (analytics.ListingCounts, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE published)
		FROM listings
		WHERE artisan_id = $1
	`
	var counts analytics.ListingCounts
	if err := r.db.QueryRow(ctx, query, artisanID).Scan(&counts.Total, &counts.Published); err != nil {
		return analytics.ListingCounts{}, fmt.Errorf("get listing counts: %w", err)
	}
	return counts, nil
}

// GetOrderTotals returns order count and gross revenue since the given time.
// Cancelled orders are excluded.
func (r *Repository) GetOrderTotals(ctx context.Context, artisanID string, since time.Time) (analytics.OrderTotals, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(gross_amount), 0)
		FROM orders
		WHERE artisan_id = $1 AND created_at >= $2 AND status <> 'cancelled'
	`
	var totals analytics.OrderTotals
	if err := r.db.QueryRow(ctx, query, artisanID, since).Scan(&totals.Count, &totals.Revenue); err != nil {
		return analytics.OrderTotals{}, fmt.Errorf("get order totals: %w", err)
	}
	return totals, nil
}

// GetViewsTotal sums view snapshots since the given time.
func (r *Repository) GetViewsTotal(ctx context.Context, artisanID string, since time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(value), 0)
		FROM analytics_snapshots
		WHERE artisan_id = $1 AND metric_type = 'views' AND date >= $2
	`
	var views float64
	if err := r.db.QueryRow(ctx, query, artisanID, since).Scan(&views); err != nil {
		return 0, fmt.Errorf("get views total: %w", err)
	}
	return views, nil
}

// GetEngagementTotals sums like and comment counters across the artisan's
// community posts.
func (r *Repository) GetEngagementTotals(ctx context.Context, artisanID string) (analytics.EngagementTotals, error) {
	query := `
		SELECT COALESCE(SUM(likes), 0), COALESCE(SUM(comments), 0)
		FROM community_posts
		WHERE artisan_id = $1
	`
	var totals analytics.EngagementTotals
	if err := r.db.QueryRow(ctx, query, artisanID).Scan(&totals.Likes, &totals.Comments); err != nil {
		return analytics.EngagementTotals{}, fmt.Errorf("get engagement totals: %w", err)
	}
	return totals, nil
}

// GetRecentOrders returns the newest orders without line items.
func (r *Repository) GetRecentOrders(ctx context.Context, artisanID string, limit int) ([]domain.Order, error) {
	query := `
		SELECT id, artisan_id, platform, external_ref, status, buyer_name,
			gross_amount, net_amount, currency, created_at, updated_at
		FROM orders
		WHERE artisan_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, artisanID, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		var order domain.Order
		err := rows.Scan(
			&order.ID,
			&order.ArtisanID,
			&order.Platform,
			&order.ExternalRef,
			&order.Status,
			&order.BuyerName,
			&order.GrossAmount,
			&order.NetAmount,
			&order.Currency,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// GetTopListings ranks listings by units sold in the window.
func (r *Repository) GetTopListings(ctx context.Context, artisanID string, since time.Time, limit int) ([]analytics.TopListing, error) {
	query := `
		SELECT l.id, l.title, SUM(oi.qty), SUM(oi.qty * oi.unit_price)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN listings l ON l.id = oi.listing_id
		WHERE o.artisan_id = $1 AND o.created_at >= $2 AND o.status <> 'cancelled'
		GROUP BY l.id, l.title
		ORDER BY SUM(oi.qty) DESC
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, artisanID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("get top listings: %w", err)
	}
	defer rows.Close()

	top := make([]analytics.TopListing, 0)
	for rows.Next() {
		var t analytics.TopListing
		if err := rows.Scan(&t.ListingID, &t.Title, &t.UnitsSold, &t.Revenue); err != nil {
			return nil, fmt.Errorf("scan top listing: %w", err)
		}
		top = append(top, t)
	}
	return top, rows.Err()
}

// GetSalesBuckets buckets order totals with date_trunc and splits revenue per
// platform inside each bucket.
func (r *Repository) GetSalesBuckets(ctx context.Context, artisanID string, since time.Time, groupBy string) ([]analytics.SalesBucket, error) {
	// groupBy is validated against the enumerated set before it reaches SQL.
	query := fmt.Sprintf(`
		SELECT date_trunc('%s', created_at) AS bucket, platform, COUNT(*), COALESCE(SUM(gross_amount), 0)
		FROM orders
		WHERE artisan_id = $1 AND created_at >= $2 AND status <> 'cancelled'
		GROUP BY bucket, platform
		ORDER BY bucket
	`, groupBy)

	rows, err := r.db.Query(ctx, query, artisanID, since)
	if err != nil {
		return nil, fmt.Errorf("get sales buckets: %w", err)
	}
	defer rows.Close()

	buckets := make([]analytics.SalesBucket, 0)
	index := make(map[time.Time]int)
	for rows.Next() {
		var bucket time.Time
		var platform string
		var count int
		var revenue float64
		if err := rows.Scan(&bucket, &platform, &count, &revenue); err != nil {
			return nil, fmt.Errorf("scan sales bucket: %w", err)
		}

		i, ok := index[bucket]
		if !ok {
			i = len(buckets)
			index[bucket] = i
			buckets = append(buckets, analytics.SalesBucket{
				Bucket:     bucket,
				ByPlatform: make(map[string]float64),
			})
		}
		buckets[i].Count += count
		buckets[i].Revenue += revenue
		buckets[i].ByPlatform[platform] += revenue
	}
	return buckets, rows.Err()
}

// GetSocialEngagement aggregates tracked posts per platform in the window.
func (r *Repository) GetSocialEngagement(ctx context.Context, artisanID string, since time.Time) ([]analytics.PlatformEngagement, error) {
	query := `
		SELECT platform, COUNT(*), COALESCE(SUM(likes), 0), COALESCE(SUM(comments), 0)
		FROM social_posts
		WHERE artisan_id = $1 AND COALESCE(posted_at, created_at) >= $2
		GROUP BY platform
		ORDER BY platform
	`
	rows, err := r.db.Query(ctx, query, artisanID, since)
	if err != nil {
		return nil, fmt.Errorf("get social engagement: %w", err)
	}
	defer rows.Close()

	platforms := make([]analytics.PlatformEngagement, 0)
	for rows.Next() {
		var p analytics.PlatformEngagement
		if err := rows.Scan(&p.Platform, &p.Posts, &p.Likes, &p.Comments); err != nil {
			return nil, fmt.Errorf("scan platform engagement: %w", err)
		}
		p.Engagement = p.Likes + p.Comments
		platforms = append(platforms, p)
	}
	return platforms, rows.Err()
}
