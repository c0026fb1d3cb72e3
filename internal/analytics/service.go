// Package analytics aggregates dashboard, sales and social metrics for an
// artisan over rolling windows.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/hastkala/marketplace/internal/auth"
	"github.com/hastkala/marketplace/internal/domain"
)

// Reporting windows.
const (
	Period7d  = "7d"
	Period30d = "30d"
	Period90d = "90d"
)

// Sales bucket granularities, passed to SQL date_trunc.
const (
	GroupByDay   = "day"
	GroupByWeek  = "week"
	GroupByMonth = "month"
)

const recentOrdersLimit = 5

// Service implements analytics business logic.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new analytics service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Dashboard is the summary view returned by GetDashboard.
type Dashboard struct {
	Period     string           `json:"period"`
	Listings   ListingCounts    `json:"listings"`
	Orders     OrderTotals      `json:"orders"`
	Views      float64          `json:"views"`
	Engagement EngagementTotals `json:"engagement"`
	Recent     []domain.Order   `json:"recent_orders"`
	Top        []TopListing     `json:"top_listings"`
}

// GetDashboard aggregates the caller's activity over the given period.
func (s *Service) GetDashboard(ctx context.Context, id auth.Identity, period string) (*Dashboard, error) {
	if err := auth.Authorize(id, domain.RoleUser, domain.RoleAdmin); err != nil {
		return nil, err
	}
	since, err := s.periodStart(period)
	if err != nil {
		return nil, err
	}

	listings, err := s.repo.GetListingCounts(ctx, id.ArtisanID)
	if err != nil {
		return nil, fmt.Errorf("listing counts: %w", err)
	}
	orders, err := s.repo.GetOrderTotals(ctx, id.ArtisanID, since)
	if err != nil {
		return nil, fmt.Errorf("order totals: %w", err)
	}
	views, err := s.repo.GetViewsTotal(ctx, id.ArtisanID, since)
	if err != nil {
		return nil, fmt.Errorf("views total: %w", err)
	}
	engagement, err := s.repo.GetEngagementTotals(ctx, id.ArtisanID)
	if err != nil {
		return nil, fmt.Errorf("engagement totals: %w", err)
	}
	recent, err := s.repo.GetRecentOrders(ctx, id.ArtisanID, recentOrdersLimit)
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}
	top, err := s.repo.GetTopListings(ctx, id.ArtisanID, since, recentOrdersLimit)
	if err != nil {
		return nil, fmt.Errorf("top listings: %w", err)
	}

	return &Dashboard{
		Period:     normalizePeriod(period),
		Listings:   listings,
		Orders:     orders,
		Views:      views,
		Engagement: engagement,
		Recent:     recent,
		Top:        top,
	}, nil
}

// SalesReport is returned by GetSales.
type SalesReport struct {
	Period  string        `json:"period"`
	GroupBy string        `json:"group_by"`
	Buckets []SalesBucket `json:"buckets"`
}

// GetSales returns order totals bucketed by day, week or month.
func (s *Service) GetSales(ctx context.Context, id auth.Identity, period, groupBy string) (*SalesReport, error) {
	if err := auth.Authorize(id, domain.RoleUser, domain.RoleAdmin); err != nil {
		return nil, err
	}
	since, err := s.periodStart(period)
	if err != nil {
		return nil, err
	}

	switch groupBy {
	case "":
		groupBy = GroupByDay
	case GroupByDay, GroupByWeek, GroupByMonth:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidGroupBy, groupBy)
	}

	buckets, err := s.repo.GetSalesBuckets(ctx, id.ArtisanID, since, groupBy)
	if err != nil {
		return nil, fmt.Errorf("sales buckets: %w", err)
	}

	return &SalesReport{
		Period:  normalizePeriod(period),
		GroupBy: groupBy,
		Buckets: buckets,
	}, nil
}

// SocialReport is returned by GetSocial.
type SocialReport struct {
	Period    string               `json:"period"`
	Platforms []PlatformEngagement `json:"platforms"`
}

// GetSocial returns per-platform post and engagement totals.
func (s *Service) GetSocial(ctx context.Context, id auth.Identity, period string) (*SocialReport, error) {
	if err := auth.Authorize(id, domain.RoleUser, domain.RoleAdmin); err != nil {
		return nil, err
	}
	since, err := s.periodStart(period)
	if err != nil {
		return nil, err
	}

	platforms, err := s.repo.GetSocialEngagement(ctx, id.ArtisanID, since)
	if err != nil {
		return nil, fmt.Errorf("social engagement: %w", err)
	}

	return &SocialReport{Period: normalizePeriod(period), Platforms: platforms}, nil
}

func (s *Service) periodStart(period string) (time.Time, error) {
	var days int
	switch normalizePeriod(period) {
	case Period7d:
		days = 7
	case Period30d:
		days = 30
	case Period90d:
		days = 90
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
	return s.now().AddDate(0, 0, -days), nil
}

func normalizePeriod(period string) string {
	if period == "" {
		return Period30d
	}
	return period
}
