package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/hastkala/marketplace/internal/auth"
	"github.com/hastkala/marketplace/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	sinceSeen   []time.Time
	groupBySeen string
}

func (m *mockRepository) GetListingCounts(_ context.Context, _ string) (ListingCounts, error) {
	return ListingCounts{Total: 4, Published: 3}, nil
}

func (m *mockRepository) GetOrderTotals(_ context.Context, _ string, since time.Time) (OrderTotals, error) {
	m.sinceSeen = append(m.sinceSeen, since)
	return OrderTotals{Count: 2, Revenue: 3500}, nil
}

func (m *mockRepository) GetViewsTotal(_ context.Context, _ string, since time.Time) (float64, error) {
	return 120, nil
}

func (m *mockRepository) GetEngagementTotals(_ context.Context, _ string) (EngagementTotals, error) {
	return EngagementTotals{Likes: 10, Comments: 4}, nil
}

func (m *mockRepository) GetRecentOrders(_ context.Context, _ string, _ int) ([]domain.Order, error) {
	return []domain.Order{{ID: "o1"}}, nil
}

func (m *mockRepository) GetTopListings(_ context.Context, _ string, _ time.Time, _ int) ([]TopListing, error) {
	return []TopListing{{ListingID: "l1", UnitsSold: 3}}, nil
}

func (m *mockRepository) GetSalesBuckets(_ context.Context, _ string, since time.Time, groupBy string) ([]SalesBucket, error) {
	m.sinceSeen = append(m.sinceSeen, since)
	m.groupBySeen = groupBy
	return []SalesBucket{}, nil
}

func (m *mockRepository) GetSocialEngagement(_ context.Context, _ string, _ time.Time) ([]PlatformEngagement, error) {
	return []PlatformEngagement{{Platform: "instagram", Posts: 2, Likes: 50, Comments: 5, Engagement: 55}}, nil
}

func caller() auth.Identity {
	return auth.Identity{ArtisanID: "artisan-1", Role: domain.RoleUser}
}

func fixedNowService(repo Repository) (*Service, time.Time) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	service := NewService(repo)
	service.now = func() time.Time { return now }
	return service, now
}

func TestGetDashboard_DefaultPeriodIs30Days(t *testing.T) {
	repo := &mockRepository{}
	service, now := fixedNowService(repo)

	dashboard, err := service.GetDashboard(context.Background(), caller(), "")

	require.NoError(t, err)
	assert.Equal(t, "30d", dashboard.Period)
	assert.Equal(t, 4, dashboard.Listings.Total)
	assert.Equal(t, 3500.0, dashboard.Orders.Revenue)
	require.NotEmpty(t, repo.sinceSeen)
	assert.Equal(t, now.AddDate(0, 0, -30), repo.sinceSeen[0])
}

func TestGetDashboard_RejectsUnknownPeriod(t *testing.T) {
	service, _ := fixedNowService(&mockRepository{})

	_, err := service.GetDashboard(context.Background(), caller(), "365d")

	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestGetDashboard_RequiresAuthentication(t *testing.T) {
	service, _ := fixedNowService(&mockRepository{})

	_, err := service.GetDashboard(context.Background(), auth.Identity{}, "7d")

	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestGetSales_GroupByValidation(t *testing.T) {
	repo := &mockRepository{}
	service, _ := fixedNowService(repo)

	report, err := service.GetSales(context.Background(), caller(), "7d", "")
	require.NoError(t, err)
	assert.Equal(t, "day", report.GroupBy)
	assert.Equal(t, "day", repo.groupBySeen)

	_, err = service.GetSales(context.Background(), caller(), "7d", "hour")
	assert.ErrorIs(t, err, ErrInvalidGroupBy)

	report, err = service.GetSales(context.Background(), caller(), "90d", "month")
	require.NoError(t, err)
	assert.Equal(t, "month", report.GroupBy)
}

func TestGetSales_WindowFromPeriod(t *testing.T) {
	repo := &mockRepository{}
	service, now := fixedNowService(repo)

	_, err := service.GetSales(context.Background(), caller(), "7d", "day")

	require.NoError(t, err)
	require.NotEmpty(t, repo.sinceSeen)
	assert.Equal(t, now.AddDate(0, 0, -7), repo.sinceSeen[0])
}

func TestGetSocial_ReturnsPlatformTotals(t *testing.T) {
	service, _ := fixedNowService(&mockRepository{})

	report, err := service.GetSocial(context.Background(), caller(), "30d")

	require.NoError(t, err)
	require.Len(t, report.Platforms, 1)
	assert.Equal(t, "instagram", report.Platforms[0].Platform)
	assert.Equal(t, 55, report.Platforms[0].Engagement)
}
