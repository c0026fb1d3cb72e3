//go:build integration

package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/hastkala/marketplace/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardFreshAccount(t *testing.T) {
	client, _ := registerArtisan(t)

	resp, err := client.GET(apiBase + "/analytics/dashboard")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))

	var dashboard struct {
		Data struct {
			Period   string `json:"period"`
			Listings struct {
				Total     int `json:"total"`
				Published int `json:"published"`
			} `json:"listings"`
			Orders struct {
				Count   int     `json:"count"`
				Revenue float64 `json:"revenue"`
			} `json:"orders"`
			Recent []struct {
				ID string `json:"id"`
			} `json:"recent_orders"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &dashboard)
	assert.Equal(t, "30d", dashboard.Data.Period, "period defaults to 30d")
	assert.Zero(t, dashboard.Data.Listings.Total)
	assert.Zero(t, dashboard.Data.Orders.Count)
	assert.Empty(t, dashboard.Data.Recent)
}

func TestDashboardAggregates(t *testing.T) {
	client, artisanID := registerArtisan(t)

	createListing(t, client, "Dashboard published", true)
	createListing(t, client, "Dashboard draft", false)
	seedOrder(t, artisanID, "etsy", "delivered", 1000, time.Now().AddDate(0, 0, -2))
	seedOrder(t, artisanID, "amazon", "delivered", 500, time.Now().AddDate(0, 0, -5))
	// Outside the 7d window.
	seedOrder(t, artisanID, "etsy", "delivered", 9000, time.Now().AddDate(0, 0, -20))

	resp, err := client.GET(apiBase + "/analytics/dashboard?period=7d")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))

	var dashboard struct {
		Data struct {
			Period   string `json:"period"`
			Listings struct {
				Total     int `json:"total"`
				Published int `json:"published"`
			} `json:"listings"`
			Orders struct {
				Count   int     `json:"count"`
				Revenue float64 `json:"revenue"`
			} `json:"orders"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &dashboard)
	assert.Equal(t, "7d", dashboard.Data.Period)
	assert.Equal(t, 2, dashboard.Data.Listings.Total)
	assert.Equal(t, 1, dashboard.Data.Listings.Published)
	assert.Equal(t, 2, dashboard.Data.Orders.Count)
	assert.Equal(t, 1500.0, dashboard.Data.Orders.Revenue)
}

func TestDashboardInvalidPeriod(t *testing.T) {
	client, _ := registerArtisan(t)

	resp, err := client.GET(apiBase + "/analytics/dashboard?period=365d")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, testutil.ReadBody(t, resp))
}

func TestSalesReport(t *testing.T) {
	client, artisanID := registerArtisan(t)

	seedOrder(t, artisanID, "etsy", "delivered", 700, time.Now().AddDate(0, 0, -1))
	seedOrder(t, artisanID, "amazon", "delivered", 300, time.Now().AddDate(0, 0, -1))

	resp, err := client.GET(apiBase + "/analytics/sales?period=7d&group_by=day")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))

	var report struct {
		Data struct {
			Period  string `json:"period"`
			GroupBy string `json:"group_by"`
			Buckets []struct {
				Count      int                `json:"count"`
				Revenue    float64            `json:"revenue"`
				ByPlatform map[string]float64 `json:"by_platform"`
			} `json:"buckets"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &report)
	assert.Equal(t, "day", report.Data.GroupBy)
	require.Len(t, report.Data.Buckets, 1)
	assert.Equal(t, 2, report.Data.Buckets[0].Count)
	assert.Equal(t, 1000.0, report.Data.Buckets[0].Revenue)
	assert.Equal(t, 700.0, report.Data.Buckets[0].ByPlatform["etsy"])
	assert.Equal(t, 300.0, report.Data.Buckets[0].ByPlatform["amazon"])
}

func TestSalesReportInvalidGroupBy(t *testing.T) {
	client, _ := registerArtisan(t)

	resp, err := client.GET(apiBase + "/analytics/sales?group_by=hour")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, testutil.ReadBody(t, resp))
}

func TestSocialReport(t *testing.T) {
	client, _ := registerArtisan(t)

	for _, metrics := range []map[string]int{
		{"likes": 100, "comments": 10},
		{"likes": 50, "comments": 5},
	} {
		resp, err := client.POST(apiBase+"/social/posts", map[string]interface{}{
			"platform": "instagram",
			"metrics":  metrics,
		})
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()
	}

	resp, err := client.GET(apiBase + "/analytics/social")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))

	var report struct {
		Data struct {
			Platforms []struct {
				Platform   string `json:"platform"`
				Posts      int    `json:"posts"`
				Likes      int    `json:"likes"`
				Engagement int    `json:"engagement"`
			} `json:"platforms"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &report)
	require.Len(t, report.Data.Platforms, 1)
	platform := report.Data.Platforms[0]
	assert.Equal(t, "instagram", platform.Platform)
	assert.Equal(t, 2, platform.Posts)
	assert.Equal(t, 150, platform.Likes)
	assert.Equal(t, 165, platform.Engagement)
}

func TestAnalyticsRequireAuth(t *testing.T) {
	client := newTestClient(t)

	for _, path := range []string{"/analytics/dashboard", "/analytics/sales", "/analytics/social"} {
		resp, err := client.GET(apiBase + path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		_ = resp.Body.Close()
	}
}
