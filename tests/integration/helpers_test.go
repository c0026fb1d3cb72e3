//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hastkala/marketplace/internal/testutil"
	"github.com/stretchr/testify/require"
)

const apiBase = "/api/v1"

// registerArtisan registers a fresh artisan and returns an authenticated
// client along with the new artisan's ID.
func registerArtisan(t *testing.T) (*testutil.Client, string) {
	t.Helper()

	client := newTestClient(t)
	resp, err := client.POST(apiBase+"/auth/register", map[string]interface{}{
		"name":          "Test Artisan",
		"email":         testutil.RandomEmail(),
		"password":      "strong-password-1",
		"location":      "Jaipur",
		"primary_craft": "block printing",
	})
	require.NoError(t, err)
	require.Equal(t, 201, resp.StatusCode, testutil.ReadBody(t, resp))

	var body struct {
		Data struct {
			User struct {
				ID string `json:"id"`
			} `json:"user"`
			Token string `json:"token"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &body)
	require.NotEmpty(t, body.Data.Token)
	require.NotEmpty(t, body.Data.User.ID)

	return client.WithToken(body.Data.Token), body.Data.User.ID
}

// createListing creates a listing for the authenticated client and returns its ID.
func createListing(t *testing.T, client *testutil.Client, title string, published bool) string {
	t.Helper()

	price := 1200.0
	resp, err := client.POST(apiBase+"/listings", map[string]interface{}{
		"title":             title,
		"short_description": "Hand block printed cotton",
		"price":             price,
		"currency":          "INR",
		"stock":             5,
		"published":         published,
		"tags":              []string{"textile", "cotton"},
	})
	require.NoError(t, err)
	require.Equal(t, 201, resp.StatusCode, testutil.ReadBody(t, resp))

	var body struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &body)
	require.NotEmpty(t, body.Data.ID)

	return body.Data.ID
}

// createCommunityPost creates a community post and returns its ID.
func createCommunityPost(t *testing.T, client *testutil.Client, title string) string {
	t.Helper()

	resp, err := client.POST(apiBase+"/community/posts", map[string]interface{}{
		"title":   title,
		"content": "Sharing my latest work from the workshop.",
		"type":    "showcase",
	})
	require.NoError(t, err)
	require.Equal(t, 201, resp.StatusCode, testutil.ReadBody(t, resp))

	var body struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &body)
	require.NotEmpty(t, body.Data.ID)

	return body.Data.ID
}

// seedOrder inserts an order directly, since orders arrive from external
// marketplaces rather than through the API. Returns the order ID.
func seedOrder(t *testing.T, artisanID, platform, status string, gross float64, createdAt time.Time) string {
	t.Helper()

	var id string
	err := testDB.QueryRow(context.Background(),
		`INSERT INTO orders (artisan_id, platform, external_ref, status, buyer_name, gross_amount, net_amount, currency, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, 'Test Buyer', $5, $5, 'INR', $6, $6)
		 RETURNING id`,
		artisanID, platform, "ext-"+uuid.NewString()[:8], status, gross, createdAt,
	).Scan(&id)
	require.NoError(t, err)

	_, err = testDB.Exec(context.Background(),
		`INSERT INTO order_items (order_id, title, qty, unit_price) VALUES ($1, 'Block printed scarf', 2, $2)`,
		id, gross/2,
	)
	require.NoError(t, err)

	return id
}
