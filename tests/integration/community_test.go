//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/hastkala/marketplace/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCommunityPost(t *testing.T) {
	client, artisanID := registerArtisan(t)

	resp, err := client.POST(apiBase+"/community/posts", map[string]interface{}{
		"title":   "Dye workshop notes",
		"content": "What worked for us with pomegranate rind.",
		"type":    "tip",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, testutil.ReadBody(t, resp))

	var created struct {
		Data struct {
			ID        string `json:"id"`
			ArtisanID string `json:"artisan_id"`
			Title     string `json:"title"`
			Type      string `json:"type"`
			Likes     int    `json:"likes"`
			Comments  int    `json:"comments"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &created)
	assert.Equal(t, artisanID, created.Data.ArtisanID)
	assert.Equal(t, "tip", created.Data.Type)
	assert.Zero(t, created.Data.Likes)
	assert.Zero(t, created.Data.Comments)

	resp, err = client.POST(apiBase+"/community/posts", map[string]interface{}{
		"title":   "Bad type",
		"content": "x",
		"type":    "clickbait",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, testutil.ReadBody(t, resp))
}

func TestCommunityFeed(t *testing.T) {
	client, _ := registerArtisan(t)
	postID := createCommunityPost(t, client, "Feed visibility check")

	resp, err := newTestClient(t).GET(apiBase + "/community/posts")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))

	var feed struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &feed)
	ids := make([]string, 0, len(feed.Data))
	for _, p := range feed.Data {
		ids = append(ids, p.ID)
	}
	assert.Contains(t, ids, postID)
}

func TestCommentOnPost(t *testing.T) {
	author, _ := registerArtisan(t)
	commenter, _ := registerArtisan(t)
	postID := createCommunityPost(t, author, "Comment target")

	resp, err := commenter.POST(apiBase+"/community/posts/"+postID+"/comments", map[string]interface{}{
		"content": "Lovely work, which loom do you use?",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, testutil.ReadBody(t, resp))
	_ = resp.Body.Close()

	resp, err = newTestClient(t).GET(apiBase + "/community/posts/" + postID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))

	var post struct {
		Data struct {
			Comments int `json:"comments"`
			Thread   []struct {
				Content string `json:"content"`
			} `json:"thread"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &post)
	assert.Equal(t, 1, post.Data.Comments)
	require.Len(t, post.Data.Thread, 1)
	assert.Equal(t, "Lovely work, which loom do you use?", post.Data.Thread[0].Content)
}

func TestLikeUnlikePost(t *testing.T) {
	author, _ := registerArtisan(t)
	liker, _ := registerArtisan(t)
	postID := createCommunityPost(t, author, "Like target")

	resp, err := liker.POST(apiBase+"/community/posts/"+postID+"/like", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))

	// A second like from the same artisan is rejected.
	resp, err = liker.POST(apiBase+"/community/posts/"+postID+"/like", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, testutil.ReadBody(t, resp))

	resp, err = newTestClient(t).GET(apiBase + "/community/posts/" + postID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var post struct {
		Data struct {
			Likes int `json:"likes"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &post)
	assert.Equal(t, 1, post.Data.Likes)

	resp, err = liker.DELETE(apiBase + "/community/posts/" + postID + "/like")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))

	// Removing a like that is not there is rejected.
	resp, err = liker.DELETE(apiBase + "/community/posts/" + postID + "/like")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, testutil.ReadBody(t, resp))

	resp, err = newTestClient(t).GET(apiBase + "/community/posts/" + postID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.DecodeJSON(t, resp, &post)
	assert.Zero(t, post.Data.Likes)
}

func TestDeleteCommunityPost(t *testing.T) {
	author, _ := registerArtisan(t)
	stranger, _ := registerArtisan(t)
	postID := createCommunityPost(t, author, "Delete target")

	resp, err := stranger.DELETE(apiBase + "/community/posts/" + postID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, testutil.ReadBody(t, resp))

	resp, err = author.DELETE(apiBase + "/community/posts/" + postID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))

	resp, err = newTestClient(t).GET(apiBase + "/community/posts/" + postID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, testutil.ReadBody(t, resp))
}
