//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/hastkala/marketplace/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateStory(t *testing.T) {
	client, artisanID := registerArtisan(t)

	setAIResponse(`{"title": "The Indigo Thread", "content": "Every scarf begins in the vat.", "socialMediaCaption": "From vat to loom", "hashtags": ["#indigo", "#handmade"], "keyPoints": ["natural dye", "hand woven"]}`)

	resp, err := client.POST(apiBase+"/ai/story/generate", map[string]interface{}{
		"type":                "product",
		"product_name":        "Indigo scarf",
		"product_description": "Naturally dyed cotton scarf",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, testutil.ReadBody(t, resp))

	var generated struct {
		Data struct {
			Story struct {
				ID          string `json:"id"`
				ArtisanID   string `json:"artisan_id"`
				Title       string `json:"title"`
				Content     string `json:"content"`
				Type        string `json:"type"`
				IsPublished bool   `json:"is_published"`
			} `json:"story"`
			Caption    string   `json:"social_media_caption"`
			Hashtags   []string `json:"hashtags"`
			Confidence float64  `json:"confidence"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &generated)
	assert.Equal(t, artisanID, generated.Data.Story.ArtisanID)
	assert.Equal(t, "The Indigo Thread", generated.Data.Story.Title)
	assert.Equal(t, "Every scarf begins in the vat.", generated.Data.Story.Content)
	assert.Equal(t, "product", generated.Data.Story.Type)
	assert.False(t, generated.Data.Story.IsPublished, "generated stories start unpublished")
	assert.Equal(t, "From vat to loom", generated.Data.Caption)
	assert.Equal(t, []string{"#indigo", "#handmade"}, generated.Data.Hashtags)
	assert.InDelta(t, 0.85, generated.Data.Confidence, 0.001)

	// The story appears in the caller's story list.
	resp, err = client.GET(apiBase + "/ai/stories")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))
	var stories struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &stories)
	require.Len(t, stories.Data, 1)
	assert.Equal(t, generated.Data.Story.ID, stories.Data[0].ID)

	// A generation insight was recorded.
	resp, err = client.GET(apiBase + "/ai/insights")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))
	var insights struct {
		Data []struct {
			Type       string  `json:"type"`
			Confidence float64 `json:"confidence"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &insights)
	require.Len(t, insights.Data, 1)
	assert.Equal(t, "storytelling", insights.Data[0].Type)
}

func TestGenerateStoryUnparseableModelOutput(t *testing.T) {
	client, _ := registerArtisan(t)

	setAIResponse("Once upon a time in Jaipur, a weaver sat at her loom.")

	resp, err := client.POST(apiBase+"/ai/story/generate", map[string]interface{}{
		"type": "craft",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, testutil.ReadBody(t, resp))

	var generated struct {
		Data struct {
			Story struct {
				Title   string `json:"title"`
				Content string `json:"content"`
			} `json:"story"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &generated)
	assert.Equal(t, "Craft Story", generated.Data.Story.Title)
	assert.Equal(t, "Once upon a time in Jaipur, a weaver sat at her loom.", generated.Data.Story.Content)
}

func TestGenerateStoryInvalidType(t *testing.T) {
	client, _ := registerArtisan(t)

	resp, err := client.POST(apiBase+"/ai/story/generate", map[string]interface{}{
		"type": "saga",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, testutil.ReadBody(t, resp))
}

func TestUpdateAndPublishStory(t *testing.T) {
	owner, ownerID := registerArtisan(t)
	stranger, _ := registerArtisan(t)

	setAIResponse(`{"title": "Draft", "content": "Draft body"}`)
	resp, err := owner.POST(apiBase+"/ai/story/generate", map[string]interface{}{"type": "personal"})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var generated struct {
		Data struct {
			Story struct {
				ID string `json:"id"`
			} `json:"story"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &generated)
	storyID := generated.Data.Story.ID

	// A stranger cannot see or touch it.
	resp, err = stranger.PUT(apiBase+"/ai/stories/"+storyID, map[string]interface{}{"title": "Hijacked"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, testutil.ReadBody(t, resp))

	// Publishing makes it visible on the public artisan page.
	resp, err = owner.PUT(apiBase+"/ai/stories/"+storyID, map[string]interface{}{
		"title":        "My Journey",
		"is_public":    true,
		"is_published": true,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))
	var updated struct {
		Data struct {
			Title       string `json:"title"`
			IsPublished bool   `json:"is_published"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &updated)
	assert.Equal(t, "My Journey", updated.Data.Title)
	assert.True(t, updated.Data.IsPublished)

	resp, err = newTestClient(t).GET(apiBase + "/artisans/" + ownerID + "/stories")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))
	var public struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &public)
	require.Len(t, public.Data, 1)
	assert.Equal(t, storyID, public.Data[0].ID)

	// Deleting removes it.
	resp, err = owner.DELETE(apiBase + "/ai/stories/" + storyID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))

	resp, err = newTestClient(t).GET(apiBase + "/artisans/" + ownerID + "/stories")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.DecodeJSON(t, resp, &public)
	assert.Empty(t, public.Data)
}

func TestGeneratePricing(t *testing.T) {
	client, _ := registerArtisan(t)

	setAIResponse(`{"suggestedRetailPrice": 2500, "suggestedWholesalePrice": 1600, "breakdown": {"materialCost": 600, "laborCost": 900, "overhead": 300, "profit": 700}, "reasoning": "Premium natural dye work", "marketPosition": "premium", "recommendations": ["Bundle with care instructions"]}`)

	resp, err := client.POST(apiBase+"/ai/pricing/generate", map[string]interface{}{
		"product_name":    "Indigo scarf",
		"description":     "Hand dyed cotton",
		"material_cost":   600,
		"labor_hours":     6,
		"market_category": "textiles",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))

	var result struct {
		Data struct {
			Suggestion struct {
				SuggestedRetailPrice    float64 `json:"suggestedRetailPrice"`
				SuggestedWholesalePrice float64 `json:"suggestedWholesalePrice"`
				MarketPosition          string  `json:"marketPosition"`
			} `json:"suggestion"`
			Confidence float64 `json:"confidence"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, 2500.0, result.Data.Suggestion.SuggestedRetailPrice)
	assert.Equal(t, 1600.0, result.Data.Suggestion.SuggestedWholesalePrice)
	assert.Equal(t, "premium", result.Data.Suggestion.MarketPosition)
	assert.InDelta(t, 0.80, result.Data.Confidence, 0.001)
}

func TestGenerateBrandInsights(t *testing.T) {
	client, _ := registerArtisan(t)

	setAIResponse(`{"brandPersonality": "earthy and authentic", "colorPalette": ["indigo", "terracotta"]}`)

	resp, err := client.POST(apiBase+"/ai/brand/insights", map[string]interface{}{
		"target_audience": "urban design lovers",
		"market_position": "premium",
		"current_elements": map[string]string{
			"logo": "hand drawn loom",
		},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))

	var result struct {
		Data struct {
			Insights struct {
				BrandPersonality string `json:"brandPersonality"`
			} `json:"insights"`
			Confidence float64 `json:"confidence"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &result)
	assert.Equal(t, "earthy and authentic", result.Data.Insights.BrandPersonality)
	assert.InDelta(t, 0.75, result.Data.Confidence, 0.001)
}

func TestAnalyzeCompetition(t *testing.T) {
	client, _ := registerArtisan(t)

	setAIResponse(`{"marketAnalysis": "Crowded mid-range segment.", "pricingInsights": "Competitors undercut on volume.", "opportunities": ["story-driven branding"], "threats": ["machine made imitations"], "recommendations": ["Lead with provenance", "Show the process"]}`)

	resp, err := client.POST(apiBase+"/ai/competition/analyze", map[string]interface{}{
		"competitor_name":    "MassLoom Co",
		"competitor_url":     "https://massloom.example.com",
		"analysis_type":      "pricing",
		"target_price_range": "1500-3000 INR",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, testutil.ReadBody(t, resp))

	var analysis struct {
		Data struct {
			ID              string `json:"id"`
			CompetitorName  string `json:"competitor_name"`
			Insights        string `json:"insights"`
			Recommendations string `json:"recommendations"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &analysis)
	assert.Equal(t, "MassLoom Co", analysis.Data.CompetitorName)
	assert.Contains(t, analysis.Data.Insights, "Crowded mid-range segment.")
	assert.Contains(t, analysis.Data.Recommendations, "Lead with provenance")
}

func TestInsightsScopedToCaller(t *testing.T) {
	first, _ := registerArtisan(t)
	second, _ := registerArtisan(t)

	setAIResponse(`{"title": "T", "content": "C"}`)
	resp, err := first.POST(apiBase+"/ai/story/generate", map[string]interface{}{"type": "brand"})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = second.GET(apiBase + "/ai/insights")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))
	var insights struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &insights)
	assert.Empty(t, insights.Data)
}
