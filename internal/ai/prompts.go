package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hastkala/marketplace/internal/domain"
)

// StoryPromptData feeds the storytelling prompt.
type StoryPromptData struct {
	ArtisanName        string
	CraftType          string
	ProductName        string
	ProductDescription string
	ArtisanBio         string
	Location           string
	TemplateType       domain.StoryType
}

func buildStoryPrompt(d StoryPromptData) string {
	return fmt.Sprintf(`You are an expert storytelling assistant for local artisans. Create compelling, authentic stories that connect with customers emotionally.

Artisan: %s
Craft Type: %s
Product: %s
Description: %s
Location: %s
Bio: %s

Create a %s story that:
1. Highlights the artisan's unique skills and heritage
2. Explains the traditional techniques used
3. Connects the product to cultural significance
4. Appeals to modern customers while respecting tradition
5. Is engaging and shareable on social media

Format the response as JSON with:
{
  "title": "Story title",
  "content": "Full story content",
  "socialMediaCaption": "Short caption for social media",
  "hashtags": ["relevant", "hashtags"],
  "keyPoints": ["point1", "point2", "point3"]
}`,
		d.ArtisanName,
		d.CraftType,
		d.ProductName,
		d.ProductDescription,
		orDefault(d.Location, "Not specified"),
		orDefault(d.ArtisanBio, "Not provided"),
		d.TemplateType,
	)
}

// PricingPromptData feeds the pricing prompt.
type PricingPromptData struct {
	ProductName       string
	Description       string
	MaterialCost      float64
	LaborHours        float64
	ArtisanExperience int
	MarketCategory    string
	Location          string
}

func buildPricingPrompt(d PricingPromptData) string {
	return fmt.Sprintf(`You are a pricing expert for handmade crafts. Analyze the following product and suggest optimal pricing.

Product: %s
Description: %s
Material Cost: ₹%.2f
Labor Hours: %.1f hours
Artisan Experience: %d years
Market Category: %s
Location: %s

Consider:
1. Material costs and quality
2. Labor time and skill level
3. Market positioning
4. Regional pricing variations
5. Profit margins for sustainability
6. Competitive pricing

Format the response as JSON with:
{
  "suggestedRetailPrice": 0,
  "suggestedWholesalePrice": 0,
  "breakdown": {
    "materialCost": 0,
    "laborCost": 0,
    "overhead": 0,
    "profit": 0
  },
  "reasoning": "Explanation of pricing strategy",
  "marketPosition": "budget|mid-range|premium|luxury",
  "recommendations": ["tip1", "tip2", "tip3"]
}`,
		d.ProductName,
		d.Description,
		d.MaterialCost,
		d.LaborHours,
		d.ArtisanExperience,
		d.MarketCategory,
		d.Location,
	)
}

// BrandPromptData feeds the brand insights prompt.
type BrandPromptData struct {
	ArtisanName     string
	CraftType       string
	TargetAudience  string
	MarketPosition  string
	CurrentElements map[string]string
}

func buildBrandPrompt(d BrandPromptData) string {
	elements, _ := json.Marshal(d.CurrentElements)
	if d.CurrentElements == nil {
		elements = []byte("{}")
	}
	return fmt.Sprintf(`You are a brand strategy expert for artisan businesses. Analyze and provide brand development insights.

Artisan: %s
Craft Type: %s
Target Audience: %s
Market Position: %s
Current Brand Elements: %s

Provide insights on:
1. Color palette recommendations
2. Typography suggestions
3. Brand voice and messaging
4. Visual identity elements
5. Brand positioning strategy

Format the response as JSON with:
{
  "colorPalette": ["#color1", "#color2", "#color3"],
  "typography": "Font recommendations",
  "brandVoice": "Voice description",
  "visualStyle": "Style recommendations",
  "tagline": "Suggested tagline",
  "recommendations": ["insight1", "insight2", "insight3"]
}`,
		d.ArtisanName,
		d.CraftType,
		d.TargetAudience,
		d.MarketPosition,
		elements,
	)
}

// CompetitionPromptData feeds the competition analysis prompt.
type CompetitionPromptData struct {
	ArtisanCraft     string
	Location         string
	TargetPriceRange string
	Competitors      []string
}

func buildCompetitionPrompt(d CompetitionPromptData) string {
	competitors, _ := json.Marshal(d.Competitors)
	if d.Competitors == nil {
		competitors = []byte("[]")
	}
	return fmt.Sprintf(`You are a market research expert. Analyze the competitive landscape for artisan crafts.

Craft Type: %s
Location: %s
Target Price Range: %s
Competitor Data: %s

Analyze:
1. Market positioning opportunities
2. Pricing strategies
3. Marketing approaches
4. Product differentiation
5. Market gaps and opportunities

Format the response as JSON with:
{
  "marketAnalysis": "Overall market insights",
  "pricingInsights": "Pricing strategy recommendations",
  "opportunities": ["opportunity1", "opportunity2"],
  "threats": ["threat1", "threat2"],
  "recommendations": ["recommendation1", "recommendation2"]
}`,
		d.ArtisanCraft,
		d.Location,
		d.TargetPriceRange,
		competitors,
	)
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
