package ai

import (
	"encoding/json"
	"strings"
)

// ExtractJSON returns the first-to-last-brace slice of text if it parses as a
// JSON object. Models often wrap the object in prose or markdown fences; the
// greedy cut ignores both.
func ExtractJSON(text string) (json.RawMessage, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, false
	}

	candidate := []byte(text[start : end+1])
	var probe map[string]interface{}
	if err := json.Unmarshal(candidate, &probe); err != nil {
		return nil, false
	}
	return candidate, true
}

// PriceBreakdown itemizes a suggested price.
type PriceBreakdown struct {
	MaterialCost float64 `json:"materialCost"`
	LaborCost    float64 `json:"laborCost"`
	Overhead     float64 `json:"overhead"`
	Profit       float64 `json:"profit"`
}

// PricingSuggestion is the structured pricing advice returned to clients.
type PricingSuggestion struct {
	SuggestedRetailPrice    float64        `json:"suggestedRetailPrice"`
	SuggestedWholesalePrice float64        `json:"suggestedWholesalePrice"`
	Breakdown               PriceBreakdown `json:"breakdown"`
	Reasoning               string         `json:"reasoning"`
	MarketPosition          string         `json:"marketPosition"`
	Recommendations         []string       `json:"recommendations"`
}

// ParsePricing extracts a pricing suggestion from model text. Unparseable
// text yields a neutral mid-range suggestion rather than an error, so a
// flaky model never breaks the endpoint.
func ParsePricing(text string) PricingSuggestion {
	if raw, ok := ExtractJSON(text); ok {
		var suggestion PricingSuggestion
		if err := json.Unmarshal(raw, &suggestion); err == nil {
			if suggestion.Recommendations == nil {
				suggestion.Recommendations = []string{}
			}
			return suggestion
		}
	}

	return PricingSuggestion{
		Reasoning:       "Unable to parse AI response",
		MarketPosition:  "mid-range",
		Recommendations: []string{},
	}
}

// StoryContent is the structured story returned by the model.
type StoryContent struct {
	Title              string   `json:"title"`
	Content            string   `json:"content"`
	SocialMediaCaption string   `json:"socialMediaCaption,omitempty"`
	Hashtags           []string `json:"hashtags,omitempty"`
	KeyPoints          []string `json:"keyPoints,omitempty"`
}

// ParseStory extracts a story from model text. When the model ignored the
// JSON instruction the whole text becomes the content and the title is left
// empty for the caller to fill.
func ParseStory(text string) StoryContent {
	if raw, ok := ExtractJSON(text); ok {
		var story StoryContent
		if err := json.Unmarshal(raw, &story); err == nil && story.Content != "" {
			return story
		}
	}
	return StoryContent{Content: strings.TrimSpace(text)}
}
