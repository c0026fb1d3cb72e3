package domain

import (
	"encoding/json"
	"time"
)

// InsightType categorizes an AI insight record.
type InsightType string

// Insight types.
const (
	InsightTypeStorytelling InsightType = "storytelling"
	InsightTypePricing      InsightType = "pricing"
	InsightTypeBrand        InsightType = "brand"
	InsightTypeCompetition  InsightType = "competition"
)

// IsValid checks if the insight type is one of the known values.
func (t InsightType) IsValid() bool {
	switch t {
	case InsightTypeStorytelling, InsightTypePricing, InsightTypeBrand, InsightTypeCompetition:
		return true
	}
	return false
}

// AIInsight records one generation request and its output, so artisans can
// revisit previous suggestions. Input and output are stored as raw JSON.
type AIInsight struct {
	ID         string          `json:"id"`
	ArtisanID  string          `json:"artisan_id"`
	Type       InsightType     `json:"type"`
	InputRef   json.RawMessage `json:"input_ref"`
	Output     json.RawMessage `json:"output"`
	Confidence float64         `json:"confidence"`
	CreatedAt  time.Time       `json:"created_at"`
}

// CompetitionAnalysis is a stored market/competitor analysis.
type CompetitionAnalysis struct {
	ID              string    `json:"id"`
	ArtisanID       string    `json:"artisan_id"`
	CompetitorName  string    `json:"competitor_name"`
	CompetitorURL   string    `json:"competitor_url,omitempty"`
	AnalysisType    string    `json:"analysis_type"`
	Insights        string    `json:"insights"`
	Recommendations string    `json:"recommendations"`
	CreatedAt       time.Time `json:"created_at"`
}
