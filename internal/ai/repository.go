package ai

import (
	"context"

	"github.com/hastkala/marketplace/internal/domain"
)

// Repository defines the interface for AI content data operations.
type Repository interface {
	CreateStory(ctx context.Context, story *domain.ArtisanStory) error
	GetStoryByID(ctx context.Context, id string) (*domain.ArtisanStory, error)
	ListStories(ctx context.Context, filter StoryFilter) ([]domain.ArtisanStory, int, error)
	UpdateStory(ctx context.Context, story *domain.ArtisanStory) error
	DeleteStory(ctx context.Context, id string) error
	CreateInsight(ctx context.Context, insight *domain.AIInsight) error
	ListInsights(ctx context.Context, filter InsightFilter) ([]domain.AIInsight, int, error)
	CreateCompetitionAnalysis(ctx context.Context, analysis *domain.CompetitionAnalysis) error
}

// StoryFilter represents filter criteria for stories.
type StoryFilter struct {
	ArtisanID     string
	Type          domain.StoryType
	PublishedOnly bool
	PublicOnly    bool
	Limit         int
	Offset        int
}

// InsightFilter represents filter criteria for stored insights.
type InsightFilter struct {
	ArtisanID string
	Type      domain.InsightType
	Limit     int
	Offset    int
}
