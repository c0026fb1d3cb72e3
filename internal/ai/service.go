// Package ai provides generated artisan content: stories, pricing
// suggestions, brand insights and competition analyses, backed by an external
// text-completion service.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hastkala/marketplace/internal/auth"
	"github.com/hastkala/marketplace/internal/domain"
	"github.com/hastkala/marketplace/internal/pkg/ctxlog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Generation confidence scores by kind. Static for now; the original scoring
// was never model-derived either.
const (
	storyConfidence       = 0.85
	pricingConfidence     = 0.80
	brandConfidence       = 0.75
	competitionConfidence = 0.70
)

// TextGenerator produces completions for prompts.
type TextGenerator interface {
	Generate(ctx context.Context, kind, prompt string) (string, error)
	Enabled() bool
}

// ProfileReader loads artisan profiles to ground prompts (implemented by the
// identity module).
type ProfileReader interface {
	GetArtisan(ctx context.Context, id string) (*domain.Artisan, error)
}

// Service implements AI content business logic.
type Service struct {
	repo      Repository
	generator TextGenerator
	profiles  ProfileReader
	titleCase cases.Caser
}

// NewService creates a new AI service.
func NewService(repo Repository, generator TextGenerator, profiles ProfileReader) *Service {
	return &Service{
		repo:      repo,
		generator: generator,
		profiles:  profiles,
		titleCase: cases.Title(language.English),
	}
}

// GenerateStoryInput holds data for story generation.
type GenerateStoryInput struct {
	Type               domain.StoryType
	ProductName        string
	ProductDescription string
}

// GenerateStoryResult is returned by GenerateStory.
type GenerateStoryResult struct {
	Story      *domain.ArtisanStory `json:"story"`
	Caption    string               `json:"social_media_caption,omitempty"`
	Hashtags   []string             `json:"hashtags,omitempty"`
	KeyPoints  []string             `json:"key_points,omitempty"`
	Confidence float64              `json:"confidence"`
}

// GenerateStory builds a storytelling prompt from the caller's live profile,
// calls the model, and stores the story unpublished plus an insight record.
func (s *Service) GenerateStory(ctx context.Context, id auth.Identity, input GenerateStoryInput) (*GenerateStoryResult, error) {
	if err := auth.Authorize(id, domain.RoleUser, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if !input.Type.IsValid() {
		return nil, fmt.Errorf("%w: story type %q", ErrInvalidType, input.Type)
	}

	artisan, err := s.profiles.GetArtisan(ctx, id.ArtisanID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	prompt := buildStoryPrompt(StoryPromptData{
		ArtisanName:        artisan.Name,
		CraftType:          artisan.PrimaryCraft,
		ProductName:        input.ProductName,
		ProductDescription: input.ProductDescription,
		ArtisanBio:         artisan.Bio,
		Location:           artisan.Location,
		TemplateType:       input.Type,
	})

	text, err := s.generator.Generate(ctx, "storytelling", prompt)
	if err != nil {
		return nil, err
	}

	parsed := ParseStory(text)
	if parsed.Title == "" {
		parsed.Title = s.titleCase.String(string(input.Type)) + " Story"
	}

	story := &domain.ArtisanStory{
		ArtisanID: id.ArtisanID,
		Title:     parsed.Title,
		Content:   parsed.Content,
		Type:      input.Type,
	}
	if err := s.repo.CreateStory(ctx, story); err != nil {
		return nil, fmt.Errorf("store story: %w", err)
	}

	s.storeInsight(ctx, id.ArtisanID, domain.InsightTypeStorytelling, input, parsed, storyConfidence)

	return &GenerateStoryResult{
		Story:      story,
		Caption:    parsed.SocialMediaCaption,
		Hashtags:   parsed.Hashtags,
		KeyPoints:  parsed.KeyPoints,
		Confidence: storyConfidence,
	}, nil
}

// ListStories returns the caller's stories.
func (s *Service) ListStories(ctx context.Context, id auth.Identity, storyType domain.StoryType, limit, offset int) ([]domain.ArtisanStory, int, error) {
	if err := auth.Authorize(id, domain.RoleUser, domain.RoleAdmin); err != nil {
		return nil, 0, err
	}
	if storyType != "" && !storyType.IsValid() {
		return nil, 0, fmt.Errorf("%w: story type %q", ErrInvalidType, storyType)
	}
	return s.repo.ListStories(ctx, StoryFilter{
		ArtisanID: id.ArtisanID,
		Type:      storyType,
		Limit:     limit,
		Offset:    offset,
	})
}

// ListPublicStories lists an artisan's published public stories for the
// public directory. Implements the identity module's reader interface.
func (s *Service) ListPublicStories(ctx context.Context, artisanID string, storyType string, limit, offset int) ([]domain.ArtisanStory, int, error) {
	t := domain.StoryType(storyType)
	if storyType != "" && !t.IsValid() {
		return nil, 0, fmt.Errorf("%w: story type %q", ErrInvalidType, storyType)
	}
	return s.repo.ListStories(ctx, StoryFilter{
		ArtisanID:     artisanID,
		Type:          t,
		PublishedOnly: true,
		PublicOnly:    true,
		Limit:         limit,
		Offset:        offset,
	})
}

// UpdateStoryInput holds partial story updates.
type UpdateStoryInput struct {
	Title       *string
	Content     *string
	IsPublic    *bool
	IsPublished *bool
}

// UpdateStory applies a partial update to a caller-owned story.
func (s *Service) UpdateStory(ctx context.Context, id auth.Identity, storyID string, input UpdateStoryInput) (*domain.ArtisanStory, error) {
	story, err := s.repo.GetStoryByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if err := auth.CheckOwnership(id, story.ArtisanID); err != nil {
		return nil, err
	}

	if input.Title != nil {
		story.Title = *input.Title
	}
	if input.Content != nil {
		story.Content = *input.Content
	}
	if input.IsPublic != nil {
		story.IsPublic = *input.IsPublic
	}
	if input.IsPublished != nil {
		story.IsPublished = *input.IsPublished
	}

	if err := s.repo.UpdateStory(ctx, story); err != nil {
		return nil, fmt.Errorf("update story: %w", err)
	}
	return story, nil
}

// DeleteStory removes a caller-owned story.
func (s *Service) DeleteStory(ctx context.Context, id auth.Identity, storyID string) error {
	story, err := s.repo.GetStoryByID(ctx, storyID)
	if err != nil {
		return err
	}
	if err := auth.CheckOwnership(id, story.ArtisanID); err != nil {
		return err
	}
	return s.repo.DeleteStory(ctx, storyID)
}

// PricingInput holds data for pricing generation.
type PricingInput struct {
	ProductName    string
	Description    string
	MaterialCost   float64
	LaborHours     float64
	MarketCategory string
}

// PricingResult is returned by GeneratePricing.
type PricingResult struct {
	Suggestion PricingSuggestion `json:"suggestion"`
	Confidence float64           `json:"confidence"`
}

// GeneratePricing builds a pricing prompt, calls the model and parses the
// structured suggestion. Unparseable model output degrades to a neutral
// suggestion instead of failing.
func (s *Service) GeneratePricing(ctx context.Context, id auth.Identity, input PricingInput) (*PricingResult, error) {
	if err := auth.Authorize(id, domain.RoleUser, domain.RoleAdmin); err != nil {
		return nil, err
	}

	artisan, err := s.profiles.GetArtisan(ctx, id.ArtisanID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	prompt := buildPricingPrompt(PricingPromptData{
		ProductName:       input.ProductName,
		Description:       input.Description,
		MaterialCost:      input.MaterialCost,
		LaborHours:        input.LaborHours,
		ArtisanExperience: artisan.ExperienceYears,
		MarketCategory:    input.MarketCategory,
		Location:          artisan.Location,
	})

	text, err := s.generator.Generate(ctx, "pricing", prompt)
	if err != nil {
		return nil, err
	}

	suggestion := ParsePricing(text)
	s.storeInsight(ctx, id.ArtisanID, domain.InsightTypePricing, input, suggestion, pricingConfidence)

	return &PricingResult{Suggestion: suggestion, Confidence: pricingConfidence}, nil
}

// BrandInput holds data for brand insight generation.
type BrandInput struct {
	TargetAudience  string
	MarketPosition  string
	CurrentElements map[string]string
}

// BrandResult is returned by GenerateBrandInsights.
type BrandResult struct {
	Insights   json.RawMessage `json:"insights"`
	Confidence float64         `json:"confidence"`
}

// GenerateBrandInsights builds a brand prompt and stores the model's output.
func (s *Service) GenerateBrandInsights(ctx context.Context, id auth.Identity, input BrandInput) (*BrandResult, error) {
	if err := auth.Authorize(id, domain.RoleUser, domain.RoleAdmin); err != nil {
		return nil, err
	}

	artisan, err := s.profiles.GetArtisan(ctx, id.ArtisanID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	prompt := buildBrandPrompt(BrandPromptData{
		ArtisanName:     artisan.Name,
		CraftType:       artisan.PrimaryCraft,
		TargetAudience:  input.TargetAudience,
		MarketPosition:  input.MarketPosition,
		CurrentElements: input.CurrentElements,
	})

	text, err := s.generator.Generate(ctx, "brand", prompt)
	if err != nil {
		return nil, err
	}

	output := rawOrWrapped(text)
	s.storeInsight(ctx, id.ArtisanID, domain.InsightTypeBrand, input, json.RawMessage(output), brandConfidence)

	return &BrandResult{Insights: output, Confidence: brandConfidence}, nil
}

// CompetitionInput holds data for competition analysis.
type CompetitionInput struct {
	CompetitorName   string
	CompetitorURL    string
	AnalysisType     string
	TargetPriceRange string
}

// competitionOutput mirrors the JSON shape the prompt asks for.
type competitionOutput struct {
	MarketAnalysis  string   `json:"marketAnalysis"`
	PricingInsights string   `json:"pricingInsights"`
	Opportunities   []string `json:"opportunities"`
	Threats         []string `json:"threats"`
	Recommendations []string `json:"recommendations"`
}

// AnalyzeCompetition builds a competition prompt, stores the analysis row and
// an insight record.
func (s *Service) AnalyzeCompetition(ctx context.Context, id auth.Identity, input CompetitionInput) (*domain.CompetitionAnalysis, error) {
	if err := auth.Authorize(id, domain.RoleUser, domain.RoleAdmin); err != nil {
		return nil, err
	}

	artisan, err := s.profiles.GetArtisan(ctx, id.ArtisanID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	prompt := buildCompetitionPrompt(CompetitionPromptData{
		ArtisanCraft:     artisan.PrimaryCraft,
		Location:         artisan.Location,
		TargetPriceRange: input.TargetPriceRange,
		Competitors:      []string{input.CompetitorName},
	})

	text, err := s.generator.Generate(ctx, "competition", prompt)
	if err != nil {
		return nil, err
	}

	analysis := &domain.CompetitionAnalysis{
		ArtisanID:      id.ArtisanID,
		CompetitorName: input.CompetitorName,
		CompetitorURL:  input.CompetitorURL,
		AnalysisType:   input.AnalysisType,
	}
	if raw, ok := ExtractJSON(text); ok {
		var out competitionOutput
		if err := json.Unmarshal(raw, &out); err == nil {
			analysis.Insights = strings.TrimSpace(out.MarketAnalysis + "\n\n" + out.PricingInsights)
			analysis.Recommendations = strings.Join(out.Recommendations, "\n")
		}
	}
	if analysis.Insights == "" {
		analysis.Insights = strings.TrimSpace(text)
	}

	if err := s.repo.CreateCompetitionAnalysis(ctx, analysis); err != nil {
		return nil, fmt.Errorf("store competition analysis: %w", err)
	}

	s.storeInsight(ctx, id.ArtisanID, domain.InsightTypeCompetition, input, json.RawMessage(rawOrWrapped(text)), competitionConfidence)

	return analysis, nil
}

// ListInsights returns the caller's stored insights.
func (s *Service) ListInsights(ctx context.Context, id auth.Identity, insightType domain.InsightType, limit, offset int) ([]domain.AIInsight, int, error) {
	if err := auth.Authorize(id, domain.RoleUser, domain.RoleAdmin); err != nil {
		return nil, 0, err
	}
	if insightType != "" && !insightType.IsValid() {
		return nil, 0, fmt.Errorf("%w: insight type %q", ErrInvalidType, insightType)
	}
	return s.repo.ListInsights(ctx, InsightFilter{
		ArtisanID: id.ArtisanID,
		Type:      insightType,
		Limit:     limit,
		Offset:    offset,
	})
}

// Enabled reports whether generation endpoints are usable.
func (s *Service) Enabled() bool {
	return s.generator.Enabled()
}

// storeInsight persists the generation record. A failed insert is logged but
// never fails the generation itself.
func (s *Service) storeInsight(ctx context.Context, artisanID string, t domain.InsightType, input, output interface{}, confidence float64) {
	inputRef, err := json.Marshal(input)
	if err != nil {
		return
	}
	outputRaw, err := json.Marshal(output)
	if err != nil {
		return
	}
	insight := &domain.AIInsight{
		ArtisanID:  artisanID,
		Type:       t,
		InputRef:   inputRef,
		Output:     outputRaw,
		Confidence: confidence,
	}
	if err := s.repo.CreateInsight(ctx, insight); err != nil {
		ctxlog.FromContext(ctx).Error("failed to store insight", "type", t, "error", err)
	}
}

// rawOrWrapped returns the extracted JSON block, or the text wrapped in a
// {"text": ...} object when no block parses.
func rawOrWrapped(text string) json.RawMessage {
	if raw, ok := ExtractJSON(text); ok {
		return raw
	}
	wrapped, _ := json.Marshal(map[string]string{"text": text})
	return wrapped
}
