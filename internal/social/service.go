// Package social tracks artisan social media presence: linked accounts and
// post engagement metrics.
package social

import (
	"context"
	"fmt"
	"time"

	"github.com/hastkala/marketplace/internal/auth"
	"github.com/hastkala/marketplace/internal/domain"
)

// Service implements social tracking business logic.
type Service struct {
	repo Repository
}

// NewService creates a new social service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListAccounts returns the caller's linked social accounts.
func (s *Service) ListAccounts(ctx context.Context, id auth.Identity) ([]domain.SocialAccount, error) {
	if err := auth.Authorize(id, domain.RoleUser, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.repo.ListAccounts(ctx, id.ArtisanID)
}

// ListPosts returns the caller's tracked posts.
func (s *Service) ListPosts(ctx context.Context, id auth.Identity, filter PostFilter) ([]domain.SocialPost, int, error) {
	if err := auth.Authorize(id, domain.RoleUser, domain.RoleAdmin); err != nil {
		return nil, 0, err
	}
	filter.ArtisanID = id.ArtisanID
	return s.repo.ListPosts(ctx, filter)
}

// CreatePostInput holds data for tracking a social post.
type CreatePostInput struct {
	Platform string
	Caption  string
	MediaURL string
	Metrics  domain.SocialPostMetrics
	PostedAt *time.Time
}

// CreatePost records a tracked social post for the caller.
func (s *Service) CreatePost(ctx context.Context, id auth.Identity, input CreatePostInput) (*domain.SocialPost, error) {
	if err := auth.Authorize(id, domain.RoleUser, domain.RoleAdmin); err != nil {
		return nil, err
	}

	post := &domain.SocialPost{
		ArtisanID: id.ArtisanID,
		Platform:  input.Platform,
		Caption:   input.Caption,
		MediaURL:  input.MediaURL,
		Metrics:   input.Metrics,
		PostedAt:  input.PostedAt,
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create social post: %w", err)
	}
	return post, nil
}
