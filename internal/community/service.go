// Package community provides the artisan community feed: posts, comments and
// likes.
package community

import (
	"context"
	"fmt"

	"github.com/hastkala/marketplace/internal/auth"
	"github.com/hastkala/marketplace/internal/domain"
)

// Service implements community business logic.
type Service struct {
	repo Repository
}

// NewService creates a new community service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreatePostInput holds data for creating a community post.
type CreatePostInput struct {
	Title    string
	Content  string
	Type     domain.CommunityPostType
	IsPublic *bool
}

// CreatePost creates a post owned by the caller. Posts default to public.
func (s *Service) CreatePost(ctx context.Context, id auth.Identity, input CreatePostInput) (*domain.CommunityPost, error) {
	if err := auth.Authorize(id, domain.RoleUser, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if !input.Type.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, input.Type)
	}

	post := &domain.CommunityPost{
		ArtisanID: id.ArtisanID,
		Title:     input.Title,
		Content:   input.Content,
		Type:      input.Type,
		IsPublic:  true,
	}
	if input.IsPublic != nil {
		post.IsPublic = *input.IsPublic
	}

	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// ListPosts returns the public community feed.
func (s *Service) ListPosts(ctx context.Context, filter PostFilter) ([]domain.CommunityPost, int, error) {
	if filter.Type != "" && !filter.Type.IsValid() {
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidType, filter.Type)
	}
	filter.PublicOnly = true
	return s.repo.ListPosts(ctx, filter)
}

// GetPost returns a single post with its comment thread. Private posts are
// visible only to their owner or an admin.
func (s *Service) GetPost(ctx context.Context, id auth.Identity, postID string) (*domain.CommunityPost, error) {
	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.IsPublic {
		if err := auth.CheckOwnership(id, post.ArtisanID); err != nil {
			return nil, ErrPostNotFound
		}
	}
	return post, nil
}

// DeletePost removes a caller-owned post.
func (s *Service) DeletePost(ctx context.Context, id auth.Identity, postID string) error {
	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if err := auth.CheckOwnership(id, post.ArtisanID); err != nil {
		return err
	}
	return s.repo.DeletePost(ctx, postID)
}

// AddComment attaches a comment to a post and bumps the post's comment
// counter.
func (s *Service) AddComment(ctx context.Context, id auth.Identity, postID, content string) (*domain.CommunityComment, error) {
	if err := auth.Authorize(id, domain.RoleUser, domain.RoleAdmin); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &domain.CommunityComment{
		PostID:    postID,
		ArtisanID: id.ArtisanID,
		Content:   content,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// LikePost records a like for the caller. A second like of the same post
// yields ErrAlreadyLiked.
func (s *Service) LikePost(ctx context.Context, id auth.Identity, postID string) error {
	if err := auth.Authorize(id, domain.RoleUser, domain.RoleAdmin); err != nil {
		return err
	}
	if _, err := s.repo.GetPostByID(ctx, postID); err != nil {
		return err
	}
	return s.repo.LikePost(ctx, postID, id.ArtisanID)
}

// UnlikePost removes the caller's like. Unliking a post that was never liked
// yields ErrNotLiked.
func (s *Service) UnlikePost(ctx context.Context, id auth.Identity, postID string) error {
	if err := auth.Authorize(id, domain.RoleUser, domain.RoleAdmin); err != nil {
		return err
	}
	if _, err := s.repo.GetPostByID(ctx, postID); err != nil {
		return err
	}
	return s.repo.UnlikePost(ctx, postID, id.ArtisanID)
}
