package community

import (
	"context"

	"github.com/hastkala/marketplace/internal/domain"
)

// Repository defines the interface for community data operations.
// LikePost and UnlikePost maintain the denormalized like counter together
// with the per-artisan like row in one transaction.
type Repository interface {
	CreatePost(ctx context.Context, post *domain.CommunityPost) error
	GetPostByID(ctx context.Context, id string) (*domain.CommunityPost, error)
	ListPosts(ctx context.Context, filter PostFilter) ([]domain.CommunityPost, int, error)
	DeletePost(ctx context.Context, id string) error
	CreateComment(ctx context.Context, comment *domain.CommunityComment) error
	LikePost(ctx context.Context, postID, artisanID string) error
	UnlikePost(ctx context.Context, postID, artisanID string) error
}

// PostFilter represents filter criteria for the community feed.
type PostFilter struct {
	Type       domain.CommunityPostType
	Search     string
	PublicOnly bool
	Limit      int
	Offset     int
}
