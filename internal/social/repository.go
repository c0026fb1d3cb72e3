package social

import (
	"context"

	"github.com/hastkala/marketplace/internal/domain"
)

// Repository defines the interface for social tracking data operations.
type Repository interface {
	ListAccounts(ctx context.Context, artisanID string) ([]domain.SocialAccount, error)
	CreatePost(ctx context.Context, post *domain.SocialPost) error
	ListPosts(ctx context.Context, filter PostFilter) ([]domain.SocialPost, int, error)
}

// PostFilter represents filter criteria for tracked social posts.
type PostFilter struct {
	ArtisanID string
	Platform  string
	Limit     int
	Offset    int
}
