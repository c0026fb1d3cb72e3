package community

import (
	"context"
	"testing"

	"github.com/hastkala/marketplace/internal/auth"
	"github.com/hastkala/marketplace/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRepository implements Repository for testing.
type mockRepository struct {
	posts map[string]*domain.CommunityPost
	likes map[string]map[string]bool
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		posts: make(map[string]*domain.CommunityPost),
		likes: make(map[string]map[string]bool),
	}
}

func (m *mockRepository) CreatePost(_ context.Context, post *domain.CommunityPost) error {
	post.ID = "test-post-id"
	m.posts[post.ID] = post
	return nil
}

func (m *mockRepository) GetPostByID(_ context.Context, id string) (*domain.CommunityPost, error) {
	if p, ok := m.posts[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, ErrPostNotFound
}

func (m *mockRepository) ListPosts(_ context.Context, filter PostFilter) ([]domain.CommunityPost, int, error) {
	out := make([]domain.CommunityPost, 0)
	for _, p := range m.posts {
		if filter.PublicOnly && !p.IsPublic {
			continue
		}
		if filter.Type != "" && p.Type != filter.Type {
			continue
		}
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (m *mockRepository) DeletePost(_ context.Context, id string) error {
	if _, ok := m.posts[id]; !ok {
		return ErrPostNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *mockRepository) CreateComment(_ context.Context, comment *domain.CommunityComment) error {
	comment.ID = "test-comment-id"
	if p, ok := m.posts[comment.PostID]; ok {
		p.Comments++
	}
	return nil
}

func (m *mockRepository) LikePost(_ context.Context, postID, artisanID string) error {
	if m.likes[postID] == nil {
		m.likes[postID] = make(map[string]bool)
	}
	if m.likes[postID][artisanID] {
		return ErrAlreadyLiked
	}
	m.likes[postID][artisanID] = true
	m.posts[postID].Likes++
	return nil
}

func (m *mockRepository) UnlikePost(_ context.Context, postID, artisanID string) error {
	if !m.likes[postID][artisanID] {
		return ErrNotLiked
	}
	delete(m.likes[postID], artisanID)
	m.posts[postID].Likes--
	return nil
}

func caller() auth.Identity {
	return auth.Identity{ArtisanID: "artisan-1", Role: domain.RoleUser}
}

func other() auth.Identity {
	return auth.Identity{ArtisanID: "artisan-2", Role: domain.RoleUser}
}

func TestCreatePost_DefaultsToPublic(t *testing.T) {
	service := NewService(newMockRepository())

	post, err := service.CreatePost(context.Background(), caller(), CreatePostInput{
		Title:   "Showcasing my new batch",
		Content: "Fresh out of the kiln.",
		Type:    domain.PostTypeShowcase,
	})

	require.NoError(t, err)
	assert.True(t, post.IsPublic)
	assert.Equal(t, "artisan-1", post.ArtisanID)
}

func TestCreatePost_RejectsUnknownType(t *testing.T) {
	service := NewService(newMockRepository())

	_, err := service.CreatePost(context.Background(), caller(), CreatePostInput{
		Title:   "t",
		Content: "c",
		Type:    "announcement",
	})

	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestGetPost_PrivateHiddenFromOthers(t *testing.T) {
	repo := newMockRepository()
	repo.posts["p1"] = &domain.CommunityPost{ID: "p1", ArtisanID: "artisan-1", IsPublic: false}
	service := NewService(repo)

	_, err := service.GetPost(context.Background(), caller(), "p1")
	require.NoError(t, err)

	_, err = service.GetPost(context.Background(), other(), "p1")
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = service.GetPost(context.Background(), auth.Identity{}, "p1")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestDeletePost_OwnershipEnforced(t *testing.T) {
	repo := newMockRepository()
	repo.posts["p1"] = &domain.CommunityPost{ID: "p1", ArtisanID: "artisan-1", IsPublic: true}
	service := NewService(repo)

	err := service.DeletePost(context.Background(), other(), "p1")
	assert.ErrorIs(t, err, auth.ErrNotOwner)

	err = service.DeletePost(context.Background(), caller(), "p1")
	require.NoError(t, err)
	assert.Empty(t, repo.posts)
}

func TestAddComment_IncrementsCounter(t *testing.T) {
	repo := newMockRepository()
	repo.posts["p1"] = &domain.CommunityPost{ID: "p1", ArtisanID: "artisan-1", IsPublic: true}
	service := NewService(repo)

	comment, err := service.AddComment(context.Background(), other(), "p1", "Beautiful work!")

	require.NoError(t, err)
	assert.Equal(t, "artisan-2", comment.ArtisanID)
	assert.Equal(t, 1, repo.posts["p1"].Comments)
}

func TestAddComment_MissingPost(t *testing.T) {
	service := NewService(newMockRepository())

	_, err := service.AddComment(context.Background(), caller(), "missing", "hello")

	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestLikePost_OncePerArtisan(t *testing.T) {
	repo := newMockRepository()
	repo.posts["p1"] = &domain.CommunityPost{ID: "p1", ArtisanID: "artisan-1", IsPublic: true}
	service := NewService(repo)

	require.NoError(t, service.LikePost(context.Background(), other(), "p1"))
	assert.Equal(t, 1, repo.posts["p1"].Likes)

	err := service.LikePost(context.Background(), other(), "p1")
	assert.ErrorIs(t, err, ErrAlreadyLiked)
	assert.Equal(t, 1, repo.posts["p1"].Likes)
}

func TestUnlikePost_RequiresExistingLike(t *testing.T) {
	repo := newMockRepository()
	repo.posts["p1"] = &domain.CommunityPost{ID: "p1", ArtisanID: "artisan-1", IsPublic: true}
	service := NewService(repo)

	err := service.UnlikePost(context.Background(), other(), "p1")
	assert.ErrorIs(t, err, ErrNotLiked)

	require.NoError(t, service.LikePost(context.Background(), other(), "p1"))
	require.NoError(t, service.UnlikePost(context.Background(), other(), "p1"))
	assert.Equal(t, 0, repo.posts["p1"].Likes)
}
