package domain

import "time"

// CommunityPostType categorizes a community post.
type CommunityPostType string

// Community post types.
const (
	PostTypeShowcase CommunityPostType = "showcase"
	PostTypeQuestion CommunityPostType = "question"
	PostTypeTip      CommunityPostType = "tip"
	PostTypeEvent    CommunityPostType = "event"
)

// IsValid checks if the post type is one of the known values.
func (t CommunityPostType) IsValid() bool {
	switch t {
	case PostTypeShowcase, PostTypeQuestion, PostTypeTip, PostTypeEvent:
		return true
	}
	return false
}

// CommunityPost is a post in the artisan community feed.
// Likes and Comments are denormalized counters maintained by the repository.
type CommunityPost struct {
	ID        string             `json:"id"`
	ArtisanID string             `json:"artisan_id"`
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	Type      CommunityPostType  `json:"type"`
	IsPublic  bool               `json:"is_public"`
	Likes     int                `json:"likes"`
	Comments  int                `json:"comments"`
	Artisan   *ArtisanSummary    `json:"artisan,omitempty"`
	Thread    []CommunityComment `json:"thread,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// CommunityComment is a comment on a community post.
type CommunityComment struct {
	ID        string          `json:"id"`
	PostID    string          `json:"post_id"`
	ArtisanID string          `json:"artisan_id"`
	Content   string          `json:"content"`
	Artisan   *ArtisanSummary `json:"artisan,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
