package domain

import "time"

// StoryType selects the storytelling template.
type StoryType string

// Story template types.
const (
	StoryTypeProduct  StoryType = "product"
	StoryTypeBrand    StoryType = "brand"
	StoryTypePersonal StoryType = "personal"
	StoryTypeCraft    StoryType = "craft"
)

// IsValid checks if the story type is one of the known values.
func (t StoryType) IsValid() bool {
	switch t {
	case StoryTypeProduct, StoryTypeBrand, StoryTypePersonal, StoryTypeCraft:
		return true
	}
	return false
}

// ArtisanStory is a generated (or hand-edited) story owned by an artisan.
// Stories start unpublished; the artisan publishes them explicitly.
type ArtisanStory struct {
	ID          string    `json:"id"`
	ArtisanID   string    `json:"artisan_id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Type        StoryType `json:"type"`
	IsPublic    bool      `json:"is_public"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
