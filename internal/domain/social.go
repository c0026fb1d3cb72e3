package domain

import "time"

// SocialAccount is a social media account linked by an artisan.
type SocialAccount struct {
	ID        string    `json:"id"`
	ArtisanID string    `json:"artisan_id"`
	Platform  string    `json:"platform"`
	Handle    string    `json:"handle"`
	CreatedAt time.Time `json:"created_at"`
}

// SocialPostMetrics holds engagement numbers reported for a tracked post.
type SocialPostMetrics struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
	Shares   int `json:"shares"`
	Views    int `json:"views"`
}

// Engagement returns the combined interaction count used by analytics.
func (m SocialPostMetrics) Engagement() int {
	return m.Likes + m.Comments
}

// SocialPost is a social media post tracked for an artisan.
type SocialPost struct {
	ID        string            `json:"id"`
	ArtisanID string            `json:"artisan_id"`
	Platform  string            `json:"platform"`
	Caption   string            `json:"caption,omitempty"`
	MediaURL  string            `json:"media_url,omitempty"`
	Metrics   SocialPostMetrics `json:"metrics"`
	PostedAt  *time.Time        `json:"posted_at,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
