package domain

import "time"

// Role defines the access level of an account.
type Role string

// Account roles.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is one of the known values.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// Artisan represents a registered artisan account.
// PasswordHash is never serialized and never leaves the identity repository
// outside of credential checks.
type Artisan struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"`
	Phone           string     `json:"phone,omitempty"`
	Bio             string     `json:"bio,omitempty"`
	Location        string     `json:"location,omitempty"`
	Website         string     `json:"website,omitempty"`
	ProfileImage    string     `json:"profile_image,omitempty"`
	CoverImage      string     `json:"cover_image,omitempty"`
	BusinessName    string     `json:"business_name,omitempty"`
	PrimaryCraft    string     `json:"primary_craft,omitempty"`
	CraftCategories []string   `json:"craft_categories"`
	ExperienceYears int        `json:"experience_years,omitempty"`
	SkillLevel      string     `json:"skill_level,omitempty"`
	Languages       []string   `json:"languages"`
	Role            Role       `json:"role"`
	Verified        bool       `json:"verified"`
	TotalSales      int        `json:"total_sales"`
	AverageRating   float64    `json:"average_rating"`
	TotalReviews    int        `json:"total_reviews"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	LastEditedAt    *time.Time `json:"last_edited_at,omitempty"`
}

// ArtisanSkill is a single craft skill shown on the public artisan profile.
type ArtisanSkill struct {
	ID              string    `json:"id"`
	ArtisanID       string    `json:"artisan_id"`
	Name            string    `json:"name"`
	Level           string    `json:"level,omitempty"`
	YearsExperience int       `json:"years_experience,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ArtisanSummary is the public card shown alongside listings and posts.
type ArtisanSummary struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Location      string  `json:"location,omitempty"`
	ProfileImage  string  `json:"profile_image,omitempty"`
	PrimaryCraft  string  `json:"primary_craft,omitempty"`
	Verified      bool    `json:"verified"`
	AverageRating float64 `json:"average_rating"`
}
