package identity

import (
	"context"

	"github.com/hastkala/marketplace/internal/domain"
)

// Repository defines the interface for artisan account data operations.
type Repository interface {
	CreateArtisan(ctx context.Context, artisan *domain.Artisan) error
	GetArtisanByID(ctx context.Context, id string) (*domain.Artisan, error)
	GetArtisanByEmail(ctx context.Context, email string) (*domain.Artisan, error)
	UpdateArtisan(ctx context.Context, artisan *domain.Artisan) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetVerified(ctx context.Context, id string, verified bool) error
	ListArtisans(ctx context.Context, filter ArtisanFilter) ([]domain.Artisan, int, error)
	ListSkills(ctx context.Context, artisanID string) ([]domain.ArtisanSkill, error)
}

// ArtisanFilter represents filter criteria for the public artisan directory.
type ArtisanFilter struct {
	Craft    string
	Location string
	Verified *bool
	Limit    int
	Offset   int
}
