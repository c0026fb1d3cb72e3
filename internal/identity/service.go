// Package identity provides artisan account management: registration, login,
// profile, and the public artisan directory.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/hastkala/marketplace/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor used for all stored password hashes.
const bcryptCost = 12

// TokenIssuer issues session tokens for authenticated accounts.
type TokenIssuer interface {
	Issue(artisanID, email string, role domain.Role) (string, error)
}

// Service implements account business logic.
type Service struct {
	repo   Repository
	tokens TokenIssuer
}

// NewService creates a new identity service.
func NewService(repo Repository, tokens TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// RegisterInput holds data for creating an account.
type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	Phone        string
	Location     string
	PrimaryCraft string
	Languages    []string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Artisan *domain.Artisan `json:"user"`
	Token   string          `json:"token"`
}

// Register creates a new account and issues a session token.
// A duplicate email yields ErrEmailExists.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	existing, err := s.repo.GetArtisanByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, ErrArtisanNotFound) {
		return nil, fmt.Errorf("check existing email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	artisan := &domain.Artisan{
		Name:            input.Name,
		Email:           input.Email,
		PasswordHash:    string(hash),
		Phone:           input.Phone,
		Location:        input.Location,
		PrimaryCraft:    input.PrimaryCraft,
		Languages:       input.Languages,
		CraftCategories: []string{},
		Role:            domain.RoleUser,
	}
	if artisan.Languages == nil {
		artisan.Languages = []string{}
	}

	if err := s.repo.CreateArtisan(ctx, artisan); err != nil {
		return nil, fmt.Errorf("create artisan: %w", err)
	}

	token, err := s.tokens.Issue(artisan.ID, artisan.Email, artisan.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &AuthResult{Artisan: artisan, Token: token}, nil
}

// LoginInput holds credentials for login.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password are both reported as ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	artisan, err := s.repo.GetArtisanByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, ErrArtisanNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get artisan: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(artisan.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(artisan.ID, artisan.Email, artisan.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &AuthResult{Artisan: artisan, Token: token}, nil
}

// GetArtisan returns an account by id.
func (s *Service) GetArtisan(ctx context.Context, id string) (*domain.Artisan, error) {
	return s.repo.GetArtisanByID(ctx, id)
}

// UpdateProfileInput holds partial profile updates. Nil fields are left
// untouched; id, email, role, verified flag, and rating counters cannot be
// changed through this path.
type UpdateProfileInput struct {
	Name            *string
	Phone           *string
	Bio             *string
	Location        *string
	Website         *string
	ProfileImage    *string
	CoverImage      *string
	BusinessName    *string
	PrimaryCraft    *string
	CraftCategories *[]string
	ExperienceYears *int
	SkillLevel      *string
	Languages       *[]string
}

// UpdateProfile applies a partial profile update.
func (s *Service) UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*domain.Artisan, error) {
	artisan, err := s.repo.GetArtisanByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	applyString(&artisan.Name, input.Name)
	applyString(&artisan.Phone, input.Phone)
	applyString(&artisan.Bio, input.Bio)
	applyString(&artisan.Location, input.Location)
	applyString(&artisan.Website, input.Website)
	applyString(&artisan.ProfileImage, input.ProfileImage)
	applyString(&artisan.CoverImage, input.CoverImage)
	applyString(&artisan.BusinessName, input.BusinessName)
	applyString(&artisan.PrimaryCraft, input.PrimaryCraft)
	applyString(&artisan.SkillLevel, input.SkillLevel)
	if input.CraftCategories != nil {
		artisan.CraftCategories = *input.CraftCategories
	}
	if input.ExperienceYears != nil {
		artisan.ExperienceYears = *input.ExperienceYears
	}
	if input.Languages != nil {
		artisan.Languages = *input.Languages
	}

	if err := s.repo.UpdateArtisan(ctx, artisan); err != nil {
		return nil, fmt.Errorf("update artisan: %w", err)
	}

	return artisan, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *Service) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	artisan, err := s.repo.GetArtisanByID(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(artisan.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, id, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// SetVerified marks an account as verified (or clears the mark). Admin-only,
// enforced at the routing layer.
func (s *Service) SetVerified(ctx context.Context, id string, verified bool) (*domain.Artisan, error) {
	if err := s.repo.SetVerified(ctx, id, verified); err != nil {
		return nil, err
	}
	return s.repo.GetArtisanByID(ctx, id)
}

// ListArtisans returns the public artisan directory page.
func (s *Service) ListArtisans(ctx context.Context, filter ArtisanFilter) ([]domain.Artisan, int, error) {
	return s.repo.ListArtisans(ctx, filter)
}

// ListSkills returns an artisan's public skill list. An unknown artisan yields
// an empty list, same as one with no skills.
func (s *Service) ListSkills(ctx context.Context, artisanID string) ([]domain.ArtisanSkill, error) {
	return s.repo.ListSkills(ctx, artisanID)
}
