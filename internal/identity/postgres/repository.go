// Package postgres provides the PostgreSQL implementation of the identity
// repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hastkala/marketplace/internal/domain"
	"github.com/hastkala/marketplace/internal/identity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the postgres error code for unique constraint failures.
const uniqueViolation = "23505"

const artisanColumns = `
	id, name, email, password_hash, phone, bio, location, website,
	profile_image, cover_image, business_name, primary_craft, craft_categories,
	experience_years, skill_level, languages, role, verified,
	total_sales, average_rating, total_reviews,
	created_at, updated_at, last_edited_at
`

// Repository implements the identity.Repository interface using PostgreSQL.
// It also satisfies auth.AccountStore for request authentication.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateArtisan creates a new artisan account in the database.
func (r *Repository) CreateArtisan(ctx context.Context, artisan *domain.Artisan) error {
	query := `
		INSERT INTO artisans (
			name, email, password_hash, phone, location, primary_craft,
			craft_categories, languages, role
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, verified, total_sales, average_rating, total_reviews, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		artisan.Name,
		artisan.Email,
		artisan.PasswordHash,
		artisan.Phone,
		artisan.Location,
		artisan.PrimaryCraft,
		artisan.CraftCategories,
		artisan.Languages,
		artisan.Role,
	).Scan(
		&artisan.ID,
		&artisan.Verified,
		&artisan.TotalSales,
		&artisan.AverageRating,
		&artisan.TotalReviews,
		&artisan.CreatedAt,
		&artisan.UpdatedAt,
	)

	if err != nil {
		// The service checks for duplicates first, but a concurrent
		// registration can still hit the unique email constraint.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return identity.ErrEmailExists
		}
		return fmt.Errorf("create artisan: %w", err)
	}
	return nil
}

// GetArtisanByID retrieves an artisan account by its ID.
func (r *Repository) GetArtisanByID(ctx context.Context, id string) (*domain.Artisan, error) {
	query := `SELECT ` + artisanColumns + ` FROM artisans WHERE id = $1`

	artisan, err := r.scanArtisan(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrArtisanNotFound
		}
		return nil, fmt.Errorf("get artisan by id: %w", err)
	}
	return artisan, nil
}

// GetArtisanByEmail retrieves an artisan account by email.
func (r *Repository) GetArtisanByEmail(ctx context.Context, email string) (*domain.Artisan, error) {
	query := `SELECT ` + artisanColumns + ` FROM artisans WHERE email = $1`

	artisan, err := r.scanArtisan(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrArtisanNotFound
		}
		return nil, fmt.Errorf("get artisan by email: %w", err)
	}
	return artisan, nil
}

// FindAccountByID resolves an account during authentication. A missing account
// is reported as (nil, nil); only infrastructure failures produce an error.
func (r *Repository) FindAccountByID(ctx context.Context, id string) (*domain.Artisan, error) {
	artisan, err := r.GetArtisanByID(ctx, id)
	if err != nil {
		if errors.Is(err, identity.ErrArtisanNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return artisan, nil
}

// UpdateArtisan updates the mutable profile fields of an artisan.
func (r *Repository) UpdateArtisan(ctx context.Context, artisan *domain.Artisan) error {
	query := `
		UPDATE artisans
		SET name = $2, phone = $3, bio = $4, location = $5, website = $6,
			profile_image = $7, cover_image = $8, business_name = $9,
			primary_craft = $10, craft_categories = $11, experience_years = $12,
			skill_level = $13, languages = $14,
			updated_at = NOW(), last_edited_at = NOW()
		WHERE id = $1
		RETURNING updated_at, last_edited_at
	`
	err := r.db.QueryRow(ctx, query,
		artisan.ID,
		artisan.Name,
		artisan.Phone,
		artisan.Bio,
		artisan.Location,
		artisan.Website,
		artisan.ProfileImage,
		artisan.CoverImage,
		artisan.BusinessName,
		artisan.PrimaryCraft,
		artisan.CraftCategories,
		artisan.ExperienceYears,
		artisan.SkillLevel,
		artisan.Languages,
	).Scan(&artisan.UpdatedAt, &artisan.LastEditedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return identity.ErrArtisanNotFound
		}
		return fmt.Errorf("update artisan: %w", err)
	}
	return nil
}

// SetVerified flips the verification flag.
func (r *Repository) SetVerified(ctx context.Context, id string, verified bool) error {
	query := `UPDATE artisans SET verified = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id, verified)
	if err != nil {
		return fmt.Errorf("set verified: %w", err)
	}
	if result.RowsAffected() == 0 {
		return identity.ErrArtisanNotFound
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *Repository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE artisans SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return identity.ErrArtisanNotFound
	}
	return nil
}

// ListArtisans retrieves a page of the public artisan directory with the total
// count of matching rows.
func (r *Repository) ListArtisans(ctx context.Context, filter identity.ArtisanFilter) ([]domain.Artisan, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argNum := 1

	if filter.Craft != "" {
		where += fmt.Sprintf(" AND (primary_craft ILIKE $%d OR $%d = ANY(craft_categories))", argNum, argNum+1)
		args = append(args, "%"+filter.Craft+"%", filter.Craft)
		argNum += 2
	}
	if filter.Location != "" {
		where += fmt.Sprintf(" AND location ILIKE $%d", argNum)
		args = append(args, "%"+filter.Location+"%")
		argNum++
	}
	if filter.Verified != nil {
		where += fmt.Sprintf(" AND verified = $%d", argNum)
		args = append(args, *filter.Verified)
		argNum++
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM artisans`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count artisans: %w", err)
	}

	query := `SELECT ` + artisanColumns + ` FROM artisans` + where +
		fmt.Sprintf(" ORDER BY average_rating DESC, created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list artisans: %w", err)
	}
	defer rows.Close()

	artisans := make([]domain.Artisan, 0)
	for rows.Next() {
		artisan, err := r.scanArtisan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan artisan: %w", err)
		}
		artisans = append(artisans, *artisan)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate artisans: %w", err)
	}

	return artisans, total, nil
}

func (r *Repository) scanArtisan(row pgx.Row) (*domain.Artisan, error) {
	var artisan domain.Artisan
	err := row.Scan(
		&artisan.ID,
		&artisan.Name,
		&artisan.Email,
		&artisan.PasswordHash,
		&artisan.Phone,
		&artisan.Bio,
		&artisan.Location,
		&artisan.Website,
		&artisan.ProfileImage,
		&artisan.CoverImage,
		&artisan.BusinessName,
		&artisan.PrimaryCraft,
		&artisan.CraftCategories,
		&artisan.ExperienceYears,
		&artisan.SkillLevel,
		&artisan.Languages,
		&artisan.Role,
		&artisan.Verified,
		&artisan.TotalSales,
		&artisan.AverageRating,
		&artisan.TotalReviews,
		&artisan.CreatedAt,
		&artisan.UpdatedAt,
		&artisan.LastEditedAt,
	)
	if err != nil {
		return nil, err
	}
	return &artisan, nil
}

// ListSkills returns an artisan's skills, newest first.
func (r *Repository) ListSkills(ctx context.Context, artisanID string) ([]domain.ArtisanSkill, error) {
	query := `
		SELECT id, artisan_id, name, level, years_experience, created_at
		FROM artisan_skills
		WHERE artisan_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, artisanID)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	skills := make([]domain.ArtisanSkill, 0)
	for rows.Next() {
		var skill domain.ArtisanSkill
		err := rows.Scan(
			&skill.ID,
			&skill.ArtisanID,
			&skill.Name,
			&skill.Level,
			&skill.YearsExperience,
			&skill.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		skills = append(skills, skill)
	}
	return skills, rows.Err()
}
