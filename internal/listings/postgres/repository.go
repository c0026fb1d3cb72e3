// Package postgres provides the PostgreSQL implementation of the listings
// repository.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hastkala/marketplace/internal/domain"
	"github.com/hastkala/marketplace/internal/listings"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the listings.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateListing creates a listing and its images.
func (r *Repository) CreateListing(ctx context.Context, listing *domain.Listing) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	query := `
		INSERT INTO listings (
			artisan_id, title, short_description, long_description, language,
			price, currency, stock, published, tags
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, query,
		listing.ArtisanID,
		listing.Title,
		listing.ShortDescription,
		listing.LongDescription,
		listing.Language,
		listing.Price,
		listing.Currency,
		listing.Stock,
		listing.Published,
		listing.Tags,
	).Scan(&listing.ID, &listing.CreatedAt, &listing.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create listing: %w", err)
	}

	for i := range listing.Images {
		err := tx.QueryRow(ctx,
			`INSERT INTO listing_images (listing_id, uri, role, width, height)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, created_at`,
			listing.ID,
			listing.Images[i].URI,
			listing.Images[i].Role,
			listing.Images[i].Width,
			listing.Images[i].Height,
		).Scan(&listing.Images[i].ID, &listing.Images[i].CreatedAt)
		if err != nil {
			return fmt.Errorf("insert listing image: %w", err)
		}
		listing.Images[i].ListingID = listing.ID
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetListingByID retrieves a listing with its images and artisan card.
func (r *Repository) GetListingByID(ctx context.Context, id string) (*domain.Listing, error) {
	query := `
		SELECT l.id, l.artisan_id, l.title, l.short_description, l.long_description,
			l.language, l.price, l.currency, l.stock, l.published, l.tags,
			l.created_at, l.updated_at,
			a.id, a.name, a.location, a.profile_image, a.primary_craft, a.verified, a.average_rating
		FROM listings l
		JOIN artisans a ON a.id = l.artisan_id
		WHERE l.id = $1
	`
	var listing domain.Listing
	var artisan domain.ArtisanSummary
	err := r.db.QueryRow(ctx, query, id).Scan(
		&listing.ID,
		&listing.ArtisanID,
		&listing.Title,
		&listing.ShortDescription,
		&listing.LongDescription,
		&listing.Language,
		&listing.Price,
		&listing.Currency,
		&listing.Stock,
		&listing.Published,
		&listing.Tags,
		&listing.CreatedAt,
		&listing.UpdatedAt,
		&artisan.ID,
		&artisan.Name,
		&artisan.Location,
		&artisan.ProfileImage,
		&artisan.PrimaryCraft,
		&artisan.Verified,
		&artisan.AverageRating,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, listings.ErrListingNotFound
		}
		return nil, fmt.Errorf("get listing by id: %w", err)
	}
	listing.Artisan = &artisan

	images, err := r.getImages(ctx, listing.ID)
	if err != nil {
		return nil, err
	}
	listing.Images = images

	return &listing, nil
}

// ListListings retrieves a page of listings matching the filter with the
// total count of matching rows.
func (r *Repository) ListListings(ctx context.Context, filter listings.ListingFilter) ([]domain.Listing, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argNum := 1

	if filter.PublishedOnly {
		where += " AND l.published = TRUE"
	}
	if filter.ArtisanID != "" {
		where += fmt.Sprintf(" AND l.artisan_id = $%d", argNum)
		args = append(args, filter.ArtisanID)
		argNum++
	}
	if filter.Craft != "" {
		where += fmt.Sprintf(" AND a.primary_craft ILIKE $%d", argNum)
		args = append(args, "%"+filter.Craft+"%")
		argNum++
	}
	if filter.Location != "" {
		where += fmt.Sprintf(" AND a.location ILIKE $%d", argNum)
		args = append(args, "%"+filter.Location+"%")
		argNum++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (l.title ILIKE $%d OR l.short_description ILIKE $%d)", argNum, argNum)
		args = append(args, "%"+filter.Search+"%")
		argNum++
	}
	if len(filter.Tags) > 0 {
		where += fmt.Sprintf(" AND l.tags && $%d", argNum)
		args = append(args, filter.Tags)
		argNum++
	}
	if filter.MinPrice != nil {
		where += fmt.Sprintf(" AND l.price >= $%d", argNum)
		args = append(args, *filter.MinPrice)
		argNum++
	}
	if filter.MaxPrice != nil {
		where += fmt.Sprintf(" AND l.price <= $%d", argNum)
		args = append(args, *filter.MaxPrice)
		argNum++
	}

	countQuery := `SELECT COUNT(*) FROM listings l JOIN artisans a ON a.id = l.artisan_id` + where
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	query := `
		SELECT l.id, l.artisan_id, l.title, l.short_description, l.long_description,
			l.language, l.price, l.currency, l.stock, l.published, l.tags,
			l.created_at, l.updated_at,
			a.id, a.name, a.location, a.profile_image, a.primary_craft, a.verified, a.average_rating
		FROM listings l
		JOIN artisans a ON a.id = l.artisan_id
	` + where + fmt.Sprintf(" ORDER BY l.created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	result := make([]domain.Listing, 0)
	for rows.Next() {
		var listing domain.Listing
		var artisan domain.ArtisanSummary
		err := rows.Scan(
			&listing.ID,
			&listing.ArtisanID,
			&listing.Title,
			&listing.ShortDescription,
			&listing.LongDescription,
			&listing.Language,
			&listing.Price,
			&listing.Currency,
			&listing.Stock,
			&listing.Published,
			&listing.Tags,
			&listing.CreatedAt,
			&listing.UpdatedAt,
			&artisan.ID,
			&artisan.Name,
			&artisan.Location,
			&artisan.ProfileImage,
			&artisan.PrimaryCraft,
			&artisan.Verified,
			&artisan.AverageRating,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan listing: %w", err)
		}
		listing.Artisan = &artisan
		result = append(result, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate listings: %w", err)
	}

	for i := range result {
		images, err := r.getImages(ctx, result[i].ID)
		if err != nil {
			return nil, 0, err
		}
		result[i].Images = images
	}

	return result, total, nil
}

// UpdateListing updates the mutable fields of a listing.
func (r *Repository) UpdateListing(ctx context.Context, listing *domain.Listing) error {
	query := `
		UPDATE listings
		SET title = $2, short_description = $3, long_description = $4,
			language = $5, price = $6, currency = $7, stock = $8,
			published = $9, tags = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		listing.ID,
		listing.Title,
		listing.ShortDescription,
		listing.LongDescription,
		listing.Language,
		listing.Price,
		listing.Currency,
		listing.Stock,
		listing.Published,
		listing.Tags,
	).Scan(&listing.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return listings.ErrListingNotFound
		}
		return fmt.Errorf("update listing: %w", err)
	}
	return nil
}

// DeleteListing deletes a listing. Images go with it via FK cascade.
func (r *Repository) DeleteListing(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if result.RowsAffected() == 0 {
		return listings.ErrListingNotFound
	}
	return nil
}

// ReplaceImages replaces all images attached to a listing.
func (r *Repository) ReplaceImages(ctx context.Context, listingID string, images []domain.ListingImage) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM listing_images WHERE listing_id = $1`, listingID); err != nil {
		return fmt.Errorf("delete old images: %w", err)
	}

	for i := range images {
		err := tx.QueryRow(ctx,
			`INSERT INTO listing_images (listing_id, uri, role, width, height)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, created_at`,
			listingID,
			images[i].URI,
			images[i].Role,
			images[i].Width,
			images[i].Height,
		).Scan(&images[i].ID, &images[i].CreatedAt)
		if err != nil {
			return fmt.Errorf("insert image: %w", err)
		}
		images[i].ListingID = listingID
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *Repository) getImages(ctx context.Context, listingID string) ([]domain.ListingImage, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, listing_id, uri, role, width, height, created_at
		 FROM listing_images
		 WHERE listing_id = $1
		 ORDER BY created_at`,
		listingID)
	if err != nil {
		return nil, fmt.Errorf("get listing images: %w", err)
	}
	defer rows.Close()

	images := make([]domain.ListingImage, 0)
	for rows.Next() {
		var img domain.ListingImage
		if err := rows.Scan(&img.ID, &img.ListingID, &img.URI, &img.Role, &img.Width, &img.Height, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}
