// Package postgres provides the PostgreSQL implementation of the social
// repository.
package postgres

import (
	"context"
	"fmt"

	"github.com/hastkala/marketplace/internal/domain"
	"github.com/hastkala/marketplace/internal/social"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the social.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// ListAccounts retrieves the linked social accounts for an artisan.
func (r *Repository) ListAccounts(ctx context.Context, artisanID string) ([]domain.SocialAccount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, artisan_id, platform, handle, created_at
		 FROM social_accounts
		 WHERE artisan_id = $1
		 ORDER BY platform`,
		artisanID)
	if err != nil {
		return nil, fmt.Errorf("list social accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.SocialAccount, 0)
	for rows.Next() {
		var account domain.SocialAccount
		if err := rows.Scan(&account.ID, &account.ArtisanID, &account.Platform, &account.Handle, &account.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan social account: %w", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// CreatePost records a tracked social post.
func (r *Repository) CreatePost(ctx context.Context, post *domain.SocialPost) error {
	query := `
		INSERT INTO social_posts (
			artisan_id, platform, caption, media_url,
			likes, comments, shares, views, posted_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		post.ArtisanID,
		post.Platform,
		post.Caption,
		post.MediaURL,
		post.Metrics.Likes,
		post.Metrics.Comments,
		post.Metrics.Shares,
		post.Metrics.Views,
		post.PostedAt,
	).Scan(&post.ID, &post.CreatedAt)

	if err != nil {
		return fmt.Errorf("create social post: %w", err)
	}
	return nil
}

// ListPosts retrieves a page of tracked posts with the total count of
// matching rows.
func (r *Repository) ListPosts(ctx context.Context, filter social.PostFilter) ([]domain.SocialPost, int, error) {
	where := " WHERE artisan_id = $1"
	args := []interface{}{filter.ArtisanID}
	argNum := 2

	if filter.Platform != "" {
		where += fmt.Sprintf(" AND platform = $%d", argNum)
		args = append(args, filter.Platform)
		argNum++
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM social_posts`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count social posts: %w", err)
	}

	query := `
		SELECT id, artisan_id, platform, caption, media_url,
			likes, comments, shares, views, posted_at, created_at
		FROM social_posts
	` + where + fmt.Sprintf(" ORDER BY posted_at DESC NULLS LAST, created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list social posts: %w", err)
	}
	defer rows.Close()

	posts := make([]domain.SocialPost, 0)
	for rows.Next() {
		var post domain.SocialPost
		err := rows.Scan(
			&post.ID,
			&post.ArtisanID,
			&post.Platform,
			&post.Caption,
			&post.MediaURL,
			&post.Metrics.Likes,
			&post.Metrics.Comments,
			&post.Metrics.Shares,
			&post.Metrics.Views,
			&post.PostedAt,
			&post.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan social post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate social posts: %w", err)
	}

	return posts, total, nil
}
