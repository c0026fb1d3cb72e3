// Package postgres provides the PostgreSQL implementation of the community
// repository.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hastkala/marketplace/internal/community"
	"github.com/hastkala/marketplace/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the community.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreatePost creates a community post.
func (r *Repository) CreatePost(ctx context.Context, post *domain.CommunityPost) error {
	query := `
		INSERT INTO community_posts (artisan_id, title, content, type, is_public)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, likes, comments, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		post.ArtisanID,
		post.Title,
		post.Content,
		post.Type,
		post.IsPublic,
	).Scan(&post.ID, &post.Likes, &post.Comments, &post.CreatedAt, &post.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create community post: %w", err)
	}
	return nil
}

// GetPostByID retrieves a post with its author card and comment thread.
func (r *Repository) GetPostByID(ctx context.Context, id string) (*domain.CommunityPost, error) {
	query := `
		SELECT p.id, p.artisan_id, p.title, p.content, p.type, p.is_public,
			p.likes, p.comments, p.created_at, p.updated_at,
			a.id, a.name, a.location, a.profile_image, a.primary_craft, a.verified, a.average_rating
		FROM community_posts p
		JOIN artisans a ON a.id = p.artisan_id
		WHERE p.id = $1
	`
	var post domain.CommunityPost
	var artisan domain.ArtisanSummary
	err := r.db.QueryRow(ctx, query, id).Scan(
		&post.ID,
		&post.ArtisanID,
		&post.Title,
		&post.Content,
		&post.Type,
		&post.IsPublic,
		&post.Likes,
		&post.Comments,
		&post.CreatedAt,
		&post.UpdatedAt,
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
			return nil, community.ErrPostNotFound
		}
		return nil, fmt.Errorf("get community post: %w", err)
	}
	post.Artisan = &artisan

	thread, err := r.getComments(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	post.Thread = thread

	return &post, nil
}

// ListPosts retrieves a page of the community feed with the total count of
// matching rows.
func (r *Repository) ListPosts(ctx context.Context, filter community.PostFilter) ([]domain.CommunityPost, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argNum := 1

	if filter.PublicOnly {
		where += " AND p.is_public = TRUE"
	}
	if filter.Type != "" {
		where += fmt.Sprintf(" AND p.type = $%d", argNum)
		args = append(args, filter.Type)
		argNum++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND (p.title ILIKE $%d OR p.content ILIKE $%d)", argNum, argNum)
		args = append(args, "%"+filter.Search+"%")
		argNum++
	}

	countQuery := `SELECT COUNT(*) FROM community_posts p` + where
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count community posts: %w", err)
	}

	query := `
		SELECT p.id, p.artisan_id, p.title, p.content, p.type, p.is_public,
			p.likes, p.comments, p.created_at, p.updated_at,
			a.id, a.name, a.location, a.profile_image, a.primary_craft, a.verified, a.average_rating
		FROM community_posts p
		JOIN artisans a ON a.id = p.artisan_id
	` + where + fmt.Sprintf(" ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list community posts: %w", err)
	}
	defer rows.Close()

	posts := make([]domain.CommunityPost, 0)
	for rows.Next() {
		var post domain.CommunityPost
		var artisan domain.ArtisanSummary
		err := rows.Scan(
			&post.ID,
			&post.ArtisanID,
			&post.Title,
			&post.Content,
			&post.Type,
			&post.IsPublic,
			&post.Likes,
			&post.Comments,
			&post.CreatedAt,
			&post.UpdatedAt,
			&artisan.ID,
			&artisan.Name,
			&artisan.Location,
			&artisan.ProfileImage,
			&artisan.PrimaryCraft,
			&artisan.Verified,
			&artisan.AverageRating,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan community post: %w", err)
		}
		post.Artisan = &artisan
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate community posts: %w", err)
	}

	return posts, total, nil
}

// DeletePost deletes a post. Comments and likes go with it via FK cascade.
func (r *Repository) DeletePost(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM community_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete community post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return community.ErrPostNotFound
	}
	return nil
}

// CreateComment inserts a comment and bumps the post's comment counter in one
// transaction.
func (r *Repository) CreateComment(ctx context.Context, comment *domain.CommunityComment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	err = tx.QueryRow(ctx,
		`INSERT INTO community_comments (post_id, artisan_id, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		comment.PostID, comment.ArtisanID, comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE community_posts SET comments = comments + 1, updated_at = NOW() WHERE id = $1`,
		comment.PostID); err != nil {
		return fmt.Errorf("increment comment counter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// LikePost records a like row and bumps the counter. A duplicate like yields
// community.ErrAlreadyLiked.
func (r *Repository) LikePost(ctx context.Context, postID, artisanID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	result, err := tx.Exec(ctx,
		`INSERT INTO community_likes (post_id, artisan_id)
		 VALUES ($1, $2)
		 ON CONFLICT (post_id, artisan_id) DO NOTHING`,
		postID, artisanID)
	if err != nil {
		return fmt.Errorf("insert like: %w", err)
	}
	if result.RowsAffected() == 0 {
		return community.ErrAlreadyLiked
	}

	if _, err := tx.Exec(ctx,
		`UPDATE community_posts SET likes = likes + 1, updated_at = NOW() WHERE id = $1`,
		postID); err != nil {
		return fmt.Errorf("increment like counter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// UnlikePost removes the like row and decrements the counter. A missing like
// yields community.ErrNotLiked.
func (r *Repository) UnlikePost(ctx context.Context, postID, artisanID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	result, err := tx.Exec(ctx,
		`DELETE FROM community_likes WHERE post_id = $1 AND artisan_id = $2`,
		postID, artisanID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	if result.RowsAffected() == 0 {
		return community.ErrNotLiked
	}

	if _, err := tx.Exec(ctx,
		`UPDATE community_posts SET likes = GREATEST(likes - 1, 0), updated_at = NOW() WHERE id = $1`,
		postID); err != nil {
		return fmt.Errorf("decrement like counter: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *Repository) getComments(ctx context.Context, postID string) ([]domain.CommunityComment, error) {
	query := `
		SELECT c.id, c.post_id, c.artisan_id, c.content, c.created_at,
			a.id, a.name, a.location, a.profile_image, a.primary_craft, a.verified, a.average_rating
		FROM community_comments c
		JOIN artisans a ON a.id = c.artisan_id
		WHERE c.post_id = $1
		ORDER BY c.created_at
	`
	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("get comments: %w", err)
	}
	defer rows.Close()

	comments := make([]domain.CommunityComment, 0)
	for rows.Next() {
		var comment domain.CommunityComment
		var artisan domain.ArtisanSummary
		err := rows.Scan(
			&comment.ID,
			&comment.PostID,
			&comment.ArtisanID,
			&comment.Content,
			&comment.CreatedAt,
			&artisan.ID,
			&artisan.Name,
			&artisan.Location,
			&artisan.ProfileImage,
			&artisan.PrimaryCraft,
			&artisan.Verified,
			&artisan.AverageRating,
		)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comment.Artisan = &artisan
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}
