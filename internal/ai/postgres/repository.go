// Package postgres provides the PostgreSQL implementation of the AI content
// repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/hastkala/marketplace/internal/ai"
	"github.com/hastkala/marketplace/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the ai.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateStory creates an artisan story.
func (r *Repository) CreateStory(ctx context.Context, story *domain.ArtisanStory) error {
	query := `
		INSERT INTO artisan_stories (artisan_id, title, content, type, is_public, is_published)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		story.ArtisanID,
		story.Title,
		story.Content,
		story.Type,
		story.IsPublic,
		story.IsPublished,
	).Scan(&story.ID, &story.CreatedAt, &story.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create story: %w", err)
	}
	return nil
}

// GetStoryByID retrieves a story by its ID.
func (r *Repository) GetStoryByID(ctx context.Context, id string) (*domain.ArtisanStory, error) {
	query := `
		SELECT id, artisan_id, title, content, type, is_public, is_published, created_at, updated_at
		FROM artisan_stories
		WHERE id = $1
	`
	var story domain.ArtisanStory
	err := r.db.QueryRow(ctx, query, id).Scan(
		&story.ID,
		&story.ArtisanID,
		&story.Title,
		&story.Content,
		&story.Type,
		&story.IsPublic,
		&story.IsPublished,
		&story.CreatedAt,
		&story.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ai.ErrStoryNotFound
		}
		return nil, fmt.Errorf("get story by id: %w", err)
	}
	return &story, nil
}

// ListStories retrieves a page of stories matching the filter with the total
// count of matching rows.
func (r *Repository) ListStories(ctx context.Context, filter ai.StoryFilter) ([]domain.ArtisanStory, int, error) {
	where := " WHERE artisan_id = $1"
	args := []interface{}{filter.ArtisanID}
	argNum := 2

	if filter.Type != "" {
		where += fmt.Sprintf(" AND type = $%d", argNum)
		args = append(args, filter.Type)
		argNum++
	}
	if filter.PublishedOnly {
		where += " AND is_published = TRUE"
	}
	if filter.PublicOnly {
		where += " AND is_public = TRUE"
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM artisan_stories`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stories: %w", err)
	}

	query := `
		SELECT id, artisan_id, title, content, type, is_public, is_published, created_at, updated_at
		FROM artisan_stories
	` + where + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stories: %w", err)
	}
	defer rows.Close()

	stories := make([]domain.ArtisanStory, 0)
	for rows.Next() {
		var story domain.ArtisanStory
		err := rows.Scan(
			&story.ID,
			&story.ArtisanID,
			&story.Title,
			&story.Content,
			&story.Type,
			&story.IsPublic,
			&story.IsPublished,
			&story.CreatedAt,
			&story.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan story: %w", err)
		}
		stories = append(stories, story)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate stories: %w", err)
	}

	return stories, total, nil
}

// UpdateStory updates the mutable fields of a story.
func (r *Repository) UpdateStory(ctx context.Context, story *domain.ArtisanStory) error {
	query := `
		UPDATE artisan_stories
		SET title = $2, content = $3, is_public = $4, is_published = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query,
		story.ID,
		story.Title,
		story.Content,
		story.IsPublic,
		story.IsPublished,
	).Scan(&story.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ai.ErrStoryNotFound
		}
		return fmt.Errorf("update story: %w", err)
	}
	return nil
}

// DeleteStory deletes a story by its ID.
func (r *Repository) DeleteStory(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM artisan_stories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete story: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ai.ErrStoryNotFound
	}
	return nil
}

// CreateInsight records one generation request and its output.
func (r *Repository) CreateInsight(ctx context.Context, insight *domain.AIInsight) error {
	query := `
		INSERT INTO ai_insights (artisan_id, type, input_ref, output, confidence)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		insight.ArtisanID,
		insight.Type,
		insight.InputRef,
		insight.Output,
		insight.Confidence,
	).Scan(&insight.ID, &insight.CreatedAt)

	if err != nil {
		return fmt.Errorf("create insight: %w", err)
	}
	return nil
}

// ListInsights retrieves a page of insights matching the filter with the
// total count of matching rows.
func (r *Repository) ListInsights(ctx context.Context, filter ai.InsightFilter) ([]domain.AIInsight, int, error) {
	where := " WHERE artisan_id = $1"
	args := []interface{}{filter.ArtisanID}
	argNum := 2

	if filter.Type != "" {
		where += fmt.Sprintf(" AND type = $%d", argNum)
		args = append(args, filter.Type)
		argNum++
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM ai_insights`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count insights: %w", err)
	}

	query := `
		SELECT id, artisan_id, type, input_ref, output, confidence, created_at
		FROM ai_insights
	` + where + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list insights: %w", err)
	}
	defer rows.Close()

	insights := make([]domain.AIInsight, 0)
	for rows.Next() {
		var insight domain.AIInsight
		err := rows.Scan(
			&insight.ID,
			&insight.ArtisanID,
			&insight.Type,
			&insight.InputRef,
			&insight.Output,
			&insight.Confidence,
			&insight.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan insight: %w", err)
		}
		insights = append(insights, insight)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate insights: %w", err)
	}

	return insights, total, nil
}

// CreateCompetitionAnalysis stores a competition analysis row.
func (r *Repository) CreateCompetitionAnalysis(ctx context.Context, analysis *domain.CompetitionAnalysis) error {
	query := `
		INSERT INTO competition_analyses (
			artisan_id, competitor_name, competitor_url, analysis_type, insights, recommendations
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		analysis.ArtisanID,
		analysis.CompetitorName,
		analysis.CompetitorURL,
		analysis.AnalysisType,
		analysis.Insights,
		analysis.Recommendations,
	).Scan(&analysis.ID, &analysis.CreatedAt)

	if err != nil {
		return fmt.Errorf("create competition analysis: %w", err)
	}
	return nil
}
