// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/qolzam/telar/apps/photo-comments/comments/models"
	"github.com/qolzam/telar/apps/photo-comments/internal/database/postgres"
)

// postgresCommentRepository implements CommentRepository using raw SQL queries
type postgresCommentRepository struct {
	client *postgres.Client
}

type commentRow struct {
	ID         string    `db:"id"`
	Text       string    `db:"text"`
	AuthorID   int64     `db:"author_id"`
	AuthorName string    `db:"author_name"`
	PhotoID    int64     `db:"photo_id"`
	CreatedAt  time.Time `db:"created_at"`
}

// NewPostgresCommentRepository creates a new PostgreSQL repository for comments
func NewPostgresCommentRepository(client *postgres.Client) CommentRepository {
	return &postgresCommentRepository{client: client}
}

// Create inserts a new comment; id and created_at come from column defaults
func (r *postgresCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (text, author_id, author_name, photo_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	var inserted struct {
		ID        string    `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}
	err := r.client.DB().QueryRowxContext(ctx, query,
		comment.Text, comment.Author.ID, comment.Author.Name, comment.PhotoID,
	).StructScan(&inserted)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}

	comment.ID = inserted.ID
	comment.CreatedAt = inserted.CreatedAt.UTC()
	return nil
}

// FindByPhotoID retrieves one page of comments for a photo
func (r *postgresCommentRepository) FindByPhotoID(ctx context.Context, photoID int64, limit, offset int) ([]*models.Comment, error) {
	query := `
		SELECT id, text, author_id, author_name, photo_id, created_at
		FROM comments
		WHERE photo_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	var rows []commentRow
	if err := sqlx.SelectContext(ctx, r.client.DB(), &rows, query, photoID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to find comments by photo ID: %w", err)
	}

	comments := make([]*models.Comment, len(rows))
	for i, row := range rows {
		comments[i] = &models.Comment{
			ID:        row.ID,
			Text:      row.Text,
			Author:    models.Author{ID: row.AuthorID, Name: row.AuthorName},
			PhotoID:   row.PhotoID,
			CreatedAt: row.CreatedAt.UTC(),
		}
	}
	return comments, nil
}

// CountByPhotoIDs groups matching comments by photo id
func (r *postgresCommentRepository) CountByPhotoIDs(ctx context.Context, photoIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64)
	if len(photoIDs) == 0 {
		return counts, nil
	}

	query := `
		SELECT photo_id, COUNT(*) AS count
		FROM comments
		WHERE photo_id = ANY($1)
		GROUP BY photo_id`

	var rows []struct {
		PhotoID int64 `db:"photo_id"`
		Count   int64 `db:"count"`
	}
	if err := sqlx.SelectContext(ctx, r.client.DB(), &rows, query, pq.Array(photoIDs)); err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}
	for _, row := range rows {
		counts[row.PhotoID] = row.Count
	}
	return counts, nil
}

// EnsureIndexes is a no-op: indexes are managed via migrations
func (r *postgresCommentRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}
