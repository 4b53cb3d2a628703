// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	"github.com/qolzam/telar/apps/photo-comments/comments/models"
)

// CommentRepository is the persistence contract of the comments service.
// Implementations never validate fields; the service does that before writing.
type CommentRepository interface {
	// Create inserts a comment and sets its ID and CreatedAt
	Create(ctx context.Context, comment *models.Comment) error

	// FindByPhotoID returns comments on a photo ordered by CreatedAt DESC, ID DESC
	FindByPhotoID(ctx context.Context, photoID int64, limit, offset int) ([]*models.Comment, error)

	// CountByPhotoIDs returns comment counts grouped by photo id. Photos without
	// comments are absent from the result.
	CountByPhotoIDs(ctx context.Context, photoIDs []int64) (map[int64]int64, error)

	// EnsureIndexes creates the indexes the queries above rely on
	EnsureIndexes(ctx context.Context) error
}
