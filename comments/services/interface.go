package services

import (
	"context"

	"github.com/qolzam/telar/apps/photo-comments/comments/models"
)

// CommentService defines the interface for comment operations
type CommentService interface {
	// CreateComment validates the draft, confirms the photo exists and stores
	// the comment. It returns the new comment id.
	CreateComment(ctx context.Context, draft *models.CommentDraft) (string, error)

	// ListComments returns comments on a photo, newest first. The result is
	// never nil.
	ListComments(ctx context.Context, photoID int64, limit, offset int) ([]*models.Comment, error)

	// CountComments returns a count for every requested photo id, zero
	// included.
	CountComments(ctx context.Context, photoIDs []int64) (map[int64]int64, error)
}
