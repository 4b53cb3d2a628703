package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/qolzam/telar/apps/photo-comments/comments/models"
	commentRepository "github.com/qolzam/telar/apps/photo-comments/comments/repository"
)

// MemoryCommentRepository is a test-only CommentRepository that keeps
// comments in memory. Ids and timestamps increase strictly with every insert.
type MemoryCommentRepository struct {
	mu       sync.Mutex
	comments []models.Comment
	seq      int
	last     time.Time

	// CreateErr, when set, is returned by Create without storing anything.
	CreateErr error
}

var _ commentRepository.CommentRepository = (*MemoryCommentRepository)(nil)

// NewMemoryCommentRepository returns an empty repository.
func NewMemoryCommentRepository() *MemoryCommentRepository {
	return &MemoryCommentRepository{}
}

func (r *MemoryCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CreateErr != nil {
		return r.CreateErr
	}

	now := time.Now().UTC()
	if !now.After(r.last) {
		now = r.last.Add(time.Microsecond)
	}
	r.last = now
	r.seq++

	comment.ID = fmt.Sprintf("%024x", r.seq)
	comment.CreatedAt = now
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *MemoryCommentRepository) FindByPhotoID(ctx context.Context, photoID int64, limit, offset int) ([]*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]*models.Comment, 0)
	for i := range r.comments {
		if r.comments[i].PhotoID == photoID {
			c := r.comments[i]
			matched = append(matched, &c)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	if offset >= len(matched) {
		return []*models.Comment{}, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *MemoryCommentRepository) CountByPhotoIDs(ctx context.Context, photoIDs []int64) (map[int64]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[int64]struct{}, len(photoIDs))
	for _, id := range photoIDs {
		wanted[id] = struct{}{}
	}
	counts := make(map[int64]int64)
	for _, c := range r.comments {
		if _, ok := wanted[c.PhotoID]; ok {
			counts[c.PhotoID]++
		}
	}
	return counts, nil
}

func (r *MemoryCommentRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

// Len reports how many comments have been stored.
func (r *MemoryCommentRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.comments)
}
