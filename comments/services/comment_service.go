package services

import (
	"context"
	"errors"
	"sync"

	"github.com/qolzam/telar/apps/photo-comments/comments/common"
	commentsErrors "github.com/qolzam/telar/apps/photo-comments/comments/errors"
	"github.com/qolzam/telar/apps/photo-comments/comments/models"
	commentRepository "github.com/qolzam/telar/apps/photo-comments/comments/repository"
	"github.com/qolzam/telar/apps/photo-comments/comments/validation"
	"github.com/qolzam/telar/apps/photo-comments/internal/cache"
	"github.com/qolzam/telar/apps/photo-comments/internal/pkg/log"
	platformconfig "github.com/qolzam/telar/apps/photo-comments/internal/platform/config"
	"github.com/qolzam/telar/apps/photo-comments/photos"
)

const defaultMaxCommentLimit = 100

// commentService implements the CommentService interface
type commentService struct {
	commentRepo  commentRepository.CommentRepository
	photoChecker photos.Checker
	cacheService *cache.GenericCacheService
	maxLimit     int

	// generations counts cache invalidations per photo
	// A list page read before the latest invalidation is not cached.
	genMu       sync.Mutex
	generations map[int64]uint64
}

// NewCommentService wires the comment service with its dependencies.
// cacheService may be nil, in which case list pages are always read from the store.
func NewCommentService(
	commentRepo commentRepository.CommentRepository,
	photoChecker photos.Checker,
	cacheService *cache.GenericCacheService,
	cfg *platformconfig.Config,
) CommentService {
	maxLimit := defaultMaxCommentLimit
	if cfg != nil && cfg.Pagination.MaxLimit > 0 {
		maxLimit = cfg.Pagination.MaxLimit
	}
	return &commentService{
		commentRepo:  commentRepo,
		photoChecker: photoChecker,
		cacheService: cacheService,
		maxLimit:     maxLimit,
		generations:  make(map[int64]uint64),
	}
}

// CreateComment creates a new comment entity.
func (s *commentService) CreateComment(ctx context.Context, draft *models.CommentDraft) (string, error) {
	if err := validation.ValidateCommentDraft(draft); err != nil {
		return "", commentsErrors.NewValidationError("Missing mandatory fields", err.Error())
	}

	exists, err := s.photoChecker.Exists(ctx, draft.PhotoID)
	if err != nil {
		return "", commentsErrors.WrapDependencyError(err)
	}
	if !exists {
		return "", commentsErrors.NewPhotoNotFoundError(draft.PhotoID)
	}

	comment := &models.Comment{
		Text:    draft.Text,
		Author:  *draft.Author,
		PhotoID: draft.PhotoID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		log.DebugStructWithContext(ctx, "comment write failed", draft)
		return "", commentsErrors.WrapDatabaseError(err)
	}

	s.invalidatePhotoComments(ctx, comment.PhotoID)
	log.InfoWithContext(ctx, "comment %s created on photo %d", comment.ID, comment.PhotoID)
	return comment.ID, nil
}

// ListComments returns one page of comments on a photo, newest first.
func (s *commentService) ListComments(ctx context.Context, photoID int64, limit, offset int) ([]*models.Comment, error) {
	if err := validation.ValidateListParams(photoID, limit, offset); err != nil {
		return nil, commentsErrors.NewValidationError("Invalid query parameters", err.Error())
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	cacheKey := common.BuildCommentListCacheKey(photoID, limit, offset)
	if cached, ok := s.getCachedComments(ctx, cacheKey); ok {
		return cached, nil
	}

	generation := s.generation(photoID)
	comments, err := s.commentRepo.FindByPhotoID(ctx, photoID, limit, offset)
	if err != nil {
		return nil, commentsErrors.WrapDatabaseError(err)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}

	s.cacheComments(ctx, photoID, generation, cacheKey, comments)
	return comments, nil
}

// CountComments counts comments for each requested photo. The store only
// reports photos that have comments; every other requested id gets 0.
func (s *commentService) CountComments(ctx context.Context, photoIDs []int64) (map[int64]int64, error) {
	totals := make(map[int64]int64, len(photoIDs))
	if len(photoIDs) == 0 {
		return totals, nil
	}
	if err := validation.ValidatePhotoIDs(photoIDs); err != nil {
		return nil, commentsErrors.NewValidationError("Invalid photoIds", err.Error())
	}

	sparse, err := s.commentRepo.CountByPhotoIDs(ctx, common.UniquePhotoIDs(photoIDs))
	if err != nil {
		return nil, commentsErrors.WrapDatabaseError(err)
	}

	for _, id := range photoIDs {
		totals[id] = sparse[id]
	}
	return totals, nil
}

func (s *commentService) getCachedComments(ctx context.Context, cacheKey string) ([]*models.Comment, bool) {
	if !s.cacheService.IsEnabled() {
		return nil, false
	}
	var cached []*models.Comment
	if err := s.cacheService.GetCached(ctx, cacheKey, &cached); err != nil {
		if !errors.Is(err, cache.ErrKeyNotFound) {
			log.WarnWithContext(ctx, "comment list cache read failed for %s: %v", cacheKey, err)
		}
		return nil, false
	}
	if cached == nil {
		cached = []*models.Comment{}
	}
	return cached, true
}

// cacheComments stores a page read at generation unless the photo's cache was
// invalidated since. genMu is held across the check and the write.
func (s *commentService) cacheComments(ctx context.Context, photoID int64, generation uint64, cacheKey string, comments []*models.Comment) {
	if !s.cacheService.IsEnabled() {
		return
	}
	s.genMu.Lock()
	defer s.genMu.Unlock()
	if s.generations[photoID] != generation {
		return
	}
	if err := s.cacheService.CacheData(ctx, cacheKey, comments); err != nil {
		log.WarnWithContext(ctx, "comment list cache write failed for %s: %v", cacheKey, err)
	}
}

func (s *commentService) generation(photoID int64) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generations[photoID]
}

func (s *commentService) invalidatePhotoComments(ctx context.Context, photoID int64) {
	if !s.cacheService.IsEnabled() {
		return
	}
	s.genMu.Lock()
	defer s.genMu.Unlock()
	s.generations[photoID]++

	if err := s.cacheService.InvalidatePattern(ctx, common.BuildPhotoCachePattern(photoID)); err != nil {
		log.WarnWithContext(ctx, "cache invalidation failed for photo %d comments: %v", photoID, err)
	}
}
