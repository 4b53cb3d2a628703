// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	commentsErrors "github.com/qolzam/telar/apps/photo-comments/comments/errors"
	"github.com/qolzam/telar/apps/photo-comments/comments/models"
	"github.com/qolzam/telar/apps/photo-comments/comments/services/mocks"
	"github.com/qolzam/telar/apps/photo-comments/internal/cache"
	platformconfig "github.com/qolzam/telar/apps/photo-comments/internal/platform/config"
	"github.com/qolzam/telar/apps/photo-comments/internal/testutil"
	"github.com/qolzam/telar/apps/photo-comments/photos"
)

func createTestDraft() *models.CommentDraft {
	return &models.CommentDraft{
		Text:    "nice shot",
		Author:  &models.Author{ID: 2, Name: "Test"},
		PhotoID: 2,
	}
}

func setupTestService() (*commentService, *mocks.MockCommentRepository, *mocks.MockPhotoChecker) {
	mockCommentRepo := &mocks.MockCommentRepository{}
	mockChecker := &mocks.MockPhotoChecker{}
	cfg := &platformconfig.Config{Pagination: platformconfig.PaginationConfig{DefaultLimit: 10, MaxLimit: 100}}
	svc := NewCommentService(mockCommentRepo, mockChecker, nil, cfg).(*commentService)
	return svc, mockCommentRepo, mockChecker
}

func TestCreateComment_ValidDraft_Success(t *testing.T) {
	service, mockCommentRepo, mockChecker := setupTestService()
	ctx := context.Background()
	draft := createTestDraft()

	mockChecker.On("Exists", ctx, int64(2)).Return(true, nil)
	mockCommentRepo.On("Create", ctx, mock.AnythingOfType("*models.Comment")).Return(nil).Run(func(args mock.Arguments) {
		comment := args.Get(1).(*models.Comment)
		assert.Equal(t, "nice shot", comment.Text)
		assert.Equal(t, models.Author{ID: 2, Name: "Test"}, comment.Author)
		assert.Equal(t, int64(2), comment.PhotoID)
		comment.ID = "c-1"
		comment.CreatedAt = time.Now()
	})

	id, err := service.CreateComment(ctx, draft)

	require.NoError(t, err)
	assert.Equal(t, "c-1", id)
	mockChecker.AssertExpectations(t)
	mockCommentRepo.AssertExpectations(t)
}

func TestCreateComment_MissingFields_NoCheckNoWrite(t *testing.T) {
	drafts := map[string]*models.CommentDraft{
		"nil draft":   nil,
		"empty text":  {Author: &models.Author{ID: 1}, PhotoID: 2},
		"nil author":  {Text: "hi", PhotoID: 2},
		"no photo id": {Text: "hi", Author: &models.Author{ID: 1}},
	}

	for name, draft := range drafts {
		t.Run(name, func(t *testing.T) {
			service, mockCommentRepo, mockChecker := setupTestService()

			id, err := service.CreateComment(context.Background(), draft)

			assert.Empty(t, id)
			assert.ErrorIs(t, err, commentsErrors.ErrValidationFailed)
			assert.NotErrorIs(t, err, commentsErrors.ErrPhotoNotFound)
			mockChecker.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
			mockCommentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateComment_PhotoMissing_ValidationErrorNoWrite(t *testing.T) {
	service, mockCommentRepo, mockChecker := setupTestService()
	ctx := context.Background()

	mockChecker.On("Exists", ctx, int64(2)).Return(false, nil)

	id, err := service.CreateComment(ctx, createTestDraft())

	assert.Empty(t, id)
	assert.ErrorIs(t, err, commentsErrors.ErrPhotoNotFound)
	assert.ErrorIs(t, err, commentsErrors.ErrValidationFailed)
	mockCommentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateComment_CheckerFailure_DependencyErrorNoWrite(t *testing.T) {
	service, mockCommentRepo, mockChecker := setupTestService()
	ctx := context.Background()
	checkErr := fmt.Errorf("%w: connection refused", photos.ErrPhotoServiceUnavailable)

	mockChecker.On("Exists", ctx, int64(2)).Return(false, checkErr)

	_, err := service.CreateComment(ctx, createTestDraft())

	assert.ErrorIs(t, err, commentsErrors.ErrDependencyFailed)
	assert.ErrorIs(t, err, photos.ErrPhotoServiceUnavailable)
	assert.NotErrorIs(t, err, commentsErrors.ErrValidationFailed)
	mockCommentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateComment_StoreFailure_StorageError(t *testing.T) {
	service, mockCommentRepo, mockChecker := setupTestService()
	ctx := context.Background()

	mockChecker.On("Exists", ctx, int64(2)).Return(true, nil)
	mockCommentRepo.On("Create", ctx, mock.AnythingOfType("*models.Comment")).Return(errors.New("write timeout")).Once()

	_, err := service.CreateComment(ctx, createTestDraft())

	assert.ErrorIs(t, err, commentsErrors.ErrDatabaseOperation)
	mockCommentRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestListComments_PassesPagination(t *testing.T) {
	service, mockCommentRepo, _ := setupTestService()
	ctx := context.Background()
	page := []*models.Comment{{ID: "b"}, {ID: "a"}}

	mockCommentRepo.On("FindByPhotoID", ctx, int64(2), 5, 10).Return(page, nil)

	comments, err := service.ListComments(ctx, 2, 5, 10)

	require.NoError(t, err)
	assert.Equal(t, page, comments)
	mockCommentRepo.AssertExpectations(t)
}

func TestListComments_ClampsLimit(t *testing.T) {
	service, mockCommentRepo, _ := setupTestService()
	ctx := context.Background()

	mockCommentRepo.On("FindByPhotoID", ctx, int64(2), 100, 0).Return([]*models.Comment{}, nil)

	_, err := service.ListComments(ctx, 2, 5000, 0)

	require.NoError(t, err)
	mockCommentRepo.AssertExpectations(t)
}

func TestListComments_EmptyIsSuccess(t *testing.T) {
	service, mockCommentRepo, _ := setupTestService()
	ctx := context.Background()

	mockCommentRepo.On("FindByPhotoID", ctx, int64(7), 10, 0).Return(nil, nil)

	comments, err := service.ListComments(ctx, 7, 10, 0)

	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}

func TestListComments_InvalidParams(t *testing.T) {
	tests := []struct {
		name          string
		photoID       int64
		limit, offset int
	}{
		{"zero photo", 0, 10, 0},
		{"zero limit", 1, 0, 0},
		{"negative offset", 1, 10, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockCommentRepo, _ := setupTestService()

			_, err := service.ListComments(context.Background(), tt.photoID, tt.limit, tt.offset)

			assert.ErrorIs(t, err, commentsErrors.ErrValidationFailed)
			mockCommentRepo.AssertNotCalled(t, "FindByPhotoID", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestListComments_StoreFailure(t *testing.T) {
	service, mockCommentRepo, _ := setupTestService()
	ctx := context.Background()

	mockCommentRepo.On("FindByPhotoID", ctx, int64(2), 10, 0).Return(nil, errors.New("cursor killed"))

	comments, err := service.ListComments(ctx, 2, 10, 0)

	assert.Nil(t, comments)
	assert.ErrorIs(t, err, commentsErrors.ErrDatabaseOperation)
}

func TestCountComments_ZeroFill(t *testing.T) {
	service, mockCommentRepo, _ := setupTestService()
	ctx := context.Background()

	mockCommentRepo.On("CountByPhotoIDs", ctx, []int64{2, 1}).Return(map[int64]int64{2: 8}, nil)

	counts, err := service.CountComments(ctx, []int64{2, 1})

	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{2: 8, 1: 0}, counts)
}

func TestCountComments_DuplicatesQueriedOnce(t *testing.T) {
	service, mockCommentRepo, _ := setupTestService()
	ctx := context.Background()

	mockCommentRepo.On("CountByPhotoIDs", ctx, []int64{3, 4}).Return(map[int64]int64{}, nil)

	counts, err := service.CountComments(ctx, []int64{3, 4, 3})

	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{3: 0, 4: 0}, counts)
	mockCommentRepo.AssertNumberOfCalls(t, "CountByPhotoIDs", 1)
}

func TestCountComments_EmptyInputSkipsStore(t *testing.T) {
	service, mockCommentRepo, _ := setupTestService()

	counts, err := service.CountComments(context.Background(), []int64{})

	require.NoError(t, err)
	assert.NotNil(t, counts)
	assert.Empty(t, counts)
	mockCommentRepo.AssertNotCalled(t, "CountByPhotoIDs", mock.Anything, mock.Anything)
}

func TestCountComments_InvalidID(t *testing.T) {
	service, mockCommentRepo, _ := setupTestService()

	_, err := service.CountComments(context.Background(), []int64{1, -4})

	assert.ErrorIs(t, err, commentsErrors.ErrValidationFailed)
	mockCommentRepo.AssertNotCalled(t, "CountByPhotoIDs", mock.Anything, mock.Anything)
}

func TestCountComments_StoreFailure(t *testing.T) {
	service, mockCommentRepo, _ := setupTestService()
	ctx := context.Background()

	mockCommentRepo.On("CountByPhotoIDs", ctx, []int64{1}).Return(nil, errors.New("aggregate failed"))

	_, err := service.CountComments(ctx, []int64{1})

	assert.ErrorIs(t, err, commentsErrors.ErrDatabaseOperation)
}

func TestListComments_UsesCacheAndCreateInvalidatesIt(t *testing.T) {
	ctx := context.Background()
	mockCommentRepo := &mocks.MockCommentRepository{}
	mockChecker := &mocks.MockPhotoChecker{}
	backend := cache.NewMemoryCache(0, 0)
	defer backend.Close()
	cacheService := cache.NewGenericCacheService(backend, "test", time.Minute)
	service := NewCommentService(mockCommentRepo, mockChecker, cacheService, nil)

	first := []*models.Comment{{ID: "a", Text: "old", PhotoID: 2}}
	second := []*models.Comment{{ID: "b", Text: "new", PhotoID: 2}, {ID: "a", Text: "old", PhotoID: 2}}

	mockCommentRepo.On("FindByPhotoID", ctx, int64(2), 10, 0).Return(first, nil).Once()

	got, err := service.ListComments(ctx, 2, 10, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = service.ListComments(ctx, 2, 10, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1, "second read is served from cache")
	mockCommentRepo.AssertNumberOfCalls(t, "FindByPhotoID", 1)

	mockChecker.On("Exists", ctx, int64(2)).Return(true, nil)
	mockCommentRepo.On("Create", ctx, mock.AnythingOfType("*models.Comment")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Comment).ID = "b"
	})
	_, err = service.CreateComment(ctx, createTestDraft())
	require.NoError(t, err)

	mockCommentRepo.On("FindByPhotoID", ctx, int64(2), 10, 0).Return(second, nil).Once()

	got, err = service.ListComments(ctx, 2, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	mockCommentRepo.AssertNumberOfCalls(t, "FindByPhotoID", 2)
}

func TestScenario_CreateThenList(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewMemoryCommentRepository()
	checker := &testutil.FakePhotoChecker{Photos: map[int64]bool{2: true}}
	service := NewCommentService(repo, checker, nil, nil)

	_, err := service.CreateComment(ctx, &models.CommentDraft{Text: "first", Author: &models.Author{ID: 1, Name: "ann"}, PhotoID: 2})
	require.NoError(t, err)

	id, err := service.CreateComment(ctx, createTestDraft())
	require.NoError(t, err)

	comments, err := service.ListComments(ctx, 2, 10, 0)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, id, comments[0].ID)
	assert.Equal(t, "nice shot", comments[0].Text)
	assert.Equal(t, models.Author{ID: 2, Name: "Test"}, comments[0].Author)
	assert.False(t, comments[0].CreatedAt.Before(comments[1].CreatedAt))

	page, err := service.ListComments(ctx, 2, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "first", page[0].Text)

	_, err = service.CreateComment(ctx, &models.CommentDraft{Text: "lost", Author: &models.Author{ID: 1}, PhotoID: 99})
	assert.ErrorIs(t, err, commentsErrors.ErrPhotoNotFound)
	assert.Equal(t, 2, repo.Len())
}

func TestScenario_CountsWithZeroFill(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewMemoryCommentRepository()
	checker := &testutil.FakePhotoChecker{Photos: map[int64]bool{2: true}}
	service := NewCommentService(repo, checker, nil, nil)

	for i := 0; i < 8; i++ {
		_, err := service.CreateComment(ctx, &models.CommentDraft{
			Text: fmt.Sprintf("comment %d", i), Author: &models.Author{ID: 1}, PhotoID: 2,
		})
		require.NoError(t, err)
	}

	counts, err := service.CountComments(ctx, []int64{2, 1})
	require.NoError(t, err)
	assert.Equal(t, map[int64]int64{2: 8, 1: 0}, counts)
}

// interleavingRepository runs afterFind once, right after a store read returns.
type interleavingRepository struct {
	*testutil.MemoryCommentRepository
	afterFind func()
}

func (r *interleavingRepository) FindByPhotoID(ctx context.Context, photoID int64, limit, offset int) ([]*models.Comment, error) {
	comments, err := r.MemoryCommentRepository.FindByPhotoID(ctx, photoID, limit, offset)
	if hook := r.afterFind; hook != nil {
		r.afterFind = nil
		hook()
	}
	return comments, err
}

func TestListComments_CreateDuringReadIsNotHiddenByCache(t *testing.T) {
	ctx := context.Background()
	repo := &interleavingRepository{MemoryCommentRepository: testutil.NewMemoryCommentRepository()}
	checker := &testutil.FakePhotoChecker{Photos: map[int64]bool{2: true}}
	backend := cache.NewMemoryCache(0, 0)
	defer backend.Close()
	service := NewCommentService(repo, checker, cache.NewGenericCacheService(backend, "test", time.Minute), nil)

	_, err := service.CreateComment(ctx, &models.CommentDraft{Text: "first", Author: &models.Author{ID: 1, Name: "ann"}, PhotoID: 2})
	require.NoError(t, err)

	var createdID string
	repo.afterFind = func() {
		id, err := service.CreateComment(ctx, createTestDraft())
		require.NoError(t, err)
		createdID = id
	}

	page, err := service.ListComments(ctx, 2, 10, 0)
	require.NoError(t, err)
	assert.Len(t, page, 1, "read happened before the create")

	page, err = service.ListComments(ctx, 2, 10, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, createdID, page[0].ID)
}
