package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/qolzam/telar/apps/photo-comments/photos"
)

// MockPhotoChecker is a mock implementation of photos.Checker
type MockPhotoChecker struct {
	mock.Mock
}

var _ photos.Checker = (*MockPhotoChecker)(nil)

func (m *MockPhotoChecker) Exists(ctx context.Context, photoID int64) (bool, error) {
	args := m.Called(ctx, photoID)
	return args.Bool(0), args.Error(1)
}
