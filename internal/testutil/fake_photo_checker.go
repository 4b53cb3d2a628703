package testutil

import (
	"context"
	"sync/atomic"
)

// FakePhotoChecker is a test-only implementation of the photos.Checker interface.
type FakePhotoChecker struct {
	// Photos lists the ids that exist.
	Photos map[int64]bool
	// Err, when set, is returned for every call.
	Err error

	calls int32
}

// Exists implements the photos.Checker interface for tests.
func (f *FakePhotoChecker) Exists(ctx context.Context, photoID int64) (bool, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.Err != nil {
		return false, f.Err
	}
	return f.Photos[photoID], nil
}

// Calls reports how many times Exists was invoked.
func (f *FakePhotoChecker) Calls() int {
	return int(atomic.LoadInt32(&f.calls))
}
