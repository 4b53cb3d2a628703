// Package photos talks to the service that owns photo records.
package photos

import (
	"context"
	"errors"
)

// ErrPhotoServiceUnavailable is returned when the photo service could not
// give a definite answer (transport failure, timeout, unexpected status).
var ErrPhotoServiceUnavailable = errors.New("photo service unavailable")

// Checker confirms that a photo exists before a comment is attached to it.
type Checker interface {
	// Exists reports whether photoID refers to an existing photo. A non-nil
	// error means the answer is unknown, never that the photo is absent.
	Exists(ctx context.Context, photoID int64) (bool, error)
}
