package photos

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/qolzam/telar/apps/photo-comments/internal/pkg/log"
	"github.com/qolzam/telar/apps/photo-comments/internal/platform/config"
)

// httpChecker asks the photo service for GET {path} with {photoId} substituted.
// A 2xx with a non-empty body means the photo exists. An empty 2xx body or
// an empty 404 means it does not (JSON "" and null count as empty). Any other
// response is a call failure.
type httpChecker struct {
	client *resty.Client
	path   string
}

// NewHTTPChecker builds a Checker backed by the photo service HTTP API.
func NewHTTPChecker(cfg config.PhotoServiceConfig) (Checker, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("photo service base url cannot be empty")
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{})

	if cfg.RetryCount > 0 {
		wait := cfg.RetryWait
		if wait <= 0 {
			wait = 100 * time.Millisecond
		}
		client.
			SetRetryCount(cfg.RetryCount).
			SetRetryWaitTime(wait).
			SetRetryMaxWaitTime(4 * wait).
			AddRetryCondition(func(r *resty.Response, err error) bool {
				return err != nil || r.StatusCode() >= http.StatusInternalServerError
			})
	}

	return &httpChecker{client: client, path: cfg.Path}, nil
}

func (c *httpChecker) Exists(ctx context.Context, photoID int64) (bool, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("photoId", strconv.FormatInt(photoID, 10)).
		Get(c.path)
	if err != nil {
		return false, fmt.Errorf("%w: photo %d: %v", ErrPhotoServiceUnavailable, photoID, err)
	}

	switch {
	case resp.IsSuccess():
		return !isEmptyBody(resp.Body()), nil
	case resp.StatusCode() == http.StatusNotFound && isEmptyBody(resp.Body()):
		return false, nil
	default:
		return false, fmt.Errorf("%w: photo %d: unexpected status %d", ErrPhotoServiceUnavailable, photoID, resp.StatusCode())
	}
}

func isEmptyBody(body []byte) bool {
	body = bytes.TrimSpace(body)
	return len(body) == 0 || bytes.Equal(body, []byte(`""`)) || bytes.Equal(body, []byte("null"))
}

// restyLogger routes resty's internal messages through the service logger.
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...interface{}) { log.Error("resty: "+format, v...) }
func (restyLogger) Warnf(format string, v ...interface{})  { log.Warn("resty: "+format, v...) }
func (restyLogger) Debugf(format string, v ...interface{}) { log.Debug("resty: "+format, v...) }
