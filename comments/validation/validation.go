package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/qolzam/telar/apps/photo-comments/comments/models"
)

// MaxCommentTextLength is the longest accepted comment text, in characters
const MaxCommentTextLength = 1000

// ValidateCommentDraft checks the fields a comment needs before any I/O happens
func ValidateCommentDraft(draft *models.CommentDraft) error {
	if draft == nil {
		return fmt.Errorf("request is required")
	}

	var missing []string
	if strings.TrimSpace(draft.Text) == "" {
		missing = append(missing, "text")
	}
	if draft.Author == nil {
		missing = append(missing, "author")
	}
	if draft.PhotoID == 0 {
		missing = append(missing, "photoId")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s required", strings.Join(missing, ", "))
	}

	if draft.PhotoID < 0 {
		return fmt.Errorf("photoId must be a positive integer")
	}
	if utf8.RuneCountInString(draft.Text) > MaxCommentTextLength {
		return fmt.Errorf("text must be at most %d characters", MaxCommentTextLength)
	}
	return nil
}

// ValidateListParams checks resolved list parameters
func ValidateListParams(photoID int64, limit, offset int) error {
	if photoID <= 0 {
		return fmt.Errorf("photoId must be a positive integer")
	}
	if limit < 1 {
		return fmt.Errorf("limit must be at least 1")
	}
	if offset < 0 {
		return fmt.Errorf("offset must not be negative")
	}
	return nil
}

// ValidatePhotoIDs checks every id of a count request
func ValidatePhotoIDs(photoIDs []int64) error {
	for _, id := range photoIDs {
		if id <= 0 {
			return fmt.Errorf("photoIds must be positive integers, got %d", id)
		}
	}
	return nil
}

// ParsePhotoIDs normalizes the photoIds field of a count request. Accepted
// shapes: [1, 2], 1, "1", "[1, 2]" and arrays of numeric strings.
func ParsePhotoIDs(raw json.RawMessage) ([]int64, error) {
	return parsePhotoIDs(bytes.TrimSpace(raw), true)
}

func parsePhotoIDs(raw []byte, allowEncoded bool) ([]int64, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("photoIds is required")
	}

	switch raw[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("photoIds must be an array of integers")
		}
		ids := make([]int64, 0, len(items))
		for _, item := range items {
			id, err := parsePhotoIDScalar(bytes.TrimSpace(item))
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return ids, nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("photoIds must be a valid JSON string")
		}
		s = strings.TrimSpace(s)
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			return []int64{id}, nil
		}
		if !allowEncoded {
			return nil, fmt.Errorf("photoIds: %q is not an integer", s)
		}
		return parsePhotoIDs([]byte(s), false)
	default:
		id, err := parsePhotoIDScalar(raw)
		if err != nil {
			return nil, err
		}
		return []int64{id}, nil
	}
}

func parsePhotoIDScalar(raw []byte) (int64, error) {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("photoIds must contain integers")
		}
		raw = []byte(strings.TrimSpace(s))
	}
	id, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("photoIds: %s is not an integer", raw)
	}
	return id, nil
}
