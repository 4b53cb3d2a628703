package models

import (
	"encoding/json"
	"time"
)

// Comment is a stored comment on a photo
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    Author    `json:"author"`
	PhotoID   int64     `json:"photoId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Author identifies who wrote a comment. It is stored as given.
type Author struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UnmarshalJSON also accepts the legacy "_id" key for the author id.
func (a *Author) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       *int64 `json:"id"`
		LegacyID *int64 `json:"_id"`
		Name     string `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Name = raw.Name
	switch {
	case raw.ID != nil:
		a.ID = *raw.ID
	case raw.LegacyID != nil:
		a.ID = *raw.LegacyID
	default:
		a.ID = 0
	}
	return nil
}

// CommentDraft is the unvalidated input for creating a comment
type CommentDraft struct {
	Text    string  `json:"text"`
	Author  *Author `json:"author"`
	PhotoID int64   `json:"photoId"`
}

// CommentQueryParams carries list parameters as they arrive on the wire.
// limit/offset and the legacy size/from are both accepted; limit/offset win.
type CommentQueryParams struct {
	PhotoID *int64 `json:"photoId" schema:"photoId"`
	Limit   *int   `json:"limit" schema:"limit"`
	Offset  *int   `json:"offset" schema:"offset"`
	Size    *int   `json:"size" schema:"size"`
	From    *int   `json:"from" schema:"from"`
}

// CountCommentsRequest is the body of the counts endpoint. PhotoIDs is kept
// raw because clients send an array, a scalar, or a JSON-encoded string.
type CountCommentsRequest struct {
	PhotoIDs json.RawMessage `json:"photoIds"`
}

// CreateCommentResponse is returned after a successful create
type CreateCommentResponse struct {
	ID string `json:"id"`
}

// CommentsListResponse wraps one page of comments
type CommentsListResponse struct {
	Result []*Comment `json:"result"`
}

// CommentCountsResponse maps each requested photo id to its comment count
type CommentCountsResponse struct {
	Result map[int64]int64 `json:"result"`
}
