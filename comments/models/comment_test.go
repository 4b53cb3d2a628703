package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthor_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Author
	}{
		{"id key", `{"id": 7, "name": "ann"}`, Author{ID: 7, Name: "ann"}},
		{"legacy _id key", `{"_id": 2, "name": "Test"}`, Author{ID: 2, Name: "Test"}},
		{"id wins over _id", `{"id": 1, "_id": 2, "name": "x"}`, Author{ID: 1, Name: "x"}},
		{"empty object", `{}`, Author{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Author
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommentDraft_NullAuthor(t *testing.T) {
	var draft CommentDraft
	require.NoError(t, json.Unmarshal([]byte(`{"text": "hi", "author": null, "photoId": 3}`), &draft))
	assert.Nil(t, draft.Author)
	assert.Equal(t, int64(3), draft.PhotoID)
}

func TestCommentCountsResponse_KeysAreStrings(t *testing.T) {
	out, err := json.Marshal(CommentCountsResponse{Result: map[int64]int64{2: 8, 1: 0}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"result": {"1": 0, "2": 8}}`, string(out))
}
