package common

import (
	"strconv"
	"strings"
)

const commentsKeyPrefix = "comments:photo:"

// BuildCommentListCacheKey keeps list cache keys consistent between reads and invalidation.
func BuildCommentListCacheKey(photoID int64, limit, offset int) string {
	keyBuilder := strings.Builder{}
	keyBuilder.Grow(48)

	keyBuilder.WriteString(commentsKeyPrefix)
	keyBuilder.WriteString(strconv.FormatInt(photoID, 10))
	keyBuilder.WriteString(":limit:")
	keyBuilder.WriteString(strconv.Itoa(limit))
	keyBuilder.WriteString(":offset:")
	keyBuilder.WriteString(strconv.Itoa(offset))

	return keyBuilder.String()
}

// BuildPhotoCachePattern matches every cached list page for one photo.
func BuildPhotoCachePattern(photoID int64) string {
	return commentsKeyPrefix + strconv.FormatInt(photoID, 10) + ":*"
}

// UniquePhotoIDs returns ids without duplicates, preserving first-seen order.
func UniquePhotoIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
