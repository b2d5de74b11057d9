package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"modam/internal/models"
)

func boardPost(id uint, category string, age time.Duration, views, likes, comments int) *models.Post {
	return &models.Post{
		ID:           id,
		Title:        "post",
		Category:     category,
		ViewCount:    views,
		LikeCount:    likes,
		CommentCount: comments,
		CreatedAt:    time.Now().Add(-age),
	}
}

func ids(posts []*models.Post) []uint {
	out := make([]uint, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestSortPostsNoticesFirstUnderEveryKey(t *testing.T) {
	keys := []string{SortLatest, SortViews, SortLikes, SortComments}
	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			posts := []*models.Post{
				boardPost(1, models.CategoryQuestion, time.Minute, 999, 999, 999),
				boardPost(2, models.CategoryNotice, 48*time.Hour, 0, 0, 0),
				boardPost(3, models.CategoryInfo, time.Hour, 500, 500, 500),
			}
			SortPosts(posts, key)
			assert.Equal(t, uint(2), posts[0].ID, "the notice must lead even with the lowest counters")
		})
	}
}

func TestSortPostsByKeyWithinPartition(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want []uint
	}{
		{name: "latest is newest first", key: SortLatest, want: []uint{10, 3, 1, 2}},
		{name: "views descending", key: SortViews, want: []uint{10, 2, 1, 3}},
		{name: "likes descending", key: SortLikes, want: []uint{10, 1, 3, 2}},
		{name: "comments descending", key: SortComments, want: []uint{10, 3, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := []*models.Post{
				boardPost(1, models.CategoryQuestion, 2*time.Hour, 20, 9, 1),
				boardPost(2, models.CategoryExperience, 3*time.Hour, 30, 1, 2),
				boardPost(3, models.CategoryInfo, time.Hour, 10, 5, 3),
				boardPost(10, models.CategoryNotice, 72*time.Hour, 40, 40, 40),
			}
			SortPosts(posts, tt.key)
			assert.Equal(t, tt.want, ids(posts))
		})
	}
}

func TestSortPostsIsStableOnTies(t *testing.T) {
	posts := []*models.Post{
		boardPost(1, models.CategoryQuestion, time.Hour, 7, 0, 0),
		boardPost(2, models.CategoryQuestion, 2*time.Hour, 7, 0, 0),
		boardPost(3, models.CategoryQuestion, 3*time.Hour, 7, 0, 0),
	}
	SortPosts(posts, SortViews)
	assert.Equal(t, []uint{1, 2, 3}, ids(posts), "equal view counts keep their incoming order")
}

func TestValidSortKey(t *testing.T) {
	assert.True(t, ValidSortKey(SortLatest))
	assert.True(t, ValidSortKey(SortComments))
	assert.False(t, ValidSortKey("popularity"))
}
