package service

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/quillblog/internal/db"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreateDerivesSummary(t *testing.T) {
	gdb := setupServiceTestDB(t, "post-summary")
	svc := NewPostService(gdb)
	category := mustCreateCategory(t, gdb, "技术")

	post := mustCreatePost(t, svc, PostInput{Title: "Hello", Content: "World", CategoryID: category.ID})

	fetched, err := svc.Get(post.ID)
	require.NoError(t, err)
	require.Equal(t, "World", fetched.Summary)
	require.Equal(t, "技术", fetched.Category.Name)

	long := strings.Repeat("字", 250)
	post = mustCreatePost(t, svc, PostInput{Title: "Long", Content: long, CategoryID: category.ID})
	require.Equal(t, strings.Repeat("字", 200)+"...", post.Summary)

	post = mustCreatePost(t, svc, PostInput{Title: "Manual", Content: long, Summary: "  手写摘要 ", CategoryID: category.ID})
	require.Equal(t, "手写摘要", post.Summary)
}

func TestPostService_CreateValidation(t *testing.T) {
	gdb := setupServiceTestDB(t, "post-validate")
	svc := NewPostService(gdb)
	category := mustCreateCategory(t, gdb, "技术")

	_, err := svc.Create(PostInput{Title: "  ", Content: "body", CategoryID: category.ID})
	require.ErrorIs(t, err, ErrPostFieldsRequired)

	_, err = svc.Create(PostInput{Title: "title", Content: "body"})
	require.ErrorIs(t, err, ErrPostFieldsRequired)

	_, err = svc.Create(PostInput{Title: strings.Repeat("a", 201), Content: "body", CategoryID: category.ID})
	require.ErrorIs(t, err, ErrPostFieldTooLong)

	_, err = svc.Create(PostInput{Title: "title", Content: "body", CategoryID: category.ID + 100})
	require.ErrorIs(t, err, ErrCategoryNotFound)

	var count int64
	require.NoError(t, gdb.Model(&db.Post{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestPostService_UpdateReplacesTags(t *testing.T) {
	gdb := setupServiceTestDB(t, "post-tags")
	svc := NewPostService(gdb)
	category := mustCreateCategory(t, gdb, "技术")
	goTag := mustCreateTag(t, gdb, "Go")
	sqlTag := mustCreateTag(t, gdb, "SQL")
	webTag := mustCreateTag(t, gdb, "Web")

	post := mustCreatePost(t, svc, PostInput{
		Title:      "tags",
		Content:    "body",
		CategoryID: category.ID,
		TagIDs:     []uint{goTag.ID, sqlTag.ID},
	})
	require.Equal(t, []uint{goTag.ID, sqlTag.ID}, post.TagIDs())

	updated, err := svc.Update(post.ID, PostInput{
		Title:       "tags",
		Content:     "body",
		CategoryID:  category.ID,
		TagIDs:      []uint{webTag.ID, sqlTag.ID, 999, webTag.ID},
		IsPublished: true,
	})
	require.NoError(t, err)
	require.Equal(t, []uint{sqlTag.ID, webTag.ID}, updated.TagIDs())
	require.True(t, updated.IsPublished)

	cleared, err := svc.Update(post.ID, PostInput{Title: "tags", Content: "body", CategoryID: category.ID})
	require.NoError(t, err)
	require.Empty(t, cleared.Tags)

	var tagCount int64
	require.NoError(t, gdb.Model(&db.Tag{}).Count(&tagCount).Error)
	require.EqualValues(t, 3, tagCount)

	_, err = svc.Update(post.ID+100, PostInput{Title: "x", Content: "y", CategoryID: category.ID})
	require.ErrorIs(t, err, ErrPostNotFound)
}

func TestPostService_UpdateRederivesBlankSummary(t *testing.T) {
	gdb := setupServiceTestDB(t, "post-resummary")
	svc := NewPostService(gdb)
	category := mustCreateCategory(t, gdb, "技术")

	post := mustCreatePost(t, svc, PostInput{Title: "t", Content: "old body", CategoryID: category.ID})
	updated, err := svc.Update(post.ID, PostInput{Title: "t", Content: "<p>new body</p>", CategoryID: category.ID})
	require.NoError(t, err)
	require.Equal(t, "new body", updated.Summary)
}

func TestPostService_DeleteCascades(t *testing.T) {
	gdb := setupServiceTestDB(t, "post-delete")
	svc := NewPostService(gdb)
	comments := NewCommentService(gdb)
	category := mustCreateCategory(t, gdb, "生活")
	tag := mustCreateTag(t, gdb, "日常")

	post := mustCreatePost(t, svc, PostInput{
		Title:       "bye",
		Content:     "body",
		CategoryID:  category.ID,
		TagIDs:      []uint{tag.ID},
		IsPublished: true,
	})
	other := mustCreatePost(t, svc, PostInput{Title: "stay", Content: "body", CategoryID: category.ID, IsPublished: true})

	for i := 0; i < 2; i++ {
		_, err := comments.Create(post.ID, CommentInput{Author: "reader", Email: "a@b.co", Content: fmt.Sprintf("c%d", i)})
		require.NoError(t, err)
	}
	_, err := comments.Create(other.ID, CommentInput{Author: "reader", Email: "a@b.co", Content: "keep"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(post.ID))

	_, err = svc.Get(post.ID)
	require.ErrorIs(t, err, ErrPostNotFound)

	var commentCount int64
	require.NoError(t, gdb.Model(&db.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount).Error)
	require.Zero(t, commentCount)
	require.NoError(t, gdb.Model(&db.Comment{}).Count(&commentCount).Error)
	require.EqualValues(t, 1, commentCount)

	var joinRows int64
	require.NoError(t, gdb.Table("post_tags").Where("post_id = ?", post.ID).Count(&joinRows).Error)
	require.Zero(t, joinRows)

	_, err = NewCategoryService(gdb).Get(category.ID)
	require.NoError(t, err)
	_, err = NewTagService(gdb).Get(tag.ID)
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(post.ID), ErrPostNotFound)
}

func TestPostService_ListPublishedPagination(t *testing.T) {
	gdb := setupServiceTestDB(t, "post-page")
	svc := NewPostService(gdb)
	category := mustCreateCategory(t, gdb, "随笔")

	for i := 0; i < 12; i++ {
		mustCreatePost(t, svc, PostInput{
			Title:       fmt.Sprintf("post-%02d", i),
			Content:     "body",
			CategoryID:  category.ID,
			IsPublished: true,
		})
	}
	mustCreatePost(t, svc, PostInput{Title: "draft", Content: "body", CategoryID: category.ID})

	expected := map[int]int{1: 5, 2: 5, 3: 2, 4: 0}
	for page, size := range expected {
		result, err := svc.ListPublished(page, 5)
		require.NoError(t, err)
		require.Len(t, result.Posts, size, "page %d", page)
		require.EqualValues(t, 12, result.Total)
		require.Equal(t, 3, result.TotalPages)
		require.Equal(t, page, result.Page)
	}

	first, err := svc.ListPublished(1, 5)
	require.NoError(t, err)
	require.Equal(t, "post-11", first.Posts[0].Title)
	require.False(t, first.HasPrev())
	require.True(t, first.HasNext())

	fallback, err := svc.ListPublished(0, 5)
	require.NoError(t, err)
	require.Equal(t, 1, fallback.Page)
}

func TestPostService_ListPublishedHugePageIsEmpty(t *testing.T) {
	gdb := setupServiceTestDB(t, "post-huge-page")
	svc := NewPostService(gdb)
	category := mustCreateCategory(t, gdb, "随笔")

	for i := 0; i < 12; i++ {
		mustCreatePost(t, svc, PostInput{
			Title:       fmt.Sprintf("post-%02d", i),
			Content:     "body",
			CategoryID:  category.ID,
			IsPublished: true,
		})
	}

	for _, page := range []int{math.MaxInt/5 + 2, math.MaxInt} {
		result, err := svc.ListPublished(page, 5)
		require.NoError(t, err)
		require.Empty(t, result.Posts, "page %d", page)
		require.Equal(t, page, result.Page)
		require.EqualValues(t, 12, result.Total)
		require.False(t, result.HasNext())
		require.True(t, result.HasPrev())
	}
}

func TestPostService_SearchCountsOnlyPublished(t *testing.T) {
	gdb := setupServiceTestDB(t, "post-search")
	svc := NewPostService(gdb)
	category := mustCreateCategory(t, gdb, "教程")

	mustCreatePost(t, svc, PostInput{Title: "one", Content: "Learning Gopher patterns", CategoryID: category.ID, IsPublished: true})
	mustCreatePost(t, svc, PostInput{Title: "Gopher two", Content: "body", CategoryID: category.ID, IsPublished: true})
	mustCreatePost(t, svc, PostInput{Title: "three", Content: "Gopher draft", CategoryID: category.ID})
	mustCreatePost(t, svc, PostInput{Title: "four", Content: "nothing to see", CategoryID: category.ID, IsPublished: true})

	result, err := svc.Search("Gopher", 1, 5)
	require.NoError(t, err)
	require.EqualValues(t, 2, result.Total)
	require.Len(t, result.Posts, 2)

	lower, err := svc.Search("gopher", 1, 5)
	require.NoError(t, err)
	require.Zero(t, lower.Total)

	wildcard, err := svc.Search("%", 1, 5)
	require.NoError(t, err)
	require.Zero(t, wildcard.Total)
}

func TestPostService_ListByCategoryAndTag(t *testing.T) {
	gdb := setupServiceTestDB(t, "post-filter")
	svc := NewPostService(gdb)
	tech := mustCreateCategory(t, gdb, "技术")
	life := mustCreateCategory(t, gdb, "生活")
	tag := mustCreateTag(t, gdb, "Go")

	mustCreatePost(t, svc, PostInput{Title: "a", Content: "x", CategoryID: tech.ID, TagIDs: []uint{tag.ID}, IsPublished: true})
	mustCreatePost(t, svc, PostInput{Title: "b", Content: "x", CategoryID: tech.ID, TagIDs: []uint{tag.ID}})
	mustCreatePost(t, svc, PostInput{Title: "c", Content: "x", CategoryID: life.ID, TagIDs: []uint{tag.ID}, IsPublished: true})

	byCategory, err := svc.ListByCategory(tech.ID, 1, 5)
	require.NoError(t, err)
	require.EqualValues(t, 1, byCategory.Total)
	require.Equal(t, "a", byCategory.Posts[0].Title)

	byTag, err := svc.ListByTag(tag.ID, 1, 5)
	require.NoError(t, err)
	require.EqualValues(t, 2, byTag.Total)
}

func TestPostService_ListAdminFiltersStatus(t *testing.T) {
	gdb := setupServiceTestDB(t, "post-admin")
	svc := NewPostService(gdb)
	category := mustCreateCategory(t, gdb, "技术")

	mustCreatePost(t, svc, PostInput{Title: "pub", Content: "x", CategoryID: category.ID, IsPublished: true})
	mustCreatePost(t, svc, PostInput{Title: "draft-1", Content: "x", CategoryID: category.ID})
	mustCreatePost(t, svc, PostInput{Title: "draft-2", Content: "x", CategoryID: category.ID})

	cases := map[string]int64{
		PostStatusAll:       3,
		PostStatusPublished: 1,
		PostStatusDraft:     2,
		"bogus":             3,
	}
	for status, total := range cases {
		result, err := svc.ListAdmin(status, 1, 10)
		require.NoError(t, err)
		require.Equal(t, total, result.Total, "status %s", status)
	}
}

func TestPostService_IncrementViews(t *testing.T) {
	gdb := setupServiceTestDB(t, "post-views")
	svc := NewPostService(gdb)
	category := mustCreateCategory(t, gdb, "技术")
	post := mustCreatePost(t, svc, PostInput{Title: "v", Content: "x", CategoryID: category.ID, IsPublished: true})

	for i := 0; i < 7; i++ {
		require.NoError(t, svc.IncrementViews(post.ID))
	}

	fetched, err := svc.Get(post.ID)
	require.NoError(t, err)
	require.Equal(t, 7, fetched.Views)

	require.ErrorIs(t, svc.IncrementViews(post.ID+100), ErrPostNotFound)
}

func TestPostService_NeighborsSkipDrafts(t *testing.T) {
	gdb := setupServiceTestDB(t, "post-neighbors")
	svc := NewPostService(gdb)
	category := mustCreateCategory(t, gdb, "技术")

	first := mustCreatePost(t, svc, PostInput{Title: "first", Content: "x", CategoryID: category.ID, IsPublished: true})
	mustCreatePost(t, svc, PostInput{Title: "draft", Content: "x", CategoryID: category.ID})
	middle := mustCreatePost(t, svc, PostInput{Title: "middle", Content: "x", CategoryID: category.ID, IsPublished: true})
	last := mustCreatePost(t, svc, PostInput{Title: "last", Content: "x", CategoryID: category.ID, IsPublished: true})

	prev, next, err := svc.Neighbors(middle.ID)
	require.NoError(t, err)
	require.NotNil(t, prev)
	require.NotNil(t, next)
	require.Equal(t, first.ID, prev.ID)
	require.Equal(t, last.ID, next.ID)

	prev, next, err = svc.Neighbors(first.ID)
	require.NoError(t, err)
	require.Nil(t, prev)
	require.NotNil(t, next)
}

func TestPostService_ListAttachesCommentCounts(t *testing.T) {
	gdb := setupServiceTestDB(t, "post-comment-count")
	svc := NewPostService(gdb)
	comments := NewCommentService(gdb)
	category := mustCreateCategory(t, gdb, "技术")
	post := mustCreatePost(t, svc, PostInput{Title: "c", Content: "x", CategoryID: category.ID, IsPublished: true})

	for i := 0; i < 3; i++ {
		_, err := comments.Create(post.ID, CommentInput{Author: "r", Email: "r@x.io", Content: "hi"})
		require.NoError(t, err)
	}

	result, err := svc.ListPublished(1, 5)
	require.NoError(t, err)
	require.Len(t, result.Posts, 1)
	require.EqualValues(t, 3, result.Posts[0].CommentCount)
}
