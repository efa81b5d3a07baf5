package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quillblog/internal/service"
	"github.com/rs/zerolog/log"
)

// ShowIndex renders the paginated list of published posts.
func (a *API) ShowIndex(c *gin.Context) {
	page := parsePositiveInt(c.Query("page"), 1)

	result, err := a.posts.ListPublished(page, a.postsPerPage)
	if err != nil {
		log.Error().Err(err).Msg("failed to list posts")
		a.RenderServerError(c)
		return
	}

	a.renderPublic(c, http.StatusOK, "index.html", gin.H{
		"title":      "首页",
		"posts":      result.Posts,
		"pagination": result.Pagination,
		"pageURL":    "/?",
	})
}

// ShowPost 渲染文章详情，草稿仅对已登录管理员可见，每次访问阅读数加一。
func (a *API) ShowPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.RenderNotFound(c)
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.RenderNotFound(c)
			return
		}
		log.Error().Err(err).Uint("post_id", id).Msg("failed to load post")
		a.RenderServerError(c)
		return
	}
	if !post.IsPublished && currentAdmin(c) == nil {
		a.RenderNotFound(c)
		return
	}

	if err := a.posts.IncrementViews(post.ID); err != nil {
		log.Error().Err(err).Uint("post_id", post.ID).Msg("failed to increment views")
	} else {
		post.Views++
	}

	comments, err := a.comments.ListForPost(post.ID)
	if err != nil {
		log.Error().Err(err).Uint("post_id", post.ID).Msg("failed to load comments")
		a.RenderServerError(c)
		return
	}

	prev, next, err := a.posts.Neighbors(post.ID)
	if err != nil {
		log.Error().Err(err).Uint("post_id", post.ID).Msg("failed to load neighbors")
		a.RenderServerError(c)
		return
	}

	a.renderPublic(c, http.StatusOK, "post.html", gin.H{
		"title":    post.Title,
		"post":     post,
		"comments": comments,
		"prevPost": prev,
		"nextPost": next,
	})
}

// ShowCategory 渲染分类下的已发布文章
func (a *API) ShowCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.RenderNotFound(c)
		return
	}

	category, err := a.categories.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			a.RenderNotFound(c)
			return
		}
		log.Error().Err(err).Uint("category_id", id).Msg("failed to load category")
		a.RenderServerError(c)
		return
	}

	page := parsePositiveInt(c.Query("page"), 1)
	result, err := a.posts.ListByCategory(category.ID, page, a.postsPerPage)
	if err != nil {
		log.Error().Err(err).Uint("category_id", id).Msg("failed to list category posts")
		a.RenderServerError(c)
		return
	}

	a.renderPublic(c, http.StatusOK, "category.html", gin.H{
		"title":      "分类：" + category.Name,
		"category":   category,
		"posts":      result.Posts,
		"pagination": result.Pagination,
		"pageURL":    "/category/" + uintToString(category.ID) + "?",
	})
}

// ShowTag 渲染带有指定标签的已发布文章
func (a *API) ShowTag(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.RenderNotFound(c)
		return
	}

	tag, err := a.tags.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrTagNotFound) {
			a.RenderNotFound(c)
			return
		}
		log.Error().Err(err).Uint("tag_id", id).Msg("failed to load tag")
		a.RenderServerError(c)
		return
	}

	page := parsePositiveInt(c.Query("page"), 1)
	result, err := a.posts.ListByTag(tag.ID, page, a.postsPerPage)
	if err != nil {
		log.Error().Err(err).Uint("tag_id", id).Msg("failed to list tag posts")
		a.RenderServerError(c)
		return
	}

	a.renderPublic(c, http.StatusOK, "tag.html", gin.H{
		"title":      "标签：" + tag.Name,
		"tag":        tag,
		"posts":      result.Posts,
		"pagination": result.Pagination,
		"pageURL":    "/tag/" + uintToString(tag.ID) + "?",
	})
}

// Search 按关键词检索已发布文章，关键词为空时回到首页
func (a *API) Search(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("q"))
	if keyword == "" {
		redirectWithFlash(c, "/", flashWarning, "请输入搜索关键词")
		return
	}

	page := parsePositiveInt(c.Query("page"), 1)
	result, err := a.posts.Search(keyword, page, a.postsPerPage)
	if err != nil {
		log.Error().Err(err).Str("keyword", keyword).Msg("failed to search posts")
		a.RenderServerError(c)
		return
	}

	a.renderPublic(c, http.StatusOK, "search.html", gin.H{
		"title":      "搜索：" + keyword,
		"keyword":    keyword,
		"total":      result.Total,
		"posts":      result.Posts,
		"pagination": result.Pagination,
		"pageURL":    "/search?" + url.Values{"q": {keyword}}.Encode() + "&",
	})
}
