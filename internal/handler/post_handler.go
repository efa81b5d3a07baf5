package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quillblog/internal/db"
	"github.com/quillblog/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// postForm 是文章编辑页的表单数据，校验失败时用于回填。
type postForm struct {
	ID          uint
	Title       string
	Content     string
	Summary     string
	CategoryID  uint
	TagIDs      []uint
	IsPublished bool
}

// HasTag 供模板判断标签是否已勾选。
func (f postForm) HasTag(id uint) bool {
	return lo.Contains(f.TagIDs, id)
}

func (f postForm) input() service.PostInput {
	return service.PostInput{
		Title:       f.Title,
		Content:     f.Content,
		Summary:     f.Summary,
		CategoryID:  f.CategoryID,
		TagIDs:      f.TagIDs,
		IsPublished: f.IsPublished,
	}
}

func bindPostForm(c *gin.Context) postForm {
	return postForm{
		Title:       c.PostForm("title"),
		Content:     c.PostForm("content"),
		Summary:     c.PostForm("summary"),
		CategoryID:  parseUintForm(c.PostForm("category_id")),
		TagIDs:      parseUintQuerySlice(c.PostFormArray("tags")),
		IsPublished: c.PostForm("is_published") == "on",
	}
}

func postFormFrom(post *db.Post) postForm {
	return postForm{
		ID:          post.ID,
		Title:       post.Title,
		Content:     post.Content,
		Summary:     post.Summary,
		CategoryID:  post.CategoryID,
		TagIDs:      post.TagIDs(),
		IsPublished: post.IsPublished,
	}
}

// postErrorMessage 将业务错误转换为表单提示，未知错误返回空字符串。
func postErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrPostFieldsRequired):
		return "标题、内容和分类不能为空"
	case errors.Is(err, service.ErrPostFieldTooLong):
		return "标题或摘要过长"
	case errors.Is(err, service.ErrCategoryNotFound):
		return "所选分类不存在"
	default:
		return ""
	}
}

func publishMessage(post *db.Post, verb string) string {
	if post.IsPublished {
		return "文章" + verb + "并发布成功"
	}
	return "草稿" + verb + "成功"
}

// ShowAdminPosts 渲染后台文章列表，支持按状态筛选
func (a *API) ShowAdminPosts(c *gin.Context) {
	status := c.DefaultQuery("status", service.PostStatusAll)
	if status != service.PostStatusPublished && status != service.PostStatusDraft {
		status = service.PostStatusAll
	}
	page := parsePositiveInt(c.Query("page"), 1)

	result, err := a.posts.ListAdmin(status, page, a.adminPerPage)
	if err != nil {
		log.Error().Err(err).Msg("failed to list admin posts")
		a.RenderServerError(c)
		return
	}

	a.renderHTML(c, http.StatusOK, "admin/posts.html", gin.H{
		"title":      "文章管理",
		"status":     status,
		"posts":      result.Posts,
		"pagination": result.Pagination,
		"pageURL":    "/admin/posts?status=" + status + "&",
	})
}

func (a *API) renderPostForm(c *gin.Context, form postForm, message string) {
	categories, err := a.categories.List()
	if err != nil {
		log.Error().Err(err).Msg("failed to list categories")
		a.RenderServerError(c)
		return
	}
	tags, err := a.tags.List()
	if err != nil {
		log.Error().Err(err).Msg("failed to list tags")
		a.RenderServerError(c)
		return
	}

	title := "新建文章"
	action := "/admin/post/add"
	if form.ID != 0 {
		title = "编辑文章"
		action = "/admin/post/edit/" + uintToString(form.ID)
	}

	a.renderHTML(c, http.StatusOK, "admin/post_edit.html", gin.H{
		"title":      title,
		"action":     action,
		"form":       form,
		"error":      message,
		"categories": categories,
		"tags":       tags,
	})
}

// ShowCreatePost 渲染新建文章表单
func (a *API) ShowCreatePost(c *gin.Context) {
	a.renderPostForm(c, postForm{}, "")
}

// CreatePost 保存新文章，校验失败时回显表单
func (a *API) CreatePost(c *gin.Context) {
	form := bindPostForm(c)

	post, err := a.posts.Create(form.input())
	if err != nil {
		message := postErrorMessage(err)
		if message == "" {
			log.Error().Err(err).Msg("failed to create post")
			message = "保存文章失败，请稍后重试"
		}
		a.renderPostForm(c, form, message)
		return
	}

	redirectWithFlash(c, "/admin/posts", flashSuccess, publishMessage(post, "创建"))
}

// ShowEditPost 渲染文章编辑表单
func (a *API) ShowEditPost(c *gin.Context) {
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

	a.renderPostForm(c, postFormFrom(post), "")
}

// UpdatePost 保存文章修改，标签集合整体替换
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.RenderNotFound(c)
		return
	}

	form := bindPostForm(c)
	form.ID = id

	post, err := a.posts.Update(id, form.input())
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.RenderNotFound(c)
			return
		}
		message := postErrorMessage(err)
		if message == "" {
			log.Error().Err(err).Uint("post_id", id).Msg("failed to update post")
			message = "保存文章失败，请稍后重试"
		}
		a.renderPostForm(c, form, message)
		return
	}

	redirectWithFlash(c, "/admin/posts", flashSuccess, publishMessage(post, "更新"))
}

// DeletePost 删除文章及其评论
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.RenderNotFound(c)
		return
	}

	if err := a.posts.Delete(id); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.RenderNotFound(c)
			return
		}
		log.Error().Err(err).Uint("post_id", id).Msg("failed to delete post")
		redirectWithFlash(c, "/admin/posts", flashDanger, "删除文章失败")
		return
	}

	redirectWithFlash(c, "/admin/posts", flashSuccess, "文章已删除")
}
