package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quillblog/internal/service"
	"github.com/rs/zerolog/log"
)

// AddComment 提交评论，无论成功与否都回到文章页并给出提示
func (a *API) AddComment(c *gin.Context) {
	postID, err := parseUintParam(c, "post_id")
	if err != nil {
		a.RenderNotFound(c)
		return
	}
	target := "/post/" + uintToString(postID)

	_, err = a.comments.Create(postID, service.CommentInput{
		Author:  c.PostForm("author"),
		Email:   c.PostForm("email"),
		Content: c.PostForm("content"),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommentFieldsRequired):
			redirectWithFlash(c, target, flashDanger, "请填写所有必填字段")
		case errors.Is(err, service.ErrInvalidEmail):
			redirectWithFlash(c, target, flashDanger, "请输入有效的邮箱地址")
		case errors.Is(err, service.ErrCommentFieldTooLong):
			redirectWithFlash(c, target, flashDanger, "昵称或邮箱过长")
		case errors.Is(err, service.ErrPostNotFound):
			redirectWithFlash(c, target, flashDanger, "文章不存在，评论提交失败")
		default:
			log.Error().Err(err).Uint("post_id", postID).Msg("failed to create comment")
			redirectWithFlash(c, target, flashDanger, "评论提交失败，请稍后重试")
		}
		return
	}

	redirectWithFlash(c, target, flashSuccess, "评论发表成功")
}

// ShowAdminComments 渲染评论管理列表
func (a *API) ShowAdminComments(c *gin.Context) {
	page := parsePositiveInt(c.Query("page"), 1)
	result, err := a.comments.ListAdmin(page, a.adminPerPage)
	if err != nil {
		log.Error().Err(err).Msg("failed to list comments")
		a.RenderServerError(c)
		return
	}

	a.renderHTML(c, http.StatusOK, "admin/comments.html", gin.H{
		"title":      "评论管理",
		"comments":   result.Comments,
		"pagination": result.Pagination,
		"pageURL":    "/admin/comments?",
	})
}

// DeleteComment 删除评论
func (a *API) DeleteComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.RenderNotFound(c)
		return
	}

	if err := a.comments.Delete(id); err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			a.RenderNotFound(c)
			return
		}
		log.Error().Err(err).Uint("comment_id", id).Msg("failed to delete comment")
		redirectWithFlash(c, "/admin/comments", flashDanger, "删除评论失败")
		return
	}

	redirectWithFlash(c, "/admin/comments", flashSuccess, "评论已删除")
}
