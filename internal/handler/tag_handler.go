package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quillblog/internal/service"
	"github.com/rs/zerolog/log"
)

const tagsPath = "/admin/tags"

// ShowAdminTags 渲染标签管理页
func (a *API) ShowAdminTags(c *gin.Context) {
	tags, err := a.tags.List()
	if err != nil {
		log.Error().Err(err).Msg("failed to list tags")
		a.RenderServerError(c)
		return
	}

	a.renderHTML(c, http.StatusOK, "admin/tags.html", gin.H{
		"title": "标签管理",
		"tags":  tags,
	})
}

// CreateTag 创建新标签
func (a *API) CreateTag(c *gin.Context) {
	tag, err := a.tags.Create(c.PostForm("name"))
	if err != nil {
		a.tagFailure(c, err, "创建标签失败")
		return
	}
	redirectWithFlash(c, tagsPath, flashSuccess, "标签「"+tag.Name+"」创建成功")
}

// UpdateTag 更新标签
func (a *API) UpdateTag(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.RenderNotFound(c)
		return
	}

	tag, err := a.tags.Update(id, c.PostForm("name"))
	if err != nil {
		if errors.Is(err, service.ErrTagNotFound) {
			a.RenderNotFound(c)
			return
		}
		a.tagFailure(c, err, "更新标签失败")
		return
	}
	redirectWithFlash(c, tagsPath, flashSuccess, "标签「"+tag.Name+"」更新成功")
}

// DeleteTag 删除标签，文章本身保留
func (a *API) DeleteTag(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.RenderNotFound(c)
		return
	}

	if err := a.tags.Delete(id); err != nil {
		if errors.Is(err, service.ErrTagNotFound) {
			a.RenderNotFound(c)
			return
		}
		a.tagFailure(c, err, "删除标签失败")
		return
	}
	redirectWithFlash(c, tagsPath, flashSuccess, "标签已删除")
}

func (a *API) tagFailure(c *gin.Context, err error, fallback string) {
	var message string
	switch {
	case errors.Is(err, service.ErrTagNameRequired):
		message = "标签名称不能为空"
	case errors.Is(err, service.ErrTagNameTooLong):
		message = "标签名称过长"
	case errors.Is(err, service.ErrTagExists):
		message = "标签已存在"
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("tag mutation failed")
		message = fallback
	}
	redirectWithFlash(c, tagsPath, flashDanger, message)
}
