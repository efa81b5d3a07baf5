package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quillblog/internal/service"
	"github.com/rs/zerolog/log"
)

const categoriesPath = "/admin/categories"

func categoryErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrCategoryNameRequired):
		return "分类名称不能为空"
	case errors.Is(err, service.ErrCategoryNameTooLong):
		return "分类名称或描述过长"
	case errors.Is(err, service.ErrCategoryExists):
		return "分类名称已存在"
	case errors.Is(err, service.ErrCategoryInUse):
		return "该分类下还有文章，无法删除"
	default:
		return ""
	}
}

// ShowAdminCategories 渲染分类管理页
func (a *API) ShowAdminCategories(c *gin.Context) {
	categories, err := a.categories.List()
	if err != nil {
		log.Error().Err(err).Msg("failed to list categories")
		a.RenderServerError(c)
		return
	}

	a.renderHTML(c, http.StatusOK, "admin/categories.html", gin.H{
		"title":      "分类管理",
		"categories": categories,
	})
}

// CreateCategory 创建分类
func (a *API) CreateCategory(c *gin.Context) {
	category, err := a.categories.Create(c.PostForm("name"), c.PostForm("description"))
	if err != nil {
		a.categoryFailure(c, err, "创建分类失败")
		return
	}
	redirectWithFlash(c, categoriesPath, flashSuccess, "分类「"+category.Name+"」创建成功")
}

// UpdateCategory 更新分类
func (a *API) UpdateCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.RenderNotFound(c)
		return
	}

	category, err := a.categories.Update(id, c.PostForm("name"), c.PostForm("description"))
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			a.RenderNotFound(c)
			return
		}
		a.categoryFailure(c, err, "更新分类失败")
		return
	}
	redirectWithFlash(c, categoriesPath, flashSuccess, "分类「"+category.Name+"」更新成功")
}

// DeleteCategory 删除分类，仍有文章引用时拒绝
func (a *API) DeleteCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.RenderNotFound(c)
		return
	}

	if err := a.categories.Delete(id); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			a.RenderNotFound(c)
			return
		}
		a.categoryFailure(c, err, "删除分类失败")
		return
	}
	redirectWithFlash(c, categoriesPath, flashSuccess, "分类已删除")
}

func (a *API) categoryFailure(c *gin.Context, err error, fallback string) {
	message := categoryErrorMessage(err)
	if message == "" {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("category mutation failed")
		message = fallback
	}
	redirectWithFlash(c, categoriesPath, flashDanger, message)
}
