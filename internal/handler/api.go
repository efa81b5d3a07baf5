package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/quillblog/internal/config"
	"github.com/quillblog/internal/db"
	"github.com/quillblog/internal/service"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	posts      *service.PostService
	categories *service.CategoryService
	tags       *service.TagService
	comments   *service.CommentService
	auth       *service.AuthService
	sessions   *service.SessionService
	dashboard  *service.DashboardService
	sidebar    *service.SidebarService

	postsPerPage int
	adminPerPage int
}

const currentAdminContextKey = "__current_admin"

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, cfg config.AppConfig) *API {
	postsPerPage := cfg.PostsPerPage
	if postsPerPage <= 0 {
		postsPerPage = 5
	}
	adminPerPage := cfg.AdminPerPage
	if adminPerPage <= 0 {
		adminPerPage = 10
	}

	return &API{
		db:           gdb,
		posts:        service.NewPostService(gdb),
		categories:   service.NewCategoryService(gdb),
		tags:         service.NewTagService(gdb),
		comments:     service.NewCommentService(gdb),
		auth:         service.NewAuthService(gdb),
		sessions:     service.NewSessionService(gdb, cfg.SessionLifetime, cfg.SessionRefresh),
		dashboard:    service.NewDashboardService(gdb),
		sidebar:      service.NewSidebarService(gdb),
		postsPerPage: postsPerPage,
		adminPerPage: adminPerPage,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// currentAdmin 返回 LoadAdmin 中间件解析出的管理员，未登录时为 nil。
func currentAdmin(c *gin.Context) *db.Admin {
	if value, exists := c.Get(currentAdminContextKey); exists {
		if admin, ok := value.(*db.Admin); ok {
			return admin
		}
	}
	return nil
}

// renderHTML 组装所有页面共享的上下文：消息提示、当前管理员与年份。
func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["flashes"]; !exists {
		payload["flashes"] = consumeFlashes(c)
	}
	if _, exists := payload["currentAdmin"]; !exists {
		payload["currentAdmin"] = currentAdmin(c)
	}
	if _, exists := payload["year"]; !exists {
		payload["year"] = time.Now().Year()
	}
	if _, exists := payload["title"]; !exists {
		payload["title"] = "Quill Blog"
	}

	c.HTML(status, template, payload)
}

// renderPublic 在共享上下文之上附加侧边栏数据，侧边栏加载失败时页面依旧渲染。
func (a *API) renderPublic(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	sidebar, err := a.sidebar.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load sidebar")
		sidebar = &service.Sidebar{}
	}
	payload["sidebar"] = sidebar

	a.renderHTML(c, status, template, payload)
}

// RenderNotFound 渲染 404 页面。
func (a *API) RenderNotFound(c *gin.Context) {
	a.renderHTML(c, http.StatusNotFound, "errors/404.html", gin.H{"title": "页面不存在"})
	c.Abort()
}

// RenderServerError 渲染 500 页面，不向用户暴露错误细节。
func (a *API) RenderServerError(c *gin.Context) {
	a.renderHTML(c, http.StatusInternalServerError, "errors/500.html", gin.H{"title": "服务器错误"})
	c.Abort()
}

// Recover 是 gin.CustomRecovery 的回调，记录 panic 并渲染 500 页面。
func (a *API) Recover(c *gin.Context, recovered any) {
	log.Error().
		Interface("panic", recovered).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("recovered from panic")
	// 会话中间件可能尚未执行，这里不读取消息提示
	a.renderHTML(c, http.StatusInternalServerError, "errors/500.html", gin.H{
		"title":   "服务器错误",
		"flashes": []Flash(nil),
	})
	c.Abort()
}

func saveSession(c *gin.Context) {
	if err := sessions.Default(c).Save(); err != nil {
		log.Error().Err(err).Msg("failed to save session")
	}
}
