package router

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/multitemplate"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/quillblog/internal/config"
	"github.com/quillblog/internal/handler"
	"gorm.io/gorm"
)

const sessionCookieName = "quillblog_session"

var contentPolicy = bluemonday.UGCPolicy()

var publicViews = []string{
	"index.html",
	"post.html",
	"category.html",
	"tag.html",
	"search.html",
	"errors/404.html",
	"errors/500.html",
}

var adminViews = []string{
	"admin/login.html",
	"admin/dashboard.html",
	"admin/posts.html",
	"admin/post_edit.html",
	"admin/categories.html",
	"admin/tags.html",
	"admin/comments.html",
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(cfg config.AppConfig, gdb *gorm.DB) *gin.Engine {
	r := gin.New()
	api := handler.NewAPI(gdb, cfg)

	r.Use(handler.RequestLogger(), gin.CustomRecovery(api.Recover))

	// 配置会话中间件，Cookie 中只保存会话 token 与消息提示
	store := cookie.NewStore([]byte(cfg.SecretKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionLifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionCookieName, store))

	r.HTMLRender = loadTemplates(cfg.TemplateDir)
	r.Static("/static", cfg.StaticDir)

	r.Use(api.LoadAdmin())

	r.GET("/", api.ShowIndex)
	r.GET("/post/:id", api.ShowPost)
	r.GET("/category/:id", api.ShowCategory)
	r.GET("/tag/:id", api.ShowTag)
	r.GET("/search", api.Search)
	r.POST("/comment/:post_id", api.AddComment)

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.GET("/login", api.ShowLogin)
		admin.POST("/login", api.Login)
		admin.GET("/logout", api.Logout)

		// 需要认证的后台路由
		auth := admin.Group("")
		auth.Use(api.AuthRequired())
		{
			auth.GET("", api.ShowDashboard)
			auth.GET("/dashboard", api.ShowDashboard)

			auth.GET("/posts", api.ShowAdminPosts)
			auth.GET("/post/add", api.ShowCreatePost)
			auth.POST("/post/add", api.CreatePost)
			auth.GET("/post/edit/:id", api.ShowEditPost)
			auth.POST("/post/edit/:id", api.UpdatePost)
			auth.POST("/post/delete/:id", api.DeletePost)

			auth.GET("/categories", api.ShowAdminCategories)
			auth.POST("/category/add", api.CreateCategory)
			auth.POST("/category/edit/:id", api.UpdateCategory)
			auth.POST("/category/delete/:id", api.DeleteCategory)

			auth.GET("/tags", api.ShowAdminTags)
			auth.POST("/tag/add", api.CreateTag)
			auth.POST("/tag/edit/:id", api.UpdateTag)
			auth.POST("/tag/delete/:id", api.DeleteTag)

			auth.GET("/comments", api.ShowAdminComments)
			auth.POST("/comment/delete/:id", api.DeleteComment)
		}
	}

	r.NoRoute(api.RenderNotFound)

	return r
}

// loadTemplates 为每个页面组装 布局 + 公共片段 + 页面 模板集合。
func loadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	partials, err := filepath.Glob(filepath.Join(templatesDir, "partials", "*.html"))
	if err != nil {
		panic(err)
	}

	assemble := func(layout, view string) []string {
		files := []string{filepath.Join(templatesDir, "layouts", layout)}
		files = append(files, partials...)
		return append(files, filepath.Join(templatesDir, "views", filepath.FromSlash(view)))
	}

	funcs := templateFuncs()
	for _, view := range publicViews {
		r.AddFromFilesFuncs(view, funcs, assemble("base.html", view)...)
	}
	for _, view := range adminViews {
		r.AddFromFilesFuncs(view, funcs, assemble("admin.html", view)...)
	}

	return r
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04")
		},
		"sanitizeHTML": func(s string) template.HTML {
			return template.HTML(contentPolicy.Sanitize(s))
		},
		"timeAgo": func(t time.Time) string {
			return formatRelativeTime(time.Now(), t)
		},
	}
}

// formatRelativeTime 把时间格式化为“x分钟前”这类相对描述，未来时间按刚刚处理。
func formatRelativeTime(now, t time.Time) string {
	if t.IsZero() {
		return ""
	}

	seconds := int(now.Sub(t).Seconds())
	switch {
	case seconds < 60:
		return "刚刚"
	case seconds < 3600:
		return fmt.Sprintf("%d分钟前", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%d小时前", seconds/3600)
	case seconds < 2592000:
		return fmt.Sprintf("%d天前", seconds/86400)
	case seconds < 31536000:
		return fmt.Sprintf("%d个月前", seconds/2592000)
	default:
		return fmt.Sprintf("%d年前", seconds/31536000)
	}
}
