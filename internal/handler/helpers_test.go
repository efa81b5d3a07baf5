package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/quillblog/internal/config"
	"github.com/quillblog/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubHTMLRender struct {
	rendered []*stubHTMLInstance
}

type stubHTMLInstance struct {
	name string
	data interface{}
}

func (r *stubHTMLRender) Instance(name string, data interface{}) render.Render {
	instance := &stubHTMLInstance{name: name, data: data}
	r.rendered = append(r.rendered, instance)
	return instance
}

func (r *stubHTMLRender) last(t *testing.T) (string, gin.H) {
	t.Helper()
	require.NotEmpty(t, r.rendered, "expected a template to be rendered")
	instance := r.rendered[len(r.rendered)-1]
	data, ok := instance.data.(gin.H)
	require.True(t, ok, "expected gin.H payload")
	return instance.name, data
}

func (r *stubHTMLInstance) Render(http.ResponseWriter) error {
	return nil
}

func (r *stubHTMLInstance) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

type handlerEnv struct {
	db       *gorm.DB
	api      *API
	engine   *gin.Engine
	renderer *stubHTMLRender
}

func setupHandlerTest(t *testing.T) *handlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "open test database")
	require.NoError(t, db.Migrate(gdb), "migrate test database")
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	api := NewAPI(gdb, config.AppConfig{
		PostsPerPage:    5,
		AdminPerPage:    10,
		SessionLifetime: time.Hour,
		SessionRefresh:  true,
	})

	renderer := &stubHTMLRender{}
	engine := gin.New()
	engine.HTMLRender = renderer
	engine.Use(gin.CustomRecovery(api.Recover))
	engine.Use(sessions.Sessions("quillblog_session", cookie.NewStore([]byte("test-secret"))))
	engine.Use(api.LoadAdmin())

	engine.GET("/", api.ShowIndex)
	engine.GET("/post/:id", api.ShowPost)
	engine.GET("/category/:id", api.ShowCategory)
	engine.GET("/tag/:id", api.ShowTag)
	engine.GET("/search", api.Search)
	engine.POST("/comment/:post_id", api.AddComment)

	engine.GET("/admin/login", api.ShowLogin)
	engine.POST("/admin/login", api.Login)
	engine.GET("/admin/logout", api.Logout)

	admin := engine.Group("/admin", api.AuthRequired())
	admin.GET("", api.ShowDashboard)
	admin.GET("/dashboard", api.ShowDashboard)
	admin.GET("/posts", api.ShowAdminPosts)
	admin.GET("/post/add", api.ShowCreatePost)
	admin.POST("/post/add", api.CreatePost)
	admin.GET("/post/edit/:id", api.ShowEditPost)
	admin.POST("/post/edit/:id", api.UpdatePost)
	admin.POST("/post/delete/:id", api.DeletePost)
	admin.GET("/categories", api.ShowAdminCategories)
	admin.POST("/category/add", api.CreateCategory)
	admin.POST("/category/edit/:id", api.UpdateCategory)
	admin.POST("/category/delete/:id", api.DeleteCategory)
	admin.GET("/tags", api.ShowAdminTags)
	admin.POST("/tag/add", api.CreateTag)
	admin.POST("/tag/edit/:id", api.UpdateTag)
	admin.POST("/tag/delete/:id", api.DeleteTag)
	admin.GET("/comments", api.ShowAdminComments)
	admin.POST("/comment/delete/:id", api.DeleteComment)

	engine.NoRoute(api.RenderNotFound)

	return &handlerEnv{db: gdb, api: api, engine: engine, renderer: renderer}
}

// testClient 在请求之间携带 Cookie，模拟浏览器会话。
type testClient struct {
	env     *handlerEnv
	cookies map[string]*http.Cookie
}

func (env *handlerEnv) client() *testClient {
	return &testClient{env: env, cookies: map[string]*http.Cookie{}}
}

func (c *testClient) get(path string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, path, nil)
}

func (c *testClient) post(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return c.do(http.MethodPost, path, form)
}

func (c *testClient) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	recorder := httptest.NewRecorder()
	c.env.engine.ServeHTTP(recorder, req)

	for _, ck := range recorder.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return recorder
}

func (c *testClient) login(t *testing.T) {
	t.Helper()
	_, err := db.EnsureAdmin(c.env.db, "admin", "admin123")
	require.NoError(t, err)

	resp := c.post("/admin/login", url.Values{"username": {"admin"}, "password": {"admin123"}})
	require.Equal(t, http.StatusFound, resp.Code)
	require.Equal(t, "/admin/dashboard", resp.Header().Get("Location"))
}

func flashesOf(t *testing.T, data gin.H) []Flash {
	t.Helper()
	flashes, ok := data["flashes"].([]Flash)
	if !ok {
		return nil
	}
	return flashes
}

func mustCategory(t *testing.T, gdb *gorm.DB, name string) db.Category {
	t.Helper()
	category := db.Category{Name: name}
	require.NoError(t, gdb.Create(&category).Error)
	return category
}

func mustPost(t *testing.T, gdb *gorm.DB, title string, categoryID uint, published bool) db.Post {
	t.Helper()
	post := db.Post{
		Title:       title,
		Content:     "content of " + title,
		Summary:     db.GenerateSummary("content of " + title),
		CategoryID:  categoryID,
		IsPublished: published,
	}
	require.NoError(t, gdb.Omit("Category", "Tags").Create(&post).Error)
	return post
}
