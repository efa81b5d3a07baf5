package handler

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/quillblog/internal/service"
	"github.com/rs/zerolog/log"
)

const sessionTokenKey = "admin_token"

// LoadAdmin 根据 Cookie 中的 token 解析服务端会话，并把管理员写入上下文。
// 无效或过期的 token 会从 Cookie 中移除，开启续期时每次请求都会刷新 Cookie。
func (a *API) LoadAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		token, _ := session.Get(sessionTokenKey).(string)
		if token == "" {
			c.Next()
			return
		}

		resolved, err := a.sessions.Resolve(token)
		if err != nil {
			if !errors.Is(err, service.ErrSessionNotFound) && !errors.Is(err, service.ErrSessionExpired) {
				log.Error().Err(err).Msg("failed to resolve admin session")
			}
			session.Delete(sessionTokenKey)
			saveSession(c)
			c.Next()
			return
		}

		// 服务端顺延后重新下发 Cookie，使浏览器端 MaxAge 同步续期
		if a.sessions.Refreshes() {
			session.Set(sessionTokenKey, token)
			saveSession(c)
		}

		c.Set(currentAdminContextKey, &resolved.Admin)
		c.Next()
	}
}

// AuthRequired 拦截未登录的后台请求并跳转到登录页。
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentAdmin(c) == nil {
			redirectWithFlash(c, "/admin/login", flashWarning, "请先登录")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ShowLogin 渲染登录页面，已登录时直接进入后台
func (a *API) ShowLogin(c *gin.Context) {
	if currentAdmin(c) != nil {
		c.Redirect(http.StatusFound, "/admin/dashboard")
		return
	}
	a.renderHTML(c, http.StatusOK, "admin/login.html", gin.H{"title": "管理员登录"})
}

// Login 处理登录表单
func (a *API) Login(c *gin.Context) {
	if currentAdmin(c) != nil {
		c.Redirect(http.StatusFound, "/admin/dashboard")
		return
	}

	username := c.PostForm("username")
	password := c.PostForm("password")

	admin, err := a.auth.Authenticate(username, password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			log.Error().Err(err).Str("username", username).Msg("login failed")
		}
		a.renderHTML(c, http.StatusOK, "admin/login.html", gin.H{
			"title":    "管理员登录",
			"error":    "用户名或密码错误",
			"username": username,
		})
		return
	}

	issued, err := a.sessions.Issue(admin.ID)
	if err != nil {
		log.Error().Err(err).Uint("admin_id", admin.ID).Msg("failed to issue session")
		a.renderHTML(c, http.StatusOK, "admin/login.html", gin.H{
			"title":    "管理员登录",
			"error":    "登录失败，请稍后重试",
			"username": username,
		})
		return
	}

	if purged, err := a.sessions.PurgeExpired(); err != nil {
		log.Warn().Err(err).Msg("failed to purge expired sessions")
	} else if purged > 0 {
		log.Debug().Int64("count", purged).Msg("purged expired sessions")
	}

	session := sessions.Default(c)
	session.Set(sessionTokenKey, issued.Token)
	redirectWithFlash(c, "/admin/dashboard", flashSuccess, "登录成功")
}

// Logout 注销服务端会话并清空 Cookie
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	if token, ok := session.Get(sessionTokenKey).(string); ok && token != "" {
		if err := a.sessions.Revoke(token); err != nil {
			log.Error().Err(err).Msg("failed to revoke session")
		}
	}

	session.Clear()
	redirectWithFlash(c, "/", flashInfo, "您已退出登录")
}
