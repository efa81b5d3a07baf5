package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ShowDashboard 渲染后台主面板
func (a *API) ShowDashboard(c *gin.Context) {
	dashboard, err := a.dashboard.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load dashboard")
		a.RenderServerError(c)
		return
	}

	a.renderHTML(c, http.StatusOK, "admin/dashboard.html", gin.H{
		"title":          "管理面板",
		"stats":          dashboard.Stats,
		"recentPosts":    dashboard.RecentPosts,
		"recentComments": dashboard.RecentComments,
	})
}
