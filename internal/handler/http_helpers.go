package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// 消息提示的分类，与模板中的样式名一致。
const (
	flashSuccess = "success"
	flashInfo    = "info"
	flashWarning = "warning"
	flashDanger  = "danger"
)

var flashCategories = []string{flashSuccess, flashInfo, flashWarning, flashDanger}

// Flash 是一条待展示的消息提示。
type Flash struct {
	Category string
	Message  string
}

// addFlash 写入一条消息，调用方负责在响应前保存会话。
func addFlash(c *gin.Context, category, message string) {
	sessions.Default(c).AddFlash(message, category)
}

// redirectWithFlash 写入消息、保存会话并重定向。
func redirectWithFlash(c *gin.Context, location, category, message string) {
	addFlash(c, category, message)
	saveSession(c)
	c.Redirect(http.StatusFound, location)
}

// consumeFlashes 取出并清空会话中的全部消息。
func consumeFlashes(c *gin.Context) []Flash {
	session := sessions.Default(c)

	var flashes []Flash
	for _, category := range flashCategories {
		for _, raw := range session.Flashes(category) {
			message, ok := raw.(string)
			if !ok || message == "" {
				continue
			}
			flashes = append(flashes, Flash{Category: category, Message: message})
		}
	}
	if len(flashes) > 0 {
		saveSession(c)
	}
	return flashes
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// parsePositiveInt 解析正整数，失败或小于 1 时返回 fallback。
func parsePositiveInt(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func parseUintQuerySlice(values []string) []uint {
	ids := make([]uint, 0, len(values))
	for _, raw := range values {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		parsed, err := strconv.ParseUint(trimmed, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(parsed))
	}
	return ids
}

func parseUintForm(raw string) uint {
	parsed, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return 0
	}
	return uint(parsed)
}

func uintToString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
