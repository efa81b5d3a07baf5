package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr           string
	Port                 string
	DatabaseURL          string
	SecretKey            string
	GinMode              string
	TemplateDir          string
	StaticDir            string
	LogLevel             string
	PostsPerPage         int
	AdminPerPage         int
	SessionLifetime      time.Duration
	SessionRefresh       bool
	DefaultAdminUsername string
	DefaultAdminPassword string
}

// DefaultCategories 是首次初始化时创建的分类。
var DefaultCategories = []string{"技术", "生活", "随笔", "教程"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("LISTEN_ADDR", "")
	v.SetDefault("DATABASE_URL", "quillblog.db")
	v.SetDefault("SECRET_KEY", "quillblog-dev-secret")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("TEMPLATE_DIR", "web/template")
	v.SetDefault("STATIC_DIR", "web/static")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("POSTS_PER_PAGE", 5)
	v.SetDefault("ADMIN_PER_PAGE", 10)
	v.SetDefault("SESSION_LIFETIME", time.Hour)
	v.SetDefault("SESSION_REFRESH", true)
	v.SetDefault("DEFAULT_ADMIN_USERNAME", "admin")
	v.SetDefault("DEFAULT_ADMIN_PASSWORD", "admin123")
}

// Load 从环境变量和可选的 settings.toml 读取应用配置，并为缺失项提供默认值。
func Load() (AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("settings")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return AppConfig{}, fmt.Errorf("read settings: %w", err)
		}
	}
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (AppConfig, error) {
	port := strings.TrimSpace(v.GetString("PORT"))
	listenAddr := strings.TrimSpace(v.GetString("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	cfg := AppConfig{
		ListenAddr:           listenAddr,
		Port:                 port,
		DatabaseURL:          strings.TrimSpace(v.GetString("DATABASE_URL")),
		SecretKey:            strings.TrimSpace(v.GetString("SECRET_KEY")),
		GinMode:              strings.TrimSpace(v.GetString("GIN_MODE")),
		TemplateDir:          strings.TrimSpace(v.GetString("TEMPLATE_DIR")),
		StaticDir:            strings.TrimSpace(v.GetString("STATIC_DIR")),
		LogLevel:             strings.TrimSpace(v.GetString("LOG_LEVEL")),
		PostsPerPage:         v.GetInt("POSTS_PER_PAGE"),
		AdminPerPage:         v.GetInt("ADMIN_PER_PAGE"),
		SessionLifetime:      v.GetDuration("SESSION_LIFETIME"),
		SessionRefresh:       v.GetBool("SESSION_REFRESH"),
		DefaultAdminUsername: strings.TrimSpace(v.GetString("DEFAULT_ADMIN_USERNAME")),
		DefaultAdminPassword: strings.TrimSpace(v.GetString("DEFAULT_ADMIN_PASSWORD")),
	}

	if cfg.SecretKey == "" {
		return AppConfig{}, errors.New("SECRET_KEY must not be empty")
	}
	if cfg.PostsPerPage <= 0 {
		return AppConfig{}, fmt.Errorf("POSTS_PER_PAGE must be positive, got %d", cfg.PostsPerPage)
	}
	if cfg.AdminPerPage <= 0 {
		return AppConfig{}, fmt.Errorf("ADMIN_PER_PAGE must be positive, got %d", cfg.AdminPerPage)
	}
	if cfg.SessionLifetime <= 0 {
		return AppConfig{}, fmt.Errorf("SESSION_LIFETIME must be positive, got %s", cfg.SessionLifetime)
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		return AppConfig{}, fmt.Errorf("GIN_MODE must be one of debug, release, test, got %q", cfg.GinMode)
	}

	return cfg, nil
}
