package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/quillblog/internal/config"
	"github.com/quillblog/internal/db"
	"github.com/quillblog/internal/router"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

var rootCmd = &cobra.Command{
	Use:   "quillblog",
	Short: "Quill Blog - a small server-rendered blog",
	Long: `Quill Blog serves a public blog with categories, tags, comments and search,
plus a session protected back office for managing content.

Running without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func main() {
	// .env 不存在时直接使用系统环境变量
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, reading configuration from environment")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (config.AppConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("failed to load configuration: %w", err)
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	return cfg, nil
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	printBanner()

	gdb, err := db.Init(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	result, err := db.Seed(gdb, cfg.DefaultAdminUsername, cfg.DefaultAdminPassword, config.DefaultCategories)
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	if result.AdminCreated {
		log.Info().Str("username", cfg.DefaultAdminUsername).Msg("Default admin account created.")
	}
	if len(result.CategoriesCreated) > 0 {
		log.Info().Strs("categories", result.CategoriesCreated).Msg("Default categories created.")
	}

	gin.SetMode(cfg.GinMode)
	r := router.SetupRouter(cfg, gdb)

	addr := cfg.ListenAddr
	log.Info().Str("addr", addr).Msg("Quill Blog server starting...")
	if err := r.Run(addr); err != nil {
		return fmt.Errorf("failed to run server: %w", err)
	}
	return nil
}

func printBanner() {
	fmt.Println(color.YellowString(`  ___        _ _ _   ____  _
 / _ \ _   _(_) | | | __ )| | ___   __ _
| | | | | | | | | | |  _ \| |/ _ \ / _' |
| |_| | |_| | | | | | |_) | | (_) | (_| |
 \__\_\\__,_|_|_|_| |____/|_|\___/ \__, |
                                   |___/`))
	fmt.Printf("%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprint("Quill Blog"))
	color.HiBlack("=====================================================\n")
}
