package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/quillblog/internal/config"
	"github.com/quillblog/internal/db"
	"github.com/spf13/cobra"
)

var seedDemoCmd = &cobra.Command{
	Use:   "seed-demo",
	Short: "Fill an empty blog with demo posts, tags and comments",
	Long: `Create the default admin and categories, then insert a handful of demo posts
with tags and comments. Nothing is written when posts already exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeedDemo()
	},
}

func init() {
	rootCmd.AddCommand(seedDemoCmd)
}

func runSeedDemo() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	gdb, err := db.Init(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if _, err := db.Seed(gdb, cfg.DefaultAdminUsername, cfg.DefaultAdminPassword, config.DefaultCategories); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	result, err := db.SeedDemo(gdb)
	if err != nil {
		return fmt.Errorf("failed to generate demo data: %w", err)
	}
	if result.Skipped {
		color.Yellow("已有文章，跳过演示数据生成")
		return nil
	}

	color.Green("演示数据生成完成")
	fmt.Printf("文章: %d 篇\n", result.Posts)
	fmt.Printf("标签: %d 个\n", result.Tags)
	fmt.Printf("评论: %d 条\n", result.Comments)
	return nil
}
