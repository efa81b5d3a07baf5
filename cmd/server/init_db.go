package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/quillblog/internal/config"
	"github.com/quillblog/internal/db"
	"github.com/spf13/cobra"
)

var resetDatabase bool

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create tables and seed the default admin and categories",
	Long: `Create all tables, then create the default admin account and the default
categories if they do not exist yet. Running it twice is harmless.

Examples:
  quillblog init-db            # migrate and seed
  quillblog init-db --reset    # drop every table first`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInitDB()
	},
}

func init() {
	rootCmd.AddCommand(initDBCmd)

	initDBCmd.Flags().BoolVar(&resetDatabase, "reset", false, "Drop all tables before migrating")
}

func runInitDB() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	gdb, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if resetDatabase {
		if err := db.Reset(gdb); err != nil {
			return fmt.Errorf("failed to drop tables: %w", err)
		}
		color.Yellow("已删除全部数据表")
	}

	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	result, err := db.Seed(gdb, cfg.DefaultAdminUsername, cfg.DefaultAdminPassword, config.DefaultCategories)
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	color.Green("数据库初始化完成")
	if result.AdminCreated {
		fmt.Println("默认管理员用户创建成功")
		fmt.Printf("用户名: %s\n", cfg.DefaultAdminUsername)
		fmt.Printf("密码: %s\n", cfg.DefaultAdminPassword)
	} else {
		fmt.Println("管理员已存在，无需初始化")
	}
	for _, name := range result.CategoriesCreated {
		fmt.Printf("创建分类: %s\n", name)
	}
	return nil
}
