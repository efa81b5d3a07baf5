package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// SeedResult 汇总一次初始化新建的数据。
type SeedResult struct {
	AdminCreated      bool
	CategoriesCreated []string
}

// Seed 幂等地创建默认管理员和默认分类，已存在的用户名或分类名会被跳过。
func Seed(gdb *gorm.DB, adminUsername, adminPassword string, categories []string) (SeedResult, error) {
	var result SeedResult

	err := gdb.Transaction(func(tx *gorm.DB) error {
		created, err := EnsureAdmin(tx, adminUsername, adminPassword)
		if err != nil {
			return err
		}
		result.AdminCreated = created

		for _, raw := range categories {
			name := strings.TrimSpace(raw)
			if name == "" {
				continue
			}

			var existing Category
			err := tx.Where("name = ?", name).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			if err := tx.Create(&Category{Name: name}).Error; err != nil {
				return err
			}
			result.CategoriesCreated = append(result.CategoriesCreated, name)
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}

	return result, nil
}
