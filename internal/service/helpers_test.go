package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/quillblog/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s-%d?mode=memory&cache=shared", name, time.Now().UnixNano())
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
	return gdb
}

func mustCreateCategory(t *testing.T, gdb *gorm.DB, name string) db.Category {
	t.Helper()
	category := db.Category{Name: name}
	require.NoError(t, gdb.Create(&category).Error)
	return category
}

func mustCreateTag(t *testing.T, gdb *gorm.DB, name string) db.Tag {
	t.Helper()
	tag := db.Tag{Name: name}
	require.NoError(t, gdb.Create(&tag).Error)
	return tag
}

func mustCreatePost(t *testing.T, svc *PostService, input PostInput) *db.Post {
	t.Helper()
	post, err := svc.Create(input)
	require.NoError(t, err)
	return post
}
