package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultDatabasePath = "quillblog.db"

// Open 根据连接串选择驱动并建立连接：postgres:// 或 host= 形式走 postgres，其余视为 sqlite 文件路径。
// databaseURL 为空时将回退到默认值 quillblog.db。
func Open(databaseURL string) (*gorm.DB, error) {
	dialector, err := dialectorFor(databaseURL)
	if err != nil {
		return nil, err
	}

	// TranslateError 让唯一约束冲突以 gorm.ErrDuplicatedKey 返回
	return gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
}

// Init 打开数据库并执行自动迁移。
func Init(databaseURL string) (*gorm.DB, error) {
	gdb, err := Open(databaseURL)
	if err != nil {
		return nil, err
	}
	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

// Migrate 为核心模型创建表。
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&Category{},
		&Tag{},
		&Post{},
		&Comment{},
		&Admin{},
		&AdminSession{},
	)
}

// Reset 删除所有表，供 init-db --reset 使用。
func Reset(gdb *gorm.DB) error {
	migrator := gdb.Migrator()
	// 先删除引用方，再删除被引用的表
	tables := []interface{}{&AdminSession{}, &Comment{}, "post_tags", &Post{}, &Tag{}, &Category{}, &Admin{}}
	for _, table := range tables {
		if !migrator.HasTable(table) {
			continue
		}
		if err := migrator.DropTable(table); err != nil {
			return err
		}
	}
	return nil
}

// IsPostgres 判断当前连接是否为 postgres 方言。
func IsPostgres(gdb *gorm.DB) bool {
	return gdb.Dialector.Name() == "postgres"
}

func dialectorFor(databaseURL string) (gorm.Dialector, error) {
	dsn := strings.TrimSpace(databaseURL)
	if dsn == "" {
		dsn = defaultDatabasePath
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return postgres.Open(dsn), nil
	}

	path := strings.TrimPrefix(dsn, "sqlite://")
	if !strings.HasPrefix(path, "file:") && path != ":memory:" {
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
	}
	return sqlite.Open(path), nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
