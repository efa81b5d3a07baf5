package db

import "time"

// Category 定义文章分类，每篇文章必须属于一个分类
type Category struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:50;uniqueIndex;not null"`
	Description string `gorm:"size:200"`
	CreatedAt   time.Time

	PostCount int64 `gorm:"->;-:migration"`
}

// TableName 指定自定义表名。
func (Category) TableName() string {
	return "categories"
}
