package db

import "time"

// Tag 定义了标签模型
type Tag struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:50;uniqueIndex;not null"`
	CreatedAt time.Time
	Posts     []Post `gorm:"many2many:post_tags;"`

	PostCount int64 `gorm:"->;-:migration"`
}

// TableName 指定自定义表名。
func (Tag) TableName() string {
	return "tags"
}
