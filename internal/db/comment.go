package db

import "time"

// Comment 记录读者对文章的评论，随文章一同删除
type Comment struct {
	ID        uint      `gorm:"primaryKey"`
	Author    string    `gorm:"size:50;not null"`
	Email     string    `gorm:"size:100;not null"`
	Content   string    `gorm:"type:text;not null"`
	PostID    uint      `gorm:"not null;index"`
	Post      Post      `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"index"`
}

// TableName 指定自定义表名。
func (Comment) TableName() string {
	return "comments"
}
