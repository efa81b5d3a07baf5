package db

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// SummaryLength 是自动摘要截取的字符数。
const SummaryLength = 200

// htmlTag 只匹配闭合的 <...>，未闭合的 < 与实体保持原样。
var htmlTag = regexp.MustCompile(`<[^>]+>`)

// Post 定义了文章模型
type Post struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"size:200;not null;index"`
	Summary     string    `gorm:"size:500"`
	Content     string    `gorm:"type:text;not null"`
	Views       int       `gorm:"not null;default:0"`
	IsPublished bool      `gorm:"not null;index"`
	CategoryID  uint      `gorm:"not null;index"`
	Category    Category  `gorm:"constraint:OnDelete:RESTRICT"`
	Tags        []Tag     `gorm:"many2many:post_tags;"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time

	CommentCount int64 `gorm:"-"`
}

// TableName 指定自定义表名。
func (Post) TableName() string {
	return "posts"
}

// TagIDs 返回文章关联的标签 ID。
func (p *Post) TagIDs() []uint {
	ids := make([]uint, 0, len(p.Tags))
	for _, tag := range p.Tags {
		ids = append(ids, tag.ID)
	}
	return ids
}

// GenerateSummary 去除正文中的 HTML 标签，超过 SummaryLength 个字符时截断并追加省略号。
func GenerateSummary(content string) string {
	text := htmlTag.ReplaceAllString(content, "")
	if utf8.RuneCountInString(text) <= SummaryLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:SummaryLength]) + "..."
}

// ResolveSummary 优先使用手动填写的摘要，留空时从正文生成。
func ResolveSummary(summary, content string) string {
	if trimmed := strings.TrimSpace(summary); trimmed != "" {
		return trimmed
	}
	return GenerateSummary(content)
}
