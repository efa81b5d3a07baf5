package db

import (
	"errors"

	"gorm.io/gorm"
)

// DemoResult 汇总演示数据的生成情况。
type DemoResult struct {
	Skipped  bool
	Tags     int
	Posts    int
	Comments int
}

type demoPost struct {
	title     string
	content   string
	category  string
	tags      []string
	published bool
	comments  []Comment
}

var demoTags = []string{"Go", "Web开发", "数据库", "思考", "项目"}

var demoPosts = []demoPost{
	{
		title:     "使用Go语言构建高性能Web服务",
		content:   "<p>Go语言因其出色的并发性能和简洁的语法，成为构建高性能Web服务的理想选择。</p><p>本文分享框架选择、性能优化和实际案例分析。</p>",
		category:  "技术",
		tags:      []string{"Go", "Web开发"},
		published: true,
		comments: []Comment{
			{Author: "gopher", Email: "gopher@example.com", Content: "写得很清楚，期待续篇"},
		},
	},
	{
		title:     "SQLite数据库优化实践",
		content:   "<p>SQLite作为轻量级数据库，在很多场景下都有出色表现。</p><p>本文介绍索引优化、查询优化和事务处理等实用技巧。</p>",
		category:  "教程",
		tags:      []string{"数据库"},
		published: true,
	},
	{
		title:     "个人知识管理系统的设计与实现",
		content:   "<p>在信息爆炸的时代，如何有效管理个人知识成为一个重要课题。</p>",
		category:  "随笔",
		tags:      []string{"思考", "项目"},
		published: true,
		comments: []Comment{
			{Author: "reader", Email: "reader@example.com", Content: "收藏了"},
			{Author: "visitor", Email: "visitor@example.com", Content: "有开源地址吗？"},
		},
	},
	{
		title:     "周末去爬山",
		content:   "<p>天气很好，山顶的风有点大。</p>",
		category:  "生活",
		published: true,
	},
	{
		title:    "GORM使用技巧（草稿）",
		content:  "<p>还在整理中。</p>",
		category: "技术",
		tags:     []string{"Go", "数据库"},
	},
}

// SeedDemo 在文章表为空时写入一组演示文章、标签和评论，已有文章则跳过。
// 文章所属分类必须已存在，通常先执行 Seed。
func SeedDemo(gdb *gorm.DB) (DemoResult, error) {
	var result DemoResult

	err := gdb.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Post{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			result.Skipped = true
			return nil
		}

		tags := make(map[string]Tag, len(demoTags))
		for _, name := range demoTags {
			var tag Tag
			err := tx.Where("name = ?", name).First(&tag).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				tag = Tag{Name: name}
				if err := tx.Create(&tag).Error; err != nil {
					return err
				}
				result.Tags++
			} else if err != nil {
				return err
			}
			tags[name] = tag
		}

		for _, item := range demoPosts {
			var category Category
			if err := tx.Where("name = ?", item.category).First(&category).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}

			post := Post{
				Title:       item.title,
				Content:     item.content,
				Summary:     GenerateSummary(item.content),
				CategoryID:  category.ID,
				IsPublished: item.published,
			}
			for _, name := range item.tags {
				post.Tags = append(post.Tags, tags[name])
			}
			if err := tx.Omit("Category", "Tags.*").Create(&post).Error; err != nil {
				return err
			}
			result.Posts++

			for _, comment := range item.comments {
				comment.PostID = post.ID
				if err := tx.Omit("Post").Create(&comment).Error; err != nil {
					return err
				}
				result.Comments++
			}
		}
		return nil
	})
	if err != nil {
		return DemoResult{}, err
	}

	return result, nil
}
