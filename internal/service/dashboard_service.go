package service

import (
	"github.com/quillblog/internal/db"
	"gorm.io/gorm"
)

const dashboardRecentLimit = 5

// DashboardStats 汇总后台首页展示的计数。
type DashboardStats struct {
	TotalPosts     int64
	PublishedPosts int64
	DraftPosts     int64
	Categories     int64
	Tags           int64
	Comments       int64
}

// Dashboard 是后台首页的全部数据。
type Dashboard struct {
	Stats          DashboardStats
	RecentPosts    []db.Post
	RecentComments []db.Comment
}

// DashboardService aggregates read-only statistics for the admin home page.
type DashboardService struct {
	db       *gorm.DB
	posts    *PostService
	comments *CommentService
}

// NewDashboardService creates a DashboardService instance.
func NewDashboardService(gdb *gorm.DB) *DashboardService {
	return &DashboardService{
		db:       gdb,
		posts:    NewPostService(gdb),
		comments: NewCommentService(gdb),
	}
}

// Load collects counts plus the latest posts of any status and the latest comments.
func (s *DashboardService) Load() (*Dashboard, error) {
	var stats DashboardStats
	counters := []struct {
		query *gorm.DB
		dst   *int64
	}{
		{s.db.Model(&db.Post{}), &stats.TotalPosts},
		{s.db.Model(&db.Post{}).Where("is_published = ?", true), &stats.PublishedPosts},
		{s.db.Model(&db.Category{}), &stats.Categories},
		{s.db.Model(&db.Tag{}), &stats.Tags},
		{s.db.Model(&db.Comment{}), &stats.Comments},
	}
	for _, counter := range counters {
		if err := counter.query.Count(counter.dst).Error; err != nil {
			return nil, err
		}
	}
	stats.DraftPosts = stats.TotalPosts - stats.PublishedPosts

	recentPosts, err := s.posts.Recent(dashboardRecentLimit, false)
	if err != nil {
		return nil, err
	}
	recentComments, err := s.comments.Recent(dashboardRecentLimit)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Stats:          stats,
		RecentPosts:    recentPosts,
		RecentComments: recentComments,
	}, nil
}
