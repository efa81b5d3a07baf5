package service

import (
	"github.com/quillblog/internal/db"
	"gorm.io/gorm"
)

const sidebarListLimit = 5

// Sidebar 是公共页面右侧栏的数据：分类、标签云、最新文章与热门文章。
type Sidebar struct {
	Categories   []db.Category
	Tags         []db.Tag
	RecentPosts  []db.Post
	PopularPosts []db.Post
}

// SidebarService assembles the shared sidebar shown on every public page.
type SidebarService struct {
	posts      *PostService
	categories *CategoryService
	tags       *TagService
}

// NewSidebarService creates a SidebarService instance.
func NewSidebarService(gdb *gorm.DB) *SidebarService {
	return &SidebarService{
		posts:      NewPostService(gdb),
		categories: NewCategoryService(gdb),
		tags:       NewTagService(gdb),
	}
}

// Load queries every sidebar block; only published posts are listed or counted.
func (s *SidebarService) Load() (*Sidebar, error) {
	categories, err := s.categories.List()
	if err != nil {
		return nil, err
	}
	tags, err := s.tags.List()
	if err != nil {
		return nil, err
	}
	recent, err := s.posts.Recent(sidebarListLimit, true)
	if err != nil {
		return nil, err
	}
	popular, err := s.posts.Popular(sidebarListLimit)
	if err != nil {
		return nil, err
	}

	return &Sidebar{
		Categories:   categories,
		Tags:         tags,
		RecentPosts:  recent,
		PopularPosts: popular,
	}, nil
}
