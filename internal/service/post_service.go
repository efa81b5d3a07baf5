package service

import (
	"errors"
	"strings"

	"github.com/quillblog/internal/db"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPostNotFound       = errors.New("post not found")
	ErrPostFieldsRequired = errors.New("title, content and category are required")
	ErrPostFieldTooLong   = errors.New("post field exceeds maximum length")
)

// Post status filters accepted by ListAdmin.
const (
	PostStatusAll       = "all"
	PostStatusPublished = "published"
	PostStatusDraft     = "draft"
)

// PostService wraps post related database operations.
type PostService struct {
	db *gorm.DB
}

// PostPage 是一页文章及其分页信息。
type PostPage struct {
	Posts []db.Post
	Pagination
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title       string `validate:"required,max=200"`
	Content     string `validate:"required"`
	Summary     string `validate:"max=500"`
	CategoryID  uint   `validate:"required"`
	TagIDs      []uint
	IsPublished bool
}

func (in PostInput) normalized() PostInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Summary = strings.TrimSpace(in.Summary)
	in.TagIDs = lo.Uniq(lo.Filter(in.TagIDs, func(id uint, _ int) bool { return id != 0 }))
	return in
}

func (in PostInput) validate() error {
	if err := validate.Struct(in); err != nil {
		if hasFailedTag(err, "required") {
			return ErrPostFieldsRequired
		}
		return ErrPostFieldTooLong
	}
	return nil
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// Get fetches a post by id with category and tags preloaded.
func (s *PostService) Get(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.Preload("Category").Preload("Tags", orderTags).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// ListPublished returns published posts, newest first.
func (s *PostService) ListPublished(page, perPage int) (*PostPage, error) {
	return s.paginate(publishedOnly, page, perPage)
}

// ListByCategory returns published posts under a category.
func (s *PostService) ListByCategory(categoryID uint, page, perPage int) (*PostPage, error) {
	return s.paginate(func(query *gorm.DB) *gorm.DB {
		return publishedOnly(query).Where("posts.category_id = ?", categoryID)
	}, page, perPage)
}

// ListByTag returns published posts carrying a tag.
func (s *PostService) ListByTag(tagID uint, page, perPage int) (*PostPage, error) {
	return s.paginate(func(query *gorm.DB) *gorm.DB {
		tagged := s.db.Table("post_tags").Select("post_id").Where("tag_id = ?", tagID)
		return publishedOnly(query).Where("posts.id IN (?)", tagged)
	}, page, perPage)
}

// Search matches published posts whose title or content contains keyword
// as a case-sensitive literal substring.
func (s *PostService) Search(keyword string, page, perPage int) (*PostPage, error) {
	fn := "instr"
	if db.IsPostgres(s.db) {
		fn = "strpos"
	}
	cond := "(" + fn + "(posts.title, ?) > 0 OR " + fn + "(posts.content, ?) > 0)"

	return s.paginate(func(query *gorm.DB) *gorm.DB {
		return publishedOnly(query).Where(cond, keyword, keyword)
	}, page, perPage)
}

// ListAdmin returns posts of any status for the back office.
func (s *PostService) ListAdmin(status string, page, perPage int) (*PostPage, error) {
	return s.paginate(func(query *gorm.DB) *gorm.DB {
		switch status {
		case PostStatusPublished:
			return query.Where("posts.is_published = ?", true)
		case PostStatusDraft:
			return query.Where("posts.is_published = ?", false)
		default:
			return query
		}
	}, page, perPage)
}

// Recent returns the latest posts; publishedOnly limits to published ones.
func (s *PostService) Recent(limit int, onlyPublished bool) ([]db.Post, error) {
	query := s.db.Model(&db.Post{}).Preload("Category")
	if onlyPublished {
		query = publishedOnly(query)
	}

	var posts []db.Post
	if err := query.Order("posts.created_at desc, posts.id desc").Limit(limit).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Popular returns published posts ordered by views.
func (s *PostService) Popular(limit int) ([]db.Post, error) {
	var posts []db.Post
	if err := publishedOnly(s.db.Model(&db.Post{})).
		Order("posts.views desc, posts.id desc").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// IncrementViews adds one view to the post and persists it immediately.
func (s *PostService) IncrementViews(id uint) error {
	result := s.db.Model(&db.Post{}).Where("id = ?", id).UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Neighbors returns the nearest published posts with a smaller and a larger id.
func (s *PostService) Neighbors(id uint) (prev, next *db.Post, err error) {
	var before db.Post
	err = publishedOnly(s.db.Model(&db.Post{})).Where("posts.id < ?", id).Order("posts.id desc").First(&before).Error
	switch {
	case err == nil:
		prev = &before
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil, err
	}

	var after db.Post
	err = publishedOnly(s.db.Model(&db.Post{})).Where("posts.id > ?", id).Order("posts.id asc").First(&after).Error
	switch {
	case err == nil:
		next = &after
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil, err
	}

	return prev, next, nil
}

// Create persists a post and associates tags in a transaction.
func (s *PostService) Create(input PostInput) (*db.Post, error) {
	input = input.normalized()
	if err := input.validate(); err != nil {
		return nil, err
	}

	post := db.Post{
		Title:       input.Title,
		Content:     input.Content,
		Summary:     db.ResolveSummary(input.Summary, input.Content),
		CategoryID:  input.CategoryID,
		IsPublished: input.IsPublished,
	}

	return s.saveWithTags(&post, input.TagIDs)
}

// Update applies updates to an existing post; the tag set is replaced, not merged.
func (s *PostService) Update(id uint, input PostInput) (*db.Post, error) {
	var existing db.Post
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	input = input.normalized()
	if err := input.validate(); err != nil {
		return nil, err
	}

	existing.Title = input.Title
	existing.Content = input.Content
	existing.Summary = db.ResolveSummary(input.Summary, input.Content)
	existing.CategoryID = input.CategoryID
	existing.IsPublished = input.IsPublished

	return s.saveWithTags(&existing, input.TagIDs)
}

// Delete removes a post together with its comments and tag associations.
func (s *PostService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var post db.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		if err := tx.Where("post_id = ?", post.ID).Delete(&db.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&post).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}

func (s *PostService) saveWithTags(post *db.Post, tagIDs []uint) (*db.Post, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var category db.Category
		if err := tx.Select("id").First(&category, post.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}

		if err := tx.Omit(clause.Associations).Save(post).Error; err != nil {
			return err
		}

		// 不存在的标签 ID 直接忽略
		var tags []db.Tag
		if len(tagIDs) > 0 {
			if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
				return err
			}
		}

		association := tx.Model(post).Association("Tags")
		if len(tags) == 0 {
			if err := association.Clear(); err != nil {
				return err
			}
		} else if err := association.Replace(tags); err != nil {
			return err
		}

		return tx.Preload("Category").Preload("Tags", orderTags).First(post, post.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) paginate(filter func(*gorm.DB) *gorm.DB, page, perPage int) (*PostPage, error) {
	var total int64
	if err := filter(s.db.Model(&db.Post{})).Count(&total).Error; err != nil {
		return nil, err
	}

	result := &PostPage{Pagination: NewPagination(page, perPage, total), Posts: []db.Post{}}
	if result.OutOfRange() {
		return result, nil
	}

	var posts []db.Post
	if err := filter(s.db.Model(&db.Post{})).
		Preload("Category").
		Preload("Tags", orderTags).
		Order("posts.created_at desc, posts.id desc").
		Limit(result.PerPage).
		Offset(result.Offset()).
		Find(&posts).Error; err != nil {
		return nil, err
	}

	if err := s.attachCommentCounts(posts); err != nil {
		return nil, err
	}

	result.Posts = posts
	return result, nil
}

func (s *PostService) attachCommentCounts(posts []db.Post) error {
	if len(posts) == 0 {
		return nil
	}

	var rows []struct {
		PostID uint
		Count  int64
	}
	ids := lo.Map(posts, func(post db.Post, _ int) uint { return post.ID })
	if err := s.db.Model(&db.Comment{}).
		Select("post_id, COUNT(*) AS count").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&rows).Error; err != nil {
		return err
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.PostID] = row.Count
	}
	for i := range posts {
		posts[i].CommentCount = counts[posts[i].ID]
	}
	return nil
}

func publishedOnly(query *gorm.DB) *gorm.DB {
	return query.Where("posts.is_published = ?", true)
}

func orderTags(query *gorm.DB) *gorm.DB {
	return query.Order("tags.id asc")
}
