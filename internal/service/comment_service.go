package service

import (
	"errors"
	"strings"

	"github.com/quillblog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound       = errors.New("comment not found")
	ErrCommentFieldsRequired = errors.New("author, email and content are required")
	ErrCommentFieldTooLong   = errors.New("comment field exceeds maximum length")
	ErrInvalidEmail          = errors.New("email address is invalid")
)

// CommentService wraps comment related operations.
type CommentService struct {
	db *gorm.DB
}

// CommentInput represents a reader submitted comment.
type CommentInput struct {
	Author  string `validate:"required,max=50"`
	Email   string `validate:"required,max=100,mailbox"`
	Content string `validate:"required"`
}

// CommentPage 是一页评论及其分页信息。
type CommentPage struct {
	Comments []db.Comment
	Pagination
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// Create validates and stores a comment for an existing post.
func (s *CommentService) Create(postID uint, input CommentInput) (*db.Comment, error) {
	input.Author = strings.TrimSpace(input.Author)
	input.Email = strings.TrimSpace(input.Email)
	input.Content = strings.TrimSpace(input.Content)

	if err := validate.Struct(input); err != nil {
		switch {
		case hasFailedTag(err, "required"):
			return nil, ErrCommentFieldsRequired
		case hasFailedTag(err, "mailbox"):
			return nil, ErrInvalidEmail
		default:
			return nil, ErrCommentFieldTooLong
		}
	}

	comment := db.Comment{
		Author:  input.Author,
		Email:   input.Email,
		Content: input.Content,
		PostID:  postID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post db.Post
		if err := tx.Select("id").First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}
		return tx.Omit("Post").Create(&comment).Error
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListForPost returns comments of a post, oldest first.
func (s *CommentService) ListForPost(postID uint) ([]db.Comment, error) {
	var comments []db.Comment
	if err := s.db.Where("post_id = ?", postID).Order("created_at asc, id asc").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// ListAdmin returns all comments, newest first, with their posts.
func (s *CommentService) ListAdmin(page, perPage int) (*CommentPage, error) {
	var total int64
	if err := s.db.Model(&db.Comment{}).Count(&total).Error; err != nil {
		return nil, err
	}

	result := &CommentPage{Pagination: NewPagination(page, perPage, total), Comments: []db.Comment{}}
	if result.OutOfRange() {
		return result, nil
	}
	if err := s.db.Preload("Post").
		Order("created_at desc, id desc").
		Limit(result.PerPage).
		Offset(result.Offset()).
		Find(&result.Comments).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// Recent returns the latest comments with their posts.
func (s *CommentService) Recent(limit int) ([]db.Comment, error) {
	var comments []db.Comment
	if err := s.db.Preload("Post").Order("created_at desc, id desc").Limit(limit).Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Delete removes a comment by id.
func (s *CommentService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var comment db.Comment
		if err := tx.First(&comment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return err
		}
		return tx.Delete(&comment).Error
	})
}
