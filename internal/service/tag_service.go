package service

import (
	"errors"
	"strings"

	"github.com/quillblog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrTagExists       = errors.New("tag already exists")
	ErrTagNotFound     = errors.New("tag not found")
	ErrTagNameRequired = errors.New("tag name is required")
	ErrTagNameTooLong  = errors.New("tag name too long")
)

// TagService wraps tag related operations.
type TagService struct {
	db *gorm.DB
}

type tagInput struct {
	Name string `validate:"required,max=50"`
}

// NewTagService creates a TagService instance.
func NewTagService(gdb *gorm.DB) *TagService {
	return &TagService{db: gdb}
}

// List returns tags with the number of published posts carrying each.
func (s *TagService) List() ([]db.Tag, error) {
	var tags []db.Tag
	if err := s.db.
		Model(&db.Tag{}).
		Select("tags.*, COUNT(posts.id) AS post_count").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Joins("LEFT JOIN posts ON posts.id = post_tags.post_id AND posts.is_published = ?", true).
		Group("tags.id").
		Order("tags.id asc").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// Get fetches a tag by id.
func (s *TagService) Get(id uint) (*db.Tag, error) {
	var tag db.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// Create inserts a new tag with unique name.
func (s *TagService) Create(name string) (*db.Tag, error) {
	name, err := normalizeTagName(name)
	if err != nil {
		return nil, err
	}

	tag := db.Tag{Name: name}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureUniqueName(tx, &db.Tag{}, name, 0, ErrTagExists); err != nil {
			return err
		}
		return tx.Create(&tag).Error
	})
	if err != nil {
		return nil, translateDuplicate(err, ErrTagExists)
	}
	return &tag, nil
}

// Update changes the tag name while keeping uniqueness.
func (s *TagService) Update(id uint, name string) (*db.Tag, error) {
	tag, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	name, err = normalizeTagName(name)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureUniqueName(tx, &db.Tag{}, name, id, ErrTagExists); err != nil {
			return err
		}
		tag.Name = name
		return tx.Save(tag).Error
	})
	if err != nil {
		return nil, translateDuplicate(err, ErrTagExists)
	}
	return tag, nil
}

// Delete removes a tag and its post associations; posts themselves are kept.
func (s *TagService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var tag db.Tag
		if err := tx.First(&tag, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTagNotFound
			}
			return err
		}

		if err := tx.Model(&tag).Association("Posts").Clear(); err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}

func normalizeTagName(name string) (string, error) {
	input := tagInput{Name: strings.TrimSpace(name)}
	if err := validate.Struct(input); err != nil {
		if input.Name == "" {
			return "", ErrTagNameRequired
		}
		return "", ErrTagNameTooLong
	}
	return input.Name, nil
}
