package service

import (
	"errors"
	"strings"

	"github.com/quillblog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCategoryExists       = errors.New("category already exists")
	ErrCategoryInUse        = errors.New("category still has posts")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrCategoryNameTooLong  = errors.New("category name or description too long")
)

// CategoryService wraps category related operations.
type CategoryService struct {
	db *gorm.DB
}

type categoryInput struct {
	Name        string `validate:"required,max=50"`
	Description string `validate:"max=200"`
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// List returns all categories with the number of published posts in each.
func (s *CategoryService) List() ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.
		Model(&db.Category{}).
		Select("categories.*, COUNT(posts.id) AS post_count").
		Joins("LEFT JOIN posts ON posts.category_id = categories.id AND posts.is_published = ?", true).
		Group("categories.id").
		Order("categories.id asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Get fetches a category by id.
func (s *CategoryService) Get(id uint) (*db.Category, error) {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// Create inserts a new category with unique name.
func (s *CategoryService) Create(name, description string) (*db.Category, error) {
	input, err := normalizeCategoryInput(name, description)
	if err != nil {
		return nil, err
	}

	category := db.Category{Name: input.Name, Description: input.Description}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureUniqueName(tx, &db.Category{}, input.Name, 0, ErrCategoryExists); err != nil {
			return err
		}
		return tx.Create(&category).Error
	})
	if err != nil {
		return nil, translateDuplicate(err, ErrCategoryExists)
	}
	return &category, nil
}

// Update changes the category name and description while keeping uniqueness.
func (s *CategoryService) Update(id uint, name, description string) (*db.Category, error) {
	category, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	input, err := normalizeCategoryInput(name, description)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureUniqueName(tx, &db.Category{}, input.Name, id, ErrCategoryExists); err != nil {
			return err
		}
		category.Name = input.Name
		category.Description = input.Description
		return tx.Save(category).Error
	})
	if err != nil {
		return nil, translateDuplicate(err, ErrCategoryExists)
	}
	return category, nil
}

// Delete removes a category unless any post, published or draft, still references it.
func (s *CategoryService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var category db.Category
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&db.Post{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrCategoryInUse
		}

		return tx.Delete(&category).Error
	})
}

func normalizeCategoryInput(name, description string) (categoryInput, error) {
	input := categoryInput{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}
	if err := validate.Struct(input); err != nil {
		if input.Name == "" {
			return input, ErrCategoryNameRequired
		}
		return input, ErrCategoryNameTooLong
	}
	return input, nil
}

// ensureUniqueName 检查同名记录是否存在，excludeID 非零时排除自身。
func ensureUniqueName(tx *gorm.DB, model interface{}, name string, excludeID uint, conflict error) error {
	query := tx.Model(model).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return conflict
	}
	return nil
}

// translateDuplicate 将并发写入触发的唯一约束冲突转换为业务错误。
func translateDuplicate(err, conflict error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflict
	}
	return err
}
