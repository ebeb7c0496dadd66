package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/curata-dev/curata/internal/models"
)

// CategoryStore serves the two-level classification hierarchy.
type CategoryStore struct {
	db *gorm.DB
}

func NewCategoryStore(db *gorm.DB) *CategoryStore { return &CategoryStore{db: db} }

// GetAll returns every category with its subcategories, both ordered by name.
func (s *CategoryStore) GetAll(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.WithContext(ctx).
		Order("name").
		Preload("Subcategories", subcategoriesByName).
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// GetByID returns one category with its subcategories, or (nil, nil) when
// it does not exist.
func (s *CategoryStore) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	err := s.db.WithContext(ctx).
		Preload("Subcategories", subcategoriesByName).
		First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	return &c, nil
}

// GetSubcategories lists the subcategories of one category ordered by name.
func (s *CategoryStore) GetSubcategories(ctx context.Context, categoryID uint) ([]models.Subcategory, error) {
	subcategories := []models.Subcategory{}
	err := s.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("name").
		Find(&subcategories).Error
	if err != nil {
		return nil, fmt.Errorf("list subcategories of %d: %w", categoryID, err)
	}
	return subcategories, nil
}

// Create inserts a category.
func (s *CategoryStore) Create(ctx context.Context, name, slug string) (*models.Category, error) {
	c := models.Category{Name: name, Slug: slug}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &c, nil
}

// CreateSubcategory inserts a subcategory under the given category.
func (s *CategoryStore) CreateSubcategory(ctx context.Context, categoryID uint, name, slug string) (*models.Subcategory, error) {
	sc := models.Subcategory{CategoryID: categoryID, Name: name, Slug: slug}
	if err := s.db.WithContext(ctx).Create(&sc).Error; err != nil {
		return nil, fmt.Errorf("create subcategory: %w", err)
	}
	return &sc, nil
}
