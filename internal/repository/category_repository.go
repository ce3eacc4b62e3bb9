package repository

import (
	"context"

	"gorm.io/gorm"

	"community-board-api/internal/domain"
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	FindByID(ctx context.Context, id uint) (*domain.Category, error)
	FindByName(ctx context.Context, name string) (*domain.Category, error)
	FindAll(ctx context.Context) ([]*domain.Category, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}

// categoryRepositoryImpl is the GORM implementation of CategoryRepository
type categoryRepositoryImpl struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepositoryImpl{db: db}
}

// Create creates a new category
func (r *categoryRepositoryImpl) Create(ctx context.Context, category *domain.Category) error {
	if err := conn(r.db).WithContext(ctx).Create(category).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds a category with its children preloaded
func (r *categoryRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Category, error) {
	var category domain.Category
	if err := conn(r.db).WithContext(ctx).
		Preload("Children").
		First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByName finds a category by its unique name
func (r *categoryRepositoryImpl) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	var category domain.Category
	if err := conn(r.db).WithContext(ctx).
		Preload("Children").
		Where("name = ?", name).
		First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindAll returns every category ordered by name
func (r *categoryRepositoryImpl) FindAll(ctx context.Context) ([]*domain.Category, error) {
	var categories []*domain.Category
	if err := conn(r.db).WithContext(ctx).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// ExistsByName reports whether a category with the name already exists
func (r *categoryRepositoryImpl) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := conn(r.db).WithContext(ctx).
		Model(&domain.Category{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
