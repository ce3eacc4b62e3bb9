package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"community-board-api/internal/domain"
	"community-board-api/internal/dto"
	"community-board-api/internal/repository"
	"community-board-api/internal/response"
)

// CategoryService defines the interface for category business logic
type CategoryService interface {
	Create(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	Get(ctx context.Context, id uint) (*dto.CategoryResponse, error)
	Tree(ctx context.Context) ([]dto.CategoryResponse, error)
}

// categoryServiceImpl is the implementation of CategoryService
type categoryServiceImpl struct {
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository, logger *zap.Logger) CategoryService {
	return &categoryServiceImpl{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// Create adds a category under the given parent (or as a root)
func (s *categoryServiceImpl) Create(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	exists, err := s.categoryRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check category name", err.Error())
	}
	if exists {
		return nil, response.NewAppError(response.ErrCodeAlreadyExists, "Category name is already taken", "")
	}

	if req.ParentID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.ParentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewAppError(response.ErrCodeNotFound, "Parent category not found", "")
			}
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify parent category", err.Error())
		}
	}

	category := &domain.Category{
		Name:     req.Name,
		ParentID: req.ParentID,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create category", err.Error())
	}

	s.logger.Info("Category created",
		zap.Uint("category_id", category.ID),
		zap.String("name", category.Name))

	resp := dto.FromCategory(category)
	return &resp, nil
}

// Get returns a single category with its children
func (s *categoryServiceImpl) Get(ctx context.Context, id uint) (*dto.CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Category not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to find category", err.Error())
	}

	resp := dto.FromCategory(category)
	return &resp, nil
}

// Tree returns the whole category forest
func (s *categoryServiceImpl) Tree(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list categories", err.Error())
	}
	return dto.BuildCategoryTree(categories), nil
}
