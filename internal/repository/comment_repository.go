package repository

import (
	"context"

	"gorm.io/gorm"

	"community-board-api/internal/domain"
	"community-board-api/internal/search"
)

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	FindByID(ctx context.Context, id uint) (*domain.Comment, error)
	List(ctx context.Context, filter search.CommentFilter, page, size int) ([]*domain.Comment, int64, error)
	FindByPostID(ctx context.Context, postID uint) ([]*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id uint) error
}

// commentRepositoryImpl is the GORM implementation of CommentRepository
type commentRepositoryImpl struct {
	db *gorm.DB
}

// NewCommentRepository creates a new instance of CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepositoryImpl{db: db}
}

// Create creates a new comment
func (r *commentRepositoryImpl) Create(ctx context.Context, comment *domain.Comment) error {
	if err := conn(r.db).WithContext(ctx).Create(comment).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds a comment with its writer preloaded
func (r *commentRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Comment, error) {
	var comment domain.Comment
	if err := conn(r.db).WithContext(ctx).
		Preload("Writer").
		First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// List returns one page of comments matching the filter, newest first, plus
// the total match count
func (r *commentRepositoryImpl) List(ctx context.Context, filter search.CommentFilter, page, size int) ([]*domain.Comment, int64, error) {
	base := filter.Apply(conn(r.db).WithContext(ctx).Model(&domain.Comment{}))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}

	var comments []*domain.Comment
	if err := filter.Apply(conn(r.db).WithContext(ctx).Model(&domain.Comment{})).
		Preload("Writer").
		Order("comments.created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&comments).Error; err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// FindByPostID returns all comments of a post in posting order
func (r *commentRepositoryImpl) FindByPostID(ctx context.Context, postID uint) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	if err := conn(r.db).WithContext(ctx).
		Preload("Writer").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Update saves the comment's changed fields
func (r *commentRepositoryImpl) Update(ctx context.Context, comment *domain.Comment) error {
	if err := conn(r.db).WithContext(ctx).Save(comment).Error; err != nil {
		return err
	}
	return nil
}

// Delete removes a comment by ID
func (r *commentRepositoryImpl) Delete(ctx context.Context, id uint) error {
	if err := conn(r.db).WithContext(ctx).Delete(&domain.Comment{}, id).Error; err != nil {
		return err
	}
	return nil
}
