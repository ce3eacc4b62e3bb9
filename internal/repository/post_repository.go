package repository

import (
	"context"

	"gorm.io/gorm"

	"community-board-api/internal/domain"
	"community-board-api/internal/search"
)

// PostRepository defines the interface for post data access
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, id uint) (*domain.Post, error)
	List(ctx context.Context, filter search.PostFilter, page, size int) ([]*domain.Post, int64, error)
	FindTopByCreatedAt(ctx context.Context, filter search.PostFilter, limit int) ([]*domain.Post, error)
	FindTopByViewCount(ctx context.Context, filter search.PostFilter, limit int) ([]*domain.Post, error)
	FindTopByCommentCount(ctx context.Context, filter search.PostFilter, limit int) ([]*domain.Post, error)
	IncrementViewCount(ctx context.Context, id uint) error
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id uint) error
}

// postRepositoryImpl is the GORM implementation of PostRepository
type postRepositoryImpl struct {
	db *gorm.DB
}

// NewPostRepository creates a new instance of PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepositoryImpl{db: db}
}

// Create creates a new post
func (r *postRepositoryImpl) Create(ctx context.Context, post *domain.Post) error {
	if err := conn(r.db).WithContext(ctx).Create(post).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds a post with its writer and category preloaded
func (r *postRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Post, error) {
	var post domain.Post
	if err := conn(r.db).WithContext(ctx).
		Preload("Writer").
		Preload("Writer.ProfileImage").
		Preload("Category").
		First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns one page of posts matching the filter, newest first, plus the
// total match count for pagination
func (r *postRepositoryImpl) List(ctx context.Context, filter search.PostFilter, page, size int) ([]*domain.Post, int64, error) {
	base := filter.Apply(conn(r.db).WithContext(ctx).Model(&domain.Post{}))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}

	var posts []*domain.Post
	if err := filter.Apply(conn(r.db).WithContext(ctx).Model(&domain.Post{})).
		Preload("Writer").
		Preload("Category").
		Order("posts.created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// FindTopByCreatedAt returns the newest posts matching the filter
func (r *postRepositoryImpl) FindTopByCreatedAt(ctx context.Context, filter search.PostFilter, limit int) ([]*domain.Post, error) {
	return r.findTop(ctx, filter, "posts.created_at DESC", limit)
}

// FindTopByViewCount returns the most viewed posts matching the filter
func (r *postRepositoryImpl) FindTopByViewCount(ctx context.Context, filter search.PostFilter, limit int) ([]*domain.Post, error) {
	return r.findTop(ctx, filter, "posts.view_count DESC, posts.created_at DESC", limit)
}

// FindTopByCommentCount returns the most commented posts matching the filter
func (r *postRepositoryImpl) FindTopByCommentCount(ctx context.Context, filter search.PostFilter, limit int) ([]*domain.Post, error) {
	var posts []*domain.Post
	if err := filter.Apply(conn(r.db).WithContext(ctx).Model(&domain.Post{})).
		Select("posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count").
		Preload("Writer").
		Preload("Category").
		Order("comment_count DESC, posts.created_at DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepositoryImpl) findTop(ctx context.Context, filter search.PostFilter, order string, limit int) ([]*domain.Post, error) {
	var posts []*domain.Post
	if err := filter.Apply(conn(r.db).WithContext(ctx).Model(&domain.Post{})).
		Preload("Writer").
		Preload("Category").
		Order(order).
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// IncrementViewCount bumps the view counter atomically in the database
func (r *postRepositoryImpl) IncrementViewCount(ctx context.Context, id uint) error {
	return conn(r.db).WithContext(ctx).
		Model(&domain.Post{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// Update saves the post's changed fields
func (r *postRepositoryImpl) Update(ctx context.Context, post *domain.Post) error {
	if err := conn(r.db).WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	return nil
}

// Delete removes the post together with its comments
func (r *postRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return conn(r.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).
			Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Post{}, id).Error
	})
}
