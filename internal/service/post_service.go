package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"community-board-api/internal/cache"
	"community-board-api/internal/domain"
	"community-board-api/internal/dto"
	"community-board-api/internal/metrics"
	"community-board-api/internal/repository"
	"community-board-api/internal/response"
	"community-board-api/internal/search"
)

const (
	// topPostLimit is the size of the main-page top lists
	topPostLimit = 5
	// topPostPeriod restricts the view/comment rankings to the last day
	topPostPeriod = "1d"
)

// PostService defines the interface for post business logic
type PostService interface {
	Write(ctx context.Context, writerID uint, role string, req *dto.CreatePostRequest) (*dto.PostResponse, error)
	Read(ctx context.Context, postID uint, viewKey cache.ViewKey) (*dto.PostDetailResponse, error)
	List(ctx context.Context, query *dto.PostSearchQuery) (*dto.PostPageResponse, error)
	TopNotices(ctx context.Context) ([]dto.PostResponse, error)
	TopByViews(ctx context.Context) ([]dto.PostResponse, error)
	TopByComments(ctx context.Context) ([]dto.PostResponse, error)
	TopNew(ctx context.Context) ([]dto.PostResponse, error)
	Update(ctx context.Context, postID, editorID uint, role string, req *dto.UpdatePostRequest) (*dto.PostResponse, error)
	Delete(ctx context.Context, postID, editorID uint, role string) error
}

// postServiceImpl is the implementation of PostService
type postServiceImpl struct {
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	categoryRepo repository.CategoryRepository
	viewTracker  cache.ViewTracker
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewPostService creates a new instance of PostService
func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	categoryRepo repository.CategoryRepository,
	viewTracker cache.ViewTracker,
	m *metrics.Metrics,
	logger *zap.Logger,
) PostService {
	return &postServiceImpl{
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		categoryRepo: categoryRepo,
		viewTracker:  viewTracker,
		metrics:      m,
		logger:       logger,
	}
}

// Write creates a post. Notices are reserved for admins.
func (s *postServiceImpl) Write(ctx context.Context, writerID uint, role string, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	if req.Notice && role != string(domain.RoleAdmin) {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only admins can write notices", "")
	}

	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Category not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify category", err.Error())
	}

	post := &domain.Post{
		WriterID:   writerID,
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		Notice:     req.Notice,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create post", err.Error())
	}

	s.metrics.IncrementPostCreated()
	s.logger.Info("Post created",
		zap.Uint("post_id", post.ID),
		zap.Uint("writer_id", writerID))

	created, err := s.postRepo.FindByID(ctx, post.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to reload post", err.Error())
	}

	resp := dto.FromPost(created)
	return &resp, nil
}

// Read returns the post with its comments. The view counter only moves for
// the first read of a (post, session, address) triple inside the dedup
// window; a cache outage counts the view rather than blocking the read.
func (s *postServiceImpl) Read(ctx context.Context, postID uint, viewKey cache.ViewKey) (*dto.PostDetailResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Post not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to find post", err.Error())
	}

	if s.viewTracker.Touch(ctx, viewKey) {
		if err := s.postRepo.IncrementViewCount(ctx, postID); err != nil {
			s.logger.Warn("Failed to increment view count",
				zap.Uint("post_id", postID),
				zap.Error(err))
		} else {
			post.ViewCount++
			s.metrics.IncrementPostViews()
		}
	}

	comments, err := s.commentRepo.FindByPostID(ctx, postID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load comments", err.Error())
	}

	return &dto.PostDetailResponse{
		PostResponse: dto.FromPost(post),
		Comments:     dto.FromComments(comments),
	}, nil
}

// List returns one page of posts matching the search query
func (s *postServiceImpl) List(ctx context.Context, query *dto.PostSearchQuery) (*dto.PostPageResponse, error) {
	filter := search.PostFilter{
		WriterID:   query.WriterID,
		CategoryID: query.CategoryID,
		Notice:     query.Notice,
		Period:     query.Period,
		Condition:  search.Condition(query.Condition),
		Keyword:    query.Keyword,
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	size := query.Size
	if size < 1 || size > 100 {
		size = 20
	}

	posts, total, err := s.postRepo.List(ctx, filter, page, size)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list posts", err.Error())
	}

	resp := dto.NewPostPage(posts, page, size, total)
	return &resp, nil
}

// TopNotices returns the latest notices for the main page
func (s *postServiceImpl) TopNotices(ctx context.Context) ([]dto.PostResponse, error) {
	notice := true
	posts, err := s.postRepo.FindTopByCreatedAt(ctx, search.PostFilter{Notice: &notice}, topPostLimit)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load notices", err.Error())
	}
	return dto.FromPosts(posts), nil
}

// TopByViews returns the most viewed posts of the last day
func (s *postServiceImpl) TopByViews(ctx context.Context) ([]dto.PostResponse, error) {
	posts, err := s.postRepo.FindTopByViewCount(ctx, search.PostFilter{Period: topPostPeriod}, topPostLimit)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load top posts", err.Error())
	}
	return dto.FromPosts(posts), nil
}

// TopByComments returns the most commented posts of the last day
func (s *postServiceImpl) TopByComments(ctx context.Context) ([]dto.PostResponse, error) {
	posts, err := s.postRepo.FindTopByCommentCount(ctx, search.PostFilter{Period: topPostPeriod}, topPostLimit)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load top posts", err.Error())
	}
	return dto.FromPosts(posts), nil
}

// TopNew returns the newest posts for the main page
func (s *postServiceImpl) TopNew(ctx context.Context) ([]dto.PostResponse, error) {
	posts, err := s.postRepo.FindTopByCreatedAt(ctx, search.PostFilter{}, topPostLimit)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load new posts", err.Error())
	}
	return dto.FromPosts(posts), nil
}

// Update applies a partial post update. Only the writer or an admin may
// edit, and only admins may toggle the notice flag.
func (s *postServiceImpl) Update(ctx context.Context, postID, editorID uint, role string, req *dto.UpdatePostRequest) (*dto.PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Post not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to find post", err.Error())
	}

	isAdmin := role == string(domain.RoleAdmin)
	if post.WriterID != editorID && !isAdmin {
		return nil, response.NewAppError(response.ErrCodeNotWriter, "Only the writer can edit this post", "")
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.CategoryID != nil && *req.CategoryID != post.CategoryID {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, response.NewAppError(response.ErrCodeNotFound, "Category not found", "")
			}
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify category", err.Error())
		}
		post.CategoryID = *req.CategoryID
	}
	if req.Notice != nil && *req.Notice != post.Notice {
		if !isAdmin {
			return nil, response.NewAppError(response.ErrCodeForbidden, "Only admins can change the notice flag", "")
		}
		post.Notice = *req.Notice
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update post", err.Error())
	}

	updated, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to reload post", err.Error())
	}

	resp := dto.FromPost(updated)
	return &resp, nil
}

// Delete removes the post with its comments. Only the writer or an admin
// may delete.
func (s *postServiceImpl) Delete(ctx context.Context, postID, editorID uint, role string) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Post not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to find post", err.Error())
	}

	if post.WriterID != editorID && role != string(domain.RoleAdmin) {
		return response.NewAppError(response.ErrCodeNotWriter, "Only the writer can delete this post", "")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete post", err.Error())
	}

	s.logger.Info("Post deleted",
		zap.Uint("post_id", postID),
		zap.Uint("editor_id", editorID))
	return nil
}
