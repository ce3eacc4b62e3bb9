package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"community-board-api/internal/domain"
	"community-board-api/internal/dto"
	"community-board-api/internal/metrics"
	"community-board-api/internal/repository"
	"community-board-api/internal/response"
	"community-board-api/internal/search"
)

// topCommentLimit is the size of the main-page recent comment list
const topCommentLimit = 5

// CommentService defines the interface for comment business logic
type CommentService interface {
	Write(ctx context.Context, writerID uint, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	List(ctx context.Context, query *dto.CommentSearchQuery) (*dto.CommentPageResponse, error)
	TopNew(ctx context.Context) ([]dto.CommentResponse, error)
	Update(ctx context.Context, commentID, editorID uint, role string, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	Delete(ctx context.Context, commentID, editorID uint, role string) error
}

// commentServiceImpl is the implementation of CommentService
type commentServiceImpl struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewCommentService creates a new instance of CommentService
func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) CommentService {
	return &commentServiceImpl{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		metrics:     m,
		logger:      logger,
	}
}

// Write creates a comment on an existing post
func (s *commentServiceImpl) Write(ctx context.Context, writerID uint, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if _, err := s.postRepo.FindByID(ctx, req.PostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Post not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to verify post", err.Error())
	}

	comment := &domain.Comment{
		WriterID: writerID,
		PostID:   req.PostID,
		Content:  req.Content,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create comment", err.Error())
	}

	s.metrics.IncrementCommentCreated()

	created, err := s.commentRepo.FindByID(ctx, comment.ID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to reload comment", err.Error())
	}

	resp := dto.FromComment(created)
	return &resp, nil
}

// List returns one page of comments matching the search query
func (s *commentServiceImpl) List(ctx context.Context, query *dto.CommentSearchQuery) (*dto.CommentPageResponse, error) {
	filter := search.CommentFilter{
		WriterID: query.WriterID,
		PostID:   query.PostID,
		Period:   query.Period,
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	size := query.Size
	if size < 1 || size > 100 {
		size = 20
	}

	comments, total, err := s.commentRepo.List(ctx, filter, page, size)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to list comments", err.Error())
	}

	resp := dto.NewCommentPage(comments, page, size, total)
	return &resp, nil
}

// TopNew returns the newest comments for the main page
func (s *commentServiceImpl) TopNew(ctx context.Context) ([]dto.CommentResponse, error) {
	comments, _, err := s.commentRepo.List(ctx, search.CommentFilter{}, 1, topCommentLimit)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load new comments", err.Error())
	}
	return dto.FromComments(comments), nil
}

// Update edits a comment. Only the writer or an admin may edit.
func (s *commentServiceImpl) Update(ctx context.Context, commentID, editorID uint, role string, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Comment not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to find comment", err.Error())
	}

	if comment.WriterID != editorID && role != string(domain.RoleAdmin) {
		return nil, response.NewAppError(response.ErrCodeNotWriter, "Only the writer can edit this comment", "")
	}

	if req.Content != nil {
		comment.Content = *req.Content
	}

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update comment", err.Error())
	}

	resp := dto.FromComment(comment)
	return &resp, nil
}

// Delete removes a comment. Only the writer or an admin may delete.
func (s *commentServiceImpl) Delete(ctx context.Context, commentID, editorID uint, role string) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Comment not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to find comment", err.Error())
	}

	if comment.WriterID != editorID && role != string(domain.RoleAdmin) {
		return response.NewAppError(response.ErrCodeNotWriter, "Only the writer can delete this comment", "")
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete comment", err.Error())
	}
	return nil
}
