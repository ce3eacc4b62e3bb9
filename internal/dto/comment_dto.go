package dto

import (
	"time"

	"community-board-api/internal/domain"
)

// CreateCommentRequest represents the request to create a new comment
type CreateCommentRequest struct {
	PostID  uint   `json:"postId" binding:"required"`
	Content string `json:"content" binding:"required,min=1"`
}

// UpdateCommentRequest represents a partial comment update
type UpdateCommentRequest struct {
	Content *string `json:"content,omitempty" binding:"omitempty,min=1"`
}

// CommentSearchQuery carries the optional list filters from the query string
type CommentSearchQuery struct {
	PostID   *uint  `form:"postId"`
	WriterID *uint  `form:"writerId"`
	Period   string `form:"period"`
	Page     int    `form:"page,default=1"`
	Size     int    `form:"size,default=20"`
}

// CommentResponse represents the comment response
type CommentResponse struct {
	CommentID uint           `json:"commentId"`
	PostID    uint           `json:"postId"`
	Writer    WriterResponse `json:"writer"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// CommentPageResponse is one page of comments
type CommentPageResponse struct {
	Items         []CommentResponse `json:"items"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	TotalElements int64             `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
}

// FromComment converts a domain comment to its response form
func FromComment(c *domain.Comment) CommentResponse {
	return CommentResponse{
		CommentID: c.ID,
		PostID:    c.PostID,
		Writer: WriterResponse{
			MemberID: c.WriterID,
			Nickname: c.Writer.Nickname,
		},
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// FromComments converts a slice of domain comments
func FromComments(comments []*domain.Comment) []CommentResponse {
	items := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		items = append(items, FromComment(c))
	}
	return items
}

// NewCommentPage assembles a page response from repository results
func NewCommentPage(comments []*domain.Comment, page, size int, total int64) CommentPageResponse {
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return CommentPageResponse{
		Items:         FromComments(comments),
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}
