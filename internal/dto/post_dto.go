package dto

import (
	"time"

	"community-board-api/internal/domain"
)

// CreatePostRequest represents the request to create a new post
type CreatePostRequest struct {
	Title      string `json:"title" binding:"required,min=1,max=100"`
	Content    string `json:"content" binding:"required,min=1"`
	CategoryID uint   `json:"categoryId" binding:"required"`
	Notice     bool   `json:"notice"`
}

// UpdatePostRequest represents a partial post update. Nil fields are left
// untouched.
type UpdatePostRequest struct {
	Title      *string `json:"title,omitempty" binding:"omitempty,min=1,max=100"`
	Content    *string `json:"content,omitempty" binding:"omitempty,min=1"`
	CategoryID *uint   `json:"categoryId,omitempty"`
	Notice     *bool   `json:"notice,omitempty"`
}

// PostSearchQuery carries the optional list filters from the query string
type PostSearchQuery struct {
	CategoryID *uint  `form:"categoryId"`
	WriterID   *uint  `form:"writerId"`
	Notice     *bool  `form:"notice"`
	Period     string `form:"period"`
	Condition  string `form:"condition"`
	Keyword    string `form:"keyword"`
	Page       int    `form:"page,default=1"`
	Size       int    `form:"size,default=20"`
}

// WriterResponse identifies a post or comment author
type WriterResponse struct {
	MemberID uint   `json:"memberId"`
	Nickname string `json:"nickname"`
}

// PostResponse represents a post in list and detail responses
type PostResponse struct {
	PostID       uint           `json:"postId"`
	Title        string         `json:"title"`
	Content      string         `json:"content"`
	Writer       WriterResponse `json:"writer"`
	CategoryID   uint           `json:"categoryId"`
	CategoryName string         `json:"categoryName"`
	ViewCount    int            `json:"viewCount"`
	Notice       bool           `json:"notice"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// PostDetailResponse is a post with its comment thread
type PostDetailResponse struct {
	PostResponse
	Comments []CommentResponse `json:"comments"`
}

// PostPageResponse is one page of posts
type PostPageResponse struct {
	Items         []PostResponse `json:"items"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
	TotalElements int64          `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
}

// FromPost converts a domain post to its response form
func FromPost(p *domain.Post) PostResponse {
	return PostResponse{
		PostID:  p.ID,
		Title:   p.Title,
		Content: p.Content,
		Writer: WriterResponse{
			MemberID: p.WriterID,
			Nickname: p.Writer.Nickname,
		},
		CategoryID:   p.CategoryID,
		CategoryName: p.Category.Name,
		ViewCount:    p.ViewCount,
		Notice:       p.Notice,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// FromPosts converts a slice of domain posts
func FromPosts(posts []*domain.Post) []PostResponse {
	items := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		items = append(items, FromPost(p))
	}
	return items
}

// NewPostPage assembles a page response from repository results
func NewPostPage(posts []*domain.Post, page, size int, total int64) PostPageResponse {
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return PostPageResponse{
		Items:         FromPosts(posts),
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}
