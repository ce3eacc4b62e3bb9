package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"community-board-api/internal/cache"
	"community-board-api/internal/dto"
	"community-board-api/internal/middleware"
	"community-board-api/internal/response"
	"community-board-api/internal/service"
)

type PostHandler struct {
	postService service.PostService
}

func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// Create godoc
// @Summary      게시글 작성
// @Description  게시글을 작성합니다. 공지는 관리자만 작성할 수 있습니다.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreatePostRequest true "게시글 작성 요청"
// @Success      201 {object} dto.PostResponse
// @Failure      403 {object} response.ErrorResponse "공지 작성 권한 없음"
// @Failure      404 {object} response.ErrorResponse "카테고리를 찾을 수 없음"
// @Router       /posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	memberID, ok := middleware.MemberID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	post, err := h.postService.Write(c.Request.Context(), memberID, middleware.MemberRole(c), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, post)
}

// Get godoc
// @Summary      게시글 조회
// @Description  게시글과 댓글을 조회합니다. 같은 세션/주소의 반복 조회는 조회수에 반영되지 않습니다.
// @Tags         posts
// @Produce      json
// @Param        postId path int true "게시글 ID"
// @Success      200 {object} dto.PostDetailResponse
// @Failure      404 {object} response.ErrorResponse "게시글을 찾을 수 없음"
// @Router       /posts/{postId} [get]
func (h *PostHandler) Get(c *gin.Context) {
	postID, ok := parseIDParam(c, "postId")
	if !ok {
		return
	}

	viewKey := cache.ViewKey{
		PostID:    postID,
		SessionID: middleware.ViewSessionID(c),
		Address:   c.ClientIP(),
	}

	post, err := h.postService.Read(c.Request.Context(), postID, viewKey)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, post)
}

// List godoc
// @Summary      게시글 검색
// @Description  기간, 카테고리, 키워드 조건으로 게시글을 페이지 단위로 검색합니다
// @Tags         posts
// @Produce      json
// @Param        categoryId query int false "카테고리 ID"
// @Param        writerId query int false "작성자 ID"
// @Param        notice query bool false "공지 여부"
// @Param        period query string false "기간 (예: 1d, 2w, 3m, 1y)"
// @Param        condition query string false "검색 대상 (title, content, writer, titleOrContent)"
// @Param        keyword query string false "검색어"
// @Param        page query int false "페이지 (기본 1)"
// @Param        size query int false "페이지 크기 (기본 20, 최대 100)"
// @Success      200 {object} dto.PostPageResponse
// @Router       /posts [get]
func (h *PostHandler) List(c *gin.Context) {
	var query dto.PostSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid query parameters")
		return
	}

	page, err := h.postService.List(c.Request.Context(), &query)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, page)
}

// TopNotices godoc
// @Summary      메인 공지 목록
// @Tags         posts
// @Produce      json
// @Success      200 {array} dto.PostResponse
// @Router       /posts/top/notices [get]
func (h *PostHandler) TopNotices(c *gin.Context) {
	posts, err := h.postService.TopNotices(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, posts)
}

// TopByViews godoc
// @Summary      일간 조회수 상위 게시글
// @Tags         posts
// @Produce      json
// @Success      200 {array} dto.PostResponse
// @Router       /posts/top/views [get]
func (h *PostHandler) TopByViews(c *gin.Context) {
	posts, err := h.postService.TopByViews(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, posts)
}

// TopByComments godoc
// @Summary      일간 댓글수 상위 게시글
// @Tags         posts
// @Produce      json
// @Success      200 {array} dto.PostResponse
// @Router       /posts/top/comments [get]
func (h *PostHandler) TopByComments(c *gin.Context) {
	posts, err := h.postService.TopByComments(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, posts)
}

// TopNew godoc
// @Summary      최신 게시글
// @Tags         posts
// @Produce      json
// @Success      200 {array} dto.PostResponse
// @Router       /posts/top/new [get]
func (h *PostHandler) TopNew(c *gin.Context) {
	posts, err := h.postService.TopNew(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, posts)
}

// Update godoc
// @Summary      게시글 수정
// @Description  작성자 또는 관리자만 수정할 수 있습니다. 공지 플래그는 관리자만 변경합니다.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        postId path int true "게시글 ID"
// @Param        request body dto.UpdatePostRequest true "수정 요청"
// @Success      200 {object} dto.PostResponse
// @Failure      403 {object} response.ErrorResponse "수정 권한 없음"
// @Failure      404 {object} response.ErrorResponse "게시글을 찾을 수 없음"
// @Router       /posts/{postId} [put]
func (h *PostHandler) Update(c *gin.Context) {
	memberID, ok := middleware.MemberID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	postID, ok := parseIDParam(c, "postId")
	if !ok {
		return
	}

	var req dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	post, err := h.postService.Update(c.Request.Context(), postID, memberID, middleware.MemberRole(c), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, post)
}

// Delete godoc
// @Summary      게시글 삭제
// @Description  작성자 또는 관리자만 삭제할 수 있습니다. 댓글도 함께 삭제됩니다.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        postId path int true "게시글 ID"
// @Success      200 {object} map[string]bool
// @Failure      403 {object} response.ErrorResponse "삭제 권한 없음"
// @Failure      404 {object} response.ErrorResponse "게시글을 찾을 수 없음"
// @Router       /posts/{postId} [delete]
func (h *PostHandler) Delete(c *gin.Context) {
	memberID, ok := middleware.MemberID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	postID, ok := parseIDParam(c, "postId")
	if !ok {
		return
	}

	if err := h.postService.Delete(c.Request.Context(), postID, memberID, middleware.MemberRole(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"deleted": true})
}
