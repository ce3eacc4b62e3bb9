package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"community-board-api/internal/dto"
	"community-board-api/internal/middleware"
	"community-board-api/internal/response"
	"community-board-api/internal/service"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// Create godoc
// @Summary      댓글 작성
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateCommentRequest true "댓글 작성 요청"
// @Success      201 {object} dto.CommentResponse
// @Failure      404 {object} response.ErrorResponse "게시글을 찾을 수 없음"
// @Router       /comments [post]
func (h *CommentHandler) Create(c *gin.Context) {
	memberID, ok := middleware.MemberID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	comment, err := h.commentService.Write(c.Request.Context(), memberID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, comment)
}

// List godoc
// @Summary      댓글 검색
// @Description  게시글, 작성자, 기간 조건으로 댓글을 페이지 단위로 검색합니다
// @Tags         comments
// @Produce      json
// @Param        postId query int false "게시글 ID"
// @Param        writerId query int false "작성자 ID"
// @Param        period query string false "기간 (예: 1d, 2w, 3m, 1y)"
// @Param        page query int false "페이지 (기본 1)"
// @Param        size query int false "페이지 크기 (기본 20, 최대 100)"
// @Success      200 {object} dto.CommentPageResponse
// @Router       /comments [get]
func (h *CommentHandler) List(c *gin.Context) {
	var query dto.CommentSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid query parameters")
		return
	}

	page, err := h.commentService.List(c.Request.Context(), &query)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, page)
}

// TopNew godoc
// @Summary      최신 댓글 목록
// @Description  메인 페이지용 최신 댓글 5개를 반환합니다
// @Tags         comments
// @Produce      json
// @Success      200 {array} dto.CommentResponse
// @Router       /comments/top/new [get]
func (h *CommentHandler) TopNew(c *gin.Context) {
	comments, err := h.commentService.TopNew(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, comments)
}

// Update godoc
// @Summary      댓글 수정
// @Description  작성자 또는 관리자만 수정할 수 있습니다
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        commentId path int true "댓글 ID"
// @Param        request body dto.UpdateCommentRequest true "수정 요청"
// @Success      200 {object} dto.CommentResponse
// @Failure      403 {object} response.ErrorResponse "수정 권한 없음"
// @Failure      404 {object} response.ErrorResponse "댓글을 찾을 수 없음"
// @Router       /comments/{commentId} [put]
func (h *CommentHandler) Update(c *gin.Context) {
	memberID, ok := middleware.MemberID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	commentID, ok := parseIDParam(c, "commentId")
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	comment, err := h.commentService.Update(c.Request.Context(), commentID, memberID, middleware.MemberRole(c), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, comment)
}

// Delete godoc
// @Summary      댓글 삭제
// @Description  작성자 또는 관리자만 삭제할 수 있습니다
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        commentId path int true "댓글 ID"
// @Success      200 {object} map[string]bool
// @Failure      403 {object} response.ErrorResponse "삭제 권한 없음"
// @Failure      404 {object} response.ErrorResponse "댓글을 찾을 수 없음"
// @Router       /comments/{commentId} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	memberID, ok := middleware.MemberID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	commentID, ok := parseIDParam(c, "commentId")
	if !ok {
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), commentID, memberID, middleware.MemberRole(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"deleted": true})
}
