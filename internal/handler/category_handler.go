package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"community-board-api/internal/dto"
	"community-board-api/internal/response"
	"community-board-api/internal/service"
)

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// Create godoc
// @Summary      카테고리 생성
// @Description  관리자 전용. 부모를 지정하면 하위 카테고리로 생성됩니다.
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateCategoryRequest true "카테고리 생성 요청"
// @Success      201 {object} dto.CategoryResponse
// @Failure      403 {object} response.ErrorResponse "관리자 권한 필요"
// @Failure      409 {object} response.ErrorResponse "중복된 이름"
// @Router       /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, category)
}

// Get godoc
// @Summary      카테고리 조회
// @Tags         categories
// @Produce      json
// @Param        categoryId path int true "카테고리 ID"
// @Success      200 {object} dto.CategoryResponse
// @Failure      404 {object} response.ErrorResponse "카테고리를 찾을 수 없음"
// @Router       /categories/{categoryId} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "categoryId")
	if !ok {
		return
	}

	category, err := h.categoryService.Get(c.Request.Context(), categoryID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, category)
}

// Tree godoc
// @Summary      카테고리 트리 조회
// @Description  전체 카테고리를 트리 형태로 반환합니다
// @Tags         categories
// @Produce      json
// @Success      200 {array} dto.CategoryResponse
// @Router       /categories [get]
func (h *CategoryHandler) Tree(c *gin.Context) {
	tree, err := h.categoryService.Tree(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, tree)
}
