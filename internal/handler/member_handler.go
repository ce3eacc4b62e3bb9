package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"community-board-api/internal/dto"
	"community-board-api/internal/middleware"
	"community-board-api/internal/response"
	"community-board-api/internal/service"
)

type MemberHandler struct {
	memberService service.MemberService
}

func NewMemberHandler(memberService service.MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

// Join godoc
// @Summary      회원 가입
// @Description  새 계정을 만들고 인증 메일을 발송합니다
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        request body dto.JoinRequest true "회원 가입 요청"
// @Success      201 {object} dto.MemberResponse
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      409 {object} response.ErrorResponse "중복된 이메일 또는 닉네임"
// @Router       /members [post]
func (h *MemberHandler) Join(c *gin.Context) {
	var req dto.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	member, err := h.memberService.Join(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, member)
}

// VerifyEmail godoc
// @Summary      이메일 인증
// @Description  메일로 받은 토큰을 확인합니다. 토큰은 1회용입니다.
// @Tags         members
// @Produce      json
// @Param        username query string true "이메일"
// @Param        token query string true "인증 토큰"
// @Success      200 {object} map[string]bool
// @Failure      400 {object} response.ErrorResponse "잘못되었거나 만료된 토큰"
// @Router       /members/verify-email [get]
func (h *MemberHandler) VerifyEmail(c *gin.Context) {
	username := c.Query("username")
	token := c.Query("token")
	if username == "" || token == "" {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "username and token are required")
		return
	}

	if err := h.memberService.VerifyEmail(c.Request.Context(), username, token); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"verified": true})
}

// ResendVerification godoc
// @Summary      인증 메일 재발송
// @Description  토큰을 새로 발급하고 인증 메일을 다시 보냅니다
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        request body dto.ResendEmailRequest true "재발송 요청"
// @Success      200 {object} map[string]bool
// @Failure      404 {object} response.ErrorResponse "회원을 찾을 수 없음"
// @Router       /members/verify-email/resend [post]
func (h *MemberHandler) ResendVerification(c *gin.Context) {
	var req dto.ResendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	if err := h.memberService.ResendVerification(c.Request.Context(), req.Username); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"sent": true})
}

// Login godoc
// @Summary      로그인
// @Description  자격 증명을 확인하고 액세스 토큰을 발급합니다
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "로그인 요청"
// @Success      200 {object} dto.LoginResponse
// @Failure      401 {object} response.ErrorResponse "잘못된 자격 증명 또는 미인증 이메일"
// @Router       /members/login [post]
func (h *MemberHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.memberService.Login(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

// ForgotPassword godoc
// @Summary      임시 비밀번호 발급
// @Description  비밀번호를 임시 비밀번호로 교체하고 메일로 보냅니다
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        request body dto.ForgotPasswordRequest true "임시 비밀번호 요청"
// @Success      200 {object} map[string]bool
// @Failure      404 {object} response.ErrorResponse "회원을 찾을 수 없음"
// @Router       /members/forgot-password [post]
func (h *MemberHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	if err := h.memberService.ForgotPassword(c.Request.Context(), req.Username); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"sent": true})
}

// GetMe godoc
// @Summary      내 프로필 조회
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.MemberDetailResponse
// @Router       /members/me [get]
func (h *MemberHandler) GetMe(c *gin.Context) {
	memberID, ok := middleware.MemberID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	member, err := h.memberService.Get(c.Request.Context(), memberID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, member)
}

// GetMember godoc
// @Summary      회원 프로필 조회
// @Tags         members
// @Produce      json
// @Param        memberId path int true "회원 ID"
// @Success      200 {object} dto.MemberDetailResponse
// @Failure      404 {object} response.ErrorResponse "회원을 찾을 수 없음"
// @Router       /members/{memberId} [get]
func (h *MemberHandler) GetMember(c *gin.Context) {
	memberID, ok := parseIDParam(c, "memberId")
	if !ok {
		return
	}

	member, err := h.memberService.Get(c.Request.Context(), memberID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, member)
}

// UpdateMe godoc
// @Summary      내 프로필 수정
// @Description  현재 비밀번호를 확인한 뒤 닉네임, 서명, 비밀번호를 부분 수정합니다
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.UpdateMemberRequest true "수정 요청"
// @Success      200 {object} dto.MemberResponse
// @Failure      401 {object} response.ErrorResponse "비밀번호 불일치"
// @Failure      409 {object} response.ErrorResponse "중복된 닉네임"
// @Router       /members/me [put]
func (h *MemberHandler) UpdateMe(c *gin.Context) {
	memberID, ok := middleware.MemberID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	member, err := h.memberService.Update(c.Request.Context(), memberID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, member)
}

// UpdateProfileImage godoc
// @Summary      프로필 이미지 업로드
// @Description  multipart 필드 "image"로 새 프로필 이미지를 올립니다 (최대 5MB)
// @Tags         members
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image formData file true "이미지 파일"
// @Success      200 {object} dto.MemberResponse
// @Failure      400 {object} response.ErrorResponse "이미지가 아니거나 너무 큼"
// @Router       /members/me/image [post]
func (h *MemberHandler) UpdateProfileImage(c *gin.Context) {
	memberID, ok := middleware.MemberID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "image file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Failed to open uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Failed to read uploaded file")
		return
	}

	member, err := h.memberService.UpdateProfileImage(c.Request.Context(), memberID,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, member)
}

// DeleteProfileImage godoc
// @Summary      프로필 이미지 삭제
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]bool
// @Router       /members/me/image [delete]
func (h *MemberHandler) DeleteProfileImage(c *gin.Context) {
	memberID, ok := middleware.MemberID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	if err := h.memberService.DeleteProfileImage(c.Request.Context(), memberID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

// DeleteMe godoc
// @Summary      회원 탈퇴
// @Description  비밀번호를 확인한 뒤 계정과 작성한 글, 댓글, 프로필 이미지를 모두 삭제합니다
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.DeleteMemberRequest false "탈퇴 확인 요청 (OAuth 계정은 생략 가능)"
// @Success      200 {object} map[string]bool
// @Failure      401 {object} response.ErrorResponse "비밀번호 불일치"
// @Router       /members/me [delete]
func (h *MemberHandler) DeleteMe(c *gin.Context) {
	memberID, ok := middleware.MemberID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	// OAuth-linked accounts have no password and may omit the body entirely
	var req dto.DeleteMemberRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.memberService.Delete(c.Request.Context(), memberID, req.Password); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"deleted": true})
}

// Activity godoc
// @Summary      회원 활동 내역
// @Description  작성한 글과 댓글을 최신순으로 반환합니다. kind 파라미터로 글(POST) 또는 댓글(COMMENT)만 조회할 수 있습니다
// @Tags         members
// @Produce      json
// @Param        memberId path int true "회원 ID"
// @Param        kind query string false "콘텐츠 종류 (POST | COMMENT, 생략 시 합친 피드)"
// @Param        page query int false "페이지 (기본 1)"
// @Param        size query int false "페이지 크기 (기본 10)"
// @Success      200 {array} dto.ActivityItemResponse
// @Failure      400 {object} response.ErrorResponse "알 수 없는 콘텐츠 종류"
// @Failure      404 {object} response.ErrorResponse "회원을 찾을 수 없음"
// @Router       /members/{memberId}/activity [get]
func (h *MemberHandler) Activity(c *gin.Context) {
	memberID, ok := parseIDParam(c, "memberId")
	if !ok {
		return
	}

	kind := c.Query("kind")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	feed, err := h.memberService.Activity(c.Request.Context(), memberID, kind, page, size)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, feed)
}

// AttachOAuth godoc
// @Summary      OAuth 계정 연결
// @Description  기존 계정에 OAuth 프로바이더 신원을 연결합니다
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AttachOAuthRequest true "연결 요청"
// @Success      200 {object} map[string]bool
// @Failure      409 {object} response.ErrorResponse "이미 연결됨"
// @Router       /members/me/oauth [post]
func (h *MemberHandler) AttachOAuth(c *gin.Context) {
	memberID, ok := middleware.MemberID(c)
	if !ok {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Authentication required")
		return
	}

	var req dto.AttachOAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	if err := h.memberService.AttachOAuth(c.Request.Context(), memberID,
		req.Provider, req.ProviderID, req.Profile); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"linked": true})
}

// parseIDParam parses a positive numeric path parameter
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}
