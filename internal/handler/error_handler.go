package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"community-board-api/internal/response"
)

// handleServiceError maps service layer errors to appropriate HTTP responses
func handleServiceError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.SendError(c, http.StatusNotFound, response.ErrCodeNotFound, "Resource not found")
		return
	}

	var appErr *response.AppError
	if errors.As(err, &appErr) {
		response.SendError(c, mapErrorCodeToHTTPStatus(appErr.Code), appErr.Code, appErr.Message)
		return
	}

	response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Internal server error")
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case response.ErrCodeNotFound:
		return http.StatusNotFound
	case response.ErrCodeValidation, response.ErrCodeInvalidContentKind:
		return http.StatusBadRequest
	case response.ErrCodeUnauthorized, response.ErrCodePasswordMismatch, response.ErrCodeEmailNotVerified:
		return http.StatusUnauthorized
	case response.ErrCodeForbidden, response.ErrCodeNotWriter:
		return http.StatusForbidden
	case response.ErrCodeAlreadyExists, response.ErrCodeDuplicateUsername, response.ErrCodeDuplicateNickname:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
