package response

import (
	"github.com/gin-gonic/gin"
)

// Error codes shared between services and handlers
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeInternal      = "INTERNAL_ERROR"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"

	// Member
	ErrCodeDuplicateUsername = "DUPLICATE_USERNAME"
	ErrCodeDuplicateNickname = "DUPLICATE_NICKNAME"
	ErrCodeEmailNotVerified  = "EMAIL_NOT_VERIFIED"
	ErrCodePasswordMismatch  = "PASSWORD_MISMATCH"

	// Post / Comment
	ErrCodeNotWriter          = "NOT_WRITER"
	ErrCodeInvalidContentKind = "INVALID_CONTENT_KIND"
)

// AppError is the error type returned by the service layer.
// Code is a machine-readable reason code so callers can branch on
// specific causes (e.g. duplicate nickname vs duplicate username).
type AppError struct {
	Code    string
	Message string
	Details string
}

// NewAppError creates a new AppError
func NewAppError(code, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// ErrorBody is the inner payload of an error response
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the error response envelope, used for API documentation
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// SendError writes a standard error response body
func SendError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// SendSuccess writes a standard success response body
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}
