package dto

import (
	"encoding/json"
	"time"

	"community-board-api/internal/domain"
)

// JoinRequest represents the request to register a new member
type JoinRequest struct {
	Username  string `json:"username" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	Nickname  string `json:"nickname" binding:"required,min=2,max=20"`
	Signature string `json:"signature" binding:"max=100"`
}

// VerifyEmailRequest represents the email verification confirmation
type VerifyEmailRequest struct {
	Username string `json:"username" binding:"required,email"`
	Token    string `json:"token" binding:"required"`
}

// ResendEmailRequest represents a request to rotate and resend the
// verification token
type ResendEmailRequest struct {
	Username string `json:"username" binding:"required,email"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Username string `json:"username" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token and the member profile
type LoginResponse struct {
	AccessToken string         `json:"accessToken"`
	Member      MemberResponse `json:"member"`
}

// ForgotPasswordRequest represents a temporary password request
type ForgotPasswordRequest struct {
	Username string `json:"username" binding:"required,email"`
}

// AttachOAuthRequest links an OAuth provider identity to the account
type AttachOAuthRequest struct {
	Provider   string          `json:"provider" binding:"required,min=1,max=30"`
	ProviderID string          `json:"providerId" binding:"required"`
	Profile    json.RawMessage `json:"profile,omitempty"`
}

// UpdateMemberRequest represents a partial member update. Nil fields are
// left untouched. CurrentPassword must match the stored password unless the
// account is OAuth-linked.
type UpdateMemberRequest struct {
	CurrentPassword string  `json:"currentPassword"`
	Nickname        *string `json:"nickname,omitempty" binding:"omitempty,min=2,max=20"`
	Signature       *string `json:"signature,omitempty" binding:"omitempty,max=100"`
	Password        *string `json:"password,omitempty" binding:"omitempty,min=8,max=72"`
}

// DeleteMemberRequest confirms account deletion with the current password;
// OAuth-linked accounts may leave it blank
type DeleteMemberRequest struct {
	Password string `json:"password"`
}

// ProfileImageResponse represents the stored profile image
type ProfileImageResponse struct {
	OriginalName string `json:"originalName"`
	FileSize     int64  `json:"fileSize"`
	Base64Data   string `json:"base64Data"`
}

// MemberResponse represents the member profile response
type MemberResponse struct {
	MemberID      uint                  `json:"memberId"`
	Username      string                `json:"username"`
	Nickname      string                `json:"nickname"`
	Signature     string                `json:"signature"`
	Role          string                `json:"role"`
	EmailVerified bool                  `json:"emailVerified"`
	ProfileImage  *ProfileImageResponse `json:"profileImage,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
}

// MemberDetailResponse is the member profile plus recent activity
type MemberDetailResponse struct {
	MemberResponse
	RecentPosts    []PostResponse    `json:"recentPosts"`
	RecentComments []CommentResponse `json:"recentComments"`
}

// ContentKind tags the entries of a mixed activity feed
type ContentKind string

const (
	ContentKindPost    ContentKind = "POST"
	ContentKindComment ContentKind = "COMMENT"
)

// ActivityItemResponse is one entry of a member's activity feed. PostID is
// only set for comments and points at the commented post.
type ActivityItemResponse struct {
	Kind      ContentKind `json:"kind"`
	ID        uint        `json:"id"`
	Title     string      `json:"title,omitempty"`
	Content   string      `json:"content"`
	PostID    uint        `json:"postId,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// FromMember converts a domain member to its response form
func FromMember(m *domain.Member) MemberResponse {
	resp := MemberResponse{
		MemberID:      m.ID,
		Username:      m.Username,
		Nickname:      m.Nickname,
		Signature:     m.Signature,
		Role:          string(m.Role),
		EmailVerified: m.Verified,
		CreatedAt:     m.CreatedAt,
	}
	if m.ProfileImage.HasImage() {
		resp.ProfileImage = &ProfileImageResponse{
			OriginalName: stringValue(m.ProfileImage.OriginalName),
			FileSize:     int64Value(m.ProfileImage.FileSize),
			Base64Data:   stringValue(m.ProfileImage.Base64Data),
		}
	}
	return resp
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func int64Value(n *int64) int64 {
	if n == nil {
		return 0
	}
	return *n
}
