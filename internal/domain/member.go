package domain

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Role is the account role of a member
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// EmailAuthWindow is how long an issued verification token stays valid
const EmailAuthWindow = 5 * time.Minute

// EmailAuth is the email verification state embedded in Member.
// A token is single-use: once Verified is set the token no longer matches
// the "not yet verified" confirmation lookup. Rotating the token resets
// Verified to support resend.
type EmailAuth struct {
	Verified  bool      `gorm:"column:email_verified;not null" json:"email_verified"`
	Token     string    `gorm:"column:email_auth_token;size:36" json:"-"`
	ExpiresAt time.Time `gorm:"column:email_auth_expires_at" json:"-"`
}

// NewEmailAuth issues a fresh unverified token valid for EmailAuthWindow
func NewEmailAuth(token string, now time.Time) EmailAuth {
	return EmailAuth{
		Verified:  false,
		Token:     token,
		ExpiresAt: now.Add(EmailAuthWindow),
	}
}

// Member represents a registered account. Username doubles as the member's
// email address and is stored lower-cased.
type Member struct {
	BaseModel
	Username  string  `gorm:"type:varchar(255);not null;uniqueIndex" json:"username"`
	Password  string  `gorm:"type:varchar(255);not null" json:"-"`
	EmailAuth `json:"email_auth"`
	Nickname  string `gorm:"type:varchar(20);not null;uniqueIndex" json:"nickname"`
	Signature string `gorm:"type:varchar(100)" json:"signature"`
	Role      Role   `gorm:"type:varchar(10);not null" json:"role"`

	// OAuth 2.0 linkage; nil for password accounts
	Provider     *string        `gorm:"type:varchar(30)" json:"provider,omitempty"`
	ProviderID   *string        `gorm:"type:varchar(255)" json:"provider_id,omitempty"`
	OAuthProfile datatypes.JSON `gorm:"type:jsonb" json:"-"`

	ProfileImage *ProfileImage `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"profile_image,omitempty"`
}

// TableName specifies the table name for Member
func (Member) TableName() string {
	return "members"
}

// NewMember creates an unverified USER account. The username is lower-cased
// at construction so uniqueness is case-insensitive.
func NewMember(username, passwordHash, nickname string, emailAuth EmailAuth) *Member {
	return &Member{
		Username:  strings.ToLower(username),
		Password:  passwordHash,
		EmailAuth: emailAuth,
		Nickname:  nickname,
		Role:      RoleUser,
	}
}

// VerifyEmail consumes the current token
func (m *Member) VerifyEmail() {
	m.Verified = true
}

// RotateEmailToken replaces the token and resets the verified flag so the
// new token must be confirmed again
func (m *Member) RotateEmailToken(token string, now time.Time) {
	m.EmailAuth = NewEmailAuth(token, now)
}

// IsOAuth reports whether the account was created through an OAuth provider
func (m *Member) IsOAuth() bool {
	return m.Provider != nil && m.ProviderID != nil
}

// AttachOAuth links an OAuth provider identity to the account
func (m *Member) AttachOAuth(provider, providerID string, rawProfile datatypes.JSON) {
	m.Provider = &provider
	m.ProviderID = &providerID
	m.OAuthProfile = rawProfile
}
