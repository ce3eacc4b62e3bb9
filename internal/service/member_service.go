package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"community-board-api/internal/config"
	"community-board-api/internal/domain"
	"community-board-api/internal/dto"
	"community-board-api/internal/mail"
	"community-board-api/internal/metrics"
	"community-board-api/internal/repository"
	"community-board-api/internal/response"
	"community-board-api/internal/search"
	"community-board-api/internal/storage"
	"community-board-api/internal/util"
)

const (
	recentActivityLimit = 10
	maxProfileImageSize = 5 * 1024 * 1024
)

// MemberService defines the interface for member business logic
type MemberService interface {
	Join(ctx context.Context, req *dto.JoinRequest) (*dto.MemberResponse, error)
	VerifyEmail(ctx context.Context, username, token string) error
	ResendVerification(ctx context.Context, username string) error
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	ForgotPassword(ctx context.Context, username string) error
	Get(ctx context.Context, memberID uint) (*dto.MemberDetailResponse, error)
	Update(ctx context.Context, memberID uint, req *dto.UpdateMemberRequest) (*dto.MemberResponse, error)
	UpdateProfileImage(ctx context.Context, memberID uint, fileName, contentType string, data []byte) (*dto.MemberResponse, error)
	DeleteProfileImage(ctx context.Context, memberID uint) error
	Delete(ctx context.Context, memberID uint, password string) error
	Activity(ctx context.Context, memberID uint, kind string, page, size int) ([]dto.ActivityItemResponse, error)
	AttachOAuth(ctx context.Context, memberID uint, provider, providerID string, rawProfile []byte) error
}

// memberServiceImpl is the implementation of MemberService
type memberServiceImpl struct {
	memberRepo       repository.MemberRepository
	postRepo         repository.PostRepository
	commentRepo      repository.CommentRepository
	profileImageRepo repository.ProfileImageRepository
	imageStore       storage.ImageStore
	mailSender       mail.Sender
	jwtCfg           config.JWTConfig
	metrics          *metrics.Metrics
	logger           *zap.Logger
}

// NewMemberService creates a new instance of MemberService
func NewMemberService(
	memberRepo repository.MemberRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	profileImageRepo repository.ProfileImageRepository,
	imageStore storage.ImageStore,
	mailSender mail.Sender,
	jwtCfg config.JWTConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) MemberService {
	return &memberServiceImpl{
		memberRepo:       memberRepo,
		postRepo:         postRepo,
		commentRepo:      commentRepo,
		profileImageRepo: profileImageRepo,
		imageStore:       imageStore,
		mailSender:       mailSender,
		jwtCfg:           jwtCfg,
		metrics:          m,
		logger:           logger,
	}
}

// Join registers an unverified member and mails the verification token
func (s *memberServiceImpl) Join(ctx context.Context, req *dto.JoinRequest) (*dto.MemberResponse, error) {
	exists, err := s.memberRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check username", err.Error())
	}
	if exists {
		return nil, response.NewAppError(response.ErrCodeDuplicateUsername, "Username is already taken", "")
	}

	exists, err = s.memberRepo.ExistsByNickname(ctx, req.Nickname)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check nickname", err.Error())
	}
	if exists {
		return nil, response.NewAppError(response.ErrCodeDuplicateNickname, "Nickname is already taken", "")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to hash password", err.Error())
	}

	member := domain.NewMember(req.Username, string(hash), req.Nickname,
		domain.NewEmailAuth(uuid.NewString(), time.Now()))
	member.Signature = req.Signature

	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create member", err.Error())
	}

	s.mailSender.SendVerification(member.Username, member.Token)
	s.metrics.IncrementMemberCreated()
	s.logger.Info("Member registered",
		zap.Uint("member_id", member.ID),
		zap.String("username", member.Username))

	resp := dto.FromMember(member)
	return &resp, nil
}

// VerifyEmail consumes a verification token. Wrong, expired and already used
// tokens are indistinguishable to the caller.
func (s *memberServiceImpl) VerifyEmail(ctx context.Context, username, token string) error {
	_, err := s.memberRepo.ConfirmEmailAuth(ctx, username, token, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeValidation, "Invalid or expired verification token", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to verify email", err.Error())
	}

	s.logger.Info("Email verified", zap.String("username", strings.ToLower(username)))
	return nil
}

// ResendVerification rotates the token and mails it again
func (s *memberServiceImpl) ResendVerification(ctx context.Context, username string) error {
	member, err := s.memberRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Member not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to find member", err.Error())
	}

	if member.Verified {
		return response.NewAppError(response.ErrCodeValidation, "Email is already verified", "")
	}

	member.RotateEmailToken(uuid.NewString(), time.Now())
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to rotate verification token", err.Error())
	}

	s.mailSender.SendVerification(member.Username, member.Token)
	return nil
}

// Login checks credentials and issues an access token. An unverified member
// gets a fresh verification email instead of a token.
func (s *memberServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	member, err := s.memberRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeUnauthorized, "Invalid username or password", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to find member", err.Error())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(req.Password)); err != nil {
		return nil, response.NewAppError(response.ErrCodePasswordMismatch, "Invalid username or password", "")
	}

	if !member.Verified {
		// rotate and resend so the member can complete verification
		member.RotateEmailToken(uuid.NewString(), time.Now())
		if err := s.memberRepo.Update(ctx, member); err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to rotate verification token", err.Error())
		}
		s.mailSender.SendVerification(member.Username, member.Token)
		return nil, response.NewAppError(response.ErrCodeEmailNotVerified,
			"Email is not verified; a new verification email has been sent", "")
	}

	token, err := util.GenerateAccessToken(s.jwtCfg.Secret, member, s.jwtCfg.Expiry, time.Now())
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to issue token", err.Error())
	}

	return &dto.LoginResponse{
		AccessToken: token,
		Member:      dto.FromMember(member),
	}, nil
}

// ForgotPassword replaces the password with a mailed temporary one
func (s *memberServiceImpl) ForgotPassword(ctx context.Context, username string) error {
	member, err := s.memberRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Member not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to find member", err.Error())
	}

	if !member.Verified {
		return response.NewAppError(response.ErrCodeEmailNotVerified, "Email is not verified", "")
	}

	tempPassword, err := util.GenerateTempPassword()
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to generate temporary password", err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to hash password", err.Error())
	}

	member.Password = string(hash)
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to update password", err.Error())
	}

	s.mailSender.SendTempPassword(member.Username, tempPassword)
	s.logger.Info("Temporary password issued", zap.Uint("member_id", member.ID))
	return nil
}

// Get returns the member profile with their most recent posts and comments
func (s *memberServiceImpl) Get(ctx context.Context, memberID uint) (*dto.MemberDetailResponse, error) {
	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Member not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to find member", err.Error())
	}

	posts, _, err := s.postRepo.List(ctx, search.PostFilter{WriterID: &memberID}, 1, recentActivityLimit)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load recent posts", err.Error())
	}

	comments, _, err := s.commentRepo.List(ctx, search.CommentFilter{WriterID: &memberID}, 1, recentActivityLimit)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load recent comments", err.Error())
	}

	return &dto.MemberDetailResponse{
		MemberResponse: dto.FromMember(member),
		RecentPosts:    dto.FromPosts(posts),
		RecentComments: dto.FromComments(comments),
	}, nil
}

// Update applies a partial profile update; nil fields stay untouched. The
// current password must match unless the account is OAuth-linked.
func (s *memberServiceImpl) Update(ctx context.Context, memberID uint, req *dto.UpdateMemberRequest) (*dto.MemberResponse, error) {
	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Member not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to find member", err.Error())
	}

	if err := s.checkPassword(member, req.CurrentPassword); err != nil {
		return nil, err
	}

	if req.Nickname != nil && *req.Nickname != member.Nickname {
		exists, err := s.memberRepo.ExistsByNickname(ctx, *req.Nickname)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to check nickname", err.Error())
		}
		if exists {
			return nil, response.NewAppError(response.ErrCodeDuplicateNickname, "Nickname is already taken", "")
		}
		member.Nickname = *req.Nickname
	}

	if req.Signature != nil {
		member.Signature = *req.Signature
	}

	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to hash password", err.Error())
		}
		member.Password = string(hash)
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update member", err.Error())
	}

	resp := dto.FromMember(member)
	return &resp, nil
}

// UpdateProfileImage replaces the member's profile image in the object store
// and mirrors it into the database for inline display
func (s *memberServiceImpl) UpdateProfileImage(ctx context.Context, memberID uint, fileName, contentType string, data []byte) (*dto.MemberResponse, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, response.NewAppError(response.ErrCodeValidation, "File must be an image", "")
	}
	if len(data) == 0 || len(data) > maxProfileImageSize {
		return nil, response.NewAppError(response.ErrCodeValidation, "Image must be between 1 byte and 5 MB", "")
	}

	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Member not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to find member", err.Error())
	}

	ext := ""
	if i := strings.LastIndex(fileName, "."); i >= 0 {
		ext = fileName[i:]
	}
	key := s.imageStore.GenerateKey(memberID, ext)

	if _, err := s.imageStore.Upload(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to upload image", err.Error())
	}

	image, err := s.profileImageRepo.FindByMemberID(ctx, memberID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load profile image", err.Error())
		}
		image = &domain.ProfileImage{MemberID: memberID}
	}

	// best effort removal of the previous blob
	if image.HasImage() {
		if err := s.imageStore.Delete(ctx, *image.StoreKey); err != nil {
			s.logger.Warn("Failed to delete previous profile image",
				zap.Uint("member_id", memberID),
				zap.Error(err))
		}
	}

	storeName := key[strings.LastIndex(key, "/")+1:]
	image.Update(fileName, storeName, key, int64(len(data)),
		base64.StdEncoding.EncodeToString(data))

	if err := s.profileImageRepo.Save(ctx, image); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to save profile image", err.Error())
	}

	member.ProfileImage = image
	resp := dto.FromMember(member)
	return &resp, nil
}

// DeleteProfileImage clears the stored image
func (s *memberServiceImpl) DeleteProfileImage(ctx context.Context, memberID uint) error {
	image, err := s.profileImageRepo.FindByMemberID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Profile image not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to load profile image", err.Error())
	}

	if image.HasImage() {
		if err := s.imageStore.Delete(ctx, *image.StoreKey); err != nil {
			s.logger.Warn("Failed to delete profile image blob",
				zap.Uint("member_id", memberID),
				zap.Error(err))
		}
	}

	image.Clear()
	if err := s.profileImageRepo.Save(ctx, image); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to clear profile image", err.Error())
	}
	return nil
}

// checkPassword verifies the supplied password against the stored hash.
// OAuth-linked accounts have no usable password and skip the check.
func (s *memberServiceImpl) checkPassword(member *domain.Member, password string) error {
	if member.IsOAuth() {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(password)); err != nil {
		return response.NewAppError(response.ErrCodePasswordMismatch, "Password does not match", "")
	}
	return nil
}

// Delete removes the account and everything it owns. The current password
// must match unless the account is OAuth-linked.
func (s *memberServiceImpl) Delete(ctx context.Context, memberID uint, password string) error {
	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Member not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to find member", err.Error())
	}

	if err := s.checkPassword(member, password); err != nil {
		return err
	}

	if member.ProfileImage.HasImage() {
		if err := s.imageStore.Delete(ctx, *member.ProfileImage.StoreKey); err != nil {
			s.logger.Warn("Failed to delete profile image blob",
				zap.Uint("member_id", memberID),
				zap.Error(err))
		}
	}

	if err := s.memberRepo.Delete(ctx, memberID); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to delete member", err.Error())
	}

	s.logger.Info("Member deleted", zap.Uint("member_id", memberID))
	return nil
}

// Activity returns one page of the member's activity, newest first. The kind
// selects posts only, comments only, or (when blank) both merged.
func (s *memberServiceImpl) Activity(ctx context.Context, memberID uint, kind string, page, size int) ([]dto.ActivityItemResponse, error) {
	if _, err := s.memberRepo.FindByID(ctx, memberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeNotFound, "Member not found", "")
		}
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to find member", err.Error())
	}
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = recentActivityLimit
	}

	switch dto.ContentKind(kind) {
	case dto.ContentKindPost:
		return s.activityPosts(ctx, memberID, page, size)
	case dto.ContentKindComment:
		return s.activityComments(ctx, memberID, page, size)
	case "":
		return s.activityMerged(ctx, memberID, page, size)
	default:
		return nil, response.NewAppError(response.ErrCodeInvalidContentKind,
			"Unknown content kind", kind)
	}
}

func (s *memberServiceImpl) activityPosts(ctx context.Context, memberID uint, page, size int) ([]dto.ActivityItemResponse, error) {
	posts, _, err := s.postRepo.List(ctx, search.PostFilter{WriterID: &memberID}, page, size)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load posts", err.Error())
	}
	items := make([]dto.ActivityItemResponse, 0, len(posts))
	for _, p := range posts {
		items = append(items, postActivityItem(p))
	}
	return items, nil
}

func (s *memberServiceImpl) activityComments(ctx context.Context, memberID uint, page, size int) ([]dto.ActivityItemResponse, error) {
	comments, _, err := s.commentRepo.List(ctx, search.CommentFilter{WriterID: &memberID}, page, size)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load comments", err.Error())
	}
	items := make([]dto.ActivityItemResponse, 0, len(comments))
	for _, c := range comments {
		items = append(items, commentActivityItem(c))
	}
	return items, nil
}

func (s *memberServiceImpl) activityMerged(ctx context.Context, memberID uint, page, size int) ([]dto.ActivityItemResponse, error) {
	// over-fetch both kinds so the merged page is complete
	fetch := page * size
	posts, _, err := s.postRepo.List(ctx, search.PostFilter{WriterID: &memberID}, 1, fetch)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load posts", err.Error())
	}
	comments, _, err := s.commentRepo.List(ctx, search.CommentFilter{WriterID: &memberID}, 1, fetch)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to load comments", err.Error())
	}

	feed := make([]dto.ActivityItemResponse, 0, len(posts)+len(comments))
	for _, p := range posts {
		feed = append(feed, postActivityItem(p))
	}
	for _, c := range comments {
		feed = append(feed, commentActivityItem(c))
	}

	sort.Slice(feed, func(i, j int) bool {
		return feed[i].CreatedAt.After(feed[j].CreatedAt)
	})

	offset := (page - 1) * size
	if offset >= len(feed) {
		return []dto.ActivityItemResponse{}, nil
	}
	end := offset + size
	if end > len(feed) {
		end = len(feed)
	}
	return feed[offset:end], nil
}

func postActivityItem(p *domain.Post) dto.ActivityItemResponse {
	return dto.ActivityItemResponse{
		Kind:      dto.ContentKindPost,
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
	}
}

func commentActivityItem(c *domain.Comment) dto.ActivityItemResponse {
	return dto.ActivityItemResponse{
		Kind:      dto.ContentKindComment,
		ID:        c.ID,
		Content:   c.Content,
		PostID:    c.PostID,
		CreatedAt: c.CreatedAt,
	}
}

// AttachOAuth links an OAuth provider identity to an existing account
func (s *memberServiceImpl) AttachOAuth(ctx context.Context, memberID uint, provider, providerID string, rawProfile []byte) error {
	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewAppError(response.ErrCodeNotFound, "Member not found", "")
		}
		return response.NewAppError(response.ErrCodeInternal, "Failed to find member", err.Error())
	}

	if member.IsOAuth() {
		return response.NewAppError(response.ErrCodeAlreadyExists, "An OAuth provider is already linked", "")
	}

	member.AttachOAuth(provider, providerID, datatypes.JSON(rawProfile))
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return response.NewAppError(response.ErrCodeInternal, "Failed to link OAuth provider", err.Error())
	}
	return nil
}
