package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"community-board-api/internal/config"
	"community-board-api/internal/domain"
	"community-board-api/internal/dto"
	"community-board-api/internal/metrics"
	"community-board-api/internal/response"
	"community-board-api/internal/search"
	"community-board-api/internal/storage"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret: "test-secret-test-secret-test-secret!",
		Expiry: time.Hour,
	}
}

func newMemberServiceForTest(
	memberRepo *MockMemberRepository,
	postRepo *MockPostRepository,
	commentRepo *MockCommentRepository,
	profileImageRepo *MockProfileImageRepository,
	imageStore *storage.MockImageStore,
	mailSender *MockMailSender,
) MemberService {
	return NewMemberService(
		memberRepo,
		postRepo,
		commentRepo,
		profileImageRepo,
		imageStore,
		mailSender,
		testJWTConfig(),
		metrics.NewWithRegistry(prometheus.NewRegistry(), nil),
		zap.NewNop(),
	)
}

func verifiedMember(id uint, username, password, nickname string) *domain.Member {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	member := domain.NewMember(username, string(hash), nickname,
		domain.NewEmailAuth("token-"+nickname, time.Now()))
	member.ID = id
	member.VerifyEmail()
	return member
}

// appErrorCode extracts the AppError code, or "" for other errors
func appErrorCode(err error) string {
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func TestMemberService_Join(t *testing.T) {
	t.Run("registers member and sends verification", func(t *testing.T) {
		memberRepo := &MockMemberRepository{
			CreateFunc: func(ctx context.Context, member *domain.Member) error {
				member.ID = 1
				return nil
			},
		}
		mailSender := &MockMailSender{}
		svc := newMemberServiceForTest(memberRepo, &MockPostRepository{}, &MockCommentRepository{},
			&MockProfileImageRepository{}, &storage.MockImageStore{}, mailSender)

		resp, err := svc.Join(context.Background(), &dto.JoinRequest{
			Username: "Alice@Example.com",
			Password: "password123",
			Nickname: "alice",
		})

		require.NoError(t, err)
		assert.Equal(t, uint(1), resp.MemberID)
		assert.Equal(t, "alice@example.com", resp.Username)
		assert.False(t, resp.EmailVerified)
		assert.Equal(t, []string{"alice@example.com"}, mailSender.Verifications)
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		memberRepo := &MockMemberRepository{
			ExistsByUsernameFunc: func(ctx context.Context, username string) (bool, error) {
				return true, nil
			},
		}
		svc := newMemberServiceForTest(memberRepo, &MockPostRepository{}, &MockCommentRepository{},
			&MockProfileImageRepository{}, &storage.MockImageStore{}, &MockMailSender{})

		_, err := svc.Join(context.Background(), &dto.JoinRequest{
			Username: "alice@example.com",
			Password: "password123",
			Nickname: "alice",
		})

		assert.Equal(t, "DUPLICATE_USERNAME", appErrorCode(err))
	})

	t.Run("rejects duplicate nickname", func(t *testing.T) {
		memberRepo := &MockMemberRepository{
			ExistsByNicknameFunc: func(ctx context.Context, nickname string) (bool, error) {
				return true, nil
			},
		}
		svc := newMemberServiceForTest(memberRepo, &MockPostRepository{}, &MockCommentRepository{},
			&MockProfileImageRepository{}, &storage.MockImageStore{}, &MockMailSender{})

		_, err := svc.Join(context.Background(), &dto.JoinRequest{
			Username: "alice@example.com",
			Password: "password123",
			Nickname: "alice",
		})

		assert.Equal(t, "DUPLICATE_NICKNAME", appErrorCode(err))
	})
}

func TestMemberService_VerifyEmail(t *testing.T) {
	t.Run("invalid or expired token", func(t *testing.T) {
		memberRepo := &MockMemberRepository{
			ConfirmEmailAuthFunc: func(ctx context.Context, username, token string, now time.Time) (*domain.Member, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := newMemberServiceForTest(memberRepo, &MockPostRepository{}, &MockCommentRepository{},
			&MockProfileImageRepository{}, &storage.MockImageStore{}, &MockMailSender{})

		err := svc.VerifyEmail(context.Background(), "alice@example.com", "wrong-token")
		assert.Equal(t, "VALIDATION_ERROR", appErrorCode(err))
	})

	t.Run("valid token", func(t *testing.T) {
		memberRepo := &MockMemberRepository{
			ConfirmEmailAuthFunc: func(ctx context.Context, username, token string, now time.Time) (*domain.Member, error) {
				m := verifiedMember(1, username, "x", "alice")
				return m, nil
			},
		}
		svc := newMemberServiceForTest(memberRepo, &MockPostRepository{}, &MockCommentRepository{},
			&MockProfileImageRepository{}, &storage.MockImageStore{}, &MockMailSender{})

		assert.NoError(t, svc.VerifyEmail(context.Background(), "alice@example.com", "token"))
	})
}

func TestMemberService_Login(t *testing.T) {
	t.Run("issues token for verified member", func(t *testing.T) {
		member := verifiedMember(1, "alice@example.com", "password123", "alice")
		memberRepo := &MockMemberRepository{
			FindByUsernameFunc: func(ctx context.Context, username string) (*domain.Member, error) {
				return member, nil
			},
		}
		svc := newMemberServiceForTest(memberRepo, &MockPostRepository{}, &MockCommentRepository{},
			&MockProfileImageRepository{}, &storage.MockImageStore{}, &MockMailSender{})

		resp, err := svc.Login(context.Background(), &dto.LoginRequest{
			Username: "alice@example.com",
			Password: "password123",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, "alice", resp.Member.Nickname)
	})

	t.Run("unknown username looks like bad credentials", func(t *testing.T) {
		memberRepo := &MockMemberRepository{
			FindByUsernameFunc: func(ctx context.Context, username string) (*domain.Member, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := newMemberServiceForTest(memberRepo, &MockPostRepository{}, &MockCommentRepository{},
			&MockProfileImageRepository{}, &storage.MockImageStore{}, &MockMailSender{})

		_, err := svc.Login(context.Background(), &dto.LoginRequest{
			Username: "nobody@example.com",
			Password: "password123",
		})
		assert.Equal(t, "UNAUTHORIZED", appErrorCode(err))
	})

	t.Run("wrong password", func(t *testing.T) {
		member := verifiedMember(1, "alice@example.com", "password123", "alice")
		memberRepo := &MockMemberRepository{
			FindByUsernameFunc: func(ctx context.Context, username string) (*domain.Member, error) {
				return member, nil
			},
		}
		svc := newMemberServiceForTest(memberRepo, &MockPostRepository{}, &MockCommentRepository{},
			&MockProfileImageRepository{}, &storage.MockImageStore{}, &MockMailSender{})

		_, err := svc.Login(context.Background(), &dto.LoginRequest{
			Username: "alice@example.com",
			Password: "wrong",
		})
		assert.Equal(t, "PASSWORD_MISMATCH", appErrorCode(err))
	})

	t.Run("unverified member gets a fresh verification mail", func(t *testing.T) {
		hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
		member := domain.NewMember("alice@example.com", string(hash), "alice",
			domain.NewEmailAuth("old-token", time.Now().Add(-time.Hour)))
		member.ID = 1

		var updated *domain.Member
		memberRepo := &MockMemberRepository{
			FindByUsernameFunc: func(ctx context.Context, username string) (*domain.Member, error) {
				return member, nil
			},
			UpdateFunc: func(ctx context.Context, m *domain.Member) error {
				updated = m
				return nil
			},
		}
		mailSender := &MockMailSender{}
		svc := newMemberServiceForTest(memberRepo, &MockPostRepository{}, &MockCommentRepository{},
			&MockProfileImageRepository{}, &storage.MockImageStore{}, mailSender)

		_, err := svc.Login(context.Background(), &dto.LoginRequest{
			Username: "alice@example.com",
			Password: "password123",
		})

		assert.Equal(t, "EMAIL_NOT_VERIFIED", appErrorCode(err))
		require.NotNil(t, updated)
		assert.NotEqual(t, "old-token", updated.Token)
		assert.Len(t, mailSender.Verifications, 1)
	})
}

func TestMemberService_ForgotPassword(t *testing.T) {
	t.Run("replaces password and mails the temporary one", func(t *testing.T) {
		member := verifiedMember(1, "alice@example.com", "password123", "alice")
		oldHash := member.Password

		memberRepo := &MockMemberRepository{
			FindByUsernameFunc: func(ctx context.Context, username string) (*domain.Member, error) {
				return member, nil
			},
		}
		mailSender := &MockMailSender{}
		svc := newMemberServiceForTest(memberRepo, &MockPostRepository{}, &MockCommentRepository{},
			&MockProfileImageRepository{}, &storage.MockImageStore{}, mailSender)

		require.NoError(t, svc.ForgotPassword(context.Background(), "alice@example.com"))
		assert.NotEqual(t, oldHash, member.Password)

		tempPassword := mailSender.TempPasswords["alice@example.com"]
		require.NotEmpty(t, tempPassword)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(tempPassword)))
	})

	t.Run("refuses unverified accounts", func(t *testing.T) {
		member := domain.NewMember("alice@example.com", "hash", "alice",
			domain.NewEmailAuth("token", time.Now()))
		memberRepo := &MockMemberRepository{
			FindByUsernameFunc: func(ctx context.Context, username string) (*domain.Member, error) {
				return member, nil
			},
		}
		svc := newMemberServiceForTest(memberRepo, &MockPostRepository{}, &MockCommentRepository{},
			&MockProfileImageRepository{}, &storage.MockImageStore{}, &MockMailSender{})

		err := svc.ForgotPassword(context.Background(), "alice@example.com")
		assert.Equal(t, "EMAIL_NOT_VERIFIED", appErrorCode(err))
	})
}

func TestMemberService_Update(t *testing.T) {
	t.Run("changing nickname checks duplicates", func(t *testing.T) {
		member := verifiedMember(1, "alice@example.com", "password123", "alice")
		memberRepo := &MockMemberRepository{
			FindByIDFunc: func(ctx context.Context, id uint) (*domain.Member, error) {
				return member, nil
			},
			ExistsByNicknameFunc: func(ctx context.Context, nickname string) (bool, error) {
				return nickname == "taken", nil
			},
		}
		svc := newMemberServiceForTest(memberRepo, &MockPostRepository{}, &MockCommentRepository{},
			&MockProfileImageRepository{}, &storage.MockImageStore{}, &MockMailSender{})

		taken := "taken"
		_, err := svc.Update(context.Background(), 1, &dto.UpdateMemberRequest{
			CurrentPassword: "password123", Nickname: &taken})
		assert.Equal(t, "DUPLICATE_NICKNAME", appErrorCode(err))

		free := "bob"
		resp, err := svc.Update(context.Background(), 1, &dto.UpdateMemberRequest{
			CurrentPassword: "password123", Nickname: &free})
		require.NoError(t, err)
		assert.Equal(t, "bob", resp.Nickname)
	})

	t.Run("nil fields stay untouched", func(t *testing.T) {
		member := verifiedMember(1, "alice@example.com", "password123", "alice")
		member.Signature = "hello"
		memberRepo := &MockMemberRepository{
			FindByIDFunc: func(ctx context.Context, id uint) (*domain.Member, error) {
				return member, nil
			},
		}
		svc := newMemberServiceForTest(memberRepo, &MockPostRepository{}, &MockCommentRepository{},
			&MockProfileImageRepository{}, &storage.MockImageStore{}, &MockMailSender{})

		resp, err := svc.Update(context.Background(), 1, &dto.UpdateMemberRequest{
			CurrentPassword: "password123"})
		require.NoError(t, err)
		assert.Equal(t, "alice", resp.Nickname)
		assert.Equal(t, "hello", resp.Signature)
	})

	t.Run("wrong current password is rejected", func(t *testing.T) {
		member := verifiedMember(1, "alice@example.com", "password123", "alice")
		var saved bool
		memberRepo := &MockMemberRepository{
			FindByIDFunc: func(ctx context.Context, id uint) (*domain.Member, error) {
				return member, nil
			},
			UpdateFunc: func(ctx context.Context, m *domain.Member) error {
				saved = true
				return nil
			},
		}
		svc := newMemberServiceForTest(memberRepo, &MockPostRepository{}, &MockCommentRepository{},
			&MockProfileImageRepository{}, &storage.MockImageStore{}, &MockMailSender{})

		sig := "new signature"
		_, err := svc.Update(context.Background(), 1, &dto.UpdateMemberRequest{
			CurrentPassword: "wrong", Signature: &sig})
		assert.Equal(t, "PASSWORD_MISMATCH", appErrorCode(err))
		assert.False(t, saved)
	})

	t.Run("oauth accounts skip the password check", func(t *testing.T) {
		member := verifiedMember(1, "alice@example.com", "password123", "alice")
		member.AttachOAuth("google", "sub-123", nil)
		memberRepo := &MockMemberRepository{
			FindByIDFunc: func(ctx context.Context, id uint) (*domain.Member, error) {
				return member, nil
			},
		}
		svc := newMemberServiceForTest(memberRepo, &MockPostRepository{}, &MockCommentRepository{},
			&MockProfileImageRepository{}, &storage.MockImageStore{}, &MockMailSender{})

		sig := "via oauth"
		resp, err := svc.Update(context.Background(), 1, &dto.UpdateMemberRequest{Signature: &sig})
		require.NoError(t, err)
		assert.Equal(t, "via oauth", resp.Signature)
	})
}

func TestMemberService_Delete(t *testing.T) {
	t.Run("wrong password keeps the account", func(t *testing.T) {
		member := verifiedMember(1, "alice@example.com", "password123", "alice")
		var deleted bool
		memberRepo := &MockMemberRepository{
			FindByIDFunc: func(ctx context.Context, id uint) (*domain.Member, error) {
				return member, nil
			},
			DeleteFunc: func(ctx context.Context, id uint) error {
				deleted = true
				return nil
			},
		}
		svc := newMemberServiceForTest(memberRepo, &MockPostRepository{}, &MockCommentRepository{},
			&MockProfileImageRepository{}, &storage.MockImageStore{}, &MockMailSender{})

		err := svc.Delete(context.Background(), 1, "wrong")
		assert.Equal(t, "PASSWORD_MISMATCH", appErrorCode(err))
		assert.False(t, deleted)
	})

	t.Run("matching password deletes", func(t *testing.T) {
		member := verifiedMember(1, "alice@example.com", "password123", "alice")
		var deleted bool
		memberRepo := &MockMemberRepository{
			FindByIDFunc: func(ctx context.Context, id uint) (*domain.Member, error) {
				return member, nil
			},
			DeleteFunc: func(ctx context.Context, id uint) error {
				deleted = true
				return nil
			},
		}
		svc := newMemberServiceForTest(memberRepo, &MockPostRepository{}, &MockCommentRepository{},
			&MockProfileImageRepository{}, &storage.MockImageStore{}, &MockMailSender{})

		require.NoError(t, svc.Delete(context.Background(), 1, "password123"))
		assert.True(t, deleted)
	})

	t.Run("oauth accounts delete without a password", func(t *testing.T) {
		member := verifiedMember(1, "alice@example.com", "password123", "alice")
		member.AttachOAuth("google", "sub-123", nil)
		var deleted bool
		memberRepo := &MockMemberRepository{
			FindByIDFunc: func(ctx context.Context, id uint) (*domain.Member, error) {
				return member, nil
			},
			DeleteFunc: func(ctx context.Context, id uint) error {
				deleted = true
				return nil
			},
		}
		svc := newMemberServiceForTest(memberRepo, &MockPostRepository{}, &MockCommentRepository{},
			&MockProfileImageRepository{}, &storage.MockImageStore{}, &MockMailSender{})

		require.NoError(t, svc.Delete(context.Background(), 1, ""))
		assert.True(t, deleted)
	})
}

func TestMemberService_UpdateProfileImage(t *testing.T) {
	member := verifiedMember(1, "alice@example.com", "password123", "alice")
	memberRepo := &MockMemberRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Member, error) {
			return member, nil
		},
	}
	profileImageRepo := &MockProfileImageRepository{
		FindByMemberIDFunc: func(ctx context.Context, memberID uint) (*domain.ProfileImage, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}

	t.Run("rejects non-image content", func(t *testing.T) {
		svc := newMemberServiceForTest(memberRepo, &MockPostRepository{}, &MockCommentRepository{},
			profileImageRepo, &storage.MockImageStore{}, &MockMailSender{})

		_, err := svc.UpdateProfileImage(context.Background(), 1, "a.txt", "text/plain", []byte("x"))
		assert.Equal(t, "VALIDATION_ERROR", appErrorCode(err))
	})

	t.Run("rejects empty payload", func(t *testing.T) {
		svc := newMemberServiceForTest(memberRepo, &MockPostRepository{}, &MockCommentRepository{},
			profileImageRepo, &storage.MockImageStore{}, &MockMailSender{})

		_, err := svc.UpdateProfileImage(context.Background(), 1, "a.png", "image/png", nil)
		assert.Equal(t, "VALIDATION_ERROR", appErrorCode(err))
	})

	t.Run("uploads and saves the image row", func(t *testing.T) {
		var saved *domain.ProfileImage
		repo := &MockProfileImageRepository{
			FindByMemberIDFunc: func(ctx context.Context, memberID uint) (*domain.ProfileImage, error) {
				return nil, gorm.ErrRecordNotFound
			},
			SaveFunc: func(ctx context.Context, image *domain.ProfileImage) error {
				saved = image
				return nil
			},
		}
		store := &storage.MockImageStore{}
		svc := newMemberServiceForTest(memberRepo, &MockPostRepository{}, &MockCommentRepository{},
			repo, store, &MockMailSender{})

		_, err := svc.UpdateProfileImage(context.Background(), 1, "avatar.png", "image/png", []byte("png-bytes"))
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.True(t, saved.HasImage())
		assert.Equal(t, "avatar.png", *saved.OriginalName)
	})

	t.Run("upload failure surfaces as internal error", func(t *testing.T) {
		store := &storage.MockImageStore{
			UploadFunc: func(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
				return "", errors.New("s3 down")
			},
		}
		svc := newMemberServiceForTest(memberRepo, &MockPostRepository{}, &MockCommentRepository{},
			profileImageRepo, store, &MockMailSender{})

		_, err := svc.UpdateProfileImage(context.Background(), 1, "avatar.png", "image/png", []byte("png-bytes"))
		assert.Equal(t, "INTERNAL_ERROR", appErrorCode(err))
	})
}

func TestMemberService_Activity(t *testing.T) {
	now := time.Now()
	post := func(id uint, at time.Time) *domain.Post {
		p := &domain.Post{Title: "post", Content: "body"}
		p.ID = id
		p.CreatedAt = at
		return p
	}
	comment := func(id uint, at time.Time) *domain.Comment {
		c := &domain.Comment{PostID: 9, Content: "reply"}
		c.ID = id
		c.CreatedAt = at
		return c
	}

	memberRepo := &MockMemberRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Member, error) {
			return verifiedMember(id, "alice@example.com", "x", "alice"), nil
		},
	}
	postRepo := &MockPostRepository{
		ListFunc: func(ctx context.Context, filter search.PostFilter, page, size int) ([]*domain.Post, int64, error) {
			return []*domain.Post{post(1, now.Add(-3 * time.Minute)), post(2, now.Add(-1 * time.Minute))}, 2, nil
		},
	}
	commentRepo := &MockCommentRepository{
		ListFunc: func(ctx context.Context, filter search.CommentFilter, page, size int) ([]*domain.Comment, int64, error) {
			return []*domain.Comment{comment(3, now.Add(-2 * time.Minute))}, 1, nil
		},
	}

	svc := newMemberServiceForTest(memberRepo, postRepo, commentRepo,
		&MockProfileImageRepository{}, &storage.MockImageStore{}, &MockMailSender{})

	t.Run("blank kind merges both feeds", func(t *testing.T) {
		feed, err := svc.Activity(context.Background(), 1, "", 1, 10)
		require.NoError(t, err)
		require.Len(t, feed, 3)

		// newest first, posts and comments interleaved
		assert.Equal(t, dto.ContentKindPost, feed[0].Kind)
		assert.Equal(t, uint(2), feed[0].ID)
		assert.Equal(t, dto.ContentKindComment, feed[1].Kind)
		assert.Equal(t, uint(3), feed[1].ID)
		assert.Equal(t, dto.ContentKindPost, feed[2].Kind)

		// a page past the feed is empty, not an error
		empty, err := svc.Activity(context.Background(), 1, "", 5, 10)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("kind POST returns posts only and pages at the repository", func(t *testing.T) {
		var gotFilter search.PostFilter
		var gotPage, gotSize int
		pagingRepo := &MockPostRepository{
			ListFunc: func(ctx context.Context, filter search.PostFilter, page, size int) ([]*domain.Post, int64, error) {
				gotFilter, gotPage, gotSize = filter, page, size
				return []*domain.Post{post(1, now)}, 1, nil
			},
		}
		pagingSvc := newMemberServiceForTest(memberRepo, pagingRepo, commentRepo,
			&MockProfileImageRepository{}, &storage.MockImageStore{}, &MockMailSender{})

		feed, err := pagingSvc.Activity(context.Background(), 1, "POST", 2, 7)
		require.NoError(t, err)
		require.Len(t, feed, 1)
		assert.Equal(t, dto.ContentKindPost, feed[0].Kind)
		require.NotNil(t, gotFilter.WriterID)
		assert.Equal(t, uint(1), *gotFilter.WriterID)
		assert.Equal(t, 2, gotPage)
		assert.Equal(t, 7, gotSize)
	})

	t.Run("kind COMMENT returns comments only", func(t *testing.T) {
		feed, err := svc.Activity(context.Background(), 1, "COMMENT", 1, 10)
		require.NoError(t, err)
		require.Len(t, feed, 1)
		assert.Equal(t, dto.ContentKindComment, feed[0].Kind)
		assert.Equal(t, uint(9), feed[0].PostID)
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		_, err := svc.Activity(context.Background(), 1, "LIKES", 1, 10)
		assert.Equal(t, "INVALID_CONTENT_KIND", appErrorCode(err))
	})
}

func TestMemberService_AttachOAuth(t *testing.T) {
	member := verifiedMember(1, "alice@example.com", "password123", "alice")
	memberRepo := &MockMemberRepository{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Member, error) {
			return member, nil
		},
	}
	svc := newMemberServiceForTest(memberRepo, &MockPostRepository{}, &MockCommentRepository{},
		&MockProfileImageRepository{}, &storage.MockImageStore{}, &MockMailSender{})

	require.NoError(t, svc.AttachOAuth(context.Background(), 1, "google", "sub-123", []byte(`{"name":"alice"}`)))
	assert.True(t, member.IsOAuth())

	err := svc.AttachOAuth(context.Background(), 1, "github", "sub-456", nil)
	assert.Equal(t, "ALREADY_EXISTS", appErrorCode(err))
}
