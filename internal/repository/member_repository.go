package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"community-board-api/internal/domain"
)

// MemberRepository defines the interface for member data access
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	FindByID(ctx context.Context, id uint) (*domain.Member, error)
	FindByUsername(ctx context.Context, username string) (*domain.Member, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)
	ConfirmEmailAuth(ctx context.Context, username, token string, now time.Time) (*domain.Member, error)
	Update(ctx context.Context, member *domain.Member) error
	Delete(ctx context.Context, id uint) error
	FindExpiredUnverified(ctx context.Context, before time.Time) ([]*domain.Member, error)
	DeleteBatch(ctx context.Context, ids []uint) error
}

// memberRepositoryImpl is the GORM implementation of MemberRepository
type memberRepositoryImpl struct {
	db *gorm.DB
}

// NewMemberRepository creates a new instance of MemberRepository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepositoryImpl{db: db}
}

// Create creates a new member
func (r *memberRepositoryImpl) Create(ctx context.Context, member *domain.Member) error {
	if err := conn(r.db).WithContext(ctx).Create(member).Error; err != nil {
		return err
	}
	return nil
}

// FindByID finds a member by ID with the profile image preloaded
func (r *memberRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Member, error) {
	var member domain.Member
	if err := conn(r.db).WithContext(ctx).
		Preload("ProfileImage").
		First(&member, id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByUsername finds a member by username. The lookup is lower-cased to
// match the stored form.
func (r *memberRepositoryImpl) FindByUsername(ctx context.Context, username string) (*domain.Member, error) {
	var member domain.Member
	if err := conn(r.db).WithContext(ctx).
		Preload("ProfileImage").
		Where("username = ?", strings.ToLower(username)).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ExistsByUsername reports whether a member with the username already exists
func (r *memberRepositoryImpl) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := conn(r.db).WithContext(ctx).
		Model(&domain.Member{}).
		Where("username = ?", strings.ToLower(username)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByNickname reports whether a member with the nickname already exists
func (r *memberRepositoryImpl) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	var count int64
	if err := conn(r.db).WithContext(ctx).
		Model(&domain.Member{}).
		Where("nickname = ?", nickname).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ConfirmEmailAuth marks the member verified when the token matches, is not
// expired and has not been used yet. Returns gorm.ErrRecordNotFound when no
// row qualifies, which covers wrong, expired and replayed tokens alike.
func (r *memberRepositoryImpl) ConfirmEmailAuth(ctx context.Context, username, token string, now time.Time) (*domain.Member, error) {
	var member *domain.Member

	err := conn(r.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m domain.Member
		if err := tx.
			Where("username = ? AND email_auth_token = ? AND email_verified = ? AND email_auth_expires_at > ?",
				strings.ToLower(username), token, false, now).
			First(&m).Error; err != nil {
			return err
		}

		m.VerifyEmail()
		if err := tx.Model(&m).Update("email_verified", true).Error; err != nil {
			return err
		}

		member = &m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// Update saves the member's changed fields
func (r *memberRepositoryImpl) Update(ctx context.Context, member *domain.Member) error {
	if err := conn(r.db).WithContext(ctx).Save(member).Error; err != nil {
		return err
	}
	return nil
}

// Delete removes the member and everything they own. The cascade is explicit
// so behavior does not depend on database-level FK actions: comments on the
// member's posts go first, then the member's own comments, posts, profile
// image and finally the member row.
func (r *memberRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return conn(r.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		postIDs := tx.Model(&domain.Post{}).Select("id").Where("writer_id = ?", id)

		if err := tx.Where("post_id IN (?)", postIDs).
			Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("writer_id = ?", id).
			Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("writer_id = ?", id).
			Delete(&domain.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("member_id = ?", id).
			Delete(&domain.ProfileImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Member{}, id).Error
	})
}

// FindExpiredUnverified finds unverified members whose token expired before
// the given time, for the cleanup job
func (r *memberRepositoryImpl) FindExpiredUnverified(ctx context.Context, before time.Time) ([]*domain.Member, error) {
	var members []*domain.Member
	if err := conn(r.db).WithContext(ctx).
		Where("email_verified = ? AND email_auth_expires_at < ?", false, before).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// DeleteBatch removes multiple members including their owned rows
func (r *memberRepositoryImpl) DeleteBatch(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		if err := r.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
