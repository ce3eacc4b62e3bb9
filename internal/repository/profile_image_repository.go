package repository

import (
	"context"

	"gorm.io/gorm"

	"community-board-api/internal/domain"
)

// ProfileImageRepository defines the interface for profile image data access
type ProfileImageRepository interface {
	FindByMemberID(ctx context.Context, memberID uint) (*domain.ProfileImage, error)
	Save(ctx context.Context, image *domain.ProfileImage) error
	DeleteByMemberID(ctx context.Context, memberID uint) error
}

// profileImageRepositoryImpl is the GORM implementation of ProfileImageRepository
type profileImageRepositoryImpl struct {
	db *gorm.DB
}

// NewProfileImageRepository creates a new instance of ProfileImageRepository
func NewProfileImageRepository(db *gorm.DB) ProfileImageRepository {
	return &profileImageRepositoryImpl{db: db}
}

// FindByMemberID finds the member's profile image row
func (r *profileImageRepositoryImpl) FindByMemberID(ctx context.Context, memberID uint) (*domain.ProfileImage, error) {
	var image domain.ProfileImage
	if err := conn(r.db).WithContext(ctx).
		Where("member_id = ?", memberID).
		First(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// Save creates or updates the profile image row
func (r *profileImageRepositoryImpl) Save(ctx context.Context, image *domain.ProfileImage) error {
	if err := conn(r.db).WithContext(ctx).Save(image).Error; err != nil {
		return err
	}
	return nil
}

// DeleteByMemberID removes the member's profile image row
func (r *profileImageRepositoryImpl) DeleteByMemberID(ctx context.Context, memberID uint) error {
	if err := conn(r.db).WithContext(ctx).
		Where("member_id = ?", memberID).
		Delete(&domain.ProfileImage{}).Error; err != nil {
		return err
	}
	return nil
}
