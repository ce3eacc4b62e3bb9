package service

import (
	"context"
	"time"

	"community-board-api/internal/cache"
	"community-board-api/internal/domain"
	"community-board-api/internal/search"
)

// MockMemberRepository is a mock implementation of MemberRepository
type MockMemberRepository struct {
	CreateFunc                func(ctx context.Context, member *domain.Member) error
	FindByIDFunc              func(ctx context.Context, id uint) (*domain.Member, error)
	FindByUsernameFunc        func(ctx context.Context, username string) (*domain.Member, error)
	ExistsByUsernameFunc      func(ctx context.Context, username string) (bool, error)
	ExistsByNicknameFunc      func(ctx context.Context, nickname string) (bool, error)
	ConfirmEmailAuthFunc      func(ctx context.Context, username, token string, now time.Time) (*domain.Member, error)
	UpdateFunc                func(ctx context.Context, member *domain.Member) error
	DeleteFunc                func(ctx context.Context, id uint) error
	FindExpiredUnverifiedFunc func(ctx context.Context, before time.Time) ([]*domain.Member, error)
	DeleteBatchFunc           func(ctx context.Context, ids []uint) error
}

func (m *MockMemberRepository) Create(ctx context.Context, member *domain.Member) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, member)
	}
	return nil
}

func (m *MockMemberRepository) FindByID(ctx context.Context, id uint) (*domain.Member, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockMemberRepository) FindByUsername(ctx context.Context, username string) (*domain.Member, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	return nil, nil
}

func (m *MockMemberRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.ExistsByUsernameFunc != nil {
		return m.ExistsByUsernameFunc(ctx, username)
	}
	return false, nil
}

func (m *MockMemberRepository) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	if m.ExistsByNicknameFunc != nil {
		return m.ExistsByNicknameFunc(ctx, nickname)
	}
	return false, nil
}

func (m *MockMemberRepository) ConfirmEmailAuth(ctx context.Context, username, token string, now time.Time) (*domain.Member, error) {
	if m.ConfirmEmailAuthFunc != nil {
		return m.ConfirmEmailAuthFunc(ctx, username, token, now)
	}
	return nil, nil
}

func (m *MockMemberRepository) Update(ctx context.Context, member *domain.Member) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, member)
	}
	return nil
}

func (m *MockMemberRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockMemberRepository) FindExpiredUnverified(ctx context.Context, before time.Time) ([]*domain.Member, error) {
	if m.FindExpiredUnverifiedFunc != nil {
		return m.FindExpiredUnverifiedFunc(ctx, before)
	}
	return nil, nil
}

func (m *MockMemberRepository) DeleteBatch(ctx context.Context, ids []uint) error {
	if m.DeleteBatchFunc != nil {
		return m.DeleteBatchFunc(ctx, ids)
	}
	return nil
}

// MockPostRepository is a mock implementation of PostRepository
type MockPostRepository struct {
	CreateFunc                func(ctx context.Context, post *domain.Post) error
	FindByIDFunc              func(ctx context.Context, id uint) (*domain.Post, error)
	ListFunc                  func(ctx context.Context, filter search.PostFilter, page, size int) ([]*domain.Post, int64, error)
	FindTopByCreatedAtFunc    func(ctx context.Context, filter search.PostFilter, limit int) ([]*domain.Post, error)
	FindTopByViewCountFunc    func(ctx context.Context, filter search.PostFilter, limit int) ([]*domain.Post, error)
	FindTopByCommentCountFunc func(ctx context.Context, filter search.PostFilter, limit int) ([]*domain.Post, error)
	IncrementViewCountFunc    func(ctx context.Context, id uint) error
	UpdateFunc                func(ctx context.Context, post *domain.Post) error
	DeleteFunc                func(ctx context.Context, id uint) error
}

func (m *MockPostRepository) Create(ctx context.Context, post *domain.Post) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, post)
	}
	return nil
}

func (m *MockPostRepository) FindByID(ctx context.Context, id uint) (*domain.Post, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockPostRepository) List(ctx context.Context, filter search.PostFilter, page, size int) ([]*domain.Post, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, page, size)
	}
	return nil, 0, nil
}

func (m *MockPostRepository) FindTopByCreatedAt(ctx context.Context, filter search.PostFilter, limit int) ([]*domain.Post, error) {
	if m.FindTopByCreatedAtFunc != nil {
		return m.FindTopByCreatedAtFunc(ctx, filter, limit)
	}
	return nil, nil
}

func (m *MockPostRepository) FindTopByViewCount(ctx context.Context, filter search.PostFilter, limit int) ([]*domain.Post, error) {
	if m.FindTopByViewCountFunc != nil {
		return m.FindTopByViewCountFunc(ctx, filter, limit)
	}
	return nil, nil
}

func (m *MockPostRepository) FindTopByCommentCount(ctx context.Context, filter search.PostFilter, limit int) ([]*domain.Post, error) {
	if m.FindTopByCommentCountFunc != nil {
		return m.FindTopByCommentCountFunc(ctx, filter, limit)
	}
	return nil, nil
}

func (m *MockPostRepository) IncrementViewCount(ctx context.Context, id uint) error {
	if m.IncrementViewCountFunc != nil {
		return m.IncrementViewCountFunc(ctx, id)
	}
	return nil
}

func (m *MockPostRepository) Update(ctx context.Context, post *domain.Post) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, post)
	}
	return nil
}

func (m *MockPostRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct {
	CreateFunc       func(ctx context.Context, comment *domain.Comment) error
	FindByIDFunc     func(ctx context.Context, id uint) (*domain.Comment, error)
	ListFunc         func(ctx context.Context, filter search.CommentFilter, page, size int) ([]*domain.Comment, int64, error)
	FindByPostIDFunc func(ctx context.Context, postID uint) ([]*domain.Comment, error)
	UpdateFunc       func(ctx context.Context, comment *domain.Comment) error
	DeleteFunc       func(ctx context.Context, id uint) error
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, comment)
	}
	return nil
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id uint) (*domain.Comment, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCommentRepository) List(ctx context.Context, filter search.CommentFilter, page, size int) ([]*domain.Comment, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, page, size)
	}
	return nil, 0, nil
}

func (m *MockCommentRepository) FindByPostID(ctx context.Context, postID uint) ([]*domain.Comment, error) {
	if m.FindByPostIDFunc != nil {
		return m.FindByPostIDFunc(ctx, postID)
	}
	return nil, nil
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, comment)
	}
	return nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	CreateFunc       func(ctx context.Context, category *domain.Category) error
	FindByIDFunc     func(ctx context.Context, id uint) (*domain.Category, error)
	FindByNameFunc   func(ctx context.Context, name string) (*domain.Category, error)
	FindAllFunc      func(ctx context.Context) ([]*domain.Category, error)
	ExistsByNameFunc func(ctx context.Context, name string) (bool, error)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, category)
	}
	return nil
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uint) (*domain.Category, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	if m.FindByNameFunc != nil {
		return m.FindByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *MockCategoryRepository) FindAll(ctx context.Context) ([]*domain.Category, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockCategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	if m.ExistsByNameFunc != nil {
		return m.ExistsByNameFunc(ctx, name)
	}
	return false, nil
}

// MockProfileImageRepository is a mock implementation of ProfileImageRepository
type MockProfileImageRepository struct {
	FindByMemberIDFunc   func(ctx context.Context, memberID uint) (*domain.ProfileImage, error)
	SaveFunc             func(ctx context.Context, image *domain.ProfileImage) error
	DeleteByMemberIDFunc func(ctx context.Context, memberID uint) error
}

func (m *MockProfileImageRepository) FindByMemberID(ctx context.Context, memberID uint) (*domain.ProfileImage, error) {
	if m.FindByMemberIDFunc != nil {
		return m.FindByMemberIDFunc(ctx, memberID)
	}
	return nil, nil
}

func (m *MockProfileImageRepository) Save(ctx context.Context, image *domain.ProfileImage) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, image)
	}
	return nil
}

func (m *MockProfileImageRepository) DeleteByMemberID(ctx context.Context, memberID uint) error {
	if m.DeleteByMemberIDFunc != nil {
		return m.DeleteByMemberIDFunc(ctx, memberID)
	}
	return nil
}

// MockViewTracker is a mock implementation of cache.ViewTracker
type MockViewTracker struct {
	TouchFunc func(ctx context.Context, key cache.ViewKey) bool
	Keys      []cache.ViewKey
}

func (m *MockViewTracker) Touch(ctx context.Context, key cache.ViewKey) bool {
	m.Keys = append(m.Keys, key)
	if m.TouchFunc != nil {
		return m.TouchFunc(ctx, key)
	}
	return true
}

// MockMailSender is a mock implementation of mail.Sender
type MockMailSender struct {
	Verifications []string
	TempPasswords map[string]string
}

func (m *MockMailSender) SendVerification(to, token string) {
	m.Verifications = append(m.Verifications, to)
}

func (m *MockMailSender) SendTempPassword(to, tempPassword string) {
	if m.TempPasswords == nil {
		m.TempPasswords = map[string]string{}
	}
	m.TempPasswords[to] = tempPassword
}
