package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"community-board-api/internal/domain"
)

// setupRepoTestDB opens an in-memory sqlite database with the full schema
func setupRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&domain.Member{},
		&domain.ProfileImage{},
		&domain.Category{},
		&domain.Post{},
		&domain.Comment{},
	))
	return db
}

func createMember(t *testing.T, db *gorm.DB, username, nickname string, auth domain.EmailAuth) *domain.Member {
	t.Helper()
	member := domain.NewMember(username, "hash", nickname, auth)
	require.NoError(t, db.Create(member).Error)
	return member
}

func TestMemberRepository_FindByUsername(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	createMember(t, db, "Alice@Example.com", "alice", domain.NewEmailAuth("token", time.Now()))

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		found, err := repo.FindByUsername(ctx, "ALICE@example.COM")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", found.Username)
	})

	t.Run("missing member yields record-not-found", func(t *testing.T) {
		_, err := repo.FindByUsername(ctx, "nobody@example.com")
		assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	})

	t.Run("exists checks", func(t *testing.T) {
		exists, err := repo.ExistsByUsername(ctx, "Alice@Example.Com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByNickname(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

func TestMemberRepository_ConfirmEmailAuth(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("valid token verifies the member", func(t *testing.T) {
		db := setupRepoTestDB(t)
		repo := NewMemberRepository(db)
		createMember(t, db, "alice@example.com", "alice", domain.NewEmailAuth("good-token", now))

		member, err := repo.ConfirmEmailAuth(ctx, "alice@example.com", "good-token", now)
		require.NoError(t, err)
		assert.True(t, member.Verified)

		var stored domain.Member
		require.NoError(t, db.Where("username = ?", "alice@example.com").First(&stored).Error)
		assert.True(t, stored.Verified)
	})

	t.Run("wrong token does not verify", func(t *testing.T) {
		db := setupRepoTestDB(t)
		repo := NewMemberRepository(db)
		createMember(t, db, "alice@example.com", "alice", domain.NewEmailAuth("good-token", now))

		_, err := repo.ConfirmEmailAuth(ctx, "alice@example.com", "bad-token", now)
		assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	})

	t.Run("expired token does not verify", func(t *testing.T) {
		db := setupRepoTestDB(t)
		repo := NewMemberRepository(db)
		createMember(t, db, "alice@example.com", "alice",
			domain.NewEmailAuth("good-token", now.Add(-2*domain.EmailAuthWindow)))

		_, err := repo.ConfirmEmailAuth(ctx, "alice@example.com", "good-token", now)
		assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	})

	t.Run("token is single use", func(t *testing.T) {
		db := setupRepoTestDB(t)
		repo := NewMemberRepository(db)
		createMember(t, db, "alice@example.com", "alice", domain.NewEmailAuth("good-token", now))

		_, err := repo.ConfirmEmailAuth(ctx, "alice@example.com", "good-token", now)
		require.NoError(t, err)

		// the replay is indistinguishable from a wrong token
		_, err = repo.ConfirmEmailAuth(ctx, "alice@example.com", "good-token", now)
		assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	})
}

func TestMemberRepository_Delete_Cascade(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()

	alice := createMember(t, db, "alice@example.com", "alice", domain.NewEmailAuth("t1", time.Now()))
	bob := createMember(t, db, "bob@example.com", "bob", domain.NewEmailAuth("t2", time.Now()))

	category := domain.Category{Name: "free"}
	require.NoError(t, db.Create(&category).Error)

	alicePost := domain.Post{WriterID: alice.ID, CategoryID: category.ID, Title: "a", Content: "a"}
	bobPost := domain.Post{WriterID: bob.ID, CategoryID: category.ID, Title: "b", Content: "b"}
	require.NoError(t, db.Create(&alicePost).Error)
	require.NoError(t, db.Create(&bobPost).Error)

	comments := []domain.Comment{
		{WriterID: alice.ID, PostID: alicePost.ID, Content: "own post"},
		{WriterID: alice.ID, PostID: bobPost.ID, Content: "on bob's post"},
		{WriterID: bob.ID, PostID: alicePost.ID, Content: "bob on alice's post"},
		{WriterID: bob.ID, PostID: bobPost.ID, Content: "bob on own post"},
	}
	for i := range comments {
		require.NoError(t, db.Create(&comments[i]).Error)
	}

	image := domain.ProfileImage{MemberID: alice.ID}
	image.Update("avatar.png", "store", "key", 4, "data")
	require.NoError(t, db.Create(&image).Error)

	require.NoError(t, repo.Delete(ctx, alice.ID))

	var memberCount, postCount, commentCount, imageCount int64
	db.Model(&domain.Member{}).Count(&memberCount)
	db.Model(&domain.Post{}).Count(&postCount)
	db.Model(&domain.Comment{}).Count(&commentCount)
	db.Model(&domain.ProfileImage{}).Count(&imageCount)

	// alice's posts, all comments on them, her comments elsewhere and her
	// profile image are gone; bob's post and his comment on it survive
	assert.Equal(t, int64(1), memberCount)
	assert.Equal(t, int64(1), postCount)
	assert.Equal(t, int64(1), commentCount)
	assert.Equal(t, int64(0), imageCount)

	var survivor domain.Comment
	require.NoError(t, db.First(&survivor).Error)
	assert.Equal(t, "bob on own post", survivor.Content)
}

func TestMemberRepository_FindExpiredUnverified(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()
	now := time.Now()

	// expired and unverified: eligible
	createMember(t, db, "stale@example.com", "stale",
		domain.NewEmailAuth("t1", now.Add(-30*24*time.Hour)))
	// expired but verified: kept
	verified := createMember(t, db, "old@example.com", "old",
		domain.NewEmailAuth("t2", now.Add(-30*24*time.Hour)))
	verified.VerifyEmail()
	require.NoError(t, db.Save(verified).Error)
	// unverified but the token is still fresh: kept
	createMember(t, db, "new@example.com", "newbie", domain.NewEmailAuth("t3", now))

	stale, err := repo.FindExpiredUnverified(ctx, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "stale@example.com", stale[0].Username)

	require.NoError(t, repo.DeleteBatch(ctx, []uint{stale[0].ID}))

	var count int64
	db.Model(&domain.Member{}).Count(&count)
	assert.Equal(t, int64(2), count)
}
