package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MockImageStore implements ImageStore for testing without AWS credentials
type MockImageStore struct {
	Bucket   string
	Region   string
	Endpoint string

	// Optional function overrides for custom test behavior
	GenerateKeyFunc func(memberID uint, fileExt string) string
	UploadFunc      func(ctx context.Context, key string, file io.Reader, contentType string) (string, error)
	DeleteFunc      func(ctx context.Context, key string) error
	GetFileURLFunc  func(key string) string
}

// NewMockImageStore creates a new mock image store for testing
func NewMockImageStore() *MockImageStore {
	return &MockImageStore{
		Bucket: "test-bucket",
		Region: "ap-northeast-2",
	}
}

// GenerateKey builds a unique object key
func (m *MockImageStore) GenerateKey(memberID uint, fileExt string) string {
	if m.GenerateKeyFunc != nil {
		return m.GenerateKeyFunc(memberID, fileExt)
	}

	now := time.Now()
	return fmt.Sprintf("profiles/%d/%s/%s/%s_%d%s",
		memberID, now.Format("2006"), now.Format("01"),
		uuid.New().String(), now.UnixNano(), fileExt)
}

// Upload simulates a file upload
func (m *MockImageStore) Upload(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, key, file, contentType)
	}
	return m.GetFileURL(key), nil
}

// Delete simulates a file deletion
func (m *MockImageStore) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

// GetFileURL returns the public URL for a file
func (m *MockImageStore) GetFileURL(key string) string {
	if m.GetFileURLFunc != nil {
		return m.GetFileURLFunc(key)
	}

	if m.Endpoint != "" && !strings.Contains(m.Endpoint, "amazonaws.com") {
		return fmt.Sprintf("%s/%s/%s", m.Endpoint, m.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.Bucket, m.Region, key)
}

// Ensure MockImageStore implements ImageStore
var _ ImageStore = (*MockImageStore)(nil)
