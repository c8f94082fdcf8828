package client

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MockS3Client implements S3ClientInterface for testing without AWS credentials
type MockS3Client struct {
	Bucket   string
	Region   string
	Endpoint string

	// Optional function overrides for custom test behavior
	GenerateFileKeyFunc            func(boardID, fileName string) string
	GeneratePresignedUploadURLFunc func(ctx context.Context, boardID, fileName, contentType string) (string, string, error)
	DeleteFileFunc                 func(ctx context.Context, key string) error
	GetFileURLFunc                 func(key string) string
}

// NewMockS3Client creates a new mock S3 client for testing
func NewMockS3Client() *MockS3Client {
	return &MockS3Client{
		Bucket:   "test-bucket",
		Region:   "us-east-1",
		Endpoint: "",
	}
}

// GenerateFileKey generates a unique object key for testing
func (m *MockS3Client) GenerateFileKey(boardID, fileName string) string {
	if m.GenerateFileKeyFunc != nil {
		return m.GenerateFileKeyFunc(boardID, fileName)
	}

	now := time.Now()
	fileExt := filepath.Ext(fileName)
	return fmt.Sprintf("attachments/%s/%d/%02d/%s_%d%s",
		boardID, now.Year(), now.Month(), uuid.New().String(), now.UnixNano(), fileExt)
}

// GeneratePresignedUploadURL generates a mock presigned URL for testing
func (m *MockS3Client) GeneratePresignedUploadURL(ctx context.Context, boardID, fileName, contentType string) (string, string, error) {
	if m.GeneratePresignedUploadURLFunc != nil {
		return m.GeneratePresignedUploadURLFunc(ctx, boardID, fileName, contentType)
	}

	fileKey := m.GenerateFileKey(boardID, fileName)

	now := time.Now().UTC().Format("20060102T150405Z")
	presignedURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s?X-Amz-Algorithm=AWS4-HMAC-SHA256&X-Amz-Date=%s&X-Amz-Expires=300&X-Amz-SignedHeaders=host&X-Amz-Signature=mocksignature123",
		m.Bucket,
		m.Region,
		fileKey,
		now,
	)

	return presignedURL, fileKey, nil
}

// DeleteFile simulates object deletion
func (m *MockS3Client) DeleteFile(ctx context.Context, key string) error {
	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(ctx, key)
	}
	return nil
}

// GetFileURL returns the public URL for an object key
func (m *MockS3Client) GetFileURL(key string) string {
	if m.GetFileURLFunc != nil {
		return m.GetFileURLFunc(key)
	}

	if m.Endpoint != "" && !strings.Contains(m.Endpoint, "amazonaws.com") {
		return fmt.Sprintf("%s/%s/%s", m.Endpoint, m.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.Bucket, m.Region, key)
}

// Ensure MockS3Client implements S3ClientInterface
var _ S3ClientInterface = (*MockS3Client)(nil)
