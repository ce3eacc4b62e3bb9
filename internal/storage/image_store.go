// Package storage holds the object-store client used for profile images.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	appConfig "community-board-api/internal/config"
	"community-board-api/internal/metrics"
)

// ImageStore defines the interface for profile image blob storage
type ImageStore interface {
	GenerateKey(memberID uint, fileExt string) string
	Upload(ctx context.Context, key string, file io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	GetFileURL(key string) string
}

// S3ImageStore wraps the AWS S3 client and implements ImageStore
type S3ImageStore struct {
	client   *s3.Client
	bucket   string
	region   string
	endpoint string // set when running against MinIO
	metrics  *metrics.Metrics
}

// NewS3ImageStore creates a new S3-backed image store
func NewS3ImageStore(cfg *appConfig.S3Config, m *metrics.Metrics) (*S3ImageStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("S3 region is required")
	}

	var awsCfg aws.Config
	var err error

	if cfg.Endpoint != "" {
		// MinIO requires explicit credentials
		if cfg.AccessKey == "" || cfg.SecretKey == "" {
			return nil, fmt.Errorf("access key and secret key are required for MinIO endpoint")
		}

		awsCfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(cfg.Region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			)),
			config.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
				func(service, region string, options ...interface{}) (aws.Endpoint, error) {
					return aws.Endpoint{
						URL:               cfg.Endpoint,
						HostnameImmutable: true,
						SigningRegion:     cfg.Region,
					}, nil
				},
			)),
		)
	} else {
		// Use AWS SDK default credential chain (IAM role on EC2, ~/.aws/credentials locally)
		awsCfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(cfg.Region),
		)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.UsePathStyle = true // Required for MinIO
		}
	})

	return &S3ImageStore{
		client:   s3Client,
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		endpoint: cfg.Endpoint,
		metrics:  m,
	}, nil
}

// GenerateKey builds a unique object key for a member's profile image.
// Format: profiles/{memberID}/{year}/{month}/{uuid}_{timestamp}{ext}
func (c *S3ImageStore) GenerateKey(memberID uint, fileExt string) string {
	now := time.Now()
	return fmt.Sprintf("profiles/%d/%s/%s/%s_%d%s",
		memberID, now.Format("2006"), now.Format("01"),
		uuid.New().String(), now.Unix(), fileExt)
}

// Upload stores the image and returns its public URL
func (c *S3ImageStore) Upload(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
	start := time.Now()
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if c.metrics != nil {
		c.metrics.RecordDependencyCall("s3", "upload", time.Since(start), err)
	}
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return c.GetFileURL(key), nil
}

// Delete removes the image from the bucket
func (c *S3ImageStore) Delete(ctx context.Context, key string) error {
	start := time.Now()
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if c.metrics != nil {
		c.metrics.RecordDependencyCall("s3", "delete", time.Since(start), err)
	}
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// GetFileURL returns the public URL for a stored image
func (c *S3ImageStore) GetFileURL(key string) string {
	if c.endpoint != "" {
		// MinIO path style, e.g. http://localhost:9000/bucket/key
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(c.endpoint, "/"), c.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key)
}
