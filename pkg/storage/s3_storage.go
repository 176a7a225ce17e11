// Package storage stores uploaded media in an S3-compatible object store.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/anonto42/snapgram/backend/pkg/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// S3FileStorage keeps post images and avatars as objects keyed by file id.
// It works with AWS S3 and S3-compatible servers such as MinIO.
type S3FileStorage struct {
	client        *s3.Client
	bucket        string
	objectBaseURL string
	logger        *zap.Logger
}

// Option configures an S3FileStorage
type Option func(*S3FileStorage)

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *S3FileStorage) {
		s.logger = logger
	}
}

// NewS3FileStorage creates a file storage client from configuration.
func NewS3FileStorage(cfg *config.StorageConfig, opts ...Option) (*S3FileStorage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:9000"
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if cfg.UseSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})

	objectBase, err := objectBaseURL(cfg, endpoint)
	if err != nil {
		return nil, err
	}

	storage := &S3FileStorage{
		client:        client,
		bucket:        cfg.Bucket,
		objectBaseURL: objectBase,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(storage)
	}

	return storage, nil
}

// objectBaseURL is the prefix that object keys are appended to when building
// preview URLs. A configured public base URL addresses the bucket as a path
// segment; otherwise the endpoint is addressed the way the client is.
func objectBaseURL(cfg *config.StorageConfig, endpoint string) (string, error) {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/") + "/" + cfg.Bucket, nil
	}
	u, err := url.Parse(strings.TrimRight(endpoint, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid storage endpoint: %w", err)
	}
	if cfg.UsePathStyle {
		return u.String() + "/" + cfg.Bucket, nil
	}
	u.Host = cfg.Bucket + "." + u.Host
	return u.String(), nil
}

// publicReadPolicy lets anyone fetch objects, so preview URLs stored in
// documents keep working for the lifetime of the file.
const publicReadPolicy = `{
  "Version": "2012-10-17",
  "Statement": [{
    "Effect": "Allow",
    "Principal": {"AWS": ["*"]},
    "Action": ["s3:GetObject"],
    "Resource": ["arn:aws:s3:::%s/*"]
  }]
}`

// EnsureBucket creates the bucket if it doesn't exist and makes its objects
// publicly readable.
func (s *S3FileStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		var notFound *types.NotFound
		var noSuchBucket *types.NoSuchBucket
		if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
			return fmt.Errorf("failed to check bucket existence: %w", err)
		}

		s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
		_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
			Bucket: aws.String(s.bucket),
		})
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if err != nil && !errors.As(err, &alreadyOwned) {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	_, err = s.client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
		Bucket: aws.String(s.bucket),
		Policy: aws.String(fmt.Sprintf(publicReadPolicy, s.bucket)),
	})
	if err != nil {
		return fmt.Errorf("failed to make bucket publicly readable: %w", err)
	}
	return nil
}

// Upload stores data under fileID.
func (s *S3FileStorage) Upload(ctx context.Context, fileID string, data []byte, contentType string) error {
	if fileID == "" {
		return errors.New("file id is required")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(fileID),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// PreviewURL returns the permanent URL the client renders the file from. It
// is stored in documents, so it never carries a signature or expiry.
func (s *S3FileStorage) PreviewURL(_ context.Context, fileID string) (string, error) {
	if fileID == "" {
		return "", errors.New("file id is required")
	}
	return s.objectBaseURL + "/" + url.PathEscape(fileID), nil
}

// Delete removes the object stored under fileID.
func (s *S3FileStorage) Delete(ctx context.Context, fileID string) error {
	if fileID == "" {
		return errors.New("file id is required")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fileID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
