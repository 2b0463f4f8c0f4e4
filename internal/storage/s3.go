package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"alcyxob/fitness-sync/internal/config"
	"alcyxob/fitness-sync/internal/domain"
	"alcyxob/fitness-sync/internal/logger"
)

// s3API is the part of *s3.Client the store uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// s3Storage implements SnapshotStore on an S3-compatible backend.
type s3Storage struct {
	client     s3API
	presign    *s3.PresignClient
	bucketName string
	log        *logger.Logger
	now        func() time.Time
}

// NewS3Storage creates a snapshot store from the snapshots config section.
func NewS3Storage(ctx context.Context, cfg config.S3Config, log *logger.Logger) (SnapshotStore, error) {
	if log == nil {
		log = logger.Nop()
	}

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(ctx,
		awsCfg.WithRegion(cfg.Region),
		awsCfg.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := endpointURL(cfg.Endpoint, cfg.UseSSL)
	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		// Path-style addressing is what MinIO and most S3-compatible services expect.
		o.UsePathStyle = true
	})

	log.Info().Str("endpoint", endpoint).Str("bucket", cfg.BucketName).Msg("snapshot storage initialized")

	return &s3Storage{
		client:     s3Client,
		presign:    s3.NewPresignClient(s3Client),
		bucketName: cfg.BucketName,
		log:        log,
		now:        time.Now,
	}, nil
}

// endpointURL adds a scheme to a bare host:port endpoint.
func endpointURL(endpoint string, useSSL bool) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" || strings.Contains(endpoint, "://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

func (s *s3Storage) PutSnapshot(ctx context.Context, key string, body []byte, contentType string) (*domain.Snapshot, error) {
	if contentType == "" {
		contentType = ContentTypeJSON
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("failed to upload snapshot")
		return nil, fmt.Errorf("put snapshot %s: %w", key, err)
	}

	return &domain.Snapshot{
		ObjectKey:   key,
		ContentType: contentType,
		Size:        int64(len(body)),
		UploadedAt:  s.now().UTC(),
	}, nil
}

func (s *s3Storage) GetSnapshot(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("get snapshot %s: %w", key, err)
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

func (s *s3Storage) DeleteSnapshot(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Str("bucket", s.bucketName).Msg("failed to delete snapshot")
		return fmt.Errorf("delete snapshot %s: %w", key, err)
	}
	s.log.Debug().Str("key", key).Msg("snapshot deleted")
	return nil
}

// PresignedDownloadURL creates a temporary URL for downloading (GET).
func (s *s3Storage) PresignedDownloadURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	if expires <= 0 {
		expires = DefaultPresignedURLExpiry
	}
	if s.presign == nil {
		return "", errors.New("presigning is not available")
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}
