package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/docking-planner/internal/config"
	"github.com/docking-planner/internal/domain/repository"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// objectAPI is the subset of *minio.Client used for publishing.
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type s3Storage struct {
	client objectAPI
	bucket string
	region string
	logger *zap.Logger
}

// NewS3Storage подключается к S3-совместимому хранилищу (AWS S3, MinIO)
func NewS3Storage(cfg *config.StorageConfig, logger *zap.Logger) (repository.ObjectStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	logger.Info("Object storage client created",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.Bucket))

	return newS3Storage(client, cfg.Bucket, cfg.Region, logger), nil
}

func newS3Storage(client objectAPI, bucket, region string, logger *zap.Logger) *s3Storage {
	return &s3Storage{client: client, bucket: bucket, region: region, logger: logger}
}

// EnsureBucket создает бакет, если его нет
func (s *s3Storage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	s.logger.Info("Bucket created", zap.String("bucket", s.bucket))
	return nil
}

// PutObject загружает объект, перезаписывая предыдущую версию
func (s *s3Storage) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	info, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to store object %s in bucket %s: %w", key, s.bucket, err)
	}

	s.logger.Info("Object stored",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int64("size", info.Size))
	return nil
}
