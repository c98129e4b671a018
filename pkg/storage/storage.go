package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// ErrObjectNotFound indicates the requested key does not exist in the bucket.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is the contract the core uses to persist and fetch report files.
// Keys are opaque strings namespaced by course/session/student.
type ObjectStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
}

// Config contains credentials required to talk to the S3-compatible store.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Service implements ObjectStore using a MinIO/S3 client.
type Service struct {
	client *minio.Client
	bucket string
	logger zerolog.Logger
}

// New constructs a storage service instance and makes sure the bucket exists.
func New(cfg Config, logger zerolog.Logger) (*Service, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("object store credentials must be provided")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object store client: %w", err)
	}

	svc := &Service{
		client: client,
		bucket: cfg.Bucket,
		logger: logger.With().Str("component", "storage").Logger(),
	}

	exists, err := client.BucketExists(context.Background(), cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		svc.logger.Info().Str("bucket", cfg.Bucket).Msg("created object store bucket")
	}

	return svc, nil
}

// Upload stores the object under the given key and returns the key back.
func (s *Service) Upload(ctx context.Context, key string, reader io.Reader, size int64) (string, error) {
	info, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}

	s.logger.Info().Str("key", info.Key).Int64("size", info.Size).Msg("object uploaded")

	return key, nil
}

// Download fetches the full object bytes for the given key.
func (s *Service) Download(ctx context.Context, key string) ([]byte, error) {
	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer object.Close()

	buf := bytes.Buffer{}
	if _, err := io.Copy(&buf, object); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to read object: %w", err)
	}

	return buf.Bytes(), nil
}
