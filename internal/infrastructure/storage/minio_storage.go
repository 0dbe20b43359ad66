// Package storage guarda las imágenes de producto en MinIO (API S3).
package storage

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"github.com/jhoicas/tienda-rfid-api/internal/application/usecase"
	"github.com/jhoicas/tienda-rfid-api/pkg/config"
)

var _ usecase.ImageStorage = (*MinioStorage)(nil)

// MinioStorage implementa usecase.ImageStorage. Las URLs de lectura son prefirmadas.
type MinioStorage struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

// NewMinioStorage crea el cliente. No abre conexión; EnsureBucket la verifica.
func NewMinioStorage(cfg config.MinIOConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error while creating minio client")
	}
	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &MinioStorage{client: client, bucket: cfg.Bucket, expiry: expiry}, nil
}

// EnsureBucket crea el bucket si no existe.
func (s *MinioStorage) EnsureBucket(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return errors.Wrap(err, "error while checking bucket")
	}
	if ok {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return errors.Wrap(err, "error while creating bucket")
	}
	return nil
}

func (s *MinioStorage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrap(err, "error while upload file to minio")
	}
	return nil
}

func (s *MinioStorage) URL(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.expiry, url.Values{})
	if err != nil {
		return "", errors.Wrap(err, "error while presigning url")
	}
	return u.String(), nil
}

func (s *MinioStorage) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, "error while removing object")
	}
	return nil
}
