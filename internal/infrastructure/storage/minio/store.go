// Package minio stores validated pre-fill uploads in object storage.
package minio

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/spaarke/workspace-engine/internal/config"
	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/logging"
	"github.com/spaarke/workspace-engine/pkg/errors"
)

// MinIOAPI abstracts the minio client surface the store uses, for testing.
type MinIOAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts miniogo.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts miniogo.PutObjectOptions) (miniogo.UploadInfo, error)
}

// DocumentStore implements the pre-fill ObjectStore port over MinIO.
type DocumentStore struct {
	client MinIOAPI
	bucket string
	logger logging.Logger
}

// NewDocumentStore connects to MinIO and ensures the upload bucket exists.
func NewDocumentStore(cfg *config.MinIOConfig, log logging.Logger) (*DocumentStore, error) {
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to create minio client")
	}

	store := &DocumentStore{
		client: client,
		bucket: cfg.Bucket,
		logger: log.Named("minio"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.ensureBucket(ctx); err != nil {
		return nil, err
	}

	log.Info("Object store connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket))
	return store, nil
}

// NewDocumentStoreWithClient wraps an existing client (for testing).
func NewDocumentStoreWithClient(client MinIOAPI, bucket string, log logging.Logger) *DocumentStore {
	return &DocumentStore{client: client, bucket: bucket, logger: log}
}

func (s *DocumentStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return errors.Wrap(err, errors.CodeUpstreamUnavailable, "failed to check bucket")
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, miniogo.MakeBucketOptions{}); err != nil {
		return errors.Wrap(err, errors.CodeUpstreamUnavailable, "failed to create bucket")
	}
	return nil
}

// Store writes one upload under a per-identity prefix and returns the object
// key.  Keys embed a fresh UUID so repeated uploads of the same filename
// never collide.
func (s *DocumentStore) Store(ctx context.Context, identity, filename string, size int64, content io.Reader) (string, error) {
	key := fmt.Sprintf("prefill/%s/%s%s", identity, uuid.NewString(), filepath.Ext(filename))

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, content, size, miniogo.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"original-filename": path.Base(filename),
		},
	})
	if err != nil {
		return "", errors.Wrap(err, errors.CodeUpstreamUnavailable, "failed to store document")
	}

	s.logger.Debug("document stored",
		logging.String("identity", identity),
		logging.String("key", key))
	return key, nil
}
