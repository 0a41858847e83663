package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ObjectStorage stores uploaded attachments and returns a public URL for
// each stored object.
type ObjectStorage interface {
	Store(ctx context.Context, filename string, contentType string, r io.Reader) (string, error)
	Close() error
}

type gcsStorage struct {
	client *storage.Client
	bucket string
	logger *zap.Logger
}

// NewGCSStorage creates an ObjectStorage backed by a Google Cloud Storage
// bucket. Credentials come from the environment (application default
// credentials).
func NewGCSStorage(ctx context.Context, bucket string, logger *zap.Logger) (ObjectStorage, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &gcsStorage{
		client: client,
		bucket: bucket,
		logger: logger.Named("gcs-storage"),
	}, nil
}

var _ ObjectStorage = (*gcsStorage)(nil)

// Store writes the object under a date-prefixed random key so uploads never
// collide and the original filename survives only as a suffix.
func (s *gcsStorage) Store(ctx context.Context, filename string, contentType string, r io.Reader) (string, error) {
	key := objectKey(filename)

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = resolveContentType(filename, contentType)

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object %s: %w", key, err)
	}

	s.logger.Debug("Stored attachment",
		zap.String("bucket", s.bucket),
		zap.String("key", key))

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key), nil
}

func (s *gcsStorage) Close() error {
	return s.client.Close()
}

func objectKey(filename string) string {
	base := filepath.Base(filename)
	base = strings.ReplaceAll(base, " ", "_")
	return fmt.Sprintf("%s/%s_%s", time.Now().UTC().Format("2006/01/02"), uuid.New().String(), base)
}

func resolveContentType(filename, declared string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}
