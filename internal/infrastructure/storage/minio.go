package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/pkg/config"
)

// Archiver stores uploaded source files in object storage for provenance.
// Records stay in Redis; only the original upload bytes land here.
type Archiver struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

// NewArchiver creates an archiver and ensures the bucket exists.
func NewArchiver(cfg *config.StorageConfig, logger *zap.Logger) (*Archiver, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	a := &Archiver{
		client: minioClient,
		bucket: cfg.BucketName,
		logger: logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return a, nil
}

func (a *Archiver) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// ArchiveUpload stores one uploaded source file under
// "uploads/{meetingID}/{filename}" and returns the object name.
func (a *Archiver) ArchiveUpload(ctx context.Context, meetingID, filename string, content []byte) (string, error) {
	objectName := fmt.Sprintf("uploads/%s/%s", meetingID, filepath.Base(filename))

	_, err := a.client.PutObject(ctx, a.bucket, objectName, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentTypeFor(filename),
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive upload: %w", err)
	}

	a.logger.Debug("upload archived",
		zap.String("meeting_id", meetingID),
		zap.String("object", objectName),
	)
	return objectName, nil
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".vtt":
		return "text/vtt"
	case ".md":
		return "text/markdown"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
