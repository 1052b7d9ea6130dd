package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// Archive stores the original uploaded files in object storage so parsed
// submissions can be re-examined later.
type Archive struct {
	client *minio.Client
	bucket string
	logger zerolog.Logger
}

// NewArchive connects to the object store and ensures the bucket exists.
func NewArchive(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool, logger zerolog.Logger) (*Archive, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client for %s: %w", endpoint, err)
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(checkCtx, bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(checkCtx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("creating bucket %s: %w", bucket, err)
		}
		logger.Info().Str("bucket", bucket).Msg("created archive bucket")
	}
	return &Archive{client: client, bucket: bucket, logger: logger}, nil
}

// Store uploads one original file under the given object name and returns
// the object name for persistence.
func (a *Archive) Store(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	info, err := a.client.PutObject(ctx, a.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("archiving %s: %w", objectName, err)
	}
	a.logger.Debug().
		Str("object", objectName).
		Int64("bytes", info.Size).
		Msg("archived original file")
	return objectName, nil
}
